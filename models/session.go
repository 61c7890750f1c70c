package models

// Tool event statuses published to the call-observability channel.
const (
	EventStarted   = "started"
	EventCompleted = "completed"
	EventFailed    = "failed"
)

// ToolEvent describes one tool invocation stage, published per call.
type ToolEvent struct {
	CallID  string         `json:"call_id"`
	Tool    string         `json:"tool"`
	Status  string         `json:"status"`
	Payload map[string]any `json:"payload,omitempty"`
}

// SessionData is the structured export handed to the summary consumer once
// per call. The slices are copies; the session keeps no references to them.
type SessionData struct {
	Guest       *Guest        `json:"guest,omitempty"`
	Bookings    []Appointment `json:"bookings"`
	Preferences []string      `json:"preferences"`
}
