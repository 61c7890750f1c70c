package models

import "time"

// CallRecord is the persisted post-call artifact. The summary text itself is
// produced by an external collaborator; the engine stores it verbatim together
// with the bookings snapshot from the session.
type CallRecord struct {
	ID        string        `bson:"id" json:"id"`
	GuestID   string        `bson:"guest_id,omitempty" json:"guest_id,omitempty"`
	Content   string        `bson:"content" json:"content"`
	Bookings  []Appointment `bson:"bookings_snapshot" json:"bookings_snapshot"`
	Timestamp string        `bson:"timestamp" json:"timestamp"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}
