package reservation

import (
	"context"

	"maitred/models"
	"maitred/services/events"
	"maitred/utils"

	"go.uber.org/zap"
)

// State is the session's lifecycle position within one call.
type State string

const (
	StateAnonymous  State = "anonymous"
	StateIdentified State = "identified"
	StateEnded      State = "ended"
)

// Session is the per-call aggregate. It holds the resolved guest, the
// appointments booked during this call, and mentioned preferences. The
// orchestrator invokes its operations one at a time, so no internal locking
// is needed; sessions only share state through the storage collaborator.
type Session struct {
	callID string
	state  State

	guest       *models.Guest
	bookings    []models.Appointment
	preferences []string

	identity IdentityResolver
	oracle   AvailabilityOracle
	ledger   AppointmentLedger
	events   events.Publisher
}

// NewSession creates an anonymous session for one call.
func NewSession(callID string, identity IdentityResolver, oracle AvailabilityOracle, ledger AppointmentLedger, publisher events.Publisher) *Session {
	return &Session{
		callID:   callID,
		state:    StateAnonymous,
		identity: identity,
		oracle:   oracle,
		ledger:   ledger,
		events:   publisher,
	}
}

// CallID returns the owning call's identifier.
func (s *Session) CallID() string { return s.callID }

// State returns the session's current lifecycle state.
func (s *Session) State() State { return s.state }

// Guest returns the resolved guest, nil while anonymous.
func (s *Session) Guest() *models.Guest { return s.guest }

// Ended reports whether end_conversation has been raised. Termination is
// advisory to the orchestrator; operations are not rejected afterwards.
func (s *Session) Ended() bool { return s.state == StateEnded }

// Identify resolves the caller and transitions the session to Identified.
func (s *Session) Identify(ctx context.Context, contactNumber, name string) (*models.Guest, error) {
	guest, err := s.identity.Resolve(ctx, contactNumber, name)
	if err != nil {
		return nil, err
	}
	s.guest = guest
	if s.state == StateAnonymous {
		s.state = StateIdentified
	}
	return guest, nil
}

// BookRequest carries one booking attempt. Name and ContactNumber allow
// implicit identification so a caller can book in one step.
type BookRequest struct {
	StartTime     string
	PartySize     int
	Name          string
	ContactNumber string
	Details       string
}

// Book performs the check-then-act booking sequence: resolve identity
// (explicit earlier, or implicit from the request), consult the oracle,
// classify failures with a suggested alternative, then write through the
// ledger and snapshot the result for summarization.
func (s *Session) Book(ctx context.Context, req BookRequest) (*models.Appointment, error) {
	logger := utils.GetLogger()

	if s.guest == nil {
		if req.ContactNumber == "" {
			return nil, IdentificationRequiredError{}
		}
		if _, err := s.Identify(ctx, req.ContactNumber, req.Name); err != nil {
			return nil, err
		}
		logger.Info("Implicitly identified caller during booking",
			zap.String("callId", s.callID), zap.String("guestId", s.guest.ID))
	}

	available, err := s.oracle.IsAvailable(ctx, req.StartTime, req.PartySize)
	if err != nil {
		return nil, err
	}
	if !available {
		reason := RejectSlotUnavailable
		if s.oracle.IsPast(req.StartTime) {
			reason = RejectPastDate
		}
		next, _, nextErr := s.oracle.NextAvailableSlot(ctx, req.StartTime)
		if nextErr != nil {
			logger.Warn("failed to suggest alternative slot", zap.Error(nextErr))
		}
		return nil, &BookingRejection{Reason: reason, NextSlot: next}
	}

	appt, err := s.ledger.Create(ctx, s.guest.ID, req.StartTime, req.PartySize, req.Details)
	if err != nil {
		return nil, err
	}

	// Call-time audit trail: the snapshot stays even if the appointment is
	// cancelled later in the same call.
	s.bookings = append(s.bookings, *appt)
	return appt, nil
}

// Appointments lists the guest's active appointments.
func (s *Session) Appointments(ctx context.Context) ([]models.Appointment, error) {
	if s.guest == nil {
		return nil, IdentificationRequiredError{}
	}
	return s.ledger.ListActive(ctx, s.guest.ID)
}

// Cancel cancels one of the guest's appointments.
func (s *Session) Cancel(ctx context.Context, appointmentID string) (bool, error) {
	return s.ledger.Cancel(ctx, appointmentID)
}

// Modify reschedules or amends an appointment via the ledger. The replacement
// appointment is snapshotted like a fresh booking.
func (s *Session) Modify(ctx context.Context, appointmentID string, newStartTime *string, newPartySize *int, newDetails *string) (*models.Appointment, error) {
	if s.guest == nil {
		return nil, IdentificationRequiredError{}
	}
	appt, err := s.ledger.Modify(ctx, s.guest.ID, appointmentID, newStartTime, newPartySize, newDetails)
	if err != nil {
		return nil, err
	}
	s.bookings = append(s.bookings, *appt)
	return appt, nil
}

// UpdateDetails overwrites an appointment's free-text details and records the
// note as a session preference.
func (s *Session) UpdateDetails(ctx context.Context, appointmentID, details string) (bool, error) {
	ok, err := s.ledger.UpdateDetails(ctx, appointmentID, details)
	if err != nil {
		return false, err
	}
	if ok {
		s.preferences = append(s.preferences, details)
	}
	return ok, nil
}

// End moves the session to its terminal state. The surrounding orchestrator
// reacts by producing the final summary and tearing the session down.
func (s *Session) End() {
	s.state = StateEnded
}

// SessionData exports the accumulated call data for the summary consumer. The
// returned slices are copies; the session shares no mutable references.
func (s *Session) SessionData() models.SessionData {
	data := models.SessionData{
		Bookings:    make([]models.Appointment, len(s.bookings)),
		Preferences: make([]string, len(s.preferences)),
	}
	copy(data.Bookings, s.bookings)
	copy(data.Preferences, s.preferences)
	if s.guest != nil {
		g := *s.guest
		data.Guest = &g
	}
	return data
}
