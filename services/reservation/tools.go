package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"maitred/config"
	"maitred/models"
	"maitred/utils"

	"go.uber.org/zap"
)

// ToolName enumerates the operations the conversational orchestrator may
// invoke. The set is fixed; discovery is the orchestrator's concern.
type ToolName string

const (
	ToolIdentifyUser         ToolName = "identify_user"
	ToolFetchSlots           ToolName = "fetch_slots"
	ToolBookAppointment      ToolName = "book_appointment"
	ToolRetrieveAppointments ToolName = "retrieve_appointments"
	ToolCancelAppointment    ToolName = "cancel_appointment"
	ToolModifyAppointment    ToolName = "modify_appointment"
	ToolUpdateBookingDetails ToolName = "update_booking_details"
	ToolEndConversation      ToolName = "end_conversation"
)

// Typed tool requests.
type IdentifyUserRequest struct {
	ContactNumber string `json:"contact_number"`
	Name          string `json:"name,omitempty"`
}

type BookAppointmentRequest struct {
	StartTime     string `json:"start_time"`
	PartySize     int    `json:"num_people"`
	Name          string `json:"name,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
	Details       string `json:"details,omitempty"`
}

type CancelAppointmentRequest struct {
	AppointmentID string `json:"appointment_id"`
}

type ModifyAppointmentRequest struct {
	AppointmentID string  `json:"appointment_id"`
	NewStartTime  *string `json:"new_start_time,omitempty"`
	NewPartySize  *int    `json:"new_num_people,omitempty"`
	NewDetails    *string `json:"new_details,omitempty"`
}

type UpdateBookingDetailsRequest struct {
	AppointmentID string `json:"appointment_id"`
	Details       string `json:"details"`
}

// publish emits a tool event to the call-observability channel. Best effort;
// a publish failure never fails the tool call.
func (s *Session) publish(ctx context.Context, tool ToolName, status string, payload map[string]any) {
	ev := models.ToolEvent{CallID: s.callID, Tool: string(tool), Status: status, Payload: payload}
	if err := s.events.Publish(ctx, ev); err != nil {
		utils.GetLogger().Warn("failed to publish tool event",
			zap.String("tool", string(tool)), zap.Error(err))
	}
}

func (s *Session) guestName() string {
	if s.guest != nil && s.guest.Name != models.DefaultGuestName {
		return s.guest.Name
	}
	return "Guest"
}

// IdentifyUser resolves the caller by phone number and optional name.
func (s *Session) IdentifyUser(ctx context.Context, req IdentifyUserRequest) (string, error) {
	s.publish(ctx, ToolIdentifyUser, models.EventStarted, map[string]any{
		"contact_number": req.ContactNumber, "name": req.Name,
	})

	guest, err := s.Identify(ctx, req.ContactNumber, req.Name)
	var invalid InvalidPhoneError
	if errors.As(err, &invalid) {
		s.publish(ctx, ToolIdentifyUser, models.EventFailed, map[string]any{"reason": "invalid_phone"})
		return fmt.Sprintf("Error: '%s' is not a valid phone number. Please provide at least 10 digits.", req.ContactNumber), nil
	}
	if err != nil {
		s.publish(ctx, ToolIdentifyUser, models.EventFailed, map[string]any{"reason": "storage_error"})
		return "", err
	}

	s.publish(ctx, ToolIdentifyUser, models.EventCompleted, map[string]any{"user": guest})
	return fmt.Sprintf("User identified: %s.", guest.Name), nil
}

// FetchSlots lists upcoming candidate slots for today and tomorrow.
func (s *Session) FetchSlots(ctx context.Context) (string, error) {
	s.publish(ctx, ToolFetchSlots, models.EventStarted, nil)

	slots, err := s.oracle.UpcomingSlots(ctx)
	if err != nil {
		s.publish(ctx, ToolFetchSlots, models.EventFailed, map[string]any{"reason": "storage_error"})
		return "", err
	}

	s.publish(ctx, ToolFetchSlots, models.EventCompleted, map[string]any{"slots": slots})
	if len(slots) == 0 {
		return "I'm sorry, there are no remaining slots today or tomorrow.", nil
	}
	displays := make([]string, len(slots))
	for i, slot := range slots {
		displays[i] = slot.Display
	}
	return fmt.Sprintf("%s availability for next 24 hours: %s. When booking, use the ISO format.",
		config.AppConfig.RestaurantName, strings.Join(displays, ", ")), nil
}

// BookAppointment books a slot, implicitly identifying the caller when name
// and contact number accompany the request.
func (s *Session) BookAppointment(ctx context.Context, req BookAppointmentRequest) (string, error) {
	s.publish(ctx, ToolBookAppointment, models.EventStarted, map[string]any{
		"start_time": req.StartTime, "num_people": req.PartySize,
	})

	appt, err := s.Book(ctx, BookRequest{
		StartTime:     req.StartTime,
		PartySize:     req.PartySize,
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		Details:       req.Details,
	})
	if err != nil {
		return s.renderBookFailure(ctx, req, err)
	}

	s.publish(ctx, ToolBookAppointment, models.EventCompleted, map[string]any{"appointment": appt})
	return fmt.Sprintf("Wonderful! I've booked your table, %s. Your reservation is confirmed for %s for %d guests (ID: %s). We look forward to seeing you!",
		s.guestName(), FormatDateTimeHuman(req.StartTime), req.PartySize, appt.ID), nil
}

func (s *Session) renderBookFailure(ctx context.Context, req BookAppointmentRequest, err error) (string, error) {
	var invalid InvalidPhoneError
	var identification IdentificationRequiredError
	var rejection *BookingRejection

	switch {
	case errors.As(err, &identification):
		s.publish(ctx, ToolBookAppointment, models.EventFailed, map[string]any{"reason": "auth_required"})
		return "Error: I need your name and phone number to book the appointment. Please provide them.", nil

	case errors.As(err, &invalid):
		s.publish(ctx, ToolBookAppointment, models.EventFailed, map[string]any{"reason": "invalid_phone"})
		return fmt.Sprintf("Error: '%s' is not a valid 10-digit phone number.", req.ContactNumber), nil

	case errors.As(err, &rejection):
		s.publish(ctx, ToolBookAppointment, models.EventFailed, map[string]any{
			"reason": rejection.Reason, "next_slot": rejection.NextSlot,
		})
		if rejection.Reason == RejectPastDate {
			nextHuman := "another time"
			if rejection.NextSlot != "" {
				nextHuman = FormatDateTimeHuman(rejection.NextSlot)
			}
			return fmt.Sprintf("I'm sorry, %s only accepts reservations for future dates. The earliest available slot I can offer you is %s. Would you like me to book that for you?",
				config.AppConfig.RestaurantName, nextHuman), nil
		}
		if rejection.NextSlot != "" {
			return fmt.Sprintf("I'm sorry, that time slot is already booked. The next available slot is %s. Would you like me to book that instead?",
				FormatDateTimeHuman(rejection.NextSlot)), nil
		}
		return "I'm sorry, that time slot is not available and I couldn't find another available slot in the next week. Please try a different date.", nil

	default:
		s.publish(ctx, ToolBookAppointment, models.EventFailed, map[string]any{"reason": "storage_error"})
		return "", err
	}
}

// RetrieveAppointments lists the identified guest's active appointments.
func (s *Session) RetrieveAppointments(ctx context.Context) (string, error) {
	s.publish(ctx, ToolRetrieveAppointments, models.EventStarted, nil)

	appts, err := s.Appointments(ctx)
	var identification IdentificationRequiredError
	if errors.As(err, &identification) {
		s.publish(ctx, ToolRetrieveAppointments, models.EventFailed, map[string]any{"reason": "auth_required"})
		return "Error: Please identify the user first using 'identify_user'.", nil
	}
	if err != nil {
		s.publish(ctx, ToolRetrieveAppointments, models.EventFailed, map[string]any{"reason": "storage_error"})
		return "", err
	}

	if len(appts) == 0 {
		s.publish(ctx, ToolRetrieveAppointments, models.EventCompleted, map[string]any{"count": 0})
		return "No existing appointments found.", nil
	}

	lines := make([]string, len(appts))
	for i, a := range appts {
		lines[i] = fmt.Sprintf("- %s (Status: %s, ID: %s)", FormatDateTimeHuman(a.StartTime), a.Status, a.ID)
	}
	s.publish(ctx, ToolRetrieveAppointments, models.EventCompleted, map[string]any{"appointments": appts})
	return "I found the following appointments for you. Which one would you like to manage?\n" + strings.Join(lines, "\n"), nil
}

// CancelAppointment cancels an appointment by ID.
func (s *Session) CancelAppointment(ctx context.Context, req CancelAppointmentRequest) (string, error) {
	s.publish(ctx, ToolCancelAppointment, models.EventStarted, map[string]any{"appointment_id": req.AppointmentID})

	ok, err := s.Cancel(ctx, req.AppointmentID)
	if err != nil {
		s.publish(ctx, ToolCancelAppointment, models.EventFailed, map[string]any{"reason": "storage_error"})
		return "", err
	}
	if !ok {
		s.publish(ctx, ToolCancelAppointment, models.EventFailed, map[string]any{"reason": "not_found"})
		return fmt.Sprintf("Error: Could not find appointment %s or it's already cancelled.", req.AppointmentID), nil
	}

	s.publish(ctx, ToolCancelAppointment, models.EventCompleted, nil)
	return fmt.Sprintf("Appointment %s has been cancelled.", req.AppointmentID), nil
}

// ModifyAppointment reschedules or amends an appointment.
func (s *Session) ModifyAppointment(ctx context.Context, req ModifyAppointmentRequest) (string, error) {
	if req.NewStartTime == nil && req.NewPartySize == nil && req.NewDetails == nil {
		return "Error: Please specify what you want to change (time, party size, or details).", nil
	}

	s.publish(ctx, ToolModifyAppointment, models.EventStarted, map[string]any{"appointment_id": req.AppointmentID})

	appt, err := s.Modify(ctx, req.AppointmentID, req.NewStartTime, req.NewPartySize, req.NewDetails)
	if err != nil {
		return s.renderModifyFailure(ctx, req, err)
	}

	s.publish(ctx, ToolModifyAppointment, models.EventCompleted, map[string]any{"new_appointment": appt})
	return fmt.Sprintf("Certainly, %s. I've updated your reservation. It is now set for %s for %d guests (ID: %s). Is there anything else I can assist you with?",
		s.guestName(), FormatDateTimeHuman(appt.StartTime), appt.PartySize, appt.ID), nil
}

func (s *Session) renderModifyFailure(ctx context.Context, req ModifyAppointmentRequest, err error) (string, error) {
	var identification IdentificationRequiredError
	var notFound NotFoundError
	var rejection *BookingRejection

	switch {
	case errors.As(err, &identification):
		s.publish(ctx, ToolModifyAppointment, models.EventFailed, map[string]any{"reason": "auth_required"})
		return "I need to verify your identity first. Please provide your phone number so I can look up your reservations.", nil

	case errors.As(err, &notFound):
		s.publish(ctx, ToolModifyAppointment, models.EventFailed, map[string]any{"reason": "not_found"})
		return "Error: Could not find that appointment in your reservations. Would you like me to show you your current bookings?", nil

	case errors.As(err, &rejection):
		s.publish(ctx, ToolModifyAppointment, models.EventFailed, map[string]any{
			"reason": rejection.Reason, "next_slot": rejection.NextSlot,
		})
		currentTime := ""
		currentParty := 0
		if rejection.Current != nil {
			currentTime = FormatDateTimeHuman(rejection.Current.StartTime)
			currentParty = rejection.Current.PartySize
		}
		if rejection.Reason == RejectPastDate {
			nextHuman := "another time"
			if rejection.NextSlot != "" {
				nextHuman = FormatDateTimeHuman(rejection.NextSlot)
			}
			return fmt.Sprintf("I'm sorry, we can only modify reservations to a future date. The earliest available slot is %s. Your current reservation remains at %s.",
				nextHuman, currentTime), nil
		}
		if rejection.NextSlot != "" {
			requested := ""
			if req.NewStartTime != nil {
				requested = FormatDateTimeHuman(*req.NewStartTime)
			}
			return fmt.Sprintf("I'm sorry, %s is already booked. Your current reservation is for %s for %d guests. The next available slot is %s. Would you like that instead?",
				requested, currentTime, currentParty, FormatDateTimeHuman(rejection.NextSlot)), nil
		}
		return fmt.Sprintf("I'm sorry, that slot is not available. Your current reservation remains at %s for %d guests.",
			currentTime, currentParty), nil

	default:
		s.publish(ctx, ToolModifyAppointment, models.EventFailed, map[string]any{"reason": "storage_error"})
		return "", err
	}
}

// UpdateBookingDetails records special occasions or dietary requirements
// against an appointment.
func (s *Session) UpdateBookingDetails(ctx context.Context, req UpdateBookingDetailsRequest) (string, error) {
	s.publish(ctx, ToolUpdateBookingDetails, models.EventStarted, map[string]any{"appointment_id": req.AppointmentID})

	ok, err := s.UpdateDetails(ctx, req.AppointmentID, req.Details)
	if err != nil {
		s.publish(ctx, ToolUpdateBookingDetails, models.EventFailed, map[string]any{"reason": "storage_error"})
		return "", err
	}
	if !ok {
		s.publish(ctx, ToolUpdateBookingDetails, models.EventFailed, map[string]any{"reason": "not_found"})
		return "I apologize, but I couldn't find that reservation to update. Would you like me to check your active bookings?", nil
	}

	s.publish(ctx, ToolUpdateBookingDetails, models.EventCompleted, nil)
	return fmt.Sprintf("Thank you for sharing those details. I've added the following to your reservation: '%s'. Our team will ensure everything is prepared for you.", req.Details), nil
}

// EndConversation raises the terminating signal. The orchestrator reacts by
// producing the final summary and tearing the session down.
func (s *Session) EndConversation(ctx context.Context) (string, error) {
	s.End()
	s.publish(ctx, ToolEndConversation, models.EventCompleted, nil)
	return "The conversation is now ending. Goodbye!", nil
}

// Dispatch invokes a tool by name with its typed request. Orchestrators that
// address tools by wire name go through here; in-process callers may use the
// typed methods directly.
func (s *Session) Dispatch(ctx context.Context, name ToolName, req any) (string, error) {
	switch name {
	case ToolIdentifyUser:
		r, ok := req.(IdentifyUserRequest)
		if !ok {
			return "", fmt.Errorf("invalid request type for %s", name)
		}
		return s.IdentifyUser(ctx, r)
	case ToolFetchSlots:
		return s.FetchSlots(ctx)
	case ToolBookAppointment:
		r, ok := req.(BookAppointmentRequest)
		if !ok {
			return "", fmt.Errorf("invalid request type for %s", name)
		}
		return s.BookAppointment(ctx, r)
	case ToolRetrieveAppointments:
		return s.RetrieveAppointments(ctx)
	case ToolCancelAppointment:
		r, ok := req.(CancelAppointmentRequest)
		if !ok {
			return "", fmt.Errorf("invalid request type for %s", name)
		}
		return s.CancelAppointment(ctx, r)
	case ToolModifyAppointment:
		r, ok := req.(ModifyAppointmentRequest)
		if !ok {
			return "", fmt.Errorf("invalid request type for %s", name)
		}
		return s.ModifyAppointment(ctx, r)
	case ToolUpdateBookingDetails:
		r, ok := req.(UpdateBookingDetailsRequest)
		if !ok {
			return "", fmt.Errorf("invalid request type for %s", name)
		}
		return s.UpdateBookingDetails(ctx, r)
	case ToolEndConversation:
		return s.EndConversation(ctx)
	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}
