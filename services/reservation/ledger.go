package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appointmentRepo "maitred/database/repository/appointment"
	"maitred/models"
	"maitred/utils"

	"go.uber.org/zap"
)

// DefaultReservationDetails is used when the caller states no preference.
const DefaultReservationDetails = "General Reservation"

// AppointmentLedger owns the appointment lifecycle. It does not re-check
// availability on Create; the session orchestrates the check-then-act sequence.
type AppointmentLedger interface {
	Create(ctx context.Context, guestID, startTime string, partySize int, details string) (*models.Appointment, error)
	ListActive(ctx context.Context, guestID string) ([]models.Appointment, error)
	Cancel(ctx context.Context, appointmentID string) (bool, error)
	UpdateDetails(ctx context.Context, appointmentID, details string) (bool, error)
	Modify(ctx context.Context, guestID, appointmentID string, newStartTime *string, newPartySize *int, newDetails *string) (*models.Appointment, error)
}

// DefaultAppointmentLedger is the production implementation.
type DefaultAppointmentLedger struct {
	Repo   appointmentRepo.AppointmentRepository
	Oracle AvailabilityOracle
}

// annotateDetails merges the guest count into the stored free-text field.
func annotateDetails(partySize int, details string) string {
	if details == "" {
		details = DefaultReservationDetails
	}
	return fmt.Sprintf("Guests: %d. %s", partySize, details)
}

// stripAnnotation removes the guest-count prefix so a modified appointment is
// not annotated twice.
func stripAnnotation(partySize int, details string) string {
	prefix := fmt.Sprintf("Guests: %d. ", partySize)
	return strings.TrimPrefix(details, prefix)
}

// Create inserts a booked appointment. A duplicate-slot conflict from the
// store (the race window between check and create) surfaces as a
// BookingRejection with a suggested alternative.
func (l *DefaultAppointmentLedger) Create(ctx context.Context, guestID, startTime string, partySize int, details string) (*models.Appointment, error) {
	appt := &models.Appointment{
		GuestID:   guestID,
		StartTime: startTime,
		PartySize: partySize,
		Details:   annotateDetails(partySize, details),
		Status:    models.StatusBooked,
	}

	err := l.Repo.Create(ctx, appt)
	if errors.Is(err, appointmentRepo.ErrDuplicateSlot) {
		next, _, nextErr := l.Oracle.NextAvailableSlot(ctx, startTime)
		if nextErr != nil {
			utils.GetLogger().Warn("failed to suggest alternative slot", zap.Error(nextErr))
		}
		return nil, &BookingRejection{Reason: RejectSlotUnavailable, NextSlot: next}
	}
	if err != nil {
		return nil, &StorageError{Op: "appointment create", Err: err}
	}
	return appt, nil
}

// ListActive returns the guest's non-cancelled appointments ordered by start time.
func (l *DefaultAppointmentLedger) ListActive(ctx context.Context, guestID string) ([]models.Appointment, error) {
	appts, err := l.Repo.ListActiveByGuest(ctx, guestID)
	if err != nil {
		return nil, &StorageError{Op: "appointment list", Err: err}
	}
	return appts, nil
}

// Cancel marks an appointment cancelled. Cancelling twice is a no-op returning
// false, as is an unknown ID.
func (l *DefaultAppointmentLedger) Cancel(ctx context.Context, appointmentID string) (bool, error) {
	ok, err := l.Repo.Cancel(ctx, appointmentID)
	if err != nil {
		return false, &StorageError{Op: "appointment cancel", Err: err}
	}
	return ok, nil
}

// UpdateDetails overwrites the free-text field only.
func (l *DefaultAppointmentLedger) UpdateDetails(ctx context.Context, appointmentID, details string) (bool, error) {
	ok, err := l.Repo.UpdateDetails(ctx, appointmentID, details)
	if err != nil {
		return false, &StorageError{Op: "appointment details update", Err: err}
	}
	return ok, nil
}

// Modify retrieves the appointment among the guest's active records, computes
// effective values with fallback to the current ones, re-validates availability
// when the time changes, then cancels the old record and creates a new one.
// Appointments are never mutated in place for a time change; the cancelled
// record stays behind as an audit trail.
func (l *DefaultAppointmentLedger) Modify(ctx context.Context, guestID, appointmentID string, newStartTime *string, newPartySize *int, newDetails *string) (*models.Appointment, error) {
	logger := utils.GetLogger()

	appts, err := l.ListActive(ctx, guestID)
	if err != nil {
		return nil, err
	}
	var current *models.Appointment
	for i := range appts {
		if appts[i].ID == appointmentID {
			current = &appts[i]
			break
		}
	}
	if current == nil {
		return nil, NotFoundError{AppointmentID: appointmentID}
	}

	effStart := current.StartTime
	if newStartTime != nil {
		effStart = *newStartTime
	}
	effParty := current.PartySize
	if newPartySize != nil {
		effParty = *newPartySize
	}
	effDetails := stripAnnotation(current.PartySize, current.Details)
	if newDetails != nil {
		effDetails = *newDetails
	}

	if newStartTime != nil {
		available, err := l.Oracle.IsAvailable(ctx, effStart, effParty)
		if err != nil {
			return nil, err
		}
		if !available {
			reason := RejectSlotUnavailable
			if l.Oracle.IsPast(effStart) {
				reason = RejectPastDate
			}
			next, _, nextErr := l.Oracle.NextAvailableSlot(ctx, effStart)
			if nextErr != nil {
				logger.Warn("failed to suggest alternative slot", zap.Error(nextErr))
			}
			return nil, &BookingRejection{Reason: reason, Current: current, NextSlot: next}
		}
	}

	if _, err := l.Cancel(ctx, appointmentID); err != nil {
		return nil, err
	}
	replacement, err := l.Create(ctx, guestID, effStart, effParty, effDetails)
	if err != nil {
		return nil, err
	}
	logger.Info("Appointment modified",
		zap.String("oldId", appointmentID),
		zap.String("newId", replacement.ID),
		zap.String("startTime", replacement.StartTime),
	)
	return replacement, nil
}
