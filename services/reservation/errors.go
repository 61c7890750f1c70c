package reservation

import (
	"fmt"

	"maitred/models"
)

// Rejection reasons for booking and modification attempts.
const (
	RejectPastDate        = "past_date"
	RejectSlotUnavailable = "slot_unavailable"
)

// InvalidPhoneError signals that the raw contact number did not contain at
// least 10 digits.
type InvalidPhoneError struct {
	Input string
}

func (e InvalidPhoneError) Error() string {
	return fmt.Sprintf("'%s' is not a valid phone number: at least 10 digits required", e.Input)
}

// IdentificationRequiredError signals that a guest-scoped operation was
// attempted before the caller was identified.
type IdentificationRequiredError struct{}

func (e IdentificationRequiredError) Error() string {
	return "caller identification required"
}

// NotFoundError signals an unknown appointment ID.
type NotFoundError struct {
	AppointmentID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("appointment %s not found", e.AppointmentID)
}

// BookingRejection is the structured refusal for an unavailable slot. Current
// carries the unchanged booking on a rejected modification; NextSlot carries a
// suggested alternative when one exists within the next week.
type BookingRejection struct {
	Reason   string
	Current  *models.Appointment
	NextSlot string
}

func (e *BookingRejection) Error() string {
	if e.NextSlot != "" {
		return fmt.Sprintf("booking rejected (%s), next available %s", e.Reason, e.NextSlot)
	}
	return fmt.Sprintf("booking rejected (%s)", e.Reason)
}

// StorageError wraps a failure from the storage collaborator. It propagates as
// a distinct condition so callers are never handed a false "slot taken".
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
