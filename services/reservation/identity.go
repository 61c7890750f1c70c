package reservation

import (
	"context"

	guestRepo "maitred/database/repository/guest"
	"maitred/models"
	"maitred/utils"

	"go.uber.org/zap"
)

// IdentityResolver matches raw spoken-style phone numbers to guest records.
type IdentityResolver interface {
	Resolve(ctx context.Context, rawPhone, name string) (*models.Guest, error)
}

// DefaultIdentityResolver is the production implementation.
type DefaultIdentityResolver struct {
	Repo guestRepo.GuestRepository
}

// NormalizePhone strips all non-digit characters and keeps the last 10 digits,
// dropping country-code prefixes deterministically. Fails when fewer than 10
// digits remain.
func NormalizePhone(raw string) (string, error) {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) < 10 {
		return "", InvalidPhoneError{Input: raw}
	}
	return string(digits[len(digits)-10:]), nil
}

// Resolve looks up the guest for the given number, creating a record on first
// contact. A supplied name always overwrites the stored one (last write wins).
func (r *DefaultIdentityResolver) Resolve(ctx context.Context, rawPhone, name string) (*models.Guest, error) {
	logger := utils.GetLogger()

	number, err := NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	guest, err := r.Repo.GetByContactNumber(ctx, number)
	if err != nil {
		return nil, &StorageError{Op: "guest lookup", Err: err}
	}

	if guest != nil {
		if name != "" && name != guest.Name {
			if err := r.Repo.UpdateName(ctx, guest.ID, name); err != nil {
				return nil, &StorageError{Op: "guest name update", Err: err}
			}
			guest.Name = name
		}
		return guest, nil
	}

	guest = &models.Guest{
		ContactNumber: number,
		Name:          name,
	}
	if guest.Name == "" {
		guest.Name = models.DefaultGuestName
	}
	if err := r.Repo.Create(ctx, guest); err != nil {
		return nil, &StorageError{Op: "guest create", Err: err}
	}
	logger.Info("Created new guest", zap.String("guestId", guest.ID), zap.String("contact", number))
	return guest, nil
}
