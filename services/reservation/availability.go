package reservation

import (
	"context"
	"fmt"
	"time"

	appointmentRepo "maitred/database/repository/appointment"
	"maitred/models"
)

// clockSkewTolerance covers callers whose clock runs slightly behind ours.
const clockSkewTolerance = 120 * time.Second

// candidateHours are the slots offered when suggesting alternatives, ascending.
var candidateHours = []int{10, 14, 17, 18, 19}

// fetchHours are the slots advertised for the next 24 hours, ascending.
var fetchHours = []int{10, 14, 17, 18, 19, 20, 21}

// maxFetchSlots caps how many upcoming slots are offered to the caller.
const maxFetchSlots = 8

// AvailabilityOracle decides whether a time slot is bookable and proposes the
// nearest valid alternative when it is not.
type AvailabilityOracle interface {
	// IsAvailable reports whether the slot can be booked. Fails closed on any
	// parse or validation problem; a non-nil error only ever means storage failure.
	IsAvailable(ctx context.Context, startTime string, partySize int) (bool, error)
	// IsPast reports whether the start time lies before now. Unparsable input
	// is not past.
	IsPast(startTime string) bool
	// NextAvailableSlot returns the first bookable candidate strictly after
	// max(fromTime, now) within the next 7 days. The bool is false when no
	// candidate qualifies; that is a legitimate empty result, not an error.
	NextAvailableSlot(ctx context.Context, fromTime string) (string, bool, error)
	// UpcomingSlots lists up to 8 future candidate slots across today and tomorrow.
	UpcomingSlots(ctx context.Context) ([]models.Slot, error)
}

// DefaultAvailabilityOracle is the production implementation. One booking per
// time slot (appointment mode): partySize does not affect availability.
type DefaultAvailabilityOracle struct {
	Repo        appointmentRepo.AppointmentRepository
	OpeningHour int
	ClosingHour int

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (o *DefaultAvailabilityOracle) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// ParseSlotTime parses a slot time in canonical ISO form, accepting an
// optional zone offset or trailing 'Z'. Naive input is taken as local time.
func ParseSlotTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(models.SlotTimeLayout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparsable slot time %q", s)
}

// IsAvailable validates in order: parse, not in the past beyond the skew
// tolerance, within business hours, and no booked appointment at the exact
// start time. The first failure wins.
func (o *DefaultAvailabilityOracle) IsAvailable(ctx context.Context, startTime string, partySize int) (bool, error) {
	t, err := ParseSlotTime(startTime)
	if err != nil {
		return false, nil
	}

	now := o.now()
	if t.Unix() < now.Add(-clockSkewTolerance).Unix() {
		return false, nil
	}

	if t.Hour() < o.OpeningHour || t.Hour() >= o.ClosingHour {
		return false, nil
	}

	exists, err := o.Repo.ExistsBookedAt(ctx, startTime)
	if err != nil {
		return false, &StorageError{Op: "slot lookup", Err: err}
	}
	return !exists, nil
}

// IsPast reports whether the start time lies strictly before now.
func (o *DefaultAvailabilityOracle) IsPast(startTime string) bool {
	t, err := ParseSlotTime(startTime)
	if err != nil {
		return false
	}
	return t.Unix() < o.now().Unix()
}

// NextAvailableSlot scans the next 7 calendar days from the reference date for
// the first candidate hour that passes IsAvailable.
func (o *DefaultAvailabilityOracle) NextAvailableSlot(ctx context.Context, fromTime string) (string, bool, error) {
	now := o.now()
	reference := now
	if t, err := ParseSlotTime(fromTime); err == nil && t.After(now) {
		reference = t
	}

	for dayOffset := 0; dayOffset < 7; dayOffset++ {
		day := reference.AddDate(0, 0, dayOffset)
		for _, hour := range candidateHours {
			slot := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, reference.Location())
			if !slot.After(reference) {
				continue
			}
			iso := slot.Format(models.SlotTimeLayout)
			available, err := o.IsAvailable(ctx, iso, 1)
			if err != nil {
				return "", false, err
			}
			if available {
				return iso, true, nil
			}
		}
	}
	return "", false, nil
}

// UpcomingSlots lists strictly-future candidate slots for today and tomorrow,
// capped at maxFetchSlots.
func (o *DefaultAvailabilityOracle) UpcomingSlots(ctx context.Context) ([]models.Slot, error) {
	now := o.now()
	var slots []models.Slot

	for dayOffset := 0; dayOffset < 2; dayOffset++ {
		day := now.AddDate(0, 0, dayOffset)
		dayLabel := "Today"
		if dayOffset == 1 {
			dayLabel = "Tomorrow"
		}
		for _, hour := range fetchHours {
			slot := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, now.Location())
			if !slot.After(now) {
				continue
			}
			slots = append(slots, models.Slot{
				ISO:     slot.Format(models.SlotTimeLayout),
				Display: fmt.Sprintf("%s at %s", dayLabel, slot.Format("03:04 PM")),
			})
			if len(slots) == maxFetchSlots {
				return slots, nil
			}
		}
	}
	return slots, nil
}
