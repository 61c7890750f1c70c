package reservation

import (
	"context"
	"testing"

	"maitred/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerCreateAnnotatesDetails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, err := f.ledger.Create(ctx, "guest-1", "2023-10-27T19:00:00", 2, "")
	require.NoError(t, err)
	assert.Equal(t, "Guests: 2. General Reservation", appt.Details)
	assert.Equal(t, models.StatusBooked, appt.Status)

	appt, err = f.ledger.Create(ctx, "guest-1", "2023-10-27T20:00:00", 4, "Window seat")
	require.NoError(t, err)
	assert.Equal(t, "Guests: 4. Window seat", appt.Details)
}

func TestLedgerCreateDuplicateSlotRace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	const slot = "2023-10-27T19:00:00"

	_, err := f.ledger.Create(ctx, "guest-1", slot, 2, "")
	require.NoError(t, err)

	// A second create for the same slot models the lost check-then-act race;
	// the store's conditional insert rejects it.
	_, err = f.ledger.Create(ctx, "guest-2", slot, 2, "")
	var rejection *BookingRejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, RejectSlotUnavailable, rejection.Reason)
	assert.NotEmpty(t, rejection.NextSlot)
}

func TestLedgerCancelIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, err := f.ledger.Create(ctx, "guest-1", "2023-10-27T19:00:00", 2, "")
	require.NoError(t, err)

	ok, err := f.ledger.Cancel(ctx, appt.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.ledger.Cancel(ctx, appt.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second cancel is a no-op")

	ok, err = f.ledger.Cancel(ctx, "no-such-id")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedgerListActiveExcludesCancelled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	kept, err := f.ledger.Create(ctx, "guest-1", "2023-10-27T19:00:00", 2, "")
	require.NoError(t, err)
	dropped, err := f.ledger.Create(ctx, "guest-1", "2023-10-27T14:00:00", 2, "")
	require.NoError(t, err)
	_, err = f.ledger.Create(ctx, "guest-2", "2023-10-27T17:00:00", 2, "")
	require.NoError(t, err)

	_, err = f.ledger.Cancel(ctx, dropped.ID)
	require.NoError(t, err)

	active, err := f.ledger.ListActive(ctx, "guest-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, kept.ID, active[0].ID)
}

func TestLedgerUpdateDetails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, err := f.ledger.Create(ctx, "guest-1", "2023-10-27T19:00:00", 2, "")
	require.NoError(t, err)

	ok, err := f.ledger.UpdateDetails(ctx, appt.ID, "Anniversary, gluten-free")
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := f.appointments.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Anniversary, gluten-free", stored.Details)

	ok, err = f.ledger.UpdateDetails(ctx, "no-such-id", "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedgerModifyUnknownAppointment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	newTime := "2023-10-27T19:00:00"
	_, err := f.ledger.Modify(ctx, "guest-1", "no-such-id", &newTime, nil, nil)
	var notFound NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "no-such-id", notFound.AppointmentID)
}

func TestLedgerModifyDetailsOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	original, err := f.ledger.Create(ctx, "guest-1", "2023-10-27T19:00:00", 2, "")
	require.NoError(t, err)

	// No availability re-check happens: the slot is held by the appointment
	// itself, and a details-only modification must still succeed.
	details := "Vegan tasting menu"
	replacement, err := f.ledger.Modify(ctx, "guest-1", original.ID, nil, nil, &details)
	require.NoError(t, err)

	assert.Equal(t, original.StartTime, replacement.StartTime)
	assert.Equal(t, original.PartySize, replacement.PartySize)
	assert.Equal(t, "Guests: 2. Vegan tasting menu", replacement.Details)
	assert.NotEqual(t, original.ID, replacement.ID, "modification issues a fresh record")

	old, err := f.appointments.GetByID(ctx, original.ID)
	require.NoError(t, err)
	require.NotNil(t, old)
	assert.Equal(t, models.StatusCancelled, old.Status, "old record stays as audit trail")
}

func TestLedgerModifyToBookedSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.ledger.Create(ctx, "guest-2", "2023-10-27T17:00:00", 2, "")
	require.NoError(t, err)
	original, err := f.ledger.Create(ctx, "guest-1", "2023-10-27T19:00:00", 2, "")
	require.NoError(t, err)

	newTime := "2023-10-27T17:00:00"
	_, err = f.ledger.Modify(ctx, "guest-1", original.ID, &newTime, nil, nil)
	var rejection *BookingRejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, RejectSlotUnavailable, rejection.Reason)
	require.NotNil(t, rejection.Current)
	assert.Equal(t, original.ID, rejection.Current.ID)
	assert.Equal(t, "2023-10-27T18:00:00", rejection.NextSlot)

	// The current booking is unchanged.
	stored, err := f.appointments.GetByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, stored.Status)
	assert.Equal(t, "2023-10-27T19:00:00", stored.StartTime)
}

func TestLedgerModifyToPastDate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	original, err := f.ledger.Create(ctx, "guest-1", "2023-10-27T19:00:00", 2, "")
	require.NoError(t, err)

	newTime := "2023-10-27T10:00:00" // two hours before the fixture clock
	_, err = f.ledger.Modify(ctx, "guest-1", original.ID, &newTime, nil, nil)
	var rejection *BookingRejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, RejectPastDate, rejection.Reason)
	assert.Equal(t, "2023-10-27T14:00:00", rejection.NextSlot)
}

func TestLedgerModifyPartySizeChangesAnnotation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	original, err := f.ledger.Create(ctx, "guest-1", "2023-10-27T19:00:00", 2, "Window seat")
	require.NoError(t, err)

	party := 6
	replacement, err := f.ledger.Modify(ctx, "guest-1", original.ID, nil, &party, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, replacement.PartySize)
	assert.Equal(t, "Guests: 6. Window seat", replacement.Details, "annotation is not duplicated")
}
