package reservation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAvailableOutsideBusinessHours(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, startTime := range []string{
		"2023-10-27T09:00:00", // before opening
		"2023-10-27T22:00:00", // closing hour is exclusive
		"2023-10-28T23:30:00",
		"2023-10-28T00:00:00",
	} {
		available, err := f.oracle.IsAvailable(ctx, startTime, 2)
		require.NoError(t, err)
		assert.False(t, available, "slot %s", startTime)
	}
}

func TestIsAvailablePastDates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	available, err := f.oracle.IsAvailable(ctx, "2023-10-27T11:00:00", 2)
	require.NoError(t, err)
	assert.False(t, available, "an hour in the past is not bookable")

	// Within the 120-second clock-skew tolerance the slot still counts.
	available, err = f.oracle.IsAvailable(ctx, "2023-10-27T11:59:30", 2)
	require.NoError(t, err)
	assert.True(t, available)
}

func TestIsAvailableFailsClosedOnUnparsableInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, startTime := range []string{"", "next friday", "27/10/2023 19:00"} {
		available, err := f.oracle.IsAvailable(ctx, startTime, 2)
		require.NoError(t, err)
		assert.False(t, available, "input %q", startTime)
	}
}

func TestIsAvailableBookCancelRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	const slot = "2023-10-27T19:00:00"

	available, err := f.oracle.IsAvailable(ctx, slot, 2)
	require.NoError(t, err)
	require.True(t, available)

	appt, err := f.ledger.Create(ctx, "guest-1", slot, 2, "")
	require.NoError(t, err)

	available, err = f.oracle.IsAvailable(ctx, slot, 2)
	require.NoError(t, err)
	assert.False(t, available, "booked slot is not available")

	ok, err := f.ledger.Cancel(ctx, appt.ID)
	require.NoError(t, err)
	require.True(t, ok)

	available, err = f.oracle.IsAvailable(ctx, slot, 2)
	require.NoError(t, err)
	assert.True(t, available, "cancelled slot frees up")
}

func TestIsAvailablePropagatesStorageFailure(t *testing.T) {
	oracle := &DefaultAvailabilityOracle{
		Repo:        failingAppointmentRepo{},
		OpeningHour: 10,
		ClosingHour: 22,
		Now:         func() time.Time { return testNow },
	}

	_, err := oracle.IsAvailable(context.Background(), "2023-10-27T19:00:00", 2)
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
}

func TestNextAvailableSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Reference is noon; the 14:00 candidate is the first same-day slot.
	slot, ok, err := f.oracle.NextAvailableSlot(ctx, "2023-10-27T12:30:00")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2023-10-27T14:00:00", slot)

	available, err := f.oracle.IsAvailable(ctx, slot, 1)
	require.NoError(t, err)
	assert.True(t, available, "suggested slot independently satisfies IsAvailable")
}

func TestNextAvailableSlotSkipsBookedCandidates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Fill today's remaining candidates; the suggestion rolls to tomorrow.
	for i, slot := range []string{"2023-10-27T14:00:00", "2023-10-27T17:00:00", "2023-10-27T18:00:00", "2023-10-27T19:00:00"} {
		_, err := f.ledger.Create(ctx, "guest-1", slot, 2+i%2, "")
		require.NoError(t, err)
	}

	slot, ok, err := f.oracle.NextAvailableSlot(ctx, "2023-10-27T12:00:00")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2023-10-28T10:00:00", slot)
}

func TestNextAvailableSlotNeverAtOrBeforeReference(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// An exact candidate time as reference must not be suggested back.
	slot, ok, err := f.oracle.NextAvailableSlot(ctx, "2023-10-27T14:00:00")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2023-10-27T17:00:00", slot)

	// Unparsable reference falls back to now.
	slot, ok, err = f.oracle.NextAvailableSlot(ctx, "garbled")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2023-10-27T14:00:00", slot)
}

func TestUpcomingSlots(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	slots, err := f.oracle.UpcomingSlots(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 8, "capped at 8 candidates")

	assert.Equal(t, "2023-10-27T14:00:00", slots[0].ISO)
	assert.True(t, strings.HasPrefix(slots[0].Display, "Today at "))

	// Today contributes 14,17,18,19,20,21; tomorrow fills the cap.
	assert.Equal(t, "2023-10-28T10:00:00", slots[6].ISO)
	assert.True(t, strings.HasPrefix(slots[6].Display, "Tomorrow at "))

	for _, slot := range slots {
		parsed, err := ParseSlotTime(slot.ISO)
		require.NoError(t, err)
		assert.True(t, parsed.After(testNow), "slot %s is in the future", slot.ISO)
	}
}
