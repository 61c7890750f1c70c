package reservation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStartsAnonymous(t *testing.T) {
	f := newFixture()
	s := f.newSession("call-1")

	assert.Equal(t, StateAnonymous, s.State())
	assert.Nil(t, s.Guest())
	assert.False(t, s.Ended())
}

func TestSessionBookRequiresIdentification(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.newSession("call-1")

	_, err := s.Book(ctx, BookRequest{StartTime: "2023-10-27T19:00:00", PartySize: 2})
	var identification IdentificationRequiredError
	require.ErrorAs(t, err, &identification)
	assert.Equal(t, StateAnonymous, s.State())
}

func TestSessionImplicitIdentificationDuringBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.newSession("call-1")

	appt, err := s.Book(ctx, BookRequest{
		StartTime:     "2023-10-27T19:00:00",
		PartySize:     2,
		Name:          "Ana",
		ContactNumber: "555-123-4567",
	})
	require.NoError(t, err)

	assert.Equal(t, StateIdentified, s.State())
	require.NotNil(t, s.Guest())
	assert.Equal(t, "Ana", s.Guest().Name)
	assert.Equal(t, s.Guest().ID, appt.GuestID)
}

func TestSessionBookConflictSuggestsAlternative(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	const slot = "2023-10-27T19:00:00"

	first := f.newSession("call-1")
	_, err := first.Book(ctx, BookRequest{
		StartTime: slot, PartySize: 2, Name: "Ana", ContactNumber: "5551234567",
	})
	require.NoError(t, err)

	second := f.newSession("call-2")
	_, err = second.Book(ctx, BookRequest{
		StartTime: slot, PartySize: 4, Name: "Ben", ContactNumber: "5559876543",
	})
	var rejection *BookingRejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, RejectSlotUnavailable, rejection.Reason)

	// Today's later candidates are exhausted by 19:00, so the suggestion
	// rolls to tomorrow's first hour, independently available.
	assert.Equal(t, "2023-10-28T10:00:00", rejection.NextSlot)
	available, err := f.oracle.IsAvailable(ctx, rejection.NextSlot, 4)
	require.NoError(t, err)
	assert.True(t, available)
}

func TestSessionBookPastDateSuggestsNextValidSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.newSession("call-1")

	_, err := s.Book(ctx, BookRequest{
		StartTime: "2023-10-27T11:00:00", PartySize: 2, Name: "Ana", ContactNumber: "5551234567",
	})
	var rejection *BookingRejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, RejectPastDate, rejection.Reason)

	suggested, err := ParseSlotTime(rejection.NextSlot)
	require.NoError(t, err)
	assert.True(t, suggested.After(testNow), "suggestion is never in the past")
}

func TestSessionSnapshotsSurviveCancellation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.newSession("call-1")

	appt, err := s.Book(ctx, BookRequest{
		StartTime: "2023-10-27T19:00:00", PartySize: 2, Name: "Ana", ContactNumber: "5551234567",
	})
	require.NoError(t, err)

	ok, err := s.Cancel(ctx, appt.ID)
	require.NoError(t, err)
	require.True(t, ok)

	data := s.SessionData()
	require.Len(t, data.Bookings, 1, "snapshot is a call-time audit trail, not a live mirror")
	assert.Equal(t, appt.ID, data.Bookings[0].ID)
}

func TestSessionDataSharesNoMutableState(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.newSession("call-1")

	_, err := s.Book(ctx, BookRequest{
		StartTime: "2023-10-27T19:00:00", PartySize: 2, Name: "Ana", ContactNumber: "5551234567",
	})
	require.NoError(t, err)
	_, err = s.UpdateDetails(ctx, s.SessionData().Bookings[0].ID, "peanut allergy")
	require.NoError(t, err)

	data := s.SessionData()
	data.Guest.Name = "tampered"
	data.Bookings[0].PartySize = 99
	data.Preferences[0] = "tampered"

	fresh := s.SessionData()
	assert.Equal(t, "Ana", fresh.Guest.Name)
	assert.Equal(t, 2, fresh.Bookings[0].PartySize)
	assert.Equal(t, "peanut allergy", fresh.Preferences[0])
}

func TestSessionModifyRequiresIdentification(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.newSession("call-1")

	newTime := "2023-10-27T19:00:00"
	_, err := s.Modify(ctx, "appt-1", &newTime, nil, nil)
	var identification IdentificationRequiredError
	require.ErrorAs(t, err, &identification)
}

func TestSessionEndIsAdvisory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.newSession("call-1")

	_, err := s.Identify(ctx, "5551234567", "Ana")
	require.NoError(t, err)

	s.End()
	assert.True(t, s.Ended())
	assert.Equal(t, StateEnded, s.State())

	// Termination does not hard-reject further operations.
	appts, err := s.Appointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, appts)
}

func TestSessionStorageFailurePropagates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	oracle := &DefaultAvailabilityOracle{
		Repo:        failingAppointmentRepo{},
		OpeningHour: 10,
		ClosingHour: 22,
		Now:         f.oracle.Now,
	}
	ledger := &DefaultAppointmentLedger{Repo: failingAppointmentRepo{}, Oracle: oracle}
	s := NewSession("call-1", f.identity, oracle, ledger, f.recorder)

	_, err := s.Book(ctx, BookRequest{
		StartTime: "2023-10-27T19:00:00", PartySize: 2, Name: "Ana", ContactNumber: "5551234567",
	})
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr, "storage failure is distinct, never a false negative")
}

func TestSessionManagerLifecycle(t *testing.T) {
	f := newFixture()
	engine := &Engine{Identity: f.identity, Oracle: f.oracle, Ledger: f.ledger, Events: f.recorder}
	manager := NewSessionManager(engine)

	s1 := manager.GetOrCreate("call-1")
	assert.Same(t, s1, manager.GetOrCreate("call-1"))
	assert.Equal(t, 1, manager.ActiveCount())

	_, ok := manager.Get("call-2")
	assert.False(t, ok)

	manager.Remove("call-1")
	assert.Equal(t, 0, manager.ActiveCount())
}

func TestEngineWiresComponents(t *testing.T) {
	f := newFixture()
	engine := NewEngine(f.guests, f.appointments, 10, 22, f.recorder)
	s := engine.NewSession("call-1")

	// The engine runs on the real clock, so the 2023 fixture slot is long
	// past and must come back as a classified rejection.
	_, err := s.Book(context.Background(), BookRequest{
		StartTime: "2023-10-27T19:00:00", PartySize: 2, Name: "Ana", ContactNumber: "5551234567",
	})
	var rejection *BookingRejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, RejectPastDate, rejection.Reason)
}
