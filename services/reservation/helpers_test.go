package reservation

import (
	"context"
	"errors"
	"time"

	appointmentRepo "maitred/database/repository/appointment"
	guestRepo "maitred/database/repository/guest"
	"maitred/models"
	"maitred/services/events"
)

// testNow is a Friday inside business hours; all fixtures are relative to it.
var testNow = time.Date(2023, 10, 27, 12, 0, 0, 0, time.Local)

type fixture struct {
	guests       guestRepo.GuestRepository
	appointments appointmentRepo.AppointmentRepository
	oracle       *DefaultAvailabilityOracle
	ledger       *DefaultAppointmentLedger
	identity     *DefaultIdentityResolver
	recorder     *events.Recorder
}

func newFixture() *fixture {
	guests := guestRepo.NewMemoryGuestRepo()
	appointments := appointmentRepo.NewMemoryAppointmentRepo()
	oracle := &DefaultAvailabilityOracle{
		Repo:        appointments,
		OpeningHour: 10,
		ClosingHour: 22,
		Now:         func() time.Time { return testNow },
	}
	return &fixture{
		guests:       guests,
		appointments: appointments,
		oracle:       oracle,
		ledger:       &DefaultAppointmentLedger{Repo: appointments, Oracle: oracle},
		identity:     &DefaultIdentityResolver{Repo: guests},
		recorder:     events.NewRecorder(),
	}
}

func (f *fixture) newSession(callID string) *Session {
	return NewSession(callID, f.identity, f.oracle, f.ledger, f.recorder)
}

// failingAppointmentRepo simulates an unreachable storage collaborator.
type failingAppointmentRepo struct{}

var errStorageDown = errors.New("storage timeout")

func (failingAppointmentRepo) Create(context.Context, *models.Appointment) error {
	return errStorageDown
}
func (failingAppointmentRepo) GetByID(context.Context, string) (*models.Appointment, error) {
	return nil, errStorageDown
}
func (failingAppointmentRepo) ListActiveByGuest(context.Context, string) ([]models.Appointment, error) {
	return nil, errStorageDown
}
func (failingAppointmentRepo) ExistsBookedAt(context.Context, string) (bool, error) {
	return false, errStorageDown
}
func (failingAppointmentRepo) Cancel(context.Context, string) (bool, error) {
	return false, errStorageDown
}
func (failingAppointmentRepo) UpdateDetails(context.Context, string, string) (bool, error) {
	return false, errStorageDown
}
