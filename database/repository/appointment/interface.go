package appointmentRepo

import (
	"context"
	"errors"
	"fmt"

	"maitred/database"
	"maitred/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateSlot is returned by Create when another booked appointment
// already holds the same start time. The durable store enforces this with a
// unique partial index, which closes the check-then-act window between two
// concurrent calls.
var ErrDuplicateSlot = errors.New("slot already booked")

// AppointmentRepository defines methods for appointment data access.
type AppointmentRepository interface {
	// Create inserts a new appointment record. Returns ErrDuplicateSlot when a
	// booked appointment already exists at the same start time.
	Create(ctx context.Context, appt *models.Appointment) error
	// GetByID retrieves an appointment by its unique ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// ListActiveByGuest returns the guest's non-cancelled appointments ordered by start time.
	ListActiveByGuest(ctx context.Context, guestID string) ([]models.Appointment, error)
	// ExistsBookedAt reports whether any booked appointment holds the exact start time.
	ExistsBookedAt(ctx context.Context, startTime string) (bool, error)
	// Cancel marks a booked appointment cancelled. Returns false when the ID is
	// unknown or the appointment was already cancelled.
	Cancel(ctx context.Context, id string) (bool, error)
	// UpdateDetails overwrites the free-text details field. Returns false when unknown.
	UpdateDetails(ctx context.Context, id, details string) (bool, error)
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns an AppointmentRepository backed by MongoDB.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database("maitred")
	repo := &mongoAppointmentRepo{coll: db.Collection("appointments")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create appointment indexes: %v\n", err)
	}
	return repo
}
