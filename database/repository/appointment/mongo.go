package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maitred/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates lookup indexes plus the partial unique index that makes
// slot reservation an insert-if-absent write for booked appointments.
func (r *mongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "guest_id", Value: 1}, {Key: "start_time", Value: 1}}},
		{
			Keys: bson.D{{Key: "start_time", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.StatusBooked}),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new appointment, assigning an ID when none is set.
func (r *mongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	appt.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

// GetByID returns an appointment by ID, or nil when no record matches.
func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment with id %s: %w", id, err)
	}
	return &appt, nil
}

// ListActiveByGuest fetches the guest's non-cancelled appointments ordered by start time.
func (r *mongoAppointmentRepo) ListActiveByGuest(ctx context.Context, guestID string) ([]models.Appointment, error) {
	filter := bson.M{"guest_id": guestID, "status": bson.M{"$ne": models.StatusCancelled}}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for guest %s: %w", guestID, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

// ExistsBookedAt reports whether a booked appointment holds the exact start time.
func (r *mongoAppointmentRepo) ExistsBookedAt(ctx context.Context, startTime string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"start_time": startTime,
		"status":     models.StatusBooked,
	})
	if err != nil {
		return false, fmt.Errorf("failed to query slot %s: %w", startTime, err)
	}
	return count > 0, nil
}

// Cancel flips a booked appointment to cancelled. The status filter makes the
// operation a no-op (returning false) on repeat calls.
func (r *mongoAppointmentRepo) Cancel(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": models.StatusBooked},
		bson.M{"$set": bson.M{"status": models.StatusCancelled}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to cancel appointment %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

// UpdateDetails overwrites the free-text details field.
func (r *mongoAppointmentRepo) UpdateDetails(ctx context.Context, id, details string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"details": details}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update appointment %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}
