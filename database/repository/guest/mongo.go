package guestRepo

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

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *mongoGuestRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "contact_number", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID returns a guest by its unique ID, or nil when no record matches.
func (r *mongoGuestRepo) GetByID(ctx context.Context, id string) (*models.Guest, error) {
	var guest models.Guest
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&guest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guest with id %s: %w", id, err)
	}
	return &guest, nil
}

// GetByContactNumber returns a guest by canonical phone number, or nil when absent.
func (r *mongoGuestRepo) GetByContactNumber(ctx context.Context, number string) (*models.Guest, error) {
	var guest models.Guest
	err := r.coll.FindOne(ctx, bson.M{"contact_number": number}).Decode(&guest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guest with contact %s: %w", number, err)
	}
	return &guest, nil
}

// Create inserts a new guest record, assigning an ID when none is set.
func (r *mongoGuestRepo) Create(ctx context.Context, guest *models.Guest) error {
	if guest.ID == "" {
		guest.ID = uuid.New().String()
	}
	guest.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, guest); err != nil {
		return fmt.Errorf("failed to insert guest: %w", err)
	}
	return nil
}

// UpdateName overwrites the stored display name (last write wins).
func (r *mongoGuestRepo) UpdateName(ctx context.Context, id, name string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return fmt.Errorf("failed to update guest name: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("guest %s not found", id)
	}
	return nil
}
