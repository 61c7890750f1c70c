package guestRepo

import (
	"context"
	"fmt"

	"maitred/database"
	"maitred/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// GuestRepository defines methods for guest data access.
type GuestRepository interface {
	// GetByID retrieves a guest by its unique ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*models.Guest, error)
	// GetByContactNumber retrieves a guest by canonical phone number. Returns nil when absent.
	GetByContactNumber(ctx context.Context, number string) (*models.Guest, error)
	// Create inserts a new guest record.
	Create(ctx context.Context, guest *models.Guest) error
	// UpdateName overwrites the guest's display name.
	UpdateName(ctx context.Context, id, name string) error
}

type mongoGuestRepo struct {
	coll *mongo.Collection
}

// NewMongoGuestRepo returns a GuestRepository backed by MongoDB.
func NewMongoGuestRepo() GuestRepository {
	db := database.MongoClient.Database("maitred")
	repo := &mongoGuestRepo{coll: db.Collection("guests")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create guest indexes: %v\n", err)
	}
	return repo
}
