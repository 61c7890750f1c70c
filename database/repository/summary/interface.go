package summaryRepo

import (
	"context"
	"fmt"

	"maitred/database"
	"maitred/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SummaryRepository defines methods for call-record persistence.
type SummaryRepository interface {
	// Create inserts a call record, assigning an ID when none is set.
	Create(ctx context.Context, record *models.CallRecord) error
	// GetAll returns all call records, newest first.
	GetAll(ctx context.Context) ([]models.CallRecord, error)
}

type mongoSummaryRepo struct {
	coll *mongo.Collection
}

// NewMongoSummaryRepo returns a SummaryRepository backed by MongoDB.
func NewMongoSummaryRepo() SummaryRepository {
	db := database.MongoClient.Database("maitred")
	repo := &mongoSummaryRepo{coll: db.Collection("summaries")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create summary indexes: %v\n", err)
	}
	return repo
}
