package summaryRepo

import (
	"context"
	"sync"
	"time"

	"maitred/models"

	"github.com/google/uuid"
)

type memorySummaryRepo struct {
	mu      sync.Mutex
	records []models.CallRecord
}

// NewMemorySummaryRepo returns a SummaryRepository backed by process memory.
func NewMemorySummaryRepo() SummaryRepository {
	return &memorySummaryRepo{}
}

func (r *memorySummaryRepo) Create(ctx context.Context, record *models.CallRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	r.records = append(r.records, *record)
	return nil
}

func (r *memorySummaryRepo) GetAll(ctx context.Context) ([]models.CallRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.CallRecord, 0, len(r.records))
	for i := len(r.records) - 1; i >= 0; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}
