package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	summaryRepo "maitred/database/repository/summary"
	"maitred/models"
	"maitred/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskTypeSave is the queue task that persists a call record off the call path.
const TaskTypeSave = "summary:save"

// Service builds and persists post-call records. The summary text itself comes
// from an external collaborator; this service only handles structured data.
type Service interface {
	BuildCallRecord(data models.SessionData, content string, at time.Time) *models.CallRecord
	SaveCallRecord(ctx context.Context, record *models.CallRecord) error
	ListCallRecords(ctx context.Context) ([]models.CallRecord, error)
}

// DefaultService is the production implementation. With a queue client the
// write happens asynchronously via the worker; without one (memory mode) it
// falls back to a direct write.
type DefaultService struct {
	Repo  summaryRepo.SummaryRepository
	Queue *asynq.Client
}

// BuildCallRecord assembles a call record from the session export and the
// externally generated summary content.
func (s *DefaultService) BuildCallRecord(data models.SessionData, content string, at time.Time) *models.CallRecord {
	record := &models.CallRecord{
		Content:   content,
		Bookings:  data.Bookings,
		Timestamp: at.Format("2006-01-02 15:04:05"),
	}
	if data.Guest != nil {
		record.GuestID = data.Guest.ID
	}
	return record
}

// SaveCallRecord persists the record, preferring the async queue.
func (s *DefaultService) SaveCallRecord(ctx context.Context, record *models.CallRecord) error {
	if s.Queue != nil {
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal call record: %w", err)
		}
		if _, err := s.Queue.EnqueueContext(ctx, asynq.NewTask(TaskTypeSave, payload)); err != nil {
			return fmt.Errorf("failed to enqueue call record: %w", err)
		}
		utils.GetLogger().Info("Call record enqueued", zap.String("guestId", record.GuestID))
		return nil
	}
	return s.Repo.Create(ctx, record)
}

// ListCallRecords returns all stored call records, newest first.
func (s *DefaultService) ListCallRecords(ctx context.Context) ([]models.CallRecord, error) {
	return s.Repo.GetAll(ctx)
}
