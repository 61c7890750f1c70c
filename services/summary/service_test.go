package summary

import (
	"context"
	"testing"
	"time"

	summaryRepo "maitred/database/repository/summary"
	"maitred/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCallRecord(t *testing.T) {
	svc := &DefaultService{Repo: summaryRepo.NewMemorySummaryRepo()}

	data := models.SessionData{
		Guest: &models.Guest{ID: "guest-1", Name: "Ana"},
		Bookings: []models.Appointment{
			{ID: "appt-1", StartTime: "2023-10-27T19:00:00", PartySize: 2, Status: models.StatusBooked},
		},
	}
	at := time.Date(2023, 10, 27, 12, 34, 56, 0, time.Local)

	record := svc.BuildCallRecord(data, "Caller booked a table for two.", at)
	assert.Equal(t, "guest-1", record.GuestID)
	assert.Equal(t, "Caller booked a table for two.", record.Content)
	assert.Equal(t, "2023-10-27 12:34:56", record.Timestamp)
	require.Len(t, record.Bookings, 1)
	assert.Equal(t, "appt-1", record.Bookings[0].ID)
}

func TestBuildCallRecordAnonymousCall(t *testing.T) {
	svc := &DefaultService{Repo: summaryRepo.NewMemorySummaryRepo()}

	record := svc.BuildCallRecord(models.SessionData{}, "Caller hung up early.", time.Now())
	assert.Empty(t, record.GuestID)
	assert.Empty(t, record.Bookings)
}

func TestSaveCallRecordDirectWrite(t *testing.T) {
	repo := summaryRepo.NewMemorySummaryRepo()
	svc := &DefaultService{Repo: repo}
	ctx := context.Background()

	// No queue configured: the record goes straight to the repository.
	first := svc.BuildCallRecord(models.SessionData{}, "first call", time.Now())
	require.NoError(t, svc.SaveCallRecord(ctx, first))
	second := svc.BuildCallRecord(models.SessionData{}, "second call", time.Now())
	require.NoError(t, svc.SaveCallRecord(ctx, second))

	records, err := svc.ListCallRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "second call", records[0].Content, "newest first")
	assert.NotEmpty(t, records[0].ID)
}
