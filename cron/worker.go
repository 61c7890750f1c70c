package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"maitred/config"
	summaryRepo "maitred/database/repository/summary"
	"maitred/models"
	"maitred/services/summary"

	"github.com/hibiken/asynq"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewQueueClient returns the asynq client used to enqueue call-record saves.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(redisOpts())
}

// InitSummaryWorker runs the async worker in background.
func InitSummaryWorker(repo summaryRepo.SummaryRepository) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(summary.TaskTypeSave, handleSummarySave(repo))

	go func() {
		log.Println("[SummaryWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SummaryWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SummaryWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleSummarySave(repo summaryRepo.SummaryRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var record models.CallRecord
		if err := json.Unmarshal(task.Payload(), &record); err != nil {
			log.Printf("[SummaryWorker] Invalid payload: %v", err)
			return err
		}

		if err := repo.Create(ctx, &record); err != nil {
			log.Printf("[SummaryWorker] Failed to persist call record: %v", err)
			return err
		}
		log.Printf("[SummaryWorker] Call record persisted: %s", record.ID)
		return nil
	}
}
