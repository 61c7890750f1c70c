// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"maitred/config"

	"github.com/go-redis/redis/v8"
)

// EventsClient is the Redis client backing the call-observability channel.
var EventsClient *redis.Client

// InitEventsClient initializes the Redis client used for publishing call events.
func InitEventsClient() {
	EventsClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEventsDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := EventsClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Events): %v", err)
	}
}

// GetEventsClient returns the Redis client for the call-observability channel.
func GetEventsClient() *redis.Client {
	if EventsClient == nil {
		InitEventsClient()
	}
	return EventsClient
}
