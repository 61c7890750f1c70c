package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"maitred/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Publisher delivers tool events to the call-observability channel. Publishing
// is best effort; a failed publish must never fail the tool call itself.
type Publisher interface {
	Publish(ctx context.Context, event models.ToolEvent) error
}

// channelFor returns the per-call pub/sub channel name.
func channelFor(callID string) string {
	return fmt.Sprintf("calls:events:%s", callID)
}

// RedisPublisher publishes tool events over Redis pub/sub.
type RedisPublisher struct {
	Client *redis.Client
}

// NewRedisPublisher returns a Publisher backed by the given Redis client.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{Client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, event models.ToolEvent) error {
	payload, err := json.Marshal(map[string]any{
		"type":    "tool_call",
		"tool":    event.Tool,
		"status":  event.Status,
		"payload": event.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal tool event: %w", err)
	}
	if err := p.Client.Publish(ctx, channelFor(event.CallID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish tool event: %w", err)
	}
	return nil
}

// LogPublisher writes tool events to the logger. Used in memory-store mode
// where no Redis is configured.
type LogPublisher struct {
	Logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{Logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event models.ToolEvent) error {
	p.Logger.Info("tool event",
		zap.String("callId", event.CallID),
		zap.String("tool", event.Tool),
		zap.String("status", event.Status),
		zap.Any("payload", event.Payload),
	)
	return nil
}

// Recorder captures published events in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	events []models.ToolEvent
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(ctx context.Context, event models.ToolEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []models.ToolEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ToolEvent, len(r.events))
	copy(out, r.events)
	return out
}
