package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const DefaultQueueSize = 256

// RedisPublisher publishes events on a Redis pub/sub channel from its own
// goroutine, so Publish only enqueues.
type RedisPublisher struct {
	logger  *slog.Logger
	client  *redis.Client
	channel string
	queue   chan Event
}

func NewRedisPublisher(logger *slog.Logger, client *redis.Client, channel string, queueSize int) *RedisPublisher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &RedisPublisher{
		logger:  logger.With("component", "events"),
		client:  client,
		channel: channel,
		queue:   make(chan Event, queueSize),
	}
}

// Publish - enqueues event; when the queue is full the event is dropped.
func (that *RedisPublisher) Publish(event Event) {
	select {
	case that.queue <- event:
	default:
		that.logger.Warn("event queue full, dropping event", "kind", event.Kind, "id", event.ID)
	}
}

// Run - drains the queue until ctx is done.
func (that *RedisPublisher) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	for {
		select {
		case <-ctx.Done():
			log.Info("event publisher stopped")
			return
		case event := <-that.queue:
			if err := that.send(ctx, event); err != nil {
				log.Error("failed to publish event", "kind", event.Kind, "error", err)
			}
		}
	}
}

func (that *RedisPublisher) send(ctx context.Context, event Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, that.channel, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", that.channel, err)
	}

	return nil
}
