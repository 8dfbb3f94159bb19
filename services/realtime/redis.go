package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"sokoni/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisChannel fans payment events out over Redis pub/sub so any API instance can
// relay a callback received by another.
type RedisChannel struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisChannel(client *redis.Client, logger *zap.Logger) *RedisChannel {
	return &RedisChannel{client: client, logger: logger}
}

func (c *RedisChannel) Publish(ctx context.Context, ref string, ev models.PaymentEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal payment event: %w", err)
	}
	if err := c.client.Publish(ctx, channelName(ref), b).Err(); err != nil {
		return fmt.Errorf("publish payment event for %s: %w", ref, err)
	}
	return nil
}

func (c *RedisChannel) Subscribe(ctx context.Context, ref string) (*Subscription, error) {
	pubsub := c.client.Subscribe(ctx, channelName(ref))
	// Wait for the subscription to be confirmed so no publish is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", ref, err)
	}

	events := make(chan models.PaymentEvent, 4)
	done := make(chan struct{})
	go func() {
		defer close(events)
		msgs := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev models.PaymentEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					c.logger.Warn("dropping malformed payment event", zap.String("ref", ref), zap.Error(err))
					continue
				}
				select {
				case events <- ev:
				case <-done:
					return
				}
			}
		}
	}()

	return newSubscription(events, func() error {
		close(done)
		return pubsub.Close()
	}), nil
}
