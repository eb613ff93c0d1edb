// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisChangeFeed implements [ChangeFeed] over Redis pub/sub, so every API
// instance sees writes made through any other instance.
type RedisChangeFeed struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// NewRedisChangeFeed creates a feed publishing on channel.
func NewRedisChangeFeed(client *redis.Client, channel string, logger *slog.Logger) *RedisChangeFeed {
	return &RedisChangeFeed{client: client, channel: channel, logger: logger}
}

// Publish sends one change message.
func (feed *RedisChangeFeed) Publish(ctx context.Context, op, eventID string) error {
	payload, err := json.Marshal(Change{Op: op, EventID: eventID, At: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("redis_event_change_encode_failed: %w", err)
	}

	if err := feed.client.Publish(ctx, feed.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis_event_change_publish_failed: %w", err)
	}
	return nil
}

// Subscribe blocks, calling notify for each message, until ctx is done.
// Malformed messages are logged and skipped.
func (feed *RedisChangeFeed) Subscribe(ctx context.Context, notify func(Change)) error {
	pubsub := feed.client.Subscribe(ctx, feed.channel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed before delivering anything.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis_event_change_subscribe_failed: %w", err)
	}

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case message, ok := <-messages:
			if !ok {
				return nil
			}

			var change Change
			if err := json.Unmarshal([]byte(message.Payload), &change); err != nil {
				feed.logger.WarnContext(ctx, "event_change_decode_failed",
					slog.String("channel", message.Channel),
					slog.Any("error", err),
				)
				continue
			}
			notify(change)
		}
	}
}
