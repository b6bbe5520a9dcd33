// file: websocket/redis_bridge.go
package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"go-club-hub/logger"
)

// RedisBridge fans chat events out to every instance through a Redis pub/sub
// channel. Each instance subscribes and delivers to its own connections.
type RedisBridge struct {
	client  *redis.Client
	channel string
}

// NewRedisBridge connects using a redis:// URL.
func NewRedisBridge(ctx context.Context, redisURL, channel string) (*RedisBridge, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisBridge{client: client, channel: channel}, nil
}

func encodeEvent(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

func decodeEvent(payload string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, err
	}
	if ev.RoomID == 0 || ev.ClubID == 0 {
		return Event{}, fmt.Errorf("event without club or room")
	}
	return ev, nil
}

func (b *RedisBridge) Publish(ctx context.Context, ev Event) error {
	payload, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

// Run subscribes to the channel and hands events to deliver until ctx is
// cancelled.
func (b *RedisBridge) Run(ctx context.Context, deliver func(Event)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	logger.Info.Printf("[RedisBridge] subscribed to %s", b.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			ev, err := decodeEvent(msg.Payload)
			if err != nil {
				logger.Warn.Printf("[RedisBridge] dropping malformed event: %v", err)
				continue
			}
			deliver(ev)
		}
	}
}

func (b *RedisBridge) Close() error {
	return b.client.Close()
}
