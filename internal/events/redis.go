package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel is the pub/sub channel inventory events go to.
const DefaultRedisChannel = "inventory_events"

// RedisPublisher publishes events with Redis PUBLISH.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(addr, password string, db int) (*RedisPublisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPublisher{
		client:  rdb,
		channel: DefaultRedisChannel,
	}, nil
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	data, err := event.Marshal()
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}

	return nil
}

// Close implements Publisher.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
