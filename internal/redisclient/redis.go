package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Connection bundles the Redis client with the rmq queue connection built on it
type Connection struct {
	Client *redis.Client
	Queues rmq.Connection
}

// Options describes where Redis lives
type Options struct {
	Address  string
	Password string
	Database int

	// ConnectTimeout bounds the retries spent waiting for Redis to come up
	ConnectTimeout time.Duration
}

// Connect pings Redis with exponential backoff and opens the queue connection
func Connect(ctx context.Context, opts Options) (*Connection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.Database,
	})

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = opts.ConnectTimeout
	if policy.MaxElapsedTime == 0 {
		policy.MaxElapsedTime = 10 * time.Second
	}

	ping := func() error {
		return client.Ping(ctx).Err()
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("address", opts.Address).Dur("retry_in", wait).Msg("Redis not ready")
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(policy, ctx), notify); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redisclient: failed to ping %s: %w", opts.Address, err)
	}

	queues, err := rmq.OpenConnectionWithRedisClient("railtracker", client, nil)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redisclient: failed to open queue connection: %w", err)
	}

	log.Info().Str("address", opts.Address).Int("database", opts.Database).Msg("Connected to Redis")

	return &Connection{Client: client, Queues: queues}, nil
}

// Close stops queue consumers and closes the client
func (c *Connection) Close() error {
	if c == nil {
		return nil
	}
	<-c.Queues.StopAllConsuming()
	return c.Client.Close()
}

// Health pings Redis
func (c *Connection) Health(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redisclient: health check failed: %w", err)
	}
	return nil
}
