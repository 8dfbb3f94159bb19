package utils

import (
	"context"
	"fmt"
	"time"

	"sokoni/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient holds customer sessions.
	CacheClient *redis.Client
	// EventsClient carries payment events over pub/sub.
	EventsClient *redis.Client
)

func newRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (db %d): %w", db, err)
	}
	return client, nil
}

// InitCache connects the session cache and the events client.
func InitCache() error {
	var err error
	if CacheClient, err = newRedisClient(config.AppConfig.RedisCacheDB); err != nil {
		return err
	}
	if EventsClient, err = newRedisClient(config.AppConfig.RedisEventsDB); err != nil {
		CacheClient.Close()
		CacheClient = nil
		return err
	}
	return nil
}

// CloseCache closes whichever Redis clients are open.
func CloseCache() {
	for _, c := range []*redis.Client{CacheClient, EventsClient} {
		if c != nil {
			_ = c.Close()
		}
	}
}
