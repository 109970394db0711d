package xredis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/questx-lab/lottery/pkg/xcontext"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by GetObj when the key does not exist.
var ErrNotFound = errors.New("key not found")

type Client interface {
	Del(ctx context.Context, key ...string) error
	SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObj(ctx context.Context, key string, v any) error
}

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) Del(ctx context.Context, key ...string) error {
	err := c.redisClient.Del(ctx, key...).Err()
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}

	return err
}

func (c *client) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return c.redisClient.Set(ctx, key, b, ttl).Err()
}

func (c *client) GetObj(ctx context.Context, key string, v any) error {
	s, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}

	return json.Unmarshal([]byte(s), v)
}
