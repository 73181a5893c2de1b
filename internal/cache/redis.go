package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"reviewapi/internal/config"
)

// NewRedisClient opens a client for cfg and verifies it with a ping.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	log.Info().Str("component", "cache").Str("redis_addr", cfg.Addr).Msg("redis connection ok")
	return rdb, nil
}

// Redis is a Cache backed by a go-redis client. Values are stored as JSON.
type Redis struct {
	c   redis.UniversalClient
	ops *prometheus.CounterVec
}

// NewRedis wraps c and registers the cache_operations_total counter on reg.
func NewRedis(c redis.UniversalClient, reg prometheus.Registerer) (*Redis, error) {
	ops := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations by result.",
		},
		[]string{"result"},
	)
	if err := reg.Register(ops); err != nil {
		return nil, err
	}
	return &Redis{c: c, ops: ops}, nil
}

func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.ops.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err != nil {
		r.ops.WithLabelValues("error").Inc()
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(v, dst); err != nil {
		r.ops.WithLabelValues("error").Inc()
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	r.ops.WithLabelValues("hit").Inc()
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	r.ops.WithLabelValues("set").Inc()
	return r.c.Set(ctx, key, b, ttl).Err()
}

func (r *Redis) Version(ctx context.Context, key string) (int64, error) {
	v, err := r.c.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		r.ops.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("cache version %s: %w", key, err)
	}
	return v, nil
}

// Bump increments every counter in one round trip. Counters carry no TTL so a
// generation is never reused.
func (r *Redis) Bump(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	r.ops.WithLabelValues("bump").Inc()
	_, err := r.c.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			p.Incr(ctx, k)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache bump: %w", err)
	}
	return nil
}
