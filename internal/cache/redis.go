package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"AnsanMomCare/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "momcare:"

type Redis struct {
	client     *redis.Client
	defaultTTL time.Duration
	log        *zap.Logger
}

func NewRedis(addr string, defaultTTL time.Duration, log *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("NewRedis(): failed to connect to %s: %w", addr, err)
	}
	return NewRedisWithClient(client, defaultTTL, log), nil
}

// 호출자가 client 수명을 관리하는 경우
func NewRedisWithClient(client *redis.Client, defaultTTL time.Duration, log *zap.Logger) *Redis {
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{client: client, defaultTTL: defaultTTL, log: log.Named("cache")}
}

func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err != nil {
		r.log.Warn("Get(): redis get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		_ = r.client.Del(ctx, keyPrefix+key)
		return false, fmt.Errorf("cache.Get(): corrupted entry %s: %w", key, err)
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache.Set(): marshal %s: %w", key, err)
	}
	if ttl == 0 {
		ttl = r.defaultTTL
	}
	if err := r.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		r.log.Warn("Set(): redis set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
