/**
* Name: 			cache.go
* Description: 		외부 API 응답 캐시 (메모리 또는 Redis)
* Workflow: 		REDIS_ADDR 설정 시 Redis, 아니면 프로세스 메모리
 */
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"AnsanMomCare/internal/config"
	"AnsanMomCare/internal/metrics"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Store는 JSON 직렬화 값을 TTL과 함께 보관한다
type Store interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Close() error
}

// New는 설정에 따라 Redis 또는 메모리 캐시를 만든다
func New(cfg config.CacheConfig, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.RedisAddr == "" {
		log.Info("New(): using in-memory cache", zap.Duration("ttl", cfg.TTL))
		return NewMemory(cfg.TTL), nil
	}
	store, err := NewRedis(cfg.RedisAddr, cfg.TTL, log)
	if err != nil {
		return nil, err
	}
	log.Info("New(): using redis cache", zap.String("addr", cfg.RedisAddr))
	return store, nil
}

type Memory struct {
	c *gocache.Cache
}

func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{c: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		m.c.Delete(key)
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		m.c.Delete(key)
		return false, fmt.Errorf("cache.Get(): corrupted entry %s: %w", key, err)
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return true, nil
}

// ttl이 0이면 기본 TTL 사용
func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache.Set(): marshal %s: %w", key, err)
	}
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, data, ttl)
	return nil
}

func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
