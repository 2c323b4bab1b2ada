package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/art-studio-api/pkg/errors"
)

// cacheNamespace keeps studio keys apart from other tenants of a shared Redis.
const cacheNamespace = "art-studio:"

// CacheRepository is the key-value backend behind CacheService.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService is a read-through helper for the group list. A broken cache
// degrades to the database: callers may ignore its errors.
type CacheService struct {
	backend CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	on      bool
}

// NewCacheService builds a cache; ttl <= 0 means five minutes.
func NewCacheService(backend CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{backend: backend, metrics: metrics, ttl: ttl, logger: logger, on: enabled}
}

// Enabled reports whether lookups reach the backend. Safe on a nil receiver.
func (s *CacheService) Enabled() bool {
	return s != nil && s.on && s.backend != nil
}

// Get fills dest and reports a hit. A miss is not an error.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}

	err := s.backend.Get(ctx, cacheNamespace+key, dest)
	switch {
	case err == nil:
		s.metrics.RecordCacheLookup(true)
		return true, nil
	case errors.Is(err, appErrors.ErrCacheMiss):
		s.metrics.RecordCacheLookup(false)
		return false, nil
	default:
		s.metrics.RecordCacheLookup(false)
		return false, s.degraded("get", key, err)
	}
}

// Set stores value under key; ttl <= 0 uses the service default.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	if err := s.backend.Set(ctx, cacheNamespace+key, value, ttl); err != nil {
		return s.degraded("set", key, err)
	}
	return nil
}

// Invalidate drops every key matching pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.backend.DeleteByPattern(ctx, cacheNamespace+pattern); err != nil {
		return s.degraded("invalidate", pattern, err)
	}
	return nil
}

func (s *CacheService) degraded(op, key string, err error) error {
	s.logger.Warn("cache unavailable, falling back to database",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
	return err
}
