package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/adapters/cache"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
)

// CacheFactory creates the short-term parsed-email cache
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCache creates the short-term cache. It is built even when dedup is
// disabled; the service skips it based on IsDedupEnabled.
func (f *CacheFactory) CreateCache() (core.ParsedEmailCache, error) {
	ttl, err := f.cfg.GetDuration("dedup.cache_ttl")
	if err != nil {
		return nil, fmt.Errorf("invalid dedup cache TTL: %w", err)
	}
	cleanupFreq, err := f.cfg.GetDuration("dedup.cleanup_frequency")
	if err != nil {
		return nil, fmt.Errorf("invalid dedup cleanup frequency: %w", err)
	}

	return cache.NewMemoryCache(f.cfg.GetInt("dedup.cache_size"), ttl, cleanupFreq, f.logger), nil
}

// IsDedupEnabled returns whether the short-term cache is consulted
func (f *CacheFactory) IsDedupEnabled() bool {
	return f.cfg.GetBool("dedup.enabled")
}
