package cache

import (
	"context"
	"log/slog"
	"time"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeSet safely stores a cache value with logging
func SafeSet(ctx context.Context, helper *CacheHelper, key string, value interface{}, ttl time.Duration) {
	if err := helper.Set(ctx, key, value, ttl); err != nil {
		slog.ErrorContext(ctx, "Failed to set cache key",
			"error", err,
			"key", key)
	}
}

// InvalidateCatalogCache drops cached category and subject listings after a
// catalog write.
func InvalidateCatalogCache(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Catalog, "*")
}

// CachedExists answers an existence check through the exists cache. Only
// positive results are stored: rows are never deleted, so a cached true can
// never go stale, while a false may flip to true on the next insert.
func CachedExists(ctx context.Context, cm *CacheManager, key string, fetch func() (bool, error)) (bool, error) {
	var cached bool
	if err := cm.Exists.Get(ctx, key, &cached); err == nil && cached {
		return true, nil
	}

	exists, err := fetch()
	if err != nil {
		return false, err
	}
	if exists {
		SafeSet(ctx, cm.Exists, key, true, ExistsCacheConfig.TTL)
	}
	return exists, nil
}
