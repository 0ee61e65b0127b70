package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

func TestCacheHelper_GetSet(t *testing.T) {
	helper := NewCacheHelper(newTestClient(t), "user:")
	ctx := context.Background()

	type record struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	require.NoError(t, helper.Set(ctx, "id:1", record{ID: 1, Name: "alice"}, time.Minute))

	var got record
	require.NoError(t, helper.Get(ctx, "id:1", &got))
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "alice", got.Name)

	err := helper.Get(ctx, "id:2", &got)
	assert.Equal(t, ErrCacheNotFound, err)
}

func TestCacheHelper_NilClient(t *testing.T) {
	helper := NewCacheHelper(nil, "")
	ctx := context.Background()

	// Writes degrade to no-ops, reads report the cache as unavailable
	assert.NoError(t, helper.Set(ctx, "k", "v", time.Minute))

	var got string
	assert.Equal(t, ErrCacheNotAvailable, helper.Get(ctx, "k", &got))
	assert.NoError(t, helper.Delete(ctx, "k"))
	assert.NoError(t, helper.InvalidatePattern(ctx, "*"))
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper := NewCacheHelper(newTestClient(t), "catalog:")
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]string{"name": "Science"}, nil
	}

	var first map[string]string
	require.NoError(t, helper.CacheOrExecute(ctx, "categories:1", &first, time.Minute, fetch))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Science", first["name"])

	// Second read is served from cache
	var second map[string]string
	require.NoError(t, helper.CacheOrExecute(ctx, "categories:1", &second, time.Minute, fetch))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Science", second["name"])
}

func TestCachedExists(t *testing.T) {
	cm := NewCacheManager(newTestClient(t))
	ctx := context.Background()

	lookups := 0
	found := func() (bool, error) {
		lookups++
		return true, nil
	}

	exists, err := CachedExists(ctx, cm, "user:1", found)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 1, lookups)

	// Second check is served from cache without touching storage
	exists, err = CachedExists(ctx, cm, "user:1", found)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 1, lookups)

	// Negative results are never cached; a later insert must become visible
	misses := 0
	missing := func() (bool, error) {
		misses++
		return false, nil
	}
	for i := 0; i < 2; i++ {
		exists, err = CachedExists(ctx, cm, "user:2", missing)
		require.NoError(t, err)
		assert.False(t, exists)
	}
	assert.Equal(t, 2, misses)
}

func TestCachedExists_NilClient(t *testing.T) {
	cm := NewCacheManager(nil)
	ctx := context.Background()

	lookups := 0
	exists, err := CachedExists(ctx, cm, "user:1", func() (bool, error) {
		lookups++
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, exists)

	// Every check falls through to storage when the cache is disabled
	_, err = CachedExists(ctx, cm, "user:1", func() (bool, error) {
		lookups++
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, lookups)
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper := NewCacheHelper(newTestClient(t), "catalog:")
	ctx := context.Background()

	require.NoError(t, helper.Set(ctx, "subjects:list", []string{"a"}, time.Minute))
	require.NoError(t, helper.Set(ctx, "subjects:category:1", []string{"b"}, time.Minute))
	require.NoError(t, helper.Set(ctx, "categories:list", []string{"c"}, time.Minute))

	require.NoError(t, helper.InvalidatePattern(ctx, "subjects:*"))

	var got []string
	assert.Equal(t, ErrCacheNotFound, helper.Get(ctx, "subjects:list", &got))
	assert.Equal(t, ErrCacheNotFound, helper.Get(ctx, "subjects:category:1", &got))
	assert.NoError(t, helper.Get(ctx, "categories:list", &got))
}
