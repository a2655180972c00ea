package utility

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	svc := NewMemoryCacheService()
	defer StopCache(svc)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "geo:1", "서울", 0))
	v, err := svc.Get(ctx, "geo:1")
	require.NoError(t, err)
	assert.Equal(t, "서울", v)

	require.NoError(t, svc.Delete(ctx, "geo:1"))
	v, err = svc.Get(ctx, "geo:1")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestMemoryCache_Expiry(t *testing.T) {
	svc := NewMemoryCacheService()
	defer StopCache(svc)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", 42, 20*time.Millisecond))
	v, _ := svc.Get(ctx, "k")
	assert.Equal(t, "42", v)

	time.Sleep(40 * time.Millisecond)
	v, _ = svc.Get(ctx, "k")
	assert.Empty(t, v)
}

func TestCacheFactory_NilRedisFallsBack(t *testing.T) {
	svc := NewCacheServiceWithFallback(nil)
	defer StopCache(svc)
	assert.Equal(t, CacheTypeMemory, GetCacheServiceType(svc))
}
