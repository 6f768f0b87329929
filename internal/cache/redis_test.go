package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	r := NewRedis(mr.Addr())
	t.Cleanup(func() { _ = r.Close() })
	return mr, r
}

func sample() []domain.Listing {
	return []domain.Listing{
		{ID: "remotive_1", Title: "Software Engineer", Organization: "Acme", URL: "https://x", RelevanceScore: 8},
		{ID: "arbeitnow_a", Title: "Data Analyst", Organization: "Beta", URL: "https://y", RelevanceScore: 1},
	}
}

func TestRedisRoundTrip(t *testing.T) {
	_, r := newTestRedis(t)
	ctx := context.Background()

	key := Key("jobs", "software engineer", "germany", "go,python")
	_, ok := r.Get(ctx, key)
	assert.False(t, ok)

	r.Set(ctx, key, sample(), 3*time.Hour)

	got, ok := r.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, sample(), got)
}

func TestRedisTTLExpiry(t *testing.T) {
	mr, r := newTestRedis(t)
	ctx := context.Background()

	key := Key("jobs", "engineer", "", "")
	r.Set(ctx, key, sample(), 3*time.Hour)

	mr.FastForward(3*time.Hour + time.Minute)

	_, ok := r.Get(ctx, key)
	assert.False(t, ok, "expired entry must read as a miss")
}

func TestRedisBackendDownDegradesToMiss(t *testing.T) {
	mr, r := newTestRedis(t)
	ctx := context.Background()

	mr.Close()

	_, ok := r.Get(ctx, Key("jobs", "engineer", "", ""))
	assert.False(t, ok)
	// Set must not panic or error out either.
	r.Set(ctx, Key("jobs", "engineer", "", ""), sample(), time.Hour)
}

func TestKeyNamespacing(t *testing.T) {
	a := Key("jobs", "engineer", "usa", "go")
	b := Key("courses", "engineer", "usa", "go")
	c := Key("jobs", "engineer", "usa", "python")

	assert.NotEqual(t, a, b, "namespaces must not collide")
	assert.NotEqual(t, a, c, "different skills must not collide")
	assert.Equal(t, a, Key("jobs", "engineer", "usa", "go"))
}
