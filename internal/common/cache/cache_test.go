package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a port nothing listens on, so every Redis
// command fails with a connection error.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestGetOrSetSurvivesCacheOutage(t *testing.T) {
	svc := NewCacheService(unreachableClient())

	var calls int
	var dest []string
	err := svc.GetOrSet(context.Background(), "chains", &dest, time.Minute, func() (interface{}, error) {
		calls++
		return []string{"sepolia", "amoy"}, nil
	})

	require.NoError(t, err, "a cache write failure must not fail the request once the setter succeeded")
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"sepolia", "amoy"}, dest)
}

func TestGetOrSetPropagatesSetterError(t *testing.T) {
	svc := NewCacheService(unreachableClient())

	var dest []string
	err := svc.GetOrSet(context.Background(), "chains", &dest, time.Minute, func() (interface{}, error) {
		return nil, assert.AnError
	})

	require.ErrorIs(t, err, assert.AnError)
}

func TestGetReturnsErrorWhenUnreachable(t *testing.T) {
	svc := NewCacheService(unreachableClient())

	var dest string
	require.Error(t, svc.Get(context.Background(), "missing", &dest))
}
