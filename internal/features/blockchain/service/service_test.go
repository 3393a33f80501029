package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbt-gateway-backend/internal/common/cache"
	"sbt-gateway-backend/internal/platform/relayer"
)

type fakeFetcher struct {
	chains []relayer.BlockchainInfo
	err    error
	calls  int
}

func (f *fakeFetcher) FetchBlockchainInfo(ctx context.Context) ([]relayer.BlockchainInfo, error) {
	f.calls++
	return f.chains, f.err
}

func unreachableCache() *cache.CacheService {
	return cache.NewCacheService(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	}))
}

func TestGetBlockchainsSurvivesRedisOutage(t *testing.T) {
	fetcher := &fakeFetcher{chains: []relayer.BlockchainInfo{
		{ID: "11155111", Name: "sepolia", Available: true},
	}}
	svc := NewBlockchainService(fetcher, unreachableCache(), time.Minute)

	chains, err := svc.GetBlockchains(context.Background())
	require.NoError(t, err, "a Redis outage must not fail the request when the relay answered")
	require.Len(t, chains, 1)
	assert.Equal(t, "sepolia", chains[0].Name)
	assert.Equal(t, 1, fetcher.calls)
}

func TestGetBlockchainsPropagatesRelayError(t *testing.T) {
	fetcher := &fakeFetcher{err: assert.AnError}
	svc := NewBlockchainService(fetcher, unreachableCache(), time.Minute)

	_, err := svc.GetBlockchains(context.Background())
	require.Error(t, err)
}
