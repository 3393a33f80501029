package service

import (
	"context"
	"time"

	"sbt-gateway-backend/internal/common/cache"
	"sbt-gateway-backend/internal/common/logger"
	"sbt-gateway-backend/internal/platform/relayer"
)

const blockchainCacheKey = "blockchain:info"

// InfoFetcher is the slice of the relay gateway the blockchain service needs.
type InfoFetcher interface {
	FetchBlockchainInfo(ctx context.Context) ([]relayer.BlockchainInfo, error)
}

type BlockchainService interface {
	GetBlockchains(ctx context.Context) ([]relayer.BlockchainInfo, error)
}

type blockchainService struct {
	relayer InfoFetcher
	cache   *cache.CacheService
	ttl     time.Duration
}

func NewBlockchainService(gateway InfoFetcher, cacheService *cache.CacheService, ttl time.Duration) BlockchainService {
	return &blockchainService{
		relayer: gateway,
		cache:   cacheService,
		ttl:     ttl,
	}
}

// GetBlockchains returns the chains the relay supports, cached so the list
// survives short relay outages and repeated polling stays cheap.
func (s *blockchainService) GetBlockchains(ctx context.Context) ([]relayer.BlockchainInfo, error) {
	var chains []relayer.BlockchainInfo
	err := s.cache.GetOrSet(ctx, blockchainCacheKey, &chains, s.ttl, func() (interface{}, error) {
		fetched, err := s.relayer.FetchBlockchainInfo(ctx)
		if err != nil {
			return nil, err
		}
		logger.Debug().Int("chains", len(fetched)).Msg("Blockchain info refreshed from relay")
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return chains, nil
}
