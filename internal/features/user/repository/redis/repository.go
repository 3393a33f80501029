package redis

import (
	"context"
	"fmt"
	"time"

	"sbt-gateway-backend/internal/common/cache"
	"sbt-gateway-backend/internal/common/logger"
	"sbt-gateway-backend/internal/features/user/models"
	"sbt-gateway-backend/internal/features/user/repository"
)

// cachedRepository is a read-through cache in front of another
// UserRepository. Cache failures degrade to the underlying store and never
// fail a request.
type cachedRepository struct {
	inner repository.UserRepository
	cache *cache.CacheService
	ttl   time.Duration
}

func NewCachedRepository(inner repository.UserRepository, cacheService *cache.CacheService, ttl time.Duration) repository.UserRepository {
	return &cachedRepository{inner: inner, cache: cacheService, ttl: ttl}
}

func keyByID(userID string) string      { return fmt.Sprintf("user:%s", userID) }
func keyByWallet(address string) string { return fmt.Sprintf("wallet:%s", address) }

func (r *cachedRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.inner.Create(ctx, user); err != nil {
		return err
	}
	r.store(ctx, user)
	return nil
}

func (r *cachedRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := r.cache.Get(ctx, keyByID(userID), &user); err == nil {
		return &user, nil
	}

	found, err := r.inner.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.store(ctx, found)
	return found, nil
}

func (r *cachedRepository) GetByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	var user models.User
	if err := r.cache.Get(ctx, keyByWallet(walletAddress), &user); err == nil {
		return &user, nil
	}

	found, err := r.inner.GetByWallet(ctx, walletAddress)
	if err != nil {
		return nil, err
	}
	r.store(ctx, found)
	return found, nil
}

func (r *cachedRepository) store(ctx context.Context, user *models.User) {
	if err := r.cache.Set(ctx, keyByID(user.UserID), user, r.ttl); err != nil {
		logger.Debug().Err(err).Str("user_id", user.UserID).Msg("User cache write failed")
		return
	}
	if err := r.cache.Set(ctx, keyByWallet(user.WalletAddress), user, r.ttl); err != nil {
		logger.Debug().Err(err).Str("user_id", user.UserID).Msg("User cache write failed")
	}
}
