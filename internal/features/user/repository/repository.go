package repository

import (
	"context"
	"errors"

	"sbt-gateway-backend/internal/features/user/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user with this ID or wallet address already exists")
)

// UserRepository is the persistence boundary for users. Uniqueness of both
// userId and walletAddress is enforced at the storage layer.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByWallet(ctx context.Context, walletAddress string) (*models.User, error)
}
