package repository

import (
	"context"
	"errors"

	"sbt-gateway-backend/internal/features/token/models"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExists   = errors.New("token already exists")
)

// TokenRepository persists token records produced by the lifecycle workflows.
type TokenRepository interface {
	Create(ctx context.Context, token *models.Token) error
	GetByID(ctx context.Context, tokenID string) (*models.Token, error)
	GetByUser(ctx context.Context, userID string) ([]models.Token, error)
	GetByWallet(ctx context.Context, walletAddress, blockchain string) ([]models.Token, error)
	UpdateStatus(ctx context.Context, tokenID string, status models.TokenStatus, transactionHash string) error
}
