package service

import (
	"context"
	"errors"
	"strings"

	apperrors "sbt-gateway-backend/internal/common/errors"
	"sbt-gateway-backend/internal/common/logger"
	"sbt-gateway-backend/internal/common/validation"
	"sbt-gateway-backend/internal/features/user/models"
	"sbt-gateway-backend/internal/features/user/repository"
)

// AddressDeriver is the slice of the relay gateway the user service needs.
type AddressDeriver interface {
	DeriveWalletAddress(ctx context.Context, publicKey string) (string, error)
}

type UserService interface {
	RegisterUser(ctx context.Context, req models.RegisterUserRequest) (*models.RegisterUserResponse, error)
	GetUser(ctx context.Context, userID string) (*models.UserResponse, error)
}

type userService struct {
	repo    repository.UserRepository
	relayer AddressDeriver
}

func NewUserService(repo repository.UserRepository, relayer AddressDeriver) UserService {
	return &userService{
		repo:    repo,
		relayer: relayer,
	}
}

// RegisterUser derives the wallet address for the public key through the
// relay and persists the user. The wallet address is normalized to lowercase
// before storage.
func (s *userService) RegisterUser(ctx context.Context, req models.RegisterUserRequest) (*models.RegisterUserResponse, error) {
	if err := validation.ValidateUserID(req.UserID); err != nil {
		return nil, apperrors.NewValidationError("userId", err.Error())
	}
	if err := validation.ValidatePublicKey(req.PublicKey); err != nil {
		return nil, apperrors.NewValidationError("publicKey", err.Error())
	}

	walletAddress, err := s.relayer.DeriveWalletAddress(ctx, req.PublicKey)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserID:        req.UserID,
		WalletAddress: strings.ToLower(walletAddress),
		PublicKey:     req.PublicKey,
		Email:         req.Email,
		Name:          req.Name,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, apperrors.New(apperrors.ErrCodeConflict, "user with this ID or wallet address already exists")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to create user")
	}

	logger.Info().
		Str("user_id", user.UserID).
		Str("wallet_address", user.WalletAddress).
		Msg("User registered")

	return &models.RegisterUserResponse{
		UserID:        user.UserID,
		WalletAddress: user.WalletAddress,
		Status:        "registered",
	}, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.NewUserNotFound(userID)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to get user")
	}

	return &models.UserResponse{
		UserID:        user.UserID,
		WalletAddress: user.WalletAddress,
		Email:         user.Email,
		Name:          user.Name,
		CreatedAt:     user.CreatedAt,
	}, nil
}
