package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"sbt-gateway-backend/internal/features/user/models"
	"sbt-gateway-backend/internal/features/user/repository"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.UserRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, user *models.User) error {
	metadata, err := json.Marshal(user.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal user metadata: %w", err)
	}
	if user.Metadata == nil {
		metadata = []byte("{}")
	}

	query := `
		INSERT INTO users (user_id, wallet_address, public_key, email, name, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRowContext(ctx, query,
		user.UserID, strings.ToLower(user.WalletAddress), user.PublicKey,
		user.Email, user.Name, metadata).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT user_id, wallet_address, public_key, email, name, metadata, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, userID))
}

func (r *postgresRepository) GetByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	query := `
		SELECT user_id, wallet_address, public_key, email, name, metadata, created_at, updated_at
		FROM users
		WHERE wallet_address = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(walletAddress)))
}

func (r *postgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var metadata []byte

	err := row.Scan(&user.UserID, &user.WalletAddress, &user.PublicKey,
		&user.Email, &user.Name, &metadata, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &user.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user metadata: %w", err)
		}
	}

	return &user, nil
}
