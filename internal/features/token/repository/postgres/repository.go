package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"sbt-gateway-backend/internal/features/token/models"
	"sbt-gateway-backend/internal/features/token/repository"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.TokenRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, token *models.Token) error {
	metadata, err := json.Marshal(token.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal token metadata: %w", err)
	}
	if token.Metadata == nil {
		metadata = []byte("{}")
	}

	query := `
		INSERT INTO tokens (token_id, user_id, wallet_address, token_type, blockchain,
			contract_address, image_url, metadata, transaction_hash, status, delegated_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRowContext(ctx, query,
		token.TokenID, token.UserID, strings.ToLower(token.WalletAddress),
		token.TokenType, token.Blockchain, token.ContractAddress,
		token.ImageURL, metadata, token.TransactionHash,
		token.Status, strings.ToLower(token.DelegatedTo)).
		Scan(&token.CreatedAt, &token.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrTokenExists
		}
		return fmt.Errorf("failed to create token: %w", err)
	}

	return nil
}

const tokenColumns = `token_id, user_id, wallet_address, token_type, blockchain,
	contract_address, image_url, metadata, transaction_hash, status, delegated_to,
	created_at, updated_at`

func (r *postgresRepository) GetByID(ctx context.Context, tokenID string) (*models.Token, error) {
	query := fmt.Sprintf(`SELECT %s FROM tokens WHERE token_id = $1`, tokenColumns)

	row := r.db.QueryRowContext(ctx, query, tokenID)
	token, err := scanToken(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return token, nil
}

func (r *postgresRepository) GetByUser(ctx context.Context, userID string) ([]models.Token, error) {
	query := fmt.Sprintf(`SELECT %s FROM tokens WHERE user_id = $1 ORDER BY created_at DESC`, tokenColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens by user: %w", err)
	}
	defer rows.Close()

	return collectTokens(rows)
}

func (r *postgresRepository) GetByWallet(ctx context.Context, walletAddress, blockchain string) ([]models.Token, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM tokens
		WHERE wallet_address = $1 AND blockchain = $2
		ORDER BY created_at DESC`, tokenColumns)

	rows, err := r.db.QueryContext(ctx, query, strings.ToLower(walletAddress), blockchain)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens by wallet: %w", err)
	}
	defer rows.Close()

	return collectTokens(rows)
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, tokenID string, status models.TokenStatus, transactionHash string) error {
	query := `
		UPDATE tokens
		SET status = $2, transaction_hash = COALESCE(NULLIF($3, ''), transaction_hash), updated_at = NOW()
		WHERE token_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, tokenID, status, transactionHash)
	if err != nil {
		return fmt.Errorf("failed to update token status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update token status: %w", err)
	}
	if affected == 0 {
		return repository.ErrTokenNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanToken(row rowScanner) (*models.Token, error) {
	var token models.Token
	var metadata []byte

	err := row.Scan(&token.TokenID, &token.UserID, &token.WalletAddress,
		&token.TokenType, &token.Blockchain, &token.ContractAddress,
		&token.ImageURL, &metadata, &token.TransactionHash,
		&token.Status, &token.DelegatedTo, &token.CreatedAt, &token.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &token.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal token metadata: %w", err)
		}
	}

	return &token, nil
}

func collectTokens(rows *sql.Rows) ([]models.Token, error) {
	tokens := make([]models.Token, 0)
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, *token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tokens: %w", err)
	}
	return tokens, nil
}
