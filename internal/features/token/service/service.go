package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "sbt-gateway-backend/internal/common/errors"
	"sbt-gateway-backend/internal/common/logger"
	"sbt-gateway-backend/internal/common/validation"
	"sbt-gateway-backend/internal/features/token/models"
	"sbt-gateway-backend/internal/features/token/repository"
	usermodels "sbt-gateway-backend/internal/features/user/models"
	userrepo "sbt-gateway-backend/internal/features/user/repository"
	"sbt-gateway-backend/internal/platform/relayer"
)

// RelayGateway is the slice of the relay gateway the token workflows need.
type RelayGateway interface {
	RegisterToken(ctx context.Context, req relayer.RegisterTokenRequest) (*relayer.Response, error)
	RegisterDelegateToken(ctx context.Context, req relayer.DelegateTokenRequest) (*relayer.Response, error)
	CheckTokenBalance(ctx context.Context, blockchain, address string, delegated bool) (int64, error)
	MintRewardToken(ctx context.Context, req relayer.MintRewardRequest) (*relayer.Response, error)
}

type TokenService interface {
	IssueToken(ctx context.Context, req models.IssueTokenRequest) (*models.IssueTokenResponse, error)
	CheckToken(ctx context.Context, req models.CheckTokenRequest) (*models.CheckTokenResponse, error)
	DelegateToken(ctx context.Context, req models.DelegateTokenRequest) (*models.DelegateTokenResponse, error)
	MintRewardToken(ctx context.Context, req models.MintRewardTokenRequest) (*models.MintRewardTokenResponse, error)
	GetUserTokens(ctx context.Context, userID string) ([]models.Token, error)
}

type tokenService struct {
	tokens  repository.TokenRepository
	users   userrepo.UserRepository
	relayer RelayGateway
}

func NewTokenService(tokens repository.TokenRepository, users userrepo.UserRepository, gateway RelayGateway) TokenService {
	return &tokenService{
		tokens:  tokens,
		users:   users,
		relayer: gateway,
	}
}

// contractOrFallback keeps the contract column non-empty even when the relay
// omits sbtaddr from its response.
func contractOrFallback(sbtAddr string) string {
	if sbtAddr == "" {
		return "N/A"
	}
	return sbtAddr
}

// newTokenID synthesizes a token identifier for mint records, whose relay
// response carries no tokenid. The key encodes chain, type and issuance time
// so records sort naturally.
func newTokenID(blockchain string, tokenType models.TokenType) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s-%s-%d-%s", blockchain, tokenType, time.Now().UnixMilli(), suffix)
}

// IssueToken registers a soul-bound token with the relay on behalf of a
// registered user and persists the resulting record.
func (s *tokenService) IssueToken(ctx context.Context, req models.IssueTokenRequest) (*models.IssueTokenResponse, error) {
	if err := validation.ValidateWalletAddress(req.WalletAddress); err != nil {
		return nil, apperrors.NewValidationError("walletAddress", err.Error())
	}
	if err := validation.ValidateSignature(req.Sig); err != nil {
		return nil, apperrors.NewValidationError("sig", err.Error())
	}
	if err := validation.ValidateProof(req.Proof); err != nil {
		return nil, apperrors.NewValidationError("proof", err.Error())
	}

	user, err := s.loadUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(user.WalletAddress, req.WalletAddress) {
		return nil, apperrors.NewWalletMismatch().WithDetail("userId", req.UserID)
	}

	resp, err := s.relayer.RegisterToken(ctx, relayer.RegisterTokenRequest{
		HID:         req.HID,
		HIMEI:       req.HIMEI,
		MCC:         req.MCC,
		MNC:         req.MNC,
		Owner:       req.WalletAddress,
		Distributor: req.Distributor,
		Sig:         req.Sig,
		Leaf:        req.Leaf,
		Proof:       req.Proof,
		FID:         req.FID,
		BID:         req.BID,
		MID:         req.MID,
		Blockchain:  req.Blockchain,
	})
	if err != nil {
		return nil, err
	}

	// The relay may normalize the chain identifier; its response is the
	// authoritative record of where the token was anchored.
	token := &models.Token{
		TokenID:         strconv.FormatInt(resp.TokenID, 10),
		UserID:          req.UserID,
		WalletAddress:   strings.ToLower(req.WalletAddress),
		TokenType:       models.TokenTypeSoulbound,
		Blockchain:      resp.Chain,
		ContractAddress: contractOrFallback(resp.SBTAddr),
		ImageURL:        resp.Image,
		Metadata: map[string]interface{}{
			"mcc":         req.MCC,
			"mnc":         req.MNC,
			"distributor": req.Distributor,
			"fid":         req.FID,
			"bid":         req.BID,
			"mid":         req.MID,
		},
		Status: models.TokenStatusMinted,
	}

	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to save token")
	}

	logger.Info().
		Str("token_id", token.TokenID).
		Str("user_id", req.UserID).
		Str("blockchain", token.Blockchain).
		Msg("Token issued")

	return &models.IssueTokenResponse{
		TokenID:         token.TokenID,
		WalletAddress:   token.WalletAddress,
		Blockchain:      token.Blockchain,
		ContractAddress: token.ContractAddress,
		ImageURL:        token.ImageURL,
		Timestamp:       time.Now().UTC(),
	}, nil
}

// CheckToken queries the relay for the on-chain token balance of a wallet. A
// wallet is verified when it holds at least one token.
func (s *tokenService) CheckToken(ctx context.Context, req models.CheckTokenRequest) (*models.CheckTokenResponse, error) {
	if err := validation.ValidateWalletAddress(req.WalletAddress); err != nil {
		return nil, apperrors.NewValidationError("walletAddress", err.Error())
	}
	if req.Blockchain == "" {
		return nil, apperrors.NewValidationError("blockchain", "blockchain is required")
	}

	balance, err := s.relayer.CheckTokenBalance(ctx, req.Blockchain, req.WalletAddress, req.IsDelegated)
	if err != nil {
		return nil, err
	}

	return &models.CheckTokenResponse{
		WalletAddress: req.WalletAddress,
		Blockchain:    req.Blockchain,
		Balance:       balance,
		Verified:      balance > 0,
	}, nil
}

// DelegateToken registers a delegated soul-bound token. The record is keyed
// to the delegate's wallet so balance checks against the delegate address
// find it.
func (s *tokenService) DelegateToken(ctx context.Context, req models.DelegateTokenRequest) (*models.DelegateTokenResponse, error) {
	if err := validation.ValidateWalletAddress(req.WalletAddress); err != nil {
		return nil, apperrors.NewValidationError("walletAddress", err.Error())
	}
	if err := validation.ValidateWalletAddress(req.DelegateWalletAddress); err != nil {
		return nil, apperrors.NewValidationError("delegateWalletAddress", err.Error())
	}
	if err := validation.ValidateSignature(req.Sig); err != nil {
		return nil, apperrors.NewValidationError("sig", err.Error())
	}
	if strings.EqualFold(req.WalletAddress, req.DelegateWalletAddress) {
		return nil, apperrors.NewValidationError("delegateWalletAddress", "delegate wallet must differ from the owner wallet")
	}

	user, err := s.loadUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(user.WalletAddress, req.WalletAddress) {
		return nil, apperrors.NewWalletMismatch().WithDetail("userId", req.UserID)
	}

	resp, err := s.relayer.RegisterDelegateToken(ctx, relayer.DelegateTokenRequest{
		HID:           req.HID,
		HIMEI:         req.HIMEI,
		MCC:           req.MCC,
		MNC:           req.MNC,
		Owner:         req.WalletAddress,
		DelegateOwner: req.DelegateWalletAddress,
		Distributor:   req.Distributor,
		Sig:           req.Sig,
		Blockchain:    req.Blockchain,
	})
	if err != nil {
		return nil, err
	}

	delegateWallet := strings.ToLower(req.DelegateWalletAddress)
	token := &models.Token{
		TokenID:         strconv.FormatInt(resp.TokenID, 10),
		UserID:          req.UserID,
		WalletAddress:   delegateWallet,
		TokenType:       models.TokenTypeDelegateSoulbound,
		Blockchain:      resp.Chain,
		ContractAddress: contractOrFallback(resp.SBTAddr),
		ImageURL:        resp.Image,
		Metadata: map[string]interface{}{
			"originalOwner": strings.ToLower(req.WalletAddress),
			"mcc":           req.MCC,
			"mnc":           req.MNC,
			"distributor":   req.Distributor,
		},
		Status:      models.TokenStatusMinted,
		DelegatedTo: delegateWallet,
	}

	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to save delegate token")
	}

	logger.Info().
		Str("token_id", token.TokenID).
		Str("user_id", req.UserID).
		Str("delegate_wallet", delegateWallet).
		Msg("Delegate token issued")

	return &models.DelegateTokenResponse{
		TokenID:               token.TokenID,
		WalletAddress:         strings.ToLower(req.WalletAddress),
		DelegateWalletAddress: delegateWallet,
		Blockchain:            token.Blockchain,
		ContractAddress:       token.ContractAddress,
		ImageURL:              token.ImageURL,
		Timestamp:             time.Now().UTC(),
	}, nil
}

// MintRewardToken mints VCT/WCT tokens for a batch of recipients in a single
// relay call, then persists one record per recipient concurrently.
func (s *tokenService) MintRewardToken(ctx context.Context, req models.MintRewardTokenRequest) (*models.MintRewardTokenResponse, error) {
	rewardCode, err := rewardTokenCode(req.TokenType)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateRecipientCount(len(req.Recipients)); err != nil {
		return nil, apperrors.NewValidationError("recipients", err.Error())
	}
	for i, recipient := range req.Recipients {
		if err := validation.ValidateWalletAddress(recipient.Address); err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("recipients[%d].address", i), err.Error())
		}
		if recipient.Amount <= 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("recipients[%d].amount", i), "amount must be positive")
		}
	}

	user, err := s.loadUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	addresses := make([]string, len(req.Recipients))
	amounts := make([]int64, len(req.Recipients))
	for i, recipient := range req.Recipients {
		addresses[i] = strings.ToLower(recipient.Address)
		amounts[i] = recipient.Amount
	}

	resp, err := s.relayer.MintRewardToken(ctx, relayer.MintRewardRequest{
		Token:      rewardCode,
		ToAddress:  addresses,
		Amount:     amounts,
		Blockchain: req.Blockchain,
	})
	if err != nil {
		return nil, err
	}

	chain := resp.Chain
	contract := contractOrFallback(resp.SBTAddr)
	results := make([]models.MintRecipientResult, len(req.Recipients))

	var wg sync.WaitGroup
	errs := make(chan error, len(req.Recipients))
	for i := range req.Recipients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := &models.Token{
				TokenID:         newTokenID(chain, req.TokenType),
				UserID:          req.UserID,
				WalletAddress:   addresses[i],
				TokenType:       req.TokenType,
				Blockchain:      chain,
				ContractAddress: contract,
				Metadata: map[string]interface{}{
					"amount":   amounts[i],
					"mintedBy": user.WalletAddress,
				},
				Status: models.TokenStatusMinted,
			}
			if err := s.tokens.Create(ctx, token); err != nil {
				errs <- fmt.Errorf("recipient %s: %w", addresses[i], err)
				return
			}
			results[i] = models.MintRecipientResult{
				Address: addresses[i],
				Amount:  amounts[i],
				Status:  string(models.TokenStatusMinted),
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to save minted reward tokens")
	}

	logger.Info().
		Str("user_id", req.UserID).
		Str("token_type", string(req.TokenType)).
		Int("recipients", len(req.Recipients)).
		Str("blockchain", chain).
		Msg("Reward tokens minted")

	return &models.MintRewardTokenResponse{
		Blockchain: chain,
		Recipients: results,
		Timestamp:  time.Now().UTC(),
	}, nil
}

// GetUserTokens lists the token records persisted for a user.
func (s *tokenService) GetUserTokens(ctx context.Context, userID string) ([]models.Token, error) {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}

	tokens, err := s.tokens.GetByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to list user tokens")
	}
	return tokens, nil
}

func (s *tokenService) loadUser(ctx context.Context, userID string) (*usermodels.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return nil, apperrors.NewUserNotFound(userID)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to load user")
	}
	return user, nil
}

func rewardTokenCode(tokenType models.TokenType) (int, error) {
	switch tokenType {
	case models.TokenTypeVCT:
		return relayer.RewardTokenVCT, nil
	case models.TokenTypeWCT:
		return relayer.RewardTokenWCT, nil
	default:
		return 0, apperrors.NewValidationError("tokenType", "tokenType must be VCT or WCT")
	}
}
