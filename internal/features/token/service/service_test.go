package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "sbt-gateway-backend/internal/common/errors"
	"sbt-gateway-backend/internal/features/token/models"
	usermodels "sbt-gateway-backend/internal/features/user/models"
	userrepo "sbt-gateway-backend/internal/features/user/repository"
	"sbt-gateway-backend/internal/platform/relayer"
)

const (
	testUserID = "alice-01"
	testChain  = "sepolia"
)

var (
	testWallet         = "0x" + strings.Repeat("ab", 20)
	testDelegateWallet = "0x" + strings.Repeat("cd", 20)
)

type fakeUserRepo struct {
	users map[string]*usermodels.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *usermodels.User) error { return nil }

func (f *fakeUserRepo) GetByID(ctx context.Context, userID string) (*usermodels.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, userrepo.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByWallet(ctx context.Context, walletAddress string) (*usermodels.User, error) {
	for _, user := range f.users {
		if user.WalletAddress == walletAddress {
			return user, nil
		}
	}
	return nil, userrepo.ErrUserNotFound
}

type fakeTokenRepo struct {
	mu      sync.Mutex
	created []models.Token
	fail    error
}

func (f *fakeTokenRepo) Create(ctx context.Context, token *models.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.created = append(f.created, *token)
	return nil
}

func (f *fakeTokenRepo) GetByID(ctx context.Context, tokenID string) (*models.Token, error) {
	return nil, nil
}

func (f *fakeTokenRepo) GetByUser(ctx context.Context, userID string) ([]models.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Token
	for _, token := range f.created {
		if token.UserID == userID {
			out = append(out, token)
		}
	}
	return out, nil
}

func (f *fakeTokenRepo) GetByWallet(ctx context.Context, walletAddress, blockchain string) ([]models.Token, error) {
	return nil, nil
}

func (f *fakeTokenRepo) UpdateStatus(ctx context.Context, tokenID string, status models.TokenStatus, transactionHash string) error {
	return nil
}

type fakeGateway struct {
	registerCalls int
	delegateCalls int
	mintCalls     int
	balance       int64
	sbtAddr       string
	chain         string
	lastMint      relayer.MintRewardRequest
}

// chainFor mimics a relay that may normalize the requested chain identifier.
func (f *fakeGateway) chainFor(requested string) string {
	if f.chain != "" {
		return f.chain
	}
	return requested
}

func (f *fakeGateway) RegisterToken(ctx context.Context, req relayer.RegisterTokenRequest) (*relayer.Response, error) {
	f.registerCalls++
	return &relayer.Response{
		Status:  relayer.StatusSuccess,
		Message: "OK",
		TokenID: 42,
		Image:   "https://ipfs.io/ipfs/test-hash",
		Chain:   f.chainFor(req.Blockchain),
		SBTAddr: f.sbtAddr,
	}, nil
}

func (f *fakeGateway) RegisterDelegateToken(ctx context.Context, req relayer.DelegateTokenRequest) (*relayer.Response, error) {
	f.delegateCalls++
	return &relayer.Response{
		Status:  relayer.StatusSuccess,
		Message: "OK",
		TokenID: 43,
		Image:   "https://ipfs.io/ipfs/test-delegate-hash",
		Chain:   f.chainFor(req.Blockchain),
		SBTAddr: f.sbtAddr,
	}, nil
}

func (f *fakeGateway) CheckTokenBalance(ctx context.Context, blockchain, address string, delegated bool) (int64, error) {
	return f.balance, nil
}

func (f *fakeGateway) MintRewardToken(ctx context.Context, req relayer.MintRewardRequest) (*relayer.Response, error) {
	f.mintCalls++
	f.lastMint = req
	return &relayer.Response{
		Status:  relayer.StatusSuccess,
		Message: "Mint successfully",
		Chain:   f.chainFor(req.Blockchain),
	}, nil
}

func newTestService(sbtAddr string, balance int64) (TokenService, *fakeTokenRepo, *fakeGateway) {
	users := &fakeUserRepo{users: map[string]*usermodels.User{
		testUserID: {UserID: testUserID, WalletAddress: testWallet},
	}}
	tokens := &fakeTokenRepo{}
	gateway := &fakeGateway{sbtAddr: sbtAddr, balance: balance}
	return NewTokenService(tokens, users, gateway), tokens, gateway
}

func validIssueRequest() models.IssueTokenRequest {
	return models.IssueTokenRequest{
		UserID:        testUserID,
		WalletAddress: testWallet,
		HID:           []int{1, 2, 3},
		HIMEI:         []int{4, 5, 6},
		MCC:           "310",
		MNC:           "260",
		Distributor:   "dist-1",
		Sig:           make([]int, 65),
		Leaf:          "leafdata",
		Proof:         [][]int{make([]int, 32)},
		FID:           "fid-1",
		BID:           "bid-1",
		MID:           7,
		Blockchain:    testChain,
	}
}

func TestIssueToken(t *testing.T) {
	svc, tokens, gateway := newTestService("0x"+strings.Repeat("ef", 20), 1)

	resp, err := svc.IssueToken(context.Background(), validIssueRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, gateway.registerCalls)
	assert.Equal(t, testWallet, resp.WalletAddress)
	assert.Equal(t, testChain, resp.Blockchain)
	assert.Equal(t, "0x"+strings.Repeat("ef", 20), resp.ContractAddress)
	assert.NotEmpty(t, resp.ImageURL)
	assert.Equal(t, "42", resp.TokenID, "issue records are keyed by the relay tokenid")

	require.Len(t, tokens.created, 1)
	created := tokens.created[0]
	assert.Equal(t, models.TokenTypeSoulbound, created.TokenType)
	assert.Equal(t, models.TokenStatusMinted, created.Status)
	assert.Equal(t, "310", created.Metadata["mcc"])
	assert.Equal(t, 7, created.Metadata["mid"])
}

func TestIssueTokenContractFallback(t *testing.T) {
	svc, tokens, _ := newTestService("", 1)

	resp, err := svc.IssueToken(context.Background(), validIssueRequest())
	require.NoError(t, err)

	assert.Equal(t, "N/A", resp.ContractAddress)
	require.Len(t, tokens.created, 1)
	assert.Equal(t, "N/A", tokens.created[0].ContractAddress)
}

func TestIssueTokenPersistsRelayChain(t *testing.T) {
	svc, tokens, gateway := newTestService("", 1)
	gateway.chain = "11155111"

	resp, err := svc.IssueToken(context.Background(), validIssueRequest())
	require.NoError(t, err)

	assert.Equal(t, "11155111", resp.Blockchain)
	require.Len(t, tokens.created, 1)
	assert.Equal(t, "11155111", tokens.created[0].Blockchain, "the relay's chain is where the token was anchored")
}

func TestIssueTokenWalletMismatch(t *testing.T) {
	svc, tokens, gateway := newTestService("", 1)

	req := validIssueRequest()
	req.WalletAddress = testDelegateWallet

	_, err := svc.IssueToken(context.Background(), req)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeWalletMismatch, appErr.Code)
	assert.Zero(t, gateway.registerCalls, "relay must not be called on wallet mismatch")
	assert.Empty(t, tokens.created)
}

func TestIssueTokenWalletCaseInsensitive(t *testing.T) {
	svc, _, gateway := newTestService("", 1)

	req := validIssueRequest()
	req.WalletAddress = strings.ToUpper(testWallet[2:])
	req.WalletAddress = "0x" + req.WalletAddress

	_, err := svc.IssueToken(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.registerCalls)
}

func TestIssueTokenUnknownUser(t *testing.T) {
	svc, _, _ := newTestService("", 1)

	req := validIssueRequest()
	req.UserID = "nobody"

	_, err := svc.IssueToken(context.Background(), req)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeUserNotFound, appErr.Code)
}

func TestIssueTokenInvalidSignature(t *testing.T) {
	svc, _, gateway := newTestService("", 1)

	req := validIssueRequest()
	req.Sig = make([]int, 10)

	_, err := svc.IssueToken(context.Background(), req)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Zero(t, gateway.registerCalls)
}

func TestCheckTokenVerifiedBoundary(t *testing.T) {
	for _, tt := range []struct {
		balance  int64
		verified bool
	}{
		{balance: 0, verified: false},
		{balance: 1, verified: true},
		{balance: 5, verified: true},
	} {
		svc, _, _ := newTestService("", tt.balance)

		resp, err := svc.CheckToken(context.Background(), models.CheckTokenRequest{
			WalletAddress: testWallet,
			Blockchain:    testChain,
		})
		require.NoError(t, err)
		assert.Equal(t, tt.balance, resp.Balance)
		assert.Equal(t, tt.verified, resp.Verified, "balance %d", tt.balance)
	}
}

func TestCheckTokenRequiresBlockchain(t *testing.T) {
	svc, _, _ := newTestService("", 1)

	_, err := svc.CheckToken(context.Background(), models.CheckTokenRequest{WalletAddress: testWallet})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestCheckTokenEchoesCallerAddress(t *testing.T) {
	svc, _, _ := newTestService("", 1)

	mixedCase := "0x" + strings.Repeat("Ab", 20)
	resp, err := svc.CheckToken(context.Background(), models.CheckTokenRequest{
		WalletAddress: mixedCase,
		Blockchain:    testChain,
	})
	require.NoError(t, err)
	assert.Equal(t, mixedCase, resp.WalletAddress)
}

func validDelegateRequest() models.DelegateTokenRequest {
	return models.DelegateTokenRequest{
		UserID:                testUserID,
		WalletAddress:         testWallet,
		DelegateWalletAddress: testDelegateWallet,
		HID:                   []int{1},
		HIMEI:                 []int{2},
		MCC:                   "310",
		MNC:                   "260",
		Distributor:           "dist-1",
		Sig:                   make([]int, 65),
		Blockchain:            testChain,
	}
}

func TestDelegateTokenKeyedToDelegateWallet(t *testing.T) {
	svc, tokens, gateway := newTestService("", 1)

	resp, err := svc.DelegateToken(context.Background(), validDelegateRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, gateway.delegateCalls)
	assert.Equal(t, testDelegateWallet, resp.DelegateWalletAddress)

	require.Len(t, tokens.created, 1)
	created := tokens.created[0]
	assert.Equal(t, "43", created.TokenID)
	assert.Equal(t, models.TokenTypeDelegateSoulbound, created.TokenType)
	assert.Equal(t, testDelegateWallet, created.WalletAddress)
	assert.Equal(t, testDelegateWallet, created.DelegatedTo)
	assert.Equal(t, testWallet, created.Metadata["originalOwner"])
}

func TestDelegateTokenPersistsRelayChain(t *testing.T) {
	svc, tokens, gateway := newTestService("", 1)
	gateway.chain = "11155111"

	resp, err := svc.DelegateToken(context.Background(), validDelegateRequest())
	require.NoError(t, err)

	assert.Equal(t, "11155111", resp.Blockchain)
	require.Len(t, tokens.created, 1)
	assert.Equal(t, "11155111", tokens.created[0].Blockchain)
}

func TestDelegateTokenSelfDelegation(t *testing.T) {
	svc, _, gateway := newTestService("", 1)

	req := validDelegateRequest()
	req.DelegateWalletAddress = strings.ToUpper(testWallet[2:])
	req.DelegateWalletAddress = "0x" + req.DelegateWalletAddress

	_, err := svc.DelegateToken(context.Background(), req)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Zero(t, gateway.delegateCalls)
}

func TestMintRewardTokenFanOut(t *testing.T) {
	svc, tokens, gateway := newTestService("", 1)

	recipients := []models.Recipient{
		{Address: "0x" + strings.Repeat("11", 20), Amount: 1},
		{Address: "0x" + strings.Repeat("22", 20), Amount: 2},
		{Address: "0x" + strings.Repeat("33", 20), Amount: 3},
	}

	resp, err := svc.MintRewardToken(context.Background(), models.MintRewardTokenRequest{
		UserID:     testUserID,
		TokenType:  models.TokenTypeVCT,
		Recipients: recipients,
		Blockchain: testChain,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, gateway.mintCalls, "all recipients share one relay call")
	assert.Equal(t, relayer.RewardTokenVCT, gateway.lastMint.Token)
	assert.Equal(t, []int64{1, 2, 3}, gateway.lastMint.Amount)
	require.Len(t, gateway.lastMint.ToAddress, 3)

	require.Len(t, tokens.created, 3)
	seen := make(map[string]bool)
	for _, token := range tokens.created {
		assert.Equal(t, models.TokenTypeVCT, token.TokenType)
		assert.Equal(t, testChain, token.Blockchain)
		assert.Equal(t, "N/A", token.ContractAddress)
		assert.Equal(t, testWallet, token.Metadata["mintedBy"])
		assert.True(t, strings.HasPrefix(token.TokenID, testChain+"-VCT-"))
		assert.False(t, seen[token.TokenID], "token ids must be unique")
		seen[token.TokenID] = true
	}

	require.Len(t, resp.Recipients, 3)
	for i, result := range resp.Recipients {
		assert.Equal(t, recipients[i].Amount, result.Amount)
		assert.Equal(t, string(models.TokenStatusMinted), result.Status)
	}
}

func TestMintRewardTokenUsesRelayChain(t *testing.T) {
	svc, tokens, gateway := newTestService("", 1)
	gateway.chain = "11155111"

	resp, err := svc.MintRewardToken(context.Background(), models.MintRewardTokenRequest{
		UserID:     testUserID,
		TokenType:  models.TokenTypeWCT,
		Recipients: []models.Recipient{{Address: testDelegateWallet, Amount: 2}},
		Blockchain: testChain,
	})
	require.NoError(t, err)

	assert.Equal(t, "11155111", resp.Blockchain)
	require.Len(t, tokens.created, 1)
	assert.Equal(t, "11155111", tokens.created[0].Blockchain)
	assert.True(t, strings.HasPrefix(tokens.created[0].TokenID, "11155111-WCT-"))
}

func TestMintRewardTokenInvalidType(t *testing.T) {
	svc, _, gateway := newTestService("", 1)

	_, err := svc.MintRewardToken(context.Background(), models.MintRewardTokenRequest{
		UserID:     testUserID,
		TokenType:  models.TokenTypeSoulbound,
		Recipients: []models.Recipient{{Address: testWallet, Amount: 1}},
		Blockchain: testChain,
	})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Zero(t, gateway.mintCalls)
}

func TestMintRewardTokenRejectsNonPositiveAmount(t *testing.T) {
	svc, _, gateway := newTestService("", 1)

	_, err := svc.MintRewardToken(context.Background(), models.MintRewardTokenRequest{
		UserID:     testUserID,
		TokenType:  models.TokenTypeWCT,
		Recipients: []models.Recipient{{Address: testWallet, Amount: 0}},
		Blockchain: testChain,
	})
	require.Error(t, err)
	assert.Zero(t, gateway.mintCalls)
}

func TestGetUserTokens(t *testing.T) {
	svc, _, _ := newTestService("", 1)

	_, err := svc.IssueToken(context.Background(), validIssueRequest())
	require.NoError(t, err)

	tokens, err := svc.GetUserTokens(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Len(t, tokens, 1)

	_, err = svc.GetUserTokens(context.Background(), "nobody")
	require.Error(t, err)
}
