package relayer

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"sbt-gateway-backend/internal/common/errors"
	"sbt-gateway-backend/internal/common/logger"
)

// Addresses returned by the mock relay. They mirror the contracts the live
// relay reports on its test chain so downstream records look the same in
// both modes.
const (
	mockSBTContract         = "0x76EbB010DDe57D38bB0a56477dD620977bb3C43d"
	mockDelegateSBTContract = "0x650F77ddbD9CC00e2EE6353360BA45fe126E8e70"
	mockImageURL            = "https://ipfs.io/ipfs/mock-hash"
	mockDelegateImageURL    = "https://ipfs.io/ipfs/mock-delegate-hash"

	loopbackSentinel = "localhost:9999"
)

// Gateway is the typed façade over the relay API. In mock mode it fabricates
// structurally identical responses locally so callers never branch on mode.
type Gateway struct {
	client *Client
	mock   bool
}

// NewGateway builds a gateway. Mode is derived from the base URL once and
// fixed for the process lifetime.
func NewGateway(cfg ClientConfig) *Gateway {
	mock := isMockBaseURL(cfg.BaseURL)
	if mock {
		logger.Warn().Str("base_url", cfg.BaseURL).Msg("Relayer gateway running in mock mode")
	}
	return &Gateway{
		client: NewClient(cfg),
		mock:   mock,
	}
}

func isMockBaseURL(baseURL string) bool {
	return baseURL == "" ||
		strings.Contains(baseURL, "mock") ||
		strings.Contains(baseURL, loopbackSentinel)
}

// MockMode reports whether the gateway fabricates responses locally.
func (g *Gateway) MockMode() bool {
	return g.mock
}

// DeriveWalletAddress asks the relay to derive the wallet address for a
// public key. The relay signals success for this endpoint with status 2 and
// carries the address in the message field.
func (g *Gateway) DeriveWalletAddress(ctx context.Context, publicKey string) (string, error) {
	if g.mock {
		logger.Info().Msg("Mock mode: generating wallet address")
		return mockDeriveAddress(publicKey), nil
	}

	var resp Response
	if err := g.client.getJSON(ctx, "/relayer/address/"+publicKey, &resp); err != nil {
		return "", errors.NewServiceUnavailable(err)
	}

	if resp.Status == StatusWalletSuccess {
		return resp.Message, nil
	}
	return "", errors.NewRelayerRejected("failed to get wallet address", resp.Status, resp.Message)
}

// mockDeriveAddress builds a deterministic address from the first 40 hex
// characters of the public key, right-padded with zeroes.
func mockDeriveAddress(publicKey string) string {
	hexPart := publicKey
	if len(hexPart) > 40 {
		hexPart = hexPart[:40]
	}
	for len(hexPart) < 40 {
		hexPart += "0"
	}
	return "0x" + strings.ToLower(hexPart)
}

// RegisterToken registers a soul-bound token with the relay.
func (g *Gateway) RegisterToken(ctx context.Context, req RegisterTokenRequest) (*Response, error) {
	if g.mock {
		logger.Info().Msg("Mock mode: registering token")
		return &Response{
			Status:  StatusSuccess,
			Message: "OK",
			TokenID: rand.Int63n(1_000_000_000_000),
			Image:   mockImageURL,
			Chain:   req.Blockchain,
			SBTAddr: mockSBTContract,
		}, nil
	}

	var resp Response
	if err := g.client.postJSON(ctx, "/relayer/bip/mid", req, &resp); err != nil {
		return nil, errors.NewServiceUnavailable(err)
	}

	if resp.Status == StatusSuccess {
		return &resp, nil
	}
	return nil, errors.NewRelayerRejected("token registration failed", resp.Status, resp.Message)
}

// RegisterDelegateToken registers a delegated soul-bound token.
func (g *Gateway) RegisterDelegateToken(ctx context.Context, req DelegateTokenRequest) (*Response, error) {
	if g.mock {
		logger.Info().Msg("Mock mode: registering delegate token")
		return &Response{
			Status:  StatusSuccess,
			Message: "OK",
			TokenID: rand.Int63n(1_000_000_000_000),
			Image:   mockDelegateImageURL,
			Chain:   req.Blockchain,
			SBTAddr: mockDelegateSBTContract,
		}, nil
	}

	var resp Response
	if err := g.client.postJSON(ctx, "/relayer/bip/delegate", req, &resp); err != nil {
		return nil, errors.NewServiceUnavailable(err)
	}

	if resp.Status == StatusSuccess {
		return &resp, nil
	}
	return nil, errors.NewRelayerRejected("delegate token registration failed", resp.Status, resp.Message)
}

// CheckTokenBalance returns the token balance of an address on a chain.
func (g *Gateway) CheckTokenBalance(ctx context.Context, blockchain, address string, delegated bool) (int64, error) {
	if g.mock {
		logger.Info().Msg("Mock mode: checking token balance")
		return 1, nil
	}

	endpoint := fmt.Sprintf("/relayer/midtoken/%s/%s", blockchain, address)
	if delegated {
		endpoint = fmt.Sprintf("/relayer/midtokendel/%s/%s", blockchain, address)
	}

	var resp balanceResponse
	if err := g.client.getJSON(ctx, endpoint, &resp); err != nil {
		return 0, errors.NewServiceUnavailable(err)
	}

	if resp.Status == StatusSuccess {
		return resp.Balance, nil
	}
	return 0, errors.NewRelayerRejected("failed to check token balance", resp.Status, resp.Message)
}

// MintRewardToken mints VCT/WCT tokens for a batch of recipients in a single
// relay call.
func (g *Gateway) MintRewardToken(ctx context.Context, req MintRewardRequest) (*Response, error) {
	if g.mock {
		logger.Info().Msg("Mock mode: minting reward tokens")
		return &Response{
			Status:  StatusSuccess,
			Message: "Mint successfully",
			Chain:   req.Blockchain,
		}, nil
	}

	var resp Response
	if err := g.client.postJSON(ctx, "/relayer/bip/mint", req, &resp); err != nil {
		return nil, errors.NewServiceUnavailable(err)
	}

	if resp.Status == StatusSuccess {
		return &resp, nil
	}
	return nil, errors.NewRelayerRejected("reward token minting failed", resp.Status, resp.Message)
}

// FetchBlockchainInfo lists the chains the relay supports. This endpoint has
// no mock branch; in mock mode the call goes out and fails like any other
// unreachable-relay call.
func (g *Gateway) FetchBlockchainInfo(ctx context.Context) ([]BlockchainInfo, error) {
	var resp blockchainInfoResponse
	if err := g.client.getJSON(ctx, "/relayer/blockchain", &resp); err != nil {
		return nil, errors.NewServiceUnavailable(err)
	}

	if resp.Status == StatusSuccess {
		return resp.Data, nil
	}
	return nil, errors.NewRelayerRejected("failed to get blockchain info", resp.Status, resp.Message)
}
