package models

import "time"

// TokenType classifies a persisted token record.
type TokenType string

const (
	TokenTypeSoulbound         TokenType = "SOULBOUND"
	TokenTypeDelegateSoulbound TokenType = "DELEGATE_SOULBOUND"
	TokenTypeVCT               TokenType = "VCT"
	TokenTypeWCT               TokenType = "WCT"
)

// TokenStatus is the lifecycle state of a token record. Workflows only ever
// create tokens in MINTED; PENDING, FAILED and VERIFIED exist for querying
// and for reconciliation tooling.
type TokenStatus string

const (
	TokenStatusPending  TokenStatus = "PENDING"
	TokenStatusMinted   TokenStatus = "MINTED"
	TokenStatusFailed   TokenStatus = "FAILED"
	TokenStatusVerified TokenStatus = "VERIFIED"
)

// Token is the locally persisted record of a relay-registered token. It is
// immutable after creation except for status/transactionHash transitions.
type Token struct {
	TokenID         string                 `json:"tokenId"`
	UserID          string                 `json:"userId"`
	WalletAddress   string                 `json:"walletAddress"`
	TokenType       TokenType              `json:"tokenType"`
	Blockchain      string                 `json:"blockchain"`
	ContractAddress string                 `json:"contractAddress"`
	ImageURL        string                 `json:"imageUrl,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	TransactionHash string                 `json:"transactionHash,omitempty"`
	Status          TokenStatus            `json:"status"`
	DelegatedTo     string                 `json:"delegatedTo,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// IssueTokenRequest is the POST /issueToken body. The hid, himei, sig, leaf
// and proof fields are opaque proof material forwarded to the relay.
type IssueTokenRequest struct {
	UserID        string  `json:"userId" binding:"required"`
	WalletAddress string  `json:"walletAddress" binding:"required"`
	HID           []int   `json:"hid" binding:"required"`
	HIMEI         []int   `json:"himei" binding:"required"`
	MCC           string  `json:"mcc" binding:"required"`
	MNC           string  `json:"mnc" binding:"required"`
	Distributor   string  `json:"distributor" binding:"required"`
	Sig           []int   `json:"sig" binding:"required"`
	Leaf          string  `json:"leaf" binding:"required"`
	Proof         [][]int `json:"proof" binding:"required"`
	FID           string  `json:"fid" binding:"required"`
	BID           string  `json:"bid" binding:"required"`
	MID           int     `json:"mid" binding:"required"`
	Blockchain    string  `json:"blockchain" binding:"required"`
}

// IssueTokenResponse is the data payload of a successful issuance.
type IssueTokenResponse struct {
	TokenID         string    `json:"tokenId"`
	WalletAddress   string    `json:"walletAddress"`
	Blockchain      string    `json:"blockchain"`
	ContractAddress string    `json:"contractAddress"`
	ImageURL        string    `json:"imageUrl"`
	Timestamp       time.Time `json:"timestamp"`
}

// CheckTokenRequest is the GET /checkToken query.
type CheckTokenRequest struct {
	WalletAddress string `form:"walletAddress" binding:"required"`
	Blockchain    string `form:"blockchain" binding:"required"`
	IsDelegated   bool   `form:"isDelegated"`
}

// CheckTokenResponse is the data payload of a balance check.
type CheckTokenResponse struct {
	WalletAddress string `json:"walletAddress"`
	Blockchain    string `json:"blockchain"`
	Balance       int64  `json:"balance"`
	Verified      bool   `json:"verified"`
}

// DelegateTokenRequest is the POST /delegateToken body.
type DelegateTokenRequest struct {
	UserID                string `json:"userId" binding:"required"`
	WalletAddress         string `json:"walletAddress" binding:"required"`
	DelegateWalletAddress string `json:"delegateWalletAddress" binding:"required"`
	HID                   []int  `json:"hid" binding:"required"`
	HIMEI                 []int  `json:"himei" binding:"required"`
	MCC                   string `json:"mcc" binding:"required"`
	MNC                   string `json:"mnc" binding:"required"`
	Distributor           string `json:"distributor" binding:"required"`
	Sig                   []int  `json:"sig" binding:"required"`
	Blockchain            string `json:"blockchain" binding:"required"`
}

// DelegateTokenResponse is the data payload of a successful delegation.
type DelegateTokenResponse struct {
	TokenID               string    `json:"tokenId"`
	WalletAddress         string    `json:"walletAddress"`
	DelegateWalletAddress string    `json:"delegateWalletAddress"`
	Blockchain            string    `json:"blockchain"`
	ContractAddress       string    `json:"contractAddress"`
	ImageURL              string    `json:"imageUrl"`
	Timestamp             time.Time `json:"timestamp"`
}

// Recipient is one mint target.
type Recipient struct {
	Address string `json:"address" binding:"required"`
	Amount  int64  `json:"amount" binding:"required"`
}

// MintRewardTokenRequest is the POST /mintRewardToken body.
type MintRewardTokenRequest struct {
	UserID     string      `json:"userId" binding:"required"`
	TokenType  TokenType   `json:"tokenType" binding:"required"`
	Recipients []Recipient `json:"recipients" binding:"required"`
	Blockchain string      `json:"blockchain" binding:"required"`
}

// MintRecipientResult reports the outcome for one recipient.
type MintRecipientResult struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
	Status  string `json:"status"`
}

// MintRewardTokenResponse is the data payload of a successful mint.
type MintRewardTokenResponse struct {
	Blockchain string                `json:"blockchain"`
	Recipients []MintRecipientResult `json:"recipients"`
	Timestamp  time.Time             `json:"timestamp"`
}
