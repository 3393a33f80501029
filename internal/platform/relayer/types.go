package relayer

// Relay business status codes. These are application-level codes carried in
// the response body; their meaning is endpoint-specific and unrelated to the
// HTTP transport status.
const (
	StatusSuccess       = 1
	StatusWalletSuccess = 2
	StatusFailed        = -1
)

// Reward token type codes accepted by the mint endpoint.
const (
	RewardTokenVCT = 1
	RewardTokenWCT = 2
)

// RegisterTokenRequest is the soul-bound registration payload. The hid,
// himei, sig, leaf and proof fields are opaque proof material forwarded to
// the relay verbatim.
type RegisterTokenRequest struct {
	HID         []int   `json:"hid"`
	HIMEI       []int   `json:"himei"`
	MCC         string  `json:"mcc"`
	MNC         string  `json:"mnc"`
	Owner       string  `json:"owner"`
	Distributor string  `json:"distributor"`
	Sig         []int   `json:"sig"`
	Leaf        string  `json:"leaf"`
	Proof       [][]int `json:"proof"`
	FID         string  `json:"fid"`
	BID         string  `json:"bid"`
	MID         int     `json:"mid"`
	Blockchain  string  `json:"blockchain"`
}

// DelegateTokenRequest is the delegated soul-bound registration payload.
type DelegateTokenRequest struct {
	HID           []int  `json:"hid"`
	HIMEI         []int  `json:"himei"`
	MCC           string `json:"mcc"`
	MNC           string `json:"mnc"`
	Owner         string `json:"owner"`
	DelegateOwner string `json:"delegateowner"`
	Distributor   string `json:"distributor"`
	Sig           []int  `json:"sig"`
	Blockchain    string `json:"blockchain"`
}

// MintRewardRequest mints reward tokens for a batch of recipients. ToAddress
// and Amount are parallel arrays.
type MintRewardRequest struct {
	Token      int      `json:"token"` // 1: VCT, 2: WCT
	ToAddress  []string `json:"toaddress"`
	Amount     []int64  `json:"amount"`
	Blockchain string   `json:"blockchain"`
}

// Response is the relay's standard response envelope. For address derivation
// the Message field carries the derived wallet address.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	TokenID int64  `json:"tokenid"`
	Image   string `json:"image"`
	Chain   string `json:"chain"`
	SBTAddr string `json:"sbtaddr"`
}

type balanceResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Balance int64  `json:"balance"`
}

// BlockchainInfo describes one chain supported by the relay.
type BlockchainInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Path            []string `json:"path"`
	Algo            string   `json:"algo"`
	URL             string   `json:"url"`
	Available       bool     `json:"available"`
	AttestorAddr    string   `json:"attestoraddr"`
	DelAttestorAddr string   `json:"delattestoraddr"`
	SBTAddr         string   `json:"sbtaddr"`
	SBTDelAddr      string   `json:"sbtdeladdr"`
}

type blockchainInfoResponse struct {
	Status  int              `json:"status"`
	Message string           `json:"message"`
	Data    []BlockchainInfo `json:"data"`
}
