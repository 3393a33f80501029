package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MinUserIDLength = 3
	MaxUserIDLength = 50

	WalletAddressLength = 42
	SignatureLength     = 65
	ProofItemLength     = 32

	MinRecipients = 1
	MaxRecipients = 100
)

var (
	// Ethereum-style address: 0x followed by 40 hex characters.
	walletAddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	// Uncompressed secp256k1 public key without prefix byte: 128 hex characters.
	publicKeyRegex = regexp.MustCompile(`^[a-fA-F0-9]{128}$`)
	userIDRegex    = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateUserID checks the registration user id.
func ValidateUserID(userID string) error {
	userID = strings.TrimSpace(userID)
	if len(userID) < MinUserIDLength {
		return fmt.Errorf("userId must be at least %d characters long", MinUserIDLength)
	}
	if len(userID) > MaxUserIDLength {
		return fmt.Errorf("userId cannot exceed %d characters", MaxUserIDLength)
	}
	if !userIDRegex.MatchString(userID) {
		return fmt.Errorf("userId may only contain letters, digits, '_' and '-'")
	}
	return nil
}

// ValidateWalletAddress checks an Ethereum-style hex address.
func ValidateWalletAddress(address string) error {
	if !walletAddressRegex.MatchString(address) {
		return fmt.Errorf("invalid wallet address format")
	}
	return nil
}

// ValidatePublicKey checks an uncompressed hex public key.
func ValidatePublicKey(publicKey string) error {
	if publicKey == "" {
		return fmt.Errorf("public key is required to generate wallet address")
	}
	if !publicKeyRegex.MatchString(publicKey) {
		return fmt.Errorf("invalid public key format")
	}
	return nil
}

// ValidateSignature checks the raw signature byte array length.
func ValidateSignature(sig []int) error {
	if len(sig) != SignatureLength {
		return fmt.Errorf("signature must be exactly %d bytes", SignatureLength)
	}
	return nil
}

// ValidateProof checks that every Merkle proof item has the expected length.
// The proof bytes themselves are opaque and forwarded to the relay verbatim.
func ValidateProof(proof [][]int) error {
	for i, item := range proof {
		if len(item) != ProofItemLength {
			return fmt.Errorf("proof item %d must be exactly %d bytes", i, ProofItemLength)
		}
	}
	return nil
}

// ValidateRecipientCount checks the mint fan-out bounds.
func ValidateRecipientCount(n int) error {
	if n < MinRecipients {
		return fmt.Errorf("at least %d recipient is required", MinRecipients)
	}
	if n > MaxRecipients {
		return fmt.Errorf("cannot mint to more than %d recipients", MaxRecipients)
	}
	return nil
}
