package models

import "time"

// User is a registered token holder. The wallet address is derived by the
// relay at registration time and never changes afterwards.
type User struct {
	UserID        string                 `json:"userId"`
	WalletAddress string                 `json:"walletAddress"`
	PublicKey     string                 `json:"publicKey,omitempty"`
	Email         string                 `json:"email,omitempty"`
	Name          string                 `json:"name,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// RegisterUserRequest is the POST /registerUser body.
type RegisterUserRequest struct {
	UserID    string `json:"userId" binding:"required"`
	PublicKey string `json:"publicKey" binding:"required"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

// RegisterUserResponse is the data payload of a successful registration.
type RegisterUserResponse struct {
	UserID        string `json:"userId"`
	WalletAddress string `json:"walletAddress"`
	Status        string `json:"status"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	UserID        string    `json:"userId"`
	WalletAddress string    `json:"walletAddress"`
	Email         string    `json:"email,omitempty"`
	Name          string    `json:"name,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
