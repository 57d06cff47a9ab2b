package dto

import "time"

// ChallengeRequest represents the API request for issuing a challenge on the
// unauthenticated route. LINK_WALLET issuance lives on the authenticated
// wallet routes because it must be bound to the requesting user.
type ChallengeRequest struct {
	Address string `json:"address" binding:"required"`
	Purpose string `json:"purpose" binding:"required,oneof=LOGIN LINK_WALLET"`
}

// LinkChallengeRequest represents the API request for issuing a link-wallet
// challenge on the authenticated route. The owning user comes from the bearer
// token, never from the body.
type LinkChallengeRequest struct {
	Address string `json:"address" binding:"required"`
}

// ChallengeResponse carries the nonce and the exact message the wallet signs
type ChallengeResponse struct {
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// VerifyRequest represents the API request for completing a login challenge
type VerifyRequest struct {
	Address   string `json:"address" binding:"required"`
	Nonce     string `json:"nonce" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// UserResponse represents a user account in API responses
type UserResponse struct {
	ID                   string    `json:"id"`
	PrimaryWalletAddress string    `json:"primaryWalletAddress"`
	CreatedAt            time.Time `json:"createdAt"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token      string       `json:"token"`
	ExpiresAt  time.Time    `json:"expiresAt"`
	User       UserResponse `json:"user"`
	NewAccount bool         `json:"newAccount"`
}
