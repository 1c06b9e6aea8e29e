package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims in a session token.
// RegisteredClaims.ID carries the token id used for revocation on sign-out.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// Session is returned by sign-up and sign-in.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expires_at"`
	Profile   ProfileView `json:"profile"`
}
