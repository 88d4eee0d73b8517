package dto

import "time"

// RegisterRequest payload for new users and artists.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TwoFactorRequest asks for a (re)send of the one-time code.
type TwoFactorRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// TwoFactorVerifyRequest completes the code handshake. The password is
// required again so the code alone never unlocks a token.
type TwoFactorVerifyRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Code     string `json:"code" validate:"required,len=4,numeric"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
