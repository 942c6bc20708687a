package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastlogin_at"`
}

// SessionTokens is returned by the auth service; the handler moves the tokens
// into cookies and only the user reaches the body.
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
	User         UserResponse
}
