package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBanned      = errors.New("account banned")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrSignupsDisabled    = errors.New("signups disabled")
)

type AccessClaims struct {
	UserID    int64
	IsAdmin   bool
	ExpiresAt time.Time
}

type Me struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	Tier    string `json:"tier"`
}

type AuthResult struct {
	AccessToken   string
	AccessExpires time.Time
	Me            Me
}
