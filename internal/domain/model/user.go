package model

import "time"

type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	IsAdmin        bool       `json:"is_admin"`
	IsBanned       bool       `json:"is_banned"`
	SuspendedUntil *time.Time `json:"suspended_until,omitempty"`
	Tier           string     `json:"tier"`
	LastActive     *time.Time `json:"last_active,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Suspended reports whether the account is under an active suspension.
func (u User) Suspended(now time.Time) bool {
	return u.SuspendedUntil != nil && u.SuspendedUntil.After(now)
}
