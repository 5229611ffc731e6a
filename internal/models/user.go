package models

import (
	"strings"
	"time"
)

// User represents a registered user account.
type User struct {
	// ID is the auto-assigned row identifier.
	ID int64 `db:"id"`

	// Email is the login name, stored trimmed and lower-cased (unique).
	Email string `db:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `db:"password_hash"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `db:"created_at"`
}

// NewUser builds a user ready to be inserted. The ID is assigned by storage.
func NewUser(email, passwordHash string) *User {
	return &User{
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
