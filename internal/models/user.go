package models

import "time"

// User is the users table row.
type User struct {
	UserID         string `db:"user_id"`
	Email          string `db:"email"`
	Name           string `db:"name"`
	HashedPassword string `db:"hashed_password"`
	IsActive       bool   `db:"is_active"`
	AuditFields
}

// RefreshToken stores the hash of an issued refresh token.
type RefreshToken struct {
	TokenHash string    `db:"token_hash"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
