package domain

import "time"

// User represents a registered account. Users are created on registration,
// read on every login and never mutated or deleted afterwards.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
