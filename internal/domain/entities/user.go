package entities

import "time"

// User is an account that can own events, hold event roles and vote.
type User struct {
	ID           uint
	Email        string
	FullName     string
	PasswordHash string
	IsActive     bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
