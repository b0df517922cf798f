package model

import "time"

// User roles. Every account is either an admin (schedules lectures) or an
// instructor (teaches them).
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
)

// User represents an account in the system.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the subset of user fields embedded in lecture listings.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
