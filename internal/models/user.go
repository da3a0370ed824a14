package models

import "time"

// UserRole represents the available account roles.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// User represents an account stored in the users table. Admin accounts
// carry a password hash; regular users authenticate by institutional
// email only.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	RollNo       string     `db:"roll_no" json:"roll_no"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	LastFeedback *time.Time `db:"last_feedback" json:"last_feedback,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AdminLastLogin is the per-admin last login listing.
type AdminLastLogin struct {
	Email     string     `db:"email" json:"username"`
	LastLogin *time.Time `db:"last_login" json:"last_login,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
