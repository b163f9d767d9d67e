package domain

import "time"

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Identity is what a verified credential resolves to.
type Identity struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
}
