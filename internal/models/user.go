package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	PostCount    *int64    `json:"post_count,omitempty"`
}

// Author is the public projection of a User embedded in posts and comments.
type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Principal is the authenticated identity acting on a request.
type Principal struct {
	ID       int64
	Username string
	Role     Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

func (u User) Principal() Principal {
	return Principal{ID: u.ID, Username: u.Username, Role: u.Role}
}

func (u User) Author() Author {
	return Author{ID: u.ID, Username: u.Username}
}
