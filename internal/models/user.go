// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// Role is the flat authorization level of an account.
type Role string

// Known roles.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleGuest:
		return true
	}
	return false
}

// User statuses.
const (
	UserStatusActive   = 1
	UserStatusDisabled = 0
)

// User represents an account on the site.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Password   string    `gorm:"not null" json:"-"`
	Email      string    `gorm:"size:255" json:"email,omitempty"`
	Nickname   string    `gorm:"size:64" json:"nickname"`
	Avatar     string    `json:"avatar"`
	Role       Role      `gorm:"size:16;not null;default:user" json:"role"`
	Provider   string    `gorm:"size:32" json:"-"`
	ProviderID string    `gorm:"size:128" json:"-"`
	Status     int       `gorm:"not null;default:1" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DisplayName returns the nickname, falling back to the username.
func (u *User) DisplayName() string {
	if n := strings.TrimSpace(u.Nickname); n != "" {
		return n
	}
	return u.Username
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Active reports whether the account may sign in.
func (u *User) Active() bool {
	return u.Status == UserStatusActive
}

// Author is the public projection of a user attached to posts and comments.
type Author struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// AuthorOf projects u for public display.
func AuthorOf(u *User) *Author {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &Author{ID: u.ID, Username: u.Username, Nickname: u.DisplayName(), Avatar: u.Avatar}
}
