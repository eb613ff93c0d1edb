// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account signs back-office staff in.

Admins live in the admin_users table with a bcrypt password hash and a role
(admin or editor). A successful login returns a short-lived RS256 access
token whose claims carry the identity that the audit log attaches to every
write.

There is no sign-up endpoint. Operators create accounts and reset passwords
with the deptsite-admin command.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/deptsite/internal/platform/sec"
	"github.com/taibuivan/deptsite/internal/platform/validate"
)

// Password length bounds. bcrypt ignores input past 72 bytes.
const (
	MinPasswordLength = 12
	MaxPasswordBytes  = 72
)

// User is an admin_users row.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	DisplayName  *string      `json:"display_name"`
	AvatarURL    *string      `json:"avatar_url"`
	Role         sec.UserRole `json:"role"`
	IsActive     bool         `json:"is_active"`
	LastLoginAt  *time.Time   `json:"last_login_at"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Repository reads admin accounts.
type Repository interface {
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// Create inserts a new account. A taken email is a conflict.
	Create(ctx context.Context, u *User) (*User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
}

// TokenProvider signs access tokens. [*sec.TokenService] implements it.
type TokenProvider interface {
	GenerateAccessToken(userID, email, displayName, role string, timeToLive time.Duration) (string, error)
}

// LoginInput is the credential payload of POST /auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateInput describes a new admin account.
type CreateInput struct {
	Email       string
	Password    string
	DisplayName *string
	Role        sec.UserRole
}

// Validate checks the account fields. An empty role becomes editor.
func (in *CreateInput) Validate() error {
	if in.Role == "" {
		in.Role = sec.RoleEditor
	}
	v := &validate.Validator{}
	v.Required("email", in.Email).Email("email", in.Email)
	validatePassword(v, in.Password)
	v.Custom("role", !in.Role.Valid(), "Must be admin or editor")
	if in.DisplayName != nil {
		v.MaxLen("display_name", *in.DisplayName, 120)
	}
	return v.Err()
}

func validatePassword(v *validate.Validator, password string) {
	v.Custom("password", len([]rune(password)) < MinPasswordLength, "Must be at least 12 characters")
	v.Custom("password", len(password) > MaxPasswordBytes, "Must be at most 72 bytes")
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}
