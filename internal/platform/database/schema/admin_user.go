// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AdminUserTable represents the 'admin_users' table
type AdminUserTable struct {
	Table        string
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	AvatarURL    string
	Role         string
	IsActive     string
	LastLoginAt  string
	CreatedAt    string
}

// AdminUser is the schema definition for admin_users
var AdminUser = AdminUserTable{
	Table:        "admin_users",
	ID:           "id",
	Email:        "email",
	PasswordHash: "password_hash",
	DisplayName:  "display_name",
	AvatarURL:    "avatar_url",
	Role:         "role",
	IsActive:     "is_active",
	LastLoginAt:  "last_login_at",
	CreatedAt:    "created_at",
}
