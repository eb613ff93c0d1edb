// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Admin Roles

// UserRole is the authorization level granted to an admin account.
type UserRole string

const (
	// Full access, including settings and activity maintenance
	RoleAdmin UserRole = "admin"

	// Manages events, categories and research content
	RoleEditor UserRole = "editor"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 20
	case RoleEditor:
		return 10
	default:
		return 0
	}
}
