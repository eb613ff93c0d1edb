// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"context"
	"time"
)

// Repository is the storage contract of the audit log.
type Repository interface {
	// Insert calls record_admin_activity and returns the new entry's ID.
	Insert(ctx context.Context, userID *string, action string, resourceType, resourceID *string, details map[string]any) (string, error)

	// FindByID returns an entry joined with its actor's display info.
	FindByID(ctx context.Context, id string) (*Log, error)

	// List returns entries matching filter, newest first, with actor info.
	List(ctx context.Context, filter Filter) ([]*Log, error)

	// Count returns how many entries match filter's action and resource type.
	Count(ctx context.Context, filter Filter) (int, error)

	CountByResourceType(ctx context.Context, resourceType string) (int, error)
	CountByActions(ctx context.Context, actions []string) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)

	// DeleteOlderThan purges entries created before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
