// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import "context"

// Repository stores admin_settings rows.
type Repository interface {
	List(ctx context.Context) ([]*Setting, error)

	// ListPublic returns only rows flagged is_public.
	ListPublic(ctx context.Context) ([]*Setting, error)

	// Find returns the row for key or a not-found error.
	Find(ctx context.Context, key string) (*Setting, error)

	// Upsert inserts or updates every entry by key in a single batch.
	// Existing rows keep their category, visibility and description.
	Upsert(ctx context.Context, entries []Entry, updatedBy *string) error
}
