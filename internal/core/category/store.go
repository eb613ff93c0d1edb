// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import "context"

// Repository is the storage contract for categories.
//
// Implementations return classified errors (see dberr); the service decides
// how much of that reaches its callers.
type Repository interface {
	// List returns categories ordered by sort_order, optionally only active ones.
	List(ctx context.Context, activeOnly bool) ([]*Category, error)

	FindByID(ctx context.Context, id string) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindByIDs loads many categories in one query, keyed by ID.
	// Unknown IDs are simply absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*Category, error)

	Create(ctx context.Context, input Input, createdBy *string) (*Category, error)

	// Update applies a non-empty patch and returns the new row.
	Update(ctx context.Context, id string, patch Patch) (*Category, error)

	// Delete removes the row. It reports false when no row matched.
	Delete(ctx context.Context, id string) (bool, error)

	// SlugExists reports whether another row owns slug. excludeID may be empty.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)

	// ListWithEventCounts returns active categories with their event totals.
	ListWithEventCounts(ctx context.Context) ([]*WithCount, error)

	// Reorder sets sort_order to the position of each ID in ids.
	Reorder(ctx context.Context, ids []string) error
}
