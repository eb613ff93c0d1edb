// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"
	"time"

	"github.com/taibuivan/deptsite/internal/core/category"
)

// Repository is the storage contract for events.
type Repository interface {
	// List returns rows matching criteria ordered by date ascending.
	List(ctx context.Context, criteria Criteria) ([]*Row, error)

	FindByID(ctx context.Context, id string) (*Row, error)

	Create(ctx context.Context, row Row) (*Row, error)

	// Update applies patch, bumps updated_at to now and returns the new row.
	Update(ctx context.Context, id string, patch Patch, now time.Time) (*Row, error)

	// Delete removes the row. It reports false when no row matched.
	Delete(ctx context.Context, id string) (bool, error)
}

// CategoryFinder batch-loads the categories referenced by a page of events.
type CategoryFinder interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]*category.Category, error)
}

// ChangeFeed fans event-table writes out to every subscriber.
type ChangeFeed interface {
	// Publish announces a write. op is "insert", "update" or "delete".
	Publish(ctx context.Context, op, eventID string) error

	// Subscribe calls notify for every change until ctx is cancelled.
	Subscribe(ctx context.Context, notify func(Change)) error
}

// Change is one message on the feed.
type Change struct {
	Op      string    `json:"op"`
	EventID string    `json:"event_id"`
	At      time.Time `json:"at"`
}

// Change operations.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)
