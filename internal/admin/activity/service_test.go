// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/deptsite/internal/platform/ctxutil"
	"github.com/taibuivan/deptsite/internal/platform/sec"
)

// fakeRepository keeps entries in memory.
type fakeRepository struct {
	mu        sync.Mutex
	entries   []*Log
	insertErr error
	cutoff    time.Time
}

func (f *fakeRepository) Insert(_ context.Context, userID *string, action string, resourceType, resourceID *string, details map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return "", f.insertErr
	}
	id := "log-" + string(rune('a'+len(f.entries)))
	f.entries = append(f.entries, &Log{
		ID: id, UserID: userID, Action: action, ResourceType: resourceType,
		ResourceID: resourceID, Details: details, CreatedAt: time.Now(),
	})
	return id, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ID == id {
			copied := *e
			if copied.UserID != nil {
				email := *copied.UserID + "@cs.example.edu"
				copied.User = &Actor{Email: &email}
			}
			return &copied, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeRepository) matching(filter Filter) []*Log {
	var out []*Log
	for _, e := range f.entries {
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && (e.ResourceType == nil || *e.ResourceType != filter.ResourceType) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (f *fakeRepository) List(_ context.Context, filter Filter) ([]*Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.matching(filter)
	if filter.Offset >= len(all) {
		return []*Log{}, nil
	}
	end := min(filter.Offset+filter.Limit, len(all))
	return all[filter.Offset:end], nil
}

func (f *fakeRepository) Count(_ context.Context, filter Filter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.matching(filter)), nil
}

func (f *fakeRepository) CountByResourceType(ctx context.Context, resourceType string) (int, error) {
	return f.Count(ctx, Filter{ResourceType: resourceType})
}

func (f *fakeRepository) CountByActions(_ context.Context, actions []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		for _, a := range actions {
			if e.Action == a {
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeRepository) CountSince(_ context.Context, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoff = cutoff
	return 3, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, 0, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func ptr(s string) *string { return &s }

/*
TestLogActivity_AttachesActor verifies the signed-in admin is recorded and
the entry is returned with actor info.
*/
func TestLogActivity_AttachesActor(t *testing.T) {
	repo := &fakeRepository{}
	service := newTestService(repo)

	ctx := ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{UserID: "admin-1", Role: "admin"})
	entry, err := service.LogActivity(ctx, ActionEventCreated, ptr(ResourceEvent), ptr("evt-1"), map[string]any{"title": "Open Day"})
	require.NoError(t, err)

	require.NotNil(t, entry.UserID)
	assert.Equal(t, "admin-1", *entry.UserID)
	require.NotNil(t, entry.User)
	assert.Equal(t, "admin-1@cs.example.edu", *entry.User.Email)
	assert.Equal(t, "Open Day", entry.Details["title"])
}

func TestLogActivity_RequiresAction(t *testing.T) {
	_, err := newTestService(&fakeRepository{}).LogActivity(context.Background(), "", nil, nil, nil)
	assert.Error(t, err)
}

/*
TestGetActivityLogs_CountHonoursFilters checks the count matches the filtered set.
*/
func TestGetActivityLogs_CountHonoursFilters(t *testing.T) {
	repo := &fakeRepository{}
	service := newTestService(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := service.LogActivity(ctx, ActionEventCreated, ptr(ResourceEvent), nil, nil)
		require.NoError(t, err)
	}
	_, err := service.LogActivity(ctx, ActionSettingsUpdated, ptr(ResourceSettings), nil, nil)
	require.NoError(t, err)

	page, err := service.GetActivityLogs(ctx, Filter{ResourceType: ResourceEvent, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Count)

	page, err = service.GetActivityLogs(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Count)
	assert.Len(t, page.Data, 4)
}

func TestGetActivityStats(t *testing.T) {
	repo := &fakeRepository{}
	service := newTestService(repo)
	ctx := context.Background()

	actions := []struct{ action, resource string }{
		{ActionEventCreated, ResourceEvent},
		{ActionEventDeleted, ResourceEvent},
		{"achievement_created", ResourceAchievement},
		{ActionSettingsUpdated, ResourceSettings},
		{ActionUserLogin, ResourceUser},
		{ActionUserLogin, ResourceUser},
	}
	for _, a := range actions {
		_, err := service.LogActivity(ctx, a.action, ptr(a.resource), nil, nil)
		require.NoError(t, err)
	}
	repo.entries[0].CreatedAt = time.Now().Add(-48 * time.Hour)

	stats, err := service.GetActivityStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, &Stats{
		Total:              6,
		EventActions:       2,
		AchievementActions: 1,
		SystemActions:      1,
		UserActions:        2,
		Last24Hours:        5,
	}, stats)
}

/*
TestCleanupOldLogs_DefaultRetention uses the configured retention for zero days
and writes a system_cleanup entry.
*/
func TestCleanupOldLogs_DefaultRetention(t *testing.T) {
	repo := &fakeRepository{}
	service := newTestService(repo)
	fixed := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	deleted, err := service.CleanupOldLogs(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, fixed.AddDate(0, 0, -90), repo.cutoff)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, ActionSystemCleanup, repo.entries[0].Action)
}

/*
TestRecord_SwallowsFailure ensures an audit failure only produces a warning.
*/
func TestRecord_SwallowsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	service := NewService(&fakeRepository{insertErr: errors.New("rpc down")}, 0, logger)

	assert.NotPanics(t, func() {
		Record(context.Background(), service, logger, ActionEventCreated, ResourceEvent, "evt-1", nil)
	})
	assert.Contains(t, buf.String(), "activity_log_failed")

	assert.NotPanics(t, func() {
		Record(context.Background(), nil, logger, ActionEventCreated, "", "", nil)
	})
}

func TestFilterClause(t *testing.T) {
	where, args := filterClause(Filter{Action: "event_created", ResourceType: "event"})
	assert.Equal(t, " WHERE l.action = $1 AND l.resource_type = $2", where)
	assert.Equal(t, []any{"event_created", "event"}, args)

	where, args = filterClause(Filter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}
