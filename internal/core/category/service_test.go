// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/deptsite/internal/admin/activity"
	"github.com/taibuivan/deptsite/internal/platform/dberr"
)

var errStoreDown = errors.New("connection refused")

// memoryRepository is an in-memory [Repository].
type memoryRepository struct {
	mu          sync.Mutex
	rows        map[string]*Category
	seq         int
	failAll     bool
	updateCalls int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: map[string]*Category{}}
}

func (m *memoryRepository) sorted(activeOnly bool) []*Category {
	out := []*Category{}
	for _, c := range m.rows {
		if activeOnly && !c.IsActive {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (m *memoryRepository) List(_ context.Context, activeOnly bool) ([]*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errStoreDown
	}
	return m.sorted(activeOnly), nil
}

func (m *memoryRepository) FindByID(_ context.Context, id string) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errStoreDown
	}
	c, ok := m.rows[id]
	if !ok {
		return nil, dberr.NotFound(errors.New("no rows"), "Category", "get_category")
	}
	copied := *c
	return &copied, nil
}

func (m *memoryRepository) FindBySlug(_ context.Context, slug string) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *memoryRepository) FindByIDs(_ context.Context, ids []string) (map[string]*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := map[string]*Category{}
	for _, id := range ids {
		if c, ok := m.rows[id]; ok {
			found[id] = c
		}
	}
	return found, nil
}

func (m *memoryRepository) Create(_ context.Context, input Input, createdBy *string) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errStoreDown
	}
	for _, c := range m.rows {
		if c.Slug == input.Slug {
			return nil, errors.New("duplicate key value violates unique constraint")
		}
	}
	m.seq++
	now := time.Now()
	c := &Category{
		ID: fmt.Sprintf("cat-%d", m.seq), Name: input.Name, Slug: input.Slug,
		Description: input.Description, ColorClass: input.ColorClass, IconEmoji: input.IconEmoji,
		IsActive: *input.IsActive, SortOrder: input.SortOrder,
		CreatedAt: now, UpdatedAt: now, CreatedBy: createdBy,
	}
	m.rows[c.ID] = c
	copied := *c
	return &copied, nil
}

func (m *memoryRepository) Update(_ context.Context, id string, p Patch) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	c, ok := m.rows[id]
	if !ok {
		return nil, errors.New("not found")
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Slug != nil {
		c.Slug = *p.Slug
	}
	if p.Description.Set {
		c.Description = p.Description.Ptr()
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	if p.SortOrder != nil {
		c.SortOrder = *p.SortOrder
	}
	c.UpdatedAt = time.Now()
	copied := *c
	return &copied, nil
}

func (m *memoryRepository) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *memoryRepository) SlugExists(_ context.Context, slug, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return false, errStoreDown
	}
	for _, c := range m.rows {
		if c.Slug == slug && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepository) ListWithEventCounts(_ context.Context) ([]*WithCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*WithCount{}
	for _, c := range m.sorted(true) {
		out = append(out, &WithCount{Category: *c})
	}
	return out, nil
}

func (m *memoryRepository) Reorder(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errStoreDown
	}
	for i, id := range ids {
		if c, ok := m.rows[id]; ok {
			c.SortOrder = i
		}
	}
	return nil
}

// recorderSpy captures audit calls.
type recorderSpy struct {
	actions []string
	err     error
}

func (r *recorderSpy) LogActivity(_ context.Context, action string, _, _ *string, _ map[string]any) (*activity.Log, error) {
	r.actions = append(r.actions, action)
	if r.err != nil {
		return nil, r.err
	}
	return &activity.Log{Action: action}, nil
}

func newTestService(repo Repository, recorder activity.Recorder) *Service {
	return NewService(repo, recorder, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func boolPtr(b bool) *bool { return &b }

/*
TestWorkshopsLifecycle walks a category through create, slug checks and delete.
*/
func TestWorkshopsLifecycle(t *testing.T) {
	ctx := context.Background()
	spy := &recorderSpy{}
	service := newTestService(newMemoryRepository(), spy)

	created := service.CreateCategory(ctx, Input{Name: "Workshops", ColorClass: "bg-blue-500", IconEmoji: "🛠"})
	require.NotNil(t, created)
	assert.Equal(t, "workshops", created.Slug)
	assert.True(t, created.IsActive)

	assert.False(t, service.IsSlugAvailable(ctx, "workshops", ""))
	assert.True(t, service.IsSlugAvailable(ctx, "workshops", created.ID))

	found := service.GetCategoryBySlug(ctx, "workshops")
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	require.True(t, service.DeleteCategory(ctx, created.ID))
	assert.True(t, service.IsSlugAvailable(ctx, "workshops", ""))
	assert.Nil(t, service.GetCategoryByID(ctx, created.ID))

	assert.Equal(t, []string{activity.ActionCategoryCreated, activity.ActionCategoryDeleted}, spy.actions)
}

func TestGetActiveCategories_FiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newMemoryRepository(), nil)

	service.CreateCategory(ctx, Input{Name: "Seminars", SortOrder: 2})
	service.CreateCategory(ctx, Input{Name: "Open Day", SortOrder: 1})
	service.CreateCategory(ctx, Input{Name: "Archived", SortOrder: 0, IsActive: boolPtr(false)})

	active := service.GetActiveCategories(ctx)
	require.Len(t, active, 2)
	assert.Equal(t, "Open Day", active[0].Name)
	assert.Equal(t, "Seminars", active[1].Name)

	assert.Len(t, service.GetAllCategories(ctx), 3)
}

/*
TestService_SentinelsOnFailure checks storage errors never escape.
*/
func TestService_SentinelsOnFailure(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	repo.failAll = true
	service := newTestService(repo, nil)

	assert.Empty(t, service.GetActiveCategories(ctx))
	assert.NotNil(t, service.GetActiveCategories(ctx))
	assert.Empty(t, service.GetAllCategories(ctx))
	assert.Nil(t, service.GetCategoryByID(ctx, "cat-1"))
	assert.Nil(t, service.CreateCategory(ctx, Input{Name: "Talks"}))
	assert.False(t, service.IsSlugAvailable(ctx, "talks", ""))
	assert.False(t, service.ReorderCategories(ctx, []string{"cat-1"}))
}

func TestUpdateCategory_EmptyPatchWritesNothing(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepository()
	service := newTestService(repo, nil)

	created := service.CreateCategory(ctx, Input{Name: "Workshops"})
	require.NotNil(t, created)

	got := service.UpdateCategory(ctx, created.ID, Patch{})
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Zero(t, repo.updateCalls)
}

func TestUpdateCategory_AppliesOnlySuppliedFields(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newMemoryRepository(), nil)

	description := "Hands-on sessions"
	created := service.CreateCategory(ctx, Input{Name: "Workshops", Description: &description})
	require.NotNil(t, created)

	renamed := "Labs"
	got := service.UpdateCategory(ctx, created.ID, Patch{Name: &renamed})
	require.NotNil(t, got)
	assert.Equal(t, "Labs", got.Name)
	assert.Equal(t, "workshops", got.Slug)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Hands-on sessions", *got.Description)
}

func TestUpdateCategory_AuditFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	spy := &recorderSpy{err: errors.New("audit down")}
	service := newTestService(newMemoryRepository(), spy)

	created := service.CreateCategory(ctx, Input{Name: "Workshops"})
	require.NotNil(t, created)

	active := false
	got := service.UpdateCategory(ctx, created.ID, Patch{IsActive: &active})
	require.NotNil(t, got)
	assert.False(t, got.IsActive)
}

func TestReorderCategories(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newMemoryRepository(), nil)

	a := service.CreateCategory(ctx, Input{Name: "Alpha"})
	b := service.CreateCategory(ctx, Input{Name: "Beta"})
	c := service.CreateCategory(ctx, Input{Name: "Gamma"})

	require.True(t, service.ReorderCategories(ctx, []string{c.ID, a.ID, b.ID}))

	names := []string{}
	for _, row := range service.GetActiveCategories(ctx) {
		names = append(names, row.Name)
	}
	assert.Equal(t, []string{"Gamma", "Alpha", "Beta"}, names)
}

func TestDeleteCategory_Missing(t *testing.T) {
	spy := &recorderSpy{}
	service := newTestService(newMemoryRepository(), spy)

	assert.False(t, service.DeleteCategory(context.Background(), "missing"))
	assert.Empty(t, spy.actions)
}
