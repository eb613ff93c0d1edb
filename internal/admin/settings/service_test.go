// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/deptsite/internal/admin/activity"
	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/ctxutil"
	"github.com/taibuivan/deptsite/internal/platform/sec"
)

// memoryRepository is an in-memory [Repository] keyed by setting key.
type memoryRepository struct {
	mu          sync.Mutex
	rows        map[string]*Setting
	upserts     int
	lastActor   *string
	listErr     error
	upsertError error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: map[string]*Setting{}}
}

func (m *memoryRepository) sorted(keep func(*Setting) bool) []*Setting {
	out := []*Setting{}
	for _, row := range m.rows {
		if keep(row) {
			copied := *row
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (m *memoryRepository) List(context.Context) ([]*Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(func(*Setting) bool { return true }), nil
}

func (m *memoryRepository) ListPublic(context.Context) ([]*Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(s *Setting) bool { return s.IsPublic }), nil
}

func (m *memoryRepository) Find(_ context.Context, key string) (*Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[key]
	if !ok {
		return nil, apperr.NotFound("Setting")
	}
	copied := *row
	return &copied, nil
}

func (m *memoryRepository) Upsert(_ context.Context, entries []Entry, updatedBy *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertError != nil {
		return m.upsertError
	}

	m.upserts++
	m.lastActor = updatedBy
	for _, entry := range entries {
		row, ok := m.rows[entry.Key]
		if !ok {
			description := entry.Description
			row = &Setting{ID: "setting-" + entry.Key, Key: entry.Key, Category: entry.Category,
				IsPublic: entry.IsPublic, Description: &description}
			m.rows[entry.Key] = row
		}
		row.Value = entry.Value
		row.UpdatedBy = updatedBy
		row.UpdatedAt = time.Now()
	}
	return nil
}

func (m *memoryRepository) seed(key string, value Value, public bool) {
	m.rows[key] = &Setting{ID: "setting-" + key, Key: key, Value: value, Category: CategoryGeneral, IsPublic: public}
}

// recorderSpy captures audit entries by resource id.
type recorderSpy struct {
	mu      sync.Mutex
	keys    []string
	details []map[string]any
	err     error
}

func (r *recorderSpy) LogActivity(_ context.Context, action string, _, resourceID *string, details map[string]any) (*activity.Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.keys = append(r.keys, *resourceID)
	r.details = append(r.details, details)
	return &activity.Log{Action: action}, nil
}

func newTestService(repo Repository, recorder activity.Recorder) *Service {
	return NewService(repo, recorder, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestGetFormattedSettings_EmptyTable verifies that an empty table yields the
complete default object.
*/
func TestGetFormattedSettings_EmptyTable(t *testing.T) {
	service := newTestService(newMemoryRepository(), nil)

	data, err := service.GetFormattedSettings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Defaults(), *data)
	assert.NotNil(t, data.SocialLinks)
	assert.NotEmpty(t, data.HomepageSections)
}

func TestGetFormattedSettings_PropagatesErrors(t *testing.T) {
	repo := newMemoryRepository()
	repo.listErr = apperr.Internal(errors.New("list_settings: connection refused"))

	_, err := newTestService(repo, nil).GetFormattedSettings(context.Background())
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
}

/*
TestSaveFormattedSettings_AuditsChangedKeys verifies one batch write and one
audit entry per key whose stored value differs.
*/
func TestSaveFormattedSettings_AuditsChangedKeys(t *testing.T) {
	repo := newMemoryRepository()
	recorder := &recorderSpy{}
	service := newTestService(repo, recorder)
	ctx := ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{UserID: "admin-1", Role: "admin"})

	for _, entry := range Flatten(Defaults()) {
		repo.seed(entry.Key, entry.Value, entry.IsPublic)
	}

	data := Defaults()
	data.SiteName = "Faculty of Informatics"
	data.MaintenanceMode = true

	saved, err := service.SaveFormattedSettings(ctx, data)
	require.NoError(t, err)

	assert.Equal(t, data, *saved)
	assert.Equal(t, 1, repo.upserts)
	require.NotNil(t, repo.lastActor)
	assert.Equal(t, "admin-1", *repo.lastActor)
	assert.ElementsMatch(t, []string{KeySiteName, KeyMaintenanceMode}, recorder.keys)

	reread, err := service.GetFormattedSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, data, *reread)
}

func TestSaveFormattedSettings_FirstSaveAuditsEveryKey(t *testing.T) {
	recorder := &recorderSpy{}
	service := newTestService(newMemoryRepository(), recorder)

	_, err := service.SaveFormattedSettings(context.Background(), Defaults())
	require.NoError(t, err)

	assert.Len(t, recorder.keys, len(definitions))
	assert.NotContains(t, recorder.details[0], "previous")
}

func TestSaveFormattedSettings_AuditFailureIsSwallowed(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, &recorderSpy{err: errors.New("audit down")})

	_, err := service.SaveFormattedSettings(context.Background(), Defaults())
	require.NoError(t, err)
	assert.Len(t, repo.rows, len(definitions))
}

func TestSaveFormattedSettings_Validation(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, nil)

	tests := map[string]func(*Data){
		"empty site name":   func(d *Data) { d.SiteName = "" },
		"bad contact email": func(d *Data) { d.ContactEmail = "office" },
		"relative link":     func(d *Data) { d.SocialLinks = map[string]string{"x": "/cs"} },
		"zero per page":     func(d *Data) { d.EventsPerPage = 0 },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			data := Defaults()
			mutate(&data)

			_, err := service.SaveFormattedSettings(context.Background(), data)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		})
	}
	assert.Zero(t, repo.upserts)
}

func TestGetPublicSettings_NoDefaults(t *testing.T) {
	repo := newMemoryRepository()
	repo.seed(KeySiteName, String("CS"), true)
	repo.seed(KeyMaintenanceMode, Bool(true), false)

	public, err := newTestService(repo, nil).GetPublicSettings(context.Background())
	require.NoError(t, err)

	assert.Len(t, public, 1)
	assert.True(t, String("CS").Equal(public[KeySiteName]))
}

func TestUpdateSetting(t *testing.T) {
	repo := newMemoryRepository()
	repo.seed("legacy_banner", String("old"), false)
	recorder := &recorderSpy{}
	service := newTestService(repo, recorder)
	ctx := context.Background()

	t.Run("known key", func(t *testing.T) {
		setting, err := service.UpdateSetting(ctx, KeyEventsPerPage, Number(24))
		require.NoError(t, err)
		assert.True(t, Number(24).Equal(setting.Value))
		assert.Equal(t, CategoryEvents, setting.Category)
	})

	t.Run("stored custom key", func(t *testing.T) {
		setting, err := service.UpdateSetting(ctx, "legacy_banner", String("new"))
		require.NoError(t, err)
		assert.True(t, String("new").Equal(setting.Value))
	})

	t.Run("unchanged value is not audited", func(t *testing.T) {
		before := len(recorder.keys)
		_, err := service.UpdateSetting(ctx, "legacy_banner", String("new"))
		require.NoError(t, err)
		assert.Len(t, recorder.keys, before)
	})

	t.Run("wrong kind", func(t *testing.T) {
		_, err := service.UpdateSetting(ctx, KeyMaintenanceMode, String("yes"))
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := service.UpdateSetting(ctx, "no_such_key", Bool(true))
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("missing key read", func(t *testing.T) {
		_, err := service.GetSetting(ctx, "no_such_key")
		assert.True(t, apperr.IsNotFound(err))
	})

	assert.Equal(t, []string{KeyEventsPerPage, "legacy_banner"}, recorder.keys)
}
