// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"log/slog"

	"github.com/taibuivan/deptsite/internal/admin/activity"
	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/ctxutil"
	"github.com/taibuivan/deptsite/internal/platform/validate"
)

// Service reads and writes site settings.
type Service struct {
	repo     Repository
	activity activity.Recorder
	logger   *slog.Logger
}

// NewService constructs a settings [Service]. recorder may be nil.
func NewService(repo Repository, recorder activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, activity: recorder, logger: logger}
}

func (service *Service) values(ctx context.Context) (map[string]Value, error) {
	rows, err := service.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	values := make(map[string]Value, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// GetFormattedSettings returns every setting, with defaults for missing keys.
func (service *Service) GetFormattedSettings(ctx context.Context) (*Data, error) {
	values, err := service.values(ctx)
	if err != nil {
		return nil, err
	}
	data := Assemble(values)
	return &data, nil
}

// SaveFormattedSettings upserts every key of data in one batch and records
// one audit entry per key whose value changed.
func (service *Service) SaveFormattedSettings(ctx context.Context, data Data) (*Data, error) {
	if err := validateData(data); err != nil {
		return nil, err
	}

	previous, err := service.values(ctx)
	if err != nil {
		service.logger.WarnContext(ctx, "settings_preimage_failed", slog.Any("error", err))
		previous = nil
	}

	entries := Flatten(data)
	if err := service.repo.Upsert(ctx, entries, ctxutil.ActorID(ctx)); err != nil {
		return nil, err
	}

	changed := 0
	for _, entry := range entries {
		before, ok := previous[entry.Key]
		if ok && before.Equal(entry.Value) {
			continue
		}
		changed++
		service.recordChange(ctx, entry.Key, before, ok, entry.Value)
	}

	service.logger.InfoContext(ctx, "settings_saved",
		slog.Int("keys", len(entries)),
		slog.Int("changed", changed),
	)

	saved := Assemble(valuesOf(entries))
	return &saved, nil
}

// GetPublicSettings returns the is_public rows as a bare key to value map.
// Missing keys are not filled with defaults.
func (service *Service) GetPublicSettings(ctx context.Context) (map[string]Value, error) {
	rows, err := service.repo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	public := make(map[string]Value, len(rows))
	for _, row := range rows {
		public[row.Key] = row.Value
	}
	return public, nil
}

// GetSetting returns one stored row.
func (service *Service) GetSetting(ctx context.Context, key string) (*Setting, error) {
	return service.repo.Find(ctx, key)
}

// UpdateSetting writes a single key. The key must be a known setting or
// already stored; known keys must keep the kind of their default.
func (service *Service) UpdateSetting(ctx context.Context, key string, value Value) (*Setting, error) {
	if !value.IsValid() {
		return nil, apperr.ValidationError("Invalid setting value")
	}

	current, err := service.repo.Find(ctx, key)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	def, known := lookupDefinition(key)
	switch {
	case known:
		if want := defaultKind(key); value.Kind() != want {
			return nil, apperr.ValidationError("Invalid setting value",
				apperr.FieldError{Field: key, Message: "Must be a " + string(want)})
		}
	case current != nil:
		def = definition{Key: key, Category: current.Category, Public: current.IsPublic}
	default:
		return nil, apperr.ValidationError("Unknown setting key",
			apperr.FieldError{Field: "key", Message: "Not a known setting"})
	}

	if err := service.repo.Upsert(ctx, []Entry{def.entry(value)}, ctxutil.ActorID(ctx)); err != nil {
		return nil, err
	}

	if current == nil || !current.Value.Equal(value) {
		var before Value
		if current != nil {
			before = current.Value
		}
		service.recordChange(ctx, key, before, current != nil, value)
	}

	return service.repo.Find(ctx, key)
}

func (service *Service) recordChange(ctx context.Context, key string, before Value, existed bool, after Value) {
	details := map[string]any{"key": key, "value": after}
	if existed {
		details["previous"] = before
	}
	activity.Record(ctx, service.activity, service.logger, activity.ActionSettingsUpdated,
		activity.ResourceSettings, key, details)
}

// defaultKind is the variant a known key holds in [Defaults].
func defaultKind(key string) Kind {
	for _, entry := range Flatten(Defaults()) {
		if entry.Key == key {
			return entry.Value.Kind()
		}
	}
	return ""
}

func valuesOf(entries []Entry) map[string]Value {
	values := make(map[string]Value, len(entries))
	for _, entry := range entries {
		values[entry.Key] = entry.Value
	}
	return values
}

func validateData(data Data) error {
	v := &validate.Validator{}
	v.Required("siteName", data.SiteName).MaxLen("siteName", data.SiteName, 200)
	if data.ContactEmail != "" {
		v.Email("contactEmail", data.ContactEmail)
	}
	for network, link := range data.SocialLinks {
		v.URL("socialLinks."+network, link)
	}
	v.Range("eventsPerPage", data.EventsPerPage, 1, 100)
	v.Range("featuredEventsLimit", data.FeaturedEventsLimit, 0, 20)
	return v.Err()
}
