// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/deptsite/internal/admin/activity"
	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/pkg/pointer"
	"github.com/taibuivan/deptsite/pkg/sanitize"
	"github.com/taibuivan/deptsite/pkg/slice"
)

// # Service Layer

// Service implements the event calendar.
//
// Reads and writes return classified errors ([apperr.AppError]). Category
// hydration, audit entries and change-feed publishes are best-effort: their
// failures are logged and never reach the caller.
type Service struct {
	repo       Repository
	categories CategoryFinder
	feed       ChangeFeed
	activity   activity.Recorder
	location   *time.Location
	now        func() time.Time
	logger     *slog.Logger
}

// NewService constructs an event [Service].
//
// feed and recorder may be nil. location decides when "today" starts for
// upcoming queries; nil means [time.Local].
func NewService(repo Repository, categories CategoryFinder, feed ChangeFeed, recorder activity.Recorder, location *time.Location, logger *slog.Logger) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		repo:       repo,
		categories: categories,
		feed:       feed,
		activity:   recorder,
		location:   location,
		now:        time.Now,
		logger:     logger,
	}
}

// startOfDay returns local midnight of the day containing t.
func startOfDay(t time.Time, location *time.Location) time.Time {
	year, month, day := t.In(location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func (service *Service) criteria(filter Filter) Criteria {
	c := Criteria{
		Status:     string(filter.Status),
		Type:       string(filter.Type),
		CategoryID: filter.CategoryID,
		Featured:   filter.Featured,
		Limit:      filter.Limit,
	}
	if filter.Upcoming {
		from := startOfDay(service.now(), service.location)
		c.DateFrom = &from
	}
	return c
}

// hydrate converts rows to models and attaches their categories with a
// single batch lookup.
func (service *Service) hydrate(ctx context.Context, rows []*Row) []*Event {
	events := make([]*Event, len(rows))
	var ids []string
	for i, row := range rows {
		e := ToModel(*row)
		events[i] = &e
		if e.CategoryID != nil {
			ids = append(ids, *e.CategoryID)
		}
	}

	if len(ids) == 0 || service.categories == nil {
		return events
	}

	found, err := service.categories.FindByIDs(ctx, slice.Unique(ids))
	if err != nil {
		service.logger.WarnContext(ctx, "event_category_hydration_failed",
			slog.Int("categories", len(ids)),
			slog.Any("error", err),
		)
		return events
	}

	for _, e := range events {
		if e.CategoryID != nil {
			e.Category = found[*e.CategoryID]
		}
	}
	return events
}

func (service *Service) publish(ctx context.Context, op, id string) {
	if service.feed == nil {
		return
	}
	if err := service.feed.Publish(ctx, op, id); err != nil {
		service.logger.WarnContext(ctx, "event_change_publish_failed",
			slog.String("op", op),
			slog.String("event_id", id),
			slog.Any("error", err),
		)
	}
}

// # Reads

// GetEvents lists events matching filter, ordered by date ascending.
func (service *Service) GetEvents(ctx context.Context, filter Filter) ([]*Event, error) {
	rows, err := service.repo.List(ctx, service.criteria(filter))
	if err != nil {
		return nil, err
	}
	return service.hydrate(ctx, rows), nil
}

// GetEvent returns one event or a not-found error.
func (service *Service) GetEvent(ctx context.Context, id string) (*Event, error) {
	row, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return service.hydrate(ctx, []*Row{row})[0], nil
}

// GetUpcomingEvents lists published events from the start of today.
func (service *Service) GetUpcomingEvents(ctx context.Context, limit int) ([]*Event, error) {
	return service.GetEvents(ctx, Filter{Status: StatusPublished, Upcoming: true, Limit: limit})
}

// GetFeaturedEvents lists published events flagged as featured.
func (service *Service) GetFeaturedEvents(ctx context.Context, limit int) ([]*Event, error) {
	return service.GetEvents(ctx, Filter{Status: StatusPublished, Featured: pointer.To(true), Limit: limit})
}

// GetEventsByType lists published events of a legacy type.
func (service *Service) GetEventsByType(ctx context.Context, eventType Type, limit int) ([]*Event, error) {
	return service.GetEvents(ctx, Filter{Status: StatusPublished, Type: eventType, Limit: limit})
}

// # Writes

// CreateEvent inserts an event owned by createdBy and returns it hydrated.
func (service *Service) CreateEvent(ctx context.Context, input Input, createdBy *string) (*Event, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	input.Description = sanitize.RichText(input.Description)

	row, err := service.repo.Create(ctx, input.Row(createdBy))
	if err != nil {
		return nil, err
	}
	e := service.hydrate(ctx, []*Row{row})[0]

	service.logger.InfoContext(ctx, "event_created",
		slog.String("event_id", e.ID),
		slog.String("status", string(e.Status)),
	)

	activity.Record(ctx, service.activity, service.logger, activity.ActionEventCreated,
		activity.ResourceEvent, e.ID, map[string]any{"title": e.Title, "status": e.Status})
	service.publish(ctx, OpInsert, e.ID)

	return e, nil
}

// UpdateEvent applies a sparse patch and returns the hydrated result.
//
// The current row is read first for the audit entry. If that read fails the
// update still proceeds and the entry carries no previous values.
func (service *Service) UpdateEvent(ctx context.Context, id string, p Patch) (*Event, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Description != nil {
		cleaned := sanitize.RichText(*p.Description)
		p.Description = &cleaned
	}

	before, err := service.repo.FindByID(ctx, id)
	if err != nil {
		service.logger.WarnContext(ctx, "event_preimage_failed",
			slog.String("event_id", id),
			slog.Any("error", err),
		)
		before = nil
	}

	row, err := service.repo.Update(ctx, id, p, service.now())
	if err != nil {
		return nil, err
	}
	e := service.hydrate(ctx, []*Row{row})[0]

	details := map[string]any{"title": e.Title}
	if before != nil {
		changes, previous := diffTracked(*before, *row)
		details["changes"] = changes
		details["previous"] = previous
	}

	service.logger.InfoContext(ctx, "event_updated", slog.String("event_id", id))

	activity.Record(ctx, service.activity, service.logger, activity.ActionEventUpdated,
		activity.ResourceEvent, id, details)
	service.publish(ctx, OpUpdate, id)

	return e, nil
}

// DeleteEvent hard-deletes an event.
func (service *Service) DeleteEvent(ctx context.Context, id string) error {
	before, err := service.repo.FindByID(ctx, id)
	if err != nil {
		service.logger.WarnContext(ctx, "event_preimage_failed",
			slog.String("event_id", id),
			slog.Any("error", err),
		)
	}

	deleted, err := service.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Event")
	}

	details := map[string]any{}
	if before != nil {
		details["title"] = before.Title
	}

	service.logger.InfoContext(ctx, "event_deleted", slog.String("event_id", id))

	activity.Record(ctx, service.activity, service.logger, activity.ActionEventDeleted,
		activity.ResourceEvent, id, details)
	service.publish(ctx, OpDelete, id)

	return nil
}

// # Live updates

// SubscribeToEvents calls callback with the full list of published events
// after every change to the calendar. It blocks until ctx is cancelled.
func (service *Service) SubscribeToEvents(ctx context.Context, callback func([]*Event)) error {
	if service.feed == nil {
		return apperr.ServiceUnavailable("Live event updates are not configured")
	}

	return service.feed.Subscribe(ctx, func(change Change) {
		events, err := service.GetEvents(ctx, Filter{Status: StatusPublished})
		if err != nil {
			service.logger.WarnContext(ctx, "event_refetch_failed",
				slog.String("op", change.Op),
				slog.Any("error", err),
			)
			return
		}
		callback(events)
	})
}

// diffTracked compares the audited fields of two rows. It returns the names
// of changed fields and their previous values.
func diffTracked(before, after Row) ([]string, map[string]any) {
	changes := []string{}
	previous := map[string]any{}

	track := func(field string, changed bool, old any) {
		if changed {
			changes = append(changes, field)
			previous[field] = old
		}
	}

	track(FieldTitle, before.Title != after.Title, before.Title)
	track(FieldStatus, before.Status != after.Status, before.Status)
	track("featured", pointer.Fallback(before.Featured, false) != pointer.Fallback(after.Featured, false), before.Featured)
	track(FieldDate, !before.Date.Equal(after.Date), before.Date)
	track("location", before.Location != after.Location, before.Location)

	return changes, previous
}
