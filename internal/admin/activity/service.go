// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/deptsite/internal/platform/constants"
	"github.com/taibuivan/deptsite/internal/platform/ctxutil"
	"github.com/taibuivan/deptsite/internal/platform/validate"
)

// Service reads and writes the audit log.
type Service struct {
	repo          Repository
	retentionDays int
	now           func() time.Time
	logger        *slog.Logger
}

// NewService constructs an activity [Service]. retentionDays is the default
// cutoff of [Service.CleanupOldLogs]; zero or less uses the built-in default.
func NewService(repo Repository, retentionDays int, logger *slog.Logger) *Service {
	if retentionDays <= 0 {
		retentionDays = constants.DefaultActivityRetentionDays
	}
	return &Service{repo: repo, retentionDays: retentionDays, now: time.Now, logger: logger}
}

// LogActivity records an entry for the admin in ctx and returns it joined
// with the actor's display info.
func (service *Service) LogActivity(ctx context.Context, action string, resourceType, resourceID *string, details map[string]any) (*Log, error) {
	if err := (&validate.Validator{}).Required("action", action).Err(); err != nil {
		return nil, err
	}

	id, err := service.repo.Insert(ctx, ctxutil.ActorID(ctx), action, resourceType, resourceID, details)
	if err != nil {
		return nil, err
	}

	return service.repo.FindByID(ctx, id)
}

// GetActivityLogs returns one page of entries and the number of matching entries.
//
// The count applies the same action and resource_type filters as the page.
// The legacy admin panel counted the whole table here.
func (service *Service) GetActivityLogs(ctx context.Context, filter Filter) (*Page, error) {
	if filter.Limit <= 0 {
		filter.Limit = constants.DefaultActivityPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var (
		entries []*Log
		count   int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		entries, err = service.repo.List(groupCtx, filter)
		return err
	})
	group.Go(func() (err error) {
		count, err = service.repo.Count(groupCtx, filter)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &Page{Data: entries, Count: count}, nil
}

// GetActivityStats runs the six summary counts concurrently.
func (service *Service) GetActivityStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	since := service.now().Add(-24 * time.Hour)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		stats.Total, err = service.repo.Count(groupCtx, Filter{})
		return err
	})
	group.Go(func() (err error) {
		stats.EventActions, err = service.repo.CountByResourceType(groupCtx, ResourceEvent)
		return err
	})
	group.Go(func() (err error) {
		stats.AchievementActions, err = service.repo.CountByResourceType(groupCtx, ResourceAchievement)
		return err
	})
	group.Go(func() (err error) {
		stats.SystemActions, err = service.repo.CountByActions(groupCtx, SystemActions)
		return err
	})
	group.Go(func() (err error) {
		stats.UserActions, err = service.repo.CountByActions(groupCtx, UserActions)
		return err
	})
	group.Go(func() (err error) {
		stats.Last24Hours, err = service.repo.CountSince(groupCtx, since)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// CleanupOldLogs deletes entries older than olderThanDays and returns how many
// were removed. Zero or less uses the configured retention.
func (service *Service) CleanupOldLogs(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays <= 0 {
		olderThanDays = service.retentionDays
	}

	cutoff := service.now().AddDate(0, 0, -olderThanDays)
	deleted, err := service.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	service.logger.InfoContext(ctx, "activity_logs_purged",
		slog.Int64("deleted", deleted),
		slog.Int("older_than_days", olderThanDays),
	)

	Record(ctx, service, service.logger, ActionSystemCleanup, ResourceSystem, "", map[string]any{
		"deleted":         deleted,
		"older_than_days": olderThanDays,
	})

	return deleted, nil
}
