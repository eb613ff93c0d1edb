// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package activity is the append-only audit log of the admin back-office.

Writes go through the database function record_admin_activity so the insert
is a single atomic statement. Other services log through [Record], which
treats the audit entry as a side channel: a failed write is logged at warn
level and never changes the outcome of the operation being audited.
*/
package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/deptsite/pkg/pointer"
)

// # Actions

const (
	ActionEventCreated = "event_created"
	ActionEventUpdated = "event_updated"
	ActionEventDeleted = "event_deleted"

	ActionCategoryCreated = "category_created"
	ActionCategoryUpdated = "category_updated"
	ActionCategoryDeleted = "category_deleted"

	ActionResearchCreated = "research_created"
	ActionResearchUpdated = "research_updated"
	ActionResearchDeleted = "research_deleted"

	ActionSettingsUpdated = "settings_updated"
	ActionSystemCleanup   = "system_cleanup"
	ActionSystemBackup    = "system_backup"
	ActionSystemRestore   = "system_restore"

	ActionUserLogin   = "user_login"
	ActionUserLogout  = "user_logout"
	ActionUserCreated = "user_created"
	ActionUserUpdated = "user_updated"
)

// # Resource types

const (
	ResourceEvent            = "event"
	ResourceAchievement      = "achievement"
	ResourceCategory         = "category"
	ResourceResearchPaper    = "research_paper"
	ResourceAuthor           = "author"
	ResourceJournal          = "journal"
	ResourceResearchCategory = "research_category"
	ResourceSettings         = "settings"
	ResourceSystem           = "system"
	ResourceUser             = "user"
)

// SystemActions are counted as "system" activity in [Stats].
var SystemActions = []string{ActionSettingsUpdated, ActionSystemCleanup, ActionSystemBackup, ActionSystemRestore}

// UserActions are counted as "user" activity in [Stats].
var UserActions = []string{ActionUserLogin, ActionUserLogout, ActionUserCreated, ActionUserUpdated}

// # Models

// Actor is the display info of the admin who performed an action.
type Actor struct {
	Email       *string `json:"email"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// Log is one audit entry.
type Log struct {
	ID           string         `json:"id"`
	UserID       *string        `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType *string        `json:"resource_type"`
	ResourceID   *string        `json:"resource_id"`
	Details      map[string]any `json:"details"`
	CreatedAt    time.Time      `json:"created_at"`
	User         *Actor         `json:"user,omitempty"`
}

// Filter selects audit entries. Empty strings match everything.
type Filter struct {
	Action       string
	ResourceType string
	Limit        int
	Offset       int
}

// Page is one page of entries and the number of entries matching the filter.
type Page struct {
	Data  []*Log `json:"data"`
	Count int    `json:"count"`
}

// Stats summarizes the audit log.
type Stats struct {
	Total              int `json:"total"`
	EventActions       int `json:"event_actions"`
	AchievementActions int `json:"achievement_actions"`
	SystemActions      int `json:"system_actions"`
	UserActions        int `json:"user_actions"`
	Last24Hours        int `json:"last_24_hours"`
}

// # Best-effort recording

// Recorder writes audit entries. [*Service] implements it.
type Recorder interface {
	LogActivity(ctx context.Context, action string, resourceType, resourceID *string, details map[string]any) (*Log, error)
}

// Record writes an audit entry and swallows the failure.
// Empty resourceType or resourceID are stored as NULL. A nil recorder is a no-op.
func Record(ctx context.Context, recorder Recorder, logger *slog.Logger, action, resourceType, resourceID string, details map[string]any) {
	if recorder == nil {
		return
	}

	if _, err := recorder.LogActivity(ctx, action, pointer.NonZero(resourceType), pointer.NonZero(resourceID), details); err != nil {
		logger.WarnContext(ctx, "activity_log_failed",
			slog.String("action", action),
			slog.String("resource_id", resourceID),
			slog.Any("error", err),
		)
	}
}
