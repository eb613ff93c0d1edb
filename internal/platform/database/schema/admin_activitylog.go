// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AdminActivityLogTable represents the 'admin_activity_logs' table
type AdminActivityLogTable struct {
	Table        string
	ID           string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Details      string
	CreatedAt    string

	// RecordFunction is the database function that inserts one entry.
	RecordFunction string
}

// AdminActivityLog is the schema definition for admin_activity_logs
var AdminActivityLog = AdminActivityLogTable{
	Table:          "admin_activity_logs",
	ID:             "id",
	UserID:         "user_id",
	Action:         "action",
	ResourceType:   "resource_type",
	ResourceID:     "resource_id",
	Details:        "details",
	CreatedAt:      "created_at",
	RecordFunction: "record_admin_activity",
}
