// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AdminSettingTable represents the 'admin_settings' table
type AdminSettingTable struct {
	Table       string
	ID          string
	Key         string
	Value       string
	Description string
	Category    string
	IsPublic    string
	UpdatedAt   string
	UpdatedBy   string
}

// AdminSetting is the schema definition for admin_settings
var AdminSetting = AdminSettingTable{
	Table:       "admin_settings",
	ID:          "id",
	Key:         "key",
	Value:       "value",
	Description: "description",
	Category:    "category",
	IsPublic:    "is_public",
	UpdatedAt:   "updated_at",
	UpdatedBy:   "updated_by",
}
