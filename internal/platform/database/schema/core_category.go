// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreCategoryTable represents the 'categories' table
type CoreCategoryTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	ColorClass  string
	IconEmoji   string
	IsActive    string
	SortOrder   string
	CreatedAt   string
	UpdatedAt   string
	CreatedBy   string
}

// CoreCategory is the schema definition for categories
var CoreCategory = CoreCategoryTable{
	Table:       "categories",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	ColorClass:  "color_class",
	IconEmoji:   "icon_emoji",
	IsActive:    "is_active",
	SortOrder:   "sort_order",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
	CreatedBy:   "created_by",
}

func (t CoreCategoryTable) Columns() string {
	return list(t.ID, t.Name, t.Slug, t.Description, t.ColorClass, t.IconEmoji,
		t.IsActive, t.SortOrder, t.CreatedAt, t.UpdatedAt, t.CreatedBy)
}

func (t CoreCategoryTable) Prefixed(alias string) string {
	return prefixed(alias, t.ID, t.Name, t.Slug, t.Description, t.ColorClass, t.IconEmoji,
		t.IsActive, t.SortOrder, t.CreatedAt, t.UpdatedAt, t.CreatedBy)
}
