// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ResearchCategoryTable represents the 'research_categories' table
type ResearchCategoryTable struct {
	Table       string
	ID          string
	Name        string
	Description string
	Color       string
	Status      string
	CreatedAt   string
	UpdatedAt   string
}

// ResearchCategory is the schema definition for research_categories
var ResearchCategory = ResearchCategoryTable{
	Table:       "research_categories",
	ID:          "id",
	Name:        "name",
	Description: "description",
	Color:       "color",
	Status:      "status",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t ResearchCategoryTable) Columns() string {
	return list(t.ID, t.Name, t.Description, t.Color, t.Status, t.CreatedAt, t.UpdatedAt)
}

func (t ResearchCategoryTable) Prefixed(alias string) string {
	return prefixed(alias, t.ID, t.Name, t.Description, t.Color, t.Status, t.CreatedAt, t.UpdatedAt)
}
