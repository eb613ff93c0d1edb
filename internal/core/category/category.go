// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package category manages the lookup entity that groups events on the site
// (workshops, seminars, open days). Categories carry display tokens for the
// frontend and an explicit sort order.
package category

import (
	"time"

	"github.com/taibuivan/deptsite/internal/platform/validate"
	"github.com/taibuivan/deptsite/pkg/patch"
	"github.com/taibuivan/deptsite/pkg/pointer"
	"github.com/taibuivan/deptsite/pkg/slug"
)

// Field names used in validation errors.
const (
	FieldName      = "name"
	FieldSlug      = "slug"
	FieldSortOrder = "sort_order"
)

// Category groups events for navigation and filtering.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	ColorClass  string    `json:"color_class"`
	IconEmoji   string    `json:"icon_emoji"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedBy   *string   `json:"created_by"`
}

// WithCount is a category annotated with the number of events referencing it.
type WithCount struct {
	Category
	EventCount int `json:"event_count"`
}

// Input is the payload for creating a category.
// An empty Slug is derived from Name.
type Input struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	ColorClass  string  `json:"color_class"`
	IconEmoji   string  `json:"icon_emoji"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   int     `json:"sort_order"`
}

// Normalize fills derived defaults.
func (in *Input) Normalize() {
	if in.Slug == "" {
		in.Slug = GenerateSlug(in.Name)
	}
	if in.IsActive == nil {
		in.IsActive = pointer.To(true)
	}
}

// Validate checks the create payload. Call [Input.Normalize] first.
func (in Input) Validate() error {
	v := &validate.Validator{}
	v.Required(FieldName, in.Name).MaxLen(FieldName, in.Name, 120)
	v.Slug(FieldSlug, in.Slug)
	v.NonNegative(FieldSortOrder, in.SortOrder)
	return v.Err()
}

// Patch is a sparse update. Nil pointers leave the column untouched.
//
// Description is clearable: JSON null writes NULL, an empty string is stored
// as-is, and an omitted key leaves the stored text alone.
type Patch struct {
	Name        *string             `json:"name"`
	Slug        *string             `json:"slug"`
	Description patch.Field[string] `json:"description"`
	ColorClass  *string             `json:"color_class"`
	IconEmoji   *string             `json:"icon_emoji"`
	IsActive    *bool               `json:"is_active"`
	SortOrder   *int                `json:"sort_order"`
}

// Empty reports whether the patch carries no fields.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Slug == nil && !p.Description.Set && p.ColorClass == nil &&
		p.IconEmoji == nil && p.IsActive == nil && p.SortOrder == nil
}

// Validate checks only the supplied fields.
func (p Patch) Validate() error {
	v := &validate.Validator{}
	if p.Name != nil {
		v.Required(FieldName, *p.Name).MaxLen(FieldName, *p.Name, 120)
	}
	if p.Slug != nil {
		v.Slug(FieldSlug, *p.Slug)
	}
	if p.SortOrder != nil {
		v.NonNegative(FieldSortOrder, *p.SortOrder)
	}
	return v.Err()
}

// GenerateSlug turns a category name into its URL slug.
func GenerateSlug(name string) string {
	return slug.Generate(name)
}
