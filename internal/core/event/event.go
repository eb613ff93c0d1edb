// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package event manages the department calendar.

# Row and model

[Row] mirrors the events table: snake_case columns, every nullable column a
pointer. [Event] is the shape served to the site: camelCase JSON, defaults
applied and the referenced [category.Category] attached. [ToModel] and [ToRow]
convert between the two without I/O. Category hydration is a separate batch
step in the service, one lookup per result page.

# Sparse updates

[Patch] has three groups of fields:

  - Truthy fields (title, dates, status...) are applied only when supplied
    with a non-zero value, so they cannot be cleared through a patch.
  - Booleans are applied whenever supplied.
  - Clearable fields use [patch.Field]: JSON null writes NULL.
*/
package event

import (
	"time"

	"github.com/taibuivan/deptsite/internal/core/category"
	"github.com/taibuivan/deptsite/internal/platform/validate"
	"github.com/taibuivan/deptsite/pkg/patch"
)

// # Enums

// Status is the publication state of an event. Any status may follow any other.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Type is the legacy event classification, superseded by categories.
type Type string

const (
	TypeAcademic Type = "academic"
	TypeCultural Type = "cultural"
	TypeResearch Type = "research"
	TypeWorkshop Type = "workshop"
)

// Valid reports whether t is a known legacy type.
func (t Type) Valid() bool {
	switch t {
	case TypeAcademic, TypeCultural, TypeResearch, TypeWorkshop:
		return true
	}
	return false
}

// Field names used in validation errors.
const (
	FieldTitle                  = "title"
	FieldDate                   = "date"
	FieldEndDate                = "endDate"
	FieldType                   = "type"
	FieldStatus                 = "status"
	FieldCapacity               = "capacity"
	FieldRegistrationLink       = "registrationLink"
	FieldCustomRegistrationLink = "customRegistrationLink"
)

// # Types

// ScheduleItem is one slot of an event programme.
type ScheduleItem struct {
	Time        string  `json:"time"`
	Title       string  `json:"title"`
	Speaker     *string `json:"speaker,omitempty"`
	Description string  `json:"description"`
}

// Row is the persisted form of an event.
type Row struct {
	ID                     string
	Title                  string
	Description            string
	ShortDescription       string
	Date                   time.Time
	EndDate                *time.Time
	Location               string
	Type                   *string
	CategoryID             *string
	Image                  *string
	PosterImage            *string
	PdfBrochure            *string
	RegistrationRequired   *bool
	RegistrationLink       *string
	CustomRegistrationLink *string
	RegistrationDeadline   *time.Time
	Featured               *bool
	Capacity               *int
	Speakers               []string
	Schedule               []ScheduleItem
	Tags                   []string
	Status                 string
	CreatedBy              *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Event is the application model of a calendar entry.
type Event struct {
	ID                     string             `json:"id"`
	Title                  string             `json:"title"`
	Description            string             `json:"description"`
	ShortDescription       string             `json:"shortDescription"`
	Date                   time.Time          `json:"date"`
	EndDate                *time.Time         `json:"endDate,omitempty"`
	Location               string             `json:"location"`
	Type                   *Type              `json:"type,omitempty"`
	CategoryID             *string            `json:"category_id,omitempty"`
	Category               *category.Category `json:"category,omitempty"`
	Image                  *string            `json:"image,omitempty"`
	PosterImage            *string            `json:"posterImage,omitempty"`
	PdfBrochure            *string            `json:"pdfBrochure,omitempty"`
	RegistrationRequired   bool               `json:"registrationRequired"`
	RegistrationLink       *string            `json:"registrationLink,omitempty"`
	CustomRegistrationLink *string            `json:"customRegistrationLink,omitempty"`
	RegistrationDeadline   *time.Time         `json:"registrationDeadline,omitempty"`
	Featured               bool               `json:"featured"`
	Capacity               *int               `json:"capacity,omitempty"`
	RegisteredCount        int                `json:"registeredCount"`
	Speakers               []string           `json:"speakers,omitempty"`
	Schedule               []ScheduleItem     `json:"schedule,omitempty"`
	Tags                   []string           `json:"tags,omitempty"`
	Status                 Status             `json:"status"`
	CreatedBy              *string            `json:"createdBy,omitempty"`
	CreatedAt              time.Time          `json:"createdAt"`
	UpdatedAt              time.Time          `json:"updatedAt"`
}

// # Transform

// ToModel converts a row into an [Event]. NULL columns stay unset, except
// registrationRequired (default true) and featured (default false).
// RegisteredCount is always zero; no registration system feeds it.
func ToModel(row Row) Event {
	e := Event{
		ID:                     row.ID,
		Title:                  row.Title,
		Description:            row.Description,
		ShortDescription:       row.ShortDescription,
		Date:                   row.Date,
		EndDate:                row.EndDate,
		Location:               row.Location,
		CategoryID:             row.CategoryID,
		Image:                  row.Image,
		PosterImage:            row.PosterImage,
		PdfBrochure:            row.PdfBrochure,
		RegistrationRequired:   true,
		RegistrationLink:       row.RegistrationLink,
		CustomRegistrationLink: row.CustomRegistrationLink,
		RegistrationDeadline:   row.RegistrationDeadline,
		Capacity:               row.Capacity,
		Speakers:               row.Speakers,
		Schedule:               row.Schedule,
		Tags:                   row.Tags,
		Status:                 Status(row.Status),
		CreatedBy:              row.CreatedBy,
		CreatedAt:              row.CreatedAt,
		UpdatedAt:              row.UpdatedAt,
	}

	if row.Type != nil {
		t := Type(*row.Type)
		e.Type = &t
	}
	if row.RegistrationRequired != nil {
		e.RegistrationRequired = *row.RegistrationRequired
	}
	if row.Featured != nil {
		e.Featured = *row.Featured
	}

	return e
}

// ToRow converts an [Event] back into its persisted form.
// The nested Category and RegisteredCount are not stored.
func ToRow(e Event) Row {
	row := Row{
		ID:                     e.ID,
		Title:                  e.Title,
		Description:            e.Description,
		ShortDescription:       e.ShortDescription,
		Date:                   e.Date,
		EndDate:                e.EndDate,
		Location:               e.Location,
		CategoryID:             e.CategoryID,
		Image:                  e.Image,
		PosterImage:            e.PosterImage,
		PdfBrochure:            e.PdfBrochure,
		RegistrationRequired:   &e.RegistrationRequired,
		RegistrationLink:       e.RegistrationLink,
		CustomRegistrationLink: e.CustomRegistrationLink,
		RegistrationDeadline:   e.RegistrationDeadline,
		Featured:               &e.Featured,
		Capacity:               e.Capacity,
		Speakers:               e.Speakers,
		Schedule:               e.Schedule,
		Tags:                   e.Tags,
		Status:                 string(e.Status),
		CreatedBy:              e.CreatedBy,
		CreatedAt:              e.CreatedAt,
		UpdatedAt:              e.UpdatedAt,
	}

	if e.Type != nil {
		t := string(*e.Type)
		row.Type = &t
	}

	return row
}

// # Queries

// Filter selects events. Zero values match everything.
type Filter struct {
	Status     Status
	Type       Type
	CategoryID string
	Featured   *bool
	// Upcoming keeps events dated at or after the start of today.
	Upcoming bool
	Limit    int
}

// Criteria is a [Filter] resolved against the clock, as passed to storage.
type Criteria struct {
	Status     string
	Type       string
	CategoryID string
	Featured   *bool
	DateFrom   *time.Time
	Limit      int
}

// # Writes

// Input is the payload for creating an event.
type Input struct {
	Title                  string         `json:"title"`
	Description            string         `json:"description"`
	ShortDescription       string         `json:"shortDescription"`
	Date                   time.Time      `json:"date"`
	EndDate                *time.Time     `json:"endDate"`
	Location               string         `json:"location"`
	Type                   *Type          `json:"type"`
	CategoryID             *string        `json:"category_id"`
	Image                  *string        `json:"image"`
	PosterImage            *string        `json:"posterImage"`
	PdfBrochure            *string        `json:"pdfBrochure"`
	RegistrationRequired   *bool          `json:"registrationRequired"`
	RegistrationLink       *string        `json:"registrationLink"`
	CustomRegistrationLink *string        `json:"customRegistrationLink"`
	RegistrationDeadline   *time.Time     `json:"registrationDeadline"`
	Featured               *bool          `json:"featured"`
	Capacity               *int           `json:"capacity"`
	Speakers               []string       `json:"speakers"`
	Schedule               []ScheduleItem `json:"schedule"`
	Tags                   []string       `json:"tags"`
	Status                 Status         `json:"status"`
}

// Validate checks required fields and enum values.
func (in Input) Validate() error {
	v := &validate.Validator{}
	v.Required(FieldTitle, in.Title).MaxLen(FieldTitle, in.Title, 255)
	v.Custom(FieldDate, in.Date.IsZero(), "Required")
	v.Custom(FieldEndDate, in.EndDate != nil && in.EndDate.Before(in.Date), "Must not be before the start date")
	v.Custom(FieldStatus, in.Status != "" && !in.Status.Valid(), "Unknown status")
	v.Custom(FieldType, in.Type != nil && !in.Type.Valid(), "Unknown event type")
	v.Custom(FieldCapacity, in.Capacity != nil && *in.Capacity < 0, "Must not be negative")
	validateLinks(v, map[string]*string{
		FieldRegistrationLink:       in.RegistrationLink,
		FieldCustomRegistrationLink: in.CustomRegistrationLink,
	})
	return v.Err()
}

// Row maps the input to a row. Status defaults to draft.
func (in Input) Row(createdBy *string) Row {
	e := Event{
		Title:                  in.Title,
		Description:            in.Description,
		ShortDescription:       in.ShortDescription,
		Date:                   in.Date,
		EndDate:                in.EndDate,
		Location:               in.Location,
		Type:                   in.Type,
		CategoryID:             in.CategoryID,
		Image:                  in.Image,
		PosterImage:            in.PosterImage,
		PdfBrochure:            in.PdfBrochure,
		RegistrationRequired:   in.RegistrationRequired == nil || *in.RegistrationRequired,
		RegistrationLink:       in.RegistrationLink,
		CustomRegistrationLink: in.CustomRegistrationLink,
		RegistrationDeadline:   in.RegistrationDeadline,
		Featured:               in.Featured != nil && *in.Featured,
		Capacity:               in.Capacity,
		Speakers:               in.Speakers,
		Schedule:               in.Schedule,
		Tags:                   in.Tags,
		Status:                 in.Status,
		CreatedBy:              createdBy,
	}
	if e.Status == "" {
		e.Status = StatusDraft
	}
	return ToRow(e)
}

// Patch is a sparse event update. See the package documentation for the
// three field groups.
type Patch struct {
	Title                *string    `json:"title"`
	Description          *string    `json:"description"`
	ShortDescription     *string    `json:"shortDescription"`
	Date                 *time.Time `json:"date"`
	EndDate              *time.Time `json:"endDate"`
	Location             *string    `json:"location"`
	Type                 *Type      `json:"type"`
	RegistrationDeadline *time.Time `json:"registrationDeadline"`
	Status               *Status    `json:"status"`

	RegistrationRequired *bool `json:"registrationRequired"`
	Featured             *bool `json:"featured"`

	CategoryID             patch.Field[string]         `json:"category_id"`
	Image                  patch.Field[string]         `json:"image"`
	PosterImage            patch.Field[string]         `json:"posterImage"`
	PdfBrochure            patch.Field[string]         `json:"pdfBrochure"`
	RegistrationLink       patch.Field[string]         `json:"registrationLink"`
	CustomRegistrationLink patch.Field[string]         `json:"customRegistrationLink"`
	Capacity               patch.Field[int]            `json:"capacity"`
	Speakers               patch.Field[[]string]       `json:"speakers"`
	Schedule               patch.Field[[]ScheduleItem] `json:"schedule"`
	Tags                   patch.Field[[]string]       `json:"tags"`
}

// Validate checks enum values and registration URLs among the supplied fields.
func (p Patch) Validate() error {
	v := &validate.Validator{}
	if p.Title != nil {
		v.MaxLen(FieldTitle, *p.Title, 255)
	}
	v.Custom(FieldStatus, p.Status != nil && *p.Status != "" && !p.Status.Valid(), "Unknown status")
	v.Custom(FieldType, p.Type != nil && *p.Type != "" && !p.Type.Valid(), "Unknown event type")
	v.Custom(FieldCapacity, p.Capacity.Set && !p.Capacity.Null && p.Capacity.Value < 0, "Must not be negative")

	links := map[string]*string{}
	for field, value := range map[string]patch.Field[string]{
		FieldRegistrationLink:       p.RegistrationLink,
		FieldCustomRegistrationLink: p.CustomRegistrationLink,
	} {
		if value.Set && !value.Null {
			links[field] = &value.Value
		}
	}
	validateLinks(v, links)

	return v.Err()
}

// validateLinks requires absolute http(s) URLs. Media fields hold storage
// paths and are not checked.
func validateLinks(v *validate.Validator, links map[string]*string) {
	for field, link := range links {
		if link != nil && *link != "" {
			v.URL(field, *link)
		}
	}
}
