// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreEventTable represents the 'events' table
type CoreEventTable struct {
	Table                  string
	ID                     string
	Title                  string
	Description            string
	ShortDescription       string
	Date                   string
	EndDate                string
	Location               string
	Type                   string
	CategoryID             string
	Image                  string
	PosterImage            string
	PdfBrochure            string
	RegistrationRequired   string
	RegistrationLink       string
	CustomRegistrationLink string
	RegistrationDeadline   string
	Featured               string
	Capacity               string
	Speakers               string
	Schedule               string
	Tags                   string
	Status                 string
	CreatedBy              string
	CreatedAt              string
	UpdatedAt              string
}

// CoreEvent is the schema definition for events
var CoreEvent = CoreEventTable{
	Table:                  "events",
	ID:                     "id",
	Title:                  "title",
	Description:            "description",
	ShortDescription:       "short_description",
	Date:                   "date",
	EndDate:                "end_date",
	Location:               "location",
	Type:                   "type",
	CategoryID:             "category_id",
	Image:                  "image",
	PosterImage:            "poster_image",
	PdfBrochure:            "pdf_brochure",
	RegistrationRequired:   "registration_required",
	RegistrationLink:       "registration_link",
	CustomRegistrationLink: "custom_registration_link",
	RegistrationDeadline:   "registration_deadline",
	Featured:               "featured",
	Capacity:               "capacity",
	Speakers:               "speakers",
	Schedule:               "schedule",
	Tags:                   "tags",
	Status:                 "status",
	CreatedBy:              "created_by",
	CreatedAt:              "created_at",
	UpdatedAt:              "updated_at",
}

// Columns lists every column in scan order.
func (t CoreEventTable) Columns() string {
	return list(t.ID, t.Title, t.Description, t.ShortDescription, t.Date, t.EndDate,
		t.Location, t.Type, t.CategoryID, t.Image, t.PosterImage, t.PdfBrochure,
		t.RegistrationRequired, t.RegistrationLink, t.CustomRegistrationLink,
		t.RegistrationDeadline, t.Featured, t.Capacity, t.Speakers, t.Schedule,
		t.Tags, t.Status, t.CreatedBy, t.CreatedAt, t.UpdatedAt)
}
