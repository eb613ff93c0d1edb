// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package research manages the department's publication records: papers, the
authors and journals they reference, and research categories.

Papers link to authors through join rows carrying the author order and the
corresponding-author flag, and to categories through plain join rows. Join
rows are never diffed: a write that supplies a list replaces every existing
row for that paper.

Reads return papers with their journal, ordered authors and categories
attached. All methods return classified errors, except DOI lookup which
yields nil on any failure.
*/
package research

import (
	"time"

	"github.com/taibuivan/deptsite/internal/platform/validate"
	"github.com/taibuivan/deptsite/pkg/patch"
)

// # Status values

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

const (
	PaperDraft     = "draft"
	PaperInReview  = "in-review"
	PaperPublished = "published"
	PaperRejected  = "rejected"
)

var paperStatuses = []string{PaperDraft, PaperInReview, PaperPublished, PaperRejected}

// # Lookup entities

// Author is a researcher who can be credited on papers.
type Author struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email"`
	Affiliation *string   `json:"affiliation"`
	ORCID       *string   `json:"orcid"`
	Bio         *string   `json:"bio"`
	Website     *string   `json:"website"`
	Photo       *string   `json:"photo"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuthorInput creates or replaces an author.
type AuthorInput struct {
	Name        string  `json:"name"`
	Email       *string `json:"email"`
	Affiliation *string `json:"affiliation"`
	ORCID       *string `json:"orcid"`
	Bio         *string `json:"bio"`
	Website     *string `json:"website"`
	Photo       *string `json:"photo"`
	Status      string  `json:"status"`
}

// Validate checks required fields. An empty status becomes active.
func (in *AuthorInput) Validate() error {
	if in.Status == "" {
		in.Status = StatusActive
	}
	v := &validate.Validator{}
	v.Required("name", in.Name).MaxLen("name", in.Name, 200)
	v.OneOf("status", in.Status, StatusActive, StatusInactive)
	if in.Email != nil && *in.Email != "" {
		v.Email("email", *in.Email)
	}
	if in.ORCID != nil && *in.ORCID != "" {
		v.ORCID("orcid", *in.ORCID)
	}
	if in.Website != nil && *in.Website != "" {
		v.URL("website", *in.Website)
	}
	return v.Err()
}

// Journal is a publication venue.
type Journal struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Publisher    *string   `json:"publisher"`
	ImpactFactor *float64  `json:"impact_factor"`
	ISSN         *string   `json:"issn"`
	Website      *string   `json:"website"`
	Description  *string   `json:"description"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// JournalInput creates or replaces a journal.
type JournalInput struct {
	Name         string   `json:"name"`
	Publisher    *string  `json:"publisher"`
	ImpactFactor *float64 `json:"impact_factor"`
	ISSN         *string  `json:"issn"`
	Website      *string  `json:"website"`
	Description  *string  `json:"description"`
	Status       string   `json:"status"`
}

// Validate checks required fields. An empty status becomes active.
func (in *JournalInput) Validate() error {
	if in.Status == "" {
		in.Status = StatusActive
	}
	v := &validate.Validator{}
	v.Required("name", in.Name).MaxLen("name", in.Name, 300)
	v.OneOf("status", in.Status, StatusActive, StatusInactive)
	v.Custom("impact_factor", in.ImpactFactor != nil && *in.ImpactFactor < 0, "Must not be negative")
	if in.Website != nil && *in.Website != "" {
		v.URL("website", *in.Website)
	}
	return v.Err()
}

// Category is a research topic.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryInput creates or replaces a research category.
type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Status      string  `json:"status"`
}

// Validate checks required fields. An empty status becomes active.
func (in *CategoryInput) Validate() error {
	if in.Status == "" {
		in.Status = StatusActive
	}
	v := &validate.Validator{}
	v.Required("name", in.Name).MaxLen("name", in.Name, 120)
	v.OneOf("status", in.Status, StatusActive, StatusInactive)
	return v.Err()
}

// # Papers

// PaperAuthor is a join row with its author attached.
type PaperAuthor struct {
	AuthorID        string  `json:"author_id"`
	AuthorOrder     int     `json:"author_order"`
	IsCorresponding bool    `json:"is_corresponding"`
	Author          *Author `json:"author,omitempty"`
}

// PaperCategory is a join row with its category attached.
type PaperCategory struct {
	CategoryID string    `json:"category_id"`
	Category   *Category `json:"category,omitempty"`
}

// Paper is a publication with its relations.
type Paper struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Abstract        *string   `json:"abstract"`
	DOI             *string   `json:"doi"`
	PublicationDate *string   `json:"publication_date"`
	ExternalURL     *string   `json:"external_url"`
	CitationCount   int       `json:"citation_count"`
	Status          string    `json:"status"`
	JournalID       *string   `json:"journal_id"`
	Volume          *string   `json:"volume"`
	Issue           *string   `json:"issue"`
	Pages           *string   `json:"pages"`
	IsFeatured      bool      `json:"is_featured"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Journal    *Journal        `json:"journal,omitempty"`
	Authors    []PaperAuthor   `json:"authors"`
	Categories []PaperCategory `json:"categories"`
}

// AuthorLink credits an author on a paper.
type AuthorLink struct {
	AuthorID        string `json:"author_id"`
	AuthorOrder     int    `json:"author_order"`
	IsCorresponding bool   `json:"is_corresponding"`
}

// PaperInput creates a paper. Authors and CategoryIDs are optional; when
// present their join rows are written with the paper.
type PaperInput struct {
	Title           string  `json:"title"`
	Abstract        *string `json:"abstract"`
	DOI             *string `json:"doi"`
	PublicationDate *string `json:"publication_date"`
	ExternalURL     *string `json:"external_url"`
	CitationCount   int     `json:"citation_count"`
	Status          string  `json:"status"`
	JournalID       *string `json:"journal_id"`
	Volume          *string `json:"volume"`
	Issue           *string `json:"issue"`
	Pages           *string `json:"pages"`
	IsFeatured      bool    `json:"is_featured"`

	Authors     []AuthorLink `json:"authors,omitempty"`
	CategoryIDs []string     `json:"category_ids,omitempty"`
}

// Validate checks the create payload. An empty status becomes draft.
func (in *PaperInput) Validate() error {
	if in.Status == "" {
		in.Status = PaperDraft
	}
	v := &validate.Validator{}
	v.Required("title", in.Title).MaxLen("title", in.Title, 500)
	v.OneOf("status", in.Status, paperStatuses...)
	v.NonNegative("citation_count", in.CitationCount)
	if in.DOI != nil && *in.DOI != "" {
		*in.DOI = NormalizeDOI(*in.DOI)
		v.DOI("doi", *in.DOI)
	}
	if in.PublicationDate != nil && *in.PublicationDate != "" {
		v.Date("publication_date", *in.PublicationDate)
	}
	validateAuthorLinks(v, in.Authors)
	return v.Err()
}

// PaperPatch updates a paper.
//
// Authors and CategoryIDs distinguish omitted (nil: joins untouched) from
// supplied (non-nil, even empty: every join row is replaced).
type PaperPatch struct {
	Title           *string             `json:"title"`
	Abstract        patch.Field[string] `json:"abstract"`
	DOI             patch.Field[string] `json:"doi"`
	PublicationDate patch.Field[string] `json:"publication_date"`
	ExternalURL     patch.Field[string] `json:"external_url"`
	CitationCount   *int                `json:"citation_count"`
	Status          *string             `json:"status"`
	JournalID       patch.Field[string] `json:"journal_id"`
	Volume          patch.Field[string] `json:"volume"`
	Issue           patch.Field[string] `json:"issue"`
	Pages           patch.Field[string] `json:"pages"`
	IsFeatured      *bool               `json:"is_featured"`

	Authors     []AuthorLink `json:"authors"`
	CategoryIDs []string     `json:"category_ids"`
}

// HasColumns reports whether the patch touches the paper row itself.
func (p PaperPatch) HasColumns() bool {
	return p.Title != nil || p.Abstract.Set || p.DOI.Set || p.PublicationDate.Set ||
		p.ExternalURL.Set || p.CitationCount != nil || p.Status != nil || p.JournalID.Set ||
		p.Volume.Set || p.Issue.Set || p.Pages.Set || p.IsFeatured != nil
}

// Validate checks only the supplied fields. A DOI is normalized in place.
func (p *PaperPatch) Validate() error {
	v := &validate.Validator{}
	if p.Title != nil {
		v.Required("title", *p.Title).MaxLen("title", *p.Title, 500)
	}
	if p.Status != nil {
		v.OneOf("status", *p.Status, paperStatuses...)
	}
	if p.CitationCount != nil {
		v.NonNegative("citation_count", *p.CitationCount)
	}
	if p.DOI.Set && !p.DOI.Null {
		p.DOI.Value = NormalizeDOI(p.DOI.Value)
		v.DOI("doi", p.DOI.Value)
	}
	if p.PublicationDate.Set && !p.PublicationDate.Null {
		v.Date("publication_date", p.PublicationDate.Value)
	}
	validateAuthorLinks(v, p.Authors)
	return v.Err()
}

func validateAuthorLinks(v *validate.Validator, links []AuthorLink) {
	for _, link := range links {
		v.Required("authors.author_id", link.AuthorID)
		v.NonNegative("authors.author_order", link.AuthorOrder)
	}
}

// # Queries

// PaperFilter selects papers. Zero values match everything.
type PaperFilter struct {
	Status     string
	IsFeatured *bool
	JournalID  string
	YearFrom   int
	YearTo     int
	// Search matches title or abstract, case-insensitively.
	Search string
	Limit  int
	Offset int
}

// LookupFilter selects authors or journals.
type LookupFilter struct {
	Search string
	Status string
}

// Stats summarizes the publication record.
type Stats struct {
	TotalPapers     int            `json:"total_papers"`
	PublishedPapers int            `json:"published_papers"`
	InReviewPapers  int            `json:"in_review_papers"`
	TotalAuthors    int            `json:"total_authors"`
	TotalJournals   int            `json:"total_journals"`
	TotalCitations  int            `json:"total_citations"`
	PapersByYear    map[int]int    `json:"papers_by_year"`
	PapersByTopic   map[string]int `json:"papers_by_category"`
}
