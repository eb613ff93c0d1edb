// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ResearchPaperTable represents the 'research_papers' table
type ResearchPaperTable struct {
	Table           string
	ID              string
	Title           string
	Abstract        string
	DOI             string
	PublicationDate string
	ExternalURL     string
	CitationCount   string
	Status          string
	JournalID       string
	Volume          string
	Issue           string
	Pages           string
	IsFeatured      string
	CreatedAt       string
	UpdatedAt       string
}

// ResearchPaper is the schema definition for research_papers
var ResearchPaper = ResearchPaperTable{
	Table:           "research_papers",
	ID:              "id",
	Title:           "title",
	Abstract:        "abstract",
	DOI:             "doi",
	PublicationDate: "publication_date",
	ExternalURL:     "external_url",
	CitationCount:   "citation_count",
	Status:          "status",
	JournalID:       "journal_id",
	Volume:          "volume",
	Issue:           "issue",
	Pages:           "pages",
	IsFeatured:      "is_featured",
	CreatedAt:       "created_at",
	UpdatedAt:       "updated_at",
}

// ResearchPaperAuthorTable represents the 'paper_authors' join table
type ResearchPaperAuthorTable struct {
	Table           string
	PaperID         string
	AuthorID        string
	AuthorOrder     string
	IsCorresponding string
}

// ResearchPaperAuthor is the schema definition for paper_authors
var ResearchPaperAuthor = ResearchPaperAuthorTable{
	Table:           "paper_authors",
	PaperID:         "paper_id",
	AuthorID:        "author_id",
	AuthorOrder:     "author_order",
	IsCorresponding: "is_corresponding",
}

// ResearchPaperCategoryTable represents the 'paper_categories' join table
type ResearchPaperCategoryTable struct {
	Table      string
	PaperID    string
	CategoryID string
}

// ResearchPaperCategory is the schema definition for paper_categories
var ResearchPaperCategory = ResearchPaperCategoryTable{
	Table:      "paper_categories",
	PaperID:    "paper_id",
	CategoryID: "category_id",
}

// Columns lists every column in scan order. publication_date is read as
// ISO text (YYYY-MM-DD).
func (t ResearchPaperTable) Columns() string {
	return list(t.ID, t.Title, t.Abstract, t.DOI, t.PublicationDate+"::text", t.ExternalURL,
		t.CitationCount, t.Status, t.JournalID, t.Volume, t.Issue, t.Pages, t.IsFeatured,
		t.CreatedAt, t.UpdatedAt)
}
