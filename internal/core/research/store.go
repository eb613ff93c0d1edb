// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package research

import "context"

// AuthorRepository stores authors.
type AuthorRepository interface {
	ListAuthors(ctx context.Context, filter LookupFilter) ([]*Author, error)
	FindAuthor(ctx context.Context, id string) (*Author, error)
	CreateAuthor(ctx context.Context, input AuthorInput) (*Author, error)
	UpdateAuthor(ctx context.Context, id string, input AuthorInput) (*Author, error)
	DeleteAuthor(ctx context.Context, id string) (bool, error)

	// SearchAuthors returns active authors whose name contains query, by name.
	SearchAuthors(ctx context.Context, query string, limit int) ([]*Author, error)
}

// JournalRepository stores journals.
type JournalRepository interface {
	ListJournals(ctx context.Context, filter LookupFilter) ([]*Journal, error)
	FindJournal(ctx context.Context, id string) (*Journal, error)
	CreateJournal(ctx context.Context, input JournalInput) (*Journal, error)
	UpdateJournal(ctx context.Context, id string, input JournalInput) (*Journal, error)
	DeleteJournal(ctx context.Context, id string) (bool, error)

	// SearchJournals returns active journals whose name contains query,
	// highest impact factor first.
	SearchJournals(ctx context.Context, query string, limit int) ([]*Journal, error)
}

// CategoryRepository stores research categories.
type CategoryRepository interface {
	ListCategories(ctx context.Context, status string) ([]*Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*Category, error)
	UpdateCategory(ctx context.Context, id string, input CategoryInput) (*Category, error)
	DeleteCategory(ctx context.Context, id string) (bool, error)
}

// PaperRepository stores papers and their join rows.
type PaperRepository interface {
	// ListPapers returns bare paper rows; relations are loaded separately.
	ListPapers(ctx context.Context, filter PaperFilter) ([]*Paper, error)
	FindPaper(ctx context.Context, id string) (*Paper, error)

	// LoadRelations attaches journal, authors and categories to papers
	// with one query per relation.
	LoadRelations(ctx context.Context, papers []*Paper) error

	InsertPaper(ctx context.Context, input PaperInput) (string, error)

	// UpdatePaper writes the patch's column fields. It does not touch joins.
	UpdatePaper(ctx context.Context, id string, patch PaperPatch) error
	DeletePaper(ctx context.Context, id string) (bool, error)

	// ReplaceAuthors deletes every author join row of the paper and inserts links.
	ReplaceAuthors(ctx context.Context, paperID string, links []AuthorLink) error

	// ReplaceCategories deletes every category join row of the paper and inserts ids.
	ReplaceCategories(ctx context.Context, paperID string, categoryIDs []string) error
}

// StatsRepository runs the aggregate counts behind [Stats].
type StatsRepository interface {
	// CountPapers counts papers with status, or all papers when status is empty.
	CountPapers(ctx context.Context, status string) (int, error)
	CountAuthors(ctx context.Context) (int, error)
	CountJournals(ctx context.Context) (int, error)
	SumCitations(ctx context.Context) (int, error)
	PublishedByYear(ctx context.Context) (map[int]int, error)
	PapersByCategory(ctx context.Context) (map[string]int, error)
}

// Repository is the full storage contract of the research service.
type Repository interface {
	AuthorRepository
	JournalRepository
	CategoryRepository
	PaperRepository
	StatsRepository

	// WithTx runs fn against a repository bound to one transaction.
	WithTx(ctx context.Context, fn func(Repository) error) error
}
