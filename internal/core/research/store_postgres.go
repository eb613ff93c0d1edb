// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/database/schema"
	"github.com/taibuivan/deptsite/internal/platform/dberr"
	"github.com/taibuivan/deptsite/internal/platform/postgres"
	"github.com/taibuivan/deptsite/pkg/slice"
	"github.com/taibuivan/deptsite/pkg/uuid"
)

// # PostgreSQL Repository

// postgresRepository runs against the pool, or against one transaction
// when created by WithTx.
type postgresRepository struct {
	pool *pgxpool.Pool
	db   postgres.Querier
}

// NewPostgresRepository constructs a PostgreSQL backed research store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool, db: pool}
}

func (repository *postgresRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	return postgres.InTx(ctx, repository.pool, func(tx pgx.Tx) error {
		return fn(&postgresRepository{pool: repository.pool, db: tx})
	})
}

var (
	paperTable     = schema.ResearchPaper
	paperAuthors   = schema.ResearchPaperAuthor
	paperTopics    = schema.ResearchPaperCategory
	paperColumns   = paperTable.Columns()
	authorTable    = schema.ResearchAuthor
	journalTable   = schema.ResearchJournal
	categoryTable  = schema.ResearchCategory
	authorColumns  = authorTable.Columns()
	journalColumns = journalTable.Columns()
)

type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(row scanner) (*Paper, error) {
	p := &Paper{Authors: []PaperAuthor{}, Categories: []PaperCategory{}}
	if err := row.Scan(
		&p.ID, &p.Title, &p.Abstract, &p.DOI, &p.PublicationDate, &p.ExternalURL,
		&p.CitationCount, &p.Status, &p.JournalID, &p.Volume, &p.Issue, &p.Pages,
		&p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return p, nil
}

// likePattern escapes ILIKE wildcards in user input and wraps it in %.
func likePattern(query string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(query)) + "%"
}

// paperFilterClause renders the WHERE, ORDER BY and paging of a paper listing.
func paperFilterClause(filter PaperFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(format string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	if filter.Status != "" {
		add(paperTable.Status+" = $%d", filter.Status)
	}
	if filter.IsFeatured != nil {
		add(paperTable.IsFeatured+" = $%d", *filter.IsFeatured)
	}
	if filter.JournalID != "" {
		add(paperTable.JournalID+" = $%d", filter.JournalID)
	}
	if filter.YearFrom > 0 {
		add(paperTable.PublicationDate+" >= make_date($%d, 1, 1)", filter.YearFrom)
	}
	if filter.YearTo > 0 {
		add(paperTable.PublicationDate+" < make_date($%d + 1, 1, 1)", filter.YearTo)
	}
	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, likePattern(filter.Search))
		conditions = append(conditions, fmt.Sprintf("(%s ILIKE $%d OR %s ILIKE $%d)",
			paperTable.Title, len(args), paperTable.Abstract, len(args)))
	}

	var builder strings.Builder
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(fmt.Sprintf(" ORDER BY %s DESC NULLS LAST, %s DESC",
		paperTable.PublicationDate, paperTable.CreatedAt))

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		builder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		builder.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	return builder.String(), args
}

func (repository *postgresRepository) ListPapers(ctx context.Context, filter PaperFilter) ([]*Paper, error) {
	clause, args := paperFilterClause(filter)
	query := fmt.Sprintf(`SELECT %s FROM %s`, paperColumns, paperTable.Table) + clause

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_research_papers")
	}
	defer rows.Close()

	papers := []*Paper{}
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_research_paper")
		}
		papers = append(papers, p)
	}
	return papers, dberr.Wrap(rows.Err(), "list_research_papers")
}

func (repository *postgresRepository) FindPaper(ctx context.Context, id string) (*Paper, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Research paper")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, paperColumns, paperTable.Table, paperTable.ID)

	p, err := scanPaper(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.NotFound(err, "Research paper", "get_research_paper")
	}
	return p, nil
}

// # Relations

func (repository *postgresRepository) LoadRelations(ctx context.Context, papers []*Paper) error {
	if len(papers) == 0 {
		return nil
	}

	byID := make(map[string]*Paper, len(papers))
	paperIDs := make([]string, 0, len(papers))
	var journalIDs []string
	for _, p := range papers {
		byID[p.ID] = p
		paperIDs = append(paperIDs, p.ID)
		if p.JournalID != nil {
			journalIDs = append(journalIDs, *p.JournalID)
		}
	}

	if err := repository.loadJournals(ctx, papers, journalIDs); err != nil {
		return err
	}
	if err := repository.loadAuthors(ctx, byID, paperIDs); err != nil {
		return err
	}
	return repository.loadCategories(ctx, byID, paperIDs)
}

func (repository *postgresRepository) loadJournals(ctx context.Context, papers []*Paper, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1::uuid[])`,
		journalColumns, journalTable.Table, journalTable.ID)

	rows, err := repository.db.Query(ctx, query, ids)
	if err != nil {
		return dberr.Wrap(err, "load_paper_journals")
	}
	defer rows.Close()

	journals := map[string]*Journal{}
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return dberr.Wrap(err, "scan_journal")
		}
		journals[j.ID] = j
	}
	if err := rows.Err(); err != nil {
		return dberr.Wrap(err, "load_paper_journals")
	}

	for _, p := range papers {
		if p.JournalID != nil {
			p.Journal = journals[*p.JournalID]
		}
	}
	return nil
}

func (repository *postgresRepository) loadAuthors(ctx context.Context, papers map[string]*Paper, ids []string) error {
	query := fmt.Sprintf(`
		SELECT j.%s, j.%s, j.%s, j.%s, %s
		FROM %s j
		JOIN %s a ON a.%s = j.%s
		WHERE j.%s = ANY($1::uuid[])
		ORDER BY j.%s, j.%s ASC
	`,
		paperAuthors.PaperID, paperAuthors.AuthorID, paperAuthors.AuthorOrder, paperAuthors.IsCorresponding,
		authorTable.Prefixed("a"),
		paperAuthors.Table,
		authorTable.Table, authorTable.ID, paperAuthors.AuthorID,
		paperAuthors.PaperID,
		paperAuthors.PaperID, paperAuthors.AuthorOrder,
	)

	rows, err := repository.db.Query(ctx, query, ids)
	if err != nil {
		return dberr.Wrap(err, "load_paper_authors")
	}
	defer rows.Close()

	for rows.Next() {
		var paperID string
		var link PaperAuthor
		author, err := scanAuthor(rows, &paperID, &link.AuthorID, &link.AuthorOrder, &link.IsCorresponding)
		if err != nil {
			return dberr.Wrap(err, "scan_paper_author")
		}
		link.Author = author
		if p, ok := papers[paperID]; ok {
			p.Authors = append(p.Authors, link)
		}
	}
	return dberr.Wrap(rows.Err(), "load_paper_authors")
}

func (repository *postgresRepository) loadCategories(ctx context.Context, papers map[string]*Paper, ids []string) error {
	query := fmt.Sprintf(`
		SELECT j.%s, j.%s, %s
		FROM %s j
		JOIN %s c ON c.%s = j.%s
		WHERE j.%s = ANY($1::uuid[])
		ORDER BY c.%s ASC
	`,
		paperTopics.PaperID, paperTopics.CategoryID, categoryTable.Prefixed("c"),
		paperTopics.Table,
		categoryTable.Table, categoryTable.ID, paperTopics.CategoryID,
		paperTopics.PaperID,
		categoryTable.Name,
	)

	rows, err := repository.db.Query(ctx, query, ids)
	if err != nil {
		return dberr.Wrap(err, "load_paper_categories")
	}
	defer rows.Close()

	for rows.Next() {
		var paperID string
		var link PaperCategory
		c, err := scanCategory(rows, &paperID, &link.CategoryID)
		if err != nil {
			return dberr.Wrap(err, "scan_paper_category")
		}
		link.Category = c
		if p, ok := papers[paperID]; ok {
			p.Categories = append(p.Categories, link)
		}
	}
	return dberr.Wrap(rows.Err(), "load_paper_categories")
}

// # Writes

func (repository *postgresRepository) InsertPaper(ctx context.Context, in PaperInput) (string, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4::text::date, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s
	`,
		paperTable.Table,
		paperTable.Title, paperTable.Abstract, paperTable.DOI, paperTable.PublicationDate,
		paperTable.ExternalURL, paperTable.CitationCount, paperTable.Status, paperTable.JournalID,
		paperTable.Volume, paperTable.Issue, paperTable.Pages, paperTable.IsFeatured,
		paperTable.ID,
	)

	var id string
	err := repository.db.QueryRow(ctx, query,
		in.Title, in.Abstract, in.DOI, in.PublicationDate, in.ExternalURL, in.CitationCount,
		in.Status, in.JournalID, in.Volume, in.Issue, in.Pages, in.IsFeatured,
	).Scan(&id)
	if err != nil {
		return "", dberr.Wrap(err, "create_research_paper")
	}
	return id, nil
}

// paperAssignments renders the SET list of a paper update.
func paperAssignments(p PaperPatch) (string, []any) {
	assignments := []string{paperTable.UpdatedAt + " = NOW()"}
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.Title != nil {
		add(paperTable.Title, *p.Title)
	}
	if p.Abstract.Set {
		add(paperTable.Abstract, p.Abstract.Ptr())
	}
	if p.DOI.Set {
		add(paperTable.DOI, p.DOI.Ptr())
	}
	if p.PublicationDate.Set {
		args = append(args, p.PublicationDate.Ptr())
		assignments = append(assignments, fmt.Sprintf("%s = $%d::text::date", paperTable.PublicationDate, len(args)))
	}
	if p.ExternalURL.Set {
		add(paperTable.ExternalURL, p.ExternalURL.Ptr())
	}
	if p.CitationCount != nil {
		add(paperTable.CitationCount, *p.CitationCount)
	}
	if p.Status != nil {
		add(paperTable.Status, *p.Status)
	}
	if p.JournalID.Set {
		add(paperTable.JournalID, p.JournalID.Ptr())
	}
	if p.Volume.Set {
		add(paperTable.Volume, p.Volume.Ptr())
	}
	if p.Issue.Set {
		add(paperTable.Issue, p.Issue.Ptr())
	}
	if p.Pages.Set {
		add(paperTable.Pages, p.Pages.Ptr())
	}
	if p.IsFeatured != nil {
		add(paperTable.IsFeatured, *p.IsFeatured)
	}

	return strings.Join(assignments, ", "), args
}

func (repository *postgresRepository) UpdatePaper(ctx context.Context, id string, p PaperPatch) error {
	assignments, args := paperAssignments(p)
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d`,
		paperTable.Table, assignments, paperTable.ID, len(args))

	tag, err := repository.db.Exec(ctx, query, args...)
	if err != nil {
		return dberr.Wrap(err, "update_research_paper")
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFound(pgx.ErrNoRows, "Research paper", "update_research_paper")
	}
	return nil
}

// DeletePaper relies on ON DELETE CASCADE to drop the join rows.
func (repository *postgresRepository) DeletePaper(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, paperTable.Table, paperTable.ID)

	tag, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return false, dberr.Wrap(err, "delete_research_paper")
	}
	return tag.RowsAffected() > 0, nil
}

// replaceJunction clears a paper's join rows and queues the new ones in a
// single batch. Outside a transaction the batch still runs as one implicit
// transaction.
func (repository *postgresRepository) replaceJunction(ctx context.Context, table, paperColumn, paperID, insert string, rows [][]any) error {
	batch := &pgx.Batch{}
	batch.Queue(fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, paperColumn), paperID)
	for _, values := range rows {
		batch.Queue(insert, values...)
	}

	if err := repository.db.SendBatch(ctx, batch).Close(); err != nil {
		return dberr.Wrap(err, "replace_"+table)
	}
	return nil
}

func (repository *postgresRepository) ReplaceAuthors(ctx context.Context, paperID string, links []AuthorLink) error {
	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		paperAuthors.Table, paperAuthors.PaperID, paperAuthors.AuthorID,
		paperAuthors.AuthorOrder, paperAuthors.IsCorresponding)

	rows := slice.Map(links, func(link AuthorLink) []any {
		return []any{paperID, link.AuthorID, link.AuthorOrder, link.IsCorresponding}
	})
	return repository.replaceJunction(ctx, paperAuthors.Table, paperAuthors.PaperID, paperID, insert, rows)
}

func (repository *postgresRepository) ReplaceCategories(ctx context.Context, paperID string, categoryIDs []string) error {
	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		paperTopics.Table, paperTopics.PaperID, paperTopics.CategoryID)

	rows := slice.Map(categoryIDs, func(id string) []any {
		return []any{paperID, id}
	})
	return repository.replaceJunction(ctx, paperTopics.Table, paperTopics.PaperID, paperID, insert, rows)
}
