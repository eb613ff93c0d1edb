// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/dberr"
	"github.com/taibuivan/deptsite/pkg/uuid"
)

// # Scanning

// scanAuthor reads leading columns into prefix, then the author columns.
func scanAuthor(row scanner, prefix ...any) (*Author, error) {
	a := &Author{}
	dest := append(prefix,
		&a.ID, &a.Name, &a.Email, &a.Affiliation, &a.ORCID, &a.Bio, &a.Website,
		&a.Photo, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return a, nil
}

func scanJournal(row scanner) (*Journal, error) {
	j := &Journal{}
	if err := row.Scan(
		&j.ID, &j.Name, &j.Publisher, &j.ImpactFactor, &j.ISSN, &j.Website,
		&j.Description, &j.Status, &j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return j, nil
}

// scanCategory reads leading columns into prefix, then the category columns.
func scanCategory(row scanner, prefix ...any) (*Category, error) {
	c := &Category{}
	dest := append(prefix,
		&c.ID, &c.Name, &c.Description, &c.Color, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return c, nil
}

// lookupClause renders the WHERE of an author or journal listing.
func lookupClause(nameColumn, statusColumn string, filter LookupFilter) (string, []any) {
	var conditions []string
	var args []any

	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, likePattern(filter.Search))
		conditions = append(conditions, fmt.Sprintf("%s ILIKE $%d", nameColumn, len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", statusColumn, len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (repository *postgresRepository) deleteByID(ctx context.Context, table, idColumn, id, action string) (bool, error) {
	tag, err := repository.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, idColumn), id)
	if err != nil {
		return false, dberr.Wrap(err, action)
	}
	return tag.RowsAffected() > 0, nil
}

// # Authors

func (repository *postgresRepository) queryAuthors(ctx context.Context, action, query string, args ...any) ([]*Author, error) {
	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	authors := []*Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_author")
		}
		authors = append(authors, a)
	}
	return authors, dberr.Wrap(rows.Err(), action)
}

func (repository *postgresRepository) ListAuthors(ctx context.Context, filter LookupFilter) ([]*Author, error) {
	where, args := lookupClause(authorTable.Name, authorTable.Status, filter)
	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s ASC`,
		authorColumns, authorTable.Table, where, authorTable.Name)
	return repository.queryAuthors(ctx, "list_authors", query, args...)
}

func (repository *postgresRepository) SearchAuthors(ctx context.Context, query string, limit int) ([]*Author, error) {
	where, args := lookupClause(authorTable.Name, authorTable.Status, LookupFilter{Search: query, Status: StatusActive})
	args = append(args, limit)
	sql := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s ASC LIMIT $%d`,
		authorColumns, authorTable.Table, where, authorTable.Name, len(args))
	return repository.queryAuthors(ctx, "search_authors", sql, args...)
}

func (repository *postgresRepository) FindAuthor(ctx context.Context, id string) (*Author, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Author")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, authorColumns, authorTable.Table, authorTable.ID)

	a, err := scanAuthor(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.NotFound(err, "Author", "get_author")
	}
	return a, nil
}

func (repository *postgresRepository) CreateAuthor(ctx context.Context, in AuthorInput) (*Author, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s
	`,
		authorTable.Table,
		authorTable.Name, authorTable.Email, authorTable.Affiliation, authorTable.Orcid,
		authorTable.Bio, authorTable.Website, authorTable.Photo, authorTable.Status,
		authorColumns,
	)

	a, err := scanAuthor(repository.db.QueryRow(ctx, query,
		in.Name, in.Email, in.Affiliation, in.ORCID, in.Bio, in.Website, in.Photo, in.Status))
	if err != nil {
		return nil, dberr.Wrap(err, "create_author")
	}
	return a, nil
}

func (repository *postgresRepository) UpdateAuthor(ctx context.Context, id string, in AuthorInput) (*Author, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $9
		RETURNING %s
	`,
		authorTable.Table,
		authorTable.Name, authorTable.Email, authorTable.Affiliation, authorTable.Orcid,
		authorTable.Bio, authorTable.Website, authorTable.Photo, authorTable.Status, authorTable.UpdatedAt,
		authorTable.ID,
		authorColumns,
	)

	a, err := scanAuthor(repository.db.QueryRow(ctx, query,
		in.Name, in.Email, in.Affiliation, in.ORCID, in.Bio, in.Website, in.Photo, in.Status, id))
	if err != nil {
		return nil, dberr.NotFound(err, "Author", "update_author")
	}
	return a, nil
}

func (repository *postgresRepository) DeleteAuthor(ctx context.Context, id string) (bool, error) {
	return repository.deleteByID(ctx, authorTable.Table, authorTable.ID, id, "delete_author")
}

// # Journals

func (repository *postgresRepository) queryJournals(ctx context.Context, action, query string, args ...any) ([]*Journal, error) {
	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	journals := []*Journal{}
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_journal")
		}
		journals = append(journals, j)
	}
	return journals, dberr.Wrap(rows.Err(), action)
}

func (repository *postgresRepository) ListJournals(ctx context.Context, filter LookupFilter) ([]*Journal, error) {
	where, args := lookupClause(journalTable.Name, journalTable.Status, filter)
	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s ASC`,
		journalColumns, journalTable.Table, where, journalTable.Name)
	return repository.queryJournals(ctx, "list_journals", query, args...)
}

func (repository *postgresRepository) SearchJournals(ctx context.Context, query string, limit int) ([]*Journal, error) {
	where, args := lookupClause(journalTable.Name, journalTable.Status, LookupFilter{Search: query, Status: StatusActive})
	args = append(args, limit)
	sql := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s DESC NULLS LAST, %s ASC LIMIT $%d`,
		journalColumns, journalTable.Table, where, journalTable.ImpactFactor, journalTable.Name, len(args))
	return repository.queryJournals(ctx, "search_journals", sql, args...)
}

func (repository *postgresRepository) FindJournal(ctx context.Context, id string) (*Journal, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Journal")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, journalColumns, journalTable.Table, journalTable.ID)

	j, err := scanJournal(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.NotFound(err, "Journal", "get_journal")
	}
	return j, nil
}

func (repository *postgresRepository) CreateJournal(ctx context.Context, in JournalInput) (*Journal, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`,
		journalTable.Table,
		journalTable.Name, journalTable.Publisher, journalTable.ImpactFactor, journalTable.ISSN,
		journalTable.Website, journalTable.Description, journalTable.Status,
		journalColumns,
	)

	j, err := scanJournal(repository.db.QueryRow(ctx, query,
		in.Name, in.Publisher, in.ImpactFactor, in.ISSN, in.Website, in.Description, in.Status))
	if err != nil {
		return nil, dberr.Wrap(err, "create_journal")
	}
	return j, nil
}

func (repository *postgresRepository) UpdateJournal(ctx context.Context, id string, in JournalInput) (*Journal, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $8
		RETURNING %s
	`,
		journalTable.Table,
		journalTable.Name, journalTable.Publisher, journalTable.ImpactFactor, journalTable.ISSN,
		journalTable.Website, journalTable.Description, journalTable.Status, journalTable.UpdatedAt,
		journalTable.ID,
		journalColumns,
	)

	j, err := scanJournal(repository.db.QueryRow(ctx, query,
		in.Name, in.Publisher, in.ImpactFactor, in.ISSN, in.Website, in.Description, in.Status, id))
	if err != nil {
		return nil, dberr.NotFound(err, "Journal", "update_journal")
	}
	return j, nil
}

func (repository *postgresRepository) DeleteJournal(ctx context.Context, id string) (bool, error) {
	return repository.deleteByID(ctx, journalTable.Table, journalTable.ID, id, "delete_journal")
}

// # Research categories

func (repository *postgresRepository) ListCategories(ctx context.Context, status string) ([]*Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, categoryTable.Columns(), categoryTable.Table)
	var args []any
	if status != "" {
		query += fmt.Sprintf(` WHERE %s = $1`, categoryTable.Status)
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY %s ASC`, categoryTable.Name)

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_research_categories")
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_research_category")
		}
		categories = append(categories, c)
	}
	return categories, dberr.Wrap(rows.Err(), "list_research_categories")
}

func (repository *postgresRepository) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)
		RETURNING %s
	`,
		categoryTable.Table,
		categoryTable.Name, categoryTable.Description, categoryTable.Color, categoryTable.Status,
		categoryTable.Columns(),
	)

	c, err := scanCategory(repository.db.QueryRow(ctx, query, in.Name, in.Description, in.Color, in.Status))
	if err != nil {
		return nil, dberr.Wrap(err, "create_research_category")
	}
	return c, nil
}

func (repository *postgresRepository) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*Category, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $5
		RETURNING %s
	`,
		categoryTable.Table,
		categoryTable.Name, categoryTable.Description, categoryTable.Color, categoryTable.Status,
		categoryTable.UpdatedAt,
		categoryTable.ID,
		categoryTable.Columns(),
	)

	c, err := scanCategory(repository.db.QueryRow(ctx, query, in.Name, in.Description, in.Color, in.Status, id))
	if err != nil {
		return nil, dberr.NotFound(err, "Research category", "update_research_category")
	}
	return c, nil
}

func (repository *postgresRepository) DeleteCategory(ctx context.Context, id string) (bool, error) {
	return repository.deleteByID(ctx, categoryTable.Table, categoryTable.ID, id, "delete_research_category")
}
