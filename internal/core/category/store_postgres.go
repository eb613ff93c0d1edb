// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/database/schema"
	"github.com/taibuivan/deptsite/internal/platform/dberr"
	"github.com/taibuivan/deptsite/pkg/uuid"
)

// # PostgreSQL Repository

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed category store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

var selectColumns = schema.CoreCategory.Columns()

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner, extra ...any) (*Category, error) {
	c := &Category{}
	dest := []any{
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ColorClass, &c.IconEmoji,
		&c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt, &c.CreatedBy,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return c, nil
}

func (repository *postgresRepository) List(ctx context.Context, activeOnly bool) ([]*Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, selectColumns, schema.CoreCategory.Table)
	if activeOnly {
		query += fmt.Sprintf(` WHERE %s = TRUE`, schema.CoreCategory.IsActive)
	}
	query += fmt.Sprintf(` ORDER BY %s ASC, %s ASC`, schema.CoreCategory.SortOrder, schema.CoreCategory.Name)

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}
	return categories, dberr.Wrap(rows.Err(), "list_categories")
}

func (repository *postgresRepository) FindByID(ctx context.Context, id string) (*Category, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Category")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.CoreCategory.Table, schema.CoreCategory.ID)

	c, err := scanCategory(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.NotFound(err, "Category", "get_category")
	}
	return c, nil
}

func (repository *postgresRepository) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.CoreCategory.Table, schema.CoreCategory.Slug)

	c, err := scanCategory(repository.pool.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, dberr.NotFound(err, "Category", "get_category_by_slug")
	}
	return c, nil
}

func (repository *postgresRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*Category, error) {
	found := make(map[string]*Category, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1::uuid[])`,
		selectColumns, schema.CoreCategory.Table, schema.CoreCategory.ID)

	rows, err := repository.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "find_categories_by_ids")
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		found[c.ID] = c
	}
	return found, dberr.Wrap(rows.Err(), "find_categories_by_ids")
}

func (repository *postgresRepository) Create(ctx context.Context, input Input, createdBy *string) (*Category, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s
	`,
		schema.CoreCategory.Table,
		schema.CoreCategory.Name, schema.CoreCategory.Slug, schema.CoreCategory.Description,
		schema.CoreCategory.ColorClass, schema.CoreCategory.IconEmoji, schema.CoreCategory.IsActive,
		schema.CoreCategory.SortOrder, schema.CoreCategory.CreatedBy,
		selectColumns,
	)

	isActive := input.IsActive == nil || *input.IsActive
	c, err := scanCategory(repository.pool.QueryRow(ctx, query,
		input.Name, input.Slug, input.Description, input.ColorClass, input.IconEmoji,
		isActive, input.SortOrder, createdBy,
	))
	if err != nil {
		return nil, dberr.Wrap(err, "create_category")
	}
	return c, nil
}

// updateAssignments renders the SET list of a sparse category update.
// Only supplied fields appear; updated_at is always bumped.
func updateAssignments(p Patch) (string, []any) {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s = NOW()", schema.CoreCategory.UpdatedAt))

	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		builder.WriteString(fmt.Sprintf(", %s = $%d", column, len(args)))
	}

	if p.Name != nil {
		add(schema.CoreCategory.Name, *p.Name)
	}
	if p.Slug != nil {
		add(schema.CoreCategory.Slug, *p.Slug)
	}
	if p.Description.Set {
		add(schema.CoreCategory.Description, p.Description.Ptr())
	}
	if p.ColorClass != nil {
		add(schema.CoreCategory.ColorClass, *p.ColorClass)
	}
	if p.IconEmoji != nil {
		add(schema.CoreCategory.IconEmoji, *p.IconEmoji)
	}
	if p.IsActive != nil {
		add(schema.CoreCategory.IsActive, *p.IsActive)
	}
	if p.SortOrder != nil {
		add(schema.CoreCategory.SortOrder, *p.SortOrder)
	}

	return builder.String(), args
}

func (repository *postgresRepository) Update(ctx context.Context, id string, p Patch) (*Category, error) {
	assignments, args := updateAssignments(p)
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d RETURNING %s`,
		schema.CoreCategory.Table, assignments, schema.CoreCategory.ID, len(args), selectColumns)

	c, err := scanCategory(repository.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, dberr.NotFound(err, "Category", "update_category")
	}
	return c, nil
}

func (repository *postgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreCategory.Table, schema.CoreCategory.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return false, dberr.Wrap(err, "delete_category")
	}
	return tag.RowsAffected() > 0, nil
}

func (repository *postgresRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1`,
		schema.CoreCategory.Table, schema.CoreCategory.Slug)
	args := []any{slug}

	if excludeID != "" {
		query += fmt.Sprintf(` AND %s <> $2::uuid`, schema.CoreCategory.ID)
		args = append(args, excludeID)
	}
	query += `)`

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_category_slug")
	}
	return exists, nil
}

func (repository *postgresRepository) ListWithEventCounts(ctx context.Context) ([]*WithCount, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			(SELECT COUNT(*) FROM %s e WHERE e.%s = c.%s) AS event_count
		FROM %s c
		WHERE c.%s = TRUE
		ORDER BY c.%s ASC, c.%s ASC
	`,
		schema.CoreCategory.Prefixed("c"),
		schema.CoreEvent.Table, schema.CoreEvent.CategoryID, schema.CoreCategory.ID,
		schema.CoreCategory.Table,
		schema.CoreCategory.IsActive,
		schema.CoreCategory.SortOrder, schema.CoreCategory.Name,
	)

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories_with_counts")
	}
	defer rows.Close()

	result := []*WithCount{}
	for rows.Next() {
		var count int
		c, err := scanCategory(rows, &count)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category_count")
		}
		result = append(result, &WithCount{Category: *c, EventCount: count})
	}
	return result, dberr.Wrap(rows.Err(), "list_categories_with_counts")
}

// Reorder assigns sort_order = position in ids (zero based) in one statement.
func (repository *postgresRepository) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s AS c
		SET %s = o.position - 1, %s = NOW()
		FROM unnest($1::uuid[]) WITH ORDINALITY AS o(id, position)
		WHERE c.%s = o.id
	`,
		schema.CoreCategory.Table,
		schema.CoreCategory.SortOrder, schema.CoreCategory.UpdatedAt,
		schema.CoreCategory.ID,
	)

	_, err := repository.pool.Exec(ctx, query, ids)
	return dberr.Wrap(err, "reorder_categories")
}
