// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"
	"fmt"
	"strings"
	"time"

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

// NewPostgresRepository constructs a PostgreSQL backed event store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

var (
	table         = schema.CoreEvent
	selectColumns = table.Columns()
)

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(row scanner) (*Row, error) {
	r := &Row{}
	if err := row.Scan(
		&r.ID, &r.Title, &r.Description, &r.ShortDescription, &r.Date, &r.EndDate,
		&r.Location, &r.Type, &r.CategoryID, &r.Image, &r.PosterImage, &r.PdfBrochure,
		&r.RegistrationRequired, &r.RegistrationLink, &r.CustomRegistrationLink,
		&r.RegistrationDeadline, &r.Featured, &r.Capacity, &r.Speakers, &r.Schedule,
		&r.Tags, &r.Status, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return r, nil
}

// scheduleArg keeps a nil programme as SQL NULL rather than a JSON null.
func scheduleArg(items []ScheduleItem) any {
	if items == nil {
		return nil
	}
	return items
}

// criteriaClause renders the WHERE and LIMIT clauses of a listing.
func criteriaClause(criteria Criteria) (string, []any) {
	var conditions []string
	var args []any

	add := func(format string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	if criteria.Status != "" {
		add(table.Status+" = $%d", criteria.Status)
	}
	if criteria.Type != "" {
		add(table.Type+" = $%d", criteria.Type)
	}
	if criteria.CategoryID != "" {
		add(table.CategoryID+" = $%d", criteria.CategoryID)
	}
	if criteria.Featured != nil {
		add(table.Featured+" = $%d", *criteria.Featured)
	}
	if criteria.DateFrom != nil {
		add(table.Date+" >= $%d", *criteria.DateFrom)
	}

	var builder strings.Builder
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(fmt.Sprintf(" ORDER BY %s ASC", table.Date))

	if criteria.Limit > 0 {
		args = append(args, criteria.Limit)
		builder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	return builder.String(), args
}

func (repository *postgresRepository) List(ctx context.Context, criteria Criteria) ([]*Row, error) {
	clause, args := criteriaClause(criteria)
	query := fmt.Sprintf(`SELECT %s FROM %s`, selectColumns, table.Table) + clause

	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_events")
	}
	defer rows.Close()

	result := []*Row{}
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_event")
		}
		result = append(result, r)
	}
	return result, dberr.Wrap(rows.Err(), "list_events")
}

func (repository *postgresRepository) FindByID(ctx context.Context, id string) (*Row, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Event")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, table.Table, table.ID)

	r, err := scanRow(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.NotFound(err, "Event", "get_event")
	}
	return r, nil
}

func (repository *postgresRepository) Create(ctx context.Context, row Row) (*Row, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING %s
	`,
		table.Table,
		table.Title, table.Description, table.ShortDescription, table.Date, table.EndDate,
		table.Location, table.Type, table.CategoryID, table.Image, table.PosterImage, table.PdfBrochure,
		table.RegistrationRequired, table.RegistrationLink, table.CustomRegistrationLink,
		table.RegistrationDeadline, table.Featured, table.Capacity, table.Speakers, table.Schedule,
		table.Tags, table.Status, table.CreatedBy,
		selectColumns,
	)

	r, err := scanRow(repository.pool.QueryRow(ctx, query,
		row.Title, row.Description, row.ShortDescription, row.Date, row.EndDate,
		row.Location, row.Type, row.CategoryID, row.Image, row.PosterImage, row.PdfBrochure,
		row.RegistrationRequired, row.RegistrationLink, row.CustomRegistrationLink,
		row.RegistrationDeadline, row.Featured, row.Capacity, row.Speakers, scheduleArg(row.Schedule),
		row.Tags, row.Status, row.CreatedBy,
	))
	if err != nil {
		return nil, dberr.Wrap(err, "create_event")
	}
	return r, nil
}

// updateAssignments renders the SET list of a sparse event update.
func updateAssignments(p Patch, now time.Time) (string, []any) {
	args := []any{now}
	assignments := []string{fmt.Sprintf("%s = $1", table.UpdatedAt)}

	add := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	// Truthy group.
	if p.Title != nil && *p.Title != "" {
		add(table.Title, *p.Title)
	}
	if p.Description != nil && *p.Description != "" {
		add(table.Description, *p.Description)
	}
	if p.ShortDescription != nil && *p.ShortDescription != "" {
		add(table.ShortDescription, *p.ShortDescription)
	}
	if p.Date != nil && !p.Date.IsZero() {
		add(table.Date, *p.Date)
	}
	if p.EndDate != nil && !p.EndDate.IsZero() {
		add(table.EndDate, *p.EndDate)
	}
	if p.Location != nil && *p.Location != "" {
		add(table.Location, *p.Location)
	}
	if p.Type != nil && *p.Type != "" {
		add(table.Type, string(*p.Type))
	}
	if p.RegistrationDeadline != nil && !p.RegistrationDeadline.IsZero() {
		add(table.RegistrationDeadline, *p.RegistrationDeadline)
	}
	if p.Status != nil && *p.Status != "" {
		add(table.Status, string(*p.Status))
	}

	// Booleans.
	if p.RegistrationRequired != nil {
		add(table.RegistrationRequired, *p.RegistrationRequired)
	}
	if p.Featured != nil {
		add(table.Featured, *p.Featured)
	}

	// Clearable group.
	if p.CategoryID.Set {
		add(table.CategoryID, p.CategoryID.Ptr())
	}
	if p.Image.Set {
		add(table.Image, p.Image.Ptr())
	}
	if p.PosterImage.Set {
		add(table.PosterImage, p.PosterImage.Ptr())
	}
	if p.PdfBrochure.Set {
		add(table.PdfBrochure, p.PdfBrochure.Ptr())
	}
	if p.RegistrationLink.Set {
		add(table.RegistrationLink, p.RegistrationLink.Ptr())
	}
	if p.CustomRegistrationLink.Set {
		add(table.CustomRegistrationLink, p.CustomRegistrationLink.Ptr())
	}
	if p.Capacity.Set {
		add(table.Capacity, p.Capacity.Ptr())
	}
	if p.Speakers.Set {
		add(table.Speakers, p.Speakers.Ptr())
	}
	if p.Schedule.Set {
		if p.Schedule.Null {
			add(table.Schedule, nil)
		} else {
			add(table.Schedule, p.Schedule.Value)
		}
	}
	if p.Tags.Set {
		add(table.Tags, p.Tags.Ptr())
	}

	return strings.Join(assignments, ", "), args
}

func (repository *postgresRepository) Update(ctx context.Context, id string, p Patch, now time.Time) (*Row, error) {
	assignments, args := updateAssignments(p, now)
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d RETURNING %s`,
		table.Table, assignments, table.ID, len(args), selectColumns)

	r, err := scanRow(repository.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, dberr.NotFound(err, "Event", "update_event")
	}
	return r, nil
}

func (repository *postgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return false, dberr.Wrap(err, "delete_event")
	}
	return tag.RowsAffected() > 0, nil
}
