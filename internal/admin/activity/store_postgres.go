// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/database/schema"
	"github.com/taibuivan/deptsite/internal/platform/dberr"
	"github.com/taibuivan/deptsite/pkg/uuid"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed audit log store.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

var (
	logTable  = schema.AdminActivityLog
	userTable = schema.AdminUser
)

// selectWithActor is the shared projection of entries joined with admin_users.
var selectWithActor = fmt.Sprintf(`
	SELECT l.%s, l.%s, l.%s, l.%s, l.%s, l.%s, l.%s,
		u.%s, u.%s, u.%s
	FROM %s l
	LEFT JOIN %s u ON u.%s = l.%s
`,
	logTable.ID, logTable.UserID, logTable.Action, logTable.ResourceType,
	logTable.ResourceID, logTable.Details, logTable.CreatedAt,
	userTable.Email, userTable.DisplayName, userTable.AvatarURL,
	logTable.Table,
	userTable.Table, userTable.ID, logTable.UserID,
)

type scanner interface {
	Scan(dest ...any) error
}

func scanLog(row scanner) (*Log, error) {
	entry := &Log{}
	actor := &Actor{}
	if err := row.Scan(
		&entry.ID, &entry.UserID, &entry.Action, &entry.ResourceType,
		&entry.ResourceID, &entry.Details, &entry.CreatedAt,
		&actor.Email, &actor.DisplayName, &actor.AvatarURL,
	); err != nil {
		return nil, err
	}
	if entry.UserID != nil {
		entry.User = actor
	}
	if entry.Details == nil {
		entry.Details = map[string]any{}
	}
	return entry, nil
}

func (repository *postgresRepository) Insert(ctx context.Context, userID *string, action string, resourceType, resourceID *string, details map[string]any) (string, error) {
	if details == nil {
		details = map[string]any{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return "", fmt.Errorf("activity: encode details: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s($1, $2, $3, $4::jsonb, $5::uuid)`, logTable.RecordFunction)

	var id string
	err = repository.pool.QueryRow(ctx, query, action, resourceType, resourceID, string(payload), userID).Scan(&id)
	return id, dberr.Wrap(err, "record_admin_activity")
}

func (repository *postgresRepository) FindByID(ctx context.Context, id string) (*Log, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Activity log")
	}

	query := selectWithActor + fmt.Sprintf(` WHERE l.%s = $1`, logTable.ID)

	entry, err := scanLog(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.NotFound(err, "Activity log", "get_activity_log")
	}
	return entry, nil
}

// filterClause renders the WHERE clause shared by List and Count.
func filterClause(filter Filter) (string, []any) {
	var conditions []string
	var args []any

	if filter.Action != "" {
		args = append(args, filter.Action)
		conditions = append(conditions, fmt.Sprintf("l.%s = $%d", logTable.Action, len(args)))
	}
	if filter.ResourceType != "" {
		args = append(args, filter.ResourceType)
		conditions = append(conditions, fmt.Sprintf("l.%s = $%d", logTable.ResourceType, len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (repository *postgresRepository) List(ctx context.Context, filter Filter) ([]*Log, error) {
	where, args := filterClause(filter)

	var builder strings.Builder
	builder.WriteString(selectWithActor)
	builder.WriteString(where)
	builder.WriteString(fmt.Sprintf(" ORDER BY l.%s DESC", logTable.CreatedAt))

	args = append(args, filter.Limit)
	builder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	args = append(args, filter.Offset)
	builder.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	rows, err := repository.pool.Query(ctx, builder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_activity_logs")
	}
	defer rows.Close()

	entries := []*Log{}
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_activity_log")
		}
		entries = append(entries, entry)
	}
	return entries, dberr.Wrap(rows.Err(), "list_activity_logs")
}

func (repository *postgresRepository) count(ctx context.Context, action, where string, args ...any) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s l%s`, logTable.Table, where)

	var n int
	err := repository.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, dberr.Wrap(err, action)
}

func (repository *postgresRepository) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := filterClause(filter)
	return repository.count(ctx, "count_activity_logs", where, args...)
}

func (repository *postgresRepository) CountByResourceType(ctx context.Context, resourceType string) (int, error) {
	return repository.count(ctx, "count_activity_by_resource",
		fmt.Sprintf(" WHERE l.%s = $1", logTable.ResourceType), resourceType)
}

func (repository *postgresRepository) CountByActions(ctx context.Context, actions []string) (int, error) {
	return repository.count(ctx, "count_activity_by_actions",
		fmt.Sprintf(" WHERE l.%s = ANY($1)", logTable.Action), actions)
}

func (repository *postgresRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	return repository.count(ctx, "count_activity_since",
		fmt.Sprintf(" WHERE l.%s >= $1", logTable.CreatedAt), since)
}

func (repository *postgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s < $1`, logTable.Table, logTable.CreatedAt)

	tag, err := repository.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, dberr.Wrap(err, "cleanup_activity_logs")
	}
	return tag.RowsAffected(), nil
}
