// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/database/schema"
	"github.com/taibuivan/deptsite/internal/platform/dberr"
)

type postgresRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresRepository constructs a PostgreSQL backed settings store.
//
// Rows whose jsonb value is not a setting value are logged and left out of
// every read, so the defaults stand in for them until they are rewritten.
func NewPostgresRepository(pool *pgxpool.Pool, logger *slog.Logger) Repository {
	return &postgresRepository{pool: pool, logger: logger}
}

var (
	table         = schema.AdminSetting
	selectColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		table.ID, table.Key, table.Value, table.Description, table.Category,
		table.IsPublic, table.UpdatedAt, table.UpdatedBy)
)

// errUndecodable marks a stored value outside the setting union.
var errUndecodable = errors.New("undecodable setting")

type scanner interface {
	Scan(dest ...any) error
}

type rowSet interface {
	scanner
	Next() bool
	Err() error
}

func scanSetting(row scanner) (*Setting, error) {
	s := &Setting{}
	var raw []byte
	if err := row.Scan(&s.ID, &s.Key, &raw, &s.Description, &s.Category,
		&s.IsPublic, &s.UpdatedAt, &s.UpdatedBy); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.Value); err != nil {
		return nil, fmt.Errorf("%w %q: %w", errUndecodable, s.Key, err)
	}
	return s, nil
}

func (repository *postgresRepository) list(ctx context.Context, action, query string) ([]*Setting, error) {
	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	return repository.collect(ctx, rows, action)
}

func (repository *postgresRepository) collect(ctx context.Context, rows rowSet, action string) ([]*Setting, error) {
	settings := []*Setting{}
	for rows.Next() {
		s, err := scanSetting(rows)
		if errors.Is(err, errUndecodable) {
			repository.logger.WarnContext(ctx, "setting_skipped", slog.Any("error", err))
			continue
		}
		if err != nil {
			return nil, dberr.Wrap(err, "scan_setting")
		}
		settings = append(settings, s)
	}
	return settings, dberr.Wrap(rows.Err(), action)
}

func (repository *postgresRepository) List(ctx context.Context) ([]*Setting, error) {
	return repository.list(ctx, "list_settings",
		fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s, %s`, selectColumns, table.Table, table.Category, table.Key))
}

func (repository *postgresRepository) ListPublic(ctx context.Context) ([]*Setting, error) {
	return repository.list(ctx, "list_public_settings",
		fmt.Sprintf(`SELECT %s FROM %s WHERE %s = TRUE ORDER BY %s`, selectColumns, table.Table, table.IsPublic, table.Key))
}

func (repository *postgresRepository) Find(ctx context.Context, key string) (*Setting, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, table.Table, table.Key)

	s, err := scanSetting(repository.pool.QueryRow(ctx, query, key))
	if errors.Is(err, errUndecodable) {
		repository.logger.WarnContext(ctx, "setting_skipped", slog.Any("error", err))
		return nil, apperr.NotFound("Setting").WithCause(err)
	}
	if err != nil {
		return nil, dberr.NotFound(err, "Setting", "get_setting")
	}
	return s, nil
}

func (repository *postgresRepository) Upsert(ctx context.Context, entries []Entry, updatedBy *string) error {
	if len(entries) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2::jsonb, $3, $4, $5, $6::uuid, NOW())
		ON CONFLICT (%s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = NOW()
	`,
		table.Table,
		table.Key, table.Value, table.Category, table.IsPublic, table.Description, table.UpdatedBy, table.UpdatedAt,
		table.Key,
		table.Value, table.Value, table.UpdatedBy, table.UpdatedBy, table.UpdatedAt,
	)

	batch := &pgx.Batch{}
	for _, entry := range entries {
		payload, err := json.Marshal(entry.Value)
		if err != nil {
			return fmt.Errorf("settings: encode %q: %w", entry.Key, err)
		}
		batch.Queue(query, entry.Key, string(payload), entry.Category, entry.IsPublic, entry.Description, updatedBy)
	}

	results := repository.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return dberr.Wrap(err, "upsert_settings")
		}
	}
	return nil
}
