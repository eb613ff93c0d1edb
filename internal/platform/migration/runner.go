// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package migration applies the SQL files under data/migrations with
golang-migrate.

The API server only ever moves forward ([RunUp] at startup). The
deptsite-admin command drives a [Runner] directly to roll back, inspect or
force the recorded version after a failed deploy.
*/
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Runner wraps one golang-migrate instance. Close it when done.
type Runner struct {
	migrator *migrate.Migrate
	logger   *slog.Logger
}

// New opens the migrations directory at path against the database at dsn.
func New(dsn, path string, logger *slog.Logger) (*Runner, error) {
	migrator, err := migrate.New("file://"+path, ToPgx5DSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}
	migrator.Log = &migrateLogger{logger: logger}
	return &Runner{migrator: migrator, logger: logger}, nil
}

// RunUp applies all pending migrations and closes the runner.
func RunUp(dsn, path string, logger *slog.Logger) error {
	runner, err := New(dsn, path, logger)
	if err != nil {
		return err
	}
	defer runner.Close()
	return runner.Up()
}

// Version returns the applied version. A fresh database reports 0.
func (runner *Runner) Version() (version uint, dirty bool, err error) {
	version, dirty, err = runner.migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration: failed to get current version: %w", err)
	}
	return version, dirty, nil
}

// Up applies all pending migrations.
//
// A database left dirty by a failed migration is reported as an error;
// it needs [Runner.Force] before anything else can run.
func (runner *Runner) Up() error {
	from, err := runner.checkClean()
	if err != nil {
		return err
	}

	runner.logger.Info("migration_started", slog.Uint64("current_version", uint64(from)))

	if err := runner.migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			runner.logger.Info("migration_already_up_to_date")
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	runner.logApplied("migration_successful", from)
	return nil
}

// Down rolls back the given number of migrations.
func (runner *Runner) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("migration: steps must be positive, got %d", steps)
	}

	from, err := runner.checkClean()
	if err != nil {
		return err
	}

	if err := runner.migrator.Steps(-steps); err != nil {
		return fmt.Errorf("migration: down %d failed: %w", steps, err)
	}

	runner.logApplied("migration_rolled_back", from)
	return nil
}

// Force records version as applied and clears the dirty flag without
// running any SQL.
func (runner *Runner) Force(version int) error {
	if err := runner.migrator.Force(version); err != nil {
		return fmt.Errorf("migration: force %d failed: %w", version, err)
	}
	runner.logger.Warn("migration_forced", slog.Int("version", version))
	return nil
}

// Close releases the source and database handles.
func (runner *Runner) Close() {
	sourceError, dbError := runner.migrator.Close()
	if sourceError != nil {
		runner.logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
	}
	if dbError != nil {
		runner.logger.Error("migration_db_close_failed", slog.Any("error", dbError))
	}
}

func (runner *Runner) checkClean() (uint, error) {
	version, dirty, err := runner.Version()
	if err != nil {
		return 0, err
	}
	if dirty {
		return 0, fmt.Errorf("migration: database is dirty at version %d", version)
	}
	return version, nil
}

func (runner *Runner) logApplied(message string, from uint) {
	to, _, _ := runner.Version()
	runner.logger.Info(message,
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
}

// ToPgx5DSN rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme
// golang-migrate expects. Other DSNs are returned unchanged.
func ToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
