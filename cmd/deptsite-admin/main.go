// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command deptsite-admin performs operator tasks against the site database:
// bootstrapping admin accounts, moving the schema and purging the audit log.
//
// It reads DATABASE_URL, MIGRATION_PATH and ACTIVITY_RETENTION_DAYS from the
// environment, like the API server.
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/taibuivan/deptsite/internal/admin/account"
	"github.com/taibuivan/deptsite/internal/admin/activity"
	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/config"
	"github.com/taibuivan/deptsite/internal/platform/constants"
	"github.com/taibuivan/deptsite/internal/platform/migration"
	pgstore "github.com/taibuivan/deptsite/internal/platform/postgres"
	"github.com/taibuivan/deptsite/internal/platform/sec"
)

// passwordEnv lets scripted installs pass a password without a terminal.
const passwordEnv = "DEPTSITE_ADMIN_PASSWORD"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", describe(err))
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	switch args[0] {
	case "create-admin":
		return runCreateAdmin(ctx, args[1:], logger)
	case "reset-password":
		return runResetPassword(ctx, args[1:], logger)
	case "migrate":
		return runMigrate(args[1:], logger)
	case "purge-activity":
		return runPurgeActivity(ctx, args[1:], logger)
	case "version":
		fmt.Printf("deptsite-admin %s\n", constants.AppVersion)
		return nil
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", args[0])
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: deptsite-admin <subcommand> [flags]

Subcommands:
  create-admin     Create a back-office account
  reset-password   Replace the password of an account
  migrate          Apply, roll back or inspect schema migrations
  purge-activity   Delete audit log entries past the retention window
  version          Print version information

Passwords are read from $%s, a terminal prompt, or the first line of stdin.
Run 'deptsite-admin <subcommand> --help' for subcommand flags.
`, passwordEnv)
}

// # Accounts

func runCreateAdmin(ctx context.Context, args []string, logger *slog.Logger) error {
	var email, name, role string

	flagSet := pflag.NewFlagSet("create-admin", pflag.ContinueOnError)
	flagSet.StringVar(&email, "email", "", "login email (required)")
	flagSet.StringVar(&name, "name", "", "display name")
	flagSet.StringVar(&role, "role", string(sec.RoleEditor), "admin or editor")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	password, err := operatorPassword()
	if err != nil {
		return err
	}

	return withAccounts(ctx, logger, func(service *account.Service) error {
		input := account.CreateInput{Email: email, Password: password, Role: sec.UserRole(role)}
		if name != "" {
			input.DisplayName = &name
		}

		user, err := service.CreateAdmin(ctx, input)
		if err != nil {
			return err
		}
		fmt.Printf("created %s %s (%s)\n", user.Role, user.Email, user.ID)
		return nil
	})
}

func runResetPassword(ctx context.Context, args []string, logger *slog.Logger) error {
	var email string

	flagSet := pflag.NewFlagSet("reset-password", pflag.ContinueOnError)
	flagSet.StringVar(&email, "email", "", "login email (required)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	password, err := operatorPassword()
	if err != nil {
		return err
	}

	return withAccounts(ctx, logger, func(service *account.Service) error {
		if err := service.ResetPassword(ctx, email, password); err != nil {
			return err
		}
		fmt.Printf("password reset for %s\n", email)
		return nil
	})
}

func withAccounts(ctx context.Context, logger *slog.Logger, fn func(*account.Service) error) error {
	return withPool(ctx, logger, func(pool *pgxpool.Pool, _ *config.Database) error {
		recorder := activity.NewService(activity.NewPostgresRepository(pool), 0, logger)
		return fn(account.NewService(account.NewPostgresRepository(pool), nil, recorder, logger))
	})
}

// operatorPassword takes the password from the environment, an echo-free
// terminal prompt, or the first line of piped input, in that order.
func operatorPassword() (string, error) {
	if password := os.Getenv(passwordEnv); password != "" {
		return password, nil
	}

	stdinFd := int(os.Stdin.Fd())
	if term.IsTerminal(stdinFd) {
		return promptPassword(stdinFd)
	}
	return readPasswordLine(os.Stdin)
}

func promptPassword(fd int) (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password confirmation: %w", err)
	}

	if !bytes.Equal(first, second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}

func readPasswordLine(stdin io.Reader) (string, error) {
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("no password on stdin or in $%s", passwordEnv)
	}
	return password, nil
}

// # Schema

func runMigrate(args []string, logger *slog.Logger) error {
	var steps, version int

	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.IntVar(&steps, "steps", 1, "number of migrations to roll back (down)")
	flagSet.IntVar(&version, "version", -1, "version to record (force)")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deptsite-admin migrate <up|down|version|force> [flags]\n\n%s", flagSet.FlagUsages())
	}
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return fmt.Errorf("migrate needs exactly one action")
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	runner, err := migration.New(cfg.DatabaseURL, cfg.MigrationPath, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	switch action := flagSet.Arg(0); action {
	case "up":
		err = runner.Up()
	case "down":
		err = runner.Down(steps)
	case "force":
		if version < 0 {
			return fmt.Errorf("force needs --version")
		}
		err = runner.Force(version)
	case "version":
	default:
		return fmt.Errorf("unknown migrate action: %q", action)
	}
	if err != nil {
		return err
	}

	current, dirty, err := runner.Version()
	if err != nil {
		return err
	}
	fmt.Printf("schema version %d (dirty: %t)\n", current, dirty)
	return nil
}

// # Audit log

func runPurgeActivity(ctx context.Context, args []string, logger *slog.Logger) error {
	var days int

	flagSet := pflag.NewFlagSet("purge-activity", pflag.ContinueOnError)
	flagSet.IntVar(&days, "older-than-days", 0, "age cutoff in days (default $ACTIVITY_RETENTION_DAYS)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	return withPool(ctx, logger, func(pool *pgxpool.Pool, cfg *config.Database) error {
		service := activity.NewService(activity.NewPostgresRepository(pool), cfg.ActivityRetentionDays, logger)
		deleted, err := service.CleanupOldLogs(ctx, days)
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d activity entries\n", deleted)
		return nil
	})
}

// # Helpers

func withPool(ctx context.Context, logger *slog.Logger, fn func(*pgxpool.Pool, *config.Database) error) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(pool, cfg)
}

// describe flattens validation details into one line for the terminal.
func describe(err error) string {
	appErr := apperr.As(err)
	if appErr == nil || len(appErr.Details) == 0 {
		return err.Error()
	}

	parts := make([]string, 0, len(appErr.Details))
	for _, detail := range appErr.Details {
		parts = append(parts, detail.Field+": "+detail.Message)
	}
	return appErr.Message + " (" + strings.Join(parts, "; ") + ")"
}
