// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/deptsite/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a classified [apperr.AppError].
//
// The action tag (e.g. "create_event") is kept on the cause so that logs read
// "create_event: ERROR: duplicate key value ...".
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack.
	if apperr.As(err) != nil {
		return err
	}

	cause := fmt.Errorf("%s: %w", action, err)

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound.WithCause(cause)
	}

	// 2. Constraint violations carry a SQLSTATE
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict("A record with the same unique value already exists").WithCause(cause)
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError("Referenced record does not exist").WithCause(cause)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.InvalidTextRepresentation:
			return apperr.ValidationError("Value rejected by the database").WithCause(cause)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(cause)
}

// NotFound wraps [pgx.ErrNoRows] into a not-found error for the named resource.
// Other errors are passed to [Wrap].
func NotFound(err error, resource, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource).WithCause(fmt.Errorf("%s: %w", action, err))
	}
	return Wrap(err, action)
}
