// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil carries request-scoped values through [context.Context]:
// the correlation ID, the per-request logger and the signed-in admin.
//
// The keys are unexported, so these accessors are the only way in or out.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/deptsite/internal/platform/sec"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	loggerKey
	authUserKey
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger retrieves the per-request logger, or [slog.Default] if none is set.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity

// WithAuthUser returns a new context carrying the signed-in admin's claims.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, authUserKey, user)
}

// GetAuthUser retrieves the [*sec.AuthClaims] from the context, or nil.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(authUserKey).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// ActorID returns the signed-in admin's ID, or nil for anonymous and system work.
func ActorID(ctx context.Context) *string {
	claims := GetAuthUser(ctx)
	if claims == nil || claims.UserID == "" {
		return nil
	}
	id := claims.UserID
	return &id
}

// HasRole reports whether the signed-in admin holds at least role.
// Anonymous requests never do.
func HasRole(ctx context.Context, role sec.UserRole) bool {
	claims := GetAuthUser(ctx)
	return claims != nil && sec.UserRole(claims.Role).AtLeast(role)
}
