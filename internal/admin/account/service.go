// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/deptsite/internal/admin/activity"
	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/constants"
	"github.com/taibuivan/deptsite/internal/platform/ctxutil"
	"github.com/taibuivan/deptsite/internal/platform/sec"
	"github.com/taibuivan/deptsite/internal/platform/validate"
	"github.com/taibuivan/deptsite/pkg/pointer"
)

var errInvalidCredentials = apperr.Unauthorized("Invalid email or password")

// Service authenticates admins.
type Service struct {
	repo     Repository
	tokens   TokenProvider
	activity activity.Recorder
	now      func() time.Time
	logger   *slog.Logger
}

// NewService constructs an account [Service]. recorder may be nil.
func NewService(repo Repository, tokens TokenProvider, recorder activity.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, activity: recorder, now: time.Now, logger: logger}
}

// Login checks credentials and issues an access token.
//
// Unknown email, wrong password and disabled accounts all return the same
// unauthorized error.
func (service *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	v := &validate.Validator{}
	v.Required("email", input.Email).Required("password", input.Password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	// ── 1. Fetch Account ──────────────────────────────────────────────────

	user, err := service.repo.FindByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	// ── 2. Verify ─────────────────────────────────────────────────────────

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.logger.WarnContext(ctx, "admin_login_rejected", slog.String("user_id", user.ID))
		return nil, errInvalidCredentials
	}
	if !user.IsActive || !user.Role.Valid() {
		service.logger.WarnContext(ctx, "admin_login_disabled",
			slog.String("user_id", user.ID),
			slog.String("role", string(user.Role)),
		)
		return nil, errInvalidCredentials
	}

	// ── 3. Token Issuance ─────────────────────────────────────────────────

	now := service.now()
	token, err := service.tokens.GenerateAccessToken(user.ID, user.Email,
		pointer.Val(user.DisplayName), string(user.Role), constants.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("account: sign token: %w", err))
	}

	// ── 4. Bookkeeping ────────────────────────────────────────────────────

	if err := service.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		service.logger.WarnContext(ctx, "admin_last_login_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	} else {
		user.LastLoginAt = &now
	}

	// The audit row needs the new identity as its actor.
	actorCtx := ctxutil.WithAuthUser(ctx, &sec.AuthClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	activity.Record(actorCtx, service.activity, service.logger, activity.ActionUserLogin,
		activity.ResourceUser, user.ID, map[string]any{"email": user.Email})

	service.logger.InfoContext(ctx, "admin_logged_in",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return &Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(constants.AccessTokenTTL),
		User:        user,
	}, nil
}

// Me returns the account of the signed-in admin.
func (service *Service) Me(ctx context.Context) (*User, error) {
	id := ctxutil.ActorID(ctx)
	if id == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return service.repo.FindByID(ctx, *id)
}

// CreateAdmin adds a back-office account. The email is stored lower-cased.
func (service *Service) CreateAdmin(ctx context.Context, input CreateInput) (*User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := service.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict("An admin with this email already exists")
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user, err := service.repo.Create(ctx, &User{
		Email:        input.Email,
		PasswordHash: hash,
		DisplayName:  input.DisplayName,
		Role:         input.Role,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	activity.Record(ctx, service.activity, service.logger, activity.ActionUserCreated,
		activity.ResourceUser, user.ID, map[string]any{"email": user.Email, "role": string(user.Role)})

	service.logger.InfoContext(ctx, "admin_created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// ResetPassword replaces the password of the account registered under email.
func (service *Service) ResetPassword(ctx context.Context, email, password string) error {
	v := &validate.Validator{}
	v.Required("email", email)
	validatePassword(v, password)
	if err := v.Err(); err != nil {
		return err
	}

	user, err := service.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := service.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	activity.Record(ctx, service.activity, service.logger, activity.ActionUserUpdated,
		activity.ResourceUser, user.ID, map[string]any{"changes": []string{"password"}})

	service.logger.InfoContext(ctx, "admin_password_reset", slog.String("user_id", user.ID))
	return nil
}
