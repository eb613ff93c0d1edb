// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/deptsite/internal/admin/activity"
	"github.com/taibuivan/deptsite/internal/platform/apperr"
	"github.com/taibuivan/deptsite/internal/platform/constants"
	"github.com/taibuivan/deptsite/internal/platform/ctxutil"
	"github.com/taibuivan/deptsite/internal/platform/sec"
)

type memoryRepository struct {
	users    map[string]*User
	touched  map[string]time.Time
	touchErr error
}

func (m *memoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Admin user")
}

func (m *memoryRepository) FindByID(_ context.Context, id string) (*User, error) {
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperr.NotFound("Admin user")
}

func (m *memoryRepository) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	if m.touchErr != nil {
		return m.touchErr
	}
	m.touched[id] = at
	return nil
}

func (m *memoryRepository) Create(_ context.Context, u *User) (*User, error) {
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, apperr.Conflict("email taken")
		}
	}
	created := *u
	created.ID = fmt.Sprintf("admin-%d", len(m.users)+1)
	m.users[created.ID] = &created
	return &created, nil
}

func (m *memoryRepository) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return apperr.NotFound("Admin user")
	}
	u.PasswordHash = hash
	return nil
}

type recorderSpy struct {
	actors  []string
	actions []string
}

func (r *recorderSpy) LogActivity(ctx context.Context, action string, _, _ *string, _ map[string]any) (*activity.Log, error) {
	r.actions = append(r.actions, action)
	if id := ctxutil.ActorID(ctx); id != nil {
		r.actors = append(r.actors, *id)
	}
	return &activity.Log{Action: action}, nil
}

type fixture struct {
	repo     *memoryRepository
	tokens   *sec.TokenService
	recorder *recorderSpy
	service  *Service
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKeys(key, &key.PublicKey, constants.AuthIssuer)

	hash, err := sec.HashPassword("correct horse battery")
	require.NoError(t, err)

	name := "Dr. Nguyen"
	repo := &memoryRepository{
		users: map[string]*User{
			"admin-1": {ID: "admin-1", Email: "chair@cs.example.edu", PasswordHash: hash,
				DisplayName: &name, Role: sec.RoleAdmin, IsActive: true},
			"editor-1": {ID: "editor-1", Email: "web@cs.example.edu", PasswordHash: hash,
				Role: sec.RoleEditor, IsActive: false},
		},
		touched: map[string]time.Time{},
	}

	recorder := &recorderSpy{}
	service := NewService(repo, tokens, recorder, slog.New(slog.NewTextHandler(io.Discard, nil)))
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	return &fixture{repo: repo, tokens: tokens, recorder: recorder, service: service, now: now}
}

/*
TestLogin_IssuesVerifiableToken verifies a successful login end to end: the
token verifies, the last login is stamped and the audit row names the admin.
*/
func TestLogin_IssuesVerifiableToken(t *testing.T) {
	f := newFixture(t)

	session, err := f.service.Login(context.Background(), LoginInput{
		Email:    "  CHAIR@cs.example.edu ",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", session.TokenType)
	assert.Equal(t, f.now.Add(constants.AccessTokenTTL), session.ExpiresAt)
	require.NotNil(t, session.User.LastLoginAt)
	assert.Equal(t, f.now, *session.User.LastLoginAt)

	claims, err := f.tokens.VerifyToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.UserID)
	assert.Equal(t, string(sec.RoleAdmin), claims.Role)
	assert.Equal(t, "Dr. Nguyen", claims.DisplayName)

	assert.Equal(t, f.now, f.repo.touched["admin-1"])
	assert.Equal(t, []string{activity.ActionUserLogin}, f.recorder.actions)
	assert.Equal(t, []string{"admin-1"}, f.recorder.actors)
}

func TestLogin_Rejections(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input LoginInput
		code  string
	}{
		{"missing password", LoginInput{Email: "chair@cs.example.edu"}, apperr.CodeValidation},
		{"unknown email", LoginInput{Email: "nobody@cs.example.edu", Password: "x"}, apperr.CodeUnauthorized},
		{"wrong password", LoginInput{Email: "chair@cs.example.edu", Password: "Tr0ub4dor&3"}, apperr.CodeUnauthorized},
		{"disabled account", LoginInput{Email: "web@cs.example.edu", Password: "correct horse battery"}, apperr.CodeUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Login(context.Background(), tc.input)
			assert.True(t, apperr.HasCode(err, tc.code), "got %v", err)
		})
	}
	assert.Empty(t, f.recorder.actions)
}

func TestLogin_LastLoginFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.repo.touchErr = errors.New("update admin_users: timeout")

	session, err := f.service.Login(context.Background(), LoginInput{
		Email:    "chair@cs.example.edu",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Nil(t, session.User.LastLoginAt)
}

func TestMe(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Me(context.Background())
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	ctx := ctxutil.WithAuthUser(context.Background(), &sec.AuthClaims{UserID: "admin-1", Role: string(sec.RoleAdmin)})
	user, err := f.service.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "chair@cs.example.edu", user.Email)
}

/*
TestCreateAdmin covers account bootstrap: the new admin can sign in right away,
and bad input or a taken email is refused.
*/
func TestCreateAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.service.CreateAdmin(ctx, CreateInput{
		Email:    "  Dean@CS.example.edu ",
		Password: "a long enough passphrase",
	})
	require.NoError(t, err)
	assert.Equal(t, "dean@cs.example.edu", user.Email)
	assert.Equal(t, sec.RoleEditor, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "a long enough passphrase", user.PasswordHash)

	_, err = f.service.Login(ctx, LoginInput{Email: "dean@cs.example.edu", Password: "a long enough passphrase"})
	require.NoError(t, err)
	assert.Equal(t, []string{activity.ActionUserCreated, activity.ActionUserLogin}, f.recorder.actions)

	tests := []struct {
		name  string
		input CreateInput
		code  string
	}{
		{"taken email", CreateInput{Email: "chair@cs.example.edu", Password: "a long enough passphrase"}, apperr.CodeConflict},
		{"short password", CreateInput{Email: "new@cs.example.edu", Password: "short"}, apperr.CodeValidation},
		{"oversized password", CreateInput{Email: "new@cs.example.edu", Password: strings.Repeat("p", 73)}, apperr.CodeValidation},
		{"bad email", CreateInput{Email: "not-an-email", Password: "a long enough passphrase"}, apperr.CodeValidation},
		{"unknown role", CreateInput{Email: "new@cs.example.edu", Password: "a long enough passphrase", Role: "owner"}, apperr.CodeValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.CreateAdmin(ctx, tc.input)
			assert.True(t, apperr.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.ResetPassword(ctx, "chair@cs.example.edu", "a brand new passphrase"))

	_, err := f.service.Login(ctx, LoginInput{Email: "chair@cs.example.edu", Password: "correct horse battery"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = f.service.Login(ctx, LoginInput{Email: "chair@cs.example.edu", Password: "a brand new passphrase"})
	require.NoError(t, err)

	assert.True(t, apperr.IsNotFound(f.service.ResetPassword(ctx, "ghost@cs.example.edu", "a brand new passphrase")))
	assert.True(t, apperr.HasCode(f.service.ResetPassword(ctx, "chair@cs.example.edu", "tiny"), apperr.CodeValidation))
}
