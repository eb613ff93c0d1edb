// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/deptsite/internal/platform/sec"
)

/*
TestTokenService_RoundTrip signs a token and verifies it with the same key pair.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	service := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "deptsite.test")

	token, err := service.GenerateAccessToken("admin-1", "chair@cs.example.edu", "Dept Chair", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.UserID)
	assert.Equal(t, "chair@cs.example.edu", claims.Email)
	assert.Equal(t, "admin", claims.Role)

	t.Run("expired", func(t *testing.T) {
		expired, err := service.GenerateAccessToken("admin-1", "a@b.c", "", "admin", -time.Minute)
		require.NoError(t, err)

		_, err = service.VerifyToken(expired)
		assert.Error(t, err)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		other := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "someone.else")
		foreign, err := other.GenerateAccessToken("admin-1", "a@b.c", "", "admin", time.Hour)
		require.NoError(t, err)

		_, err = service.VerifyToken(foreign)
		assert.Error(t, err)
	})
}

func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
}

func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleEditor))
	assert.True(t, sec.RoleEditor.AtLeast(sec.RoleEditor))
	assert.False(t, sec.RoleEditor.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("viewer").Valid())
}
