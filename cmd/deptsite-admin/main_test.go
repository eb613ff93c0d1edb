// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/deptsite/internal/platform/apperr"
)

/*
TestOperatorPassword checks that the environment wins without touching stdin.
*/
func TestOperatorPassword(t *testing.T) {
	t.Setenv(passwordEnv, "from-the-environment")
	password, err := operatorPassword()
	require.NoError(t, err)
	assert.Equal(t, "from-the-environment", password)
}

func TestReadPasswordLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"first line only", "correct horse\r\nsecond line\n", "correct horse", false},
		{"no trailing newline", "piped-password", "piped-password", false},
		{"empty input", "", "", true},
		{"blank line", "\n", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			password, err := readPasswordLine(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, password)
		})
	}
}

func TestDescribe(t *testing.T) {
	plain := errors.New("connection refused")
	assert.Equal(t, "connection refused", describe(plain))

	validation := apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "email", Message: "is required"},
		apperr.FieldError{Field: "password", Message: "must be at least 12 characters"},
	)
	assert.Equal(t,
		"Validation failed (email: is required; password: must be at least 12 characters)",
		describe(validation),
	)
}

func TestRun_UnknownSubcommand(t *testing.T) {
	assert.Error(t, run(nil))
	assert.Error(t, run([]string{"drop-everything"}))
	assert.NoError(t, run([]string{"version"}))
}
