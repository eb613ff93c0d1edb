// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthy(context.Context) error { return nil }

/*
TestReadiness reports 200 while every dependency answers and 503 with the
failing check named once one does not.
*/
func TestReadiness(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name   string
		deps   HealthDependencies
		status int
		state  string
	}{
		{"all healthy", HealthDependencies{CheckDatabase: healthy, CheckCache: healthy}, http.StatusOK, "ready"},
		{"redis down", HealthDependencies{
			CheckDatabase: healthy,
			CheckCache:    func(context.Context) error { return errors.New("redis: ping failed") },
		}, http.StatusServiceUnavailable, "degraded"},
		{"no checks", HealthDependencies{}, http.StatusOK, "ready"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, readiness := NewHealthHandlers(tc.deps, logger)

			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tc.status, recorder.Code)

			var body struct {
				Data struct {
					Status string        `json:"status"`
					Checks []checkResult `json:"checks"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tc.state, body.Data.Status)

			for _, check := range body.Data.Checks {
				if check.Name == "redis" && tc.status != http.StatusOK {
					assert.False(t, check.IsOK)
					assert.Equal(t, "redis: ping failed", check.Error)
				}
			}
		})
	}
}

func TestLiveness(t *testing.T) {
	liveness, _ := NewHealthHandlers(HealthDependencies{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"ok"`)
}
