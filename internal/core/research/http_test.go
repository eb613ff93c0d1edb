// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package research

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/deptsite/internal/platform/ctxutil"
	"github.com/taibuivan/deptsite/internal/platform/sec"
)

// seedPapers stores an in-review paper and a published one.
func seedPapers(t *testing.T, service *Service) (string, string) {
	t.Helper()
	ctx := context.Background()

	pending, err := service.CreateResearchPaper(ctx, PaperInput{Title: "Unreviewed preprint", Status: PaperInReview})
	require.NoError(t, err)
	published, err := service.CreateResearchPaper(ctx, PaperInput{Title: "Sparse attention", Status: PaperPublished})
	require.NoError(t, err)

	return pending.ID, published.ID
}

func get(router http.Handler, target string, claims *sec.AuthClaims) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, target, nil)
	if claims != nil {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_ListPapers_Visibility verifies that anonymous callers only get
published papers, while editors see and filter every status.
*/
func TestHandler_ListPapers_Visibility(t *testing.T) {
	service := newTestService(newMemoryRepository(), nil, nil, false)
	seedPapers(t, service)
	router := NewHandler(service).Routes()

	editor := &sec.AuthClaims{UserID: "admin-1", Role: string(sec.RoleEditor)}

	tests := []struct {
		name   string
		target string
		claims *sec.AuthClaims
		want   []string
	}{
		{"anonymous without status", "/papers", nil, []string{"Sparse attention"}},
		{"anonymous asking for in-review", "/papers?status=in-review", nil, []string{"Sparse attention"}},
		{"editor without status", "/papers", editor, []string{"Unreviewed preprint", "Sparse attention"}},
		{"editor asking for in-review", "/papers?status=in-review", editor, []string{"Unreviewed preprint"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := get(router, tt.target, tt.claims)
			require.Equal(t, http.StatusOK, recorder.Code)

			var body struct {
				Data []Paper `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

			titles := []string{}
			for _, paper := range body.Data {
				titles = append(titles, paper.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

/*
TestHandler_GetPaper_Visibility verifies that unpublished papers read as
missing to the public.
*/
func TestHandler_GetPaper_Visibility(t *testing.T) {
	service := newTestService(newMemoryRepository(), nil, nil, false)
	pendingID, publishedID := seedPapers(t, service)
	router := NewHandler(service).Routes()

	tests := []struct {
		name   string
		id     string
		claims *sec.AuthClaims
		status int
	}{
		{"anonymous reads published", publishedID, nil, http.StatusOK},
		{"anonymous reads in-review", pendingID, nil, http.StatusNotFound},
		{"editor reads in-review", pendingID, &sec.AuthClaims{UserID: "admin-1", Role: string(sec.RoleEditor)}, http.StatusOK},
		{"unknown id", "paper-404", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := get(router, "/papers/"+tt.id, tt.claims)
			assert.Equal(t, tt.status, recorder.Code)
			if tt.status == http.StatusNotFound {
				assert.NotContains(t, recorder.Body.String(), "Unreviewed preprint")
			}
		})
	}
}
