// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/deptsite/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		limit  int
		offset int
	}{
		{"defaults", "", pagination.DefaultLimit, 0},
		{"explicit_offset", "?limit=10&offset=25", 10, 25},
		{"third_page", "?page=3&limit=10", 10, 20},
		{"offset_beats_page", "?page=3&limit=10&offset=5", 10, 5},
		{"negative_page", "?page=-2&limit=10", 10, 0},
		{"negative_offset_uses_page", "?offset=-1&page=2&limit=10", 10, 10},
		{"limit_too_large", "?limit=5000", pagination.DefaultLimit, 0},
		{"garbage", "?offset=x&limit=y", pagination.DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := pagination.FromRequest(httptest.NewRequest("GET", "/activity"+tt.query, nil))
			assert.Equal(t, tt.limit, window.Limit)
			assert.Equal(t, tt.offset, window.Offset)
		})
	}
}

func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(pagination.Window{Limit: 10, Offset: 30}, 41)
	assert.Equal(t, 41, meta.Total)
	assert.True(t, meta.HasMore)

	last := pagination.NewMeta(pagination.Window{Limit: 10, Offset: 40}, 41)
	assert.False(t, last.HasMore)
}
