// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination reads limit/offset windows from list requests and
// describes the returned window in the response meta block.
//
// Clients may send either "offset" or a 1-indexed "page"; an explicit offset
// wins when both are present.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Window is a slice of an ordered result set.
type Window struct {
	Limit  int
	Offset int
}

// Meta describes the window a list response covers.
type Meta struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// NewMeta reports window against the filtered total row count.
func NewMeta(window Window, total int) Meta {
	return Meta{
		Limit:   window.Limit,
		Offset:  window.Offset,
		Total:   total,
		HasMore: window.Offset+window.Limit < total,
	}
}

// FromRequest parses the window. Malformed, negative or oversized values
// fall back to the defaults rather than failing the request.
func FromRequest(r *http.Request) Window {
	query := r.URL.Query()

	limit := atoiOr(query.Get("limit"), DefaultLimit)
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	offset := atoiOr(query.Get("offset"), -1)
	if offset < 0 {
		page := atoiOr(query.Get("page"), 1)
		offset = (max(page, 1) - 1) * limit
	}

	return Window{Limit: limit, Offset: offset}
}

func atoiOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
