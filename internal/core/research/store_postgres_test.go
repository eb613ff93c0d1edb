// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/deptsite/pkg/patch"
)

func TestPaperFilterClause(t *testing.T) {
	featured := true

	tests := []struct {
		name   string
		filter PaperFilter
		clause string
		args   []any
	}{
		{
			name:   "empty filter only orders",
			filter: PaperFilter{},
			clause: " ORDER BY publication_date DESC NULLS LAST, created_at DESC",
		},
		{
			name: "every predicate",
			filter: PaperFilter{
				Status:     PaperPublished,
				IsFeatured: &featured,
				JournalID:  "journal-1",
				YearFrom:   2020,
				YearTo:     2022,
				Search:     " graph ",
				Limit:      10,
				Offset:     20,
			},
			clause: " WHERE status = $1 AND is_featured = $2 AND journal_id = $3" +
				" AND publication_date >= make_date($4, 1, 1)" +
				" AND publication_date < make_date($5 + 1, 1, 1)" +
				" AND (title ILIKE $6 OR abstract ILIKE $6)" +
				" ORDER BY publication_date DESC NULLS LAST, created_at DESC LIMIT $7 OFFSET $8",
			args: []any{PaperPublished, true, "journal-1", 2020, 2022, "%graph%", 10, 20},
		},
		{
			name:   "blank search is ignored",
			filter: PaperFilter{Search: "   ", YearTo: 2019},
			clause: " WHERE publication_date < make_date($1 + 1, 1, 1)" +
				" ORDER BY publication_date DESC NULLS LAST, created_at DESC",
			args: []any{2019},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clause, args := paperFilterClause(tc.filter)
			assert.Equal(t, tc.clause, clause)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\%\_off\\%`, likePattern(` 50%_off\ `))
	assert.Equal(t, "%turing%", likePattern("turing"))
}

func TestLookupClause(t *testing.T) {
	clause, args := lookupClause("name", "status", LookupFilter{Search: "ada", Status: StatusActive})
	assert.Equal(t, " WHERE name ILIKE $1 AND status = $2", clause)
	assert.Equal(t, []any{"%ada%", StatusActive}, args)

	clause, args = lookupClause("name", "status", LookupFilter{})
	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestPaperAssignments(t *testing.T) {
	title := "Revised"
	assignments, args := paperAssignments(PaperPatch{
		Title:           &title,
		DOI:             patch.Clear[string](),
		PublicationDate: patch.Of("2024-01-15"),
	})

	assert.Equal(t, "updated_at = NOW(), title = $1, doi = $2, publication_date = $3::text::date", assignments)
	require.Len(t, args, 3)
	assert.Equal(t, "Revised", args[0])
	assert.Nil(t, args[1])
	assert.Equal(t, "2024-01-15", *args[2].(*string))
}

func TestPaperPatch_HasColumns(t *testing.T) {
	assert.False(t, PaperPatch{}.HasColumns())
	assert.False(t, PaperPatch{Authors: []AuthorLink{}, CategoryIDs: []string{"c"}}.HasColumns())
	assert.True(t, PaperPatch{Volume: patch.Clear[string]()}.HasColumns())
}
