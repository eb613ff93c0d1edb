// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestUpdateAssignments covers the sparse SET builder.
*/
func TestUpdateAssignments(t *testing.T) {
	name := "Labs"
	order := 3

	tests := []struct {
		name     string
		body     string
		patch    Patch
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "name and sort order",
			patch:    Patch{Name: &name, SortOrder: &order},
			wantSQL:  "updated_at = NOW(), name = $1, sort_order = $2",
			wantArgs: []any{"Labs", 3},
		},
		{
			name:     "description null clears",
			body:     `{"description": null}`,
			wantSQL:  "updated_at = NOW(), description = $1",
			wantArgs: []any{(*string)(nil)},
		},
		{
			name:    "omitted description untouched",
			body:    `{}`,
			wantSQL: "updated_at = NOW()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.patch
			if tt.body != "" {
				require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			}

			sql, args := updateAssignments(p)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestInput_NormalizeAndValidate(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		wantSlug string
		wantErr  bool
	}{
		{name: "derives slug", input: Input{Name: "Café Talks"}, wantSlug: "cafe-talks"},
		{name: "keeps explicit slug", input: Input{Name: "Talks", Slug: "guest-talks"}, wantSlug: "guest-talks"},
		{name: "missing name", input: Input{}, wantErr: true},
		{name: "negative order", input: Input{Name: "Talks", SortOrder: -1}, wantSlug: "talks", wantErr: true},
		{name: "bad slug", input: Input{Name: "Talks", Slug: "Not A Slug"}, wantSlug: "Not A Slug", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			in.Normalize()
			require.NotNil(t, in.IsActive)
			assert.True(t, *in.IsActive)
			assert.Equal(t, tt.wantSlug, in.Slug)

			err := in.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPatch_Empty(t *testing.T) {
	var p Patch
	assert.True(t, p.Empty())

	require.NoError(t, json.Unmarshal([]byte(`{"description": null}`), &p))
	assert.False(t, p.Empty())
}
