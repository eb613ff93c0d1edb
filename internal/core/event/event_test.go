// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func fullRow() Row {
	offset := time.FixedZone("ICT", 7*60*60)
	end := time.Date(2025, 11, 20, 17, 0, 0, 0, offset)
	deadline := time.Date(2025, 11, 18, 23, 59, 0, 0, offset)
	required := false
	featured := true
	capacity := 120
	speaker := "Dr. Lan"

	return Row{
		ID:                     "evt-1",
		Title:                  "AI Workshop",
		Description:            "<p>Hands-on</p>",
		ShortDescription:       "Hands-on ML",
		Date:                   time.Date(2025, 11, 20, 9, 0, 0, 0, offset),
		EndDate:                &end,
		Location:               "Room B201",
		Type:                   strPtr("workshop"),
		CategoryID:             strPtr("cat-1"),
		Image:                  strPtr("/uploads/ai.png"),
		PosterImage:            strPtr("/uploads/ai-poster.png"),
		PdfBrochure:            strPtr("/uploads/ai.pdf"),
		RegistrationRequired:   &required,
		RegistrationLink:       strPtr("https://forms.example.edu/ai"),
		CustomRegistrationLink: strPtr("https://cs.example.edu/register/ai"),
		RegistrationDeadline:   &deadline,
		Featured:               &featured,
		Capacity:               &capacity,
		Speakers:               []string{"Dr. Lan", "Prof. Minh"},
		Schedule:               []ScheduleItem{{Time: "09:00", Title: "Intro", Speaker: &speaker, Description: "Welcome"}},
		Tags:                   []string{"ai", "ml"},
		Status:                 "published",
		CreatedBy:              strPtr("admin-1"),
		CreatedAt:              time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt:              time.Date(2025, 10, 2, 8, 0, 0, 0, time.UTC),
	}
}

/*
TestToRow_RoundTrip checks that a fully populated row survives the model.
*/
func TestToRow_RoundTrip(t *testing.T) {
	row := fullRow()
	got := ToRow(ToModel(row))

	assert.Equal(t, row, got)
	_, offset := got.Date.Zone()
	assert.Equal(t, 7*60*60, offset)
}

func TestToModel_Defaults(t *testing.T) {
	e := ToModel(Row{ID: "evt-2", Title: "Open Day", Status: "draft"})

	assert.True(t, e.RegistrationRequired)
	assert.False(t, e.Featured)
	assert.Zero(t, e.RegisteredCount)
	assert.Nil(t, e.EndDate)
	assert.Nil(t, e.Type)
	assert.Nil(t, e.CategoryID)
	assert.Nil(t, e.Capacity)
	assert.Nil(t, e.Speakers)
	assert.Nil(t, e.Category)
}

func TestEvent_JSONShape(t *testing.T) {
	raw, err := json.Marshal(ToModel(fullRow()))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Contains(t, decoded, "category_id")
	assert.Contains(t, decoded, "shortDescription")
	assert.Contains(t, decoded, "registrationRequired")
	assert.Contains(t, decoded, "registeredCount")
	assert.NotContains(t, decoded, "short_description")
}

func TestInput_Row(t *testing.T) {
	in := Input{Title: "Seminar", Date: time.Now()}
	row := in.Row(strPtr("admin-1"))

	require.NotNil(t, row.RegistrationRequired)
	assert.True(t, *row.RegistrationRequired)
	require.NotNil(t, row.Featured)
	assert.False(t, *row.Featured)
	assert.Equal(t, "draft", row.Status)
	assert.Equal(t, "admin-1", *row.CreatedBy)
}

func TestInput_Validate(t *testing.T) {
	now := time.Now()
	before := now.Add(-time.Hour)
	badType := Type("party")

	tests := []struct {
		name    string
		input   Input
		wantErr bool
	}{
		{name: "valid", input: Input{Title: "Talk", Date: now}},
		{name: "missing title", input: Input{Date: now}, wantErr: true},
		{name: "missing date", input: Input{Title: "Talk"}, wantErr: true},
		{name: "end before start", input: Input{Title: "Talk", Date: now, EndDate: &before}, wantErr: true},
		{name: "unknown status", input: Input{Title: "Talk", Date: now, Status: "archived"}, wantErr: true},
		{name: "unknown type", input: Input{Title: "Talk", Date: now, Type: &badType}, wantErr: true},
		{name: "relative registration link", input: Input{Title: "Talk", Date: now, RegistrationLink: strPtr("/register")}, wantErr: true},
		{name: "relative image path", input: Input{Title: "Talk", Date: now, Image: strPtr("/uploads/a.png")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestUpdateAssignments covers the three field groups of a sparse update.
*/
func TestUpdateAssignments(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		body     string
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "empty strings in truthy group are skipped",
			body:     `{"title": "", "location": "", "status": ""}`,
			wantSQL:  "updated_at = $1",
			wantArgs: []any{now},
		},
		{
			name:     "null end date cannot clear",
			body:     `{"endDate": null}`,
			wantSQL:  "updated_at = $1",
			wantArgs: []any{now},
		},
		{
			name:     "false boolean is applied",
			body:     `{"featured": false}`,
			wantSQL:  "updated_at = $1, featured = $2",
			wantArgs: []any{now, false},
		},
		{
			name:     "null clears capacity and category",
			body:     `{"category_id": null, "capacity": null}`,
			wantSQL:  "updated_at = $1, category_id = $2, capacity = $3",
			wantArgs: []any{now, (*string)(nil), (*int)(nil)},
		},
		{
			name:     "title and status",
			body:     `{"title": "New", "status": "cancelled"}`,
			wantSQL:  "updated_at = $1, title = $2, status = $3",
			wantArgs: []any{now, "New", "cancelled"},
		},
		{
			name:     "null schedule",
			body:     `{"schedule": null}`,
			wantSQL:  "updated_at = $1, schedule = $2",
			wantArgs: []any{now, nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Patch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))

			sql, args := updateAssignments(p, now)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestUpdateAssignments_ClearsTags(t *testing.T) {
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"tags": []}`), &p))

	sql, args := updateAssignments(p, time.Now())
	assert.Equal(t, "updated_at = $1, tags = $2", sql)
	require.Len(t, args, 2)
	tags, ok := args[1].(*[]string)
	require.True(t, ok)
	assert.Empty(t, *tags)
}

func TestCriteriaClause(t *testing.T) {
	featured := true
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	clause, args := criteriaClause(Criteria{
		Status:   "published",
		Featured: &featured,
		DateFrom: &from,
		Limit:    5,
	})

	assert.Equal(t, " WHERE status = $1 AND featured = $2 AND date >= $3 ORDER BY date ASC LIMIT $4", clause)
	assert.Equal(t, []any{"published", true, from, 5}, args)

	clause, args = criteriaClause(Criteria{})
	assert.Equal(t, " ORDER BY date ASC", clause)
	assert.Empty(t, args)
}

func TestDiffTracked(t *testing.T) {
	before := fullRow()
	after := fullRow()
	after.Title = "AI Workshop II"
	after.Location = "Hall A"
	after.Description = "changed but untracked"

	changes, previous := diffTracked(before, after)
	assert.Equal(t, []string{"title", "location"}, changes)
	assert.Equal(t, "AI Workshop", previous["title"])
	assert.Equal(t, "Room B201", previous["location"])
}
