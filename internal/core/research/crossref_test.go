// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package research

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDOI(t *testing.T) {
	tests := map[string]string{
		"10.1145/3290605.3300857":                    "10.1145/3290605.3300857",
		"  https://doi.org/10.1145/3290605.3300857 ": "10.1145/3290605.3300857",
		"HTTP://DX.DOI.ORG/10.1000/abc":              "10.1000/abc",
		"doi:10.1000/abc":                            "10.1000/abc",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeDOI(in), in)
	}
}

/*
TestPublicationDate verifies the fallback order published, print, online
and the padding of missing parts.
*/
func TestPublicationDate(t *testing.T) {
	parts := func(p ...int) *crossRefDate { return &crossRefDate{DateParts: [][]int{p}} }

	tests := []struct {
		name string
		work crossRefWork
		want string
	}{
		{"full date", crossRefWork{Published: parts(2020, 11, 5)}, "2020-11-05"},
		{"year only", crossRefWork{Published: parts(2019)}, "2019-01-01"},
		{"print fallback", crossRefWork{Published: parts(), PublishedPrint: parts(2018, 6)}, "2018-06-01"},
		{"online fallback", crossRefWork{PublishedOnln: parts(2017, 2, 28)}, "2017-02-28"},
		{"zero year falls through", crossRefWork{Published: parts(0), PublishedOnln: parts(2016, 9)}, "2016-09-01"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.work.publicationDate()
			require.NotNil(t, got)
			assert.Equal(t, tc.want, *got)
		})
	}

	assert.Nil(t, crossRefWork{}.publicationDate())

	var unknown crossRefWork
	require.NoError(t, json.Unmarshal([]byte(`{
		"published": {"date-parts": [[null]]},
		"published-print": {"date-parts": [[2015, 4, 2]]}
	}`), &unknown))
	got := unknown.publicationDate()
	require.NotNil(t, got)
	assert.Equal(t, "2015-04-02", *got)

	var undated crossRefWork
	require.NoError(t, json.Unmarshal([]byte(`{"published": {"date-parts": [[null]]}}`), &undated))
	assert.Nil(t, undated.publicationDate())
}

func TestToInput_FallsBackToRequestedDOI(t *testing.T) {
	input := crossRefWork{Title: []string{"  Untitled  "}}.toInput("10.1000/req")

	assert.Equal(t, "Untitled", input.Title)
	assert.Equal(t, "10.1000/req", *input.DOI)
	assert.Nil(t, input.Abstract)
	assert.Nil(t, input.Volume)
}
