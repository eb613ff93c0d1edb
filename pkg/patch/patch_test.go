// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package patch_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/deptsite/pkg/patch"
)

type payload struct {
	Capacity patch.Field[int]      `json:"capacity"`
	Tags     patch.Field[[]string] `json:"tags"`
}

/*
TestField_TriState distinguishes omitted, null and value keys.
*/
func TestField_TriState(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		set     bool
		null    bool
		wantPtr *int
	}{
		{"omitted", `{}`, false, false, nil},
		{"null", `{"capacity": null}`, true, true, nil},
		{"zero_value", `{"capacity": 0}`, true, false, intPtr(0)},
		{"value", `{"capacity": 120}`, true, false, intPtr(120)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))

			assert.Equal(t, tt.set, p.Capacity.Set)
			assert.Equal(t, tt.null, p.Capacity.Null)
			if tt.set {
				assert.Equal(t, tt.wantPtr, p.Capacity.Ptr())
			}
		})
	}
}

func TestField_EmptyListIsAValue(t *testing.T) {
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"tags": []}`), &p))

	assert.True(t, p.Tags.Set)
	assert.False(t, p.Tags.Null)
	assert.NotNil(t, p.Tags.Value)
	assert.Empty(t, p.Tags.Value)
}

func TestField_RejectsWrongType(t *testing.T) {
	var p payload
	assert.Error(t, json.Unmarshal([]byte(`{"capacity": "many"}`), &p))
}

func TestField_Marshal(t *testing.T) {
	out, err := json.Marshal(payload{Capacity: patch.Of(5), Tags: patch.Clear[[]string]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"capacity": 5, "tags": null}`, string(out))
}

func intPtr(v int) *int { return &v }
