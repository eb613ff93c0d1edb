// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_JSON(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
		want Value
	}{
		{`"CS Department"`, KindString, String("CS Department")},
		{`12`, KindNumber, Number(12)},
		{`-0.5`, KindNumber, Number(-0.5)},
		{`true`, KindBool, Bool(true)},
		{`["hero", "events"]`, KindList, List("hero", "events")},
		{`{"github": "https://github.com/cs"}`, KindMap, Map(map[string]string{"github": "https://github.com/cs"})},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind)+" "+tc.raw, func(t *testing.T) {
			var got Value
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &got))
			assert.Equal(t, tc.kind, got.Kind())
			assert.True(t, tc.want.Equal(got))

			encoded, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, tc.raw, string(encoded))
		})
	}
}

func TestValue_RejectsOutsideTheUnion(t *testing.T) {
	for _, raw := range []string{`null`, `[1, 2]`, `{"nested": {"a": "b"}}`} {
		var v Value
		assert.Error(t, json.Unmarshal([]byte(raw), &v), raw)
	}

	_, err := json.Marshal(Value{})
	assert.Error(t, err)
}

func TestValue_AccessorsCopy(t *testing.T) {
	v := List("a", "b")
	items, ok := v.AsList()
	require.True(t, ok)
	items[0] = "mutated"

	again, _ := v.AsList()
	assert.Equal(t, []string{"a", "b"}, again)

	_, ok = v.AsString()
	assert.False(t, ok)
}

func TestAssemble_EmptyIsDefaults(t *testing.T) {
	assert.Equal(t, Defaults(), Assemble(nil))
	assert.Equal(t, Defaults(), Assemble(map[string]Value{}))
}

func TestAssemble_OverlaysAndIgnoresWrongKinds(t *testing.T) {
	data := Assemble(map[string]Value{
		KeySiteName:        String("Faculty of Informatics"),
		KeyEventsPerPage:   String("twenty"),
		KeyMaintenanceMode: Bool(true),
		KeySocialLinks:     Map(map[string]string{"youtube": "https://youtube.com/@cs"}),
		"unrelated_key":    Number(4),
	})

	defaults := Defaults()
	assert.Equal(t, "Faculty of Informatics", data.SiteName)
	assert.Equal(t, defaults.EventsPerPage, data.EventsPerPage)
	assert.True(t, data.MaintenanceMode)
	assert.Equal(t, map[string]string{"youtube": "https://youtube.com/@cs"}, data.SocialLinks)
	assert.Equal(t, defaults.HomepageSections, data.HomepageSections)
}

func TestFlatten_InverseOfAssemble(t *testing.T) {
	data := Defaults()
	data.HeroTitle = "Welcome"
	data.FeaturedEventsLimit = 6
	data.SocialLinks = map[string]string{"x": "https://x.com/cs"}

	entries := Flatten(data)
	require.Len(t, entries, len(definitions))

	values := map[string]Value{}
	for _, entry := range entries {
		assert.True(t, entry.Value.IsValid(), entry.Key)
		assert.NotEmpty(t, entry.Category, entry.Key)
		values[entry.Key] = entry.Value
	}

	assert.Equal(t, data, Assemble(values))
}

func TestFlatten_NilCollectionsBecomeEmpty(t *testing.T) {
	data := Defaults()
	data.SocialLinks = nil
	data.HomepageSections = nil

	for _, entry := range Flatten(data) {
		encoded, err := json.Marshal(entry.Value)
		require.NoError(t, err)
		assert.NotEqual(t, "null", string(encoded), entry.Key)
	}
}
