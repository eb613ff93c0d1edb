// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/deptsite/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Nil(t, slice.Map[int, string](nil, strconv.Itoa))
	assert.Equal(t, []string{"1", "2"}, slice.Map([]int{1, 2}, strconv.Itoa))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, slice.Unique([]string{"b", "a", "b", "c", "a"}))
	assert.Empty(t, slice.Unique[string](nil))
}
