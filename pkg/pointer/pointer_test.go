// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValAndFallback(t *testing.T) {
	var missing *int
	assert.Equal(t, 0, Val(missing))
	assert.Equal(t, 7, Fallback(missing, 7))
	assert.Equal(t, 3, Val(To(3)))
	assert.Equal(t, 3, Fallback(To(3), 7))
}

func TestNonZero(t *testing.T) {
	assert.Nil(t, NonZero(""))
	assert.Nil(t, NonZero(0))
	if got := NonZero("events"); assert.NotNil(t, got) {
		assert.Equal(t, "events", *got)
	}
}
