// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0190c5e2-7b3a-7c1d-9f2e-3a4b5c6d7e8f", true},
		{"0190C5E2-7B3A-7C1D-9F2E-3A4B5C6D7E8F", true},
		{"", false},
		{"42", false},
		{"not-a-uuid", false},
		{"0190c5e2-7b3a-7c1d-9f2e-3a4b5c6d7e8", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, Valid(tc.input))
		})
	}
}
