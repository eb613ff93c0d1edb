// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package patch models a clearable field in a sparse JSON update.

A plain pointer cannot tell "key omitted" apart from "key sent as null". Field
keeps the three states apart:

  - omitted: Set is false, the stored value is left alone.
  - null: Set is true and Null is true, the stored value is cleared.
  - value: Set is true and Value holds the new value.
*/
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state optional used in PATCH payloads.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Of returns a Field carrying v.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Clear returns a Field that clears the stored value.
func Clear[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON is only called when the key is present in the payload.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON writes null for cleared and omitted fields.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns the column value to write: nil when clearing, otherwise &Value.
// Callers must check Set first.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}
