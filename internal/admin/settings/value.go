// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Kind discriminates a [Value].
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindBool   Kind = "boolean"
	KindList   Kind = "list"
	KindMap    Kind = "map"
)

// Value is a setting value: a string, number, boolean, list of strings or
// flat string map. The zero Value is invalid.
type Value struct {
	kind Kind
	str  string
	num  float64
	flag bool
	list []string
	dict map[string]string
}

// Constructors of each variant.

func String(s string) Value { return Value{kind: KindString, str: s} }
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }
func List(items ...string) Value { return Value{kind: KindList, list: append([]string{}, items...)} }

func Map(entries map[string]string) Value {
	dict := map[string]string{}
	maps.Copy(dict, entries)
	return Value{kind: KindMap, dict: dict}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v was built by one of the constructors.
func (v Value) IsValid() bool { return v.kind != "" }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }
func (v Value) AsBool() (bool, bool) { return v.flag, v.kind == KindBool }

func (v Value) AsList() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return slices.Clone(v.list), true
}

func (v Value) AsMap() (map[string]string, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return maps.Clone(v.dict), true
}

// Equal compares kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.flag == other.flag
	case KindList:
		return slices.Equal(v.list, other.list)
	case KindMap:
		return maps.Equal(v.dict, other.dict)
	}
	return true
}

// MarshalJSON writes the bare JSON value of the variant.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.flag)
	case KindList:
		return json.Marshal(v.list)
	case KindMap:
		return json.Marshal(v.dict)
	}
	return nil, fmt.Errorf("settings: marshal invalid value")
}

// UnmarshalJSON picks the variant from the first JSON token. Lists must
// hold strings and maps must hold string values.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("settings: empty value")
	}

	var err error
	switch data[0] {
	case '"':
		var s string
		err = json.Unmarshal(data, &s)
		*v = String(s)
	case 't', 'f':
		var b bool
		err = json.Unmarshal(data, &b)
		*v = Bool(b)
	case '[':
		var items []string
		err = json.Unmarshal(data, &items)
		*v = List(items...)
	case '{':
		var entries map[string]string
		err = json.Unmarshal(data, &entries)
		*v = Map(entries)
	case 'n':
		return fmt.Errorf("settings: null is not a setting value")
	default:
		var n float64
		err = json.Unmarshal(data, &n)
		*v = Number(n)
	}
	if err != nil {
		return fmt.Errorf("settings: decode %s value: %w", v.kind, err)
	}
	return nil
}
