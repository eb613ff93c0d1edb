// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds the table and column names of the department site
// database, so that SQL built in the store layers never hard-codes identifiers.
package schema

import "strings"

// list joins column names for a SELECT or INSERT column list.
func list(columns ...string) string {
	return strings.Join(columns, ", ")
}

// prefixed qualifies every column with a table alias.
func prefixed(alias string, columns ...string) string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}
