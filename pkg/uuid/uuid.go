// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid checks the identifiers used as primary keys.

PostgreSQL rejects a malformed uuid literal with an error, so stores screen
IDs first and answer "not found" without a round trip.
*/
package uuid

import "github.com/google/uuid"

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
