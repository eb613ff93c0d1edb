// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs for categories from display names.
//
// # Rules
//
// Accents are folded first (é → e), then the name is lowercased, every
// character outside [a-z0-9 -] is dropped, runs of whitespace become a single
// hyphen, repeated hyphens collapse, and leading or trailing hyphens are
// trimmed. The output only contains [a-z0-9-], so Generate is idempotent.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	disallowed  = regexp.MustCompile(`[^a-z0-9 -]+`)
	whitespace  = regexp.MustCompile(` +`)
	multiHyphen = regexp.MustCompile(`-{2,}`)

	foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Generate converts a display name into a URL-safe slug.
//
//	Generate("Workshops")          // "workshops"
//	Generate("  Café & Talks -- ") // "cafe-talks"
func Generate(name string) string {
	folded, _, err := transform.String(foldAccents, name)
	if err != nil {
		folded = name
	}

	// Tabs and newlines separate words like spaces do.
	result := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, strings.ToLower(folded))

	result = disallowed.ReplaceAllString(result, "")
	result = strings.TrimSpace(result)
	result = whitespace.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return s != "" && Generate(s) == s
}
