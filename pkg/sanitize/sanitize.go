// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sanitize cleans HTML coming from admin editors and external metadata.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richText = bluemonday.UGCPolicy()
	plain    = bluemonday.StrictPolicy()
)

// RichText keeps safe formatting markup (links, lists, emphasis) and drops
// scripts, styles and event handlers.
func RichText(s string) string {
	return strings.TrimSpace(richText.Sanitize(s))
}

// PlainText strips every tag, such as the JATS markup CrossRef wraps
// abstracts in, and folds the remaining whitespace.
func PlainText(s string) string {
	stripped := html.UnescapeString(plain.Sanitize(s))
	return strings.Join(strings.Fields(stripped), " ")
}

// RichTextPtr applies [RichText] to an optional value.
func RichTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := RichText(*s)
	return &clean
}
