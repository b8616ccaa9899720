// Reelmatch - Panel-based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package loader

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

// CleanCell trims a raw CSV cell and collapses inner whitespace runs to a
// single space.
func CleanCell(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// CanonicalTitle capitalizes each space-separated word of a cleaned title:
// first letter upper case, the rest lower case.
//
//	"the  GODFATHER" -> "The Godfather"
func CanonicalTitle(s string) string {
	words := strings.Split(CleanCell(s), " ")
	for i, w := range words {
		words[i] = capitalizeWord(w)
	}
	return strings.Join(words, " ")
}

func capitalizeWord(w string) string {
	if w == "" {
		return w
	}
	_, size := utf8.DecodeRuneInString(w)
	return upperCaser.String(w[:size]) + lowerCaser.String(w[size:])
}
