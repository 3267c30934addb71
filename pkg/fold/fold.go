// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

// Package fold performs accent- and case-insensitive text folding.
//
// # Usage
//
// The catalogue is seeded with Portuguese text ("Móveis", "Eletrônicos",
// "Santa Rita do Sapucaí"); a search for "moveis" must still match. This
// package handles normalization and accent removal for those comparisons.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold converts an arbitrary Unicode string to its lowercase, accent-free
// comparison form.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, err := transform.String(t, s)
	if err != nil {
		// Fall back to plain lowercasing on malformed input.
		return strings.ToLower(s)
	}
	return strings.ToLower(result)
}

// Contains reports whether haystack contains needle under folding.
func Contains(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
