//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

package citation

import (
	"unicode"
	"unicode/utf8"
)

// BetterTitle reports whether candidate should replace existing as the chosen
// title for a document. Anything beats an empty title, a title with letters
// beats a numeric-only identifier (raw page IDs make poor titles), and when
// both sides are of the same class the strictly longer one wins.
func BetterTitle(candidate, existing string) bool {
	if isBlank(existing) {
		return true
	}
	if isBlank(candidate) {
		return false
	}
	candidateHasLetters := hasLetter(candidate)
	existingHasLetters := hasLetter(existing)
	if candidateHasLetters != existingHasLetters {
		return candidateHasLetters
	}
	// Length is counted in runes so multi-byte scripts compare fairly.
	return utf8.RuneCountInString(candidate) > utf8.RuneCountInString(existing)
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
