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
	"strings"
	"unicode/utf8"
)

const (
	// snippetLimit caps the extracted phrase length.
	snippetLimit = 50
	// fallbackSnippet is returned when no meaningful excerpt can be derived.
	fallbackSnippet = "Document excerpt"
)

// ExtractKeyPhrase derives a short excerpt from a retrieved passage for
// citation display and deep linking. Headings are the strongest signal of
// what a passage is about, mid-length sentences the next best, raw truncation
// the last resort. Purely numeric phrases are rejected at every step. The
// result is never empty and never longer than 50 runes.
func ExtractKeyPhrase(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fallbackSnippet
	}

	// First heading line wins.
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		phrase := strings.TrimSpace(strings.ReplaceAll(line, "#", ""))
		if utf8.RuneCountInString(phrase) > 3 && !isNumeric(phrase) {
			return truncate(phrase, snippetLimit)
		}
	}

	// Otherwise the first self-contained sentence among the first three.
	sentences := strings.Split(text, ". ")
	for i, sentence := range sentences {
		if i >= 3 {
			break
		}
		sentence = strings.TrimSpace(sentence)
		// Length gates count runes, not bytes, so non-Latin text is judged
		// by the same thresholds as English.
		n := utf8.RuneCountInString(sentence)
		if n > 20 && n < 100 && !isNumeric(sentence) {
			return truncate(sentence, snippetLimit)
		}
	}

	// Otherwise the first eight words, if they amount to a real phrase.
	words := strings.Fields(text)
	if len(words) > 8 {
		words = words[:8]
	}
	phrase := strings.Join(words, " ")
	if utf8.RuneCountInString(phrase) > 10 && !isNumeric(phrase) {
		return truncate(phrase, snippetLimit)
	}

	if !isNumeric(trimmed) {
		return truncate(trimmed, snippetLimit)
	}
	return fallbackSnippet
}
