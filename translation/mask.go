//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

package translation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	urlPattern    = regexp.MustCompile(`https?://[^\s<>"')\]]+`)
	markerPattern = regexp.MustCompile(`\[\d+\]`)
)

// maskProtected replaces URLs and bracketed citation markers with opaque
// placeholder tokens that translation services leave alone. The returned
// slice restores the originals positionally via restoreProtected.
func maskProtected(text string) (string, []string) {
	var saved []string
	replace := func(match string) string {
		saved = append(saved, match)
		return fmt.Sprintf("__KB_%d__", len(saved)-1)
	}
	text = urlPattern.ReplaceAllStringFunc(text, replace)
	text = markerPattern.ReplaceAllStringFunc(text, replace)
	return text, saved
}

// restoreProtected substitutes the saved originals back for their tokens.
func restoreProtected(text string, saved []string) string {
	for i, original := range saved {
		text = strings.ReplaceAll(text, fmt.Sprintf("__KB_%d__", i), original)
	}
	return text
}
