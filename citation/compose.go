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
	"fmt"
	"strings"
)

// Style selects how the appended source list is formatted.
type Style int

const (
	// StyleFootnote renders each source as `[n]: "snippet" — uri`.
	StyleFootnote Style = iota
	// StyleTitle renders each source as `[n] title`, the earlier format kept
	// for frontends that have not migrated to footnotes.
	StyleTitle
)

// ParseStyle maps a configuration string to a Style, defaulting to footnotes.
func ParseStyle(s string) Style {
	if s == "title" {
		return StyleTitle
	}
	return StyleFootnote
}

const sourcesHeader = "\n\n**Sources:**\n"

// Compose appends a formatted source list to a generated answer. With no
// sources the answer is returned unchanged, header and all.
func Compose(answer string, sources []Source, style Style) string {
	if len(sources) == 0 {
		return answer
	}
	var b strings.Builder
	b.WriteString(answer)
	b.WriteString(sourcesHeader)
	for _, src := range sources {
		if style == StyleTitle {
			fmt.Fprintf(&b, "[%d] %s\n", src.Number, src.Title)
			continue
		}
		fmt.Fprintf(&b, "[%d]: \"%s\" — %s\n", src.Number, src.Snippet, src.URI)
	}
	return b.String()
}
