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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeNoSources(t *testing.T) {
	answer := "The deadline is June 30."
	assert.Equal(t, answer, Compose(answer, nil, StyleFootnote))
	assert.Equal(t, answer, Compose(answer, []Source{}, StyleTitle))
}

func TestComposeFootnoteStyle(t *testing.T) {
	sources := []Source{{Number: 1, Title: "T", URI: "https://x", Snippet: "s"}}
	got := Compose("Answer [1].", sources, StyleFootnote)
	assert.Contains(t, got, "Answer [1].")
	assert.Contains(t, got, "**Sources:**")
	assert.Contains(t, got, `[1]: "s" — https://x`)
}

func TestComposeTitleStyle(t *testing.T) {
	sources := []Source{{Number: 1, Title: "T", URI: "https://x", Snippet: "s"}}
	got := Compose("Answer [1].", sources, StyleTitle)
	assert.Contains(t, got, "[1] T")
	assert.NotContains(t, got, "https://x")
}

func TestComposeMultipleSourcesInOrder(t *testing.T) {
	sources := []Source{
		{Number: 1, Title: "First", URI: "https://a", Snippet: "alpha"},
		{Number: 2, Title: "Second", URI: "https://b", Snippet: "beta"},
	}
	got := Compose("Answer.", sources, StyleFootnote)
	first := `[1]: "alpha" — https://a`
	second := `[2]: "beta" — https://b`
	assert.Contains(t, got, first)
	assert.Contains(t, got, second)
	assert.Less(t, strings.Index(got, first), strings.Index(got, second))
}

func TestParseStyle(t *testing.T) {
	assert.Equal(t, StyleTitle, ParseStyle("title"))
	assert.Equal(t, StyleFootnote, ParseStyle("footnote"))
	assert.Equal(t, StyleFootnote, ParseStyle(""))
}
