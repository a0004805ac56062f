//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

package citation

import "unicode/utf8"

// accumulator holds the running best choice for one logical document while
// references are folded in. The uri, snippet and content fields move as a
// group: they always describe the same retained reference.
type accumulator struct {
	title   string
	uri     string
	snippet string
	content string
}

// Reconcile folds a retrieval call's raw references, left to right, into a
// deduplicated source list. References sharing a normalized URI key describe
// the same logical document and merge into one Source: the title is upgraded
// whenever a later reference offers a better one, and the displayed uri,
// snippet and content are replaced together whenever a later reference
// carries strictly longer content. Numbers are assigned 1..n in the order a
// key is first seen.
//
// References with no resolvable URI are silently dropped. An empty input
// yields an empty output. When two references tie on both title quality and
// content length the earlier one is kept; that tie-break is an artifact of
// fold order, kept deliberately.
func Reconcile(refs []RawReference) []Source {
	order := make([]string, 0, len(refs))
	byKey := make(map[string]*accumulator, len(refs))

	for _, ref := range refs {
		uri := ref.URI()
		if uri == "" {
			continue
		}
		title := ref.title(uri)
		snippet := ExtractKeyPhrase(ref.ContentText)
		key := Normalize(uri)

		existing, seen := byKey[key]
		if !seen {
			byKey[key] = &accumulator{
				title:   title,
				uri:     uri,
				snippet: snippet,
				content: ref.ContentText,
			}
			order = append(order, key)
			continue
		}
		if BetterTitle(title, existing.title) {
			existing.title = title
		}
		if utf8.RuneCountInString(ref.ContentText) > utf8.RuneCountInString(existing.content) {
			existing.uri = uri
			existing.snippet = snippet
			existing.content = ref.ContentText
		}
	}

	sources := make([]Source, 0, len(order))
	for i, key := range order {
		acc := byKey[key]
		sources = append(sources, Source{
			Number:  i + 1,
			Title:   acc.title,
			URI:     acc.uri,
			Snippet: acc.snippet,
		})
	}
	return sources
}
