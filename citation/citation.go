//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

// Package citation reconciles the raw retrieved references returned by a
// knowledge-base query into a stable, deduplicated, numbered source list
// suitable for footnoting a generated answer.
package citation

import (
	"strings"
	"unicode/utf8"
)

// LocationKind identifies where a retrieved reference points to.
type LocationKind int

const (
	// LocationUnknown marks a reference whose location could not be classified.
	LocationUnknown LocationKind = iota
	// LocationWeb marks a reference backed by a crawled web page.
	LocationWeb
	// LocationObjectStore marks a reference backed by an object-store document.
	LocationObjectStore
)

// Generic title labels used when neither the metadata title nor the URI
// yields anything presentable.
const (
	genericWebTitle    = "Web Document"
	genericObjectTitle = "Document"
)

// RawReference is one retrieved passage as returned by the retrieval service.
// URIs are carried verbatim; the reconciler never edits or reconstructs them.
type RawReference struct {
	// Kind selects which location field holds the document URI.
	Kind LocationKind
	// WebURL is the page URL for LocationWeb references.
	WebURL string
	// ObjectURI is the object URI for LocationObjectStore references.
	ObjectURI string
	// MetadataTitle is an optional human-authored title. It may be empty,
	// numeric-only, or otherwise low quality.
	MetadataTitle string
	// ContentText is the retrieved passage text, possibly empty.
	ContentText string
}

// URI resolves the reference's original document URI from its location kind.
// It returns "" when no URI is resolvable; such references are dropped.
func (r RawReference) URI() string {
	switch r.Kind {
	case LocationWeb:
		return r.WebURL
	case LocationObjectStore:
		return r.ObjectURI
	}
	return ""
}

// Source is one deduplicated entry in the displayed source list.
type Source struct {
	// Number is the 1-based footnote index, assigned in first-seen order.
	Number int `json:"number"`
	// Title is the best available title for the document, never empty.
	Title string `json:"title"`
	// URI is the original, non-normalized URI of whichever reference
	// contributed the retained content.
	URI string `json:"uri"`
	// Snippet is a short excerpt of the retained passage, for deep linking.
	Snippet string `json:"snippet"`
}

// title picks the candidate title for a reference: the metadata title when it
// is present, longer than 3 characters and not purely numeric, otherwise the
// last path segment of the URI (with '+' as space), otherwise a generic label.
func (r RawReference) title(uri string) string {
	t := strings.TrimSpace(r.MetadataTitle)
	if utf8.RuneCountInString(t) > 3 && !isNumeric(t) {
		return t
	}
	seg := uri
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	seg = strings.TrimSpace(strings.ReplaceAll(seg, "+", " "))
	if seg != "" {
		return seg
	}
	if r.Kind == LocationWeb {
		return genericWebTitle
	}
	return genericObjectTitle
}

// isNumeric reports whether s consists solely of ASCII digits after trimming.
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
