//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

package citation

import "strings"

const pagesSegment = "/pages/"

// Normalize canonicalizes a document URI into a deduplication key so that
// cosmetic variants (trailing slash, query string, fragment, per-page view
// sub-paths) of the same logical document map to the same key.
//
// Steps, in order: cut at the first '#', cut at the first '?', strip exactly
// one trailing '/', and if the remainder contains a "/pages/" segment keep
// only the identifier token immediately following it. The slash strip runs
// after the cuts so a slash sitting ahead of a query string or fragment does
// not survive into the key; Normalize is idempotent and "/handbook/?hl=en"
// keys the same as "/handbook". Nothing else is touched: no case folding and
// no scheme normalization. The returned key is only ever used for comparison;
// displayed URIs stay verbatim.
func Normalize(uri string) string {
	if uri == "" {
		return ""
	}
	u := uri
	if i := strings.Index(u, "#"); i >= 0 {
		u = u[:i]
	}
	if i := strings.Index(u, "?"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimSuffix(u, "/")
	if i := strings.Index(u, pagesSegment); i >= 0 {
		rest := u[i+len(pagesSegment):]
		if j := strings.Index(rest, "/"); j >= 0 {
			u = u[:i+len(pagesSegment)] + rest[:j]
		}
	}
	return u
}
