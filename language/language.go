//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

// Package language holds the static supported-language table for the chat
// front end. The knowledge base itself is monolingual; everything else is
// translated at the edges.
package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Default is the language assumed when the caller supplies nothing and
// detection is unavailable. Base is the language the knowledge base is
// indexed and generated in.
const (
	Default = "en"
	Base    = "en"
)

// supportedCodes lists the languages the front end offers, mirroring the
// populations the deployment serves.
var supportedCodes = []string{
	"en", "es", "zh", "vi", "tl", "ko", "ja", "ru", "ar", "fa", "hi", "pt", "fr", "de",
}

var names = buildNames()

func buildNames() map[string]string {
	namer := display.English.Languages()
	m := make(map[string]string, len(supportedCodes))
	for _, code := range supportedCodes {
		tag, err := xlanguage.Parse(code)
		if err != nil {
			continue
		}
		m[code] = namer.Name(tag)
	}
	return m
}

// Supported returns a copy of the code-to-display-name table.
func Supported() map[string]string {
	m := make(map[string]string, len(names))
	for code, name := range names {
		m[code] = name
	}
	return m
}

// IsSupported reports whether code (after canonicalization) is in the table.
func IsSupported(code string) bool {
	_, ok := names[Canonical(code)]
	return ok
}

// Canonical lowers a language code to its base form: "en-US" and "EN" both
// become "en". Unparseable input is returned lowercased as-is.
func Canonical(code string) string {
	code = strings.TrimSpace(strings.ToLower(code))
	if code == "" {
		return ""
	}
	tag, err := xlanguage.Parse(code)
	if err != nil {
		return code
	}
	base, conf := tag.Base()
	if conf == xlanguage.No {
		return code
	}
	return base.String()
}
