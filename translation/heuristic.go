//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

package translation

import "strings"

// englishFunctionWords are high-frequency English words that rarely survive
// a correct translation into another language.
var englishFunctionWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "have": {}, "are": {}, "was": {}, "not": {}, "you": {},
	"your": {}, "will": {}, "can": {}, "there": {}, "which": {},
}

// englishResidueThreshold is the function-word count above which a
// translated text is treated as still being (partly) English.
const englishResidueThreshold = 4

// looksLikeEnglish reports whether text reads like English, judged purely by
// counting common function words. It is a deliberately cheap stand-in for a
// detection call and is wrong in both directions on short or loanword-heavy
// text.
func looksLikeEnglish(text string) bool {
	count := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()[]")
		if _, ok := englishFunctionWords[word]; ok {
			count++
			if count >= englishResidueThreshold {
				return true
			}
		}
	}
	return false
}
