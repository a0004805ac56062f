//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

// Package translation carries user questions into the knowledge base's base
// language and generated answers back out, protecting URLs and citation
// markers from the translation service on the way.
package translation

import (
	"context"
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-kbchat/log"
)

// Translator translates text between two language codes. An implementation
// may accept "auto" as the source code.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Detector identifies the dominant language of a text.
type Detector interface {
	Detect(ctx context.Context, text string) (string, error)
}

// Service wraps a Translator and Detector with the orchestration rules of
// the chat flow: fail-soft behavior, URL/marker masking, and the residual
// base-language retranslation heuristic.
type Service struct {
	translator Translator
	detector   Detector
	base       string
}

// NewService creates a Service. base is the language the knowledge base is
// indexed and generated in.
func NewService(translator Translator, detector Detector, base string) *Service {
	return &Service{translator: translator, detector: detector, base: base}
}

// Base returns the knowledge base's language code.
func (s *Service) Base() string { return s.base }

// Detect returns the dominant language of text, or the base language when no
// detector is configured or detection fails. Detection failures degrade the
// experience, not the request.
func (s *Service) Detect(ctx context.Context, text string) string {
	if s.detector == nil || strings.TrimSpace(text) == "" {
		return s.base
	}
	code, err := s.detector.Detect(ctx, text)
	if err != nil || code == "" {
		log.Warnf("language detection failed, assuming %q: %v", s.base, err)
		return s.base
	}
	return code
}

// ToBase translates a user question from the given language into the base
// language. Questions already in the base language pass through untouched.
func (s *Service) ToBase(ctx context.Context, text, from string) (string, error) {
	if from == "" || from == s.base || s.translator == nil {
		return text, nil
	}
	translated, err := s.translator.Translate(ctx, text, from, s.base)
	if err != nil {
		return "", fmt.Errorf("translate question to %s: %w", s.base, err)
	}
	return translated, nil
}

// FromBase translates a generated answer from the base language to the
// target language. URLs and bracketed citation markers are masked before the
// call and restored after, so the translation service can never rewrite
// them. If the translated text still reads like the base language, one
// retranslation is attempted. Any failure returns the original text.
func (s *Service) FromBase(ctx context.Context, text, to string) string {
	if to == "" || to == s.base || s.translator == nil {
		return text
	}
	masked, saved := maskProtected(text)
	translated, err := s.translator.Translate(ctx, masked, s.base, to)
	if err != nil {
		log.Warnf("answer translation to %q failed, returning original: %v", to, err)
		return text
	}
	// Cheap residual check instead of a second detection call: when the
	// output still carries enough base-language function words, the service
	// likely passed chunks through, so try once more. Counting loanwords can
	// trip this both ways; that inaccuracy is accepted.
	if s.base == "en" && looksLikeEnglish(translated) {
		retranslated, err := s.translator.Translate(ctx, translated, s.base, to)
		if err == nil {
			translated = retranslated
		}
	}
	return restoreProtected(translated, saved)
}
