//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

// Package assistant orchestrates one chat turn: language handling, optional
// attachment analysis, the knowledge-base query, citation reconciliation and
// final answer composition. Turns are stateless; conversation history is
// supplied by the caller on every request.
package assistant

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/trpc-kbchat/citation"
	"trpc.group/trpc-go/trpc-kbchat/knowledge"
	"trpc.group/trpc-go/trpc-kbchat/language"
	"trpc.group/trpc-go/trpc-kbchat/log"
	"trpc.group/trpc-go/trpc-kbchat/vision"
)

// Degraded answers shown when an external collaborator fails. The request
// still completes with a well-formed response.
const (
	kbErrorFormat         = "I'm having trouble accessing the knowledge base right now. Error: %v"
	attachmentErrorFormat = "I'm having trouble reading the attached file right now. Error: %v"
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one prior exchange in the conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Attachment is an uploaded file accompanying a question.
type Attachment struct {
	Name string
	Data []byte
}

// Request is one user turn.
type Request struct {
	Message        string
	History        []Turn
	UserLanguage   string
	OutputLanguage string
	Attachment     *Attachment
}

// Response is the completed turn returned to the transport layer.
type Response struct {
	Answer           string
	Sources          []citation.Source
	DetectedLanguage string
	OutputLanguage   string
	HasAttachment    bool
	AttachmentName   string
}

// Localizer is the language-handling surface the orchestrator needs;
// translation.Service satisfies it.
type Localizer interface {
	Base() string
	Detect(ctx context.Context, text string) string
	ToBase(ctx context.Context, text, from string) (string, error)
	FromBase(ctx context.Context, text, to string) string
}

// Assistant sequences the external calls for a chat turn.
type Assistant struct {
	retriever knowledge.Retriever
	localizer Localizer
	analyzer  vision.Analyzer
	style     citation.Style
	tracer    trace.Tracer
}

// Option configures the Assistant.
type Option func(*Assistant)

// WithLocalizer enables language detection and translation.
func WithLocalizer(l Localizer) Option {
	return func(a *Assistant) { a.localizer = l }
}

// WithAnalyzer enables attachment (image/PDF) analysis.
func WithAnalyzer(v vision.Analyzer) Option {
	return func(a *Assistant) { a.analyzer = v }
}

// WithStyle selects the source list format appended to answers.
func WithStyle(style citation.Style) Option {
	return func(a *Assistant) { a.style = style }
}

// New creates an Assistant over the given retriever.
func New(retriever knowledge.Retriever, opts ...Option) *Assistant {
	a := &Assistant{
		retriever: retriever,
		style:     citation.StyleFootnote,
		tracer:    otel.Tracer("trpc.group/trpc-go/trpc-kbchat/assistant"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Chat handles one turn end to end. It never returns an error: external
// failures degrade into an apologetic answer with an empty source list.
func (a *Assistant) Chat(ctx context.Context, req *Request) *Response {
	ctx, span := a.tracer.Start(ctx, "assistant.chat")
	defer span.End()

	turnID := uuid.NewString()[:8]
	resp := &Response{Sources: []citation.Source{}}

	detected := language.Canonical(req.UserLanguage)
	if detected == "" {
		detected = a.detect(ctx, req.Message)
	}
	resp.DetectedLanguage = detected

	outLang := language.Canonical(req.OutputLanguage)
	if outLang == "" {
		outLang = detected
	}
	resp.OutputLanguage = outLang

	question := strings.TrimSpace(req.Message)
	if detected != a.baseLanguage() && question != "" {
		translated, err := a.toBase(ctx, question, detected)
		if err != nil {
			// Retrieval may still cope with the untranslated question.
			log.Warnf("turn %s: question translation failed, querying as-is: %v", turnID, err)
		} else {
			question = translated
		}
	}

	var attachmentContext string
	if req.Attachment != nil {
		resp.HasAttachment = true
		resp.AttachmentName = req.Attachment.Name
		desc, err := a.describeAttachment(ctx, req.Attachment)
		if err != nil {
			log.Errorf("turn %s: attachment analysis failed: %v", turnID, err)
			resp.Answer = a.localize(ctx, fmt.Sprintf(attachmentErrorFormat, err), outLang)
			return resp
		}
		attachmentContext = desc
		if question == "" {
			question = defaultAttachmentQuestion
		}
	}

	prompt := BuildPrompt(question, req.History, attachmentContext)
	result, err := a.retrieve(ctx, prompt)
	if err != nil {
		log.Errorf("turn %s: knowledge base query failed: %v", turnID, err)
		resp.Answer = a.localize(ctx, fmt.Sprintf(kbErrorFormat, err), outLang)
		return resp
	}

	sources := citation.Reconcile(result.References)
	span.SetAttributes(
		attribute.Int("references.raw", len(result.References)),
		attribute.Int("sources.deduplicated", len(sources)),
	)
	log.Infof("turn %s: %d raw reference(s) reconciled into %d source(s)",
		turnID, len(result.References), len(sources))

	// Translate before composing so the source list stays verbatim.
	answer := a.localize(ctx, result.Answer, outLang)
	resp.Answer = citation.Compose(answer, sources, a.style)
	resp.Sources = sources
	return resp
}

func (a *Assistant) retrieve(ctx context.Context, prompt string) (*knowledge.Result, error) {
	ctx, span := a.tracer.Start(ctx, "knowledge.retrieve_and_generate")
	defer span.End()
	return a.retriever.RetrieveAndGenerate(ctx, prompt)
}

func (a *Assistant) describeAttachment(ctx context.Context, att *Attachment) (string, error) {
	if a.analyzer == nil {
		return "", fmt.Errorf("no attachment analyzer configured")
	}
	ctx, span := a.tracer.Start(ctx, "vision.describe_attachment")
	defer span.End()
	if strings.EqualFold(filepath.Ext(att.Name), ".pdf") {
		return a.analyzer.DescribePDF(ctx, att.Name, att.Data)
	}
	return a.analyzer.DescribeImage(ctx, att.Name, att.Data)
}

func (a *Assistant) baseLanguage() string {
	if a.localizer != nil {
		return a.localizer.Base()
	}
	return language.Base
}

func (a *Assistant) detect(ctx context.Context, text string) string {
	if a.localizer == nil {
		return language.Default
	}
	return a.localizer.Detect(ctx, text)
}

func (a *Assistant) toBase(ctx context.Context, text, from string) (string, error) {
	if a.localizer == nil {
		return text, nil
	}
	return a.localizer.ToBase(ctx, text, from)
}

func (a *Assistant) localize(ctx context.Context, text, to string) string {
	if a.localizer == nil || to == a.baseLanguage() {
		return text
	}
	return a.localizer.FromBase(ctx, text, to)
}
