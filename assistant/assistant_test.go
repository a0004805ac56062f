//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-kbchat/citation"
	"trpc.group/trpc-go/trpc-kbchat/knowledge"
)

type fakeRetriever struct {
	result *knowledge.Result
	err    error
	query  string
}

func (f *fakeRetriever) RetrieveAndGenerate(_ context.Context, query string) (*knowledge.Result, error) {
	f.query = query
	return f.result, f.err
}

type fakeLocalizer struct {
	base     string
	detected string
}

func (f *fakeLocalizer) Base() string { return f.base }

func (f *fakeLocalizer) Detect(context.Context, string) string { return f.detected }

func (f *fakeLocalizer) ToBase(_ context.Context, text, _ string) (string, error) {
	return "[to-base]" + text, nil
}

func (f *fakeLocalizer) FromBase(_ context.Context, text, to string) string {
	return "[" + to + "]" + text
}

type fakeAnalyzer struct {
	description string
	err         error
}

func (f *fakeAnalyzer) DescribeImage(context.Context, string, []byte) (string, error) {
	return f.description, f.err
}

func (f *fakeAnalyzer) DescribePDF(context.Context, string, []byte) (string, error) {
	return f.description, f.err
}

func TestChatReconcilesDuplicateReferences(t *testing.T) {
	// Two references for the same logical page; the longer content wins and
	// its verbatim URI is the one displayed.
	retriever := &fakeRetriever{result: &knowledge.Result{
		Answer: "CCCID is the statewide student identifier [1].",
		References: []citation.RawReference{
			{Kind: citation.LocationWeb, WebURL: "https://site/pages/42?hl=en", ContentText: "short"},
			{Kind: citation.LocationWeb, WebURL: "https://site/pages/42/", ContentText: "The CCCID is assigned to every student at account creation."},
		},
	}}
	a := New(retriever)

	resp := a.Chat(context.Background(), &Request{Message: "What is CCCID?"})
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, 1, resp.Sources[0].Number)
	assert.Equal(t, "https://site/pages/42/", resp.Sources[0].URI)
	assert.Contains(t, resp.Answer, "**Sources:**")
	assert.Contains(t, resp.Answer, "https://site/pages/42/")
}

func TestChatSendsPromptWithQuestion(t *testing.T) {
	retriever := &fakeRetriever{result: &knowledge.Result{Answer: "answer"}}
	a := New(retriever)

	a.Chat(context.Background(), &Request{Message: "What is CCCID?"})
	assert.Contains(t, retriever.query, "Question: What is CCCID?")
	assert.Contains(t, retriever.query, "bracketed indices")
}

func TestChatDegradesOnRetrievalFailure(t *testing.T) {
	a := New(&fakeRetriever{err: errors.New("kb down")})

	resp := a.Chat(context.Background(), &Request{Message: "anything"})
	assert.Contains(t, resp.Answer, "I'm having trouble accessing the knowledge base")
	assert.Contains(t, resp.Answer, "kb down")
	assert.Empty(t, resp.Sources)
	assert.NotContains(t, resp.Answer, "**Sources:**")
}

func TestChatTranslatesQuestionAndAnswer(t *testing.T) {
	retriever := &fakeRetriever{result: &knowledge.Result{Answer: "the answer"}}
	a := New(retriever, WithLocalizer(&fakeLocalizer{base: "en", detected: "es"}))

	resp := a.Chat(context.Background(), &Request{Message: "¿Qué es CCCID?"})
	assert.Equal(t, "es", resp.DetectedLanguage)
	assert.Equal(t, "es", resp.OutputLanguage)
	assert.Contains(t, retriever.query, "[to-base]¿Qué es CCCID?")
	assert.Contains(t, resp.Answer, "[es]the answer")
}

func TestChatRespectsExplicitLanguages(t *testing.T) {
	retriever := &fakeRetriever{result: &knowledge.Result{Answer: "the answer"}}
	a := New(retriever, WithLocalizer(&fakeLocalizer{base: "en", detected: "ignored"}))

	resp := a.Chat(context.Background(), &Request{
		Message:        "question",
		UserLanguage:   "en",
		OutputLanguage: "vi",
	})
	assert.Equal(t, "en", resp.DetectedLanguage)
	assert.Equal(t, "vi", resp.OutputLanguage)
	assert.Contains(t, resp.Answer, "[vi]the answer")
	// The question was already in the base language, so no inbound pass.
	assert.NotContains(t, retriever.query, "[to-base]")
}

func TestChatWithAttachment(t *testing.T) {
	retriever := &fakeRetriever{result: &knowledge.Result{Answer: "summary"}}
	a := New(retriever, WithAnalyzer(&fakeAnalyzer{description: "a transcript of the uploaded form"}))

	resp := a.Chat(context.Background(), &Request{
		Message:    "What does this form mean?",
		Attachment: &Attachment{Name: "form.pdf", Data: []byte("%PDF")},
	})
	assert.True(t, resp.HasAttachment)
	assert.Equal(t, "form.pdf", resp.AttachmentName)
	assert.Contains(t, retriever.query, "a transcript of the uploaded form")
}

func TestChatAttachmentOnlyGetsDefaultQuestion(t *testing.T) {
	retriever := &fakeRetriever{result: &knowledge.Result{Answer: "summary"}}
	a := New(retriever, WithAnalyzer(&fakeAnalyzer{description: "description"}))

	a.Chat(context.Background(), &Request{
		Attachment: &Attachment{Name: "photo.png", Data: []byte{1}},
	})
	assert.Contains(t, retriever.query, defaultAttachmentQuestion)
}

func TestChatDegradesOnAttachmentFailure(t *testing.T) {
	retriever := &fakeRetriever{result: &knowledge.Result{Answer: "unused"}}
	a := New(retriever, WithAnalyzer(&fakeAnalyzer{err: errors.New("bad image")}))

	resp := a.Chat(context.Background(), &Request{
		Message:    "what is this?",
		Attachment: &Attachment{Name: "x.png", Data: []byte{1}},
	})
	assert.Contains(t, resp.Answer, "I'm having trouble reading the attached file")
	assert.Empty(t, resp.Sources)
	assert.Empty(t, retriever.query)
}

func TestChatLegacyStyle(t *testing.T) {
	retriever := &fakeRetriever{result: &knowledge.Result{
		Answer: "answer [1]",
		References: []citation.RawReference{
			{Kind: citation.LocationWeb, WebURL: "https://site/guide", MetadataTitle: "Style Guide", ContentText: "Guide content with enough length to form a sentence."},
		},
	}}
	a := New(retriever, WithStyle(citation.StyleTitle))

	resp := a.Chat(context.Background(), &Request{Message: "q"})
	assert.Contains(t, resp.Answer, "[1] Style Guide")
	assert.NotContains(t, resp.Answer, "https://site/guide\n")
}

func TestBuildPromptHistoryWindow(t *testing.T) {
	history := make([]Turn, 8)
	for i := range history {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		history[i] = Turn{Role: role, Content: "turn-" + string(rune('a'+i))}
	}
	prompt := BuildPrompt("q", history, "")
	// Only the trailing five turns survive.
	assert.NotContains(t, prompt, "turn-a")
	assert.NotContains(t, prompt, "turn-c")
	assert.Contains(t, prompt, "turn-d")
	assert.Contains(t, prompt, "turn-h")
	assert.Contains(t, prompt, "Assistant: turn-h")
}

func TestBuildPromptTruncatesLongTurns(t *testing.T) {
	long := strings.Repeat("x", 1000)
	prompt := BuildPrompt("q", []Turn{{Role: RoleUser, Content: long}}, "")
	assert.NotContains(t, prompt, long)
	assert.Contains(t, prompt, strings.Repeat("x", 300)+"…")
}

func TestBuildPromptNoHistory(t *testing.T) {
	prompt := BuildPrompt("only question", nil, "")
	assert.NotContains(t, prompt, "Conversation so far")
	assert.Contains(t, prompt, "Question: only question")
}
