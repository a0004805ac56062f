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
	"fmt"
	"strings"
)

// answerInstructions is the static instruction block prepended to every
// knowledge-base query.
const answerInstructions = `You are a helpful assistant answering questions from an institutional knowledge base.
Answer using only the retrieved material and cite supporting passages with bracketed indices like [1].
If the knowledge base does not cover the question, say so plainly instead of guessing.`

// defaultAttachmentQuestion stands in when a turn carries only a file.
const defaultAttachmentQuestion = "Summarize the attached document and explain anything important in it."

const (
	// historyWindow is how many trailing turns are forwarded as context.
	historyWindow = 5
	// turnRuneLimit caps each forwarded turn's length.
	turnRuneLimit = 300
)

// BuildPrompt assembles the retrieval query: instructions, a bounded window
// of conversation history, the attachment analysis when present, and the
// question itself.
func BuildPrompt(question string, history []Turn, attachmentContext string) string {
	var b strings.Builder
	b.WriteString(answerInstructions)

	if len(history) > 0 {
		b.WriteString("\n\nConversation so far:\n")
		start := len(history) - historyWindow
		if start < 0 {
			start = 0
		}
		for _, turn := range history[start:] {
			label := "User"
			if turn.Role == RoleAssistant {
				label = "Assistant"
			}
			fmt.Fprintf(&b, "%s: %s\n", label, truncateTurn(turn.Content))
		}
	}

	if attachmentContext != "" {
		b.WriteString("\n\nAttached document analysis:\n")
		b.WriteString(attachmentContext)
	}

	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

func truncateTurn(content string) string {
	runes := []rune(content)
	if len(runes) <= turnRuneLimit {
		return content
	}
	return string(runes[:turnRuneLimit]) + "…"
}
