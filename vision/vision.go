//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

// Package vision describes uploaded attachments with an OpenAI-compatible
// multimodal model: images directly, PDFs page by page.
package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"

	"trpc.group/trpc-go/trpc-kbchat/log"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultMaxPages    = 8
	defaultParallelism = 4

	imagePrompt = "Describe this image in detail. If it contains text, transcribe it. " +
		"If it is a form or document, identify what it is and summarize its contents."
	pagePrompt = "Summarize the key information on this document page. " +
		"Keep identifiers, dates, amounts and names exact."
)

// imageFormats maps supported image extensions to data-URL formats.
var imageFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tiff": "tiff",
}

// Analyzer produces a textual description of an uploaded attachment.
type Analyzer interface {
	// DescribeImage describes a single image. The name supplies the format
	// through its extension.
	DescribeImage(ctx context.Context, name string, data []byte) (string, error)
	// DescribePDF describes a PDF document page by page.
	DescribePDF(ctx context.Context, name string, data []byte) (string, error)
}

// ModelAnalyzer implements Analyzer on an OpenAI-compatible chat model.
type ModelAnalyzer struct {
	client      openai.Client
	model       string
	maxPages    int
	parallelism int
}

// Option configures the ModelAnalyzer.
type Option func(*options)

type options struct {
	apiKey      string
	baseURL     string
	model       string
	maxPages    int
	parallelism int
}

// WithAPIKey sets the API key for the model endpoint.
func WithAPIKey(key string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithMaxPages caps how many PDF pages are analyzed per document.
func WithMaxPages(n int) Option {
	return func(o *options) { o.maxPages = n }
}

// WithPageParallelism sets how many pages are analyzed concurrently.
func WithPageParallelism(n int) Option {
	return func(o *options) { o.parallelism = n }
}

// New creates a ModelAnalyzer.
func New(opts ...Option) *ModelAnalyzer {
	o := &options{
		model:       defaultModel,
		maxPages:    defaultMaxPages,
		parallelism: defaultParallelism,
	}
	for _, opt := range opts {
		opt(o)
	}
	var clientOpts []openaiopt.RequestOption
	if o.apiKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(o.apiKey))
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(o.baseURL))
	}
	return &ModelAnalyzer{
		client:      openai.NewClient(clientOpts...),
		model:       o.model,
		maxPages:    o.maxPages,
		parallelism: o.parallelism,
	}
}

// DescribeImage implements Analyzer.
func (a *ModelAnalyzer) DescribeImage(ctx context.Context, name string, data []byte) (string, error) {
	format, ok := imageFormats[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", fmt.Errorf("unsupported image format %q", filepath.Ext(name))
	}
	dataURL := "data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(data)
	parts := []openai.ChatCompletionContentPartUnionParam{
		{OfText: &openai.ChatCompletionContentPartTextParam{Text: imagePrompt}},
		{OfImageURL: &openai.ChatCompletionContentPartImageParam{
			ImageURL: openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL},
		}},
	}
	return a.complete(ctx, openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfArrayOfContentParts: parts,
			},
		},
	})
}

// DescribePDF implements Analyzer. Pages carry no cross-page dependency, so
// they are analyzed concurrently and reassembled in original page order.
func (a *ModelAnalyzer) DescribePDF(ctx context.Context, name string, data []byte) (string, error) {
	pages, err := extractPages(data)
	if err != nil {
		return "", fmt.Errorf("extract pdf pages: %w", err)
	}
	if len(pages) == 0 {
		return "", errors.New("pdf has no readable pages")
	}
	if len(pages) > a.maxPages {
		log.Infof("pdf %s has %d pages, analyzing first %d", name, len(pages), a.maxPages)
		pages = pages[:a.maxPages]
	}
	descriptions := fanOutPages(pages, a.parallelism, func(i int, text string) (string, error) {
		return a.describePage(ctx, text)
	})
	var b strings.Builder
	for i, desc := range descriptions {
		if desc == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Page %d: %s", i+1, desc)
	}
	if b.Len() == 0 {
		return "", errors.New("no page of the pdf could be analyzed")
	}
	return b.String(), nil
}

func (a *ModelAnalyzer) describePage(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return a.complete(ctx, openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfString: openai.String(pagePrompt + "\n\n" + text),
			},
		},
	})
}

func (a *ModelAnalyzer) complete(ctx context.Context, msg openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{msg},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
