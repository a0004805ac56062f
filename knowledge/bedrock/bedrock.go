//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

// Package bedrock implements the knowledge interfaces on top of Amazon
// Bedrock: retrieve-and-generate through the Agent Runtime API and ingestion
// triggers through the Agent API.
package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"

	"trpc.group/trpc-go/trpc-kbchat/citation"
	"trpc.group/trpc-go/trpc-kbchat/knowledge"
	"trpc.group/trpc-go/trpc-kbchat/log"
)

// runtimeAPI is the slice of the Bedrock Agent Runtime client used here.
type runtimeAPI interface {
	RetrieveAndGenerate(ctx context.Context, params *bedrockagentruntime.RetrieveAndGenerateInput,
		optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveAndGenerateOutput, error)
}

// Client queries a Bedrock knowledge base.
type Client struct {
	runtime         runtimeAPI
	knowledgeBaseID string
	modelARN        string
}

// Option configures the Client.
type Option func(*Client)

// WithRuntime overrides the underlying Agent Runtime API, mainly for tests.
func WithRuntime(api runtimeAPI) Option {
	return func(c *Client) { c.runtime = api }
}

// New creates a Client for the given knowledge base and generation model.
func New(cfg aws.Config, knowledgeBaseID, modelARN string, opts ...Option) *Client {
	c := &Client{
		runtime:         bedrockagentruntime.NewFromConfig(cfg),
		knowledgeBaseID: knowledgeBaseID,
		modelARN:        modelARN,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RetrieveAndGenerate implements knowledge.Retriever.
func (c *Client) RetrieveAndGenerate(ctx context.Context, query string) (*knowledge.Result, error) {
	out, err := c.runtime.RetrieveAndGenerate(ctx, &bedrockagentruntime.RetrieveAndGenerateInput{
		Input: &types.RetrieveAndGenerateInput{
			Text: aws.String(query),
		},
		RetrieveAndGenerateConfiguration: &types.RetrieveAndGenerateConfiguration{
			Type: types.RetrieveAndGenerateTypeKnowledgeBase,
			KnowledgeBaseConfiguration: &types.KnowledgeBaseRetrieveAndGenerateConfiguration{
				KnowledgeBaseId: aws.String(c.knowledgeBaseID),
				ModelArn:        aws.String(c.modelARN),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve and generate: %w", err)
	}

	result := &knowledge.Result{}
	if out.Output != nil {
		result.Answer = aws.ToString(out.Output.Text)
	}
	result.References = convertCitations(out.Citations)
	log.Debugf("knowledge base returned %d raw reference(s)", len(result.References))
	return result, nil
}

// convertCitations flattens the citation payload into raw references.
// Malformed entries (no location, no recognized location type) are skipped
// rather than failing the whole response.
func convertCitations(citations []types.Citation) []citation.RawReference {
	var refs []citation.RawReference
	for _, c := range citations {
		for _, ref := range c.RetrievedReferences {
			raw, ok := convertReference(ref)
			if !ok {
				continue
			}
			refs = append(refs, raw)
		}
	}
	return refs
}

func convertReference(ref types.RetrievedReference) (citation.RawReference, bool) {
	raw := citation.RawReference{}
	if ref.Location == nil {
		return raw, false
	}
	switch {
	case ref.Location.WebLocation != nil:
		raw.Kind = citation.LocationWeb
		raw.WebURL = aws.ToString(ref.Location.WebLocation.Url)
	case ref.Location.S3Location != nil:
		raw.Kind = citation.LocationObjectStore
		raw.ObjectURI = aws.ToString(ref.Location.S3Location.Uri)
	default:
		return raw, false
	}
	if ref.Content != nil {
		raw.ContentText = aws.ToString(ref.Content.Text)
	}
	raw.MetadataTitle = metadataTitle(ref)
	return raw, true
}

// metadataTitle decodes the optional human-authored title from the reference
// metadata. Metadata values arrive as smithy documents of arbitrary shape;
// anything that does not decode to a string is treated as absent.
func metadataTitle(ref types.RetrievedReference) string {
	v, ok := ref.Metadata["title"]
	if !ok || v == nil {
		return ""
	}
	var title string
	if err := v.UnmarshalSmithyDocument(&title); err != nil {
		return ""
	}
	return title
}
