//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

// Package knowledge defines the interfaces to the managed knowledge-base
// service: a combined retrieve-and-generate query call and an ingestion
// trigger. The index and the generation model both live behind the service;
// this package only shapes the request/response contract.
package knowledge

import (
	"context"

	"trpc.group/trpc-go/trpc-kbchat/citation"
)

// Result is the payload of one retrieve-and-generate call.
type Result struct {
	// Answer is the generated answer text.
	Answer string
	// References are the raw retrieved references backing the answer, in the
	// order the service returned them. They have not been deduplicated.
	References []citation.RawReference
}

// Retriever issues a retrieve-and-generate query against the knowledge base.
type Retriever interface {
	// RetrieveAndGenerate searches the knowledge base and produces a grounded
	// answer for the given query text.
	RetrieveAndGenerate(ctx context.Context, query string) (*Result, error)
}

// Ingestor triggers re-ingestion of the knowledge base's source documents.
type Ingestor interface {
	// StartSync starts an ingestion job and returns its identifier. The token
	// deduplicates retried triggers on the service side.
	StartSync(ctx context.Context, token string) (string, error)
}
