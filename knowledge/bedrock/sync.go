//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-kbchat/log"
)

// agentAPI is the slice of the Bedrock Agent client used by the syncer.
type agentAPI interface {
	StartIngestionJob(ctx context.Context, params *bedrockagent.StartIngestionJobInput,
		optFns ...func(*bedrockagent.Options)) (*bedrockagent.StartIngestionJobOutput, error)
}

// Syncer triggers re-ingestion of a knowledge base data source.
type Syncer struct {
	agent           agentAPI
	knowledgeBaseID string
	dataSourceID    string
}

// SyncerOption configures the Syncer.
type SyncerOption func(*Syncer)

// WithAgent overrides the underlying Agent API, mainly for tests.
func WithAgent(api agentAPI) SyncerOption {
	return func(s *Syncer) { s.agent = api }
}

// NewSyncer creates a Syncer for the given knowledge base and data source.
func NewSyncer(cfg aws.Config, knowledgeBaseID, dataSourceID string, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		agent:           bedrockagent.NewFromConfig(cfg),
		knowledgeBaseID: knowledgeBaseID,
		dataSourceID:    dataSourceID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSync implements knowledge.Ingestor. An empty token is replaced with a
// fresh UUID so retried triggers stay distinguishable from duplicates.
func (s *Syncer) StartSync(ctx context.Context, token string) (string, error) {
	if token == "" {
		token = uuid.NewString()
	}
	out, err := s.agent.StartIngestionJob(ctx, &bedrockagent.StartIngestionJobInput{
		KnowledgeBaseId: aws.String(s.knowledgeBaseID),
		DataSourceId:    aws.String(s.dataSourceID),
		ClientToken:     aws.String("sync-" + token),
	})
	if err != nil {
		return "", fmt.Errorf("start ingestion job: %w", err)
	}
	if out.IngestionJob == nil {
		return "", fmt.Errorf("start ingestion job: empty response")
	}
	jobID := aws.ToString(out.IngestionJob.IngestionJobId)
	log.Infof("started ingestion job %s for knowledge base %s", jobID, s.knowledgeBaseID)
	return jobID, nil
}
