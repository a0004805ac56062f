//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

package lambdafunc

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"trpc.group/trpc-go/trpc-kbchat/knowledge"
	"trpc.group/trpc-go/trpc-kbchat/log"
)

// SyncResult is the scheduled trigger's response payload.
type SyncResult struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// SyncHandler kicks off a knowledge base ingestion job when the schedule
// fires.
type SyncHandler struct {
	ingestor knowledge.Ingestor
}

// NewSyncHandler creates the scheduled sync handler.
func NewSyncHandler(ingestor knowledge.Ingestor) *SyncHandler {
	return &SyncHandler{ingestor: ingestor}
}

// Handle processes one scheduled event. The invocation request ID doubles as
// the idempotency token so a retried invocation does not start a second job.
func (h *SyncHandler) Handle(ctx context.Context, event events.CloudWatchEvent) (SyncResult, error) {
	token := ""
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		token = lc.AwsRequestID
	}

	jobID, err := h.ingestor.StartSync(ctx, token)
	if err != nil {
		log.Errorf("sync lambda: start ingestion: %v", err)
		return SyncResult{
			StatusCode: 500,
			Body:       fmt.Sprintf("Failed to start ingestion: %v", err),
		}, err
	}
	log.Infof("sync lambda: started ingestion job %s for event %s", jobID, event.ID)
	return SyncResult{
		StatusCode: 200,
		Body:       fmt.Sprintf("Ingestion job started: %s", jobID),
	}, nil
}
