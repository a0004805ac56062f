//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

// kbsync-lambda triggers knowledge base re-ingestion on a schedule.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"trpc.group/trpc-go/trpc-kbchat/knowledge/bedrock"
	"trpc.group/trpc-go/trpc-kbchat/lambdafunc"
	"trpc.group/trpc-go/trpc-kbchat/log"
)

func main() {
	kbID := os.Getenv("KNOWLEDGE_BASE_ID")
	dataSourceID := os.Getenv("DATA_SOURCE_ID")
	if kbID == "" || dataSourceID == "" {
		log.Fatalf("KNOWLEDGE_BASE_ID and DATA_SOURCE_ID are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}

	handler := lambdafunc.NewSyncHandler(bedrock.NewSyncer(awsCfg, kbID, dataSourceID))
	lambda.Start(handler.Handle)
}
