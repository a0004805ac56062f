//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

// kbchat-lambda serves the chat contract as an AWS Lambda behind API Gateway.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"trpc.group/trpc-go/trpc-kbchat/assistant"
	"trpc.group/trpc-go/trpc-kbchat/knowledge/bedrock"
	"trpc.group/trpc-go/trpc-kbchat/lambdafunc"
	"trpc.group/trpc-go/trpc-kbchat/log"
	"trpc.group/trpc-go/trpc-kbchat/translation"
)

func main() {
	kbID := os.Getenv("KNOWLEDGE_BASE_ID")
	modelARN := os.Getenv("KNOWLEDGE_BASE_MODEL_ARN")
	if kbID == "" || modelARN == "" {
		log.Fatalf("KNOWLEDGE_BASE_ID and KNOWLEDGE_BASE_MODEL_ARN are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}

	retriever := bedrock.New(awsCfg, kbID, modelARN)
	localizer := translation.NewService(
		translation.NewAmazonTranslator(awsCfg),
		translation.NewComprehendDetector(awsCfg),
		"en",
	)

	handler := lambdafunc.NewChatHandler(
		assistant.New(retriever, assistant.WithLocalizer(localizer)))
	lambda.Start(handler.Handle)
}
