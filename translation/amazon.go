//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

package translation

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/translate"
)

// translateAPI is the slice of the Amazon Translate client used here.
type translateAPI interface {
	TranslateText(ctx context.Context, params *translate.TranslateTextInput,
		optFns ...func(*translate.Options)) (*translate.TranslateTextOutput, error)
}

// AmazonTranslator implements Translator over Amazon Translate.
type AmazonTranslator struct {
	client translateAPI
}

// NewAmazonTranslator creates an AmazonTranslator from an AWS config.
func NewAmazonTranslator(cfg aws.Config) *AmazonTranslator {
	return &AmazonTranslator{client: translate.NewFromConfig(cfg)}
}

// NewAmazonTranslatorWithAPI wires a custom client, mainly for tests.
func NewAmazonTranslatorWithAPI(api translateAPI) *AmazonTranslator {
	return &AmazonTranslator{client: api}
}

// Translate implements Translator. An empty source code is sent as "auto".
func (t *AmazonTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == "" {
		source = "auto"
	}
	out, err := t.client.TranslateText(ctx, &translate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String(source),
		TargetLanguageCode: aws.String(target),
	})
	if err != nil {
		return "", fmt.Errorf("translate text %s->%s: %w", source, target, err)
	}
	return aws.ToString(out.TranslatedText), nil
}
