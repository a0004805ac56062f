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
	"github.com/aws/aws-sdk-go-v2/service/comprehend"

	"trpc.group/trpc-go/trpc-kbchat/log"
)

// comprehendAPI is the slice of the Amazon Comprehend client used here.
type comprehendAPI interface {
	DetectDominantLanguage(ctx context.Context, params *comprehend.DetectDominantLanguageInput,
		optFns ...func(*comprehend.Options)) (*comprehend.DetectDominantLanguageOutput, error)
}

// ComprehendDetector implements Detector over Amazon Comprehend.
type ComprehendDetector struct {
	client comprehendAPI
}

// NewComprehendDetector creates a ComprehendDetector from an AWS config.
func NewComprehendDetector(cfg aws.Config) *ComprehendDetector {
	return &ComprehendDetector{client: comprehend.NewFromConfig(cfg)}
}

// NewComprehendDetectorWithAPI wires a custom client, mainly for tests.
func NewComprehendDetectorWithAPI(api comprehendAPI) *ComprehendDetector {
	return &ComprehendDetector{client: api}
}

// Detect implements Detector, returning the highest-scoring language code.
func (d *ComprehendDetector) Detect(ctx context.Context, text string) (string, error) {
	out, err := d.client.DetectDominantLanguage(ctx, &comprehend.DetectDominantLanguageInput{
		Text: aws.String(text),
	})
	if err != nil {
		return "", fmt.Errorf("detect dominant language: %w", err)
	}
	best := ""
	var bestScore float32 = -1
	for _, lang := range out.Languages {
		score := aws.ToFloat32(lang.Score)
		if score > bestScore {
			best = aws.ToString(lang.LanguageCode)
			bestScore = score
		}
	}
	if best == "" {
		return "", fmt.Errorf("detect dominant language: no candidates")
	}
	log.Debugf("detected language %q (score %.2f)", best, bestScore)
	return best, nil
}
