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
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	agenttypes "github.com/aws/aws-sdk-go-v2/service/bedrockagent/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	out *bedrockagent.StartIngestionJobOutput
	err error
	got *bedrockagent.StartIngestionJobInput
}

func (f *fakeAgent) StartIngestionJob(_ context.Context, params *bedrockagent.StartIngestionJobInput,
	_ ...func(*bedrockagent.Options)) (*bedrockagent.StartIngestionJobOutput, error) {
	f.got = params
	return f.out, f.err
}

func TestSyncerStartSync(t *testing.T) {
	fake := &fakeAgent{
		out: &bedrockagent.StartIngestionJobOutput{
			IngestionJob: &agenttypes.IngestionJob{IngestionJobId: aws.String("job-7")},
		},
	}
	syncer := NewSyncer(aws.Config{}, "KB123", "DS456", WithAgent(fake))

	jobID, err := syncer.StartSync(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, "job-7", jobID)

	require.NotNil(t, fake.got)
	assert.Equal(t, "KB123", aws.ToString(fake.got.KnowledgeBaseId))
	assert.Equal(t, "DS456", aws.ToString(fake.got.DataSourceId))
	assert.Equal(t, "sync-req-1", aws.ToString(fake.got.ClientToken))
}

func TestSyncerStartSyncGeneratesToken(t *testing.T) {
	fake := &fakeAgent{
		out: &bedrockagent.StartIngestionJobOutput{
			IngestionJob: &agenttypes.IngestionJob{IngestionJobId: aws.String("job-8")},
		},
	}
	syncer := NewSyncer(aws.Config{}, "KB123", "DS456", WithAgent(fake))

	_, err := syncer.StartSync(context.Background(), "")
	require.NoError(t, err)
	token := aws.ToString(fake.got.ClientToken)
	assert.True(t, len(token) > len("sync-"))
	assert.Equal(t, "sync-", token[:5])
}

func TestSyncerStartSyncError(t *testing.T) {
	syncer := NewSyncer(aws.Config{}, "KB123", "DS456",
		WithAgent(&fakeAgent{err: errors.New("denied")}))

	_, err := syncer.StartSync(context.Background(), "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}
