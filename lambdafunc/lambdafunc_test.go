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
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-kbchat/assistant"
	"trpc.group/trpc-go/trpc-kbchat/citation"
	"trpc.group/trpc-go/trpc-kbchat/knowledge"
)

type stubRetriever struct {
	result *knowledge.Result
	query  string
}

func (s *stubRetriever) RetrieveAndGenerate(_ context.Context, query string) (*knowledge.Result, error) {
	s.query = query
	return s.result, nil
}

type stubIngestor struct {
	jobID string
	err   error
	token string
}

func (s *stubIngestor) StartSync(_ context.Context, token string) (string, error) {
	s.token = token
	return s.jobID, s.err
}

func newChatHandler() (*ChatHandler, *stubRetriever) {
	retriever := &stubRetriever{result: &knowledge.Result{
		Answer: "the answer [1]",
		References: []citation.RawReference{
			{Kind: citation.LocationWeb, WebURL: "https://site/doc", ContentText: "A passage long enough to be a snippet sentence."},
		},
	}}
	return NewChatHandler(assistant.New(retriever)), retriever
}

func TestChatHandlerPreflight(t *testing.T) {
	h, _ := newChatHandler()
	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "POST, OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
}

func TestChatHandlerMissingMessage(t *testing.T) {
	h, _ := newChatHandler()
	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"message":"  "}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, resp.Body, "No message provided")
}

func TestChatHandlerInvalidBody(t *testing.T) {
	h, _ := newChatHandler()
	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       "not json",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Body, "Internal server error")
}

type panicRetriever struct{}

func (panicRetriever) RetrieveAndGenerate(context.Context, string) (*knowledge.Result, error) {
	panic("boom")
}

func TestChatHandlerRecoversFromPanic(t *testing.T) {
	h := NewChatHandler(assistant.New(panicRetriever{}))
	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"message":"hello"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Body, "Internal server error")
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
}

func TestChatHandlerSuccess(t *testing.T) {
	h, retriever := newChatHandler()
	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"message":"What is CCCID?","conversation_history":[{"role":"user","content":"hi"}]}`,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body chatResult
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Contains(t, body.Response, "the answer [1]")
	require.Len(t, body.Sources, 1)
	assert.Equal(t, "https://site/doc", body.Sources[0].URI)
	assert.Contains(t, retriever.query, "Question: What is CCCID?")
	assert.Contains(t, retriever.query, "User: hi")
}

func TestSyncHandlerUsesRequestIDAsToken(t *testing.T) {
	ingestor := &stubIngestor{jobID: "job-123"}
	h := NewSyncHandler(ingestor)

	ctx := lambdacontext.NewContext(context.Background(),
		&lambdacontext.LambdaContext{AwsRequestID: "req-abc"})
	result, err := h.Handle(ctx, events.CloudWatchEvent{ID: "evt-1"})
	require.NoError(t, err)
	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, "Ingestion job started: job-123", result.Body)
	assert.Equal(t, "req-abc", ingestor.token)
}

func TestSyncHandlerFailure(t *testing.T) {
	h := NewSyncHandler(&stubIngestor{err: errors.New("throttled")})

	result, err := h.Handle(context.Background(), events.CloudWatchEvent{})
	require.Error(t, err)
	assert.Equal(t, 500, result.StatusCode)
	assert.Contains(t, result.Body, "throttled")
}
