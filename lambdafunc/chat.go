//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

// Package lambdafunc adapts the chat assistant and the ingestion trigger to
// AWS Lambda entry points behind API Gateway and scheduled events.
package lambdafunc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"trpc.group/trpc-go/trpc-kbchat/assistant"
	"trpc.group/trpc-go/trpc-kbchat/citation"
	"trpc.group/trpc-go/trpc-kbchat/log"
)

// corsHeaders is attached to every response so the browser widget can call
// the function URL directly.
var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
}

type chatEvent struct {
	Message             string           `json:"message"`
	ConversationHistory []assistant.Turn `json:"conversation_history"`
	UserLanguage        string           `json:"user_language"`
	OutputLanguage      string           `json:"output_language"`
}

type chatResult struct {
	Response         string            `json:"response"`
	Sources          []citation.Source `json:"sources"`
	DetectedLanguage string            `json:"detected_language"`
	OutputLanguage   string            `json:"output_language"`
}

// ChatHandler serves the chat contract from a Lambda behind API Gateway.
type ChatHandler struct {
	assistant *assistant.Assistant
}

// NewChatHandler creates the Lambda chat handler.
func NewChatHandler(a *assistant.Assistant) *ChatHandler {
	return &ChatHandler{assistant: a}
}

// Handle processes one API Gateway proxy event. Failures outside the request
// contract, including an unparseable body and panics, surface as a 500 so the
// caller sees a well-formed error envelope rather than a gateway timeout.
func (h *ChatHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("chat lambda: panic: %v", r)
			resp = respond(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			err = nil
		}
	}()

	if req.HTTPMethod == http.MethodOptions {
		return respond(http.StatusOK, map[string]string{"message": "ok"}), nil
	}

	var event chatEvent
	if uerr := json.Unmarshal([]byte(req.Body), &event); uerr != nil {
		log.Errorf("chat lambda: bad request body: %v", uerr)
		return respond(http.StatusInternalServerError,
			map[string]string{"error": fmt.Sprintf("Internal server error: %v", uerr)}), nil
	}
	if strings.TrimSpace(event.Message) == "" {
		return respond(http.StatusBadRequest, map[string]string{"error": "No message provided"}), nil
	}

	chatResp := h.assistant.Chat(ctx, &assistant.Request{
		Message:        event.Message,
		History:        event.ConversationHistory,
		UserLanguage:   event.UserLanguage,
		OutputLanguage: event.OutputLanguage,
	})
	return respond(http.StatusOK, chatResult{
		Response:         chatResp.Answer,
		Sources:          chatResp.Sources,
		DetectedLanguage: chatResp.DetectedLanguage,
		OutputLanguage:   chatResp.OutputLanguage,
	}), nil
}

func respond(status int, body any) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		log.Errorf("chat lambda: encode response: %v", err)
		data = []byte(`{"error":"Internal server error"}`)
		status = http.StatusInternalServerError
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(data),
	}
}
