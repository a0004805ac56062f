//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"trpc.group/trpc-go/trpc-kbchat/assistant"
	"trpc.group/trpc-go/trpc-kbchat/citation"
	"trpc.group/trpc-go/trpc-kbchat/language"
	"trpc.group/trpc-go/trpc-kbchat/log"
)

type chatRequest struct {
	Message             string           `json:"message"`
	ConversationHistory []assistant.Turn `json:"conversation_history"`
	UserLanguage        string           `json:"user_language"`
	OutputLanguage      string           `json:"output_language"`
}

type chatResponse struct {
	Response         string            `json:"response"`
	Sources          []citation.Source `json:"sources"`
	DetectedLanguage string            `json:"detected_language"`
	OutputLanguage   string            `json:"output_language"`
	HasAttachment    bool              `json:"has_attachment,omitempty"`
	Filename         string            `json:"filename,omitempty"`
}

type uploadResponse struct {
	Message     string `json:"message"`
	Filename    string `json:"filename"`
	IsImage     bool   `json:"is_image"`
	SizeBytes   int    `json:"size_bytes"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"languages": language.Supported(),
		"default":   language.Default,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, attachment, ok := s.parseChat(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Message) == "" && attachment == nil {
		writeError(w, http.StatusBadRequest, "No message provided")
		return
	}

	resp := s.assistant.Chat(r.Context(), &assistant.Request{
		Message:        req.Message,
		History:        req.ConversationHistory,
		UserLanguage:   req.UserLanguage,
		OutputLanguage: req.OutputLanguage,
		Attachment:     attachment,
	})
	writeJSON(w, http.StatusOK, chatResponse{
		Response:         resp.Answer,
		Sources:          resp.Sources,
		DetectedLanguage: resp.DetectedLanguage,
		OutputLanguage:   resp.OutputLanguage,
		HasAttachment:    resp.HasAttachment,
		Filename:         resp.AttachmentName,
	})
}

// parseChat decodes either the JSON or the multipart form of the chat
// request. It writes the error response itself when parsing fails.
func (s *Server) parseChat(w http.ResponseWriter, r *http.Request) (chatRequest, *assistant.Attachment, bool) {
	var req chatRequest

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxUpload)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return req, nil, false
		}
		return req, nil, true
	}

	if r.ContentLength > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return req, nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return req, nil, false
	}

	req.Message = r.FormValue("message")
	req.UserLanguage = r.FormValue("user_language")
	req.OutputLanguage = r.FormValue("output_language")
	if raw := r.FormValue("conversation_history"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.ConversationHistory); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid conversation history")
			return req, nil, false
		}
	}

	attachment, ok := s.readFilePart(w, r)
	if !ok {
		return req, nil, false
	}
	return req, attachment, true
}

// readFilePart extracts and validates the optional file part. A missing part
// is fine; a disallowed or oversized one is not.
func (s *Server) readFilePart(w http.ResponseWriter, r *http.Request) (*assistant.Attachment, bool) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file upload")
		return nil, false
	}
	defer file.Close()

	if !allowedExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
		writeError(w, http.StatusBadRequest, "File type not allowed")
		return nil, false
	}
	if header.Size > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return nil, false
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read uploaded file")
		return nil, false
	}
	return &assistant.Attachment{Name: header.Filename, Data: data}, true
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	attachment, ok := s.readFilePart(w, r)
	if !ok {
		return
	}
	if attachment == nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}

	isImage := !strings.EqualFold(filepath.Ext(attachment.Name), ".pdf")
	resp := uploadResponse{
		Message:   "File uploaded successfully",
		Filename:  attachment.Name,
		IsImage:   isImage,
		SizeBytes: len(attachment.Data),
	}
	if s.analyzer != nil {
		var (
			desc string
			err  error
		)
		if isImage {
			desc, err = s.analyzer.DescribeImage(r.Context(), attachment.Name, attachment.Data)
		} else {
			desc, err = s.analyzer.DescribePDF(r.Context(), attachment.Name, attachment.Data)
		}
		if err != nil {
			// The upload itself succeeded; the description is best-effort.
			log.Warnf("upload description failed for %s: %v", attachment.Name, err)
		} else {
			resp.Description = desc
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
