//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

// Package server exposes the chat front end over HTTP.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-kbchat/assistant"
	"trpc.group/trpc-go/trpc-kbchat/vision"
)

// MaxUploadBytes is the upload size ceiling, enforced before any processing.
const MaxUploadBytes = 16 << 20

// allowedExtensions is the upload allow-list. PDFs take the document path,
// everything else the image path.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// Server wires the chat, upload and metadata endpoints.
type Server struct {
	router    *mux.Router
	assistant *assistant.Assistant
	analyzer  vision.Analyzer
	maxUpload int64
}

// Option configures the Server.
type Option func(*Server)

// WithAnalyzer enables upload descriptions on /upload.
func WithAnalyzer(v vision.Analyzer) Option {
	return func(s *Server) { s.analyzer = v }
}

// WithMaxUpload overrides the upload size ceiling.
func WithMaxUpload(n int64) Option {
	return func(s *Server) { s.maxUpload = n }
}

// New creates the HTTP server around an assistant.
func New(a *assistant.Assistant, opts ...Option) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		assistant: a,
		maxUpload: MaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	// The widget is embedded in third-party pages, so CORS stays permissive.
	c := cors.New(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:       []string{"*"},
		OptionsSuccessStatus: http.StatusOK,
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	s.router.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	s.router.HandleFunc("/languages", s.handleLanguages).Methods(http.MethodGet)

	preflight := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	s.router.HandleFunc("/chat", preflight).Methods(http.MethodOptions)
	s.router.HandleFunc("/upload", preflight).Methods(http.MethodOptions)
}
