//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

// kbchatd runs the knowledge base chat service as a standalone HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"

	"trpc.group/trpc-go/trpc-kbchat/assistant"
	"trpc.group/trpc-go/trpc-kbchat/citation"
	"trpc.group/trpc-go/trpc-kbchat/internal/config"
	"trpc.group/trpc-go/trpc-kbchat/knowledge/bedrock"
	"trpc.group/trpc-go/trpc-kbchat/log"
	"trpc.group/trpc-go/trpc-kbchat/server"
	"trpc.group/trpc-go/trpc-kbchat/translation"
	"trpc.group/trpc-go/trpc-kbchat/vision"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	// Optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.SetLevel(cfg.Log.Level)

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	if cfg.KnowledgeBase.ID == "" || cfg.KnowledgeBase.ModelARN == "" {
		log.Fatalf("knowledge base id and model arn are required")
	}

	retriever := bedrock.New(awsCfg, cfg.KnowledgeBase.ID, cfg.KnowledgeBase.ModelARN)

	opts := []assistant.Option{
		assistant.WithStyle(citation.ParseStyle(cfg.Citation.Style)),
	}
	if cfg.Translation.Enabled {
		opts = append(opts, assistant.WithLocalizer(translation.NewService(
			translation.NewAmazonTranslator(awsCfg),
			translation.NewComprehendDetector(awsCfg),
			cfg.Translation.Base,
		)))
	}

	serverOpts := []server.Option{
		server.WithMaxUpload(cfg.Upload.MaxSizeBytes),
	}
	if key := os.Getenv(cfg.Vision.APIKeyEnv); key != "" {
		analyzer := vision.New(
			vision.WithAPIKey(key),
			vision.WithBaseURL(cfg.Vision.BaseURL),
			vision.WithModel(cfg.Vision.Model),
			vision.WithMaxPages(cfg.Vision.MaxPages),
			vision.WithPageParallelism(cfg.Vision.Parallelism),
		)
		opts = append(opts, assistant.WithAnalyzer(analyzer))
		serverOpts = append(serverOpts, server.WithAnalyzer(analyzer))
	} else {
		log.Infof("no %s set, attachment analysis disabled", cfg.Vision.APIKeyEnv)
	}

	srv := server.New(assistant.New(retriever, opts...), serverOpts...)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Handler(),
	}

	go func() {
		log.Infof("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
