//
// Tencent is pleased to support the open source community by making trpc-kbchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-kbchat is licensed under the Apache License Version 2.0.
//
//

// Package config loads the service configuration from a YAML file with
// environment overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server        ServerConfig      `yaml:"server"`
	AWS           AWSConfig         `yaml:"aws"`
	KnowledgeBase KnowledgeBase     `yaml:"knowledge_base"`
	Vision        VisionConfig      `yaml:"vision"`
	Translation   TranslationConfig `yaml:"translation"`
	Upload        UploadConfig      `yaml:"upload"`
	Citation      CitationConfig    `yaml:"citation"`
	Log           LogConfig         `yaml:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AWSConfig holds shared AWS client settings.
type AWSConfig struct {
	Region string `yaml:"region"`
}

// KnowledgeBase identifies the managed knowledge base and generation model.
type KnowledgeBase struct {
	ID           string `yaml:"id"`
	ModelARN     string `yaml:"model_arn"`
	DataSourceID string `yaml:"data_source_id"`
}

// VisionConfig configures attachment analysis. The API key is read from the
// named environment variable, never from the file itself.
type VisionConfig struct {
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	MaxPages    int    `yaml:"max_pages"`
	Parallelism int    `yaml:"parallelism"`
}

// TranslationConfig configures multilingual support.
type TranslationConfig struct {
	Enabled bool   `yaml:"enabled"`
	Base    string `yaml:"base"`
}

// UploadConfig bounds file uploads.
type UploadConfig struct {
	MaxSizeBytes int64 `yaml:"max_size_bytes"`
}

// CitationConfig selects the source list rendering, "footnote" or "title".
type CitationConfig struct {
	Style string `yaml:"style"`
}

// LogConfig sets the logging level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads the configuration from path. A missing file yields the default
// configuration so the service can run from environment variables alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.AWS.Region == "" {
		c.AWS.Region = "us-east-1"
	}
	if c.Vision.Model == "" {
		c.Vision.Model = "gpt-4o-mini"
	}
	if c.Vision.APIKeyEnv == "" {
		c.Vision.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Vision.MaxPages == 0 {
		c.Vision.MaxPages = 8
	}
	if c.Vision.Parallelism == 0 {
		c.Vision.Parallelism = 4
	}
	if c.Translation.Base == "" {
		c.Translation.Base = "en"
	}
	if c.Upload.MaxSizeBytes == 0 {
		c.Upload.MaxSizeBytes = 16 << 20
	}
	if c.Citation.Style == "" {
		c.Citation.Style = "footnote"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// applyEnv lets deployment environments override the values that differ per
// stage without editing the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("KNOWLEDGE_BASE_ID"); v != "" {
		c.KnowledgeBase.ID = v
	}
	if v := os.Getenv("KNOWLEDGE_BASE_MODEL_ARN"); v != "" {
		c.KnowledgeBase.ModelARN = v
	}
	if v := os.Getenv("DATA_SOURCE_ID"); v != "" {
		c.KnowledgeBase.DataSourceID = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.AWS.Region = v
	}
}
