// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// ReasonerHost is the base URL for the decision reasoning service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	ReasonerHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// ReasonerModel is the model identifier to use for match decisions.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	ReasonerModel string

	// Temperature is the sampling temperature for decision calls.
	// Decisions want near-deterministic output. Default: 0.1
	Temperature float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithReasonerHost sets the reasoning service host URL.
func WithReasonerHost(host string) ConfigOption {
	return func(c *Config) {
		c.ReasonerHost = host
	}
}

// WithHost sets both embedding and reasoner hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ReasonerHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithReasonerModel sets the reasoner model identifier.
func WithReasonerModel(model string) ConfigOption {
	return func(c *Config) {
		c.ReasonerModel = model
	}
}

// WithTemperature sets the sampling temperature for decision calls.
func WithTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// By default, both embedding and reasoner use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:  defaultHost,
		ReasonerHost:   defaultHost,
		EmbeddingModel: "embeddinggemma",
		ReasonerModel:  "qwen2.5:3b",
		Temperature:    0.1,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithHost("http://localhost:11434/v1"),
//       WithEmbeddingModel("text-embedding-3-small"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	if c.ReasonerHost != "" && !strings.HasSuffix(c.ReasonerHost, "/v1") {
		c.ReasonerHost = strings.TrimSuffix(c.ReasonerHost, "/")
		c.ReasonerHost = c.ReasonerHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.ReasonerHost == "" {
		return errors.New("ai config: ReasonerHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.ReasonerModel == "" {
		return errors.New("ai config: ReasonerModel is required")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return errors.New("ai config: Temperature must be between 0 and 1")
	}
	return nil
}
