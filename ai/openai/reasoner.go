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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/profilematch/ai"
	"github.com/poiesic/profilematch/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// decideAttempts bounds retries over malformed responses and
	// rate-limited generation calls.
	decideAttempts = 3

	// rateLimitDelay is the base wait before retrying a rate-limited call.
	// The wait grows linearly with the attempt number.
	rateLimitDelay = 500 * time.Millisecond
)

// Reasoner implements ai.Reasoner using OpenAI-compatible chat APIs.
type Reasoner struct {
	client      llms.Model
	temperature float64
	retryDelay  time.Duration
	logger      *slog.Logger
}

// candidateVerdict is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type candidateVerdict struct {
	Key           int64    `json:"key"`
	Score         float64  `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	Rationale     string   `json:"rationale"`
}

// verdict is the wrapper structure for the LLM's JSON response.
type verdict struct {
	Candidates []candidateVerdict `json:"candidates"`
	Confidence string             `json:"confidence"`
}

// newReasoner is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newReasoner(config *ai.Config) (*Reasoner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ReasonerHost),
		openai.WithToken("none"),
		openai.WithModel(config.ReasonerModel),
	)
	if err != nil {
		return nil, err
	}

	return &Reasoner{
		client:      client,
		temperature: config.Temperature,
		retryDelay:  rateLimitDelay,
		logger:      slog.Default().With("component", "openai-reasoner"),
	}, nil
}

// NewReasoner creates a new decision reasoner using the provided configuration.
//
// Returns ai.Reasoner interface to enforce abstraction.
func NewReasoner(config *ai.Config) (ai.Reasoner, error) {
	return newReasoner(config)
}

// Decide evaluates the bounded candidate context and returns a scored,
// explained verdict. The context is serialized verbatim so the model sees
// exactly what the caller vetted, nothing more.
func (r *Reasoner) Decide(ctx context.Context, decisionCtx *ai.DecisionContext) (*ai.Verdict, error) {
	userPrompt, err := buildDecisionInput(decisionCtx)
	if err != nil {
		return nil, err
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	// Retry malformed JSON and rate-limit rejections; any other backend
	// error fails immediately.
	var result verdict
	var lastErr error
	for attempt := 1; attempt <= decideAttempts; attempt++ {
		response, err := r.client.GenerateContent(ctx, content,
			llms.WithTemperature(r.temperature), llms.WithJSONMode())
		if err != nil {
			if !isRateLimited(err) {
				r.logger.Error("failed to generate content", "attempt", attempt, "err", err)
				return nil, err
			}
			lastErr = err
			r.logger.Warn("reasoner backend rate limited", "attempt", attempt, "err", err)
			if attempt < decideAttempts {
				if waitErr := wait(ctx, time.Duration(attempt)*r.retryDelay); waitErr != nil {
					return nil, waitErr
				}
			}
			continue
		}

		if len(response.Choices) < 1 {
			r.logger.Debug("no choices returned from model")
			return &ai.Verdict{Confidence: "low"}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			r.logger.Warn("error parsing reasoner response",
				"attempt", attempt,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		r.logger.Error("reasoner gave no usable response after retries", "err", lastErr)
		return nil, lastErr
	}

	out := &ai.Verdict{
		Confidence: strings.ToLower(strings.TrimSpace(result.Confidence)),
		Candidates: make([]ai.CandidateVerdict, 0, len(result.Candidates)),
	}
	for _, c := range result.Candidates {
		score := c.Score
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		out.Candidates = append(out.Candidates, ai.CandidateVerdict{
			Key:           core.ReconciliationKey(c.Key),
			Score:         score,
			MatchedSkills: c.MatchedSkills,
			MissingSkills: c.MissingSkills,
			Rationale:     strings.TrimSpace(c.Rationale),
		})
	}

	r.logger.Debug("decision verdict",
		"candidates", len(out.Candidates),
		"confidence", out.Confidence)

	return out, nil
}

// isRateLimited reports whether a generation error is a rate-limit
// rejection. OpenAI-compatible backends surface these as HTTP 429, but the
// wrapped error only carries the message, so this matches on text.
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}

// wait sleeps for d unless the context ends first.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
