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


package decision

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/profilematch/ai"
	"github.com/poiesic/profilematch/core"
)

// Explainer turns reasoning backend verdicts into validated match decisions.
//
// The reasoning backend is treated as untrusted: verdicts for candidates that
// were never in the context are dropped, matched skills the candidate does not
// actually hold are demoted to missing, and scores are clamped. Every
// correction is surfaced as a warning on the decision rather than silently
// absorbed.
type Explainer struct {
	reasoner ai.Reasoner
	logger   *slog.Logger
}

// Option configures an Explainer.
type Option func(*Explainer)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Explainer) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExplainer creates a new Explainer backed by the provider's reasoner.
func NewExplainer(provider ai.Provider, opts ...Option) (*Explainer, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	e := &Explainer{
		reasoner: provider.Reasoner(),
		logger:   slog.Default().With("component", "decision"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Explain evaluates the decision context and returns a validated decision
// with candidates ordered by descending score.
func (e *Explainer) Explain(ctx context.Context, decisionCtx *ai.DecisionContext) (*core.MatchDecision, error) {
	if decisionCtx == nil || len(decisionCtx.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	verdict, err := e.reasoner.Decide(ctx, decisionCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReasonerBackend, err)
	}

	byKey := make(map[core.ReconciliationKey]*ai.CandidateContext, len(decisionCtx.Candidates))
	for i := range decisionCtx.Candidates {
		byKey[decisionCtx.Candidates[i].Key] = &decisionCtx.Candidates[i]
	}

	decision := &core.MatchDecision{
		Confidence: normalizeConfidence(verdict.Confidence),
	}

	seen := make(map[core.ReconciliationKey]bool, len(verdict.Candidates))
	for _, cv := range verdict.Candidates {
		candidate, ok := byKey[cv.Key]
		if !ok {
			decision.Warnings = append(decision.Warnings,
				fmt.Sprintf("dropped verdict for unknown key %d", cv.Key))
			e.logger.Warn("verdict references candidate outside the context", "key", cv.Key)
			continue
		}
		if seen[cv.Key] {
			decision.Warnings = append(decision.Warnings,
				fmt.Sprintf("dropped duplicate verdict for key %d", cv.Key))
			continue
		}
		seen[cv.Key] = true

		matched, demoted := partitionMatched(cv.MatchedSkills, decisionCtx.RequiredSkills, candidate.Skills)
		if len(demoted) > 0 {
			decision.Warnings = append(decision.Warnings,
				fmt.Sprintf("key %d: unsupported skill claims rejected: %s",
					cv.Key, strings.Join(demoted, ", ")))
		}

		decision.Candidates = append(decision.Candidates, core.CandidateDecision{
			Key:           cv.Key,
			Score:         clampScore(cv.Score),
			MatchedSkills: matched,
			MissingSkills: missingSkills(decisionCtx.RequiredSkills, matched),
			Rationale:     strings.TrimSpace(cv.Rationale),
		})
	}

	slices.SortStableFunc(decision.Candidates, func(a, b core.CandidateDecision) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	return decision, nil
}

// partitionMatched splits claimed matches into supported ones and rejected
// ones. A claim is supported only when the skill was both required and
// actually present on the candidate's profile.
func partitionMatched(claimed, required, held []string) (matched, demoted []string) {
	for _, skill := range claimed {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" || slices.Contains(matched, skill) {
			continue
		}
		if containsFold(required, skill) && containsFold(held, skill) {
			matched = append(matched, skill)
		} else {
			demoted = append(demoted, skill)
		}
	}
	return matched, demoted
}

func missingSkills(required, matched []string) []string {
	var missing []string
	for _, skill := range required {
		if !containsFold(matched, skill) {
			missing = append(missing, skill)
		}
	}
	return missing
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func normalizeConfidence(confidence string) string {
	switch strings.ToLower(strings.TrimSpace(confidence)) {
	case "low":
		return "low"
	case "medium":
		return "medium"
	case "high":
		return "high"
	default:
		return "low"
	}
}
