package ai

import (
	"context"

	"github.com/poiesic/profilematch/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Reasoner produces an explained match verdict for a bounded candidate context.
// Implementations must be stateless between calls and thread-safe.
type Reasoner interface {
	// Decide evaluates the supplied context and returns a verdict with one
	// entry per candidate: a score, matched and missing skills, and a short
	// rationale. The verdict may only reference material present in the
	// context; shape validation is the caller's responsibility.
	Decide(ctx context.Context, decisionCtx *DecisionContext) (*Verdict, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Reasoner returns the decision reasoning service.
	// The returned Reasoner is safe for concurrent use.
	Reasoner() Reasoner

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}

// CandidateContext is the fixed per-candidate schema handed to the reasoning
// backend. Normalized skills always precede supporting experience so profiles
// are directly comparable.
type CandidateContext struct {
	// Key is the reconciliation key every rationale claim must cite.
	Key core.ReconciliationKey

	// Skills are the candidate's normalized canonical skills.
	Skills []string

	// Domain is the candidate's primary skill domain.
	Domain string

	// SeniorityBucket is the inferred seniority bucket.
	SeniorityBucket string

	// Experience is a bounded list of supporting experience snippets.
	// Corroborating evidence only, never a primary signal.
	Experience []string
}

// DecisionContext is the structured, bounded context for one decision call.
type DecisionContext struct {
	// RequiredSkills are the normalized skills from the request.
	RequiredSkills []string

	// Candidates are the fully expanded candidate profiles, capped by the
	// funnel's decision stage.
	Candidates []CandidateContext
}

// CandidateVerdict is the reasoning backend's output for one candidate.
type CandidateVerdict struct {
	Key           core.ReconciliationKey
	Score         float64
	MatchedSkills []string
	MissingSkills []string
	Rationale     string
}

// Verdict is the reasoning backend's full response.
type Verdict struct {
	Candidates []CandidateVerdict
	Confidence string
}
