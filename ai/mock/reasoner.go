package mock

import (
	"context"
	"slices"

	"github.com/poiesic/profilematch/ai"
)

// MockReasoner is a test double for ai.Reasoner.
// It allows custom behavior injection via function fields.
type MockReasoner struct {
	// DecideFunc is called by Decide if set.
	// If nil, uses default skill-overlap scoring.
	DecideFunc func(ctx context.Context, decisionCtx *ai.DecisionContext) (*ai.Verdict, error)

	callCount int
}

// NewMockReasoner creates a mock reasoner with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockReasoner().
func NewMockReasoner() *MockReasoner {
	return &MockReasoner{}
}

// Decide produces a verdict by plain skill overlap.
// Default behavior: score = matched/required, rationale cites matched skills,
// candidates kept in input order. Deterministic for assertions.
func (m *MockReasoner) Decide(ctx context.Context, decisionCtx *ai.DecisionContext) (*ai.Verdict, error) {
	m.callCount++

	if m.DecideFunc != nil {
		return m.DecideFunc(ctx, decisionCtx)
	}

	verdict := &ai.Verdict{
		Confidence: "high",
		Candidates: make([]ai.CandidateVerdict, 0, len(decisionCtx.Candidates)),
	}

	for _, candidate := range decisionCtx.Candidates {
		var matched, missing []string
		for _, required := range decisionCtx.RequiredSkills {
			if slices.Contains(candidate.Skills, required) {
				matched = append(matched, required)
			} else {
				missing = append(missing, required)
			}
		}

		score := 0.0
		if len(decisionCtx.RequiredSkills) > 0 {
			score = float64(len(matched)) / float64(len(decisionCtx.RequiredSkills))
		}

		rationale := "no required skills matched"
		if len(matched) > 0 {
			rationale = "matched: " + matched[0]
		}

		verdict.Candidates = append(verdict.Candidates, ai.CandidateVerdict{
			Key:           candidate.Key,
			Score:         score,
			MatchedSkills: matched,
			MissingSkills: missing,
			Rationale:     rationale,
		})
	}

	return verdict, nil
}

// CallCount returns the number of times Decide was called.
func (m *MockReasoner) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockReasoner) Reset() {
	m.callCount = 0
	m.DecideFunc = nil
}
