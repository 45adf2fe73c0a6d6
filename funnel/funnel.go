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


package funnel

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/profilematch/ai"
	"github.com/poiesic/profilematch/availability"
	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/ingestion"
	"github.com/poiesic/profilematch/skills"
	"github.com/poiesic/profilematch/storage"
)

const (
	// DefaultShortlistSize is how many profiles the vector stage keeps.
	DefaultShortlistSize = 30

	// DefaultMaxCandidates is how many profiles reach the decision stage.
	// Kept small so every candidate gets a fully expanded context.
	DefaultMaxCandidates = 6

	// enrichmentConcurrency bounds parallel point fetches during enrichment.
	enrichmentConcurrency = 4

	// maxExperiencePerCandidate bounds how many experience snippets a single
	// candidate contributes to the decision context. Snippets are taken in
	// stored order, so the document's leading experience entries win.
	maxExperiencePerCandidate = 5

	// Weights for the combined pre-decision score. Vector similarity ranks,
	// skill overlap corrects; neither alone decides who reaches the
	// reasoning stage.
	similarityWeight = 0.7
	matchRatioWeight = 0.3
)

// Stage identifies one narrowing step of the funnel.
type Stage string

const (
	StageCorpus       Stage = "corpus"
	StageAvailability Stage = "availability"
	StageShortlist    Stage = "shortlist"
)

// Decider turns a bounded decision context into a final match decision.
// Implemented by decision.Explainer.
type Decider interface {
	Explain(ctx context.Context, decisionCtx *ai.DecisionContext) (*core.MatchDecision, error)
}

// Query describes one matching request.
type Query struct {
	// Skills are the required skills, raw. They are normalized against the
	// dictionary before any matching happens.
	Skills []string

	// Mode selects the availability gate behavior.
	Mode availability.Mode

	// Domain, when set, restricts the shortlist to one primary skill domain.
	Domain string

	// MinExperienceYears, when positive, restricts the shortlist to profiles
	// with at least that much total experience.
	MinExperienceYears int

	// Seniority, when set, restricts the shortlist to one seniority bucket
	// (junior, mid, senior or principal).
	Seniority string

	// ShortlistSize overrides DefaultShortlistSize when positive.
	ShortlistSize int

	// MaxCandidates overrides DefaultMaxCandidates when positive.
	MaxCandidates int
}

// Outcome is the result of one funnel run, including per-stage population
// counts. A run that empties at some stage is a legitimate outcome, not an
// error: Decision is nil and EmptyStage names the stage that emptied the set.
type Outcome struct {
	// Decision is the reasoned match decision. Nil when EmptyStage is set.
	Decision *core.MatchDecision

	// EmptyStage names the first stage that left zero candidates, or is
	// empty when a decision was produced. Stages only narrow, so the first
	// empty stage fully explains a no-result run.
	EmptyStage Stage

	// Degraded is true when the availability gate could not consult its
	// store and admitted every candidate.
	Degraded bool

	// Warnings carries funnel-level notices: unknown requested skills and
	// degraded availability.
	Warnings []string

	// Per-stage population counts.
	Corpus      int
	Eligible    int
	Shortlisted int
	Decided     int
}

// Empty reports whether the run produced no candidates.
func (o *Outcome) Empty() bool {
	return o.EmptyStage != ""
}

// Funnel runs the staged matching pipeline.
//
// The stages are strictly ordered and each one only narrows the candidate
// set: availability gate, metadata filters, vector shortlist, experience
// enrichment, then the reasoned decision over a small capped set. Cheap
// filters run before expensive ones, and nothing excluded early can
// reappear later.
type Funnel struct {
	points     storage.PointRepository
	gate       *availability.Gate
	normalizer *skills.Normalizer
	embedder   ai.Embedder
	decider    Decider
	logger     *slog.Logger
}

// Option configures a Funnel.
type Option func(*Funnel)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Funnel) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFunnel creates a matching funnel.
func NewFunnel(
	points storage.PointRepository,
	gate *availability.Gate,
	provider ai.Provider,
	normalizer *skills.Normalizer,
	decider Decider,
	opts ...Option,
) (*Funnel, error) {
	if points == nil {
		return nil, ErrPointRepositoryRequired
	}
	if gate == nil {
		return nil, ErrGateRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if normalizer == nil {
		return nil, ErrNormalizerRequired
	}
	if decider == nil {
		return nil, ErrDeciderRequired
	}

	f := &Funnel{
		points:     points,
		gate:       gate,
		normalizer: normalizer,
		embedder:   provider.Embedder(),
		decider:    decider,
		logger:     slog.Default().With("component", "funnel"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Run executes the funnel for one query.
func (f *Funnel) Run(ctx context.Context, query *Query) (*Outcome, error) {
	if query == nil || len(query.Skills) == 0 {
		return nil, ErrSkillsRequired
	}

	outcome := &Outcome{}
	required := f.normalizeRequired(query.Skills, outcome)

	keys, err := f.points.ListKeys(ctx)
	if err != nil {
		return nil, err
	}
	outcome.Corpus = len(keys)
	if len(keys) == 0 {
		outcome.EmptyStage = StageCorpus
		return outcome, nil
	}

	gateResult, err := f.gate.Filter(ctx, keys, query.Mode)
	if err != nil {
		return nil, err
	}
	outcome.Eligible = len(gateResult.Eligible)
	if gateResult.Degraded {
		outcome.Degraded = true
		outcome.Warnings = append(outcome.Warnings,
			"availability store unreachable, availability filter not applied")
	}
	if len(gateResult.Eligible) == 0 {
		outcome.EmptyStage = StageAvailability
		return outcome, nil
	}

	shortlist, err := f.shortlist(ctx, query, required, gateResult.Eligible)
	if err != nil {
		return nil, err
	}
	outcome.Shortlisted = len(shortlist)
	if len(shortlist) == 0 {
		outcome.EmptyStage = StageShortlist
		return outcome, nil
	}

	maxCandidates := query.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	finalists := rankCombined(shortlist, required)
	if len(finalists) > maxCandidates {
		finalists = finalists[:maxCandidates]
	}

	candidates, err := f.enrich(ctx, finalists)
	if err != nil {
		return nil, err
	}

	decision, err := f.decider.Explain(ctx, &ai.DecisionContext{
		RequiredSkills: required,
		Candidates:     candidates,
	})
	if err != nil {
		return nil, err
	}

	decision.Degraded = decision.Degraded || outcome.Degraded
	outcome.Decision = decision
	outcome.Decided = len(decision.Candidates)

	f.logger.Info("funnel completed",
		"required_skills", len(required),
		"corpus", outcome.Corpus,
		"eligible", outcome.Eligible,
		"shortlisted", outcome.Shortlisted,
		"decided", outcome.Decided,
		"degraded", outcome.Degraded)

	return outcome, nil
}

// normalizeRequired resolves the requested skills against the dictionary.
// Unknown skills stay in the query verbatim so they still count against
// every candidate, with a warning attached to the outcome.
func (f *Funnel) normalizeRequired(raw []string, outcome *Outcome) []string {
	var required []string
	for _, mention := range raw {
		normalized := f.normalizer.Normalize(mention)
		skill := normalized.Canonical
		if normalized.Match == core.MatchUnknown {
			skill = strings.ToLower(strings.TrimSpace(mention))
			outcome.Warnings = append(outcome.Warnings,
				fmt.Sprintf("skill %q is not in the dictionary", mention))
		}
		if skill == "" || containsFold(required, skill) {
			continue
		}
		required = append(required, skill)
	}
	return required
}

// shortlist embeds the required skills and runs the filtered vector search
// over the eligible candidates' skill points.
func (f *Funnel) shortlist(ctx context.Context, query *Query, required []string, eligible []core.ReconciliationKey) ([]*core.ScoredPoint, error) {
	queryVector, err := f.embedder.EmbedText(ctx, strings.Join(required, ", "))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ingestion.ErrEmbeddingBackend, err)
	}

	size := query.ShortlistSize
	if size <= 0 {
		size = DefaultShortlistSize
	}

	return f.points.Search(ctx, ingestion.NormalizeVector(queryVector), &storage.Filter{
		Keys:            eligible,
		Section:         core.SectionSkills,
		Domain:          query.Domain,
		SeniorityBucket: query.Seniority,
		MinYears:        query.MinExperienceYears,
	}, size)
}

// rankCombined orders the shortlist by a combined score of vector similarity
// and required-skill overlap. The combined score only decides who reaches the
// decision stage; the reasoner produces the authoritative ranking.
func rankCombined(shortlist []*core.ScoredPoint, required []string) []*core.ScoredPoint {
	combined := func(sp *core.ScoredPoint) float64 {
		return similarityWeight*float64(sp.Score) +
			matchRatioWeight*matchRatio(sp.Point.Skills, required)
	}
	ranked := slices.Clone(shortlist)
	slices.SortStableFunc(ranked, func(a, b *core.ScoredPoint) int {
		ca, cb := combined(a), combined(b)
		if ca > cb {
			return -1
		}
		if ca < cb {
			return 1
		}
		return 0
	})
	return ranked
}

// matchRatio is the fraction of required skills the candidate holds.
func matchRatio(held, required []string) float64 {
	if len(required) == 0 {
		return 0
	}
	matched := 0
	for _, skill := range required {
		if containsFold(held, skill) {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}

// enrich expands shortlisted skill points into full candidate contexts by
// attaching each profile's experience snippets, capped per candidate so one
// long profile cannot flood the decision context.
func (f *Funnel) enrich(ctx context.Context, finalists []*core.ScoredPoint) ([]ai.CandidateContext, error) {
	candidates := make([]ai.CandidateContext, len(finalists))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichmentConcurrency)
	for i, scored := range finalists {
		g.Go(func() error {
			point := scored.Point
			documentPoints, err := f.points.GetDocumentPoints(gctx, point.DocumentID)
			if err != nil {
				return err
			}

			var experience []string
			for _, p := range documentPoints {
				if len(experience) == maxExperiencePerCandidate {
					break
				}
				if p.Section == core.SectionExperience && p.Snippet != "" {
					experience = append(experience, p.Snippet)
				}
			}

			candidates[i] = ai.CandidateContext{
				Key:             point.Key,
				Skills:          point.Skills,
				Domain:          point.Domain,
				SeniorityBucket: point.SeniorityBucket,
				Experience:      experience,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return candidates, nil
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}
