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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/profilematch/ai"
	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/skills"
	"github.com/poiesic/profilematch/storage"
)

// DefaultBatchSize is how many points are upserted per storage batch.
const DefaultBatchSize = 64

// Pipeline turns parsed profile documents into embedding points.
//
// Point IDs are deterministic functions of the document ID, so ingestion is
// idempotent: the skills point is overwritten in place, and experience points
// are deleted and reinserted as a set because a re-parsed document may carry
// fewer experiences than before.
type Pipeline struct {
	points    storage.PointRepository
	embedder  ai.Embedder
	extractor *skills.Extractor
	batchSize int
	dryRun    bool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithBatchSize sets the upsert batch size.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithDryRun makes the pipeline compute everything but write nothing.
func WithDryRun(dryRun bool) Option {
	return func(p *Pipeline) error {
		p.dryRun = dryRun
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	points storage.PointRepository,
	provider ai.Provider,
	extractor *skills.Extractor,
	opts ...Option,
) (*Pipeline, error) {
	if points == nil {
		return nil, ErrPointRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	p := &Pipeline{
		points:    points,
		embedder:  provider.Embedder(),
		extractor: extractor,
		batchSize: DefaultBatchSize,
		logger:    slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Result summarizes one document ingestion.
type Result struct {
	DocumentID       string
	Key              core.ReconciliationKey
	SkillPoints      int
	ExperiencePoints int
	DeletedPoints    int
	Skills           []string
	Unmatched        []string
	Domain           string
	Fingerprint      core.ID
	DryRun           bool
}

// IngestDocument embeds one parsed document and upserts its points.
//
// Exactly one skills point is produced even when every mention is unknown,
// so the document remains discoverable. One experience point is produced per
// experience with a non-empty description.
func (p *Pipeline) IngestDocument(ctx context.Context, doc *core.ParsedDocument) (*Result, error) {
	if err := core.ValidateParsedDocument(doc); err != nil {
		return nil, err
	}

	extraction := p.extractor.Extract(doc)
	canonical := skills.DedupeCanonical(extraction.Skills)
	domain := skills.PrimaryDomain(extraction.Skills)
	years := totalExperienceYears(doc.Experiences)

	texts := []string{skillsText(doc, canonical)}
	expIndexes := make([]int, 0, len(doc.Experiences))
	for i, exp := range doc.Experiences {
		if strings.TrimSpace(exp.Description) == "" {
			continue
		}
		texts = append(texts, experienceText(&exp))
		expIndexes = append(expIndexes, i)
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingBackend, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d vectors, received %d",
			ErrEmbeddingBackend, len(texts), len(vectors))
	}

	fingerprint := Fingerprint(doc, canonical, extraction.DictionaryVersion)
	now := time.Now().UTC()

	pointsToWrite := make([]*core.EmbeddingPoint, 0, len(texts))
	pointsToWrite = append(pointsToWrite, &core.EmbeddingPoint{
		ID:              core.SkillPointID(doc.DocumentID),
		Vector:          NormalizeVector(vectors[0]),
		Key:             doc.Key,
		DocumentID:      doc.DocumentID,
		Section:         core.SectionSkills,
		Skills:          canonical,
		Domain:          domain,
		SeniorityBucket: seniorityBucket(years),
		DictVersion:     extraction.DictionaryVersion,
		Fingerprint:     fingerprint,
		ExperienceYears: years,
		Snippet:         texts[0],
		Timestamp:       now,
	})
	for n, i := range expIndexes {
		pointsToWrite = append(pointsToWrite, &core.EmbeddingPoint{
			ID:              core.ExperiencePointID(doc.DocumentID, n),
			Vector:          NormalizeVector(vectors[n+1]),
			Key:             doc.Key,
			DocumentID:      doc.DocumentID,
			Section:         core.SectionExperience,
			Skills:          canonical,
			Domain:          domain,
			SeniorityBucket: seniorityBucket(years),
			DictVersion:     extraction.DictionaryVersion,
			Fingerprint:     fingerprint,
			ExperienceYears: doc.Experiences[i].Years(now),
			Snippet:         texts[n+1],
			Timestamp:       now,
		})
	}

	result := &Result{
		DocumentID:       doc.DocumentID,
		Key:              doc.Key,
		SkillPoints:      1,
		ExperiencePoints: len(expIndexes),
		Skills:           canonical,
		Unmatched:        extraction.Unmatched,
		Domain:           domain,
		Fingerprint:      fingerprint,
		DryRun:           p.dryRun,
	}

	if p.dryRun {
		p.logger.Info("dry run, skipping writes",
			"document", doc.DocumentID, "points", len(pointsToWrite))
		return result, nil
	}

	// Experience points are replaced as a set. The skills point has a fixed
	// ID and is simply overwritten.
	deleted, err := p.points.DeleteDocumentPoints(ctx, doc.DocumentID, core.SectionExperience)
	if err != nil {
		return nil, err
	}
	result.DeletedPoints = deleted

	for start := 0; start < len(pointsToWrite); start += p.batchSize {
		end := min(start+p.batchSize, len(pointsToWrite))
		if err := p.points.UpsertPoints(ctx, pointsToWrite[start:end]...); err != nil {
			return nil, err
		}
	}

	p.logger.Info("document ingested",
		"document", doc.DocumentID,
		"key", doc.Key,
		"skills", len(canonical),
		"unmatched", len(extraction.Unmatched),
		"experience_points", result.ExperiencePoints)

	return result, nil
}

// Fingerprint derives a content fingerprint for a document's embeddable
// material. Two documents with the same fingerprint and dictionary version
// would produce identical points, so re-embedding them is redundant.
func Fingerprint(doc *core.ParsedDocument, canonical []string, dictVersion string) core.ID {
	var b strings.Builder
	b.WriteString(dictVersion)
	b.WriteByte('|')
	b.WriteString(strings.Join(canonical, ","))
	for _, exp := range doc.Experiences {
		b.WriteByte('|')
		b.WriteString(experienceText(&exp))
	}
	return core.IDFromContent(b.String())
}

// skillsText builds the text embedded for the skills section. Documents with
// zero resolvable skills fall back to their raw mentions so they still get a
// point and stay discoverable.
func skillsText(doc *core.ParsedDocument, canonical []string) string {
	if len(canonical) > 0 {
		return strings.Join(canonical, ", ")
	}
	if len(doc.Skills.Keywords) > 0 {
		return strings.Join(doc.Skills.Keywords, ", ")
	}
	if doc.Skills.RawText != "" {
		return doc.Skills.RawText
	}
	return "no stated skills"
}

func experienceText(exp *core.ExperienceItem) string {
	var parts []string
	if exp.Role != "" {
		parts = append(parts, exp.Role)
	}
	if exp.Company != "" {
		parts = append(parts, "at "+exp.Company)
	}
	header := strings.Join(parts, " ")
	if header == "" {
		return exp.Description
	}
	return header + ". " + exp.Description
}

func totalExperienceYears(experiences []core.ExperienceItem) int {
	now := time.Now().UTC()
	total := 0
	for _, exp := range experiences {
		if years := exp.Years(now); years > 0 {
			total += years
		}
	}
	return total
}

// seniorityBucket maps total experience years to a coarse bucket.
func seniorityBucket(years int) string {
	switch {
	case years >= 10:
		return "principal"
	case years >= 6:
		return "senior"
	case years >= 3:
		return "mid"
	default:
		return "junior"
	}
}
