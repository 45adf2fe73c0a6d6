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


package jobs

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/ingestion"
	"github.com/poiesic/profilematch/skills"
	"github.com/poiesic/profilematch/storage"
)

// DocumentSource loads the parsed form of a stored document so it can be
// re-embedded. Implementations typically read from the original parsed
// document archive.
type DocumentSource interface {
	LoadDocument(ctx context.Context, documentID string) (*core.ParsedDocument, error)
}

// ReembedResult summarizes one corpus re-embed pass.
type ReembedResult struct {
	Total      int
	Reembedded int
	Skipped    int
	Failed     int

	// Errors maps document ID to its final error.
	Errors map[string]string
}

// Reembedder re-embeds the whole corpus, typically after a dictionary update
// or an embedding model change.
//
// Without force, documents whose stored fingerprint and dictionary version
// already match the current extraction are skipped; their points could not
// change. A corpus-level lock ensures only one pass runs at a time.
type Reembedder struct {
	points      storage.PointRepository
	pipeline    *ingestion.Pipeline
	extractor   *skills.Extractor
	source      DocumentSource
	maxAttempts int
	baseDelay   time.Duration
	progress    io.Writer
	logger      *slog.Logger

	corpusMu sync.Mutex
}

// ReembedOption configures a Reembedder.
type ReembedOption func(*Reembedder)

// WithProgress writes progress output to w (typically os.Stderr).
func WithProgress(w io.Writer) ReembedOption {
	return func(r *Reembedder) {
		r.progress = w
	}
}

// WithRetryPolicy sets the per-document attempt budget and base delay.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) ReembedOption {
	return func(r *Reembedder) {
		if maxAttempts >= 1 {
			r.maxAttempts = maxAttempts
		}
		r.baseDelay = baseDelay
	}
}

// NewReembedder creates a corpus re-embedder.
func NewReembedder(
	points storage.PointRepository,
	pipeline *ingestion.Pipeline,
	extractor *skills.Extractor,
	source DocumentSource,
	opts ...ReembedOption,
) (*Reembedder, error) {
	if points == nil {
		return nil, ingestion.ErrPointRepositoryRequired
	}
	if extractor == nil {
		return nil, ingestion.ErrExtractorRequired
	}

	r := &Reembedder{
		points:      points,
		pipeline:    pipeline,
		extractor:   extractor,
		source:      source,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		progress:    io.Discard,
		logger:      slog.Default().With("component", "reembed"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run re-embeds every stored document.
// Returns ErrReembedInProgress if another pass holds the corpus lock.
func (r *Reembedder) Run(ctx context.Context, force bool) (*ReembedResult, error) {
	if !r.corpusMu.TryLock() {
		return nil, ErrReembedInProgress
	}
	defer r.corpusMu.Unlock()

	documents, err := r.points.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	result := &ReembedResult{
		Total:  len(documents),
		Errors: make(map[string]string),
	}

	tracker := NewProgressTracker(r.progress, len(documents), 10)
	tracker.Start()
	defer tracker.Finish()

	for _, documentID := range documents {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		doc, err := r.source.LoadDocument(ctx, documentID)
		if err != nil {
			result.Failed++
			result.Errors[documentID] = err.Error()
			tracker.Increment(1)
			continue
		}

		if !force && r.fresh(ctx, doc) {
			result.Skipped++
			tracker.Increment(1)
			continue
		}

		if err := r.reembedOne(ctx, doc); err != nil {
			result.Failed++
			result.Errors[documentID] = err.Error()
		} else {
			result.Reembedded++
		}
		tracker.Increment(1)
	}

	r.logger.Info("reembed pass complete",
		"total", result.Total,
		"reembedded", result.Reembedded,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"elapsed", tracker.Elapsed())

	return result, nil
}

// reembedOne ingests a single document with linear-backoff retries on
// transient failures.
func (r *Reembedder) reembedOne(ctx context.Context, doc *core.ParsedDocument) error {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		_, lastErr = r.pipeline.IngestDocument(ctx, doc)
		if lastErr == nil {
			return nil
		}
		if !ingestion.IsRetryable(lastErr) || attempt == r.maxAttempts {
			return lastErr
		}
		if err := sleep(ctx, Backoff(r.baseDelay, attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

// fresh reports whether a document's stored points already reflect the
// current dictionary and content.
func (r *Reembedder) fresh(ctx context.Context, doc *core.ParsedDocument) bool {
	point, err := r.points.GetPoint(ctx, core.SkillPointID(doc.DocumentID))
	if err != nil {
		return false
	}

	extraction := r.extractor.Extract(doc)
	canonical := skills.DedupeCanonical(extraction.Skills)
	fingerprint := ingestion.Fingerprint(doc, canonical, extraction.DictionaryVersion)

	return point.Fingerprint == fingerprint && point.DictVersion == extraction.DictionaryVersion
}
