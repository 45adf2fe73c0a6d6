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


package profilematch

import (
	"log/slog"
	"path/filepath"

	"github.com/poiesic/profilematch/ai"
	"github.com/poiesic/profilematch/ai/openai"
	"github.com/poiesic/profilematch/availability"
	"github.com/poiesic/profilematch/decision"
	"github.com/poiesic/profilematch/funnel"
	"github.com/poiesic/profilematch/ingestion"
	"github.com/poiesic/profilematch/jobs"
	"github.com/poiesic/profilematch/skills"
	"github.com/poiesic/profilematch/storage"
	"github.com/poiesic/profilematch/storage/badger"
)

// System wires the storage backends, the skill dictionary, and the AI
// provider into one handle.
//
// Knowledge and state live in separate backends: embedding points in one,
// volatile availability records in another. An availability outage therefore
// never takes the knowledge store down with it.
type System struct {
	pointsBackend *badger.Backend
	availBackend  *badger.Backend
	points        storage.PointRepository
	avail         storage.AvailabilityStore
	provider      ai.Provider
	dictionary    *skills.Dictionary
	extractor     *skills.Extractor
	normalizer    *skills.Normalizer
	logger        *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the AI backend configuration.
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider, bypassing aiConfig.
// Intended for tests and offline tooling.
func WithProvider(provider ai.Provider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps both stores in memory. The data directory is ignored.
func WithInMemory() SystemOption {
	return func(o *systemOptions) {
		o.inMemory = true
	}
}

// NewSystem opens the stores under dataDir and wires the components around
// the given dictionary.
func NewSystem(dataDir string, dictionary *skills.Dictionary, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	extractor, err := skills.NewExtractor(dictionary)
	if err != nil {
		return nil, err
	}
	normalizer, err := skills.NewNormalizer(dictionary)
	if err != nil {
		return nil, err
	}

	pointsBackend, err := badger.OpenBackend(filepath.Join(dataDir, "points"), options.inMemory)
	if err != nil {
		return nil, err
	}
	availBackend, err := badger.OpenBackend(filepath.Join(dataDir, "availability"), options.inMemory)
	if err != nil {
		pointsBackend.Close()
		return nil, err
	}

	points, err := badger.NewPointRepository(pointsBackend)
	if err != nil {
		availBackend.Close()
		pointsBackend.Close()
		return nil, err
	}
	avail, err := badger.NewAvailabilityStore(availBackend)
	if err != nil {
		points.Close()
		availBackend.Close()
		pointsBackend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			avail.Close()
			points.Close()
			availBackend.Close()
			pointsBackend.Close()
			return nil, err
		}
	}

	return &System{
		pointsBackend: pointsBackend,
		availBackend:  availBackend,
		points:        points,
		avail:         avail,
		provider:      provider,
		dictionary:    dictionary,
		extractor:     extractor,
		normalizer:    normalizer,
		logger:        slog.Default(),
	}, nil
}

// Close releases the provider and both stores, in reverse wiring order.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.avail.Close(); err != nil {
		s.logger.Error("error closing availability store", "err", err)
		return err
	}
	if err := s.points.Close(); err != nil {
		s.logger.Error("error closing point repository", "err", err)
		return err
	}

	if err := s.availBackend.Close(); err != nil {
		s.logger.Error("error closing availability backend", "err", err)
		return err
	}
	if err := s.pointsBackend.Close(); err != nil {
		s.logger.Error("error closing points backend", "err", err)
		return err
	}
	return nil
}

// PointRepository returns the embedding point store.
func (s *System) PointRepository() storage.PointRepository {
	return s.points
}

// AvailabilityStore returns the volatile availability store.
func (s *System) AvailabilityStore() storage.AvailabilityStore {
	return s.avail
}

// Dictionary returns the skill dictionary the system was opened with.
func (s *System) Dictionary() *skills.Dictionary {
	return s.dictionary
}

// Extractor returns the skill extractor bound to the dictionary.
func (s *System) Extractor() *skills.Extractor {
	return s.extractor
}

// Provider returns the AI provider.
func (s *System) Provider() ai.Provider {
	return s.provider
}

// NewIngestionPipeline creates an ingestion pipeline over the system's stores.
func (s *System) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(s.points, s.provider, s.extractor, opts...)
}

// NewOrchestrator creates a job orchestrator.
func (s *System) NewOrchestrator(opts ...jobs.OrchestratorOption) (*jobs.Orchestrator, error) {
	return jobs.NewOrchestrator(opts...)
}

// NewGate creates an availability gate over the system's availability store.
func (s *System) NewGate() (*availability.Gate, error) {
	return availability.NewGate(s.avail)
}

// NewAvailabilityLoader creates a CSV loader for the availability store.
func (s *System) NewAvailabilityLoader(opts ...availability.LoaderOption) (*availability.Loader, error) {
	return availability.NewLoader(s.avail, opts...)
}

// NewReembedder creates a corpus reembedder reading source documents from
// the given archive.
func (s *System) NewReembedder(source jobs.DocumentSource, opts ...jobs.ReembedOption) (*jobs.Reembedder, error) {
	pipeline, err := s.NewIngestionPipeline()
	if err != nil {
		return nil, err
	}
	return jobs.NewReembedder(s.points, pipeline, s.extractor, source, opts...)
}

// NewFunnel creates a matching funnel with the decision explainer wired in.
func (s *System) NewFunnel(opts ...funnel.Option) (*funnel.Funnel, error) {
	gate, err := s.NewGate()
	if err != nil {
		return nil, err
	}
	explainer, err := decision.NewExplainer(s.provider)
	if err != nil {
		return nil, err
	}
	return funnel.NewFunnel(s.points, gate, s.provider, s.normalizer, explainer, opts...)
}
