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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/profilematch"
	"github.com/poiesic/profilematch/ai"
	"github.com/poiesic/profilematch/availability"
	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/funnel"
	"github.com/poiesic/profilematch/ingestion"
	"github.com/poiesic/profilematch/jobs"
	"github.com/poiesic/profilematch/skills"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "profilematch",
		Usage: "Skill-based profile matching over embedded resume documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest one or more parsed profile documents",
				ArgsUsage: "FILE...",
				Action:    ingestCommand,
				Flags: append(commonFlags(),
					&cli.Int64Flag{
						Name:  "key",
						Usage: "Reconciliation key override for files without a numeric prefix",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Compute embeddings but write nothing",
					},
				),
			},
			{
				Name:      "ingest-batch",
				Usage:     "Ingest a directory of parsed profile documents through the job orchestrator",
				ArgsUsage: "DIR",
				Action:    ingestBatchCommand,
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Worker pool size",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "max-attempts",
						Usage: "Maximum attempts per document",
						Value: jobs.DefaultMaxAttempts,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for linear backoff",
						Value: jobs.DefaultBaseDelay,
					},
				),
			},
			{
				Name:      "reembed",
				Usage:     "Reembed the stored corpus from an archive of source documents",
				ArgsUsage: "ARCHIVE_DIR",
				Action:    reembedCommand,
				Flags: append(commonFlags(),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Reembed every document, even fresh ones",
					},
					&cli.IntFlag{
						Name:  "max-attempts",
						Usage: "Maximum attempts per document",
						Value: jobs.DefaultMaxAttempts,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for linear backoff",
						Value: jobs.DefaultBaseDelay,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Match candidates against required skills",
				ArgsUsage: "SKILL...",
				Action:    searchCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Availability mode (only_free, free_or_partial, any, unavailable)",
						Value: "any",
					},
					&cli.StringFlag{
						Name:  "domain",
						Usage: "Restrict to one primary skill domain",
					},
					&cli.IntFlag{
						Name:  "min-years",
						Usage: "Minimum total years of experience",
					},
					&cli.StringFlag{
						Name:  "seniority",
						Usage: "Restrict to one seniority bucket (junior, mid, senior, principal)",
					},
					&cli.IntFlag{
						Name:  "shortlist",
						Usage: "Vector shortlist size",
						Value: funnel.DefaultShortlistSize,
					},
					&cli.IntFlag{
						Name:  "max-candidates",
						Usage: "Candidates reaching the decision stage",
						Value: funnel.DefaultMaxCandidates,
					},
				),
			},
			{
				Name:      "load-availability",
				Usage:     "Bulk-load availability records from a staffing CSV export",
				ArgsUsage: "CSV_FILE",
				Action:    loadAvailabilityCommand,
				Flags: append(commonFlags(),
					&cli.DurationFlag{
						Name:  "ttl",
						Usage: "Record time-to-live",
						Value: availability.DefaultTTL,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to the data directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "dictionary",
			Usage:    "Path to the skill dictionary YAML",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible service host URL for embeddings and reasoning",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "reasoner-model",
			Usage: "Reasoning model name",
			Value: "qwen2.5:3b",
		},
		&cli.Float64Flag{
			Name:  "temperature",
			Usage: "Reasoning temperature",
			Value: 0.1,
		},
	}
}

func openSystem(c *cli.Context) (*profilematch.System, error) {
	dictionary, err := skills.LoadDictionary(c.String("dictionary"))
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithReasonerModel(c.String("reasoner-model")),
		ai.WithTemperature(c.Float64("temperature")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	system, err := profilematch.NewSystem(c.String("db"), dictionary,
		profilematch.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open system: %w", err)
	}
	return system, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one document file is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	pipeline, err := system.NewIngestionPipeline(
		ingestion.WithDryRun(c.Bool("dry-run")))
	if err != nil {
		return err
	}

	ctx := context.Background()
	override := core.ReconciliationKey(c.Int64("key"))
	for _, path := range c.Args().Slice() {
		doc, warning, err := ingestion.LoadDocumentFile(path, override)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if warning != "" {
			fmt.Fprintln(os.Stderr, "warning:", warning)
		}

		result, err := pipeline.IngestDocument(ctx, doc)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		fmt.Fprintf(os.Stderr, "%s: key=%d skills=%d experience_points=%d domain=%s\n",
			result.DocumentID, result.Key, len(result.Skills),
			result.ExperiencePoints, result.Domain)
		if len(result.Unmatched) > 0 {
			fmt.Fprintf(os.Stderr, "  unmatched skills: %s\n",
				strings.Join(result.Unmatched, ", "))
		}
	}
	return nil
}

func ingestBatchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one document directory is required")
	}
	dir := c.Args().First()

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	pipeline, err := system.NewIngestionPipeline()
	if err != nil {
		return err
	}

	docs, err := loadDocumentDirectory(dir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no document files found in %s", dir)
	}

	orchestrator, err := system.NewOrchestrator(
		jobs.WithPoolSize(c.Int("workers")),
		jobs.WithMaxAttempts(c.Int("max-attempts")),
		jobs.WithBaseDelay(c.Duration("retry-delay")),
	)
	if err != nil {
		return err
	}
	defer orchestrator.Release()

	result, err := orchestrator.IngestBatch(context.Background(), pipeline, docs)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "batch complete: %d total, %d succeeded, %d failed\n",
		result.Total, result.Succeeded, result.Failed)
	for documentID, message := range result.Errors {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", documentID, message)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d documents failed", result.Failed)
	}
	return nil
}

func loadDocumentDirectory(dir string) ([]*core.ParsedDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs []*core.ParsedDocument
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		doc, warning, err := ingestion.LoadDocumentFile(filepath.Join(dir, entry.Name()), 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if warning != "" {
			fmt.Fprintln(os.Stderr, "warning:", warning)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func reembedCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one archive directory is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	source := ingestion.NewDirectorySource(c.Args().First())
	reembedder, err := system.NewReembedder(source,
		jobs.WithProgress(os.Stderr),
		jobs.WithRetryPolicy(c.Int("max-attempts"), c.Duration("retry-delay")),
	)
	if err != nil {
		return err
	}

	result, err := reembedder.Run(context.Background(), c.Bool("force"))
	if err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "reembed complete: %d total, %d reembedded, %d skipped, %d failed\n",
		result.Total, result.Reembedded, result.Skipped, result.Failed)
	for documentID, message := range result.Errors {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", documentID, message)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one required skill is needed")
	}

	mode, err := availability.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	matcher, err := system.NewFunnel()
	if err != nil {
		return err
	}

	start := time.Now()
	outcome, err := matcher.Run(context.Background(), &funnel.Query{
		Skills:             c.Args().Slice(),
		Mode:               mode,
		Domain:             c.String("domain"),
		MinExperienceYears: c.Int("min-years"),
		Seniority:          c.String("seniority"),
		ShortlistSize:      c.Int("shortlist"),
		MaxCandidates:      c.Int("max-candidates"),
	})
	if err != nil {
		return err
	}

	for _, warning := range outcome.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}

	if outcome.Empty() {
		fmt.Printf("no candidates (emptied at %s stage; corpus=%d eligible=%d shortlisted=%d)\n",
			outcome.EmptyStage, outcome.Corpus, outcome.Eligible, outcome.Shortlisted)
		return nil
	}

	decision := outcome.Decision
	fmt.Printf("%d candidates, confidence %s (%.2fs)\n",
		len(decision.Candidates), decision.Confidence, time.Since(start).Seconds())
	if decision.Degraded {
		fmt.Println("note: availability data was unavailable; results include allocated candidates")
	}
	for i, candidate := range decision.Candidates {
		fmt.Printf("%d. key=%d score=%.2f\n", i+1, candidate.Key, candidate.Score)
		if len(candidate.MatchedSkills) > 0 {
			fmt.Printf("   matched: %s\n", strings.Join(candidate.MatchedSkills, ", "))
		}
		if len(candidate.MissingSkills) > 0 {
			fmt.Printf("   missing: %s\n", strings.Join(candidate.MissingSkills, ", "))
		}
		if candidate.Rationale != "" {
			fmt.Printf("   %s\n", candidate.Rationale)
		}
	}
	return nil
}

func loadAvailabilityCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one CSV file is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	loader, err := system.NewAvailabilityLoader(
		availability.WithTTL(c.Duration("ttl")))
	if err != nil {
		return err
	}

	result, err := loader.LoadFile(context.Background(), c.Args().First())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "availability loaded: %d records, %d rows skipped\n",
		result.Loaded, result.Skipped)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
