package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/profilematch/ai/mock"
	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/skills"
	"github.com/poiesic/profilematch/storage"
	badgerstore "github.com/poiesic/profilematch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDictionaryYAML = `
version: "1.0.0"
domains:
  - backend
  - frontend
skills:
  python:
    canonical: python
    domain: backend
    aliases: [py]
  fastapi:
    canonical: fastapi
    domain: backend
  react:
    canonical: react
    domain: frontend
    aliases: [reactjs]
`

func setupPipeline(t *testing.T, opts ...Option) (*Pipeline, storage.PointRepository) {
	t.Helper()

	points, _, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		points.Close()
		backend.Close()
	})

	dictionary, err := skills.ParseDictionary([]byte(testDictionaryYAML))
	require.NoError(t, err)
	extractor, err := skills.NewExtractor(dictionary)
	require.NoError(t, err)

	pipeline, err := NewPipeline(points, mock.NewMockProvider(), extractor, opts...)
	require.NoError(t, err)
	return pipeline, points
}

func testDocument() *core.ParsedDocument {
	return &core.ParsedDocument{
		Key:        100000,
		DocumentID: "cv_100000",
		FileName:   "100000_jane_doe.pdf",
		FullName:   "Jane Doe",
		Skills: core.SkillSection{
			Keywords: []string{"Python", "FastAPI"},
		},
		Experiences: []core.ExperienceItem{
			{
				Company:     "Acme",
				Role:        "Backend Engineer",
				StartDate:   time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
				EndDate:     time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
				Description: "Built payment APIs with FastAPI.",
			},
			{
				Company:     "Globex",
				Role:        "Senior Engineer",
				StartDate:   time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
				Current:     true,
				Description: "Leads the platform team.",
			},
		},
	}
}

func TestIngestDocument(t *testing.T) {
	pipeline, points := setupPipeline(t)
	ctx := context.Background()

	result, err := pipeline.IngestDocument(ctx, testDocument())
	require.NoError(t, err)
	assert.Equal(t, 1, result.SkillPoints)
	assert.Equal(t, 2, result.ExperiencePoints)
	assert.Equal(t, []string{"python", "fastapi"}, result.Skills)
	assert.Equal(t, "backend", result.Domain)
	assert.NotZero(t, result.Fingerprint)

	stored, err := points.GetDocumentPoints(ctx, "cv_100000")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "cv_100000_skills", stored[0].ID)
	assert.Equal(t, "cv_100000_exp_0", stored[1].ID)
	assert.Equal(t, "cv_100000_exp_1", stored[2].ID)

	for _, point := range stored {
		assert.Equal(t, core.ReconciliationKey(100000), point.Key)
		assert.Equal(t, "1.0.0", point.DictVersion)
		assert.Equal(t, result.Fingerprint, point.Fingerprint)
		assert.NotEmpty(t, point.Vector)
	}
}

func TestIngestDocument_Idempotent(t *testing.T) {
	pipeline, points := setupPipeline(t)
	ctx := context.Background()

	_, err := pipeline.IngestDocument(ctx, testDocument())
	require.NoError(t, err)
	_, err = pipeline.IngestDocument(ctx, testDocument())
	require.NoError(t, err)

	count, err := points.CountPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count, "re-running a document must not accumulate points")
}

func TestIngestDocument_DropsStaleExperiences(t *testing.T) {
	pipeline, points := setupPipeline(t)
	ctx := context.Background()

	_, err := pipeline.IngestDocument(ctx, testDocument())
	require.NoError(t, err)

	// Re-parse with one experience removed.
	doc := testDocument()
	doc.Experiences = doc.Experiences[:1]
	result, err := pipeline.IngestDocument(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 2, result.DeletedPoints)
	assert.Equal(t, 1, result.ExperiencePoints)

	stored, err := points.GetDocumentPoints(ctx, "cv_100000")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "cv_100000_exp_0", stored[1].ID)
}

func TestIngestDocument_AllUnknownSkillsStillProducesPoint(t *testing.T) {
	pipeline, points := setupPipeline(t)
	ctx := context.Background()

	doc := &core.ParsedDocument{
		Key:        7,
		DocumentID: "cv_7",
		Skills:     core.SkillSection{Keywords: []string{"alchemy", "phrenology"}},
	}

	result, err := pipeline.IngestDocument(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, result.SkillPoints)
	assert.Empty(t, result.Skills)
	assert.Equal(t, []string{"alchemy", "phrenology"}, result.Unmatched)

	stored, err := points.GetDocumentPoints(ctx, "cv_7")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "unknown", stored[0].Domain)
}

func TestIngestDocument_SkipsEmptyExperienceDescriptions(t *testing.T) {
	pipeline, _ := setupPipeline(t)

	doc := testDocument()
	doc.Experiences = append(doc.Experiences, core.ExperienceItem{Company: "Hooli", Role: "Advisor"})

	result, err := pipeline.IngestDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ExperiencePoints)
}

func TestIngestDocument_DryRun(t *testing.T) {
	pipeline, points := setupPipeline(t, WithDryRun(true))
	ctx := context.Background()

	result, err := pipeline.IngestDocument(ctx, testDocument())
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 2, result.ExperiencePoints)

	count, err := points.CountPoints(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "dry run must not write")
}

func TestIngestDocument_Invalid(t *testing.T) {
	pipeline, _ := setupPipeline(t)

	_, err := pipeline.IngestDocument(context.Background(), &core.ParsedDocument{DocumentID: "cv_x"})
	assert.ErrorIs(t, err, core.ErrMissingReconciliationKey)
	assert.False(t, IsRetryable(err), "validation failures are terminal")
}

func TestIngestDocument_EmbedderFailureIsRetryable(t *testing.T) {
	points, _, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	dictionary, err := skills.ParseDictionary([]byte(testDictionaryYAML))
	require.NoError(t, err)
	extractor, err := skills.NewExtractor(dictionary)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("connection refused")
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockReasoner())

	pipeline, err := NewPipeline(points, provider, extractor)
	require.NoError(t, err)

	_, err = pipeline.IngestDocument(context.Background(), testDocument())
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}

func TestFingerprint_Deterministic(t *testing.T) {
	doc := testDocument()
	a := Fingerprint(doc, []string{"python", "fastapi"}, "1.0.0")
	b := Fingerprint(doc, []string{"python", "fastapi"}, "1.0.0")
	assert.Equal(t, a, b)

	c := Fingerprint(doc, []string{"python"}, "1.0.0")
	assert.NotEqual(t, a, c)

	d := Fingerprint(doc, []string{"python", "fastapi"}, "1.1.0")
	assert.NotEqual(t, a, d, "dictionary version is part of the fingerprint")
}

func TestNormalizeVector(t *testing.T) {
	normalized := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, normalized[0], 1e-6)
	assert.InDelta(t, 0.8, normalized[1], 1e-6)

	zero := NormalizeVector([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)

	assert.Empty(t, NormalizeVector(nil))
}
