package badger

import (
	"context"
	"testing"

	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPointRepo(t *testing.T) storage.PointRepository {
	t.Helper()
	points, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		points.Close()
		backend.Close()
	})
	return points
}

func skillsPoint(documentID string, key core.ReconciliationKey, vector []float32) *core.EmbeddingPoint {
	return &core.EmbeddingPoint{
		ID:          core.SkillPointID(documentID),
		Vector:      vector,
		Key:         key,
		DocumentID:  documentID,
		Section:     core.SectionSkills,
		Skills:      []string{"python"},
		Domain:      "backend",
		DictVersion: "1.0",
	}
}

func experiencePoint(documentID string, key core.ReconciliationKey, index int, vector []float32) *core.EmbeddingPoint {
	return &core.EmbeddingPoint{
		ID:         core.ExperiencePointID(documentID, index),
		Vector:     vector,
		Key:        key,
		DocumentID: documentID,
		Section:    core.SectionExperience,
		Domain:     "backend",
	}
}

func TestUpsertAndGetPoint(t *testing.T) {
	repo := setupPointRepo(t)
	ctx := context.Background()

	point := skillsPoint("cv_100000", 100000, []float32{1, 0, 0})
	require.NoError(t, repo.UpsertPoints(ctx, point))

	got, err := repo.GetPoint(ctx, "cv_100000_skills")
	require.NoError(t, err)
	assert.Equal(t, core.ReconciliationKey(100000), got.Key)
	assert.Equal(t, []string{"python"}, got.Skills)
	assert.False(t, got.Timestamp.IsZero(), "upsert stamps the point")
}

func TestUpsertPoints_Idempotent(t *testing.T) {
	repo := setupPointRepo(t)
	ctx := context.Background()

	point := skillsPoint("cv_1", 1, []float32{1, 0})
	require.NoError(t, repo.UpsertPoints(ctx, point))

	// Same ID, new payload. Must overwrite, not duplicate.
	updated := skillsPoint("cv_1", 1, []float32{0, 1})
	updated.Skills = []string{"python", "fastapi"}
	require.NoError(t, repo.UpsertPoints(ctx, updated))

	count, err := repo.CountPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := repo.GetPoint(ctx, "cv_1_skills")
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "fastapi"}, got.Skills)
}

func TestGetPoint_NotFound(t *testing.T) {
	repo := setupPointRepo(t)

	_, err := repo.GetPoint(context.Background(), "cv_404_skills")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetDocumentPoints_Ordering(t *testing.T) {
	repo := setupPointRepo(t)
	ctx := context.Background()

	// Insert out of order on purpose.
	require.NoError(t, repo.UpsertPoints(ctx,
		experiencePoint("cv_7", 7, 1, []float32{0, 1}),
		skillsPoint("cv_7", 7, []float32{1, 0}),
		experiencePoint("cv_7", 7, 0, []float32{1, 1}),
	))

	got, err := repo.GetDocumentPoints(ctx, "cv_7")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "cv_7_skills", got[0].ID)
	assert.Equal(t, "cv_7_exp_0", got[1].ID)
	assert.Equal(t, "cv_7_exp_1", got[2].ID)
}

func TestGetDocumentPoints_PrefixSafety(t *testing.T) {
	repo := setupPointRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPoints(ctx,
		skillsPoint("cv_1", 1, []float32{1, 0}),
		skillsPoint("cv_12", 12, []float32{0, 1}),
	))

	got, err := repo.GetDocumentPoints(ctx, "cv_1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cv_1_skills", got[0].ID)
}

func TestDeleteDocumentPoints_SectionScoped(t *testing.T) {
	repo := setupPointRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPoints(ctx,
		skillsPoint("cv_9", 9, []float32{1, 0}),
		experiencePoint("cv_9", 9, 0, []float32{0, 1}),
		experiencePoint("cv_9", 9, 1, []float32{1, 1}),
	))

	deleted, err := repo.DeleteDocumentPoints(ctx, "cv_9", core.SectionExperience)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	remaining, err := repo.GetDocumentPoints(ctx, "cv_9")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, core.SectionSkills, remaining[0].Section)
}

func TestDeleteDocumentPoints_AllSections(t *testing.T) {
	repo := setupPointRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPoints(ctx,
		skillsPoint("cv_9", 9, []float32{1, 0}),
		experiencePoint("cv_9", 9, 0, []float32{0, 1}),
	))

	deleted, err := repo.DeleteDocumentPoints(ctx, "cv_9", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	count, err := repo.CountPoints(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSearch_OrderAndLimit(t *testing.T) {
	repo := setupPointRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPoints(ctx,
		skillsPoint("cv_1", 1, []float32{1, 0}),
		skillsPoint("cv_2", 2, []float32{0.9, 0.1}),
		skillsPoint("cv_3", 3, []float32{0, 1}),
	))

	results, err := repo.Search(ctx, []float32{1, 0}, nil, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, core.ReconciliationKey(1), results[0].Point.Key)
	assert.Equal(t, core.ReconciliationKey(2), results[1].Point.Key)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_Filtered(t *testing.T) {
	repo := setupPointRepo(t)
	ctx := context.Background()

	frontend := skillsPoint("cv_2", 2, []float32{1, 0})
	frontend.Domain = "frontend"
	senior := skillsPoint("cv_1", 1, []float32{1, 0})
	senior.SeniorityBucket = "senior"
	require.NoError(t, repo.UpsertPoints(ctx,
		senior,
		frontend,
		experiencePoint("cv_1", 1, 0, []float32{1, 0}),
	))

	results, err := repo.Search(ctx, []float32{1, 0}, &storage.Filter{
		Domain:  "backend",
		Section: core.SectionSkills,
	}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cv_1_skills", results[0].Point.ID)

	results, err = repo.Search(ctx, []float32{1, 0}, &storage.Filter{
		Keys: []core.ReconciliationKey{2},
	}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.ReconciliationKey(2), results[0].Point.Key)

	results, err = repo.Search(ctx, []float32{1, 0}, &storage.Filter{
		SeniorityBucket: "senior",
	}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cv_1_skills", results[0].Point.ID)
}

func TestSearch_InvalidQuery(t *testing.T) {
	repo := setupPointRepo(t)

	_, err := repo.Search(context.Background(), nil, nil, 10)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	_, err = repo.Search(context.Background(), []float32{1}, nil, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestListDocuments(t *testing.T) {
	repo := setupPointRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPoints(ctx,
		skillsPoint("cv_b", 2, []float32{1, 0}),
		skillsPoint("cv_a", 1, []float32{0, 1}),
		experiencePoint("cv_a", 1, 0, []float32{1, 1}),
	))

	documents, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cv_a", "cv_b"}, documents)
}

func TestListKeys(t *testing.T) {
	repo := setupPointRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPoints(ctx,
		skillsPoint("cv_b", 200, []float32{1, 0}),
		skillsPoint("cv_a", 100, []float32{0, 1}),
		experiencePoint("cv_a", 100, 0, []float32{1, 1}),
	))

	keys, err := repo.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.ReconciliationKey{100, 200}, keys)
}

func TestUpsertPoints_Invalid(t *testing.T) {
	repo := setupPointRepo(t)

	// Missing reconciliation key is a hard failure, not a silent skip.
	point := skillsPoint("cv_1", 0, []float32{1, 0})
	err := repo.UpsertPoints(context.Background(), point)
	assert.ErrorIs(t, err, core.ErrMissingReconciliationKey)
}
