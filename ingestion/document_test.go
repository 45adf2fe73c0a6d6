package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/profilematch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocumentJSON = `{
  "full_name": "Jane Doe",
  "current_role": "Backend Engineer",
  "skills": {"keywords": ["Python", "FastAPI"]},
  "experiences": [
    {
      "company": "Acme",
      "role": "Engineer",
      "start_date": "2019-03-01",
      "end_date": "2023-06-30",
      "description": "Built billing APIs."
    },
    {
      "company": "Initech",
      "role": "Senior Engineer",
      "start_date": "2023-07-01",
      "current": true,
      "description": "Leads the payments team."
    }
  ],
  "education": ["BSc Computer Science"],
  "raw_text": "Jane Doe. Backend Engineer."
}`

func writeDocumentFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDocumentFile(t *testing.T) {
	path := writeDocumentFile(t, t.TempDir(), "100123_jane_doe.json", testDocumentJSON)

	doc, warning, err := LoadDocumentFile(path, 0)
	require.NoError(t, err)
	assert.Empty(t, warning)

	assert.EqualValues(t, 100123, doc.Key)
	assert.Equal(t, "cv_100123", doc.DocumentID)
	assert.Equal(t, "100123_jane_doe.json", doc.FileName)
	assert.Equal(t, "Jane Doe", doc.FullName)
	assert.Equal(t, []string{"Python", "FastAPI"}, doc.Skills.Keywords)

	require.Len(t, doc.Experiences, 2)
	assert.Equal(t, "Acme", doc.Experiences[0].Company)
	assert.Equal(t, 2019, doc.Experiences[0].StartDate.Year())
	assert.True(t, doc.Experiences[1].Current)
	assert.True(t, doc.Experiences[1].EndDate.IsZero())
}

func TestLoadDocumentFile_OverrideMismatchWarns(t *testing.T) {
	path := writeDocumentFile(t, t.TempDir(), "100123_jane_doe.json", testDocumentJSON)

	doc, warning, err := LoadDocumentFile(path, 999999)
	require.NoError(t, err)
	assert.EqualValues(t, 100123, doc.Key, "filename wins over the override")
	assert.Contains(t, warning, "999999")
}

func TestLoadDocumentFile_NoKey(t *testing.T) {
	path := writeDocumentFile(t, t.TempDir(), "jane_doe.json", testDocumentJSON)

	_, _, err := LoadDocumentFile(path, 0)
	assert.ErrorIs(t, err, core.ErrMissingReconciliationKey)

	doc, _, err := LoadDocumentFile(path, 100123)
	require.NoError(t, err, "override supplies the key when the filename has none")
	assert.EqualValues(t, 100123, doc.Key)
}

func TestLoadDocumentFile_BadJSON(t *testing.T) {
	path := writeDocumentFile(t, t.TempDir(), "100123_broken.json", "{not json")

	_, _, err := LoadDocumentFile(path, 0)
	assert.ErrorIs(t, err, ErrDocumentFile)
}

func TestLoadDocumentFile_BadDate(t *testing.T) {
	path := writeDocumentFile(t, t.TempDir(), "100123_jane.json",
		`{"experiences": [{"start_date": "March 2019", "description": "x"}]}`)

	_, _, err := LoadDocumentFile(path, 0)
	assert.ErrorIs(t, err, ErrDocumentFile)
}

func TestDirectorySource(t *testing.T) {
	dir := t.TempDir()
	writeDocumentFile(t, dir, "100123_jane_doe.json", testDocumentJSON)
	writeDocumentFile(t, dir, "notes.txt", "not a document")

	source := NewDirectorySource(dir)
	doc, err := source.LoadDocument(context.Background(), "cv_100123")
	require.NoError(t, err)
	assert.EqualValues(t, 100123, doc.Key)
	assert.Equal(t, "Jane Doe", doc.FullName)
}

func TestDirectorySource_NotFound(t *testing.T) {
	source := NewDirectorySource(t.TempDir())

	_, err := source.LoadDocument(context.Background(), "cv_424242")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
