package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKey_FilenamePrefix(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     ReconciliationKey
	}{
		{"simple prefix", "100000_mario_rossi.docx", 100000},
		{"leading zeros", "00123_x.ext", 123},
		{"large key", "999999999_x.ext", 999999999},
		{"full path", "/data/cv/54321_someone.docx", 54321},
		{"dash separator", "777-profile.docx", 777},
		{"bare number", "12345.docx", 12345},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := ResolveKey(tt.fileName, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resolved.Key)
			assert.Equal(t, KeyFromFilename, resolved.Source)
			assert.Empty(t, resolved.Warning)
		})
	}
}

func TestResolveKey_NoPrefixNoOverride(t *testing.T) {
	_, err := ResolveKey("mario_rossi.docx", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingReconciliationKey)
}

func TestResolveKey_OverrideFallback(t *testing.T) {
	resolved, err := ResolveKey("mario_rossi.docx", 4242)
	require.NoError(t, err)
	assert.Equal(t, ReconciliationKey(4242), resolved.Key)
	assert.Equal(t, KeyFromOverride, resolved.Source)
}

func TestResolveKey_MismatchWarnsFilenameWins(t *testing.T) {
	resolved, err := ResolveKey("100000_mario.docx", 200000)
	require.NoError(t, err)
	assert.Equal(t, ReconciliationKey(100000), resolved.Key, "filename-derived key is authoritative")
	assert.NotEmpty(t, resolved.Warning, "discrepancy must be surfaced, never silent")
}

func TestResolveKey_AgreeingOverrideNoWarning(t *testing.T) {
	resolved, err := ResolveKey("100000_mario.docx", 100000)
	require.NoError(t, err)
	assert.Equal(t, ReconciliationKey(100000), resolved.Key)
	assert.Empty(t, resolved.Warning)
}

func TestResolveKey_Overflow(t *testing.T) {
	_, err := ResolveKey("99999999999999999999_x.docx", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyOverflow, "oversized keys must fail, not truncate")
}

func TestResolveKey_ZeroPrefix(t *testing.T) {
	_, err := ResolveKey("000_x.docx", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingReconciliationKey)
}

func TestResolveKey_DigitsRunningIntoName(t *testing.T) {
	// "2024report.docx" starts with digits but they are part of a word,
	// not a key prefix.
	_, err := ResolveKey("2024report.docx", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingReconciliationKey)
}
