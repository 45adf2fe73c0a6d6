package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ReasonerHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, "qwen2.5:3b", cfg.ReasonerModel)
	assert.Equal(t, 0.1, cfg.Temperature)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ReasonerHost)
		assert.Equal(t, 0.1, cfg.Temperature)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.ReasonerHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithReasonerHost("http://reason:9090/v1"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://reason:9090/v1", cfg.ReasonerHost)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingModel("text-embedding-3-small"),
			WithReasonerModel("gpt-4o-mini"),
		)

		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, "gpt-4o-mini", cfg.ReasonerModel)
	})

	t.Run("with custom temperature", func(t *testing.T) {
		cfg := NewConfig(WithTemperature(0.0))

		assert.Equal(t, 0.0, cfg.Temperature)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name              string
		embeddingHost     string
		reasonerHost      string
		expectedEmbedding string
		expectedReasoner  string
	}{
		{
			name:              "already has /v1",
			embeddingHost:     "http://localhost:11434/v1",
			reasonerHost:      "http://localhost:11434/v1",
			expectedEmbedding: "http://localhost:11434/v1",
			expectedReasoner:  "http://localhost:11434/v1",
		},
		{
			name:              "missing /v1",
			embeddingHost:     "http://localhost:11434",
			reasonerHost:      "http://localhost:11434",
			expectedEmbedding: "http://localhost:11434/v1",
			expectedReasoner:  "http://localhost:11434/v1",
		},
		{
			name:              "has trailing slash",
			embeddingHost:     "http://localhost:11434/",
			reasonerHost:      "http://localhost:11434/",
			expectedEmbedding: "http://localhost:11434/v1",
			expectedReasoner:  "http://localhost:11434/v1",
		},
		{
			name:              "empty hosts",
			embeddingHost:     "",
			reasonerHost:      "",
			expectedEmbedding: "",
			expectedReasoner:  "",
		},
		{
			name:              "different formats",
			embeddingHost:     "http://embed:8080",
			reasonerHost:      "http://reason:9090/v1",
			expectedEmbedding: "http://embed:8080/v1",
			expectedReasoner:  "http://reason:9090/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				EmbeddingHost: tt.embeddingHost,
				ReasonerHost:  tt.reasonerHost,
			}

			cfg.Normalize()

			assert.Equal(t, tt.expectedEmbedding, cfg.EmbeddingHost)
			assert.Equal(t, tt.expectedReasoner, cfg.ReasonerHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := &Config{
			EmbeddingHost:  "http://localhost:11434",
			ReasonerHost:   "http://localhost:11434",
			EmbeddingModel: "embeddinggemma",
			ReasonerModel:  "qwen2.5:3b",
			Temperature:    0.1,
		}

		err := cfg.Validate()
		assert.NoError(t, err)

		// Should also normalize
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ReasonerHost)
	})

	t.Run("missing embedding host", func(t *testing.T) {
		cfg := &Config{
			ReasonerHost:   "http://localhost:11434/v1",
			EmbeddingModel: "embeddinggemma",
			ReasonerModel:  "qwen2.5:3b",
			Temperature:    0.1,
		}

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingHost")
	})

	t.Run("missing reasoner host", func(t *testing.T) {
		cfg := &Config{
			EmbeddingHost:  "http://localhost:11434/v1",
			EmbeddingModel: "embeddinggemma",
			ReasonerModel:  "qwen2.5:3b",
			Temperature:    0.1,
		}

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ReasonerHost")
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := &Config{
			EmbeddingHost: "http://localhost:11434/v1",
			ReasonerHost:  "http://localhost:11434/v1",
			ReasonerModel: "qwen2.5:3b",
			Temperature:   0.1,
		}

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "EmbeddingModel")
	})

	t.Run("missing reasoner model", func(t *testing.T) {
		cfg := &Config{
			EmbeddingHost:  "http://localhost:11434/v1",
			ReasonerHost:   "http://localhost:11434/v1",
			EmbeddingModel: "embeddinggemma",
			Temperature:    0.1,
		}

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ReasonerModel")
	})

	t.Run("temperature out of range", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Temperature = 1.5

		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Temperature")

		cfg.Temperature = -0.1
		err = cfg.Validate()
		assert.Error(t, err)
	})

	t.Run("temperature at boundaries", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Temperature = 0
		assert.NoError(t, cfg.Validate())

		cfg.Temperature = 1
		assert.NoError(t, cfg.Validate())
	})
}

func TestConfigValidate_Integration(t *testing.T) {
	cfg := NewConfig()
	err := cfg.Validate()
	require.NoError(t, err)

	cfg = DefaultConfig()
	err = cfg.Validate()
	require.NoError(t, err)
}
