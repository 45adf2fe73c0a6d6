package funnel

import "errors"

var (
	// ErrPointRepositoryRequired is returned when no point repository is supplied.
	ErrPointRepositoryRequired = errors.New("point repository is required")

	// ErrGateRequired is returned when no availability gate is supplied.
	ErrGateRequired = errors.New("availability gate is required")

	// ErrAIProviderRequired is returned when no AI provider is supplied.
	ErrAIProviderRequired = errors.New("ai provider is required")

	// ErrNormalizerRequired is returned when no skill normalizer is supplied.
	ErrNormalizerRequired = errors.New("skill normalizer is required")

	// ErrDeciderRequired is returned when no decider is supplied.
	ErrDeciderRequired = errors.New("decider is required")

	// ErrSkillsRequired is returned when a query names no skills.
	ErrSkillsRequired = errors.New("at least one required skill is needed")
)
