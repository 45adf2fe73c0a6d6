package skills

import (
	"github.com/poiesic/profilematch/core"
	"github.com/xrash/smetrics"
)

// DefaultFuzzyThreshold is the minimum similarity for a fuzzy match.
const DefaultFuzzyThreshold = 0.85

// Normalizer resolves raw skill mentions against a dictionary.
//
// Matching precedence is strict: exact canonical (confidence 1.0), declared
// alias (0.95), fuzzy similarity above the threshold (confidence = similarity),
// and finally "unknown" with confidence 0.0. No skill is ever invented;
// unknown is a legitimate terminal state.
type Normalizer struct {
	dictionary *Dictionary
	threshold  float64
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithFuzzyThreshold overrides the fuzzy acceptance threshold.
func WithFuzzyThreshold(threshold float64) NormalizerOption {
	return func(n *Normalizer) {
		if threshold > 0 && threshold <= 1 {
			n.threshold = threshold
		}
	}
}

// NewNormalizer creates a normalizer over the given dictionary.
func NewNormalizer(dictionary *Dictionary, opts ...NormalizerOption) (*Normalizer, error) {
	if dictionary == nil {
		return nil, ErrDictionaryRequired
	}
	n := &Normalizer{
		dictionary: dictionary,
		threshold:  DefaultFuzzyThreshold,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Normalize resolves one raw mention into a NormalizedSkill.
// The result always carries the original mention; unmatched mentions come
// back with Match == core.MatchUnknown rather than an error.
func (n *Normalizer) Normalize(raw string) core.NormalizedSkill {
	cleaned := cleanName(raw)
	if cleaned == "" {
		return core.NormalizedSkill{Original: raw, Match: core.MatchUnknown}
	}

	if entry := n.dictionary.ByCanonical(cleaned); entry != nil {
		return buildSkill(raw, entry, 1.0, core.MatchExact)
	}

	if entry := n.dictionary.ByAlias(cleaned); entry != nil {
		return buildSkill(raw, entry, 0.95, core.MatchAlias)
	}

	if entry, similarity := n.fuzzyMatch(cleaned); entry != nil {
		return buildSkill(raw, entry, similarity, core.MatchFuzzy)
	}

	return core.NormalizedSkill{Original: raw, Match: core.MatchUnknown}
}

// fuzzyMatch scans the full canonical+alias set for the best similarity hit.
func (n *Normalizer) fuzzyMatch(cleaned string) (*Entry, float64) {
	var (
		best      string
		bestScore float64
	)
	for _, name := range n.dictionary.AllNames() {
		score := smetrics.JaroWinkler(cleaned, name, 0.7, 4)
		if score > bestScore {
			best = name
			bestScore = score
		}
	}
	if bestScore < n.threshold {
		return nil, 0
	}
	return n.dictionary.ByName(best), bestScore
}

func buildSkill(raw string, entry *Entry, confidence float64, match core.MatchType) core.NormalizedSkill {
	return core.NormalizedSkill{
		Original:   raw,
		Canonical:  entry.Canonical,
		Domain:     entry.Domain,
		Confidence: confidence,
		Match:      match,
	}
}
