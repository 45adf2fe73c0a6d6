package skills

import (
	"log/slog"
	"strings"

	"github.com/poiesic/profilematch/core"
)

// Extractor produces a SkillExtractionResult from a parsed document.
type Extractor struct {
	dictionary *Dictionary
	normalizer *Normalizer
	logger     *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewExtractor creates an extractor pinned to one dictionary version.
func NewExtractor(dictionary *Dictionary, opts ...ExtractorOption) (*Extractor, error) {
	if dictionary == nil {
		return nil, ErrDictionaryRequired
	}
	normalizer, err := NewNormalizer(dictionary)
	if err != nil {
		return nil, err
	}
	e := &Extractor{
		dictionary: dictionary,
		normalizer: normalizer,
		logger:     slog.Default().With("component", "skill-extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract normalizes the skill mentions of a parsed document.
// Falls back from the keyword list to the raw skill section text, and then
// to the full document text, so a poorly sectioned document still yields
// mentions for review.
func (e *Extractor) Extract(doc *core.ParsedDocument) *core.SkillExtractionResult {
	return e.ExtractRaw(doc.DocumentID, e.rawMentions(doc))
}

// ExtractRaw normalizes a list of raw mentions for a document.
// Unmatched mentions are retained on the result, never silently dropped.
func (e *Extractor) ExtractRaw(documentID string, mentions []string) *core.SkillExtractionResult {
	result := &core.SkillExtractionResult{
		DocumentID:        documentID,
		DictionaryVersion: e.dictionary.Version(),
	}

	for _, raw := range mentions {
		cleaned := cleanName(raw)
		if cleaned == "" {
			continue
		}

		skill := e.normalizer.Normalize(raw)
		if skill.Match == core.MatchUnknown {
			result.Unmatched = append(result.Unmatched, cleaned)
			e.logger.Warn("unknown skill mention", "mention", cleaned, "document", documentID)
			continue
		}
		result.Skills = append(result.Skills, skill)
	}

	return result
}

func (e *Extractor) rawMentions(doc *core.ParsedDocument) []string {
	if len(doc.Skills.Keywords) > 0 {
		return doc.Skills.Keywords
	}
	if doc.Skills.RawText != "" {
		return SplitMentions(doc.Skills.RawText)
	}
	return SplitMentions(doc.RawText)
}

// SplitMentions splits a text blob into candidate skill mentions.
func SplitMentions(text string) []string {
	if text == "" {
		return nil
	}

	replacer := strings.NewReplacer("\n", ",", "\r", ",", ";", ",", "|", ",")
	var mentions []string
	for _, chunk := range strings.Split(replacer.Replace(text), ",") {
		if cleaned := strings.TrimSpace(chunk); cleaned != "" {
			mentions = append(mentions, cleaned)
		}
	}
	return mentions
}

// PrimaryDomain returns the most common domain among normalized skills,
// or "unknown" when none declare one.
func PrimaryDomain(normalized []core.NormalizedSkill) string {
	counts := make(map[string]int)
	for _, skill := range normalized {
		if skill.Domain != "" {
			counts[skill.Domain]++
		}
	}

	primary := "unknown"
	best := 0
	for domain, count := range counts {
		if count > best || (count == best && domain < primary) {
			primary = domain
			best = count
		}
	}
	return primary
}

// DedupeCanonical returns unique canonical skill names preserving order.
func DedupeCanonical(normalized []core.NormalizedSkill) []string {
	seen := make(map[string]bool, len(normalized))
	deduped := make([]string, 0, len(normalized))
	for _, skill := range normalized {
		canonical := cleanName(skill.Canonical)
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		deduped = append(deduped, canonical)
	}
	return deduped
}
