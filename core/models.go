package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ReconciliationKey is the stable numeric identifier joining a resource's
// records across all data sources. Immutable once assigned; required on every
// derived artifact.
type ReconciliationKey int64

// ID is a 64-bit content fingerprint for stored artifacts.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SectionType identifies which document section a point was embedded from.
type SectionType int

const (
	// SectionSkills is the document-level skill section.
	SectionSkills SectionType = iota + 1
	// SectionExperience is a single experience item.
	SectionExperience
)

// String returns the payload representation of the section type.
func (s SectionType) String() string {
	switch s {
	case SectionSkills:
		return "skills"
	case SectionExperience:
		return "experience"
	default:
		return "unknown"
	}
}

// MatchType classifies how a raw skill mention was resolved against the dictionary.
type MatchType int

const (
	// MatchExact is a case/whitespace-normalized canonical match.
	MatchExact MatchType = iota + 1
	// MatchAlias is a declared-alias match.
	MatchAlias
	// MatchFuzzy is an approximate string-similarity match.
	MatchFuzzy
	// MatchUnknown means no dictionary entry matched. A legitimate terminal
	// state, not an error.
	MatchUnknown
)

// String returns the wire representation of the match type.
func (m MatchType) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchAlias:
		return "alias"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// AvailabilityStatus is the operational state of a resource.
type AvailabilityStatus int

const (
	// StatusFree means fully unallocated.
	StatusFree AvailabilityStatus = iota + 1
	// StatusPartial means partially allocated.
	StatusPartial
	// StatusBusy means fully allocated.
	StatusBusy
	// StatusUnavailable means not staffable (leave, notice period, etc).
	StatusUnavailable
)

// String returns the wire representation of the status.
func (s AvailabilityStatus) String() string {
	switch s {
	case StatusFree:
		return "free"
	case StatusPartial:
		return "partial"
	case StatusBusy:
		return "busy"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "invalid"
	}
}

// ParseAvailabilityStatus parses the wire representation of a status.
func ParseAvailabilityStatus(s string) (AvailabilityStatus, error) {
	switch s {
	case "free":
		return StatusFree, nil
	case "partial":
		return StatusPartial, nil
	case "busy":
		return StatusBusy, nil
	case "unavailable":
		return StatusUnavailable, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// SkillSection is the raw skill section of a parsed document.
type SkillSection struct {
	RawText  string
	Keywords []string
}

// ExperienceItem is a single entry in a document's experience sequence.
type ExperienceItem struct {
	Company     string
	Role        string
	StartDate   time.Time
	EndDate     time.Time
	Current     bool
	Description string
}

// Years returns the experience duration in whole years, or -1 when the
// date range is insufficient to derive one.
func (e *ExperienceItem) Years(now time.Time) int {
	switch {
	case !e.StartDate.IsZero() && !e.EndDate.IsZero():
		days := int(e.EndDate.Sub(e.StartDate).Hours() / 24)
		if days < 0 {
			return -1
		}
		return days / 365
	case !e.StartDate.IsZero() && e.Current:
		days := int(now.Sub(e.StartDate).Hours() / 24)
		if days < 0 {
			return -1
		}
		return days / 365
	default:
		return -1
	}
}

// ParsedDocument is the parsed form of one ingested resume file.
// Created once per ingestion; immutable after creation. Re-ingestion
// supersedes it rather than mutating it.
type ParsedDocument struct {
	Key            ReconciliationKey
	DocumentID     string
	FileName       string
	FullName       string
	CurrentRole    string
	ParsedAt       time.Time
	Skills         SkillSection
	Experiences    []ExperienceItem
	Education      []string
	Certifications []string
	RawText        string
}

// NormalizedSkill is one skill mention resolved against a versioned dictionary.
type NormalizedSkill struct {
	Original   string
	Canonical  string
	Domain     string
	Confidence float64
	Match      MatchType
}

// SkillExtractionResult is the per-document normalization output. Unmatched
// mentions are retained for dictionary curation, never silently dropped.
type SkillExtractionResult struct {
	DocumentID        string
	Skills            []NormalizedSkill
	Unmatched         []string
	DictionaryVersion string
}

// EmbeddingPoint is one entry in a vector collection. The ID is a
// deterministic function of (document ID, section type, experience index),
// so repeated ingestion upserts in place instead of duplicating entries.
type EmbeddingPoint struct {
	ID              string
	Vector          []float32
	Key             ReconciliationKey
	DocumentID      string
	Section         SectionType
	Skills          []string
	Domain          string
	SeniorityBucket string
	DictVersion     string
	Fingerprint     ID
	ExperienceYears int
	Snippet         string
	Timestamp       time.Time
}

// DocumentIDForKey returns the canonical document ID for a reconciliation
// key. One person owns one document ID, so a re-uploaded profile supersedes
// the previous one instead of duplicating it.
func DocumentIDForKey(key ReconciliationKey) string {
	return fmt.Sprintf("cv_%d", key)
}

// SkillPointID returns the deterministic point ID for a document's skill section.
func SkillPointID(documentID string) string {
	return documentID + "_skills"
}

// ExperiencePointID returns the deterministic point ID for one experience item.
func ExperiencePointID(documentID string, index int) string {
	return fmt.Sprintf("%s_exp_%d", documentID, index)
}

// ScoredPoint is a point with its similarity score from vector search.
type ScoredPoint struct {
	Point *EmbeddingPoint
	Score float32
}

// AvailabilityRecord is the volatile operational-state snapshot for a
// resource. It lives in a TTL-bound store separate from the skill knowledge
// store; it represents state, not knowledge, and may be stale or briefly
// absent without invalidating the knowledge store.
type AvailabilityRecord struct {
	Key            ReconciliationKey
	Status         AvailabilityStatus
	AllocationPct  int
	CurrentProject string
	AvailableFrom  time.Time
	AvailableTo    time.Time
	Manager        string
	UpdatedAt      time.Time
}

// CandidateDecision is the reasoning backend's verdict for one candidate.
// Every claim must be supported by the context supplied to the backend.
type CandidateDecision struct {
	Key           ReconciliationKey
	Score         float64
	MatchedSkills []string
	MissingSkills []string
	Rationale     string
}

// MatchDecision is the final output of the matching funnel.
type MatchDecision struct {
	Candidates []CandidateDecision
	Confidence string
	Degraded   bool
	Warnings   []string
}
