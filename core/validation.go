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


package core

import "fmt"

// ValidateParsedDocument validates a ParsedDocument according to domain rules.
//
// Validation rules:
//   - Key must be positive
//   - DocumentID must not be empty
//
// NOT validated:
//   - Experiences/Education/Certifications (may legitimately be empty)
//   - Skill section (a document with zero resolvable skills is still ingested)
func ValidateParsedDocument(doc *ParsedDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if doc.Key <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrMissingReconciliationKey)
	}
	if doc.DocumentID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentID)
	}
	return nil
}

// ValidateEmbeddingPoint validates an EmbeddingPoint before it is written.
// A missing reconciliation key is a hard ingestion failure, not a warning.
func ValidateEmbeddingPoint(point *EmbeddingPoint) error {
	if point == nil {
		return fmt.Errorf("%w: point is nil", ErrInvalidPoint)
	}
	if point.ID == "" {
		return fmt.Errorf("%w: point id is empty", ErrInvalidPoint)
	}
	if point.Key <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPoint, ErrMissingReconciliationKey)
	}
	if point.DocumentID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPoint, ErrEmptyDocumentID)
	}
	if point.Section != SectionSkills && point.Section != SectionExperience {
		return fmt.Errorf("%w: unknown section type %d", ErrInvalidPoint, point.Section)
	}
	return nil
}

// ValidateAvailabilityRecord validates an AvailabilityRecord.
func ValidateAvailabilityRecord(record *AvailabilityRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidAvailability)
	}
	if record.Key <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidAvailability, ErrMissingReconciliationKey)
	}
	if record.Status < StatusFree || record.Status > StatusUnavailable {
		return fmt.Errorf("%w: %w", ErrInvalidAvailability, ErrInvalidStatus)
	}
	if record.AllocationPct < 0 || record.AllocationPct > 100 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidAvailability, ErrAllocationOutOfRange, record.AllocationPct)
	}
	return nil
}
