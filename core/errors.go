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

import "errors"

// Domain validation errors
var (
	// ErrMissingReconciliationKey indicates a document without a derivable
	// reconciliation key. This is a terminal ingestion failure.
	ErrMissingReconciliationKey = errors.New("missing reconciliation key")

	// ErrKeyOverflow indicates a filename key prefix too large for int64.
	ErrKeyOverflow = errors.New("reconciliation key overflows int64")

	// ErrInvalidDocument indicates a ParsedDocument failed validation.
	ErrInvalidDocument = errors.New("invalid parsed document")

	// ErrInvalidPoint indicates an EmbeddingPoint failed validation.
	ErrInvalidPoint = errors.New("invalid embedding point")

	// ErrInvalidAvailability indicates an AvailabilityRecord failed validation.
	ErrInvalidAvailability = errors.New("invalid availability record")

	// ErrInvalidStatus indicates an unrecognized availability status value.
	ErrInvalidStatus = errors.New("invalid availability status")

	// ErrEmptyDocumentID indicates the DocumentID field is empty.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrAllocationOutOfRange indicates an allocation percentage outside [0,100].
	ErrAllocationOutOfRange = errors.New("allocation percentage must be between 0 and 100")
)
