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


// Package storage provides the storage abstraction layer for profilematch.
//
// This package defines repository interfaces that decouple storage implementation
// from business logic. It allows for different storage backends (BadgerDB, in-memory,
// etc.) to be used interchangeably.
//
// # Architecture
//
// Two stores back the system:
//
//   - PointRepository: embedding points keyed by deterministic IDs derived
//     from the owning document, searchable by vector similarity with
//     metadata filters
//   - AvailabilityStore: TTL-bounded candidate availability records keyed
//     by reconciliation key
//
// Public constructors return these interfaces rather than concrete types, so
// consumers never couple to BadgerDB specifics and tests can substitute mock
// implementations without modification.
//
// # Usage
//
// Create the stores:
//
//	points, err := badger.NewPointRepository(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer points.Close()
//
// Use in tests with in-memory storage:
//
//	points, avail, backend, err := badger.NewMemoryStores()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
