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


package storage

import (
	"github.com/poiesic/profilematch/core"
)

// MarshalEmbeddingPoint serializes an EmbeddingPoint to bytes.
func MarshalEmbeddingPoint(point *core.EmbeddingPoint) []byte {
	buf := make([]byte, core.EmbeddingPointMUS.Size(*point))
	core.EmbeddingPointMUS.Marshal(*point, buf)
	return buf
}

// UnmarshalEmbeddingPoint deserializes an EmbeddingPoint from bytes.
func UnmarshalEmbeddingPoint(data []byte) (*core.EmbeddingPoint, error) {
	point, _, err := core.EmbeddingPointMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

// MarshalAvailabilityRecord serializes an AvailabilityRecord to bytes.
func MarshalAvailabilityRecord(record *core.AvailabilityRecord) []byte {
	buf := make([]byte, core.AvailabilityRecordMUS.Size(*record))
	core.AvailabilityRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalAvailabilityRecord deserializes an AvailabilityRecord from bytes.
func UnmarshalAvailabilityRecord(data []byte) (*core.AvailabilityRecord, error) {
	record, _, err := core.AvailabilityRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
