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

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// KeySource records where a resolved reconciliation key came from.
type KeySource int

const (
	// KeyFromFilename means the key was derived from the filename prefix.
	KeyFromFilename KeySource = iota + 1
	// KeyFromOverride means the key was supplied by the caller.
	KeyFromOverride
)

// ResolvedKey is the outcome of reconciliation-key resolution.
// Warning is non-empty when a caller-supplied override disagreed with the
// filename-derived key; the filename value is authoritative but the
// discrepancy is never resolved silently.
type ResolvedKey struct {
	Key     ReconciliationKey
	Source  KeySource
	Warning string
}

// ResolveKey derives the reconciliation key for a document from its
// filename-embedded numeric prefix ("{key}_{...}"), falling back to the
// caller-supplied override (0 means no override).
//
// Leading zeros are accepted and stripped by base-10 parsing; values that do
// not fit an int64 fail with ErrKeyOverflow rather than truncating.
func ResolveKey(fileName string, override ReconciliationKey) (ResolvedKey, error) {
	prefix := numericPrefix(filepath.Base(fileName))

	if prefix == "" {
		if override > 0 {
			return ResolvedKey{Key: override, Source: KeyFromOverride}, nil
		}
		return ResolvedKey{}, fmt.Errorf("%w: no numeric prefix in %q and no override given",
			ErrMissingReconciliationKey, fileName)
	}

	parsed, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return ResolvedKey{}, fmt.Errorf("%w: prefix %q in %q", ErrKeyOverflow, prefix, fileName)
	}
	if parsed <= 0 {
		if override > 0 {
			return ResolvedKey{Key: override, Source: KeyFromOverride}, nil
		}
		return ResolvedKey{}, fmt.Errorf("%w: prefix %q in %q parses to %d",
			ErrMissingReconciliationKey, prefix, fileName, parsed)
	}

	resolved := ResolvedKey{Key: ReconciliationKey(parsed), Source: KeyFromFilename}
	if override > 0 && override != resolved.Key {
		resolved.Warning = fmt.Sprintf(
			"reconciliation key mismatch: filename %q derives %d, caller supplied %d; filename wins",
			fileName, resolved.Key, override)
	}
	return resolved, nil
}

// numericPrefix returns the run of leading ASCII digits, stopping at the
// first separator or non-digit.
func numericPrefix(name string) string {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if end == 0 {
		return ""
	}
	// A bare number without a separator (e.g. "12345.docx") still counts;
	// only require that digits do not run into more letters of the key itself.
	rest := name[end:]
	if rest != "" && !strings.ContainsAny(rest[:1], "_-. ") {
		return ""
	}
	return name[:end]
}
