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


package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/storage"
)

// Mode selects which availability statuses pass the gate.
type Mode int

const (
	// ModeOnlyFree admits candidates with zero allocation.
	ModeOnlyFree Mode = iota + 1
	// ModeFreeOrPartial admits free and partially allocated candidates.
	ModeFreeOrPartial
	// ModeAny admits every candidate regardless of availability.
	ModeAny
	// ModeUnavailable admits only unavailable candidates, for audits of
	// who would match if they were free.
	ModeUnavailable
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeOnlyFree:
		return "only_free"
	case ModeFreeOrPartial:
		return "free_or_partial"
	case ModeAny:
		return "any"
	case ModeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ParseMode parses a wire-format mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "only_free":
		return ModeOnlyFree, nil
	case "free_or_partial":
		return ModeFreeOrPartial, nil
	case "any":
		return ModeAny, nil
	case "unavailable":
		return ModeUnavailable, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Result is the outcome of one gate pass.
type Result struct {
	// Eligible are the keys that passed the gate, in input order.
	Eligible []core.ReconciliationKey

	// Missing are the keys with no availability record. They never pass a
	// restrictive mode; absence of data is not availability.
	Missing []core.ReconciliationKey

	// Degraded is true when the availability store was unreachable and the
	// gate fell back to admitting every candidate.
	Degraded bool
}

// Gate filters candidate keys by their current availability.
//
// The gate fails open: when the availability store is unreachable the search
// still runs, every candidate is admitted, and the result carries a degraded
// flag so callers can tell the user availability was not applied.
type Gate struct {
	store  storage.AvailabilityStore
	logger *slog.Logger
}

// NewGate creates a gate over the given availability store.
func NewGate(store storage.AvailabilityStore) (*Gate, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	return &Gate{
		store:  store,
		logger: slog.Default().With("component", "availability-gate"),
	}, nil
}

// Filter applies the mode to the candidate keys.
func (g *Gate) Filter(ctx context.Context, keys []core.ReconciliationKey, mode Mode) (*Result, error) {
	if mode < ModeOnlyFree || mode > ModeUnavailable {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, mode)
	}

	// ModeAny never consults the store, so it cannot degrade.
	if mode == ModeAny {
		return &Result{Eligible: append([]core.ReconciliationKey(nil), keys...)}, nil
	}

	records, err := g.store.GetAvailabilityMany(ctx, keys)
	if err != nil {
		if errors.Is(err, storage.ErrStoreUnavailable) {
			g.logger.Warn("availability store unreachable, admitting all candidates",
				"mode", mode.String(), "candidates", len(keys))
			return &Result{
				Eligible: append([]core.ReconciliationKey(nil), keys...),
				Degraded: true,
			}, nil
		}
		return nil, err
	}

	result := &Result{}
	for _, key := range keys {
		record, ok := records[key]
		if !ok {
			result.Missing = append(result.Missing, key)
			continue
		}
		if mode.admits(record.Status) {
			result.Eligible = append(result.Eligible, key)
		}
	}

	g.logger.Debug("availability gate applied",
		"mode", mode.String(),
		"candidates", len(keys),
		"eligible", len(result.Eligible),
		"missing", len(result.Missing))

	return result, nil
}

// admits reports whether a status passes this mode.
func (m Mode) admits(status core.AvailabilityStatus) bool {
	switch m {
	case ModeOnlyFree:
		return status == core.StatusFree
	case ModeFreeOrPartial:
		return status == core.StatusFree || status == core.StatusPartial
	case ModeAny:
		return true
	case ModeUnavailable:
		return status == core.StatusUnavailable
	default:
		return false
	}
}
