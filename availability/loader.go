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
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/profilematch/core"
	"github.com/poiesic/profilematch/storage"
)

// DefaultTTL is how long a loaded availability record stays fresh.
// Staffing data older than a day should not drive decisions.
const DefaultTTL = 24 * time.Hour

// LoadResult summarizes one bulk load.
type LoadResult struct {
	Loaded  int
	Skipped int
}

// Loader bulk-loads availability records from CSV exports of the staffing
// system. Expected columns, with a header row:
//
//	key,status,allocation_pct,current_project,available_from,available_to,manager
//
// Dates are "2006-01-02"; available_from/available_to/current_project/manager
// may be empty. Invalid rows are skipped with a warning, never loaded halfway.
type Loader struct {
	store  storage.AvailabilityStore
	ttl    time.Duration
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTTL overrides the record time-to-live.
func WithTTL(ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		l.ttl = ttl
	}
}

// NewLoader creates a loader writing into the given store.
func NewLoader(store storage.AvailabilityStore, opts ...LoaderOption) (*Loader, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	l := &Loader{
		store:  store,
		ttl:    DefaultTTL,
		logger: slog.Default().With("component", "availability-loader"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// LoadFile reads a CSV file and stores its records.
func (l *Loader) LoadFile(ctx context.Context, path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.Load(ctx, f)
}

// Load reads CSV from r and stores its records.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 7
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
	}
	if len(header) == 0 || !strings.EqualFold(strings.TrimSpace(header[0]), "key") {
		return nil, fmt.Errorf("%w: missing header row", ErrInvalidCSV)
	}

	result := &LoadResult{}
	var records []*core.AvailabilityRecord
	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidCSV, line, err)
		}

		record, err := parseRow(row)
		if err != nil {
			l.logger.Warn("skipping availability row", "line", line, "err", err)
			result.Skipped++
			continue
		}
		records = append(records, record)
	}

	if len(records) > 0 {
		if err := l.store.PutAvailabilityMany(ctx, records, l.ttl); err != nil {
			return nil, err
		}
	}
	result.Loaded = len(records)

	l.logger.Info("availability loaded", "loaded", result.Loaded, "skipped", result.Skipped)
	return result, nil
}

func parseRow(row []string) (*core.AvailabilityRecord, error) {
	key, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad key %q: %w", row[0], err)
	}

	status, err := core.ParseAvailabilityStatus(strings.TrimSpace(row[1]))
	if err != nil {
		return nil, err
	}

	pct, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return nil, fmt.Errorf("bad allocation %q: %w", row[2], err)
	}

	from, err := parseDate(row[4])
	if err != nil {
		return nil, err
	}
	to, err := parseDate(row[5])
	if err != nil {
		return nil, err
	}

	record := &core.AvailabilityRecord{
		Key:            core.ReconciliationKey(key),
		Status:         status,
		AllocationPct:  pct,
		CurrentProject: strings.TrimSpace(row[3]),
		AvailableFrom:  from,
		AvailableTo:    to,
		Manager:        strings.TrimSpace(row[6]),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := core.ValidateAvailabilityRecord(record); err != nil {
		return nil, err
	}
	return record, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	return t, nil
}
