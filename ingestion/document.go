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


package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/profilematch/core"
)

// documentFile is the JSON wire form of a parsed profile document. The
// reconciliation key is not part of the payload; it comes from the filename
// prefix, with an optional caller override.
type documentFile struct {
	FullName    string `json:"full_name"`
	CurrentRole string `json:"current_role"`
	Skills      struct {
		RawText  string   `json:"raw_text"`
		Keywords []string `json:"keywords"`
	} `json:"skills"`
	Experiences    []experienceFile `json:"experiences"`
	Education      []string         `json:"education"`
	Certifications []string         `json:"certifications"`
	RawText        string           `json:"raw_text"`
}

type experienceFile struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// LoadDocumentFile reads a profile document from a JSON file. The
// reconciliation key is resolved from the filename's numeric prefix; override
// (0 for none) is consulted when the filename carries no key. The returned
// warning is non-empty when the override disagreed with the filename.
func LoadDocumentFile(path string, override core.ReconciliationKey) (*core.ParsedDocument, string, error) {
	resolved, err := core.ResolveKey(path, override)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDocumentFile, err)
	}

	var file documentFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrDocumentFile, path, err)
	}

	doc := &core.ParsedDocument{
		Key:            resolved.Key,
		DocumentID:     core.DocumentIDForKey(resolved.Key),
		FileName:       filepath.Base(path),
		FullName:       file.FullName,
		CurrentRole:    file.CurrentRole,
		ParsedAt:       time.Now().UTC(),
		Education:      file.Education,
		Certifications: file.Certifications,
		RawText:        file.RawText,
	}
	doc.Skills.RawText = file.Skills.RawText
	doc.Skills.Keywords = file.Skills.Keywords

	for _, exp := range file.Experiences {
		start, err := parseDate(exp.StartDate)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s: bad start_date %q", ErrDocumentFile, path, exp.StartDate)
		}
		end, err := parseDate(exp.EndDate)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s: bad end_date %q", ErrDocumentFile, path, exp.EndDate)
		}
		doc.Experiences = append(doc.Experiences, core.ExperienceItem{
			Company:     exp.Company,
			Role:        exp.Role,
			StartDate:   start,
			EndDate:     end,
			Current:     exp.Current,
			Description: exp.Description,
		})
	}

	return doc, resolved.Warning, nil
}

// parseDate accepts an empty string, a bare date, or an RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// DirectorySource serves parsed documents from a directory of JSON files,
// matched by the numeric reconciliation-key prefix of each filename. It backs
// corpus reembedding, which needs the original text of every stored document.
type DirectorySource struct {
	dir string
}

// NewDirectorySource creates a document source over the given directory.
func NewDirectorySource(dir string) *DirectorySource {
	return &DirectorySource{dir: dir}
}

// LoadDocument finds and loads the archived file for a document ID.
func (s *DirectorySource) LoadDocument(ctx context.Context, documentID string) (*core.ParsedDocument, error) {
	key, err := keyFromDocumentID(documentID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentNotFound, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		resolved, err := core.ResolveKey(entry.Name(), 0)
		if err != nil || resolved.Key != key {
			continue
		}
		doc, _, err := LoadDocumentFile(filepath.Join(s.dir, entry.Name()), 0)
		return doc, err
	}

	return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
}

// keyFromDocumentID inverts core.DocumentIDForKey.
func keyFromDocumentID(documentID string) (core.ReconciliationKey, error) {
	resolved, err := core.ResolveKey(strings.TrimPrefix(documentID, "cv_")+".json", 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
	}
	return resolved.Key, nil
}
