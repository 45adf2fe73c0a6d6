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


package skills

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Entry is a single skill entry from the dictionary.
type Entry struct {
	Canonical      string
	Domain         string
	Aliases        []string
	Related        []string
	Certifications []string
}

// Dictionary is an in-memory, read-only skill vocabulary with lookup helpers.
// Instances are pinned per ingestion run by version; they are never mutated
// after loading and are safe for concurrent use.
type Dictionary struct {
	version   string
	updatedAt time.Time
	domains   []string
	skills    map[string]*Entry
	aliases   map[string]*Entry
	allNames  []string
}

// Version returns the dictionary version recorded on every extraction output.
func (d *Dictionary) Version() string {
	return d.version
}

// Domains returns the declared skill domains.
func (d *Dictionary) Domains() []string {
	return slices.Clone(d.domains)
}

// CanonicalCount returns the number of canonical skills.
func (d *Dictionary) CanonicalCount() int {
	return len(d.skills)
}

// ByCanonical returns the entry for a canonical name, or nil.
func (d *Dictionary) ByCanonical(name string) *Entry {
	return d.skills[name]
}

// ByAlias returns the entry for a declared alias, or nil.
func (d *Dictionary) ByAlias(alias string) *Entry {
	return d.aliases[alias]
}

// ByName returns the entry for a canonical name or alias, or nil.
func (d *Dictionary) ByName(name string) *Entry {
	if entry := d.skills[name]; entry != nil {
		return entry
	}
	return d.aliases[name]
}

// AllNames returns every searchable name (canonical + aliases).
// The returned slice is shared and must not be modified.
func (d *Dictionary) AllNames() []string {
	return d.allNames
}

// dictionaryFile matches the YAML layout of the dictionary store.
type dictionaryFile struct {
	Version   string                   `yaml:"version"`
	UpdatedAt string                   `yaml:"updated_at"`
	Domains   []string                 `yaml:"domains"`
	Skills    map[string]dictionarySkill `yaml:"skills"`
}

type dictionarySkill struct {
	Canonical      string   `yaml:"canonical"`
	Domain         string   `yaml:"domain"`
	Aliases        []string `yaml:"aliases"`
	Related        []string `yaml:"related"`
	Certifications []string `yaml:"certifications"`
}

// LoadDictionary loads and validates a skill dictionary YAML file.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDictionaryNotFound, path)
		}
		return nil, err
	}

	dictionary, err := ParseDictionary(data)
	if err != nil {
		return nil, err
	}

	slog.Info("loaded skill dictionary",
		"version", dictionary.version,
		"skills", dictionary.CanonicalCount(),
		"domains", len(dictionary.domains))
	return dictionary, nil
}

// ParseDictionary parses and validates dictionary YAML content.
func ParseDictionary(data []byte) (*Dictionary, error) {
	var file dictionaryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDictionary, err)
	}

	version := strings.TrimSpace(file.Version)
	if version == "" {
		return nil, fmt.Errorf("%w: version must be a non-empty string", ErrInvalidDictionary)
	}
	if len(file.Skills) == 0 {
		return nil, fmt.Errorf("%w: skills must be a non-empty mapping", ErrInvalidDictionary)
	}

	domains, err := normalizeDomains(file.Domains)
	if err != nil {
		return nil, err
	}

	var updatedAt time.Time
	if file.UpdatedAt != "" {
		parsed, parseErr := time.Parse(time.RFC3339, file.UpdatedAt)
		if parseErr != nil {
			slog.Warn("invalid updated_at format in skill dictionary", "value", file.UpdatedAt)
		} else {
			updatedAt = parsed
		}
	}

	dictionary := &Dictionary{
		version:   version,
		updatedAt: updatedAt,
		domains:   domains,
		skills:    make(map[string]*Entry, len(file.Skills)),
		aliases:   make(map[string]*Entry),
	}

	for key, raw := range file.Skills {
		canonical := cleanName(raw.Canonical)
		if canonical == "" {
			canonical = cleanName(key)
		}
		domain := cleanName(raw.Domain)
		if domain == "" {
			return nil, fmt.Errorf("%w: skill %q missing domain", ErrInvalidDictionary, canonical)
		}
		if !slices.Contains(domains, domain) {
			return nil, fmt.Errorf("%w: skill %q domain %q", ErrUnknownDomain, canonical, domain)
		}
		if _, exists := dictionary.skills[canonical]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSkill, canonical)
		}

		entry := &Entry{
			Canonical:      canonical,
			Domain:         domain,
			Aliases:        cleanList(raw.Aliases),
			Related:        cleanList(raw.Related),
			Certifications: cleanList(raw.Certifications),
		}
		dictionary.skills[canonical] = entry

		for _, alias := range entry.Aliases {
			if _, exists := dictionary.aliases[alias]; exists {
				return nil, fmt.Errorf("%w: alias %q", ErrDuplicateSkill, alias)
			}
			if _, exists := dictionary.skills[alias]; exists {
				return nil, fmt.Errorf("%w: alias %q shadows a canonical name", ErrDuplicateSkill, alias)
			}
			dictionary.aliases[alias] = entry
		}
	}

	// Aliases may shadow canonical names declared after them in map order,
	// so check again once the full canonical set is known.
	for alias := range dictionary.aliases {
		if _, exists := dictionary.skills[alias]; exists {
			return nil, fmt.Errorf("%w: alias %q shadows a canonical name", ErrDuplicateSkill, alias)
		}
	}

	dictionary.allNames = make([]string, 0, len(dictionary.skills)+len(dictionary.aliases))
	for name := range dictionary.skills {
		dictionary.allNames = append(dictionary.allNames, name)
	}
	for alias := range dictionary.aliases {
		dictionary.allNames = append(dictionary.allNames, alias)
	}
	slices.Sort(dictionary.allNames)

	return dictionary, nil
}

func normalizeDomains(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: domains must be a non-empty list", ErrInvalidDictionary)
	}
	domains := make([]string, 0, len(raw))
	for _, domain := range raw {
		cleaned := cleanName(domain)
		if cleaned == "" {
			continue
		}
		if slices.Contains(domains, cleaned) {
			return nil, fmt.Errorf("%w: domains must be unique, got %q twice", ErrInvalidDictionary, cleaned)
		}
		domains = append(domains, cleaned)
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("%w: domains must be a non-empty list", ErrInvalidDictionary)
	}
	return domains, nil
}

func cleanName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func cleanList(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		if name := cleanName(value); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	return cleaned
}
