// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package motif locates sentences in world prose where a thematic concept
// appears, producing rewrite candidates with stable identities.
// Implements: docs/ARCHITECTURE § Motif Scan.
package motif

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

// defaultContextRadius is the number of characters of surrounding text
// captured on each side of a candidate sentence.
const defaultContextRadius = 150

// Motif is the on-disk definition of a concept to weave through the world.
type Motif struct {
	// Name labels the motif in summaries and run records.
	Name string `yaml:"name"`

	// ConceptPattern is a regular expression matching thematic phrasings
	// regardless of exact wording (e.g. "ice[- ]memory").
	ConceptPattern string `yaml:"concept_pattern"`

	// TargetPhrase is the exact wording the weave is trying to introduce.
	// A document already containing it (case-insensitive) is skipped.
	TargetPhrase string `yaml:"target_phrase"`

	// Guidance is prose instruction passed to the rewrite model.
	Guidance string `yaml:"guidance"`

	// ContextRadius overrides the configured context window radius when > 0.
	ContextRadius int `yaml:"context_radius,omitempty"`
}

// LoadMotif reads and validates a motif definition from a YAML file.
func LoadMotif(path string) (*Motif, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading motif file: %w", err)
	}
	var m Motif
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing motif file: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("motif file %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks that the motif has the fields scanning requires and that
// the concept pattern compiles.
func (m *Motif) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.ConceptPattern == "" {
		return fmt.Errorf("concept_pattern is required")
	}
	if m.TargetPhrase == "" {
		return fmt.Errorf("target_phrase is required")
	}
	if _, err := regexp.Compile(m.ConceptPattern); err != nil {
		return fmt.Errorf("invalid concept_pattern: %w", err)
	}
	return nil
}

// Scanner holds a compiled concept pattern and scan parameters. A Scanner
// is immutable after construction and safe for concurrent use: the pattern
// is queried with all-matches calls, never iterated with a shared cursor.
type Scanner struct {
	concept *regexp.Regexp
	target  string // lowercased target phrase
	radius  int
}

// NewScanner compiles the motif's concept pattern. radius selects the
// context window size; zero uses the motif's override or the default.
func NewScanner(m *Motif, radius int) (*Scanner, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	re, err := regexp.Compile(m.ConceptPattern)
	if err != nil {
		return nil, fmt.Errorf("compiling concept pattern: %w", err)
	}
	if radius <= 0 {
		radius = m.ContextRadius
	}
	if radius <= 0 {
		radius = defaultContextRadius
	}
	return &Scanner{
		concept: re,
		target:  strings.ToLower(m.TargetPhrase),
		radius:  radius,
	}, nil
}

// Resolved reports whether the text already contains the target phrase,
// case-insensitively. Resolved documents produce zero candidates.
func (s *Scanner) Resolved(text string) bool {
	return strings.Contains(strings.ToLower(text), s.target)
}
