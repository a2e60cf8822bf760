// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/chris-arsenault/illuminator/pkg/types"
)

// ImportSummary holds counts from a world import run.
type ImportSummary struct {
	Entities   int
	Chronicles int
	Eras       int
	Skipped    int
	Failed     int
}

// Total returns the number of records processed.
func (s ImportSummary) Total() int {
	return s.Entities + s.Chronicles + s.Eras + s.Skipped + s.Failed
}

// HasFailures reports whether any records failed to import.
func (s ImportSummary) HasFailures() bool {
	return s.Failed > 0
}

// ImportWorld reads a world export file (YAML or JSON by extension) and
// upserts its records as documents. Entity descriptions, chronicle bodies,
// and era summaries become the prose the scanner operates on. Records whose
// content matches the stored document are skipped so a re-import does not
// touch updated_at or rewrite the search index. Progress is written to w.
func (s *Store) ImportWorld(ctx context.Context, path string, w io.Writer) (ImportSummary, error) {
	var summary ImportSummary

	world, err := loadWorldExport(path)
	if err != nil {
		return summary, err
	}

	now := time.Now().UTC()

	for _, e := range world.Entities {
		doc := types.Document{
			ID:        e.ID,
			Kind:      types.KindEntity,
			Name:      e.Name,
			Era:       e.Era,
			Text:      e.Description,
			UpdatedAt: now,
		}
		if s.unchanged(ctx, doc) {
			summary.Skipped++
			continue
		}
		if err := s.UpsertDocument(ctx, doc); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", e.ID, err)
			summary.Failed++
			continue
		}
		summary.Entities++
	}

	for _, c := range world.Chronicles {
		doc := types.Document{
			ID:        c.ID,
			Kind:      types.KindChronicle,
			Name:      c.Title,
			Era:       c.Era,
			Text:      c.Body,
			UpdatedAt: now,
		}
		if s.unchanged(ctx, doc) {
			summary.Skipped++
			continue
		}
		if err := s.UpsertDocument(ctx, doc); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", c.ID, err)
			summary.Failed++
			continue
		}
		summary.Chronicles++
	}

	for _, e := range world.Eras {
		doc := types.Document{
			ID:        e.ID,
			Kind:      types.KindEra,
			Name:      e.Name,
			Text:      e.Summary,
			UpdatedAt: now,
		}
		if s.unchanged(ctx, doc) {
			summary.Skipped++
			continue
		}
		if err := s.UpsertDocument(ctx, doc); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", e.ID, err)
			summary.Failed++
			continue
		}
		summary.Eras++
	}

	fmt.Fprintf(w, "\nimported: %d entities, %d chronicles, %d eras, %d skipped, %d failed\n",
		summary.Entities, summary.Chronicles, summary.Eras, summary.Skipped, summary.Failed)

	return summary, nil
}

// unchanged reports whether the stored version of doc carries the same
// content. A missing document is never unchanged.
func (s *Store) unchanged(ctx context.Context, doc types.Document) bool {
	stored, err := s.GetDocument(ctx, doc.ID)
	if err != nil {
		return false
	}
	return stored.Kind == doc.Kind && stored.Name == doc.Name &&
		stored.Era == doc.Era && stored.Text == doc.Text
}

// loadWorldExport parses a world export file. JSON for .json, YAML otherwise.
func loadWorldExport(path string) (types.WorldExport, error) {
	var world types.WorldExport

	data, err := os.ReadFile(path)
	if err != nil {
		return world, fmt.Errorf("reading world export: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &world); err != nil {
			return world, fmt.Errorf("parsing world export JSON: %w", err)
		}
		return world, nil
	}

	if err := yaml.Unmarshal(data, &world); err != nil {
		return world, fmt.Errorf("parsing world export YAML: %w", err)
	}
	return world, nil
}
