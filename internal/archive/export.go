// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/chris-arsenault/illuminator/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes the archive to archiveDir/index/export.yaml, applying
// the same filters as Retrieve.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	world, err := s.exportWorld(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.archiveDir, indexDir, "export.yaml")
	data, err := yaml.Marshal(world)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the archive to archiveDir/index/export.json, applying
// the same filters as Retrieve.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	world, err := s.exportWorld(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.archiveDir, indexDir, "export.json")
	data, err := json.MarshalIndent(world, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// exportWorld reassembles documents into the world export shape, so a round
// trip through import and export preserves the file format.
func (s *Store) exportWorld(ctx context.Context, opts QueryOptions) (types.WorldExport, error) {
	var world types.WorldExport

	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return world, fmt.Errorf("querying for export: %w", err)
	}

	for _, r := range results {
		switch r.Kind {
		case types.KindEntity:
			world.Entities = append(world.Entities, types.ExportEntity{
				ID:          r.ID,
				Name:        r.Name,
				Description: r.Text,
				Era:         r.Era,
			})
		case types.KindChronicle:
			world.Chronicles = append(world.Chronicles, types.ExportChronicle{
				ID:    r.ID,
				Title: r.Name,
				Body:  r.Text,
				Era:   r.Era,
			})
		case types.KindEra:
			world.Eras = append(world.Eras, types.ExportEra{
				ID:      r.ID,
				Name:    r.Name,
				Summary: r.Text,
			})
		}
	}

	return world, nil
}
