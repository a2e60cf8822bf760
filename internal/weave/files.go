// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weave

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/chris-arsenault/illuminator/pkg/types"
)

// Artifact paths under the weave directory. Each motif gets one candidates
// file; each generate run gets one variants file and one decisions file.

// CandidatePath returns the candidates file path for a motif.
func CandidatePath(weaveDir, motifName string) string {
	return filepath.Join(weaveDir, "candidates", motifName+".yaml")
}

// VariantsPath returns the variants file path for a run.
func VariantsPath(weaveDir, runID string) string {
	return filepath.Join(weaveDir, "variants", runID+".yaml")
}

// DecisionsPath returns the decisions file path for a run.
func DecisionsPath(weaveDir, runID string) string {
	return filepath.Join(weaveDir, "decisions", runID+".yaml")
}

// WriteCandidateFile writes a candidates file, creating parent directories.
func WriteCandidateFile(path string, cf types.CandidateFile) error {
	return writeYAML(path, cf, "candidates")
}

// LoadCandidateFile reads and parses a candidates file.
func LoadCandidateFile(path string) (types.CandidateFile, error) {
	var cf types.CandidateFile
	if err := loadYAML(path, &cf, "candidates"); err != nil {
		return cf, err
	}
	return cf, nil
}

// WriteVariantsFile writes a variants file, creating parent directories.
func WriteVariantsFile(path string, vf types.VariantsFile) error {
	return writeYAML(path, vf, "variants")
}

// LoadVariantsFile reads and parses a variants file.
func LoadVariantsFile(path string) (types.VariantsFile, error) {
	var vf types.VariantsFile
	if err := loadYAML(path, &vf, "variants"); err != nil {
		return vf, err
	}
	return vf, nil
}

func writeYAML(path string, v any, kind string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", kind, err)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", kind, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s file: %w", kind, err)
	}
	return nil
}

func loadYAML(path string, v any, kind string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s file: %w", kind, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s file: %w", kind, err)
	}
	return nil
}
