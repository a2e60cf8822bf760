package motif

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMotifFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "motif.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMotif(t *testing.T) {
	path := writeMotifFile(t, `
name: ice-memory
concept_pattern: "ice[- ]memory|the ice (?:holds|keeps|preserves)"
target_phrase: "the glacier remembers"
guidance: Weave in the idea that the glacier itself is the historian.
context_radius: 120
`)

	m, err := LoadMotif(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "ice-memory" {
		t.Errorf("name = %q", m.Name)
	}
	if m.ContextRadius != 120 {
		t.Errorf("context_radius = %d", m.ContextRadius)
	}

	s, err := NewScanner(m, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.radius != 120 {
		t.Errorf("scanner radius = %d, want motif override 120", s.radius)
	}
}

func TestLoadMotifValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing name",
			content: "concept_pattern: ice\ntarget_phrase: glacier\n",
		},
		{
			name:    "missing pattern",
			content: "name: m\ntarget_phrase: glacier\n",
		},
		{
			name:    "missing target phrase",
			content: "name: m\nconcept_pattern: ice\n",
		},
		{
			name:    "invalid regex",
			content: "name: m\nconcept_pattern: \"ice(\"\ntarget_phrase: glacier\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeMotifFile(t, tt.content)
			if _, err := LoadMotif(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestNewScannerDefaultRadius(t *testing.T) {
	s, err := NewScanner(&Motif{
		Name:           "m",
		ConceptPattern: "ice",
		TargetPhrase:   "glacier",
	}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.radius != defaultContextRadius {
		t.Errorf("radius = %d, want default %d", s.radius, defaultContextRadius)
	}
}
