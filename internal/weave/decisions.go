// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weave

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/chris-arsenault/illuminator/pkg/types"
)

// WriteDecisionSkeleton writes a decisions file with one reject entry per
// variant. The reviewer edits verdicts to accept; apply is opt-in per
// candidate.
func WriteDecisionSkeleton(path string, vf types.VariantsFile) error {
	df := types.DecisionsFile{RunID: vf.RunID}
	for _, v := range vf.Variants {
		df.Decisions = append(df.Decisions, types.Decision{
			CandidateID: v.CandidateID,
			Verdict:     types.VerdictReject,
		})
	}

	return writeYAML(path, df, "decisions")
}

// LoadDecisions reads and parses a decisions file.
func LoadDecisions(path string) (types.DecisionsFile, error) {
	var df types.DecisionsFile
	data, err := os.ReadFile(path)
	if err != nil {
		return df, fmt.Errorf("reading decisions file: %w", err)
	}
	if err := yaml.Unmarshal(data, &df); err != nil {
		return df, fmt.Errorf("parsing decisions file: %w", err)
	}
	return df, nil
}

// ValidateDecisions checks a decisions file against the variants it reviews.
// It returns an error listing every decision whose candidate ID matches no
// variant, every duplicate, and every verdict that is not accept or reject.
func ValidateDecisions(df types.DecisionsFile, vf types.VariantsFile) error {
	if df.RunID != vf.RunID {
		return fmt.Errorf("decisions are for run %s, variants are for run %s", df.RunID, vf.RunID)
	}

	known := make(map[string]bool, len(vf.Variants))
	for _, v := range vf.Variants {
		known[v.CandidateID] = true
	}

	seen := make(map[string]bool, len(df.Decisions))
	var problems []string
	for _, d := range df.Decisions {
		if !known[d.CandidateID] {
			problems = append(problems, fmt.Sprintf("unknown candidate %s", d.CandidateID))
		}
		if seen[d.CandidateID] {
			problems = append(problems, fmt.Sprintf("duplicate decision for %s", d.CandidateID))
		}
		seen[d.CandidateID] = true
		if d.Verdict != types.VerdictAccept && d.Verdict != types.VerdictReject {
			problems = append(problems, fmt.Sprintf("invalid verdict %q for %s", d.Verdict, d.CandidateID))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid decisions: %d problems found:\n  %s",
			len(problems), strings.Join(problems, "\n  "))
	}
	return nil
}

// Accepted returns the variants whose decision is accept, in variant order.
func Accepted(df types.DecisionsFile, vf types.VariantsFile) []types.Variant {
	verdicts := make(map[string]types.DecisionVerdict, len(df.Decisions))
	for _, d := range df.Decisions {
		verdicts[d.CandidateID] = d.Verdict
	}

	var accepted []types.Variant
	for _, v := range vf.Variants {
		if verdicts[v.CandidateID] == types.VerdictAccept {
			accepted = append(accepted, v)
		}
	}
	return accepted
}
