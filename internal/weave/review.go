// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weave

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/chris-arsenault/illuminator/pkg/types"
)

// FormatReview writes a human-readable review of each variant against its
// original sentence. Deletions render as [-text-] and insertions as {+text+}
// so the output survives pipes and logs without color codes.
func FormatReview(w io.Writer, cf types.CandidateFile, vf types.VariantsFile) error {
	byID := make(map[string]types.Candidate, len(cf.Candidates))
	for _, c := range cf.Candidates {
		byID[c.ID] = c
	}

	dmp := diffmatchpatch.New()
	for _, v := range vf.Variants {
		c, ok := byID[v.CandidateID]
		if !ok {
			return fmt.Errorf("variant references unknown candidate %s", v.CandidateID)
		}

		fmt.Fprintf(w, "[%d] %s (%s)\n", v.Seq, c.DocumentLabel, c.ID)
		if c.ContextBefore != "" {
			fmt.Fprintf(w, "    ...%s\n", tail(c.ContextBefore, 80))
		}
		fmt.Fprintf(w, "    %s\n", renderDiff(dmp, c.Sentence, v.Text))
		if c.ContextAfter != "" {
			fmt.Fprintf(w, "    %s...\n", head(c.ContextAfter, 80))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d variants for run %s\n", len(vf.Variants), vf.RunID)
	return nil
}

// renderDiff produces an inline diff of the original sentence against the
// rewrite. Semantic cleanup merges character noise into word-sized spans.
func renderDiff(dmp *diffmatchpatch.DiffMatchPatch, original, rewrite string) string {
	diffs := dmp.DiffMain(original, rewrite, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var out strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			out.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			out.WriteString("{+" + d.Text + "+}")
		default:
			out.WriteString(d.Text)
		}
	}
	return out.String()
}

// head and tail clip on rune boundaries so multi-byte context never renders
// as a torn sequence.
func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
