// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chris-arsenault/illuminator/internal/archive"
	"github.com/chris-arsenault/illuminator/internal/motif"
	"github.com/chris-arsenault/illuminator/internal/weave"
	"github.com/chris-arsenault/illuminator/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan archived documents for motif candidate sentences",
	Long: `Scan loads a motif definition, walks the archived world documents, and
extracts every sentence whose text matches the motif's concept pattern.
Documents that already contain the target phrase are skipped. Candidates
are written to weave/candidates/[motif].yaml for the generate stage.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("motif", "", "path to motif definition YAML (required)")
	scanCmd.Flags().String("kind", "", "restrict to one document kind: entity, chronicle, era")
	scanCmd.Flags().Int("radius", 0, "context window radius in characters (default 150)")
	scanCmd.Flags().String("archive-dir", "archive", "base directory for the world archive (contains index/)")
	scanCmd.Flags().String("weave-dir", "weave", "base directory for weave artifacts (contains candidates/)")
	scanCmd.MarkFlagRequired("motif")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	motifPath, _ := cmd.Flags().GetString("motif")
	kind, _ := cmd.Flags().GetString("kind")
	radius, _ := cmd.Flags().GetInt("radius")
	archiveDir, _ := cmd.Flags().GetString("archive-dir")
	weaveDir, _ := cmd.Flags().GetString("weave-dir")
	if radius <= 0 {
		radius = viper.GetInt("scan.context_radius")
	}

	m, err := motif.LoadMotif(motifPath)
	if err != nil {
		return err
	}

	scanner, err := motif.NewScanner(m, radius)
	if err != nil {
		return err
	}

	store, err := archive.NewStore(types.ArchiveConfig{ArchiveDir: archiveDir})
	if err != nil {
		return err
	}
	defer store.Close()

	docs, err := store.ListDocuments(context.Background(), types.DocumentKind(kind))
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("archive has no documents: run archive import first")
	}

	report, candidates := motif.ScanAll(docs, scanner, os.Stdout)
	if report.HasFailures() {
		return fmt.Errorf("%d document(s) failed scanning", report.Failed)
	}

	cf := types.CandidateFile{
		Motif:      m.Name,
		Candidates: candidates,
		Summary: types.ScanSummary{
			Documents:  report.Documents,
			Resolved:   report.Resolved,
			Candidates: len(candidates),
			Timestamp:  time.Now().UTC(),
		},
	}

	path := weave.CandidatePath(weaveDir, m.Name)
	if err := weave.WriteCandidateFile(path, cf); err != nil {
		return err
	}

	if len(candidates) == 0 {
		fmt.Printf("\nno candidates found for motif %s\n", m.Name)
		return nil
	}
	fmt.Printf("\nwrote %d candidates to %s\n", len(candidates), path)
	return nil
}
