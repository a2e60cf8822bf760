// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chris-arsenault/illuminator/internal/archive"
	"github.com/chris-arsenault/illuminator/internal/httputil"
	"github.com/chris-arsenault/illuminator/internal/motif"
	"github.com/chris-arsenault/illuminator/internal/secrets"
	"github.com/chris-arsenault/illuminator/internal/weave"
	"github.com/chris-arsenault/illuminator/pkg/types"
)

var weaveCmd = &cobra.Command{
	Use:   "weave",
	Short: "Generate, review, and apply motif rewrites",
	Long: `Weave drives the rewrite half of the pipeline. Generate sends scanned
candidates to the AI model in batches and stores the variants. Review
shows each variant as a word diff against the original sentence. Apply
patches accepted variants back into the archive.`,
}

// --- generate subcommand ---

var weaveGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Send scanned candidates to the AI model for rewriting",
	Long: `Generate loads the candidates file for a motif, splits it into batches,
and dispatches them to the configured AI backend. Variants land in
weave/variants/[run].yaml along with a decisions skeleton to edit during
review. Failed batches are reported; completed batches are kept.`,
	RunE: runWeaveGenerate,
}

func runWeaveGenerate(cmd *cobra.Command, args []string) error {
	vf, err := generateVariants(cmd)
	if err != nil {
		return err
	}
	if vf.Summary.FailedBatches > 0 {
		return fmt.Errorf("%d of %d batches failed", vf.Summary.FailedBatches, vf.Summary.Batches)
	}
	return nil
}

// generateVariants runs the generate stage and returns the variants file it
// wrote. Batch failures land in the summary rather than the error so the
// caller can decide whether partial results are worth reviewing.
func generateVariants(cmd *cobra.Command) (types.VariantsFile, error) {
	motifPath, _ := cmd.Flags().GetString("motif")
	weaveDir, _ := cmd.Flags().GetString("weave-dir")
	archiveDir, _ := cmd.Flags().GetString("archive-dir")

	var vf types.VariantsFile

	m, err := motif.LoadMotif(motifPath)
	if err != nil {
		return vf, err
	}

	cf, err := weave.LoadCandidateFile(weave.CandidatePath(weaveDir, m.Name))
	if err != nil {
		return vf, fmt.Errorf("loading candidates (run scan first): %w", err)
	}
	if len(cf.Candidates) == 0 {
		return vf, fmt.Errorf("no candidates for motif %s: nothing to generate", m.Name)
	}

	cfg := weaveConfigFromFlags(cmd)
	backend, err := weave.NewBackend(cfg, httpClient())
	if err != nil {
		return vf, err
	}

	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	fmt.Printf("run %s: %d candidates for motif %s\n\n", runID, len(cf.Candidates), m.Name)

	result := weave.Generate(context.Background(), backend, m, cf.Candidates, cfg, os.Stdout)

	vf = types.VariantsFile{
		RunID:    runID,
		Motif:    m.Name,
		Model:    cfg.Model,
		Variants: result.Variants,
		Summary: types.RunSummary{
			Batches:       result.Batches,
			FailedBatches: result.FailedBatches,
			Rewrites:      len(result.Variants),
			PromptTokens:  result.PromptTokens,
			OutputTokens:  result.OutputTokens,
			Timestamp:     startedAt,
		},
		Failures: result.Failures,
	}
	if err := weave.WriteVariantsFile(weave.VariantsPath(weaveDir, runID), vf); err != nil {
		return vf, err
	}
	if err := weave.WriteDecisionSkeleton(weave.DecisionsPath(weaveDir, runID), vf); err != nil {
		return vf, err
	}

	recordRun(archiveDir, vf, len(cf.Candidates), startedAt)

	fmt.Printf("\nwrote %d variants to %s\n", len(result.Variants),
		weave.VariantsPath(weaveDir, runID))
	fmt.Printf("edit decisions in %s, then run: illuminator weave apply --run %s\n",
		weave.DecisionsPath(weaveDir, runID), runID)

	return vf, nil
}

// recordRun stores run bookkeeping for the cost report. Failure to record
// never fails the run itself.
func recordRun(archiveDir string, vf types.VariantsFile, candidates int, startedAt time.Time) {
	store, err := archive.NewStore(types.ArchiveConfig{ArchiveDir: archiveDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
		return
	}
	defer store.Close()

	rec := types.RunRecord{
		ID:            vf.RunID,
		Motif:         vf.Motif,
		Model:         vf.Model,
		Candidates:    candidates,
		Batches:       vf.Summary.Batches,
		FailedBatches: vf.Summary.FailedBatches,
		PromptTokens:  vf.Summary.PromptTokens,
		OutputTokens:  vf.Summary.OutputTokens,
		StartedAt:     startedAt,
	}
	if err := store.RecordRun(context.Background(), rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
	}
}

// --- review subcommand ---

var weaveReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Show variants as word diffs against the original sentences",
	Long: `Review prints each variant from a generate run as an inline word diff
against the candidate sentence it rewrites, with surrounding context.
Record verdicts by editing weave/decisions/[run].yaml.`,
	RunE: runWeaveReview,
}

func runWeaveReview(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetString("run")
	weaveDir, _ := cmd.Flags().GetString("weave-dir")

	vf, err := weave.LoadVariantsFile(weave.VariantsPath(weaveDir, runID))
	if err != nil {
		return err
	}
	cf, err := weave.LoadCandidateFile(weave.CandidatePath(weaveDir, vf.Motif))
	if err != nil {
		return err
	}

	return weave.FormatReview(os.Stdout, cf, vf)
}

// --- apply subcommand ---

var weaveApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Patch accepted variants back into the archive",
	Long: `Apply reads the decisions file for a run, validates it against the
run's variants, and patches every accepted rewrite into its document.
Patches are verified against the text captured at scan time: a document
that changed since the scan is left untouched and reported.`,
	RunE: runWeaveApply,
}

func runWeaveApply(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetString("run")
	weaveDir, _ := cmd.Flags().GetString("weave-dir")
	archiveDir, _ := cmd.Flags().GetString("archive-dir")

	vf, err := weave.LoadVariantsFile(weave.VariantsPath(weaveDir, runID))
	if err != nil {
		return err
	}
	df, err := weave.LoadDecisions(weave.DecisionsPath(weaveDir, runID))
	if err != nil {
		return err
	}
	if err := weave.ValidateDecisions(df, vf); err != nil {
		return err
	}

	accepted := weave.Accepted(df, vf)
	if len(accepted) == 0 {
		fmt.Println("no accepted variants: nothing to apply")
		return nil
	}

	cf, err := weave.LoadCandidateFile(weave.CandidatePath(weaveDir, vf.Motif))
	if err != nil {
		return err
	}
	patches, err := archive.BuildPatches(cf, accepted)
	if err != nil {
		return err
	}

	store, err := archive.NewStore(types.ArchiveConfig{ArchiveDir: archiveDir})
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.ApplyAll(context.Background(), runID, patches, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d patch(es) failed: re-scan and regenerate for drifted documents", summary.Failed)
	}
	return nil
}

// --- run subcommand ---

var weaveRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the scan and generate phases end to end",
	Long: `Run walks the weave workflow for a motif: scan the archive, confirm the
candidate count, and generate variants. The workflow stops at the review
phase; inspect the diffs with weave review, record verdicts, and finish
with weave apply.`,
	RunE: runWeaveRun,
}

func runWeaveRun(cmd *cobra.Command, args []string) error {
	motifPath, _ := cmd.Flags().GetString("motif")
	autoConfirm, _ := cmd.Flags().GetBool("yes")
	weaveDir, _ := cmd.Flags().GetString("weave-dir")

	phase := weave.PhaseScan

	phase, err := phase.Advance(weave.PhaseScanning)
	if err != nil {
		return err
	}
	fmt.Printf("phase: %s\n", phase)
	if err := runScan(cmd, nil); err != nil {
		return err
	}

	m, err := motif.LoadMotif(motifPath)
	if err != nil {
		return err
	}
	cf, err := weave.LoadCandidateFile(weave.CandidatePath(weaveDir, m.Name))
	if err != nil {
		return err
	}

	if len(cf.Candidates) == 0 {
		phase, err = phase.Advance(weave.PhaseEmpty)
		if err != nil {
			return err
		}
		fmt.Printf("phase: %s (no candidates, workflow complete)\n", phase)
		return nil
	}

	phase, err = phase.Advance(weave.PhaseConfirm)
	if err != nil {
		return err
	}
	fmt.Printf("phase: %s (%d candidates)\n", phase, len(cf.Candidates))

	if !autoConfirm {
		fmt.Printf("send %d candidates to the model? [y/N] ", len(cf.Candidates))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("aborted before generate")
			return nil
		}
	}

	phase, err = phase.Advance(weave.PhaseGenerating)
	if err != nil {
		return err
	}
	fmt.Printf("phase: %s\n", phase)
	vf, err := generateVariants(cmd)
	if err != nil {
		return err
	}

	if len(vf.Variants) == 0 {
		phase, err = phase.Advance(weave.PhaseEmpty)
		if err != nil {
			return err
		}
		fmt.Printf("phase: %s (no usable rewrites, workflow complete)\n", phase)
		if vf.Summary.FailedBatches > 0 {
			return fmt.Errorf("%d of %d batches failed", vf.Summary.FailedBatches, vf.Summary.Batches)
		}
		return nil
	}

	phase, err = phase.Advance(weave.PhaseReview)
	if err != nil {
		return err
	}
	if vf.Summary.FailedBatches > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d of %d batches failed, reviewing partial results\n",
			vf.Summary.FailedBatches, vf.Summary.Batches)
	}
	fmt.Printf("phase: %s (continue with weave review and weave apply)\n", phase)
	return nil
}

// --- shared helpers ---

// weaveConfigFromFlags builds the weave configuration from flags, falling
// back to the config file and loaded secrets.
func weaveConfigFromFlags(cmd *cobra.Command) types.WeaveConfig {
	provider, _ := cmd.Flags().GetString("provider")
	if provider == "" {
		provider = viper.GetString("weave.provider")
	}
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("weave.model")
	}
	apiKey, _ := cmd.Flags().GetString("api-key")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	weaveDir, _ := cmd.Flags().GetString("weave-dir")

	return types.WeaveConfig{
		AIConfig: types.AIConfig{
			Provider:   types.AIProvider(provider),
			Model:      model,
			APIKey:     secretDefault(secrets.KeyForProvider(provider), apiKey),
			MaxRetries: maxRetries,
		},
		BatchSize:   batchSize,
		Concurrency: concurrency,
		WeaveDir:    weaveDir,
	}
}

// httpClient builds the shared HTTP client from the config file's http
// section.
func httpClient() *http.Client {
	return httputil.NewClient(types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	})
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().String("motif", "", "path to motif definition YAML (required)")
	cmd.Flags().String("provider", "", "AI provider: claude or gemini (default claude)")
	cmd.Flags().String("model", "", "AI model identifier")
	cmd.Flags().String("api-key", "", "AI API key (default: .secrets/ file for the provider)")
	cmd.Flags().Int("batch-size", 0, "candidates per model request (default 5)")
	cmd.Flags().Int("concurrency", 0, "batches dispatched in parallel (default 2)")
	cmd.Flags().Int("max-retries", 0, "retry attempts per batch (default 3)")
	cmd.Flags().String("weave-dir", "weave", "base directory for weave artifacts")
	cmd.Flags().String("archive-dir", "archive", "base directory for the world archive")
	cmd.MarkFlagRequired("motif")
}

func init() {
	addGenerateFlags(weaveGenerateCmd)

	weaveReviewCmd.Flags().String("run", "", "generate run ID (required)")
	weaveReviewCmd.Flags().String("weave-dir", "weave", "base directory for weave artifacts")
	weaveReviewCmd.MarkFlagRequired("run")

	weaveApplyCmd.Flags().String("run", "", "generate run ID (required)")
	weaveApplyCmd.Flags().String("weave-dir", "weave", "base directory for weave artifacts")
	weaveApplyCmd.Flags().String("archive-dir", "archive", "base directory for the world archive")
	weaveApplyCmd.MarkFlagRequired("run")

	addGenerateFlags(weaveRunCmd)
	weaveRunCmd.Flags().String("kind", "", "restrict scan to one document kind")
	weaveRunCmd.Flags().Int("radius", 0, "context window radius in characters (default 150)")
	weaveRunCmd.Flags().Bool("yes", false, "skip the confirmation prompt before generating")

	weaveCmd.AddCommand(weaveGenerateCmd, weaveReviewCmd, weaveApplyCmd, weaveRunCmd)
	rootCmd.AddCommand(weaveCmd)
}
