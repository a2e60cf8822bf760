// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var costsCmd = &cobra.Command{
	Use:   "costs",
	Short: "Report token usage across generate runs",
	Long: `Costs lists every recorded generate run with its batch counts and token
usage, newest first, plus totals across all runs.`,
	RunE: runCosts,
}

func init() {
	costsCmd.Flags().String("archive-dir", "archive", "base directory for the world archive")
	costsCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(costsCmd)
}

func runCosts(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-10s  %-8s  %-12s  %s\n",
		"Run", "Motif", "Batches", "Failed", "Prompt tok", "Output tok")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	var promptTotal, outputTotal int
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-10d  %-8d  %-12d  %d\n",
			r.ID, clip(r.Motif, 20), r.Batches, r.FailedBatches, r.PromptTokens, r.OutputTokens)
		promptTotal += r.PromptTokens
		outputTotal += r.OutputTokens
	}

	fmt.Fprintf(os.Stdout, "\n%d runs, %d prompt tokens, %d output tokens\n",
		len(runs), promptTotal, outputTotal)
	return nil
}
