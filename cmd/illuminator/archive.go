// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chris-arsenault/illuminator/internal/archive"
	"github.com/chris-arsenault/illuminator/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the world archive (import, query, export)",
	Long: `Archive manages a local SQLite archive of world documents. Use
subcommands to import a world export file, query documents, or export
the archive back out.`,
}

// --- import subcommand ---

var archiveImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a world export file into the archive",
	Long: `Import reads a world export file (YAML or JSON) and upserts its
entities, chronicles, and eras as documents. Re-importing the same file
overwrites earlier versions of each document.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchiveImport,
}

func runArchiveImport(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.ImportWorld(context.Background(), args[0], os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d record(s) failed to import", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var archiveQueryCmd = &cobra.Command{
	Use:   "query [query]",
	Short: "Query archived documents with full-text search and filters",
	Long: `Query searches the archive using FTS5 full-text search over document
names and prose, structured filters (kind, era), or a combination of
both.`,
	RunE: runArchiveQuery,
}

func runArchiveQuery(cmd *cobra.Command, args []string) error {
	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --kind, or --era")
	}

	results, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(results, jsonOutput)
}

func formatQueryOutput(results []archive.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-10s  %-28s  %-16s  %s\n",
		"Rank", "Kind", "Name", "Era", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range results {
		text := strings.ReplaceAll(r.Text, "\n", " ")
		fmt.Fprintf(os.Stdout, "%-4d  %-10s  %-28s  %-16s  %s\n",
			i+1, r.Kind, clip(r.Name, 28), clip(r.Era, 16), clip(text, 44))
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the archive to YAML or JSON",
	Long: `Export writes the full archive (or a filtered subset) back into world
export shape at archive/index/export.yaml or export.json, so applied
rewrites round-trip into the world files.`,
	RunE: runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to archive/index/export.yaml")
	case "json":
		if err := store.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to archive/index/export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

// clip shortens s to at most n runes, ending with "..." when truncated.
// Clipping on rune boundaries keeps multi-byte names readable in tables.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func openArchive(cmd *cobra.Command) (*archive.Store, error) {
	archiveDir, _ := cmd.Flags().GetString("archive-dir")
	if archiveDir == "" {
		archiveDir = "archive"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return archive.NewStore(types.ArchiveConfig{
		ArchiveDir: archiveDir,
		MaxResults: maxResults,
	})
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) archive.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	kind, _ := cmd.Flags().GetString("kind")
	era, _ := cmd.Flags().GetString("era")
	limit, _ := cmd.Flags().GetInt("limit")

	return archive.QueryOptions{
		Query:      queryText,
		Kind:       types.DocumentKind(kind),
		Era:        era,
		MaxResults: limit,
	}
}

func init() {
	archiveImportCmd.Flags().String("archive-dir", "archive", "base directory for the world archive (contains index/)")

	archiveQueryCmd.Flags().String("archive-dir", "archive", "base directory for the world archive")
	archiveQueryCmd.Flags().Int("max-results", 20, "maximum number of query results")
	archiveQueryCmd.Flags().String("query", "", "full-text search query")
	archiveQueryCmd.Flags().String("kind", "", "filter by document kind: entity, chronicle, era")
	archiveQueryCmd.Flags().String("era", "", "filter by era name")
	archiveQueryCmd.Flags().Int("limit", 0, "maximum results for this query")
	archiveQueryCmd.Flags().Bool("json", false, "output results as JSON")

	archiveExportCmd.Flags().String("archive-dir", "archive", "base directory for the world archive")
	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	archiveExportCmd.Flags().String("kind", "", "filter by document kind")
	archiveExportCmd.Flags().String("era", "", "filter by era name")
	archiveExportCmd.Flags().String("query", "", "full-text search query")
	archiveExportCmd.Flags().Int("limit", 0, "maximum documents to export")

	archiveCmd.AddCommand(archiveImportCmd, archiveQueryCmd, archiveExportCmd)
	rootCmd.AddCommand(archiveCmd)
}
