// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-engine/internal/archive"
	"github.com/pdiddy/article-engine/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage previously generated articles (list, show, search, export)",
	Long: `Archive manages the local SQLite database of finished generation runs.
Runs land here when generate is invoked with --archive.`,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := store.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		printRecordTable(records)
		return nil
	},
}

var archiveShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print one archived article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if withReport, _ := cmd.Flags().GetBool("report"); withReport {
			fmt.Fprintf(os.Stderr, "--- research report ---\n%s\n--- end report ---\n\n", rec.Report)
		}
		fmt.Println(rec.Article)
		return nil
	},
}

var archiveSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over archived topics and articles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := store.Search(cmd.Context(), strings.Join(args, " "), limit)
		if err != nil {
			return err
		}
		printRecordTable(records)
		return nil
	},
}

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every archived run to stdout as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		return store.ExportYAML(cmd.Context(), os.Stdout)
	},
}

func init() {
	archiveListCmd.Flags().Int("limit", 0, "maximum runs to list (0 uses the default)")
	archiveSearchCmd.Flags().Int("limit", 0, "maximum results (0 uses the default)")
	archiveShowCmd.Flags().Bool("report", false, "also print the research report to stderr")

	archiveCmd.PersistentFlags().String("archive-dir", "", "archive directory (default: archive/)")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	archiveCmd.AddCommand(archiveSearchCmd)
	archiveCmd.AddCommand(archiveExportCmd)
	rootCmd.AddCommand(archiveCmd)
}

func openArchive(cmd *cobra.Command) (*archive.Store, error) {
	cfg := pipelineConfig(cmd).Archive
	if dir, _ := cmd.Flags().GetString("archive-dir"); dir != "" {
		cfg.Dir = dir
	}
	return archive.NewStore(cfg)
}

func printRecordTable(records []archive.Record) {
	if len(records) == 0 {
		fmt.Println("No archived runs.")
		return
	}

	fmt.Printf("%-12s  %-40s  %-10s  %-8s  %s\n", "ID", "Topic", "Language", "Depth", "Created")
	fmt.Println(strings.Repeat("-", 96))
	for _, rec := range records {
		topic := rec.Topic
		if len(topic) > 40 {
			topic = topic[:37] + "..."
		}
		created := ""
		if !rec.CreatedAt.IsZero() {
			created = rec.CreatedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("%-12s  %-40s  %-10s  %-8s  %s\n", rec.ID, topic, rec.Language, depthLabel(rec.Depth), created)
	}
}

func depthLabel(d types.Depth) string {
	if d == "" {
		return "-"
	}
	return string(d)
}
