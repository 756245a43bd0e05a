// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-engine/internal/archive"
	"github.com/pdiddy/article-engine/internal/completion"
	"github.com/pdiddy/article-engine/internal/export"
	"github.com/pdiddy/article-engine/internal/gather"
	"github.com/pdiddy/article-engine/internal/pipeline"
	"github.com/pdiddy/article-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Run the full pipeline: research, report, article, polish",
	Long: `Generate gathers web and encyclopedia context for a topic, synthesizes a
research report, writes an article in the requested language, and (for
detailed runs) polishes the result. Artifacts are written to the output
directory in the requested formats.

Search degrades gracefully: without a search credential the run continues
on encyclopedia context alone. A completion credential is required.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("language", "English", "output language for the article")
	generateCmd.Flags().String("depth", "basic", "research depth: basic or detailed")
	generateCmd.Flags().String("model", "", "completion model identifier (see 'article-engine models')")
	generateCmd.Flags().String("format", "text,markdown,html", "comma-separated artifact formats")
	generateCmd.Flags().String("output-dir", "output/articles", "directory for generated artifacts")
	generateCmd.Flags().Bool("probe", false, "verify the completion backend with a tiny request before the run")
	generateCmd.Flags().Bool("archive", false, "save the finished run to the local archive")
	generateCmd.Flags().Bool("show-report", false, "print the intermediate research report to stderr")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")
	cfg := pipelineConfig(cmd)

	language, _ := cmd.Flags().GetString("language")
	depthFlag, _ := cmd.Flags().GetString("depth")
	depth, err := parseDepth(depthFlag)
	if err != nil {
		return err
	}

	if !cfg.Completion.Model.IsSupported() {
		return fmt.Errorf("unsupported model %q: run 'article-engine models' for the supported list", cfg.Completion.Model)
	}

	formats, err := parseFormats(cmd)
	if err != nil {
		return err
	}

	client := completion.NewClient(cfg.Completion)
	httpClient := &http.Client{Timeout: cfg.Gather.Timeout}
	search := &gather.SerperBackend{Client: httpClient}
	enc := &gather.WikipediaBackend{Client: httpClient}

	if probe, _ := cmd.Flags().GetBool("probe"); probe {
		fmt.Fprintln(os.Stderr, "probing completion backend")
		if res := client.Probe(cmd.Context()); !res.OK {
			return fmt.Errorf("completion backend probe failed (%s): %s", res.Kind, res.Message)
		}
		fmt.Fprintln(os.Stderr, "probe successful")
	}

	runner := pipeline.NewRunner(client, search, enc, cfg)

	start := time.Now()
	draft, err := runner.Run(cmd.Context(), pipeline.Options{
		Topic:    topic,
		Language: language,
		Depth:    depth,
	}, os.Stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "done in %s\n", time.Since(start).Round(time.Millisecond))

	if show, _ := cmd.Flags().GetBool("show-report"); show {
		fmt.Fprintf(os.Stderr, "\n--- research report ---\n%s\n--- end report ---\n\n", draft.Report)
	}

	meta := export.Metadata{
		Topic:     topic,
		Language:  language,
		Model:     cfg.Completion.Model,
		Generated: time.Now(),
	}
	paths, err := export.WriteAll(cfg.Export.OutputDir, meta, draft.Final(), formats)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(os.Stderr, "wrote %s\n", p)
	}

	if save, _ := cmd.Flags().GetBool("archive"); save {
		store, err := archive.NewStore(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Save(cmd.Context(), archive.Record{
			Topic:    topic,
			Language: language,
			Depth:    depth,
			Model:    cfg.Completion.Model,
			Report:   draft.Report,
			Article:  draft.Final(),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "archived run %s\n", id)
	}

	fmt.Println(draft.Final())
	return nil
}

// parseDepth validates the depth flag.
func parseDepth(s string) (types.Depth, error) {
	switch types.Depth(strings.ToLower(s)) {
	case types.DepthBasic:
		return types.DepthBasic, nil
	case types.DepthDetailed:
		return types.DepthDetailed, nil
	}
	return "", fmt.Errorf("unknown depth %q: expected basic or detailed", s)
}

// parseFormats parses the comma-separated format flag.
func parseFormats(cmd *cobra.Command) ([]export.Format, error) {
	raw, _ := cmd.Flags().GetString("format")
	var formats []export.Format
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := export.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		formats = export.AllFormats
	}
	return formats, nil
}
