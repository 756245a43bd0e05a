// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-engine/internal/gather"
)

var researchCmd = &cobra.Command{
	Use:   "research [topic]",
	Short: "Gather web and encyclopedia context without generating text",
	Long: `Research runs only the context-gathering stage: the fixed web search
queries plus one encyclopedia lookup. Useful for inspecting what evidence a
generate run would feed the model.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().Bool("json", false, "output the bundle as JSON")
	researchCmd.Flags().Bool("yaml", false, "output the bundle as YAML")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")
	cfg := pipelineConfig(cmd)

	httpClient := &http.Client{Timeout: cfg.Gather.Timeout}
	search := &gather.SerperBackend{Client: httpClient}
	enc := &gather.WikipediaBackend{Client: httpClient}

	bundle := gather.Gather(cmd.Context(), topic, search, enc, cfg.Gather, os.Stderr)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return gather.FormatJSON(bundle, os.Stdout)
	}
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		return gather.FormatYAML(bundle, os.Stdout)
	}
	gather.FormatTable(bundle, os.Stdout)

	if len(bundle.Hits) == 0 && cfg.Gather.SerperAPIKey == "" {
		fmt.Fprintln(os.Stderr, "hint: set SERPER_API_KEY to enable web search")
	}
	return nil
}
