// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-engine/pkg/types"
)

// modelNotes gives a one-line characterization per supported model.
var modelNotes = map[types.ModelID]string{
	types.ModelLlama31Instant:   "fastest, most reliable (default)",
	types.ModelLlama31Versatile: "best quality, comprehensive research",
	types.ModelLlama3Small:      "alternative 8B model",
	types.ModelMixtral:          "well suited to research tasks",
	types.ModelLlama3Large:      "alternative 70B model",
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported completion models",
	Run: func(cmd *cobra.Command, args []string) {
		for _, m := range types.SupportedModels {
			fmt.Printf("%-28s %s\n", m, modelNotes[m])
		}
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
