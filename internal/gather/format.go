// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gather

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-engine/pkg/types"
)

// FormatTable writes a bundle as a human-readable listing to w.
func FormatTable(bundle types.ResearchBundle, w io.Writer) {
	if len(bundle.Hits) == 0 {
		fmt.Fprintln(w, "No web results.")
	} else {
		fmt.Fprintf(w, "%-4s  %-50s  %s\n", "Rank", "Title", "Link")
		fmt.Fprintln(w, strings.Repeat("-", 100))
		for i, hit := range bundle.Hits {
			title := hit.Title
			if len(title) > 50 {
				title = title[:47] + "..."
			}
			fmt.Fprintf(w, "%-4d  %-50s  %s\n", i+1, title, hit.Link)
		}
		fmt.Fprintf(w, "\n%d web results\n", len(bundle.Hits))
	}

	enc := bundle.Encyclopedia
	switch enc.Status {
	case types.EncyclopediaFound:
		fmt.Fprintf(w, "\nEncyclopedia: %s\n%s\n%s\n", enc.Title, enc.Summary, enc.URL)
	case types.EncyclopediaDisambiguated:
		fmt.Fprintf(w, "\nEncyclopedia: ambiguous topic, candidates: %s\n", strings.Join(enc.Candidates, ", "))
	default:
		fmt.Fprintln(w, "\nEncyclopedia: no page found")
	}
}

// FormatJSON writes a bundle as indented JSON to w.
func FormatJSON(bundle types.ResearchBundle, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(bundle)
}

// FormatYAML writes a bundle as YAML to w.
func FormatYAML(bundle types.ResearchBundle, w io.Writer) error {
	data, err := yaml.Marshal(bundle)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
