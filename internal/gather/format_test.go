// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gather

import (
	"encoding/json"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-engine/pkg/types"
)

func sampleBundle() types.ResearchBundle {
	return types.ResearchBundle{
		Hits: []types.SearchHit{
			{Title: "Grid storage overview", Snippet: "Batteries at scale.", Link: "https://example.com/a"},
			{Title: "Flow battery economics", Snippet: "Costs are falling.", Link: "https://example.com/b"},
		},
		Encyclopedia: types.EncyclopediaRef{
			Summary: "Energy storage captures energy for later use.",
			Title:   "Energy storage",
			URL:     "https://en.wikipedia.org/wiki/Energy_storage",
			Status:  types.EncyclopediaFound,
		},
		QueriesUsed: Queries("energy storage"),
	}
}

func TestFormatTableListsHitsAndEncyclopedia(t *testing.T) {
	var buf strings.Builder
	FormatTable(sampleBundle(), &buf)
	out := buf.String()

	for _, want := range []string{"Grid storage overview", "https://example.com/b", "2 web results", "Energy storage"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTableEmptyBundle(t *testing.T) {
	var buf strings.Builder
	FormatTable(types.ResearchBundle{}, &buf)
	out := buf.String()

	if !strings.Contains(out, "No web results.") {
		t.Errorf("missing empty-hits line:\n%s", out)
	}
	if !strings.Contains(out, "no page found") {
		t.Errorf("missing empty-encyclopedia line:\n%s", out)
	}
}

func TestFormatJSONRoundTrip(t *testing.T) {
	bundle := sampleBundle()

	var buf strings.Builder
	if err := FormatJSON(bundle, &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var decoded types.ResearchBundle
	if err := json.Unmarshal([]byte(buf.String()), &decoded); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(decoded.Hits) != 2 || decoded.Encyclopedia.Title != "Energy storage" {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestFormatYAMLRoundTrip(t *testing.T) {
	bundle := sampleBundle()

	var buf strings.Builder
	if err := FormatYAML(bundle, &buf); err != nil {
		t.Fatalf("FormatYAML: %v", err)
	}

	var decoded types.ResearchBundle
	if err := yaml.Unmarshal([]byte(buf.String()), &decoded); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(decoded.QueriesUsed) != 3 || decoded.Hits[1].Link != "https://example.com/b" {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}
