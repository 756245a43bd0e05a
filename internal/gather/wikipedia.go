// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/article-engine/pkg/types"
)

// Endpoints are vars so tests can substitute httptest servers.
var (
	// wikipediaSummaryBase is the REST page-summary endpoint.
	wikipediaSummaryBase = "https://en.wikipedia.org/api/rest_v1/page/summary"

	// wikipediaActionBase is the action API endpoint used to list
	// candidate titles for ambiguous topics.
	wikipediaActionBase = "https://en.wikipedia.org/w/api.php"
)

// maxCandidates bounds the candidate titles returned for an ambiguous topic.
const maxCandidates = 5

// summarySentences is how much of the page lead is kept.
const summarySentences = 3

// WikipediaBackend looks up topics against the Wikipedia REST API.
type WikipediaBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *WikipediaBackend) Name() string { return "wikipedia" }

// wikiSummary is the subset of the REST summary response the gatherer uses.
type wikiSummary struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Lookup fetches the page summary for a topic. The result has one of
// three disjoint outcomes: a found page with summary, title, and URL; a
// disambiguation carrying up to five candidate titles; or not found.
func (b *WikipediaBackend) Lookup(ctx context.Context, topic string, cfg types.GatherConfig) (types.EncyclopediaRef, error) {
	reqURL := wikipediaSummaryBase + "/" + url.PathEscape(topic) + "?redirect=true"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.EncyclopediaRef{}, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return types.EncyclopediaRef{}, fmt.Errorf("Wikipedia API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return types.EncyclopediaRef{
			Summary: "No encyclopedia page found for this topic.",
			Status:  types.EncyclopediaNotFound,
		}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return types.EncyclopediaRef{}, fmt.Errorf("Wikipedia API returned HTTP %d", resp.StatusCode)
	}

	var ws wikiSummary
	if err := json.NewDecoder(resp.Body).Decode(&ws); err != nil {
		return types.EncyclopediaRef{}, fmt.Errorf("parsing Wikipedia response: %w", err)
	}

	if ws.Type == "disambiguation" {
		// Candidate titles come from a second, best-effort call.
		candidates := b.candidateTitles(ctx, topic, cfg, client)
		return types.EncyclopediaRef{
			Summary:    fmt.Sprintf("Multiple topics found: %s", strings.Join(candidates, ", ")),
			Status:     types.EncyclopediaDisambiguated,
			Candidates: candidates,
		}, nil
	}

	return types.EncyclopediaRef{
		Summary: firstSentences(ws.Extract, summarySentences),
		Title:   ws.Title,
		URL:     ws.ContentURLs.Desktop.Page,
		Status:  types.EncyclopediaFound,
	}, nil
}

// candidateTitles asks the action API for up to maxCandidates titles
// matching the topic. Failures yield an empty list; the disambiguation
// outcome itself is already established.
func (b *WikipediaBackend) candidateTitles(ctx context.Context, topic string, cfg types.GatherConfig, client *http.Client) []string {
	params := url.Values{
		"action": {"opensearch"},
		"search": {topic},
		"limit":  {fmt.Sprintf("%d", maxCandidates)},
		"format": {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wikipediaActionBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	// The opensearch response is a four-element array; element 1 holds
	// the matching titles.
	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil || len(raw) < 2 {
		return nil
	}
	var titles []string
	if err := json.Unmarshal(raw[1], &titles); err != nil {
		return nil
	}
	if len(titles) > maxCandidates {
		titles = titles[:maxCandidates]
	}
	return titles
}

// firstSentences returns at most n sentences from text, splitting on
// sentence-ending punctuation followed by a space.
func firstSentences(text string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := 0; i < len(text)-1; i++ {
		if (text[i] == '.' || text[i] == '!' || text[i] == '?') && text[i+1] == ' ' {
			count++
			if count == n {
				return text[:i+1]
			}
		}
	}
	return text
}
