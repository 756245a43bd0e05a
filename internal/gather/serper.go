// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gather

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/article-engine/pkg/types"
)

// serperSearchBase is the Serper search endpoint. Declared as a var so
// tests can substitute an httptest server.
var serperSearchBase = "https://google.serper.dev/search"

// SerperBackend queries the Serper web search API.
type SerperBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *SerperBackend) Name() string { return "serper" }

// serperRequest is the JSON request body for the Serper search API.
type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

// serperResponse is the subset of the Serper response the gatherer uses.
type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic"`
}

// Search posts the query to the Serper API and returns the organic hits.
func (b *SerperBackend) Search(ctx context.Context, query string, cfg types.GatherConfig) ([]types.SearchHit, error) {
	num := cfg.ResultsPerQuery
	if num <= 0 {
		num = 3
	}

	bodyBytes, err := json.Marshal(serperRequest{Q: query, Num: num})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperSearchBase, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-KEY", cfg.SerperAPIKey)
	req.Header.Set("Content-Type", "application/json")
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Serper API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Serper API returned HTTP %d", resp.StatusCode)
	}

	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Serper response: %w", err)
	}

	hits := make([]types.SearchHit, 0, len(sr.Organic))
	for _, o := range sr.Organic {
		hits = append(hits, types.SearchHit{
			Title:   o.Title,
			Snippet: o.Snippet,
			Link:    o.Link,
		})
	}
	return hits, nil
}
