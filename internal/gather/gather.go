// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gather collects web and encyclopedia context for a topic.
// Implements: docs/ARCHITECTURE § Context Gathering.
//
// Gathering degrades instead of aborting: a failed search query yields
// an empty hit list for that query, a failed encyclopedia lookup yields
// a not-found reference, and the run continues. Gather never returns an
// error past its own boundary.
package gather

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/article-engine/internal/httputil"
	"github.com/pdiddy/article-engine/pkg/types"
)

// queryTemplates are the fixed search angles issued for every topic.
var queryTemplates = []string{
	"%s latest developments 2024",
	"%s trends applications",
	"%s challenges opportunities future",
}

// SearchBackend queries a web search API for organic results. Each
// implementation covers one provider per the Strategy pattern.
type SearchBackend interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.GatherConfig) ([]types.SearchHit, error)
}

// EncyclopediaBackend looks up a topic's reference page. The returned
// EncyclopediaRef carries one of three disjoint terminal outcomes:
// found, disambiguated, or not found.
type EncyclopediaBackend interface {
	Name() string
	Lookup(ctx context.Context, topic string, cfg types.GatherConfig) (types.EncyclopediaRef, error)
}

// Queries returns the fixed search queries for a topic, in issue order.
func Queries(topic string) []string {
	queries := make([]string, len(queryTemplates))
	for i, tmpl := range queryTemplates {
		queries[i] = fmt.Sprintf(tmpl, topic)
	}
	return queries
}

// Gather issues the fixed search queries plus one encyclopedia lookup
// and aggregates the results into a ResearchBundle. Successive search
// calls are spaced by cfg.InterQueryDelay to respect the provider's rate
// limits. Progress and degradation warnings are written to w.
//
// Given identical backend responses, Gather is deterministic: the bundle
// contains no timestamps or random fields.
func Gather(ctx context.Context, topic string, search SearchBackend, enc EncyclopediaBackend, cfg types.GatherConfig, w io.Writer) types.ResearchBundle {
	bundle := types.ResearchBundle{QueriesUsed: Queries(topic)}

	if cfg.SerperAPIKey == "" {
		fmt.Fprintln(w, "warning: search credential missing, continuing without web results")
	} else {
		pacer := httputil.NewPacer(cfg.InterQueryDelay)
		for _, query := range bundle.QueriesUsed {
			if err := pacer.Wait(ctx); err != nil {
				fmt.Fprintf(w, "warning: gathering interrupted: %v\n", err)
				break
			}
			hits, err := search.Search(ctx, query, cfg)
			if err != nil {
				fmt.Fprintf(w, "warning: %s query %q failed: %v\n", search.Name(), query, err)
				continue
			}
			bundle.Hits = append(bundle.Hits, hits...)
		}
	}

	if ctx.Err() != nil {
		bundle.Encyclopedia = notFoundRef()
		return bundle
	}

	ref, err := enc.Lookup(ctx, topic, cfg)
	if err != nil {
		fmt.Fprintf(w, "warning: %s lookup failed: %v\n", enc.Name(), err)
		ref = notFoundRef()
	}
	bundle.Encyclopedia = ref

	return bundle
}

// notFoundRef is the degraded encyclopedia outcome used when the lookup
// fails outright.
func notFoundRef() types.EncyclopediaRef {
	return types.EncyclopediaRef{
		Summary: "No encyclopedia page found for this topic.",
		Status:  types.EncyclopediaNotFound,
	}
}
