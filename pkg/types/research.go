// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the article-engine pipeline.
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

// SearchHit represents one organic web search result returned by the
// search backend. Hits are immutable and live only for the duration of
// a single generation run.
type SearchHit struct {
	// Title is the result title as returned by the backend.
	Title string `json:"title" yaml:"title"`

	// Snippet is the short text excerpt shown for the result.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Link is the result URL.
	Link string `json:"link" yaml:"link"`
}

// EncyclopediaStatus classifies the terminal outcome of an encyclopedia
// lookup. The three outcomes are disjoint.
type EncyclopediaStatus string

const (
	// EncyclopediaFound means a single page matched the topic.
	EncyclopediaFound EncyclopediaStatus = "found"

	// EncyclopediaDisambiguated means the topic matched several pages.
	// The reference carries candidate titles instead of a summary.
	EncyclopediaDisambiguated EncyclopediaStatus = "disambiguated"

	// EncyclopediaNotFound means no page matched the topic.
	EncyclopediaNotFound EncyclopediaStatus = "not_found"
)

// EncyclopediaRef holds the outcome of one encyclopedia lookup.
// Title and URL are populated only when Status is EncyclopediaFound.
type EncyclopediaRef struct {
	// Summary is the lead summary of the matched page.
	Summary string `json:"summary" yaml:"summary"`

	// Title is the canonical page title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// URL is the canonical page URL.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Status records how the lookup terminated.
	Status EncyclopediaStatus `json:"status" yaml:"status"`

	// Candidates lists up to five alternative page titles when the
	// lookup was ambiguous.
	Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// ResearchBundle aggregates the evidence gathered for one topic before
// any text is generated. It is built once per run and read-only afterward.
// The bundle carries no timestamps or random fields: gathering the same
// topic against identical backend responses yields an identical bundle.
type ResearchBundle struct {
	// Hits lists the web search results in query order.
	Hits []SearchHit `json:"hits" yaml:"hits"`

	// Encyclopedia is the encyclopedia lookup outcome.
	Encyclopedia EncyclopediaRef `json:"encyclopedia" yaml:"encyclopedia"`

	// QueriesUsed lists the search queries that were issued, in order.
	QueriesUsed []string `json:"queries_used" yaml:"queries_used"`
}
