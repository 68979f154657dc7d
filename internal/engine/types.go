package engine

import "strings"

// --- Input ---

// Query is one user search. Immutable for the duration of the search.
type Query struct {
	Text    string
	IP      string            // caller IP, for answer engines that need it
	Headers map[string]string // forwarded request headers
}

// Header returns a forwarded header by case-insensitive name.
func (q *Query) Header(name string) string {
	if q.Headers == nil {
		return ""
	}
	if v, ok := q.Headers[name]; ok {
		return v
	}
	for k, v := range q.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// --- Per-engine results (pre-merge) ---

// Hit is one search result as returned by a single engine.
type Hit struct {
	URL         string
	Title       string
	Description string
}

// FeaturedSnippet is an engine's highlighted answer block.
type FeaturedSnippet struct {
	URL         string
	Title       string
	Description string
}

// EngineResult is an adapter's normalized output for one query.
// Empty AnswerHTML / InfoboxHTML mean "none".
type EngineResult struct {
	Hits        []Hit
	Featured    *FeaturedSnippet
	AnswerHTML  string
	InfoboxHTML string
}

// AnswerResult wraps a pre-rendered instant answer.
func AnswerResult(html string) EngineResult { return EngineResult{AnswerHTML: html} }

// InfoboxResult wraps a pre-rendered infobox.
func InfoboxResult(html string) EngineResult { return EngineResult{InfoboxHTML: html} }

// --- Aggregate (post-merge) ---

// Response is the merged output of one search wave.
type Response struct {
	Results  []SearchResult `json:"search_results"`
	Featured *Featured      `json:"featured_snippet,omitempty"`
	Answer   *Fragment      `json:"answer,omitempty"`
	Infobox  *Fragment      `json:"infobox,omitempty"`
}

// SearchResult is a merged, scored result. Engines is kept in registry order.
type SearchResult struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Engines     []Engine `json:"engines"`
	Score       float64  `json:"score"`
}

// Featured is the winning featured snippet and the engine that produced it.
type Featured struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Engine      Engine `json:"engine"`
}

// Fragment is an HTML fragment attributed to one engine.
// Used for answers, infoboxes and post-search enrichment.
type Fragment struct {
	HTML   string `json:"html"`
	Engine Engine `json:"engine"`
}
