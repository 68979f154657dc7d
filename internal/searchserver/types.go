package searchserver

// WebSearchInput is the web_search tool input.
type WebSearchInput struct {
	Query   string   `json:"query" jsonschema:"Search query"`
	Engines []string `json:"engines,omitempty" jsonschema:"Engine ids to query (e.g. google, bing, brave, wikipedia). Default: all enabled engines"`
	Limit   int      `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10, max 50)"`
}

// WebSearchOutput is the merged, ranked search response.
type WebSearchOutput struct {
	Query      string         `json:"query"`
	Results    []ResultItem   `json:"results"`
	Featured   *FeaturedItem  `json:"featured_snippet,omitempty"`
	Answer     *FragmentItem  `json:"answer,omitempty"`
	Infobox    *FragmentItem  `json:"infobox,omitempty"`
	Enrichment *FragmentItem  `json:"enrichment,omitempty"`
	Timings    []EngineTiming `json:"timings,omitempty"`
	ElapsedMS  int64          `json:"elapsed_ms"`
}

// ResultItem is one ranked result.
type ResultItem struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Engines     []string `json:"engines"`
	Score       float64  `json:"score"`
}

// FeaturedItem is the winning featured snippet.
type FeaturedItem struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
	Engine      string `json:"engine"`
}

// FragmentItem is an answer, infobox or enrichment card rendered as markdown.
type FragmentItem struct {
	Engine   string `json:"engine"`
	Markdown string `json:"markdown"`
}

// EngineTiming is when an engine finished, relative to the start of the search.
type EngineTiming struct {
	Engine string `json:"engine"`
	MS     int64  `json:"ms"`
}

// AutocompleteInput is the autocomplete tool input.
type AutocompleteInput struct {
	Query string `json:"query" jsonschema:"Partial query to complete"`
}

// AutocompleteOutput holds merged suggestions.
type AutocompleteOutput struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// ListEnginesInput is empty; list_engines takes no arguments.
type ListEnginesInput struct{}

// EngineInfo describes one registry entry.
type EngineInfo struct {
	ID           string   `json:"id"`
	Weight       float64  `json:"weight"`
	Capabilities []string `json:"capabilities"`
	Enabled      bool     `json:"enabled"`
}

// ListEnginesOutput is the engine registry.
type ListEnginesOutput struct {
	Engines []EngineInfo `json:"engines"`
}
