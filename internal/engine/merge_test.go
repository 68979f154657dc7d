package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hits(urls ...string) []Hit {
	out := make([]Hit, len(urls))
	for i, u := range urls {
		out[i] = Hit{URL: u, Title: "title " + u, Description: "desc " + u}
	}
	return out
}

func TestMergeResponsesScoring(t *testing.T) {
	resp := MergeResponses(map[Engine]EngineResult{
		Bing:  {Hits: hits("https://a", "https://b")},
		Brave: {Hits: hits("https://b")},
	})

	require.Len(t, resp.Results, 2)
	assert.Equal(t, "https://b", resp.Results[0].URL)
	assert.InDelta(t, 0.5+1.25, resp.Results[0].Score, 1e-9)
	assert.Equal(t, []Engine{Bing, Brave}, resp.Results[0].Engines)
	assert.Equal(t, "https://a", resp.Results[1].URL)
	assert.InDelta(t, 1.0, resp.Results[1].Score, 1e-9)
	assert.Equal(t, []Engine{Bing}, resp.Results[1].Engines)
}

func TestMergeResponsesSingleEngineScaledByWeight(t *testing.T) {
	urls := []string{"https://a", "https://b", "https://c"}
	resp := MergeResponses(map[Engine]EngineResult{Brave: {Hits: hits(urls...)}})

	require.Len(t, resp.Results, 3)
	for i, want := range []float64{1.25, 0.625, 1.25 / 3} {
		r := resp.Results[i]
		assert.Equal(t, urls[i], r.URL)
		assert.Equal(t, "title "+urls[i], r.Title)
		assert.Equal(t, []Engine{Brave}, r.Engines)
		assert.InDelta(t, want, r.Score, 1e-9)
	}
}

func TestMergeResponsesTitleFromHeaviest(t *testing.T) {
	resp := MergeResponses(map[Engine]EngineResult{
		Marginalia: {Hits: []Hit{{URL: "https://x", Title: "light", Description: "light d"}}},
		Brave:      {Hits: []Hit{{URL: "https://x", Title: "heavy", Description: "heavy d"}}},
		Bing:       {Hits: []Hit{{URL: "https://x", Title: "middle", Description: "middle d"}}},
	})
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "heavy", resp.Results[0].Title)
	assert.Equal(t, "heavy d", resp.Results[0].Description)
	assert.Equal(t, []Engine{Bing, Brave, Marginalia}, resp.Results[0].Engines)
}

func TestMergeResponsesTieKeepsRegistryOrder(t *testing.T) {
	// bing, duckduckgo and startpage all weigh 1.0.
	for range 20 {
		resp := MergeResponses(map[Engine]EngineResult{
			Startpage:  {Hits: []Hit{{URL: "https://x", Title: "startpage"}}, AnswerHTML: "sp"},
			DuckDuckGo: {Hits: []Hit{{URL: "https://x", Title: "ddg"}}, AnswerHTML: "ddg"},
			Bing:       {Hits: []Hit{{URL: "https://x", Title: "bing"}}},
		})
		assert.Equal(t, "bing", resp.Results[0].Title)
		require.NotNil(t, resp.Answer)
		assert.Equal(t, DuckDuckGo, resp.Answer.Engine)
	}
}

func TestMergeResponsesSlots(t *testing.T) {
	resp := MergeResponses(map[Engine]EngineResult{
		Google: {
			Hits:     hits("https://g"),
			Featured: &FeaturedSnippet{URL: "https://g", Title: "G", Description: "google snippet"},
		},
		Calc:      AnswerResult("<b>3</b>"),
		Wikipedia: InfoboxResult("<h2>Go</h2>"),
	})

	require.NotNil(t, resp.Featured)
	assert.Equal(t, Google, resp.Featured.Engine)
	assert.Equal(t, "google snippet", resp.Featured.Description)
	require.NotNil(t, resp.Answer)
	assert.Equal(t, Fragment{HTML: "<b>3</b>", Engine: Calc}, *resp.Answer)
	require.NotNil(t, resp.Infobox)
	assert.Equal(t, Wikipedia, resp.Infobox.Engine)
}

func TestMergeResponsesHeavierSlotWins(t *testing.T) {
	resp := MergeResponses(map[Engine]EngineResult{
		Marginalia: {Featured: &FeaturedSnippet{URL: "https://m", Description: "m"}},
		Brave:      {Featured: &FeaturedSnippet{URL: "https://b", Description: "b"}},
		Google:     {Featured: &FeaturedSnippet{URL: "https://g", Description: "g"}},
	})
	require.NotNil(t, resp.Featured)
	assert.Equal(t, Brave, resp.Featured.Engine)
}

func TestMergeResponsesEmpty(t *testing.T) {
	resp := MergeResponses(nil)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
	assert.Nil(t, resp.Featured)
	assert.Nil(t, resp.Answer)
	assert.Nil(t, resp.Infobox)
}

func TestMergeResponsesInvariants(t *testing.T) {
	in := map[Engine]EngineResult{
		Google:     {Hits: hits("https://1", "https://2", "https://3")},
		Bing:       {Hits: hits("https://3", "https://4")},
		Brave:      {Hits: hits("https://2", "https://5", "https://1")},
		Marginalia: {Hits: hits("https://6")},
	}
	resp := MergeResponses(in)

	seen := map[string]bool{}
	for i, r := range resp.Results {
		assert.False(t, seen[r.URL], "duplicate url %s", r.URL)
		seen[r.URL] = true
		assert.NotEmpty(t, r.Engines)
		if i > 0 {
			assert.GreaterOrEqual(t, resp.Results[i-1].Score, r.Score)
		}
	}
	assert.Len(t, resp.Results, 6)

	again := MergeResponses(in)
	assert.Equal(t, resp, again, "merge must be deterministic")
}

func TestResponseClone(t *testing.T) {
	orig := MergeResponses(map[Engine]EngineResult{
		Bing:  {Hits: hits("https://a")},
		Calc:  AnswerResult("x"),
		Brave: {Hits: hits("https://a")},
	})
	c := orig.Clone()
	require.Equal(t, orig, c)

	c.Results[0].Engines[0] = DocsRs
	c.Answer.HTML = "changed"
	assert.Equal(t, Bing, orig.Results[0].Engines[0])
	assert.Equal(t, "x", orig.Answer.HTML)
	assert.Nil(t, (*Response)(nil).Clone())
}

func TestMergeAutocomplete(t *testing.T) {
	got := MergeAutocomplete(map[Engine][]string{
		Google:     {"golang", "golang tutorial"},
		DuckDuckGo: {"golang tutorial", "go"},
	})
	// golang: 1.05, golang tutorial: 0.525 + 1.0, go: 0.5
	assert.Equal(t, []string{"golang tutorial", "golang", "go"}, got)

	tie := MergeAutocomplete(map[Engine][]string{
		Bing:       {"cat", "car"},
		DuckDuckGo: {"car", "cat"},
	})
	assert.ElementsMatch(t, []string{"cat", "car"}, tie)

	assert.Empty(t, MergeAutocomplete(nil))
}
