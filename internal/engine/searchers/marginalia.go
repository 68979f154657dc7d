package searchers

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

// Marginalia uses the public JSON API at api.marginalia.nu.
type Marginalia struct {
	Key   string // API key path segment, "public" when empty
	Count int    // results per query, 20 when zero
}

type marginaliaResponse struct {
	Results []struct {
		URL         string `json:"url"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"results"`
}

// SearchRequest calls the search API with the configured key, or the public one.
func (m Marginalia) SearchRequest(q *engine.Query) engine.Plan[engine.EngineResult] {
	key := m.Key
	if key == "" {
		key = "public"
	}
	count := m.Count
	if count <= 0 {
		count = 20
	}
	endpoint := "https://api.marginalia.nu/" + url.PathEscape(key) + "/search/" + url.PathEscape(q.Text)
	return engine.Send[engine.EngineResult](engine.Get(endpoint, url.Values{
		"count": {fmt.Sprint(count)},
	}))
}

func (Marginalia) ParseSearch(res *engine.HTTPResponse) (engine.EngineResult, error) {
	if res.Status != 200 {
		return engine.EngineResult{}, fmt.Errorf("marginalia status %d", res.Status)
	}
	var body marginaliaResponse
	if err := json.Unmarshal([]byte(res.Body), &body); err != nil {
		return engine.EngineResult{}, fmt.Errorf("marginalia json: %w", err)
	}
	var out engine.EngineResult
	for _, r := range body.Results {
		if r.URL == "" {
			continue
		}
		out.Hits = append(out.Hits, engine.Hit{
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Description,
		})
	}
	return out, nil
}
