package searchers

import (
	"encoding/json"
	"fmt"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

// parseOpenSearchSuggestions decodes the OpenSearch suggestion shape
// ["query", ["s1", "s2", ...], ...] used by Google and DuckDuckGo.
func parseOpenSearchSuggestions(res *engine.HTTPResponse) ([]string, error) {
	if res.Status != 200 {
		return nil, fmt.Errorf("suggest status %d", res.Status)
	}
	var parts []json.RawMessage
	if err := json.Unmarshal([]byte(res.Body), &parts); err != nil {
		return nil, fmt.Errorf("suggest json: %w", err)
	}
	if len(parts) < 2 {
		return nil, fmt.Errorf("suggest json: want [query, suggestions], got %d elements", len(parts))
	}
	var out []string
	if err := json.Unmarshal(parts[1], &out); err != nil {
		return nil, fmt.Errorf("suggest list: %w", err)
	}
	return out, nil
}
