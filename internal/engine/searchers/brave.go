package searchers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

// Brave scrapes search.brave.com web snippets.
type Brave struct{}

// SearchRequest queries search.brave.com.
func (Brave) SearchRequest(q *engine.Query) engine.Plan[engine.EngineResult] {
	return engine.Send[engine.EngineResult](engine.Get("https://search.brave.com/search", url.Values{
		"q":      {q.Text},
		"source": {"web"},
	}))
}

// ParseSearch scrapes web snippets from the results list.
func (Brave) ParseSearch(res *engine.HTTPResponse) (engine.EngineResult, error) {
	if res.Status != 200 {
		return engine.EngineResult{}, fmt.Errorf("brave status %d", res.Status)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
	if err != nil {
		return engine.EngineResult{}, fmt.Errorf("goquery parse: %w", err)
	}

	var out engine.EngineResult
	doc.Find(`#results .snippet[data-type="web"]`).Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a[href]").First()
		href := link.AttrOr("href", "")
		if !strings.HasPrefix(href, "http") {
			return
		}
		title := strings.TrimSpace(s.Find(".title, .snippet-title").First().Text())
		if title == "" {
			return
		}
		desc := s.Find(".snippet-description, .snippet-content .generic-snippet").First()
		out.Hits = append(out.Hits, engine.Hit{
			URL:         href,
			Title:       title,
			Description: strings.TrimSpace(desc.Text()),
		})
	})
	return out, nil
}
