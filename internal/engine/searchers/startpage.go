package searchers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

// Startpage posts the web search form and scrapes result blocks.
type Startpage struct {
	Language string // "english" when empty
}

// SearchRequest posts the web search form.
func (s Startpage) SearchRequest(q *engine.Query) engine.Plan[engine.EngineResult] {
	lang := s.Language
	if lang == "" || lang == "all" {
		lang = "english"
	}
	req := engine.PostForm("https://www.startpage.com/sp/search", url.Values{
		"query":    {q.Text},
		"cat":      {"web"},
		"language": {lang},
	}).
		WithHeader("referer", "https://www.startpage.com/").
		WithHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	return engine.Send[engine.EngineResult](req)
}

func (Startpage) ParseSearch(res *engine.HTTPResponse) (engine.EngineResult, error) {
	if res.Status != 200 {
		return engine.EngineResult{}, fmt.Errorf("startpage status %d", res.Status)
	}
	hits, err := parseStartpageHTML(res.Body)
	if err != nil {
		return engine.EngineResult{}, fmt.Errorf("startpage parse: %w", err)
	}
	return engine.EngineResult{Hits: hits}, nil
}

// parseStartpageHTML extracts search results from Startpage HTML response.
func parseStartpageHTML(body string) ([]engine.Hit, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("goquery parse: %w", err)
	}

	var hits []engine.Hit

	// Startpage result blocks: <div class="w-gl__result"> or <div class="result">
	doc.Find(".w-gl__result, .result").Each(func(i int, s *goquery.Selection) {
		link := s.Find("a.w-gl__result-title, h3 a, a.result-link").First()
		title := strings.TrimSpace(link.Text())
		href, exists := link.Attr("href")
		if !exists || title == "" {
			return
		}

		// Skip empty/ad results
		if href == "" || strings.Contains(href, "startpage.com/do/") {
			return
		}

		desc := s.Find("p.w-gl__description, .w-gl__description, p.result-description").First()
		hits = append(hits, engine.Hit{
			URL:         href,
			Title:       title,
			Description: strings.TrimSpace(desc.Text()),
		})
	})

	return hits, nil
}
