package searchers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

// DuckDuckGo queries the HTML lite endpoint (html.duckduckgo.com/html), which needs
// no VQD token, and the /ac/ suggestion API.
type DuckDuckGo struct {
	Region string // kl parameter, "wt-wt" when empty
}

// SearchRequest posts the query to the HTML lite form.
func (d DuckDuckGo) SearchRequest(q *engine.Query) engine.Plan[engine.EngineResult] {
	region := d.Region
	if region == "" {
		region = "wt-wt"
	}
	req := engine.PostForm("https://html.duckduckgo.com/html/", url.Values{
		"q":  {q.Text},
		"kl": {region},
		"df": {""},
	}).WithHeader("referer", "https://html.duckduckgo.com/")
	return engine.Send[engine.EngineResult](req)
}

func (DuckDuckGo) ParseSearch(res *engine.HTTPResponse) (engine.EngineResult, error) {
	if res.Status != 200 {
		return engine.EngineResult{}, fmt.Errorf("ddg html status %d", res.Status)
	}
	hits, err := parseDDGHTML(res.Body)
	if err != nil {
		return engine.EngineResult{}, err
	}
	return engine.EngineResult{Hits: hits}, nil
}

// AutocompleteRequest asks /ac/ for a list-format suggestion response.
func (DuckDuckGo) AutocompleteRequest(text string) engine.Plan[[]string] {
	return engine.Send[[]string](engine.Get("https://duckduckgo.com/ac/", url.Values{
		"q":    {text},
		"type": {"list"},
	}))
}

func (DuckDuckGo) ParseAutocomplete(res *engine.HTTPResponse) ([]string, error) {
	return parseOpenSearchSuggestions(res)
}

// parseDDGHTML extracts search results from DDG HTML lite response.
func parseDDGHTML(body string) ([]engine.Hit, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("goquery parse: %w", err)
	}

	var hits []engine.Hit
	doc.Find(".result, .web-result").Each(func(i int, s *goquery.Selection) {
		if s.HasClass("result--ad") {
			return
		}
		link := s.Find("a.result__a, .result__title a, a.result-link").First()
		title := strings.TrimSpace(link.Text())
		href, exists := link.Attr("href")
		if !exists || title == "" {
			return
		}

		href = ddgUnwrapURL(href)
		if href == "" {
			return
		}

		snippet := s.Find(".result__snippet, .result__body").First()
		hits = append(hits, engine.Hit{
			URL:         href,
			Title:       title,
			Description: strings.TrimSpace(snippet.Text()),
		})
	})
	return hits, nil
}

// ddgUnwrapURL extracts the actual URL from DDG redirect wrappers.
// DDG HTML wraps links as: //duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com&rut=...
func ddgUnwrapURL(href string) string {
	if strings.Contains(href, "duckduckgo.com/l/") || strings.Contains(href, "uddg=") {
		if u, err := url.Parse(href); err == nil {
			if uddg := u.Query().Get("uddg"); uddg != "" {
				return uddg
			}
		}
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return ""
}
