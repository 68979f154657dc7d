package searchers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

// Google scrapes www.google.com/search and uses the firefox-flavoured suggest endpoint.
type Google struct{}

// SearchRequest fetches the first results page with autocorrection and filtering off.
func (Google) SearchRequest(q *engine.Query) engine.Plan[engine.EngineResult] {
	return engine.Send[engine.EngineResult](engine.Get("https://www.google.com/search", url.Values{
		"q":      {q.Text},
		"nfpr":   {"1"},
		"filter": {"0"},
		"start":  {"0"},
	}))
}

// ParseSearch extracts organic results and the featured snippet.
func (Google) ParseSearch(res *engine.HTTPResponse) (engine.EngineResult, error) {
	if res.Status != 200 {
		return engine.EngineResult{}, fmt.Errorf("google status %d", res.Status)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
	if err != nil {
		return engine.EngineResult{}, fmt.Errorf("goquery parse: %w", err)
	}

	var out engine.EngineResult
	doc.Find("div.g").Each(func(_ int, s *goquery.Selection) {
		// Featured snippets reuse div.g; they are collected separately below.
		if s.ParentsFiltered(".xpdopen, block-component").Length() > 0 {
			return
		}
		link := s.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
			return a.Find("h3").Length() > 0
		}).First()
		href := googleUnwrapURL(link.AttrOr("href", ""))
		title := strings.TrimSpace(link.Find("h3").First().Text())
		if href == "" || title == "" {
			return
		}
		desc := s.Find("div[data-sncf], div.VwiC3b, span.aCOpRe").First()
		out.Hits = append(out.Hits, engine.Hit{
			URL:         href,
			Title:       title,
			Description: strings.TrimSpace(desc.Text()),
		})
	})

	if fs := doc.Find(".xpdopen, block-component").First(); fs.Length() > 0 {
		link := fs.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
			return a.Find("h3").Length() > 0
		}).First()
		href := googleUnwrapURL(link.AttrOr("href", ""))
		desc := strings.TrimSpace(fs.Find(".hgKElc, [data-attrid='wa:/description']").First().Text())
		if href != "" && desc != "" {
			out.Featured = &engine.FeaturedSnippet{
				URL:         href,
				Title:       strings.TrimSpace(link.Find("h3").First().Text()),
				Description: desc,
			}
		}
	}
	return out, nil
}

// AutocompleteRequest uses the firefox suggest endpoint.
func (Google) AutocompleteRequest(text string) engine.Plan[[]string] {
	return engine.Send[[]string](engine.Get("https://suggestqueries.google.com/complete/search", url.Values{
		"output": {"firefox"},
		"client": {"firefox"},
		"hl":     {"en-US"},
		"q":      {text},
	}))
}

func (Google) ParseAutocomplete(res *engine.HTTPResponse) ([]string, error) {
	return parseOpenSearchSuggestions(res)
}

// googleUnwrapURL resolves /url?q=... redirect links and drops in-page links.
func googleUnwrapURL(href string) string {
	if strings.HasPrefix(href, "/url?") {
		u, err := url.Parse(href)
		if err != nil {
			return ""
		}
		href = u.Query().Get("q")
		if href == "" {
			href = u.Query().Get("url")
		}
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return ""
}
