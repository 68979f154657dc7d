package searchers

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

// Bing scrapes www.bing.com/search result blocks.
type Bing struct{}

// SearchRequest queries bing.com/search with the query text.
func (Bing) SearchRequest(q *engine.Query) engine.Plan[engine.EngineResult] {
	return engine.Send[engine.EngineResult](engine.Get("https://www.bing.com/search", url.Values{
		"q": {q.Text},
	}))
}

// ParseSearch scrapes li.b_algo blocks and decodes ck/a redirect links.
func (Bing) ParseSearch(res *engine.HTTPResponse) (engine.EngineResult, error) {
	if res.Status != 200 {
		return engine.EngineResult{}, fmt.Errorf("bing status %d", res.Status)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
	if err != nil {
		return engine.EngineResult{}, fmt.Errorf("goquery parse: %w", err)
	}

	var out engine.EngineResult
	doc.Find("#b_results > li.b_algo").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("h2 a").First()
		href := bingUnwrapURL(link.AttrOr("href", ""))
		title := strings.TrimSpace(link.Text())
		if href == "" || title == "" {
			return
		}
		desc := s.Find(".b_caption p, p.b_lineclamp2, p.b_lineclamp3, p.b_lineclamp4").First()
		out.Hits = append(out.Hits, engine.Hit{
			URL:         href,
			Title:       title,
			Description: strings.TrimSpace(desc.Text()),
		})
	})
	return out, nil
}

// bingUnwrapURL decodes bing.com/ck/a tracking links. The target is in the u parameter
// as "a1" followed by unpadded URL-safe base64.
func bingUnwrapURL(href string) string {
	if strings.Contains(href, "bing.com/ck/a") {
		u, err := url.Parse(href)
		if err != nil {
			return ""
		}
		enc := strings.TrimPrefix(u.Query().Get("u"), "a1")
		dec, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(enc, "="))
		if err != nil {
			return ""
		}
		href = string(dec)
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return ""
}
