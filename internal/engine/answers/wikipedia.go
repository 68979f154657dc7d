package answers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

const wikipediaExtractLimit = 600

// Wikipedia renders the page summary for the query as an infobox.
type Wikipedia struct {
	Lang string // wiki subdomain, "en" when empty
}

type wikiSummary struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
	Thumbnail   *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// SearchRequest fetches the page summary for the query as a title.
func (w Wikipedia) SearchRequest(q *engine.Query) engine.Plan[engine.EngineResult] {
	title := strings.Join(strings.Fields(q.Text), "_")
	if title == "" {
		return engine.Plan[engine.EngineResult]{}
	}
	lang := w.Lang
	if lang == "" {
		lang = "en"
	}
	endpoint := "https://" + lang + ".wikipedia.org/api/rest_v1/page/summary/" + url.PathEscape(title)
	return engine.Send[engine.EngineResult](engine.Get(endpoint, url.Values{"redirect": {"true"}}).
		WithHeader("accept", "application/json"))
}

// ParseSearch renders the summary as an infobox. Missing pages and disambiguations yield nothing.
func (Wikipedia) ParseSearch(res *engine.HTTPResponse) (engine.EngineResult, error) {
	switch {
	case res.Status == http.StatusNotFound:
		return engine.EngineResult{}, nil
	case res.Status != http.StatusOK:
		return engine.EngineResult{}, fmt.Errorf("wikipedia status %d", res.Status)
	}

	var s wikiSummary
	if err := json.Unmarshal([]byte(res.Body), &s); err != nil {
		return engine.EngineResult{}, fmt.Errorf("wikipedia json: %w", err)
	}
	if s.Type == "disambiguation" || s.Extract == "" {
		return engine.EngineResult{}, nil
	}
	return engine.InfoboxResult(renderSummary(&s)), nil
}

func renderSummary(s *wikiSummary) string {
	page := s.ContentURLs.Desktop.Page
	var b strings.Builder
	if page != "" {
		b.WriteString("<h2>" + engine.Link(page, s.Title) + "</h2>")
	} else {
		b.WriteString(engine.Tag("h2", s.Title))
	}
	if s.Description != "" {
		b.WriteString(engine.Tag("i", s.Description))
	}
	if s.Thumbnail != nil && s.Thumbnail.Source != "" {
		b.WriteString(`<img src="` + engine.Escape(s.Thumbnail.Source) + `" alt="` + engine.Escape(s.Title) + `">`)
	}
	b.WriteString(engine.Tag("p", engine.TruncateAtWord(s.Extract, wikipediaExtractLimit)))
	if page != "" {
		b.WriteString("<p>" + engine.Link(page, "Read more on Wikipedia") + "</p>")
	}
	return b.String()
}
