package answers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

const (
	maxPartsOfSpeech = 3
	maxDefinitions   = 3
)

var defineRes = []*regexp.Regexp{
	regexp.MustCompile(`^define\s+(.+)$`),
	regexp.MustCompile(`^(?:definition|meaning) of\s+(.+)$`),
	regexp.MustCompile(`^(.+?)\s+(?:definition|meaning)$`),
	regexp.MustCompile(`^what does\s+(.+?)\s+mean$`),
}

// Dictionary answers "define X" style queries from the Wiktionary definition API.
type Dictionary struct{}

type wiktionaryEntry struct {
	PartOfSpeech string `json:"partOfSpeech"`
	Definitions  []struct {
		Definition string `json:"definition"`
	} `json:"definitions"`
}

// definedWord extracts the word from a definition query.
func definedWord(text string) (string, bool) {
	q := normalize(text)
	for _, re := range defineRes {
		if m := re.FindStringSubmatch(q); m != nil {
			word := strings.Trim(m[1], `"'`)
			if word != "" && !strings.Contains(word, " ") {
				return word, true
			}
		}
	}
	return "", false
}

// SearchRequest looks up the word of a "define X" style query on Wiktionary.
func (Dictionary) SearchRequest(q *engine.Query) engine.Plan[engine.EngineResult] {
	word, ok := definedWord(q.Text)
	if !ok {
		return engine.Plan[engine.EngineResult]{}
	}
	endpoint := "https://en.wiktionary.org/api/rest_v1/page/definition/" + url.PathEscape(word)
	return engine.Send[engine.EngineResult](engine.Get(endpoint, nil).WithHeader("accept", "application/json"))
}

// ParseSearch renders up to three English parts of speech.
func (Dictionary) ParseSearch(res *engine.HTTPResponse) (engine.EngineResult, error) {
	switch {
	case res.Status == http.StatusNotFound:
		return engine.EngineResult{}, nil
	case res.Status != http.StatusOK:
		return engine.EngineResult{}, fmt.Errorf("wiktionary status %d", res.Status)
	}

	var byLang map[string][]wiktionaryEntry
	if err := json.Unmarshal([]byte(res.Body), &byLang); err != nil {
		return engine.EngineResult{}, fmt.Errorf("wiktionary json: %w", err)
	}
	entries := byLang["en"]
	if len(entries) == 0 {
		return engine.EngineResult{}, nil
	}

	word := ""
	if u, err := url.Parse(res.URL); err == nil {
		word, _ = url.PathUnescape(u.Path[strings.LastIndex(u.Path, "/")+1:])
	}

	var b strings.Builder
	if word != "" {
		b.WriteString(engine.Tag("h2", word))
	}
	parts := 0
	for _, e := range entries {
		if parts == maxPartsOfSpeech {
			break
		}
		var defs []string
		for _, d := range e.Definitions {
			if text := definitionText(d.Definition); text != "" {
				defs = append(defs, text)
			}
			if len(defs) == maxDefinitions {
				break
			}
		}
		if len(defs) == 0 {
			continue
		}
		parts++
		b.WriteString(engine.Tag("h3", e.PartOfSpeech))
		b.WriteString("<ol>")
		for _, d := range defs {
			b.WriteString(engine.Tag("li", d))
		}
		b.WriteString("</ol>")
	}
	if parts == 0 {
		return engine.EngineResult{}, nil
	}
	return engine.AnswerResult(b.String()), nil
}

// definitionText flattens a Wiktionary definition fragment to plain text.
func definitionText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	doc.Find("style, sup.reference").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
