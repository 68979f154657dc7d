package postsearch

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

const docsParagraphs = 2

// DocsRs fetches the top result when it is a docs.rs page and shows the item's heading and
// the opening paragraphs of its documentation.
type DocsRs struct{}

// EnrichRequest refetches the top result when it is a docs.rs crate page.
func (DocsRs) EnrichRequest(resp *engine.Response) *engine.Request {
	u, ok := topURL(resp)
	if !ok || registrableDomain(u.Hostname()) != "docs.rs" {
		return nil
	}
	crate, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if crate == "" || crate == "crate" || crate == "releases" || crate == "about" {
		return nil
	}
	return engine.Get(u.String(), nil)
}

func (DocsRs) ParseEnrichment(body string, resolved *url.URL) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", false
	}
	heading := doc.Find(".main-heading h1, h1.fqn").First()
	heading.Find("button").Remove()
	title := strings.Join(strings.Fields(heading.Text()), " ")
	if title == "" {
		return "", false
	}

	var paras []string
	doc.Find(".docblock").First().ChildrenFiltered("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if text := strings.Join(strings.Fields(p.Text()), " "); text != "" {
			paras = append(paras, text)
		}
		return len(paras) < docsParagraphs
	})

	var b strings.Builder
	b.WriteString("<h2>" + engine.Link(resolved.String(), title) + "</h2>")
	for _, p := range paras {
		b.WriteString(engine.Tag("p", p))
	}
	return b.String(), true
}
