// Package postsearch holds enrichment adapters that look at the top merged result and fetch
// a richer card for it: StackExchange answers, GitHub repositories and docs.rs crate docs.
package postsearch

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_metasearch/internal/engine"
	"golang.org/x/net/html"
	"golang.org/x/net/publicsuffix"
)

// Register binds every enrichment adapter to a. githubToken may be empty.
func Register(a *engine.Adapters, githubToken string) error {
	for _, b := range []struct {
		engine engine.Engine
		impl   any
	}{
		{engine.StackExchange, StackExchange{}},
		{engine.GitHub, GitHub{Token: githubToken}},
		{engine.DocsRs, DocsRs{}},
	} {
		if err := a.Register(b.engine, b.impl); err != nil {
			return err
		}
	}
	return nil
}

// topURL parses the URL of the highest-ranked result.
func topURL(resp *engine.Response) (*url.URL, bool) {
	top, ok := resp.TopResult()
	if !ok {
		return nil, false
	}
	u, err := url.Parse(top.URL)
	if err != nil || u.Host == "" {
		return nil, false
	}
	return u, true
}

// registrableDomain returns the eTLD+1 of host ("unix.stackexchange.com" -> "stackexchange.com").
func registrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}

const unsafeElements = "script, style, iframe, object, embed, form, link, meta"

// sanitizeHTML drops active content from a third-party HTML fragment.
func sanitizeHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return engine.Escape(fragment)
	}
	doc.Find(unsafeElements).Remove()
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			n.Attr = safeAttrs(n.Attr)
		}
	})
	out, err := doc.Find("body").Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"poster":     true,
	"cite":       true,
	"background": true,
	"xlink:href": true,
}

// safeURL accepts relative references and http, https and mailto URLs. Values with
// control characters fail url.Parse and are rejected.
func safeURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "", "http", "https", "mailto":
		return true
	}
	return false
}

func safeAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") || key == "style" {
			continue
		}
		if urlAttrs[key] && !safeURL(a.Val) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}
