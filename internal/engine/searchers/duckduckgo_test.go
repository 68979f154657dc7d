package searchers

import (
	"net/url"
	"testing"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

func TestParseDDGHTML(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantCount int
		wantURL   string
	}{
		{
			name: "redirect wrapped links",
			html: `<html><body>
				<div class="result results_links web-result">
					<h2 class="result__title"><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fgo&rut=abc">Go Example</a></h2>
					<a class="result__snippet">Snippet one.</a>
				</div>
				<div class="result web-result">
					<h2 class="result__title"><a class="result__a" href="https://example.org/direct">Direct</a></h2>
				</div>
			</body></html>`,
			wantCount: 2,
			wantURL:   "https://example.com/go",
		},
		{
			name: "skip ads",
			html: `<html><body>
				<div class="result result--ad"><a class="result__a" href="https://ads.example.com">Ad</a></div>
				<div class="result"><a class="result__a" href="https://example.com/real">Real</a></div>
			</body></html>`,
			wantCount: 1,
			wantURL:   "https://example.com/real",
		},
		{
			name: "skip relative links",
			html: `<html><body>
				<div class="result"><a class="result__a" href="/settings">Settings</a></div>
			</body></html>`,
			wantCount: 0,
		},
		{
			name:      "no results",
			html:      `<html><body><div class="no-results">No results.</div></body></html>`,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := parseDDGHTML(tt.html)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hits) != tt.wantCount {
				t.Fatalf("got %d hits, want %d", len(hits), tt.wantCount)
			}
			if tt.wantURL != "" && hits[0].URL != tt.wantURL {
				t.Errorf("first URL = %q, want %q", hits[0].URL, tt.wantURL)
			}
		})
	}
}

func TestDDGUnwrapURL(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpage&rut=x", "https://example.com/page"},
		{"https://example.com/plain", "https://example.com/plain"},
		{"/relative", ""},
	}
	for _, tt := range tests {
		if got := ddgUnwrapURL(tt.href); got != tt.want {
			t.Errorf("ddgUnwrapURL(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestDuckDuckGoSearchRequest(t *testing.T) {
	plan := DuckDuckGo{}.SearchRequest(&engine.Query{Text: "golang generics"})
	if plan.Request == nil {
		t.Fatal("expected HTTP request")
	}
	if plan.Request.Method != "POST" {
		t.Errorf("method = %s, want POST", plan.Request.Method)
	}
	form, err := url.ParseQuery(plan.Request.Body)
	if err != nil {
		t.Fatal(err)
	}
	if form.Get("q") != "golang generics" || form.Get("kl") != "wt-wt" {
		t.Errorf("unexpected form %v", form)
	}
}

func TestDuckDuckGoParseSearchStatus(t *testing.T) {
	_, err := DuckDuckGo{}.ParseSearch(&engine.HTTPResponse{Status: 403, Body: "blocked"})
	if err == nil {
		t.Error("expected error for non-200 status")
	}
}
