package engine

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrUnsupported is returned when an engine is asked for a capability it does not declare
// or has no adapter registered for.
var ErrUnsupported = errors.New("engine does not support capability")

// Request describes one outbound HTTP call. Transports turn it into a real request.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Body   string
}

// Get builds a GET request for rawURL with optional query params.
func Get(rawURL string, params url.Values) *Request {
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + params.Encode()
	}
	return &Request{Method: http.MethodGet, URL: rawURL}
}

// PostForm builds a form-encoded POST request.
func PostForm(rawURL string, form url.Values) *Request {
	return &Request{
		Method: http.MethodPost,
		URL:    rawURL,
		Header: map[string]string{"content-type": "application/x-www-form-urlencoded"},
		Body:   form.Encode(),
	}
}

// WithHeader sets a header and returns r for chaining.
func (r *Request) WithHeader(k, v string) *Request {
	if r.Header == nil {
		r.Header = make(map[string]string)
	}
	r.Header[k] = v
	return r
}

// HTTPResponse is a fully downloaded backend response handed to parse functions.
type HTTPResponse struct {
	URL    string // final URL after redirects
	Status int
	Header http.Header
	Body   string
}

// Plan is what an adapter wants done for one call: nothing (zero value),
// an HTTP request, or an immediately available value.
type Plan[T any] struct {
	Request *Request
	Instant *T
}

// Send plans an HTTP request.
func Send[T any](req *Request) Plan[T] { return Plan[T]{Request: req} }

// Ready plans an instant value with no network call.
func Ready[T any](v T) Plan[T] { return Plan[T]{Instant: &v} }

// None reports whether the adapter declined the call.
func (p Plan[T]) None() bool { return p.Request == nil && p.Instant == nil }

// Searcher builds and parses search and instant-answer calls.
type Searcher interface {
	SearchRequest(q *Query) Plan[EngineResult]
	ParseSearch(res *HTTPResponse) (EngineResult, error)
}

// Autocompleter builds and parses suggestion calls.
type Autocompleter interface {
	AutocompleteRequest(text string) Plan[[]string]
	ParseAutocomplete(res *HTTPResponse) ([]string, error)
}

// Enricher builds post-search calls from the merged response.
// ParseEnrichment returns false when the page is not relevant.
type Enricher interface {
	EnrichRequest(resp *Response) *Request
	ParseEnrichment(body string, resolved *url.URL) (string, bool)
}

// Adapters maps engines to the capability implementations registered for them.
// Build it once at startup; it is read-only afterwards.
type Adapters struct {
	search       map[Engine]Searcher
	autocomplete map[Engine]Autocompleter
	enrich       map[Engine]Enricher
}

// NewAdapters returns an empty adapter table.
func NewAdapters() *Adapters {
	return &Adapters{
		search:       make(map[Engine]Searcher),
		autocomplete: make(map[Engine]Autocompleter),
		enrich:       make(map[Engine]Enricher),
	}
}

// Register binds every capability interface impl satisfies to e.
// Binding an interface whose capability e does not declare returns ErrUnsupported.
func (a *Adapters) Register(e Engine, impl any) error {
	bound := false
	if s, ok := impl.(Searcher); ok {
		if !e.Has(CapSearch | CapAnswer) {
			return fmt.Errorf("register %s as searcher: %w", e, ErrUnsupported)
		}
		a.search[e] = s
		bound = true
	}
	if ac, ok := impl.(Autocompleter); ok {
		if !e.Has(CapAutocomplete) {
			return fmt.Errorf("register %s as autocompleter: %w", e, ErrUnsupported)
		}
		a.autocomplete[e] = ac
		bound = true
	}
	if en, ok := impl.(Enricher); ok {
		if !e.Has(CapEnrichment) {
			return fmt.Errorf("register %s as enricher: %w", e, ErrUnsupported)
		}
		a.enrich[e] = en
		bound = true
	}
	if !bound {
		return fmt.Errorf("register %s: %T implements no adapter interface", e, impl)
	}
	return nil
}

// MustRegister is Register that panics on error. For static wiring in init code.
func (a *Adapters) MustRegister(e Engine, impl any) {
	if err := a.Register(e, impl); err != nil {
		panic(err)
	}
}

// Searcher returns the search/answer adapter for e.
func (a *Adapters) Searcher(e Engine) (Searcher, error) {
	if s, ok := a.search[e]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%s search: %w", e, ErrUnsupported)
}

// Autocompleter returns the autocomplete adapter for e.
func (a *Adapters) Autocompleter(e Engine) (Autocompleter, error) {
	if ac, ok := a.autocomplete[e]; ok {
		return ac, nil
	}
	return nil, fmt.Errorf("%s autocomplete: %w", e, ErrUnsupported)
}

// Enricher returns the post-search adapter for e.
func (a *Adapters) Enricher(e Engine) (Enricher, error) {
	if en, ok := a.enrich[e]; ok {
		return en, nil
	}
	return nil, fmt.Errorf("%s enrichment: %w", e, ErrUnsupported)
}

// Registered reports whether e has an adapter for any capability in c.
func (a *Adapters) Registered(e Engine, c Capability) bool {
	if c&(CapSearch|CapAnswer) != 0 {
		if _, ok := a.search[e]; ok {
			return true
		}
	}
	if c&CapAutocomplete != 0 {
		if _, ok := a.autocomplete[e]; ok {
			return true
		}
	}
	if c&CapEnrichment != 0 {
		if _, ok := a.enrich[e]; ok {
			return true
		}
	}
	return false
}
