package engine

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
)

type fakeSearcher struct {
	plan  Plan[EngineResult]
	parse func(*HTTPResponse) (EngineResult, error)
}

func (f *fakeSearcher) SearchRequest(*Query) Plan[EngineResult] { return f.plan }

func (f *fakeSearcher) ParseSearch(res *HTTPResponse) (EngineResult, error) {
	if f.parse == nil {
		return EngineResult{}, nil
	}
	return f.parse(res)
}

// httpSearcher requests rawURL and turns each body line into a hit.
func httpSearcher(rawURL string) *fakeSearcher {
	return &fakeSearcher{
		plan: Send[EngineResult](Get(rawURL, nil)),
		parse: func(res *HTTPResponse) (EngineResult, error) {
			var out EngineResult
			for _, line := range strings.Fields(res.Body) {
				out.Hits = append(out.Hits, Hit{URL: line, Title: line})
			}
			return out, nil
		},
	}
}

type fakeAutocompleter struct {
	plan  Plan[[]string]
	parse func(*HTTPResponse) ([]string, error)
}

func (f *fakeAutocompleter) AutocompleteRequest(string) Plan[[]string] { return f.plan }

func (f *fakeAutocompleter) ParseAutocomplete(res *HTTPResponse) ([]string, error) {
	if f.parse == nil {
		return strings.Fields(res.Body), nil
	}
	return f.parse(res)
}

type fakeEnricher struct {
	req      *Request
	fragment string
	calls    atomic.Int32
}

func (f *fakeEnricher) EnrichRequest(*Response) *Request {
	f.calls.Add(1)
	return f.req
}

func (f *fakeEnricher) ParseEnrichment(body string, _ *url.URL) (string, bool) {
	if f.fragment == "" {
		return "", false
	}
	return f.fragment + ":" + body, true
}

var errConnRefused = errors.New("connection refused")

// fakeTransport serves canned bodies by URL. Unknown URLs fail with errConnRefused.
type fakeTransport struct {
	mu     sync.Mutex
	bodies map[string]string
	sent   []string
}

func newFakeTransport(bodies map[string]string) *fakeTransport {
	return &fakeTransport{bodies: bodies}
}

func (t *fakeTransport) Send(ctx context.Context, r *Request) (*RawResponse, error) {
	t.mu.Lock()
	t.sent = append(t.sent, r.URL)
	body, ok := t.bodies[r.URL]
	t.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, errConnRefused
	}
	return &RawResponse{URL: r.URL, Status: 200, Body: io.NopCloser(strings.NewReader(body))}, nil
}

var errConnReset = errors.New("connection reset by peer")

// brokenBody yields part of a body, then fails.
type brokenBody struct {
	partial string
	read    bool
}

func (b *brokenBody) Read(p []byte) (int, error) {
	if b.read {
		return 0, errConnReset
	}
	b.read = true
	return copy(p, b.partial), nil
}

func (b *brokenBody) Close() error { return nil }

// brokenTransport answers every request with headers, then a body that fails mid-read.
type brokenTransport struct{}

func (brokenTransport) Send(_ context.Context, r *Request) (*RawResponse, error) {
	return &RawResponse{URL: r.URL, Status: 200, Body: &brokenBody{partial: "https://a https://"}}, nil
}

// recorder is a Sink that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []Event
	fail   error
}

func (r *recorder) Send(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) kind(k EventKind) []Event {
	var out []Event
	for _, ev := range r.all() {
		if ev.Kind == k {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) stages(e Engine) []Stage {
	var out []Stage
	for _, ev := range r.all() {
		if ev.Kind == EventEngine && *ev.Engine == e {
			out = append(out, ev.Stage)
		}
	}
	return out
}
