package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	stealth "github.com/anatolykoptev/go-stealth"
)

// BrowserClient re-exports the stealth client for engine consumers.
type BrowserClient = stealth.BrowserClient

// StealthTransport sends requests through a Chrome-fingerprinted client.
// Headers and body arrive together, so Downloading and Parsing follow each other closely.
//
// The client does not report where redirects ended, so RawResponse.URL is the request URL
// and Header is nil. Enrichment adapters that read the resolved URL get the URL they asked
// for. Do has no context; Send returns on cancellation and the call finishes in the background.
type StealthTransport struct {
	Client *BrowserClient
}

// Send implements Transport.
func (t *StealthTransport) Send(ctx context.Context, r *Request) (*RawResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	headers := stealth.ChromeHeaders()
	headers["user-agent"] = UserAgentFirefox
	headers["accept-language"] = AcceptLanguage
	for k, v := range r.Header {
		headers[strings.ToLower(k)] = v
	}

	var body io.Reader
	if r.Body != "" {
		body = strings.NewReader(r.Body)
	}
	method := r.Method
	if method == "" {
		method = "GET"
	}

	type result struct {
		data   []byte
		status int
		err    error
	}
	done := make(chan result, 1)
	go func() {
		data, _, status, err := t.Client.Do(method, r.URL, headers, body)
		done <- result{data: data, status: status, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("stealth %s %s: %w", method, r.URL, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("stealth %s %s: %w", method, r.URL, res.err)
		}
		return &RawResponse{
			URL:    r.URL,
			Status: res.status,
			Body:   io.NopCloser(bytes.NewReader(res.data)),
		}, nil
	}
}
