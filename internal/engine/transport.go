package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Outbound identity. Engines see a regular desktop browser acting for the user.
const (
	UserAgentFirefox = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	AcceptLanguage   = "en-US,en;q=0.5"
)

// RawResponse is a backend response at header time. The caller owns Body.
type RawResponse struct {
	URL    string
	Status int
	Header http.Header
	Body   io.ReadCloser
}

// Transport sends request descriptors. Any error it returns is a transport error.
type Transport interface {
	Send(ctx context.Context, req *Request) (*RawResponse, error)
}

// TransportError is a connection, timeout or IO failure while talking to an engine.
// It aborts the containing wave.
type TransportError struct {
	Engine Engine
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Engine, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPTransport sends requests with a net/http client.
type HTTPTransport struct {
	Client *http.Client
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, r *Request) (*RawResponse, error) {
	var body io.Reader
	if r.Body != "" {
		body = strings.NewReader(r.Body)
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgentFirefox)
	req.Header.Set("Accept-Language", AcceptLanguage)
	for k, v := range r.Header {
		req.Header.Set(k, v)
	}

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	return &RawResponse{
		URL:    resp.Request.URL.String(),
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   resp.Body,
	}, nil
}

// readBody drains a response body and decodes it as lossy UTF-8.
func readBody(rc io.ReadCloser) (string, error) {
	defer rc.Close()
	var sb strings.Builder
	buf := make([]byte, 32*1024)
	for {
		n, err := rc.Read(buf)
		sb.Write(buf[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.ToValidUTF8(sb.String(), "�"), nil
}
