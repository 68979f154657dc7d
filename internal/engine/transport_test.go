package engine

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransportIdentityHeaders(t *testing.T) {
	var got http.Header
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	tr := &HTTPTransport{Client: srv.Client()}
	req := PostForm(srv.URL+"/search", url.Values{"q": {"go"}}).WithHeader("referer", "https://example.com/")
	raw, err := tr.Send(context.Background(), req)
	require.NoError(t, err)

	body, err := readBody(raw.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, http.StatusTeapot, raw.Status, "non-2xx is not a transport error")
	assert.Equal(t, srv.URL+"/search", raw.URL)

	assert.Equal(t, UserAgentFirefox, got.Get("User-Agent"))
	assert.Equal(t, AcceptLanguage, got.Get("Accept-Language"))
	assert.Equal(t, "https://example.com/", got.Get("Referer"))
	assert.Equal(t, "application/x-www-form-urlencoded", got.Get("Content-Type"))
	assert.Equal(t, "q=go", gotBody)
}

func TestHTTPTransportRequestHeaderOverrides(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.UserAgent()
	}))
	defer srv.Close()

	raw, err := (&HTTPTransport{Client: srv.Client()}).Send(context.Background(),
		Get(srv.URL, nil).WithHeader("user-agent", "custom/1.0"))
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, "custom/1.0", ua)
}

func TestHTTPTransportFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("moved"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	raw, err := (&HTTPTransport{Client: srv.Client()}).Send(context.Background(), Get(srv.URL+"/old", nil))
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, srv.URL+"/new", raw.URL)
}

func TestHTTPTransportConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := (&HTTPTransport{}).Send(context.Background(), Get(addr, nil))
	assert.Error(t, err)
}

func TestReadBodyLossyUTF8(t *testing.T) {
	body, err := readBody(io.NopCloser(strings.NewReader("caf\xe9 ok")))
	require.NoError(t, err)
	assert.Equal(t, "caf� ok", body)
}

func TestGetAppendsParams(t *testing.T) {
	assert.Equal(t, "https://x.test/s?q=a+b", Get("https://x.test/s", url.Values{"q": {"a b"}}).URL)
	assert.Equal(t, "https://x.test/s?a=1&q=go", Get("https://x.test/s?a=1", url.Values{"q": {"go"}}).URL)
	assert.Equal(t, "https://x.test/s", Get("https://x.test/s", nil).URL)
}

func TestQueryHeader(t *testing.T) {
	q := Query{Headers: map[string]string{"User-Agent": "ua"}}
	assert.Equal(t, "ua", q.Header("user-agent"))
	assert.Equal(t, "", q.Header("accept"))
	assert.Equal(t, "", (&Query{}).Header("x"))
}

func TestDefaultTransport(t *testing.T) {
	defer Init(Config{})
	Init(Config{UseStealth: true})
	_, ok := DefaultTransport().(*HTTPTransport)
	assert.True(t, ok, "stealth without a browser client falls back to net/http")

	Init(Config{DisabledEngines: []Engine{Google, Marginalia}})
	enabled := EnabledEngines()
	assert.NotContains(t, enabled, Google)
	assert.NotContains(t, enabled, Marginalia)
	assert.Len(t, enabled, int(engineCount)-2)
}

func TestStealthTransportCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&StealthTransport{}).Send(ctx, Get("https://bing.test/", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatMetrics(t *testing.T) {
	out := FormatMetrics()
	for _, k := range metricKeys {
		assert.Contains(t, out, k+" ")
	}
}
