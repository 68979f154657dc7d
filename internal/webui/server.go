// Package webui serves the metasearch dispatcher over plain HTTP: progress streams as NDJSON
// or over a websocket, OpenSearch suggestions, and a health check.
package webui

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
	"github.com/gorilla/websocket"
)

// forwardedHeaders are passed to engines as part of the query.
var forwardedHeaders = []string{"User-Agent", "Accept-Language"}

// Server holds the HTTP handlers.
type Server struct {
	dispatcher *engine.Dispatcher
	upgrader   websocket.Upgrader
}

// New creates a web server over d.
func New(d *engine.Dispatcher) *Server {
	return &Server{
		dispatcher: d,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /autocomplete", s.handleAutocomplete)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe runs the web server until ctx is done, then shuts it down.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("web server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// errorEvent terminates a progress stream that ended in a failed search.
type errorEvent struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

func newErrorEvent(err error) errorEvent {
	return errorEvent{Kind: "error", Error: err.Error()}
}

// parseQuery builds the engine query and engine list from the request.
// It writes a 400 response and returns false on bad input.
func parseQuery(w http.ResponseWriter, r *http.Request) (engine.Query, []engine.Engine, bool) {
	text := strings.TrimSpace(r.URL.Query().Get("q"))
	if text == "" {
		http.Error(w, "missing q parameter", http.StatusBadRequest)
		return engine.Query{}, nil, false
	}

	engines := engine.EnabledEngines()
	if raw := r.URL.Query().Get("engines"); raw != "" {
		engines = nil
		for _, id := range strings.Split(raw, ",") {
			e, err := engine.Parse(id)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return engine.Query{}, nil, false
			}
			if !slices.Contains(engines, e) {
				engines = append(engines, e)
			}
		}
	}

	q := engine.Query{Text: text, IP: clientIP(r), Headers: make(map[string]string)}
	for _, h := range forwardedHeaders {
		if v := r.Header.Get(h); v != "" {
			q.Headers[h] = v
		}
	}
	return q, engines, true
}

// clientIP prefers the first X-Forwarded-For hop over the socket peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	w.Header().Set("Content-Type", "application/x-suggestions+json")

	suggestions := []string{}
	if strings.TrimSpace(q) != "" {
		list, err := s.dispatcher.Autocomplete(r.Context(), q)
		if err != nil {
			slog.Warn("autocomplete failed", slog.String("query", q), slog.Any("error", err))
			w.WriteHeader(http.StatusBadGateway)
		} else if list != nil {
			suggestions = list
		}
	}
	_ = json.NewEncoder(w).Encode([]any{q, suggestions})
}
