package webui

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

// runSearch starts a search feeding a fresh stream. The returned channel yields the
// search error once the stream is closed.
func (s *Server) runSearch(ctx context.Context, q engine.Query, engines []engine.Engine) (*engine.Stream, <-chan error) {
	stream := engine.NewStream()
	done := make(chan error, 1)
	go func() {
		defer stream.Close()
		done <- s.dispatcher.SearchWith(ctx, engines, q, stream)
	}()
	return stream, done
}

// handleSearch streams progress events as newline-delimited JSON.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, engines, ok := parseQuery(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-store")
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)

	stream, done := s.runSearch(ctx, q, engines)
	defer stream.Drop()

	for {
		ev, err := stream.Next(ctx)
		if err != nil {
			break
		}
		if err := enc.Encode(ev); err != nil {
			slog.Debug("ndjson client gone", slog.Any("error", err))
			stream.Drop()
			break
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	if err := <-done; err != nil {
		_ = enc.Encode(newErrorEvent(err))
	}
}

// handleWebSocket streams progress events as JSON text messages. The connection is closed
// after the last event. A client that disconnects early drops the stream, which aborts
// the search.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	q, engines, ok := parseQuery(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	stream, done := s.runSearch(ctx, q, engines)
	defer stream.Drop()

	// Reader: any read error means the client is gone.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				stream.Drop()
				cancel()
				return
			}
		}
	}()

	for {
		ev, err := stream.Next(ctx)
		if err != nil {
			break
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(ev); err != nil {
			slog.Debug("websocket client gone", slog.Any("error", err))
			stream.Drop()
			break
		}
	}

	if err := <-done; err != nil {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		_ = conn.WriteJSON(newErrorEvent(err))
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}
