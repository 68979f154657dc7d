package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// ErrStreamClosed is returned by Send after the consumer dropped the stream.
var ErrStreamClosed = errors.New("progress stream closed")

// Stage is a step in one engine's request lifecycle.
type Stage uint8

const (
	Requesting Stage = iota + 1
	Downloading
	Parsing
	Done
)

func (s Stage) String() string {
	switch s {
	case Requesting:
		return "requesting"
	case Downloading:
		return "downloading"
	case Parsing:
		return "parsing"
	case Done:
		return "done"
	}
	return "unknown"
}

// MarshalText encodes the stage name.
func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// EventKind tags which payload an Event carries.
type EventKind uint8

const (
	EventEngine EventKind = iota + 1
	EventResponse
	EventEnrichment
)

func (k EventKind) String() string {
	switch k {
	case EventEngine:
		return "engine"
	case EventResponse:
		return "response"
	case EventEnrichment:
		return "enrichment"
	}
	return "unknown"
}

// MarshalText encodes the kind name.
func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Event is one progress update. Exactly one payload is set, selected by Kind.
type Event struct {
	Kind       EventKind `json:"kind"`
	Engine     *Engine   `json:"engine,omitempty"`
	Stage      Stage     `json:"stage,omitempty"`
	Response   *Response `json:"response,omitempty"`
	Enrichment *Fragment `json:"enrichment,omitempty"`
	ElapsedMS  int64     `json:"time_ms"`
}

// EngineEvent builds a lifecycle event.
func EngineEvent(e Engine, s Stage) Event {
	return Event{Kind: EventEngine, Engine: &e, Stage: s}
}

// Sink receives progress events. Send must be safe for concurrent use and must not block
// for long; a non-nil error aborts the running wave.
type Sink interface {
	Send(Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event) error

func (f SinkFunc) Send(ev Event) error { return f(ev) }

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(Event) error { return nil })

// Stream is an unbounded multi-producer, single-consumer event queue.
// Producers never block. A consumer that falls behind makes the queue grow without bound.
type Stream struct {
	mu      sync.Mutex
	queue   []Event
	closed  bool // producer side finished
	dropped bool // consumer side gone
	wake    chan struct{}
}

// NewStream creates an empty stream.
func NewStream() *Stream {
	return &Stream{wake: make(chan struct{}, 1)}
}

// Send appends ev. Returns ErrStreamClosed if the consumer dropped the stream.
func (s *Stream) Send(ev Event) error {
	s.mu.Lock()
	if s.dropped || s.closed {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	s.queue = append(s.queue, ev)
	s.mu.Unlock()
	s.signal()
	return nil
}

// Close marks the producer side finished. Next returns io.EOF once the queue drains.
func (s *Stream) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.signal()
}

// Drop is called by the consumer when it stops reading. Queued events are discarded
// and further sends fail.
func (s *Stream) Drop() {
	s.mu.Lock()
	s.dropped = true
	s.queue = nil
	s.mu.Unlock()
	s.signal()
}

// Next blocks until an event is available, the stream is closed and drained (io.EOF),
// or ctx is done.
func (s *Stream) Next(ctx context.Context) (Event, error) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			ev := s.queue[0]
			s.queue[0] = Event{}
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return ev, nil
		}
		if s.closed || s.dropped {
			s.mu.Unlock()
			return Event{}, io.EOF
		}
		s.mu.Unlock()

		select {
		case <-s.wake:
		case <-ctx.Done():
			return Event{}, ctx.Err()
		}
	}
}

func (s *Stream) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// emitter stamps elapsed time and forwards to a Sink. Stamping and sending happen
// under one lock so ElapsedMS never decreases in emission order.
type emitter struct {
	mu    sync.Mutex
	sink  Sink
	start time.Time
}

func newEmitter(sink Sink, start time.Time) *emitter {
	if sink == nil {
		sink = Discard
	}
	return &emitter{sink: sink, start: start}
}

func (em *emitter) emit(ev Event) error {
	em.mu.Lock()
	defer em.mu.Unlock()
	ev.ElapsedMS = time.Since(em.start).Milliseconds()
	if err := em.sink.Send(ev); err != nil {
		return fmt.Errorf("progress %s: %w", ev.Kind, err)
	}
	return nil
}
