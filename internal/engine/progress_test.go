package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamOrderAndEOF(t *testing.T) {
	s := NewStream()
	require.NoError(t, s.Send(EngineEvent(Bing, Requesting)))
	require.NoError(t, s.Send(EngineEvent(Bing, Done)))
	s.Close()

	ctx := context.Background()
	ev, err := s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, Requesting, ev.Stage)
	ev, err = s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, Done, ev.Stage)

	_, err = s.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
	assert.ErrorIs(t, s.Send(EngineEvent(Bing, Done)), ErrStreamClosed)
}

func TestStreamDrop(t *testing.T) {
	s := NewStream()
	require.NoError(t, s.Send(EngineEvent(Google, Requesting)))
	s.Drop()
	assert.ErrorIs(t, s.Send(EngineEvent(Google, Done)), ErrStreamClosed)
	_, err := s.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestStreamBlocksUntilSend(t *testing.T) {
	s := NewStream()
	got := make(chan Event, 1)
	go func() {
		ev, err := s.Next(context.Background())
		if err == nil {
			got <- ev
		}
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Send(Event{Kind: EventResponse, Response: &Response{}}))

	select {
	case ev := <-got:
		assert.Equal(t, EventResponse, ev.Kind)
	case <-time.After(time.Second):
		t.Fatal("Next did not wake up")
	}
}

func TestStreamNextContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := NewStream().Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStreamConcurrentProducers(t *testing.T) {
	s := NewStream()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = s.Send(EngineEvent(Engine(i), Requesting))
			}
		}()
	}
	go func() {
		wg.Wait()
		s.Close()
	}()

	n := 0
	for {
		if _, err := s.Next(context.Background()); err != nil {
			break
		}
		n++
	}
	assert.Equal(t, 800, n)
}

func TestEmitterWrapsSinkError(t *testing.T) {
	boom := errors.New("boom")
	em := newEmitter(SinkFunc(func(Event) error { return boom }), time.Now())
	err := em.emit(EngineEvent(Bing, Requesting))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "progress engine")
}

func TestEventJSON(t *testing.T) {
	b, err := json.Marshal(EngineEvent(DocsRs, Downloading))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"engine","engine":"docs.rs","stage":"downloading","time_ms":0}`, string(b))

	b, err = json.Marshal(Event{Kind: EventEnrichment, Enrichment: &Fragment{HTML: "<p>x</p>", Engine: GitHub}, ElapsedMS: 12})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"enrichment","enrichment":{"html":"<p>x</p>","engine":"github"},"time_ms":12}`, string(b))
}
