package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Dispatcher runs search, enrichment and autocomplete waves against the registered adapters.
type Dispatcher struct {
	Adapters  *Adapters
	Transport Transport
	Engines   []Engine // nil = EnabledEngines()
}

// NewDispatcher creates a dispatcher over the enabled engines.
func NewDispatcher(a *Adapters, t Transport) *Dispatcher {
	if t == nil {
		t = DefaultTransport()
	}
	return &Dispatcher{Adapters: a, Transport: t}
}

func (d *Dispatcher) engines() []Engine {
	if d.Engines != nil {
		return d.Engines
	}
	return EnabledEngines()
}

// Search runs the search wave over the dispatcher's engines and, when the merged response
// has no infobox, the enrichment wave. Progress goes to sink in emission order.
func (d *Dispatcher) Search(ctx context.Context, q Query, sink Sink) error {
	return d.SearchWith(ctx, d.engines(), q, sink)
}

// SearchWith is Search over an explicit engine list.
func (d *Dispatcher) SearchWith(ctx context.Context, engines []Engine, q Query, sink Sink) error {
	metrics.Searches.Add(1)
	log := slog.With(slog.String("search_id", uuid.NewString()))
	em := newEmitter(sink, time.Now())

	err := TrackOperation(ctx, "search:"+q.Text, func(ctx context.Context) error {
		resp, err := d.runSearch(ctx, engines, &q, em, log)
		if err != nil {
			return err
		}
		return d.enrich(ctx, engines, resp, em, log)
	})
	if err != nil {
		metrics.SearchErrors.Add(1)
		log.Warn("search failed", slog.String("query", q.Text), slog.Any("error", err))
	}
	return err
}

// RunSearch runs only the search wave and returns the merged response, which is also
// emitted to sink as an EventResponse.
func (d *Dispatcher) RunSearch(ctx context.Context, engines []Engine, q Query, sink Sink) (*Response, error) {
	log := slog.With(slog.String("search_id", uuid.NewString()))
	return d.runSearch(ctx, engines, &q, newEmitter(sink, time.Now()), log)
}

func (d *Dispatcher) runSearch(ctx context.Context, engines []Engine, q *Query, em *emitter, log *slog.Logger) (*Response, error) {
	var participants []Engine
	for _, e := range engines {
		if !e.Has(CapSearch | CapAnswer) {
			continue
		}
		if !d.Adapters.Registered(e, CapSearch|CapAnswer) {
			log.Debug("engine has no adapter, skipped", slog.String("engine", e.ID()))
			continue
		}
		participants = append(participants, e)
	}

	results := make([]EngineResult, len(participants))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range participants {
		g.Go(func() error {
			res, err := d.searchEngine(gctx, e, q, em, log)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byEngine := make(map[Engine]EngineResult, len(participants))
	for i, e := range participants {
		byEngine[e] = results[i]
	}
	resp := MergeResponses(byEngine)
	log.Debug("search wave merged",
		slog.Int("engines", len(participants)),
		slog.Int("results", len(resp.Results)),
		slog.Bool("infobox", resp.Infobox != nil),
	)

	if err := em.emit(Event{Kind: EventResponse, Response: resp.Clone()}); err != nil {
		return nil, err
	}
	return resp, nil
}

// searchEngine runs one engine's lifecycle. Only transport and sink failures are returned;
// parse failures degrade to an empty result.
func (d *Dispatcher) searchEngine(ctx context.Context, e Engine, q *Query, em *emitter, log *slog.Logger) (EngineResult, error) {
	s, err := d.Adapters.Searcher(e)
	if err != nil {
		return EngineResult{}, err
	}

	plan := s.SearchRequest(q)
	switch {
	case plan.Instant != nil:
		metrics.InstantResults.Add(1)
		return *plan.Instant, nil
	case plan.Request == nil:
		return EngineResult{}, nil
	}

	metrics.EngineRequests.Add(1)
	if err := em.emit(EngineEvent(e, Requesting)); err != nil {
		return EngineResult{}, err
	}

	raw, err := d.Transport.Send(ctx, plan.Request)
	if err != nil {
		metrics.TransportErrors.Add(1)
		return EngineResult{}, &TransportError{Engine: e, Err: err}
	}

	if err := em.emit(EngineEvent(e, Downloading)); err != nil {
		raw.Body.Close()
		return EngineResult{}, err
	}

	body, err := readBody(raw.Body)
	if err != nil {
		metrics.TransportErrors.Add(1)
		return EngineResult{}, &TransportError{Engine: e, Err: err}
	}

	if err := em.emit(EngineEvent(e, Parsing)); err != nil {
		return EngineResult{}, err
	}

	res, err := s.ParseSearch(&HTTPResponse{
		URL:    raw.URL,
		Status: raw.Status,
		Header: raw.Header,
		Body:   body,
	})
	if err != nil {
		metrics.ParseErrors.Add(1)
		log.Warn("parse error",
			slog.String("engine", e.ID()),
			slog.Int("status", raw.Status),
			slog.Any("error", err),
		)
		res = EngineResult{}
	}

	if err := em.emit(EngineEvent(e, Done)); err != nil {
		return EngineResult{}, err
	}
	return res, nil
}
