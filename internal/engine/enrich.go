package engine

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Enrich runs the post-search wave for resp on its own. It is a no-op when resp already
// has an infobox. At most one EventEnrichment is emitted.
func (d *Dispatcher) Enrich(ctx context.Context, engines []Engine, resp *Response, sink Sink) error {
	log := slog.With(slog.String("search_id", uuid.NewString()))
	return d.enrich(ctx, engines, resp, newEmitter(sink, time.Now()), log)
}

type enrichCall struct {
	engine Engine
	en     Enricher
	req    *Request
}

func (d *Dispatcher) enrich(ctx context.Context, engines []Engine, resp *Response, em *emitter, log *slog.Logger) error {
	if resp == nil || resp.Infobox != nil {
		return nil
	}

	var calls []enrichCall
	for _, e := range sortedEngines(engines) {
		if !e.Has(CapEnrichment) || !d.Adapters.Registered(e, CapEnrichment) {
			continue
		}
		en, err := d.Adapters.Enricher(e)
		if err != nil {
			return err
		}
		if req := en.EnrichRequest(resp); req != nil {
			calls = append(calls, enrichCall{engine: e, en: en, req: req})
		}
	}
	if len(calls) == 0 {
		return nil
	}

	// No early abort: failures here are logged and count as "no fragment".
	fragments := make([]string, len(calls))
	var wg sync.WaitGroup
	for i, c := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fragments[i] = d.enrichOne(ctx, c, log)
		}()
	}
	wg.Wait()

	for i, c := range calls {
		if fragments[i] == "" {
			continue
		}
		metrics.EnrichmentsEmitted.Add(1)
		log.Debug("enrichment selected", slog.String("engine", c.engine.ID()))
		return em.emit(Event{
			Kind:       EventEnrichment,
			Enrichment: &Fragment{HTML: fragments[i], Engine: c.engine},
		})
	}
	return nil
}

func (d *Dispatcher) enrichOne(ctx context.Context, c enrichCall, log *slog.Logger) string {
	metrics.EnrichmentRequests.Add(1)

	raw, err := d.Transport.Send(ctx, c.req)
	if err != nil {
		metrics.EnrichmentErrors.Add(1)
		log.Warn("postsearch request error", slog.String("engine", c.engine.ID()), slog.Any("error", err))
		return ""
	}
	body, err := readBody(raw.Body)
	if err != nil {
		metrics.EnrichmentErrors.Add(1)
		log.Warn("postsearch read error", slog.String("engine", c.engine.ID()), slog.Any("error", err))
		return ""
	}
	resolved, err := url.Parse(raw.URL)
	if err != nil {
		metrics.EnrichmentErrors.Add(1)
		log.Warn("postsearch bad url", slog.String("engine", c.engine.ID()), slog.String("url", raw.URL))
		return ""
	}

	html, ok := c.en.ParseEnrichment(body, resolved)
	if !ok {
		return ""
	}
	return html
}

func sortedEngines(list []Engine) []Engine {
	out := append([]Engine(nil), list...)
	slices.Sort(out)
	return slices.Compact(out)
}
