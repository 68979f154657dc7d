package engine

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Autocomplete merges suggestions from every autocomplete engine of the dispatcher.
// Any transport or parse failure fails the whole call.
func (d *Dispatcher) Autocomplete(ctx context.Context, text string) ([]string, error) {
	return d.AutocompleteWith(ctx, d.engines(), text)
}

// AutocompleteWith is Autocomplete over an explicit engine list.
func (d *Dispatcher) AutocompleteWith(ctx context.Context, engines []Engine, text string) ([]string, error) {
	metrics.AutocompleteRequests.Add(1)

	var participants []Engine
	for _, e := range engines {
		if e.Has(CapAutocomplete) && d.Adapters.Registered(e, CapAutocomplete) {
			participants = append(participants, e)
		}
	}

	lists := make([][]string, len(participants))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range participants {
		g.Go(func() error {
			list, err := d.autocompleteEngine(gctx, e, text)
			if err != nil {
				return err
			}
			lists[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.AutocompleteErrors.Add(1)
		slog.Debug("autocomplete failed", slog.String("query", text), slog.Any("error", err))
		return nil, err
	}

	byEngine := make(map[Engine][]string, len(participants))
	for i, e := range participants {
		if lists[i] != nil {
			byEngine[e] = lists[i]
		}
	}
	return MergeAutocomplete(byEngine), nil
}

func (d *Dispatcher) autocompleteEngine(ctx context.Context, e Engine, text string) ([]string, error) {
	ac, err := d.Adapters.Autocompleter(e)
	if err != nil {
		return nil, err
	}

	plan := ac.AutocompleteRequest(text)
	switch {
	case plan.Instant != nil:
		return *plan.Instant, nil
	case plan.Request == nil:
		return nil, nil
	}

	raw, err := d.Transport.Send(ctx, plan.Request)
	if err != nil {
		metrics.TransportErrors.Add(1)
		return nil, &TransportError{Engine: e, Err: err}
	}
	body, err := readBody(raw.Body)
	if err != nil {
		metrics.TransportErrors.Add(1)
		return nil, &TransportError{Engine: e, Err: err}
	}

	list, err := ac.ParseAutocomplete(&HTTPResponse{
		URL:    raw.URL,
		Status: raw.Status,
		Header: raw.Header,
		Body:   body,
	})
	if err != nil {
		metrics.ParseErrors.Add(1)
		return nil, fmt.Errorf("%s autocomplete parse: %w", e, err)
	}
	return list, nil
}
