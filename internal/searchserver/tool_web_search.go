package searchserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerWebSearch(server *mcp.Server, d *engine.Dispatcher) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "web_search",
		Description: "Metasearch across Google, Bing, Brave, DuckDuckGo, Startpage and Marginalia. Results are merged and ranked by engine agreement. Also returns instant answers (calculator, IP, user agent, dictionary), a Wikipedia infobox, and a StackExchange/GitHub/docs.rs card for the top result when available. Sends progress notifications per engine when a progress token is supplied.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input WebSearchInput) (*mcp.CallToolResult, WebSearchOutput, error) {
		out, err := webSearch(ctx, d, input, progressNotifier(ctx, req))
		if err != nil {
			return nil, WebSearchOutput{}, err
		}
		return nil, out, nil
	})
}

// progressNotifier relays events as MCP progress notifications, or returns nil when the
// caller did not ask for progress.
func progressNotifier(ctx context.Context, req *mcp.CallToolRequest) func(engine.Event, int) {
	if req == nil || req.Session == nil || req.Params == nil {
		return nil
	}
	token := req.Params.GetProgressToken()
	if token == nil {
		return nil
	}
	return func(ev engine.Event, n int) {
		err := req.Session.NotifyProgress(ctx, &mcp.ProgressNotificationParams{
			ProgressToken: token,
			Progress:      float64(n),
			Message:       describeEvent(ev),
		})
		if err != nil {
			slog.Debug("progress notification failed", slog.Any("error", err))
		}
	}
}

// webSearch runs a full search and collects the event stream into a tool result.
// notify, when non-nil, sees every event with its 1-based sequence number.
func webSearch(ctx context.Context, d *engine.Dispatcher, input WebSearchInput, notify func(engine.Event, int)) (WebSearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return WebSearchOutput{}, errors.New("query is required")
	}
	engines, err := resolveEngines(input.Engines)
	if err != nil {
		return WebSearchOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
		if m := engine.Cfg.MaxResults; m > 0 {
			limit = m
		}
	}
	limit = min(limit, maxLimit)

	start := time.Now()
	stream := engine.NewStream()
	defer stream.Drop()

	done := make(chan error, 1)
	go func() {
		defer stream.Close()
		done <- d.SearchWith(ctx, engines, engine.Query{Text: query}, stream)
	}()

	c := newCollector()
	for n := 1; ; n++ {
		ev, err := stream.Next(ctx)
		if err != nil {
			break
		}
		c.add(ev)
		if notify != nil {
			notify(ev, n)
		}
	}
	if err := <-done; err != nil {
		return WebSearchOutput{}, fmt.Errorf("search %q: %w", query, err)
	}

	out := c.output(query, limit)
	out.ElapsedMS = time.Since(start).Milliseconds()
	return out, nil
}

// resolveEngines maps ids to engines; an empty list means the configured engines.
func resolveEngines(ids []string) ([]engine.Engine, error) {
	if len(ids) == 0 {
		return engine.EnabledEngines(), nil
	}
	out := make([]engine.Engine, 0, len(ids))
	for _, id := range ids {
		e, err := engine.Parse(id)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func describeEvent(ev engine.Event) string {
	switch ev.Kind {
	case engine.EventEngine:
		return ev.Engine.ID() + ": " + ev.Stage.String()
	case engine.EventResponse:
		return fmt.Sprintf("merged %d results", len(ev.Response.Results))
	case engine.EventEnrichment:
		return "enrichment from " + ev.Enrichment.Engine.ID()
	}
	return ev.Kind.String()
}
