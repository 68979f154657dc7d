package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	Searches             atomic.Int64
	SearchErrors         atomic.Int64
	EngineRequests       atomic.Int64
	InstantResults       atomic.Int64
	TransportErrors      atomic.Int64
	ParseErrors          atomic.Int64
	EnrichmentRequests   atomic.Int64
	EnrichmentErrors     atomic.Int64
	EnrichmentsEmitted   atomic.Int64
	AutocompleteRequests atomic.Int64
	AutocompleteErrors   atomic.Int64
}

var metricKeys = []string{
	"searches", "search_errors",
	"engine_requests", "instant_results",
	"transport_errors", "parse_errors",
	"enrichment_requests", "enrichment_errors", "enrichments_emitted",
	"autocomplete_requests", "autocomplete_errors",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"searches":              metrics.Searches.Load(),
		"search_errors":         metrics.SearchErrors.Load(),
		"engine_requests":       metrics.EngineRequests.Load(),
		"instant_results":       metrics.InstantResults.Load(),
		"transport_errors":      metrics.TransportErrors.Load(),
		"parse_errors":          metrics.ParseErrors.Load(),
		"enrichment_requests":   metrics.EnrichmentRequests.Load(),
		"enrichment_errors":     metrics.EnrichmentErrors.Load(),
		"enrichments_emitted":   metrics.EnrichmentsEmitted.Load(),
		"autocomplete_requests": metrics.AutocompleteRequests.Load(),
		"autocomplete_errors":   metrics.AutocompleteErrors.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// TrackOperation logs a warning if an operation takes longer than the configured threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > cfg.SlowThreshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
