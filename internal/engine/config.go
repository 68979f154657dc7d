package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	HTTPClient      *http.Client
	BrowserClient   *BrowserClient // nil = stealth transport unavailable
	UseStealth      bool           // route engine requests through BrowserClient
	DisabledEngines []Engine
	MaxResults      int           // results kept in tool/web output (0 = all)
	SlowThreshold   time.Duration // TrackOperation warning threshold
}

var cfg = Config{
	HTTPClient:    http.DefaultClient,
	SlowThreshold: 5 * time.Second,
}

// Cfg exposes the engine configuration for sub-packages.
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.SlowThreshold <= 0 {
		c.SlowThreshold = 5 * time.Second
	}
	cfg = c
	Cfg = &cfg
}

// EnabledEngines returns All() minus the configured disabled engines.
func EnabledEngines() []Engine {
	disabled := make(map[Engine]bool, len(cfg.DisabledEngines))
	for _, e := range cfg.DisabledEngines {
		disabled[e] = true
	}
	var out []Engine
	for _, e := range All() {
		if !disabled[e] {
			out = append(out, e)
		}
	}
	return out
}

// DefaultTransport picks the transport selected by the current config.
func DefaultTransport() Transport {
	if cfg.UseStealth && cfg.BrowserClient != nil {
		return &StealthTransport{Client: cfg.BrowserClient}
	}
	return &HTTPTransport{Client: cfg.HTTPClient}
}
