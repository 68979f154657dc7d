package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Engine identifies one backend from the closed engine set.
type Engine uint8

const (
	// search
	Google Engine = iota
	Bing
	Brave
	Marginalia
	DuckDuckGo
	Startpage
	// answer
	Useragent
	IP
	Calc
	Wikipedia
	Dictionary
	// post-search
	StackExchange
	GitHub
	DocsRs

	engineCount
)

// Capability is a bit set of the waves an engine can take part in.
type Capability uint8

const (
	CapSearch Capability = 1 << iota
	CapAnswer
	CapAutocomplete
	CapEnrichment
)

// ErrUnknownEngine is returned by Parse for ids outside the registry.
var ErrUnknownEngine = errors.New("unknown engine")

type engineInfo struct {
	id     string
	weight float64
	caps   Capability
}

var engineTable = [engineCount]engineInfo{
	Google:        {"google", 1.05, CapSearch | CapAutocomplete},
	Bing:          {"bing", 1, CapSearch},
	Brave:         {"brave", 1.25, CapSearch},
	Marginalia:    {"marginalia", 0.15, CapSearch},
	DuckDuckGo:    {"duckduckgo", 1, CapSearch | CapAutocomplete},
	Startpage:     {"startpage", 1, CapSearch},
	Useragent:     {"useragent", 1, CapAnswer},
	IP:            {"ip", 1, CapAnswer},
	Calc:          {"calc", 1, CapAnswer | CapAutocomplete},
	Wikipedia:     {"wikipedia", 1, CapAnswer},
	Dictionary:    {"dictionary", 1, CapAnswer},
	StackExchange: {"stackexchange", 1, CapEnrichment},
	GitHub:        {"github", 1, CapEnrichment},
	DocsRs:        {"docs.rs", 1, CapEnrichment},
}

var allEngines = func() []Engine {
	out := make([]Engine, engineCount)
	for i := range out {
		out[i] = Engine(i)
	}
	return out
}()

// All returns every known engine in registry order.
// The returned slice is a copy.
func All() []Engine {
	return append([]Engine(nil), allEngines...)
}

// Parse resolves an engine id such as "google" or "docs.rs".
func Parse(id string) (Engine, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for i, info := range engineTable {
		if info.id == id {
			return Engine(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEngine, id)
}

// ID returns the stable string id.
func (e Engine) ID() string {
	if !e.valid() {
		return fmt.Sprintf("engine(%d)", uint8(e))
	}
	return engineTable[e].id
}

func (e Engine) String() string { return e.ID() }

// Weight is the relative trust used for scoring and single-winner slots.
func (e Engine) Weight() float64 {
	if !e.valid() {
		return 1
	}
	return engineTable[e].weight
}

// Capabilities returns the declared capability set.
func (e Engine) Capabilities() Capability {
	if !e.valid() {
		return 0
	}
	return engineTable[e].caps
}

// Has reports whether e declares any of the capabilities in c.
func (e Engine) Has(c Capability) bool {
	return e.Capabilities()&c != 0
}

func (e Engine) valid() bool { return e < engineCount }

// MarshalText encodes the engine as its id.
func (e Engine) MarshalText() ([]byte, error) {
	return []byte(e.ID()), nil
}

// UnmarshalText parses an engine id.
func (e *Engine) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Names lists the capability names in c, e.g. ["search", "autocomplete"].
func (c Capability) Names() []string {
	var out []string
	for _, n := range []struct {
		c    Capability
		name string
	}{
		{CapSearch, "search"},
		{CapAnswer, "answer"},
		{CapAutocomplete, "autocomplete"},
		{CapEnrichment, "enrichment"},
	} {
		if c&n.c != 0 {
			out = append(out, n.name)
		}
	}
	return out
}

// Filter keeps the engines of list that have any capability in c, preserving order.
func Filter(list []Engine, c Capability) []Engine {
	var out []Engine
	for _, e := range list {
		if e.Has(c) {
			out = append(out, e)
		}
	}
	return out
}
