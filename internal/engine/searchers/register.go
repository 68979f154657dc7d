// Package searchers holds the web search adapters: HTML scrapers for Google, Bing, Brave,
// DuckDuckGo and Startpage, and the Marginalia JSON API.
package searchers

import "github.com/anatolykoptev/go_metasearch/internal/engine"

// Register binds every web search adapter to a.
func Register(a *engine.Adapters) error {
	for _, b := range []struct {
		engine engine.Engine
		impl   any
	}{
		{engine.Google, Google{}},
		{engine.Bing, Bing{}},
		{engine.Brave, Brave{}},
		{engine.Marginalia, Marginalia{}},
		{engine.DuckDuckGo, DuckDuckGo{}},
		{engine.Startpage, Startpage{}},
	} {
		if err := a.Register(b.engine, b.impl); err != nil {
			return err
		}
	}
	return nil
}
