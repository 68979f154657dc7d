package searchserver

import (
	"slices"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

const (
	maxTitleRunes       = 200
	maxDescriptionRunes = 400
)

// collector folds a progress stream into the final tool output.
type collector struct {
	response   *engine.Response
	enrichment *engine.Fragment
	finished   map[engine.Engine]int64
}

func newCollector() *collector {
	return &collector{finished: make(map[engine.Engine]int64)}
}

func (c *collector) add(ev engine.Event) {
	switch ev.Kind {
	case engine.EventEngine:
		if ev.Stage == engine.Done {
			c.finished[*ev.Engine] = ev.ElapsedMS
		}
	case engine.EventResponse:
		c.response = ev.Response
	case engine.EventEnrichment:
		c.enrichment = ev.Enrichment
	}
}

func (c *collector) output(query string, limit int) WebSearchOutput {
	out := WebSearchOutput{Query: query, Results: []ResultItem{}}

	engines := make([]engine.Engine, 0, len(c.finished))
	for e := range c.finished {
		engines = append(engines, e)
	}
	slices.Sort(engines)
	for _, e := range engines {
		out.Timings = append(out.Timings, EngineTiming{Engine: e.ID(), MS: c.finished[e]})
	}

	resp := c.response
	if resp == nil {
		return out
	}
	for i, r := range resp.Results {
		if i == limit {
			break
		}
		out.Results = append(out.Results, ResultItem{
			URL:         r.URL,
			Title:       engine.TruncateRunes(r.Title, maxTitleRunes, "…"),
			Description: engine.TruncateAtWord(r.Description, maxDescriptionRunes),
			Engines:     engineIDs(r.Engines),
			Score:       r.Score,
		})
	}
	if f := resp.Featured; f != nil {
		out.Featured = &FeaturedItem{
			URL:         f.URL,
			Title:       f.Title,
			Description: f.Description,
			Engine:      f.Engine.ID(),
		}
	}
	out.Answer = fragmentItem(resp.Answer)
	out.Infobox = fragmentItem(resp.Infobox)
	out.Enrichment = fragmentItem(c.enrichment)
	return out
}

func engineIDs(list []engine.Engine) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.ID()
	}
	return out
}
