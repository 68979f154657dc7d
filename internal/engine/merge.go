package engine

import (
	"slices"
	"sort"
)

// MergeResponses combines per-engine results into one ranked Response.
//
// A result at 0-indexed position i from an engine of weight w contributes (1/(i+1))*w to its
// URL's score. URLs are matched exactly. Title and description come from the highest-weight
// contributor; featured snippet, answer and infobox each go to the highest-weight engine that
// produced one. Ties keep the engine that was visited first, and engines are visited in
// registry order.
func MergeResponses(responses map[Engine]EngineResult) *Response {
	resp := &Response{Results: []SearchResult{}}
	byURL := make(map[string]int)

	for _, e := range sortedKeys(responses) {
		r := responses[e]
		w := e.Weight()

		for i, hit := range r.Hits {
			score := positionScore(i) * w

			if j, ok := byURL[hit.URL]; ok {
				existing := &resp.Results[j]
				if w > maxWeight(existing.Engines) {
					existing.Title = hit.Title
					existing.Description = hit.Description
				}
				existing.Engines = addEngine(existing.Engines, e)
				existing.Score += score
				continue
			}

			byURL[hit.URL] = len(resp.Results)
			resp.Results = append(resp.Results, SearchResult{
				URL:         hit.URL,
				Title:       hit.Title,
				Description: hit.Description,
				Engines:     []Engine{e},
				Score:       score,
			})
		}

		if r.Featured != nil && w > featuredWeight(resp.Featured) {
			resp.Featured = &Featured{
				URL:         r.Featured.URL,
				Title:       r.Featured.Title,
				Description: r.Featured.Description,
				Engine:      e,
			}
		}
		if r.AnswerHTML != "" && w > fragmentWeight(resp.Answer) {
			resp.Answer = &Fragment{HTML: r.AnswerHTML, Engine: e}
		}
		if r.InfoboxHTML != "" && w > fragmentWeight(resp.Infobox) {
			resp.Infobox = &Fragment{HTML: r.InfoboxHTML, Engine: e}
		}
	}

	sort.SliceStable(resp.Results, func(i, j int) bool {
		return resp.Results[i].Score > resp.Results[j].Score
	})
	return resp
}

type suggestion struct {
	text  string
	score float64
}

// MergeAutocomplete combines suggestion lists with the same positional scoring as
// MergeResponses, keyed by exact suggestion text. Scores are dropped from the output.
func MergeAutocomplete(responses map[Engine][]string) []string {
	var merged []suggestion
	byText := make(map[string]int)

	for _, e := range sortedKeys(responses) {
		w := e.Weight()
		for i, text := range responses[e] {
			score := positionScore(i) * w
			if j, ok := byText[text]; ok {
				merged[j].score += score
				continue
			}
			byText[text] = len(merged)
			merged = append(merged, suggestion{text: text, score: score})
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].score > merged[j].score
	})

	out := make([]string, len(merged))
	for i, s := range merged {
		out[i] = s.text
	}
	return out
}

// positionScore: position 1 scores 1, position 2 scores 0.5, position 3 scores 0.33, ...
func positionScore(i int) float64 {
	return 1 / float64(i+1)
}

func maxWeight(engines []Engine) float64 {
	var m float64
	for _, e := range engines {
		if w := e.Weight(); w > m {
			m = w
		}
	}
	return m
}

func featuredWeight(f *Featured) float64 {
	if f == nil {
		return 0
	}
	return f.Engine.Weight()
}

func fragmentWeight(f *Fragment) float64 {
	if f == nil {
		return 0
	}
	return f.Engine.Weight()
}

// addEngine inserts e into a registry-ordered set.
func addEngine(set []Engine, e Engine) []Engine {
	i, found := slices.BinarySearch(set, e)
	if found {
		return set
	}
	return slices.Insert(set, i, e)
}

func sortedKeys[V any](m map[Engine]V) []Engine {
	keys := make([]Engine, 0, len(m))
	for e := range m {
		keys = append(keys, e)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns a deep copy.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	out := &Response{Results: make([]SearchResult, len(r.Results))}
	for i, sr := range r.Results {
		sr.Engines = slices.Clone(sr.Engines)
		out.Results[i] = sr
	}
	if r.Featured != nil {
		f := *r.Featured
		out.Featured = &f
	}
	if r.Answer != nil {
		a := *r.Answer
		out.Answer = &a
	}
	if r.Infobox != nil {
		ib := *r.Infobox
		out.Infobox = &ib
	}
	return out
}

// TopResult returns the highest-ranked result, if any.
func (r *Response) TopResult() (SearchResult, bool) {
	if r == nil || len(r.Results) == 0 {
		return SearchResult{}, false
	}
	return r.Results[0], true
}
