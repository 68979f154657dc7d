package answers

import (
	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

var userAgentQueries = map[string]bool{
	"user agent":            true,
	"useragent":             true,
	"my user agent":         true,
	"what is my user agent": true,
	"what's my user agent":  true,
	"what is my useragent":  true,
	"browser user agent":    true,
	"show my user agent":    true,
}

var ipQueries = map[string]bool{
	"ip":                    true,
	"my ip":                 true,
	"ip address":            true,
	"my ip address":         true,
	"what is my ip":         true,
	"what's my ip":          true,
	"what is my ip address": true,
	"what's my ip address":  true,
}

// Useragent echoes the caller's forwarded User-Agent header.
type Useragent struct{}

// SearchRequest echoes the forwarded User-Agent for "user agent" queries.
func (Useragent) SearchRequest(q *engine.Query) engine.Plan[engine.EngineResult] {
	if !userAgentQueries[normalize(q.Text)] {
		return engine.Plan[engine.EngineResult]{}
	}
	ua := q.Header("User-Agent")
	if ua == "" {
		return engine.Plan[engine.EngineResult]{}
	}
	return engine.Ready(engine.AnswerResult(bigAnswer(ua)))
}

func (Useragent) ParseSearch(*engine.HTTPResponse) (engine.EngineResult, error) {
	return engine.EngineResult{}, errLocal
}

// IP echoes the caller's address.
type IP struct{}

// SearchRequest echoes the client address for "my ip" queries.
func (IP) SearchRequest(q *engine.Query) engine.Plan[engine.EngineResult] {
	if !ipQueries[normalize(q.Text)] || q.IP == "" {
		return engine.Plan[engine.EngineResult]{}
	}
	return engine.Ready(engine.AnswerResult(bigAnswer(q.IP)))
}

func (IP) ParseSearch(*engine.HTTPResponse) (engine.EngineResult, error) {
	return engine.EngineResult{}, errLocal
}
