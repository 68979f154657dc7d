// Package answers holds the instant-answer adapters. Useragent, ip and calc answer locally;
// wikipedia and dictionary call public REST APIs.
package answers

import (
	"errors"
	"strings"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
)

// errLocal is returned by parse functions of adapters that never plan an HTTP request.
var errLocal = errors.New("adapter answers locally, nothing to parse")

// Register binds every answer adapter to a.
func Register(a *engine.Adapters) error {
	for _, b := range []struct {
		engine engine.Engine
		impl   any
	}{
		{engine.Useragent, Useragent{}},
		{engine.IP, IP{}},
		{engine.Calc, Calc{}},
		{engine.Wikipedia, Wikipedia{}},
		{engine.Dictionary, Dictionary{}},
	} {
		if err := a.Register(b.engine, b.impl); err != nil {
			return err
		}
	}
	return nil
}

// normalize lower-cases q, trims punctuation and collapses inner whitespace.
func normalize(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = strings.TrimRight(q, "?!. ")
	return strings.Join(strings.Fields(q), " ")
}

// bigAnswer renders a single highlighted value.
func bigAnswer(value string) string {
	return "<h3><b>" + engine.Escape(value) + "</b></h3>"
}
