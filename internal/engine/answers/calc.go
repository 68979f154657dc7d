package answers

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
	"github.com/expr-lang/expr"
)

var (
	calcCharsRe = regexp.MustCompile(`^[0-9a-z_+\-*/%^().,\s]+$`)
	calcIdentRe = regexp.MustCompile(`[a-z_]+`)
	calcOpRe    = regexp.MustCompile(`[+\-*/%^(]`)
)

// calcEnv is everything an expression may reference besides literals.
var calcEnv = map[string]any{
	"pi":   math.Pi,
	"e":    math.E,
	"sqrt": math.Sqrt,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"ln":   math.Log,
	"log":  math.Log10,
}

// builtins allowed in addition to calcEnv.
var calcBuiltins = map[string]bool{
	"abs": true, "floor": true, "ceil": true, "round": true, "max": true, "min": true,
}

// Calc evaluates arithmetic queries such as "2 * (3 + 4)" or "sqrt(2)^2".
// It answers both search and autocomplete without network calls.
type Calc struct{}

// SearchRequest answers instantly when the query evaluates as arithmetic.
func (Calc) SearchRequest(q *engine.Query) engine.Plan[engine.EngineResult] {
	expression, value, ok := evaluate(q.Text)
	if !ok {
		return engine.Plan[engine.EngineResult]{}
	}
	html := `<p class="answer-query">` + engine.Escape(expression) + " =</p>" + bigAnswer(value)
	return engine.Ready(engine.AnswerResult(html))
}

func (Calc) ParseSearch(*engine.HTTPResponse) (engine.EngineResult, error) {
	return engine.EngineResult{}, errLocal
}

// AutocompleteRequest suggests "<expr> = <value>" for arithmetic input.
func (Calc) AutocompleteRequest(text string) engine.Plan[[]string] {
	expression, value, ok := evaluate(text)
	if !ok {
		return engine.Plan[[]string]{}
	}
	return engine.Ready([]string{expression + " = " + value})
}

func (Calc) ParseAutocomplete(*engine.HTTPResponse) ([]string, error) {
	return nil, errLocal
}

// evaluate returns the trimmed expression and its formatted value.
// Plain numbers and anything referencing unknown identifiers are rejected.
func evaluate(text string) (string, string, bool) {
	expression := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "="))
	lower := strings.ToLower(expression)
	if lower == "" || !calcCharsRe.MatchString(lower) || !calcOpRe.MatchString(lower) {
		return "", "", false
	}
	if !strings.ContainsAny(lower, "0123456789") && !strings.Contains(lower, "pi") {
		return "", "", false
	}
	for _, ident := range calcIdentRe.FindAllString(lower, -1) {
		if _, ok := calcEnv[ident]; !ok && !calcBuiltins[ident] {
			return "", "", false
		}
	}

	program, err := expr.Compile(lower, expr.Env(calcEnv))
	if err != nil {
		return "", "", false
	}
	out, err := expr.Run(program, calcEnv)
	if err != nil {
		return "", "", false
	}
	value, ok := formatNumber(out)
	if !ok {
		return "", "", false
	}
	return expression, value, true
}

func formatNumber(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "", false
		}
		if n == math.Trunc(n) && math.Abs(n) < 1e15 {
			return strconv.FormatInt(int64(n), 10), true
		}
		return strconv.FormatFloat(n, 'g', 12, 64), true
	}
	return "", false
}
