package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllOrderAndCopy(t *testing.T) {
	all := All()
	require.Len(t, all, int(engineCount))
	assert.Equal(t, Google, all[0])
	assert.Equal(t, DocsRs, all[len(all)-1])

	all[0] = Bing
	assert.Equal(t, Google, All()[0], "All must return a copy")
}

func TestWeights(t *testing.T) {
	tests := []struct {
		engine Engine
		want   float64
	}{
		{Google, 1.05},
		{Bing, 1.0},
		{Brave, 1.25},
		{Marginalia, 0.15},
		{DuckDuckGo, 1.0},
		{Calc, 1.0},
		{DocsRs, 1.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.engine.Weight(), tt.engine.ID())
	}
}

func TestCapabilities(t *testing.T) {
	assert.Equal(t, []Engine{Google, DuckDuckGo, Calc}, Filter(All(), CapAutocomplete))
	assert.Equal(t, []Engine{StackExchange, GitHub, DocsRs}, Filter(All(), CapEnrichment))
	assert.Equal(t, []Engine{Useragent, IP, Calc, Wikipedia, Dictionary}, Filter(All(), CapAnswer))
	assert.Equal(t, []string{"answer", "autocomplete"}, Calc.Capabilities().Names())
	assert.False(t, Bing.Has(CapAutocomplete))
}

func TestParse(t *testing.T) {
	for _, e := range All() {
		got, err := Parse(e.ID())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}

	got, err := Parse(" Docs.RS ")
	require.NoError(t, err)
	assert.Equal(t, DocsRs, got)

	_, err = Parse("altavista")
	assert.True(t, errors.Is(err, ErrUnknownEngine))
}

func TestEngineJSON(t *testing.T) {
	b, err := json.Marshal([]Engine{Google, DocsRs})
	require.NoError(t, err)
	assert.JSONEq(t, `["google","docs.rs"]`, string(b))

	var back []Engine
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []Engine{Google, DocsRs}, back)

	assert.Error(t, json.Unmarshal([]byte(`["nope"]`), &back))
}

func TestAdaptersRegister(t *testing.T) {
	a := NewAdapters()

	err := a.Register(Bing, &fakeAutocompleter{})
	assert.True(t, errors.Is(err, ErrUnsupported), "bing has no autocomplete capability")

	err = a.Register(StackExchange, &fakeSearcher{})
	assert.True(t, errors.Is(err, ErrUnsupported), "stackexchange has no search capability")

	err = a.Register(Bing, struct{}{})
	assert.Error(t, err)

	require.NoError(t, a.Register(Google, &fakeSearcher{}))
	require.NoError(t, a.Register(Google, &fakeAutocompleter{}))
	assert.True(t, a.Registered(Google, CapSearch))
	assert.True(t, a.Registered(Google, CapAutocomplete))
	assert.False(t, a.Registered(Google, CapEnrichment))

	_, err = a.Enricher(Google)
	assert.True(t, errors.Is(err, ErrUnsupported))

	assert.Panics(t, func() { a.MustRegister(Bing, &fakeEnricher{}) })
}
