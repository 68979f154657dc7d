package searchserver

import (
	"context"
	"errors"
	"strings"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerAutocomplete(server *mcp.Server, d *engine.Dispatcher) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "autocomplete",
		Description: "Query suggestions merged from Google and DuckDuckGo, plus a calculator result for arithmetic input.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input AutocompleteInput) (*mcp.CallToolResult, AutocompleteOutput, error) {
		out, err := autocomplete(ctx, d, input)
		if err != nil {
			return nil, AutocompleteOutput{}, err
		}
		return nil, out, nil
	})
}

func autocomplete(ctx context.Context, d *engine.Dispatcher, input AutocompleteInput) (AutocompleteOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return AutocompleteOutput{}, errors.New("query is required")
	}
	list, err := d.Autocomplete(ctx, input.Query)
	if err != nil {
		return AutocompleteOutput{}, err
	}
	if list == nil {
		list = []string{}
	}
	return AutocompleteOutput{Query: input.Query, Suggestions: list}, nil
}
