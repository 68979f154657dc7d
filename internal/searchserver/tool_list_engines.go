package searchserver

import (
	"context"
	"slices"

	"github.com/anatolykoptev/go_metasearch/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerListEngines(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_engines",
		Description: "List the search engines with their ranking weight, capabilities (search, answer, autocomplete, enrichment) and whether they are enabled.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ListEnginesInput) (*mcp.CallToolResult, ListEnginesOutput, error) {
		return nil, listEngines(), nil
	})
}

func listEngines() ListEnginesOutput {
	enabled := engine.EnabledEngines()
	var out ListEnginesOutput
	for _, e := range engine.All() {
		out.Engines = append(out.Engines, EngineInfo{
			ID:           e.ID(),
			Weight:       e.Weight(),
			Capabilities: e.Capabilities().Names(),
			Enabled:      slices.Contains(enabled, e),
		})
	}
	return out
}
