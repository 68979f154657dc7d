// Package searchserver exposes the metasearch dispatcher as MCP tools:
// web_search, autocomplete and list_engines.
package searchserver

import (
	"github.com/anatolykoptev/go_metasearch/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// RegisterTools registers all search tools on the given MCP server.
func RegisterTools(server *mcp.Server, d *engine.Dispatcher) {
	registerWebSearch(server, d)
	registerAutocomplete(server, d)
	registerListEngines(server)
}

// ToolCount is the number of tools RegisterTools adds.
const ToolCount = 3
