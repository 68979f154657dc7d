// go_metasearch: privacy-respecting metasearch MCP server.
//
// Fans each query out to Google, Bing, Brave, DuckDuckGo, Startpage, Marginalia and the
// instant-answer engines, merges and ranks the results, and enriches the top hit.
// Exposes MCP tools (web_search, autocomplete, list_engines) and an optional HTTP
// surface with NDJSON and websocket progress streams.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/anatolykoptev/go_metasearch/internal/engine"
	"github.com/anatolykoptev/go_metasearch/internal/engine/answers"
	"github.com/anatolykoptev/go_metasearch/internal/engine/postsearch"
	"github.com/anatolykoptev/go_metasearch/internal/engine/searchers"
	"github.com/anatolykoptev/go_metasearch/internal/searchserver"
	"github.com/anatolykoptev/go_metasearch/internal/webui"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
	webPort = env.Str("WEB_PORT", "8894")
)

func main() {
	initLogger(env.Str("LOG_LEVEL", "info"))
	initEngine()

	adapters, err := registerAdapters(env.Str("GITHUB_TOKEN", ""))
	if err != nil {
		slog.Error("adapter registration failed", slog.Any("error", err))
		os.Exit(1)
	}
	dispatcher := engine.NewDispatcher(adapters, engine.DefaultTransport())

	slog.Info("starting go_metasearch",
		slog.String("mcp_port", mcpPort),
		slog.String("web_port", webPort),
		slog.Int("engines", len(engine.EnabledEngines())),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if webPort != "" && webPort != "0" {
		go func() {
			if err := webui.ListenAndServe(ctx, ":"+webPort, webui.New(dispatcher).Handler()); err != nil {
				slog.Error("web server failed", slog.Any("error", err))
			}
		}()
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_metasearch",
		Version: version,
	}, nil)

	searchserver.RegisterTools(server, dispatcher)
	slog.Info("tools registered", slog.Int("count", searchserver.ToolCount))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_metasearch",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func initEngine() {
	c := engine.Config{
		UseStealth:    strings.EqualFold(env.Str("TRANSPORT", "http"), "stealth"),
		MaxResults:    env.Int("MAX_RESULTS", 10),
		SlowThreshold: env.Duration("SLOW_THRESHOLD", 5*time.Second),
		HTTPClient: &http.Client{
			Timeout: env.Duration("HTTP_TIMEOUT", 10*time.Second),
			Transport: &http.Transport{
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	for _, id := range env.List("DISABLED_ENGINES", "") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		e, err := engine.Parse(id)
		if err != nil {
			slog.Warn("ignoring disabled engine", slog.String("id", id), slog.Any("error", err))
			continue
		}
		c.DisabledEngines = append(c.DisabledEngines, e)
	}

	if c.UseStealth {
		var opts []stealth.ClientOption
		opts = append(opts, stealth.WithTimeout(15))

		if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
			pool, err := proxypool.NewWebshare(apiKey)
			if err != nil {
				slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
			} else {
				opts = append(opts, stealth.WithProxyPool(pool))
				slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
			}
		}

		bc, err := stealth.NewClient(opts...)
		if err != nil {
			slog.Error("stealth client init failed, falling back to net/http", slog.Any("error", err))
		} else {
			c.BrowserClient = bc
			slog.Info("stealth browser client initialized")
		}
	}

	engine.Init(c)
}

func registerAdapters(githubToken string) (*engine.Adapters, error) {
	a := engine.NewAdapters()
	if err := searchers.Register(a); err != nil {
		return nil, err
	}
	if err := answers.Register(a); err != nil {
		return nil, err
	}
	if err := postsearch.Register(a, githubToken); err != nil {
		return nil, err
	}
	return a, nil
}
