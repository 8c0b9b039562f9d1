package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/config"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/mcp"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules/combined"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules/hianime"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules/mal"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/observability"
	"github.com/Shalin-Shah-2002/MCP-Anime/pkg/hianimeapi"
	"github.com/Shalin-Shah-2002/MCP-Anime/pkg/malapi"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "anime-mcp",
	Short: "MCP server for HiAnime and MyAnimeList",
	Long: `Serves anime search, listings, details, episodes and MyAnimeList tools
over the Model Context Protocol.

Transports:
- stdio (default): one JSON-RPC message per line on stdin/stdout.
- http: /v1/mcp (inline JSON-RPC and SSE), /health and /metrics.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server (default)",
	RunE:  runServe,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "YAML config file")
	f.String("env-file", ".env", "dotenv file; a missing file is ignored")
	f.String("transport", "", "transport: stdio or http")
	f.String("port", "", "port for the http transport")
	f.String("base-url", "", "HiAnime API base URL")
	f.Float64("timeout", 0, "upstream request timeout in seconds")

	rootCmd.AddCommand(serveCmd, toolsCmd)
}

// loadConfig layers command-line flags over config.Load and validates the
// result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	envFile, _ := flags.GetString("env-file")

	cfg, err := config.Load(path, envFile)
	if err != nil {
		return cfg, err
	}
	if flags.Changed("transport") {
		cfg.Transport, _ = flags.GetString("transport")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetString("port")
	}
	if flags.Changed("base-url") {
		cfg.HiAnimeBaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout, _ = flags.GetFloat64("timeout")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// newRegistry wires the three modules to their upstream clients.
func newRegistry(cfg config.Config) (*modules.Registry, error) {
	hianimeClient := hianimeapi.NewClient(cfg.HiAnimeBaseURL, cfg.UserAgent, cfg.Timeout())
	malClient := malapi.NewClient(cfg.MALBase(), cfg.UserAgent, cfg.Timeout())

	registry := modules.NewRegistry(0)
	for _, m := range []modules.Module{
		hianime.New(hianimeClient),
		mal.New(malClient),
		combined.New(hianimeClient, malClient),
	} {
		if err := registry.Register(m); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	// stdout belongs to the protocol on stdio; keep diagnostics off it.
	log.SetOutput(os.Stderr)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	observability.Init(cfg.Loki)

	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	info := mcp.ServerInfo{Name: "anime-mcp", Version: version}
	log.Printf("Upstream: %s (MyAnimeList via %s), timeout %s", cfg.HiAnimeBaseURL, cfg.MALBase(), cfg.Timeout())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		observability.Flush(flushCtx)
	}()

	switch cfg.Transport {
	case config.TransportHTTP:
		return serveHTTP(ctx, cfg, registry, info)
	default:
		return mcp.ServeStdio(ctx, registry, info, os.Stdin, os.Stdout)
	}
}
