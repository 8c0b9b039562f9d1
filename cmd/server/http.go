package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/config"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/mcp"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/middleware"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/upstream"
	"github.com/Shalin-Shah-2002/MCP-Anime/pkg/hianimeapi"
)

const shutdownTimeout = 30 * time.Second

type healthReport struct {
	Status   string `json:"status"`
	Instance string `json:"instance"`
	Region   string `json:"region"`
	Upstream string `json:"upstream"`
	Tools    int    `json:"tools"`
}

// newRouter builds the HTTP surface: the MCP endpoint plus health and metrics.
func newRouter(cfg config.Config, registry *modules.Registry, info mcp.ServerInfo, health upstream.Doer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery, middleware.RequestID, middleware.AccessLog)

	r.Get("/health", healthHandler(cfg, registry, health))
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/v1/mcp", middleware.Transport("/v1/mcp", mcp.NewHandler(registry, info)))
	return r
}

// healthHandler reports degraded, with 503, when the HiAnime API cannot be
// reached. A reply with success:false still proves it is up.
func healthHandler(cfg config.Config, registry *modules.Registry, health upstream.Doer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		instance := firstNonEmpty(cfg.Loki.Instance, "local")
		region := firstNonEmpty(cfg.Loki.Region, "local")
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Instance-ID", instance)
		w.Header().Set("X-Instance-Region", region)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		report := healthReport{Status: "ok", Instance: instance, Region: region, Upstream: "ok", Tools: len(registry.Tools())}
		if _, err := health.Do(ctx, upstream.Call{Endpoint: hianimeapi.Health}); err != nil && !errors.Is(err, upstream.ErrFailureBody) {
			log.Printf("[health] upstream unreachable: %v", err)
			report.Status, report.Upstream = "degraded", "unavailable"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(report)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func serveHTTP(ctx context.Context, cfg config.Config, registry *modules.Registry, info mcp.ServerInfo) error {
	health := hianimeapi.NewClient(cfg.HiAnimeBaseURL, cfg.UserAgent, cfg.Timeout())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           newRouter(cfg, registry, info, health),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on port %s (%d tools)", cfg.Port, len(registry.Tools()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}
	log.Printf("Shutting down gracefully...")

	// Give in-flight requests up to 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Printf("Server stopped")
	return nil
}
