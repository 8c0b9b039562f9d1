// Package metrics provides Prometheus metrics for the anime gateway.
// Scrape these at /metrics when running the HTTP transport.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tool Metrics
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anime_mcp_tool_calls_total",
			Help: "Total number of tool calls",
		},
		[]string{"module", "tool", "outcome"}, // outcome: "success", "invalid", "unavailable", "not_found", "error"
	)

	ToolCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "anime_mcp_tool_call_duration_seconds",
			Help:    "Tool call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"module", "tool"},
	)

	// Upstream Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anime_mcp_upstream_requests_total",
			Help: "Total upstream API requests by endpoint and result",
		},
		[]string{"endpoint", "result"}, // result: "ok", "timeout", "status", "transport"
	)

	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anime_mcp_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)
