// Package hianimeapi describes the HiAnime REST API: its default server and
// the endpoints the gateway calls.
package hianimeapi

import (
	"net/http"
	"time"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/upstream"
)

// DefaultServerURL is used when no base URL is configured.
const DefaultServerURL = "https://hianime-api-b6ix.onrender.com"

func get(name, path string) upstream.Endpoint {
	return upstream.Endpoint{Name: "hianime." + name, Method: http.MethodGet, Path: path}
}

// Listings take ?page=; search also takes ?keyword=.
var (
	Search          = get("search", "/api/search")
	Popular         = get("popular", "/api/popular")
	TopAiring       = get("top_airing", "/api/top-airing")
	RecentlyUpdated = get("recently_updated", "/api/recently-updated")
	Completed       = get("completed", "/api/completed")
	Subbed          = get("subbed", "/api/subbed")
	Dubbed          = get("dubbed", "/api/dubbed")
	Genre           = get("genre", "/api/genre/{genre}")
	Type            = get("type", "/api/type/{type}")
	AZ              = get("az", "/api/az/{letter}")
	Producer        = get("producer", "/api/producer/{producer}")
	Filter          = get("filter", "/api/filter")

	Anime    = get("anime", "/api/anime/{slug}")
	Episodes = get("episodes", "/api/episodes/{slug}")

	Health = get("health", "/")
)

// NewClient creates a client for the HiAnime API at baseURL, or at
// DefaultServerURL when baseURL is empty.
func NewClient(baseURL, userAgent string, timeout time.Duration) *upstream.Client {
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	return upstream.NewClient(upstream.Options{BaseURL: baseURL, UserAgent: userAgent, Timeout: timeout})
}
