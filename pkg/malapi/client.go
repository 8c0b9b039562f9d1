// Package malapi describes the MyAnimeList proxy routes of the HiAnime API
// server, including the three OAuth2 PKCE steps.
package malapi

import (
	"net/http"
	"time"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/upstream"
	"github.com/Shalin-Shah-2002/MCP-Anime/pkg/hianimeapi"
)

// ClientIDHeader carries the public client ID on unauthenticated calls.
const ClientIDHeader = "X-MAL-CLIENT-ID"

func get(name, path string) upstream.Endpoint {
	return upstream.Endpoint{Name: "mal." + name, Method: http.MethodGet, Path: path}
}

func post(name, path string) upstream.Endpoint {
	return upstream.Endpoint{Name: "mal." + name, Method: http.MethodPost, Path: path}
}

// Public catalog
var (
	Search   = get("search", "/api/mal/search")
	Ranking  = get("ranking", "/api/mal/ranking")
	Seasonal = get("seasonal", "/api/mal/season/{year}/{season}")
	Anime    = get("anime", "/api/mal/anime/{id}")
)

// OAuth2 authorization code flow with PKCE. The server generates the
// verifier and state; the caller carries them between steps.
var (
	AuthorizationURL = post("auth_url", "/api/mal/auth/url")
	ExchangeToken    = post("auth_token", "/api/mal/auth/token")
	RefreshToken     = post("auth_refresh", "/api/mal/auth/refresh")
)

// Authenticated user data. Credentials travel in the JSON body.
var (
	UserProfile   = post("user_profile", "/api/mal/user/profile")
	UserAnimeList = post("user_animelist", "/api/mal/user/animelist")
)

// NewClient creates a client for the MyAnimeList routes at baseURL, or at
// the HiAnime default server when baseURL is empty.
func NewClient(baseURL, userAgent string, timeout time.Duration) *upstream.Client {
	if baseURL == "" {
		baseURL = hianimeapi.DefaultServerURL
	}
	return upstream.NewClient(upstream.Options{BaseURL: baseURL, UserAgent: userAgent, Timeout: timeout})
}
