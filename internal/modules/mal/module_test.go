package mal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/normalize"
	"github.com/Shalin-Shah-2002/MCP-Anime/pkg/malapi"
)

type captured struct {
	url    string
	body   string
	header http.Header
}

// fakeMAL answers each path with a fixed status and body and records the
// last request.
type fakeMAL struct {
	*httptest.Server
	mu   sync.Mutex
	last captured
}

type reply struct {
	status int
	body   string
}

func newFakeMAL(t *testing.T, routes map[string]reply) *fakeMAL {
	t.Helper()
	f := &fakeMAL{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.last = captured{url: r.URL.String(), body: string(b), header: r.Header.Clone()}
		f.mu.Unlock()

		rep, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.status)
		io.WriteString(w, rep.body)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeMAL) seen() captured {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeMAL) module() *modules.Set {
	return New(malapi.NewClient(f.URL, "test-agent", 2*time.Second))
}

func run(t *testing.T, m *modules.Set, tool string, args map[string]any) modules.Outcome {
	t.Helper()
	out, err := m.Dispatch(context.Background(), tool, args)
	require.NoError(t, err)
	return out
}

const rankingBody = `{"success":true,"data":[
	{"node":{"id":5114,"title":"Fullmetal Alchemist: Brotherhood","mean":9.1,"media_type":"tv","num_episodes":64,"num_list_users":3500000,"num_scoring_users":2200000},"ranking":{"rank":1}}
]}`

func TestModule_Catalog(t *testing.T) {
	m := New(nil)
	assert.Equal(t, "mal", m.Name())
	assert.Len(t, m.Tools(), 9)

	b, ok := m.Binding("mal_exchange_token")
	require.True(t, ok)
	assert.Equal(t, modules.AnnotateExchange, b.Annotations)

	search, ok := m.Binding("mal_search_anime")
	require.True(t, ok)
	for _, p := range search.Params {
		if p.Arg == "client_id" {
			assert.False(t, p.Required)
			assert.Contains(t, p.Description, "Optional; sent as X-MAL-CLIENT-ID when given.")
		}
	}
}

func TestSearch_ClampsLimit(t *testing.T) {
	api := newFakeMAL(t, map[string]reply{"/api/mal/search": {http.StatusOK, rankingBody}})
	m := api.module()

	tests := []struct {
		limit any
		want  string
	}{
		{float64(0), "limit=1"},
		{float64(500), "limit=100"},
		{nil, "limit=10"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.limit), func(t *testing.T) {
			args := map[string]any{"query": "fullmetal", "client_id": "cid"}
			if tt.limit != nil {
				args["limit"] = tt.limit
			}
			out := run(t, m, "mal_search_anime", args)
			require.Equal(t, modules.StatusSuccess, out.Status, out.Text)

			last := api.seen()
			assert.Equal(t, "/api/mal/search?"+tt.want+"&q=fullmetal", last.url)
			assert.Equal(t, "cid", last.header.Get(malapi.ClientIDHeader))
		})
	}
}

func TestSearch_WithoutClientIDSendsNoHeader(t *testing.T) {
	api := newFakeMAL(t, map[string]reply{"/api/mal/search": {http.StatusOK, rankingBody}})
	run(t, api.module(), "mal_search_anime", map[string]any{"query": "fma"})
	_, present := api.seen().header[http.CanonicalHeaderKey(malapi.ClientIDHeader)]
	assert.False(t, present)
}

func TestRanking(t *testing.T) {
	api := newFakeMAL(t, map[string]reply{"/api/mal/ranking": {http.StatusOK, rankingBody}})
	out := run(t, api.module(), "mal_get_anime_ranking", nil)

	require.Equal(t, modules.StatusSuccess, out.Status, out.Text)
	assert.Equal(t, "/api/mal/ranking?limit=10&ranking_type=all", api.seen().url)
	assert.Contains(t, out.Text, "🏆 **MyAnimeList Ranking: Top Anime** (1 results)")
	assert.Contains(t, out.Text, "#1 **Fullmetal Alchemist: Brotherhood**")
	assert.Contains(t, out.Text, "▸ Score: 9.1 (2,200,000 users)")
	assert.Contains(t, out.Text, "▸ Members: 3,500,000")
}

func TestSeasonal(t *testing.T) {
	api := newFakeMAL(t, map[string]reply{"/api/mal/season/2024/fall": {http.StatusOK, rankingBody}})
	m := api.module()

	out := run(t, m, "mal_get_seasonal_anime", map[string]any{"year": float64(2024), "season": "Fall", "sort": "anime_score"})
	require.Equal(t, modules.StatusSuccess, out.Status, out.Text)
	assert.Equal(t, "/api/mal/season/2024/fall?limit=10&sort=anime_score", api.seen().url)
	assert.True(t, strings.HasPrefix(out.Text, "🍂 **Fall 2024 Anime**"))

	out = run(t, m, "mal_get_seasonal_anime", map[string]any{"year": float64(1900), "season": "fall"})
	assert.Equal(t, modules.StatusInvalid, out.Status)
	assert.Equal(t, fmt.Sprintf("Year must be between 1917 and %d.", time.Now().Year()+1), out.Text)
}

func TestDetails_RejectsNonPositiveID(t *testing.T) {
	api := newFakeMAL(t, nil)
	out := run(t, api.module(), "mal_get_anime_details", map[string]any{"anime_id": float64(-3)})
	assert.Equal(t, modules.StatusInvalid, out.Status)
	assert.Equal(t, "Anime ID must be a positive number.", out.Text)
	assert.Empty(t, api.seen().url)
}

func TestAuthorizationURL(t *testing.T) {
	api := newFakeMAL(t, map[string]reply{"/api/mal/auth/url": {http.StatusOK,
		`{"success":true,"data":{"authorization_url":"https://myanimelist.net/v1/oauth2/authorize?x=1","code_verifier":"verifier-123","state":"st-9"}}`}})

	out := run(t, api.module(), "mal_get_authorization_url", map[string]any{
		"client_id":    "cid",
		"redirect_uri": "http://localhost/cb",
	})
	require.Equal(t, modules.StatusSuccess, out.Status, out.Text)
	assert.Equal(t, `{"client_id":"cid","redirect_uri":"http://localhost/cb"}`, api.seen().body)
	assert.Contains(t, out.Text, "https://myanimelist.net/v1/oauth2/authorize?x=1")
	assert.Contains(t, out.Text, "code_verifier: `verifier-123`")
	assert.Contains(t, out.Text, "state: `st-9`")
}

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func TestExchangeToken(t *testing.T) {
	access := signedToken(t, "424242", time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC))
	api := newFakeMAL(t, map[string]reply{"/api/mal/auth/token": {http.StatusOK, fmt.Sprintf(
		`{"success":true,"data":{"access_token":%q,"refresh_token":"rt-1","expires_in":2678400,"token_type":"Bearer"}}`, access)}})

	out := run(t, api.module(), "mal_exchange_token", map[string]any{
		"client_id":     "cid",
		"code":          "auth-code",
		"code_verifier": "verifier-123",
		"redirect_uri":  "http://localhost/cb",
	})
	require.Equal(t, modules.StatusSuccess, out.Status, out.Text)
	assert.Equal(t,
		`{"client_id":"cid","code":"auth-code","code_verifier":"verifier-123","redirect_uri":"http://localhost/cb"}`,
		api.seen().body)
	assert.Contains(t, out.Text, "▸ Expires In: 2,678,400 seconds")
	assert.Contains(t, out.Text, "▸ Expires At: 2030-01-02T03:04:05Z")
	assert.Contains(t, out.Text, "▸ User: 424242")
	assert.Contains(t, out.Text, "refresh_token: `rt-1`")
}

func TestExchangeToken_VerifierMismatch(t *testing.T) {
	tests := []struct {
		name string
		rep  reply
	}{
		{"bad request", reply{http.StatusBadRequest, `{"error":"invalid_grant","message":"code_verifier mismatch for verifier-wrong"}`}},
		{"failure body", reply{http.StatusOK, `{"success":false,"error":"invalid_grant"}`}},
		{"oauth error served as 200", reply{http.StatusOK, `{"error":"invalid_grant","message":"code_verifier mismatch for verifier-wrong"}`}},
		{"no access token", reply{http.StatusOK, `{"success":true,"data":{"refresh_token":"rt-1","token_type":"Bearer"}}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeMAL(t, map[string]reply{"/api/mal/auth/token": tt.rep})
			out := run(t, api.module(), "mal_exchange_token", map[string]any{
				"client_id":     "cid",
				"code":          "auth-code",
				"code_verifier": "verifier-wrong",
				"redirect_uri":  "http://localhost/cb",
			})
			assert.Equal(t, modules.StatusUnavailable, out.Status)
			assert.Equal(t, "Unable to exchange the authorization code. Start again with mal_get_authorization_url and use its code_verifier.", out.Text)
			assert.NotContains(t, out.Text, "invalid_grant")
			assert.NotContains(t, out.Text, "verifier-wrong")
		})
	}
}

func TestRefreshToken_ErrorBodyIsFailure(t *testing.T) {
	api := newFakeMAL(t, map[string]reply{"/api/mal/auth/refresh": {http.StatusOK, `{"error":"invalid_grant"}`}})
	out := run(t, api.module(), "mal_refresh_token", map[string]any{
		"client_id":     "cid",
		"refresh_token": "rt-old",
		"format":        "json",
	})
	assert.Equal(t, modules.StatusUnavailable, out.Status)
	assert.Equal(t, "Unable to refresh the MyAnimeList token. Please authorize again.", out.Text)
}

func TestAuthorizationURL_IncompleteReply(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no url", `{"success":true,"data":{"code_verifier":"verifier-123","state":"st-9"}}`},
		{"no verifier", `{"success":true,"data":{"authorization_url":"https://myanimelist.net/v1/oauth2/authorize?x=1"}}`},
		{"error body", `{"error":"invalid_client"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeMAL(t, map[string]reply{"/api/mal/auth/url": {http.StatusOK, tt.body}})
			out := run(t, api.module(), "mal_get_authorization_url", map[string]any{
				"client_id":    "cid",
				"redirect_uri": "http://localhost/cb",
			})
			assert.Equal(t, modules.StatusUnavailable, out.Status)
			assert.Equal(t, "Unable to create a MyAnimeList authorization URL. Please check client_id and redirect_uri and try again.", out.Text)
		})
	}
}

func TestWithClaims_OpaqueToken(t *testing.T) {
	ts := withClaims(normalize.TokenSet{AccessToken: "opaque-token"})
	assert.Empty(t, ts.Subject)
	assert.Empty(t, ts.ExpiresAt)

	ts = withClaims(normalize.TokenSet{AccessToken: "a.b.c"})
	assert.Empty(t, ts.Subject, "malformed JWTs are ignored")
}

func TestUserAnimeList(t *testing.T) {
	api := newFakeMAL(t, map[string]reply{"/api/mal/user/animelist": {http.StatusOK, `{"success":true,"data":[
		{"node":{"id":1,"title":"Cowboy Bebop"},"list_status":{"status":"watching","score":9,"num_episodes_watched":12,"updated_at":"2024-05-01"}}
	]}`}})

	out := run(t, api.module(), "mal_get_user_anime_list", map[string]any{
		"client_id":    "cid",
		"access_token": "at-1",
		"status":       "Watching",
		"limit":        float64(1000),
	})
	require.Equal(t, modules.StatusSuccess, out.Status, out.Text)
	assert.Equal(t, `{"access_token":"at-1","client_id":"cid","limit":100,"status":"watching"}`, api.seen().body)
	assert.True(t, strings.HasPrefix(out.Text, "📋 **Anime List (watching)** (1 entries)"))
	assert.Contains(t, out.Text, "▸ Status: watching | Score: 9")
	assert.Contains(t, out.Text, "▸ Watched Episodes: 12")
}

func TestUserProfile_RequiresToken(t *testing.T) {
	api := newFakeMAL(t, nil)
	out := run(t, api.module(), "mal_get_user_profile", map[string]any{"client_id": "cid"})
	assert.Equal(t, modules.StatusInvalid, out.Status)
	assert.Equal(t, "missing required parameter(s): access_token", out.Text)
}
