package hianime

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules"
	"github.com/Shalin-Shah-2002/MCP-Anime/pkg/hianimeapi"
)

type fakeAPI struct {
	*httptest.Server
	hits    atomic.Int32
	lastURL atomic.Value
}

// newFakeAPI serves canned bodies by path. Unknown paths answer 404.
func newFakeAPI(t *testing.T, routes map[string]string) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		f.lastURL.Store(r.URL.String())
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) module() *modules.Set {
	return New(hianimeapi.NewClient(f.URL, "test-agent", 2*time.Second))
}

func (f *fakeAPI) url() string {
	v, _ := f.lastURL.Load().(string)
	return v
}

func run(t *testing.T, m *modules.Set, tool string, args map[string]any) modules.Outcome {
	t.Helper()
	out, err := m.Dispatch(context.Background(), tool, args)
	require.NoError(t, err)
	return out
}

const narutoList = `{"success":true,"count":1,"page":2,"data":[
	{"title":"Naruto","url":"https://hianime.to/naruto-677?ref=search","type":"TV","episodes":{"sub":220,"dub":220},"duration":"23m"}
]}`

func TestModule_Catalog(t *testing.T) {
	m := New(nil)
	assert.Equal(t, "hianime", m.Name())
	assert.Len(t, m.Tools(), 17)
	for _, tool := range m.Tools() {
		assert.NotEmpty(t, tool.Descriptions["en-US"], tool.Name)
		assert.NotEmpty(t, tool.Descriptions["ja-JP"], tool.Name)
		assert.Contains(t, tool.InputSchema.Properties, modules.FormatArg, tool.Name)
	}
	require.Len(t, m.Resources(), 1)
	assert.Equal(t, FiltersURI, m.Resources()[0].URI)
}

func TestSearch(t *testing.T) {
	api := newFakeAPI(t, map[string]string{"/api/search": narutoList})
	out := run(t, api.module(), "search_anime", map[string]any{"keyword": " naruto ", "page": float64(2)})

	require.Equal(t, modules.StatusSuccess, out.Status, out.Text)
	assert.Equal(t, "/api/search?keyword=naruto&page=2", api.url())
	assert.True(t, strings.HasPrefix(out.Text, "🔍 **Search Results for 'naruto'** (Page 2, 1 results)\n"))
	assert.Contains(t, out.Text, "▸ Slug: `naruto-677`")
}

func TestSearch_Empty(t *testing.T) {
	api := newFakeAPI(t, map[string]string{"/api/search": `{"success":true,"data":[]}`})
	out := run(t, api.module(), "search_anime", map[string]any{"keyword": "zzz"})
	assert.Equal(t, "No anime found for 'zzz'.", out.Text)
}

func TestListings(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"/api/popular":                 narutoList,
		"/api/genre/slice-of-life":     narutoList,
		"/api/type/ova":                narutoList,
		"/api/az/other":                narutoList,
		"/api/az/N":                    narutoList,
		"/api/producer/studio-pierrot": narutoList,
		"/api/recently-updated":        narutoList,
	})
	m := api.module()

	tests := []struct {
		tool    string
		args    map[string]any
		wantURL string
		header  string
	}{
		{"get_popular_anime", map[string]any{"page": float64(3)}, "/api/popular?page=3", "🌟 **Most Popular Anime** (Page 3, 1 results)"},
		{"get_recently_updated_anime", nil, "/api/recently-updated?page=1", "🆕 **Recently Updated Anime** (Page 1, 1 results)"},
		{"get_anime_by_genre", map[string]any{"genre": "Slice-Of-Life"}, "/api/genre/slice-of-life?page=1", "🏷️ **Slice-Of-Life Anime**"},
		{"get_anime_by_type", map[string]any{"anime_type": "OVA"}, "/api/type/ova?page=1", "📁 **OVA Anime**"},
		{"get_anime_az_list", map[string]any{"letter": "Other"}, "/api/az/other?page=1", "🔤 **Anime Starting with 'OTHER'**"},
		{"get_anime_az_list", map[string]any{"letter": "n"}, "/api/az/N?page=1", "🔤 **Anime Starting with 'N'**"},
		{"get_anime_by_producer", map[string]any{"producer_slug": "studio-pierrot"}, "/api/producer/studio-pierrot?page=1", "🏢 **Anime by Studio Pierrot**"},
	}
	for _, tt := range tests {
		t.Run(tt.tool+" "+tt.wantURL, func(t *testing.T) {
			out := run(t, m, tt.tool, tt.args)
			require.Equal(t, modules.StatusSuccess, out.Status, out.Text)
			assert.Equal(t, tt.wantURL, api.url())
			assert.True(t, strings.HasPrefix(out.Text, tt.header), out.Text)
		})
	}
}

func TestValidation_NeverReachesUpstream(t *testing.T) {
	api := newFakeAPI(t, map[string]string{})
	m := api.module()

	tests := []struct {
		tool string
		args map[string]any
		want string
	}{
		{"get_anime_by_type", map[string]any{"anime_type": "series"}, "Invalid type 'series'. Available types: movie, tv, ova, ona, special, music"},
		{"get_anime_az_list", map[string]any{"letter": "ab"}, "Invalid letter. Please provide a single letter A-Z or 'other' for non-alphabetic titles."},
		{"filter_anime", map[string]any{"score": float64(11)}, "Score must be between 1 and 10."},
		{"filter_anime", map[string]any{"score": 10.5}, "Score must be between 1 and 10."},
		{"filter_anime", map[string]any{"score": 7.5}, "Score must be a whole number between 1 and 10."},
		{"get_episode_info", map[string]any{"slug": "naruto-677", "episode_number": float64(0)}, "Episode number must be a positive number."},
		{"search_anime", map[string]any{"keyword": ""}, "missing required parameter(s): keyword"},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			out := run(t, m, tt.tool, tt.args)
			assert.Equal(t, modules.StatusInvalid, out.Status)
			assert.Equal(t, tt.want, out.Text)
		})
	}
	assert.Zero(t, api.hits.Load())
}

func TestFailures(t *testing.T) {
	api := newFakeAPI(t, map[string]string{"/api/search": `{"success":false,"error":"down"}`})
	m := api.module()

	tests := []struct {
		tool string
		args map[string]any
		want string
	}{
		{"search_anime", map[string]any{"keyword": "naruto"}, "Unable to search for 'naruto'. Please try again later."},
		{"get_top_airing_anime", nil, "Unable to fetch top airing anime. Please try again later."},
		{"get_anime_details", map[string]any{"slug": "nope-1"}, "Unable to fetch details for anime 'nope-1'. Please check the slug and try again."},
		{"get_episode_info", map[string]any{"slug": "nope-1", "episode_number": float64(1)}, "Unable to fetch episodes for anime 'nope-1'. Please check the slug and try again."},
		{"filter_anime", nil, "Unable to filter anime. Please try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			out := run(t, m, tt.tool, tt.args)
			assert.Equal(t, modules.StatusUnavailable, out.Status)
			assert.Equal(t, tt.want, out.Text)
		})
	}
}

func episodesBody(n int) string {
	eps := make([]string, n)
	for i := range eps {
		eps[i] = fmt.Sprintf(`{"number":%d,"title":"Episode %d","id":"ep-%d"}`, i+1, i+1, i+1)
	}
	return `{"success":true,"data":{"episodes":[` + strings.Join(eps, ",") + `]}}`
}

func TestEpisodes(t *testing.T) {
	api := newFakeAPI(t, map[string]string{"/api/episodes/one-piece-100": episodesBody(25)})
	m := api.module()

	t.Run("list truncates", func(t *testing.T) {
		out := run(t, m, "get_anime_episodes", map[string]any{"slug": "one-piece-100"})
		require.Equal(t, modules.StatusSuccess, out.Status, out.Text)
		assert.Contains(t, out.Text, "📺 **Episodes for one-piece-100** (25 total episodes)")
		assert.Contains(t, out.Text, "Episode 20: Episode 20")
		assert.NotContains(t, out.Text, "Episode 21:")
		assert.True(t, strings.HasSuffix(out.Text, "... and 5 more episodes."))
	})
	t.Run("info found", func(t *testing.T) {
		out := run(t, m, "get_episode_info", map[string]any{"slug": "one-piece-100", "episode_number": float64(7)})
		assert.Equal(t, modules.StatusSuccess, out.Status)
		assert.Contains(t, out.Text, "Episode 7")
	})
	t.Run("info not found", func(t *testing.T) {
		out := run(t, m, "get_episode_info", map[string]any{"slug": "one-piece-100", "episode_number": float64(40)})
		assert.Equal(t, modules.StatusNotFound, out.Status)
		assert.Equal(t, "Episode 40 not found for 'one-piece-100'. This anime has 25 episodes (1-25).", out.Text)
	})
}

func TestFilter(t *testing.T) {
	api := newFakeAPI(t, map[string]string{"/api/filter": narutoList})
	out := run(t, api.module(), "filter_anime", map[string]any{
		"anime_type": "TV",
		"score":      float64(7),
		"genres":     "Action, Adventure",
	})
	require.Equal(t, modules.StatusSuccess, out.Status, out.Text)
	assert.Equal(t, "/api/filter?genres=action%2Cadventure&page=1&score=7&type=tv", api.url())
	assert.True(t, strings.HasPrefix(out.Text, "🔍 **Filtered Anime** (Type: tv, Min Score: 7, Genres: action,adventure)\n"), out.Text)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		healthy bool
	}{
		{"ok", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"success":true}`)
		}, true},
		{"answers with failure body", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"success":false}`)
		}, true},
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			m := New(hianimeapi.NewClient(srv.URL, "test-agent", 2*time.Second))

			out := run(t, m, "check_api_health", nil)
			assert.Equal(t, modules.StatusSuccess, out.Status)
			if tt.healthy {
				assert.Equal(t, "✅ HiAnime API is healthy and responding!", out.Text)
			} else {
				assert.Equal(t, "❌ HiAnime API is not responding. Please try again later.", out.Text)
			}
		})
	}
}

func TestAvailableFilters(t *testing.T) {
	m := New(nil)

	out := run(t, m, "get_available_filters", nil)
	assert.Contains(t, out.Text, "slice-of-life")

	out = run(t, m, "get_available_filters", map[string]any{"format": "json"})
	assert.Contains(t, out.Text, `"genres": [`)

	body, err := m.ReadResource(context.Background(), FiltersURI)
	require.NoError(t, err)
	assert.Contains(t, body, "Available Filter Options")
}
