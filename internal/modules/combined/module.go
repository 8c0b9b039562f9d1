// Package combined searches HiAnime and MyAnimeList in one call.
package combined

import (
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/catalog"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules/mal"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/normalize"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/render"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/upstream"
	"github.com/Shalin-Shah-2002/MCP-Anime/pkg/hianimeapi"
)

const (
	moduleName = "combined"
	apiVersion = "v1"
)

var moduleDescriptions = modules.LocalizedText{
	"en-US": "Combined - Search HiAnime and MyAnimeList at once",
	"ja-JP": "Combined - HiAnime と MyAnimeList を同時に検索",
}

// Section order follows the request order.
var providers = []struct {
	name  string
	emoji string
	text  func([]normalize.AnimeSummary) string
}{
	{"HiAnime", "📺", render.AnimeItems},
	{"MyAnimeList", "📊", render.RankedItems},
}

// New creates the combined module. hianime and mal may be the same client
// when both services live behind one server.
func New(hianime, malClient upstream.Doer) *modules.Set {
	search := modules.Binding{
		Name: "combined_search",
		Descriptions: modules.LocalizedText{
			"en-US": "Search HiAnime and MyAnimeList in parallel. A provider that fails is reported without hiding the other's results.",
			"ja-JP": "HiAnime と MyAnimeList を並列に検索します。一方が失敗しても、もう一方の結果は表示されます。",
		},
		Annotations: modules.AnnotateReadOnly,
		Params: []modules.Param{
			mal.SearchQuery,
			modules.TextParam("client_id", "MyAnimeList API client ID, optional", false),
			modules.RangeParam("limit", "Results per provider, 1-20 (default: 5)", catalog.CombinedLimit),
		},
		Requests: []modules.Request{
			{
				Provider: providers[0].name,
				Via:      hianime,
				Endpoint: hianimeapi.Search,
				Fields:   []modules.Field{modules.QueryAs("query", "keyword")},
			},
			mal.SearchRequest(malClient),
		},
		Partial: true,
		Present: present,
	}
	return modules.NewSet(moduleName, apiVersion, moduleDescriptions, search)
}

// Result is the structured form of a combined search.
type Result struct {
	Query    string           `json:"query"`
	Sections []render.Section `json:"sections"`
}

func sections(a modules.Args, rs []modules.Result) Result {
	limit := a.Int("limit")
	out := Result{Query: a.String("query"), Sections: make([]render.Section, len(rs))}
	for i, r := range rs {
		p := providers[i]
		s := render.Section{Provider: p.name, Emoji: p.emoji}
		if !r.OK() {
			s.Failed = true
			out.Sections[i] = s
			continue
		}
		items := normalize.Summaries(r.Response.Payload())
		if len(items) > limit {
			items = items[:limit]
		}
		s.Count, s.Items, s.Body = len(items), items, p.text(items)
		out.Sections[i] = s
	}
	return out
}

var presentSections = modules.Present(sections, func(_ modules.Args, r Result) string {
	return render.Combined(r.Query, r.Sections)
})

// present renders every section. Only when every provider failed is the
// call classified as unavailable.
func present(a modules.Args, rs []modules.Result) modules.Outcome {
	out := presentSections(a, rs)
	for _, r := range rs {
		if r.OK() {
			return out
		}
	}
	out.Status = modules.StatusUnavailable
	return out
}
