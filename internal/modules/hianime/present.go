package hianime

import (
	"fmt"

	"github.com/go-faster/errors"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/catalog"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/normalize"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/render"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/upstream"
)

// listing pages carry the requested page in their header.
func animeList(a modules.Args, rs []modules.Result) normalize.AnimeList {
	r := rs[0].Response
	return normalize.List(r.Payload(), r.Count, nil, a.Int("page"))
}

func listing(emoji string, title func(modules.Args) string) modules.Presenter {
	return modules.Present(animeList, func(a modules.Args, l normalize.AnimeList) string {
		return render.Listing(emoji, title(a), l)
	})
}

// Search reports the page the server answered with.
func searchList(a modules.Args, rs []modules.Result) normalize.AnimeList {
	r := rs[0].Response
	return normalize.List(r.Payload(), r.Count, r.Page, a.Int("page"))
}

func searchText(a modules.Args, l normalize.AnimeList) string {
	if len(l.Items) == 0 {
		return fmt.Sprintf("No anime found for '%s'.", a.String("keyword"))
	}
	return render.Listing("🔍", fmt.Sprintf("Search Results for '%s'", a.String("keyword")), l)
}

func detail(_ modules.Args, rs []modules.Result) normalize.AnimeDetail {
	return normalize.Detail(rs[0].Response.Payload())
}

func detailText(_ modules.Args, d normalize.AnimeDetail) string { return render.Detail(d) }

func episodes(a modules.Args, rs []modules.Result) normalize.EpisodeList {
	r := rs[0].Response
	return normalize.Episodes(a.String("slug"), r.Payload(), r.Count)
}

func episodesText(_ modules.Args, l normalize.EpisodeList) string { return render.Episodes(l) }

func episodeLookup(a modules.Args, rs []modules.Result) normalize.EpisodeLookup {
	return normalize.FindEpisode(episodes(a, rs), a.Int("episode_number"))
}

func episodeLookupText(_ modules.Args, l normalize.EpisodeLookup) string {
	return render.EpisodeInfo(l)
}

// FilterResult is a filter listing together with the filters that produced it.
type FilterResult struct {
	Filters []string `json:"filters"`
	normalize.AnimeList
}

var filterLabels = []struct{ arg, label string }{
	{"anime_type", "Type"},
	{"status", "Status"},
	{"rated", "Rated"},
	{"score", "Min Score"},
	{"season", "Season"},
	{"language", "Language"},
	{"genres", "Genres"},
	{"sort", "Sort"},
}

// appliedFilters describes the supplied filters after normalization.
func appliedFilters(a modules.Args) []string {
	var out []string
	for _, f := range filterLabels {
		if a.Has(f.arg) {
			out = append(out, f.label+": "+a.String(f.arg))
		}
	}
	return out
}

func filtered(a modules.Args, rs []modules.Result) FilterResult {
	return FilterResult{Filters: appliedFilters(a), AnimeList: animeList(a, rs)}
}

func filteredText(_ modules.Args, f FilterResult) string {
	return render.FilteredListing(f.Filters, f.AnimeList)
}

// HealthStatus is the result of check_api_health.
type HealthStatus struct {
	Healthy bool `json:"healthy"`
}

// A body reporting success:false still proves the server is answering.
func health(_ modules.Args, rs []modules.Result) HealthStatus {
	r := rs[0]
	return HealthStatus{Healthy: r.OK() || errors.Is(r.Err, upstream.ErrFailureBody)}
}

func healthText(_ modules.Args, h HealthStatus) string { return render.Health(h.Healthy) }

// FilterOptions lists every accepted vocabulary value.
type FilterOptions map[string][]string

func filterOptions(modules.Args, []modules.Result) FilterOptions {
	out := make(FilterOptions)
	for _, c := range catalog.All() {
		out[c.Plural] = c.Values
	}
	return out
}

func filterOptionsText(modules.Args, FilterOptions) string { return render.Filters() }
