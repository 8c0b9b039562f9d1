// Package hianime exposes the HiAnime catalog: search, browse listings,
// filtering, details and episodes.
package hianime

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/catalog"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/render"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/upstream"
	"github.com/Shalin-Shah-2002/MCP-Anime/pkg/hianimeapi"
)

const (
	moduleName = "hianime"
	apiVersion = "v1"
)

// Module descriptions
var moduleDescriptions = modules.LocalizedText{
	"en-US": "HiAnime - Search, browse and filter anime, and look up details and episodes",
	"ja-JP": "HiAnime - アニメの検索、一覧、絞り込み、詳細とエピソードの参照",
}

// FiltersURI is the resource listing every accepted filter value.
const FiltersURI = "anime://hianime/filters"

// New creates the HiAnime module. client is shared by every tool and must
// be safe for concurrent use.
func New(client upstream.Doer) *modules.Set {
	return modules.NewSet(moduleName, apiVersion, moduleDescriptions, bindings(client)...).
		WithResource(modules.Resource{
			URI:         FiltersURI,
			Name:        "Available filters",
			Description: "Genres, types, statuses, ratings, seasons, sort options and languages accepted by the HiAnime tools",
			MimeType:    "text/markdown",
		}, func(context.Context) (string, error) {
			return render.Filters(), nil
		})
}

var (
	pageParam = modules.RangeParam("page", "Page number for pagination (default: 1)", catalog.Page)
	slugParam = modules.TextParam("slug", `The anime slug (e.g., "naruto-677", "one-piece-100"). Take it from search results or listings.`, true)
)

func fixed(title string) func(modules.Args) string {
	return func(modules.Args) string { return title }
}

func unable(what string) func(modules.Args) string {
	return func(modules.Args) string {
		return fmt.Sprintf("Unable to fetch %s. Please try again later.", what)
	}
}

// browse is a paged listing without arguments besides page.
func browse(c upstream.Doer, name string, ep upstream.Endpoint, desc modules.LocalizedText, emoji, title, what string) modules.Binding {
	return modules.Binding{
		Name:         name,
		Descriptions: desc,
		Annotations:  modules.AnnotateReadOnly,
		Params:       []modules.Param{pageParam},
		Requests: []modules.Request{{
			Via:      c,
			Endpoint: ep,
			Fields:   []modules.Field{modules.Query("page")},
		}},
		Present: listing(emoji, fixed(title)),
		Failure: unable(what),
	}
}

func bindings(c upstream.Doer) []modules.Binding {
	return []modules.Binding{
		{
			Name: "search_anime",
			Descriptions: modules.LocalizedText{
				"en-US": "Search for anime by keyword. Returns titles with the slug needed by the detail and episode tools.",
				"ja-JP": "キーワードでアニメを検索します。詳細・エピソード取得に使うスラッグも返します。",
			},
			Annotations: modules.AnnotateReadOnly,
			Params: []modules.Param{
				modules.TextParam("keyword", `The search term (e.g., "naruto", "one piece", "attack on titan")`, true),
				pageParam,
			},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: hianimeapi.Search,
				Fields:   []modules.Field{modules.Query("keyword"), modules.Query("page")},
			}},
			Present: modules.Present(searchList, searchText),
			Failure: func(a modules.Args) string {
				return fmt.Sprintf("Unable to search for '%s'. Please try again later.", a.String("keyword"))
			},
		},
		browse(c, "get_popular_anime", hianimeapi.Popular, modules.LocalizedText{
			"en-US": "Get the most popular anime.",
			"ja-JP": "最も人気のあるアニメを取得します。",
		}, "🌟", "Most Popular Anime", "popular anime"),
		browse(c, "get_top_airing_anime", hianimeapi.TopAiring, modules.LocalizedText{
			"en-US": "Get the top anime currently airing.",
			"ja-JP": "現在放送中の上位アニメを取得します。",
		}, "📡", "Currently Airing Anime", "top airing anime"),
		browse(c, "get_recently_updated_anime", hianimeapi.RecentlyUpdated, modules.LocalizedText{
			"en-US": "Get anime with recently released episodes.",
			"ja-JP": "最近エピソードが追加されたアニメを取得します。",
		}, "🆕", "Recently Updated Anime", "recently updated anime"),
		browse(c, "get_completed_anime", hianimeapi.Completed, modules.LocalizedText{
			"en-US": "Get anime that have finished airing.",
			"ja-JP": "放送が終了したアニメを取得します。",
		}, "✅", "Completed Anime", "completed anime"),
		browse(c, "get_subbed_anime", hianimeapi.Subbed, modules.LocalizedText{
			"en-US": "Get anime available with subtitles.",
			"ja-JP": "字幕付きで視聴できるアニメを取得します。",
		}, "📝", "Subbed Anime", "subbed anime"),
		browse(c, "get_dubbed_anime", hianimeapi.Dubbed, modules.LocalizedText{
			"en-US": "Get anime available with an English dub.",
			"ja-JP": "英語吹き替えのあるアニメを取得します。",
		}, "🎙️", "Dubbed Anime", "dubbed anime"),
		{
			Name: "get_anime_by_genre",
			Descriptions: modules.LocalizedText{
				"en-US": "Get anime of one genre. Call get_available_filters for the accepted genres.",
				"ja-JP": "指定したジャンルのアニメを取得します。使用できるジャンルは get_available_filters で確認できます。",
			},
			Annotations: modules.AnnotateReadOnly,
			Params: []modules.Param{
				modules.EnumParam("genre", `The genre (e.g., "action", "romance", "slice-of-life")`, catalog.Genres, true),
				pageParam,
			},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: hianimeapi.Genre,
				Fields:   []modules.Field{modules.Path("genre", "genre"), modules.Query("page")},
			}},
			Present: listing("🏷️", func(a modules.Args) string {
				return render.TitleCase(a.String("genre")) + " Anime"
			}),
			Failure: func(a modules.Args) string {
				return fmt.Sprintf("Unable to fetch anime for genre '%s'. Please try again later.", a.String("genre"))
			},
		},
		{
			Name: "get_anime_by_type",
			Descriptions: modules.LocalizedText{
				"en-US": "Get anime of one media type: movie, tv, ova, ona, special or music.",
				"ja-JP": "種別（movie, tv, ova, ona, special, music）ごとのアニメを取得します。",
			},
			Annotations: modules.AnnotateReadOnly,
			Params: []modules.Param{
				modules.EnumParam("anime_type", "The media type", catalog.Types, true),
				pageParam,
			},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: hianimeapi.Type,
				Fields:   []modules.Field{modules.Path("anime_type", "type"), modules.Query("page")},
			}},
			Present: listing("📁", func(a modules.Args) string {
				return strings.ToUpper(a.String("anime_type")) + " Anime"
			}),
			Failure: func(a modules.Args) string {
				return fmt.Sprintf("Unable to fetch anime for type '%s'. Please try again later.", a.String("anime_type"))
			},
		},
		{
			Name: "get_anime_details",
			Descriptions: modules.LocalizedText{
				"en-US": "Get full details of an anime: synopsis, genres, studios, status and more.",
				"ja-JP": "アニメの詳細（あらすじ、ジャンル、スタジオ、放送状況など）を取得します。",
			},
			Annotations: modules.AnnotateReadOnly,
			Params:      []modules.Param{slugParam},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: hianimeapi.Anime,
				Fields:   []modules.Field{modules.Path("slug", "slug")},
			}},
			Present: modules.Present(detail, detailText),
			Failure: func(a modules.Args) string {
				return fmt.Sprintf("Unable to fetch details for anime '%s'. Please check the slug and try again.", a.String("slug"))
			},
		},
		{
			Name: "get_anime_episodes",
			Descriptions: modules.LocalizedText{
				"en-US": "Get the episode list of an anime. Long lists show the first 20 episodes.",
				"ja-JP": "アニメのエピソード一覧を取得します。長い一覧は最初の20話のみ表示します。",
			},
			Annotations: modules.AnnotateReadOnly,
			Params:      []modules.Param{slugParam},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: hianimeapi.Episodes,
				Fields:   []modules.Field{modules.Path("slug", "slug")},
			}},
			Present: modules.Present(episodes, episodesText),
			Failure: episodesFailure,
		},
		{
			Name: "get_episode_info",
			Descriptions: modules.LocalizedText{
				"en-US": "Get details and the reference page of one episode.",
				"ja-JP": "特定のエピソードの詳細と参照ページを取得します。",
			},
			Annotations: modules.AnnotateReadOnly,
			Params: []modules.Param{
				slugParam,
				{
					Arg:         "episode_number",
					Type:        "integer",
					Description: "The episode number",
					Required:    true,
					Rule:        catalog.Positive("Episode number"),
				},
			},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: hianimeapi.Episodes,
				Fields:   []modules.Field{modules.Path("slug", "slug")},
			}},
			Present: modules.Present(episodeLookup, episodeLookupText),
			Failure: episodesFailure,
		},
		{
			Name: "get_anime_az_list",
			Descriptions: modules.LocalizedText{
				"en-US": `Get anime alphabetically by first letter. Use a single letter A-Z, or "other" for non-alphabetic titles.`,
				"ja-JP": `頭文字でアニメを取得します。A-Z の1文字、または記号・数字で始まる作品は "other" を指定します。`,
			},
			Annotations: modules.AnnotateReadOnly,
			Params: []modules.Param{
				{Arg: "letter", Type: "string", Description: `Single letter A-Z, or "other"`, Required: true, Rule: catalog.AZ},
				pageParam,
			},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: hianimeapi.AZ,
				Fields:   []modules.Field{modules.Path("letter", "letter"), modules.Query("page")},
			}},
			Present: listing("🔤", func(a modules.Args) string {
				return fmt.Sprintf("Anime Starting with '%s'", strings.ToUpper(a.String("letter")))
			}),
			Failure: func(a modules.Args) string {
				return fmt.Sprintf("Unable to fetch anime for letter '%s'. Please try again later.", a.String("letter"))
			},
		},
		{
			Name: "get_anime_by_producer",
			Descriptions: modules.LocalizedText{
				"en-US": `Get anime by producer or studio slug (e.g., "studio-pierrot", "mappa", "toei-animation", "ufotable").`,
				"ja-JP": `制作会社・スタジオのスラッグでアニメを取得します（例: "studio-pierrot", "mappa", "ufotable"）。`,
			},
			Annotations: modules.AnnotateReadOnly,
			Params: []modules.Param{
				modules.TextParam("producer_slug", "The producer or studio slug", true),
				pageParam,
			},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: hianimeapi.Producer,
				Fields:   []modules.Field{modules.Path("producer_slug", "producer"), modules.Query("page")},
			}},
			Present: listing("🏢", func(a modules.Args) string {
				return "Anime by " + render.TitleCase(strings.ReplaceAll(a.String("producer_slug"), "-", " "))
			}),
			Failure: func(a modules.Args) string {
				return fmt.Sprintf("Unable to fetch anime for producer '%s'. Please check the producer slug and try again.", a.String("producer_slug"))
			},
		},
		{
			Name: "filter_anime",
			Descriptions: modules.LocalizedText{
				"en-US": "Filter anime by any combination of type, status, rating, minimum score, season, language, genres and sort order.",
				"ja-JP": "種別、放送状況、レーティング、最低スコア、シーズン、言語、ジャンル、並び順を組み合わせてアニメを絞り込みます。",
			},
			Annotations: modules.AnnotateReadOnly,
			Params:      filterParams,
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: hianimeapi.Filter,
				Fields: []modules.Field{
					modules.QueryAs("anime_type", "type"),
					modules.Query("status"),
					modules.Query("rated"),
					modules.Query("score"),
					modules.Query("season"),
					modules.Query("language"),
					modules.Query("genres"),
					modules.Query("sort"),
					modules.Query("page"),
				},
			}},
			Present: modules.Present(filtered, filteredText),
			Failure: func(modules.Args) string { return "Unable to filter anime. Please try again later." },
		},
		{
			Name: "check_api_health",
			Descriptions: modules.LocalizedText{
				"en-US": "Check whether the HiAnime API is reachable and responding.",
				"ja-JP": "HiAnime API が応答しているか確認します。",
			},
			Annotations: modules.AnnotateReadOnly,
			Requests:    []modules.Request{{Via: c, Endpoint: hianimeapi.Health}},
			Partial:     true,
			Present:     modules.Present(health, healthText),
		},
		{
			Name: "get_available_filters",
			Descriptions: modules.LocalizedText{
				"en-US": "List every accepted genre, type, status, rating, season, sort option and language.",
				"ja-JP": "使用できるジャンル、種別、放送状況、レーティング、シーズン、並び順、言語を一覧表示します。",
			},
			Annotations: modules.AnnotateLocal,
			Present:     modules.Present(filterOptions, filterOptionsText),
		},
	}
}

var filterParams = []modules.Param{
	modules.EnumParam("anime_type", "Type filter", catalog.Types, false),
	modules.EnumParam("status", "Status filter", catalog.Statuses, false),
	modules.EnumParam("rated", "Rating filter", catalog.Ratings, false),
	{Arg: "score", Type: "integer", Description: "Minimum score, 1-10", Rule: catalog.MinScore},
	modules.EnumParam("season", "Season filter", catalog.Seasons, false),
	modules.EnumParam("language", "Language filter", catalog.Languages, false),
	{Arg: "genres", Type: "string", Description: `Comma-separated genres (e.g., "action,adventure,fantasy")`, Rule: catalog.Genre},
	modules.EnumParam("sort", "Sort order", catalog.Sorts, false),
	pageParam,
}

func episodesFailure(a modules.Args) string {
	return fmt.Sprintf("Unable to fetch episodes for anime '%s'. Please check the slug and try again.", a.String("slug"))
}
