// Package mal exposes MyAnimeList through the HiAnime API server's proxy
// routes: public catalog lookups, the OAuth2 PKCE flow and the
// authenticated user's profile and list.
package mal

import (
	"fmt"

	"github.com/Shalin-Shah-2002/MCP-Anime/internal/catalog"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/modules"
	"github.com/Shalin-Shah-2002/MCP-Anime/internal/upstream"
	"github.com/Shalin-Shah-2002/MCP-Anime/pkg/malapi"
)

const (
	moduleName = "mal"
	apiVersion = "v2"
)

var moduleDescriptions = modules.LocalizedText{
	"en-US": "MyAnimeList - Rankings, seasonal charts, details and the authenticated user's list",
	"ja-JP": "MyAnimeList - ランキング、季節別一覧、詳細、認証済みユーザーのリスト",
}

// New creates the MyAnimeList module.
func New(client upstream.Doer) *modules.Set {
	return modules.NewSet(moduleName, apiVersion, moduleDescriptions, bindings(client)...)
}

// Parameters shared by several tools.
var (
	publicClientID = modules.TextParam("client_id", "MyAnimeList API client ID. Optional; sent as X-MAL-CLIENT-ID when given.", false)
	clientID       = modules.TextParam("client_id", "MyAnimeList API client ID", true)
	clientSecret   = modules.TextParam("client_secret", "Client secret, for confidential clients only", false)
	redirectURI    = modules.TextParam("redirect_uri", "Redirect URI registered for the client", true)
	accessToken    = modules.TextParam("access_token", "Access token from mal_exchange_token or mal_refresh_token", true)
)

// SearchQuery is the argument shared with combined search.
var SearchQuery = modules.TextParam("query", `Search term (e.g., "fullmetal alchemist")`, true)

// SearchRequest is the public MyAnimeList search, reused by combined search.
func SearchRequest(c upstream.Doer) modules.Request {
	return modules.Request{
		Provider: "MyAnimeList",
		Via:      c,
		Endpoint: malapi.Search,
		Fields: []modules.Field{
			modules.Header("client_id", malapi.ClientIDHeader),
			modules.QueryAs("query", "q"),
			modules.Query("limit"),
		},
	}
}

func bindings(c upstream.Doer) []modules.Binding {
	return []modules.Binding{
		{
			Name: "mal_search_anime",
			Descriptions: modules.LocalizedText{
				"en-US": "Search MyAnimeList by title. Returns MAL IDs, scores and member counts.",
				"ja-JP": "MyAnimeList をタイトルで検索します。MAL ID、スコア、メンバー数を返します。",
			},
			Annotations: modules.AnnotateReadOnly,
			Params: []modules.Param{
				publicClientID,
				SearchQuery,
				modules.RangeParam("limit", "Number of results, 1-100 (default: 10)", catalog.SearchLimit),
			},
			Requests: []modules.Request{SearchRequest(c)},
			Present:  ranked("🔍", searchTitle),
			Failure: func(a modules.Args) string {
				return fmt.Sprintf("Unable to search MyAnimeList for '%s'. Please try again later.", a.String("query"))
			},
		},
		{
			Name: "mal_get_anime_ranking",
			Descriptions: modules.LocalizedText{
				"en-US": "Get the MyAnimeList ranking: all, airing, upcoming, tv, ova, movie, special, bypopularity or favorite.",
				"ja-JP": "MyAnimeList のランキングを取得します（all, airing, upcoming, tv, ova, movie, special, bypopularity, favorite）。",
			},
			Annotations: modules.AnnotateReadOnly,
			Params: []modules.Param{
				publicClientID,
				withDefault(modules.EnumParam("ranking_type", "Ranking type (default: all)", catalog.RankingTypes, false), "all"),
				modules.RangeParam("limit", "Number of results, 1-100 (default: 10)", catalog.RankingLimit),
			},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: malapi.Ranking,
				Fields: []modules.Field{
					modules.Header("client_id", malapi.ClientIDHeader),
					modules.Query("ranking_type"),
					modules.Query("limit"),
				},
			}},
			Present: ranked("🏆", func(a modules.Args) string { return "MyAnimeList Ranking: " + rankingTitle(a.String("ranking_type")) }),
			Failure: func(modules.Args) string { return "Unable to fetch the MyAnimeList ranking. Please try again later." },
		},
		{
			Name: "mal_get_seasonal_anime",
			Descriptions: modules.LocalizedText{
				"en-US": "Get the anime of one broadcast season on MyAnimeList.",
				"ja-JP": "MyAnimeList から指定した放送シーズンのアニメを取得します。",
			},
			Annotations: modules.AnnotateReadOnly,
			Params: []modules.Param{
				publicClientID,
				{Arg: "year", Type: "integer", Description: "Season year (e.g., 2024)", Required: true, Rule: catalog.SeasonYear},
				modules.EnumParam("season", "Season: spring, summer, fall or winter", catalog.Seasons, true),
				modules.EnumParam("sort", "Sort order: anime_score or anime_num_list_users", catalog.SeasonalSorts, false),
				modules.RangeParam("limit", "Number of results, 1-100 (default: 10)", catalog.RankingLimit),
			},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: malapi.Seasonal,
				Fields: []modules.Field{
					modules.Header("client_id", malapi.ClientIDHeader),
					modules.Path("year", "year"),
					modules.Path("season", "season"),
					modules.Query("sort"),
					modules.Query("limit"),
				},
			}},
			Present: ranked("🍂", func(a modules.Args) string { return seasonTitle(a) + " Anime" }),
			Failure: func(a modules.Args) string {
				return fmt.Sprintf("Unable to fetch %s anime. Please try again later.", seasonTitle(a))
			},
		},
		{
			Name: "mal_get_anime_details",
			Descriptions: modules.LocalizedText{
				"en-US": "Get the MyAnimeList record of an anime by MAL ID.",
				"ja-JP": "MAL ID でアニメの MyAnimeList 情報を取得します。",
			},
			Annotations: modules.AnnotateReadOnly,
			Params: []modules.Param{
				publicClientID,
				{Arg: "anime_id", Type: "integer", Description: "MyAnimeList anime ID", Required: true, Rule: catalog.Positive("Anime ID")},
			},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: malapi.Anime,
				Fields: []modules.Field{
					modules.Header("client_id", malapi.ClientIDHeader),
					modules.Path("anime_id", "id"),
				},
			}},
			Present: modules.Present(detail, detailText),
			Failure: func(a modules.Args) string {
				return fmt.Sprintf("Unable to fetch MyAnimeList details for anime %s. Please check the ID and try again.", a.String("anime_id"))
			},
		},
		{
			Name: "mal_get_authorization_url",
			Descriptions: modules.LocalizedText{
				"en-US": "Start the MyAnimeList OAuth2 (PKCE) flow. Returns the URL to open plus the code_verifier and state needed by mal_exchange_token.",
				"ja-JP": "MyAnimeList の OAuth2 (PKCE) 認可を開始します。開く URL と、mal_exchange_token に必要な code_verifier と state を返します。",
			},
			Annotations: modules.AnnotateExchange,
			Params:      []modules.Param{clientID, redirectURI, clientSecret},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: malapi.AuthorizationURL,
				Fields:   []modules.Field{modules.Body("client_id"), modules.Body("redirect_uri"), modules.Body("client_secret")},
			}},
			Present: modules.Present(grant, grantText),
			Failure: func(modules.Args) string {
				return "Unable to create a MyAnimeList authorization URL. Please check client_id and redirect_uri and try again."
			},
		},
		{
			Name: "mal_exchange_token",
			Descriptions: modules.LocalizedText{
				"en-US": "Exchange the authorization code from the redirect for access and refresh tokens. Requires the code_verifier from mal_get_authorization_url.",
				"ja-JP": "リダイレクトで受け取った認可コードをアクセストークンとリフレッシュトークンに交換します。mal_get_authorization_url の code_verifier が必要です。",
			},
			Annotations: modules.AnnotateExchange,
			Params: []modules.Param{
				clientID,
				modules.TextParam("code", "Authorization code from the redirect URL", true),
				modules.TextParam("code_verifier", "code_verifier returned by mal_get_authorization_url", true),
				redirectURI,
				clientSecret,
			},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: malapi.ExchangeToken,
				Fields: []modules.Field{
					modules.Body("client_id"),
					modules.Body("code"),
					modules.Body("code_verifier"),
					modules.Body("redirect_uri"),
					modules.Body("client_secret"),
				},
			}},
			Present: modules.Present(tokens, tokensText),
			Failure: func(modules.Args) string {
				return "Unable to exchange the authorization code. Start again with mal_get_authorization_url and use its code_verifier."
			},
		},
		{
			Name: "mal_refresh_token",
			Descriptions: modules.LocalizedText{
				"en-US": "Get a new access token with a refresh token.",
				"ja-JP": "リフレッシュトークンで新しいアクセストークンを取得します。",
			},
			Annotations: modules.AnnotateExchange,
			Params: []modules.Param{
				clientID,
				modules.TextParam("refresh_token", "Refresh token from a previous exchange", true),
				clientSecret,
			},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: malapi.RefreshToken,
				Fields:   []modules.Field{modules.Body("client_id"), modules.Body("refresh_token"), modules.Body("client_secret")},
			}},
			Present: modules.Present(tokens, tokensText),
			Failure: func(modules.Args) string {
				return "Unable to refresh the MyAnimeList token. Please authorize again."
			},
		},
		{
			Name: "mal_get_user_profile",
			Descriptions: modules.LocalizedText{
				"en-US": "Get the authenticated user's MyAnimeList profile and statistics.",
				"ja-JP": "認証済みユーザーの MyAnimeList プロフィールと統計を取得します。",
			},
			Annotations: modules.AnnotateReadOnly,
			Params:      []modules.Param{clientID, accessToken},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: malapi.UserProfile,
				Fields:   []modules.Field{modules.Body("client_id"), modules.Body("access_token")},
			}},
			Present: modules.Present(profile, profileText),
			Failure: func(modules.Args) string {
				return "Unable to fetch the MyAnimeList profile. Please check the access token and try again."
			},
		},
		{
			Name: "mal_get_user_anime_list",
			Descriptions: modules.LocalizedText{
				"en-US": "Get the authenticated user's anime list, optionally by status.",
				"ja-JP": "認証済みユーザーのアニメリストを取得します。ステータスで絞り込めます。",
			},
			Annotations: modules.AnnotateReadOnly,
			Params: []modules.Param{
				clientID,
				accessToken,
				modules.EnumParam("status", "List status: watching, completed, on_hold, dropped or plan_to_watch", catalog.ListStatuses, false),
				modules.EnumParam("sort", "Sort order", catalog.ListSorts, false),
				modules.RangeParam("limit", "Number of entries, 1-100 (default: 20)", catalog.ListLimit),
			},
			Requests: []modules.Request{{
				Via:      c,
				Endpoint: malapi.UserAnimeList,
				Fields: []modules.Field{
					modules.Body("client_id"),
					modules.Body("access_token"),
					modules.Body("status"),
					modules.Body("sort"),
					modules.Body("limit"),
				},
			}},
			Present: modules.Present(userList, userListText),
			Failure: func(modules.Args) string {
				return "Unable to fetch the MyAnimeList anime list. Please check the access token and try again."
			},
		},
	}
}

func searchTitle(a modules.Args) string {
	return fmt.Sprintf("MyAnimeList Search Results for '%s'", a.String("query"))
}

func withDefault(p modules.Param, v any) modules.Param {
	p.Default = v
	return p
}
