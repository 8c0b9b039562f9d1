package normalize

import (
	"github.com/tidwall/gjson"
)

// UserStats summarizes a user's anime list.
type UserStats struct {
	Watching    *int64 `json:"watching,omitempty"`
	Completed   *int64 `json:"completed,omitempty"`
	OnHold      *int64 `json:"on_hold,omitempty"`
	Dropped     *int64 `json:"dropped,omitempty"`
	PlanToWatch *int64 `json:"plan_to_watch,omitempty"`
	Episodes    *int64 `json:"episodes,omitempty"`
	Days        string `json:"days"`
	MeanScore   string `json:"mean_score"`
}

// UserProfile is the authenticated user's profile.
type UserProfile struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JoinedAt string    `json:"joined_at"`
	Location string    `json:"location"`
	Picture  string    `json:"picture,omitempty"`
	Stats    UserStats `json:"stats"`
}

// UserListEntry is one title on a user's list.
type UserListEntry struct {
	Anime           AnimeSummary `json:"anime"`
	ListStatus      string       `json:"list_status"`
	ListScore       string       `json:"list_score"`
	WatchedEpisodes *int64       `json:"watched_episodes,omitempty"`
	UpdatedAt       string       `json:"updated_at"`
}

// UserList is a page of a user's list.
type UserList struct {
	Status  string          `json:"status,omitempty"`
	Entries []UserListEntry `json:"entries"`
}

var (
	fUserID       = F("id", "user_id")
	fUserName     = F("name", "username")
	fUserJoined   = F("joined_at", "joined")
	fUserLocation = F("location")
	fUserPicture  = F("picture", "avatar")

	fListStatus  = F("list_status.status", "my_list_status.status", "status")
	fListScore   = F("list_status.score", "my_list_status.score", "list_score")
	fListWatched = F("list_status.num_episodes_watched", "my_list_status.num_episodes_watched", "num_watched_episodes")
	fListUpdated = F("list_status.updated_at", "my_list_status.updated_at", "updated_at")
)

// Profile normalizes a user profile payload.
func Profile(payload []byte) UserProfile {
	root := Root(gjson.ParseBytes(payload), "user", "profile")
	stats := Root(root, "anime_statistics", "statistics", "stats")
	return UserProfile{
		ID:       fUserID.String(root),
		Name:     fUserName.String(root),
		JoinedAt: fUserJoined.String(root),
		Location: fUserLocation.String(root),
		Picture:  fUserPicture.Or(root, ""),
		Stats: UserStats{
			Watching:    F("num_items_watching", "watching").IntPtr(stats),
			Completed:   F("num_items_completed", "completed").IntPtr(stats),
			OnHold:      F("num_items_on_hold", "on_hold").IntPtr(stats),
			Dropped:     F("num_items_dropped", "dropped").IntPtr(stats),
			PlanToWatch: F("num_items_plan_to_watch", "plan_to_watch").IntPtr(stats),
			Episodes:    F("num_episodes", "episodes_watched").IntPtr(stats),
			Days:        F("num_days_watched", "num_days", "days_watched").String(stats),
			MeanScore:   F("mean_score").String(stats),
		},
	}
}

// ListEntries normalizes a user list payload.
func ListEntries(payload []byte) []UserListEntry {
	items := Items(gjson.ParseBytes(payload), "animelist", "anime_list", "entries", "data")
	out := make([]UserListEntry, 0, len(items))
	for _, it := range items {
		out = append(out, UserListEntry{
			Anime:           Summary(it),
			ListStatus:      fListStatus.String(it),
			ListScore:       fListScore.String(it),
			WatchedEpisodes: fListWatched.IntPtr(it),
			UpdatedAt:       fListUpdated.String(it),
		})
	}
	return out
}
