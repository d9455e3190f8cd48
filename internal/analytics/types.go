/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package analytics derives playlist insights from a fully-resolved
// snapshot of a collaborative playlist: summary statistics, contributor
// rankings with badges, per-genre maestro attribution, and a members
// rollup. All functions are pure; fetching and caching live elsewhere.
package analytics

import "time"

// UnknownUser is the sentinel contributor id used when the upstream
// omits added_by for an entry.
const UnknownUser = "unknown"

// TrackArtist is the (id, name) pair a track carries for each artist.
type TrackArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Track is one playlist track as the upstream reports it. Popularity is
// a pointer because the upstream may omit it entirely; ReleaseDate is
// the raw ISO string and may be year-only ("1973") or empty.
type Track struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Artists     []TrackArtist `json:"artists"`
	Popularity  *int          `json:"popularity,omitempty"`
	ReleaseDate string        `json:"releaseDate,omitempty"`
	ExternalURL string        `json:"externalUrl,omitempty"`
}

// Entry wraps a track with who added it and when. AddedBy is
// UnknownUser when the upstream has no contributor id. A zero AddedAt
// means the timestamp was missing or unparseable.
type Entry struct {
	Track   *Track    `json:"track"`
	AddedAt time.Time `json:"addedAt"`
	AddedBy string    `json:"addedBy"`
}

// Valid reports whether the entry survives the validity filter: the
// track is present and has an id.
func (e Entry) Valid() bool {
	return e.Track != nil && e.Track.ID != ""
}

// Artist carries the genre tags and popularity looked up per artist id.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
}

// AudioFeatures holds the bounded mood signals for one track. A track
// with no record at all is represented by absence from the snapshot's
// Features map, never by a zero value.
type AudioFeatures struct {
	Energy           float64 `json:"energy"`
	Danceability     float64 `json:"danceability"`
	Valence          float64 `json:"valence"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Speechiness      float64 `json:"speechiness"`
	Tempo            float64 `json:"tempo"`
}

// Profile is a best-effort user profile lookup result.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// PlaylistInfo is the playlist-level metadata the upstream supplies.
type PlaylistInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image,omitempty"`
	OwnerID     string `json:"ownerId"`
	OwnerName   string `json:"owner"`
	TotalTracks int    `json:"totalTracks"`
	Followers   int    `json:"followers"`
	Public      bool   `json:"public"`
}

// Snapshot is the fully-resolved input to one analytics run. Features
// is keyed by track id; tracks the upstream had no record for are
// simply absent.
type Snapshot struct {
	Playlist PlaylistInfo              `json:"playlist"`
	Entries  []Entry                   `json:"entries"`
	Artists  []Artist                  `json:"artists"`
	Features map[string]*AudioFeatures `json:"features"`
	Profiles []Profile                 `json:"profiles"`
}

// -- Derived output --

// ArtistCount is one row of the top-artists ranking.
type ArtistCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	ID    string `json:"id"`
}

// GenreCount is one row of the top-genres ranking. The count is the
// number of distinct artists carrying the tag, not the number of
// tracks; see TopGenres.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// TrackHighlight is the most- or least-popular track callout.
type TrackHighlight struct {
	Name        string `json:"name"`
	Artists     string `json:"artists"`
	Popularity  int    `json:"popularity"`
	ID          string `json:"id"`
	ExternalURL string `json:"externalUrl,omitempty"`
}

// MoodAverages are the playlist-wide audio feature means.
type MoodAverages struct {
	Valence          float64 `json:"valence"`
	Energy           float64 `json:"energy"`
	Danceability     float64 `json:"danceability"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Speechiness      float64 `json:"speechiness"`
	Tempo            float64 `json:"tempo"`
}

// DateRange spans the parseable added-at timestamps.
type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// ContributorCount is the legacy top-contributors row kept for the
// basic display.
type ContributorCount struct {
	UserID      string `json:"userId"`
	Count       int    `json:"count"`
	DisplayName string `json:"displayName"`
}

// TrackDetail is the per-track record kept on each contributor.
type TrackDetail struct {
	Name        string    `json:"name"`
	Artists     string    `json:"artists"`
	Popularity  int       `json:"popularity"`
	AddedAt     time.Time `json:"addedAt"`
	ReleaseDate string    `json:"releaseDate,omitempty"`
	TrackID     string    `json:"trackId"`
}

// Badge is one achievement attached to a contributor for this run.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FeatureAverages are a contributor's per-feature means. A feature with
// no samples averages to exactly 0, not null.
type FeatureAverages struct {
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Valence      float64 `json:"valence"`
	Acousticness float64 `json:"acousticness"`
	Speechiness  float64 `json:"speechiness"`
	Tempo        float64 `json:"tempo"`
}

// Contributor is the derived record for one distinct added-by id,
// rebuilt from scratch on every run.
type Contributor struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	TracksAdded      int             `json:"tracksAdded"`
	TotalPopularity  int             `json:"totalPopularity"`
	AvgPopularity    float64         `json:"avgPopularity"`
	GenreDiversity   int             `json:"genreDiversity"`
	ArtistDiversity  int             `json:"artistDiversity"`
	Genres           []string        `json:"genres"`
	Artists          []string        `json:"artists"`
	Tracks           []TrackDetail   `json:"tracks"`
	AvgAudioFeatures FeatureAverages `json:"avgAudioFeatures"`
	AvgReleaseYear   int             `json:"avgReleaseYear"`
	Badges           []Badge         `json:"badges"`
}

// ContributorSummary aggregates across all contributors.
type ContributorSummary struct {
	MostActive      string `json:"mostActive"`
	AvgContribution int    `json:"avgContribution"`
	TotalGenres     int    `json:"totalGenres"`
	TotalArtists    int    `json:"totalArtists"`
}

// ContributorReport is the ranked, badged contributor output.
type ContributorReport struct {
	TotalContributors int                `json:"totalContributors"`
	Contributors      []*Contributor     `json:"contributors"`
	Summary           ContributorSummary `json:"summary"`
}

// GenreMaestro names the dominant contributor for one genre.
type GenreMaestro struct {
	Genre            string        `json:"genre"`
	ContributorID    string        `json:"contributorId"`
	ContributorName  string        `json:"contributorName"`
	SongCount        int           `json:"songCount"`
	TotalGenreTracks int           `json:"totalGenreTracks"`
	Percentage       int           `json:"percentage"`
	Title            string        `json:"title"`
	Tracks           []TrackDetail `json:"tracks"`
}

// Member is one enumerated playlist contributor in the members rollup.
type Member struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TracksAdded int    `json:"tracksAdded"`
	IsOwner     bool   `json:"isOwner"`
	Role        string `json:"role"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Listeners is the estimated non-contributing follower count. The
// upstream has no API to enumerate followers, so listeners only ever
// exist as a count plus a note.
type Listeners struct {
	Count int    `json:"count"`
	Note  string `json:"note"`
}

// MembersSummary holds the rollup counts. TotalMembers is the playlist
// follower count, which is authoritative.
type MembersSummary struct {
	TotalMembers     int `json:"totalMembers"`
	ContributorCount int `json:"contributorCount"`
	ListenerCount    int `json:"listenerCount"`
}

// MembersRollup merges contributors and estimated listeners.
type MembersRollup struct {
	Contributors []Member       `json:"contributors"`
	Listeners    Listeners      `json:"listeners"`
	Summary      MembersSummary `json:"summary"`
}

// Insights is the combined output of one full analytics run.
type Insights struct {
	Playlist            PlaylistInfo       `json:"playlist"`
	TopArtists          []ArtistCount      `json:"topArtists"`
	TotalUniqueArtists  int                `json:"totalUniqueArtists"`
	TopGenres           []GenreCount       `json:"topGenres"`
	MostPopular         *TrackHighlight    `json:"mostPopular,omitempty"`
	LeastPopular        *TrackHighlight    `json:"leastPopular,omitempty"`
	AudioFeatures       MoodAverages       `json:"audioFeatures"`
	DateRange           *DateRange         `json:"dateRange,omitempty"`
	TotalAnalyzedTracks int                `json:"totalAnalyzedTracks"`
	TopContributors     []ContributorCount `json:"topContributors"`
	Contributors        *ContributorReport `json:"contributors"`
	GenreMaestros       []GenreMaestro     `json:"genreMaestros"`
	PlaylistMembers     *MembersRollup     `json:"playlistMembers"`
}
