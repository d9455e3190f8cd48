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
package analytics

import "strings"

// TopArtists counts track occurrences per artist id (a co-artist on N
// tracks counts N times) and returns the top `limit` with the name from
// the artist's first occurrence. Ties keep first-encountered order.
func TopArtists(entries []Entry, limit int) []ArtistCount {
	counts := newCounter()
	names := make(map[string]string)
	for _, e := range entries {
		for _, a := range e.Track.Artists {
			counts.Add(a.ID)
			if _, ok := names[a.ID]; !ok {
				names[a.ID] = a.Name
			}
		}
	}

	top := make([]ArtistCount, 0, limit)
	for _, kc := range counts.Sorted() {
		if len(top) == limit {
			break
		}
		name := names[kc.Key]
		if name == "" {
			name = "Unknown"
		}
		top = append(top, ArtistCount{Name: name, Count: kc.Count, ID: kc.Key})
	}
	return top
}

// UniqueArtistCount reports how many distinct artist ids appear across
// the entries.
func UniqueArtistCount(entries []Entry) int {
	ids := newOrderedSet()
	for _, e := range entries {
		for _, a := range e.Track.Artists {
			ids.Add(a.ID)
		}
	}
	return ids.Len()
}

// TopGenres counts one increment per artist carrying a tag, not per
// track instance of that artist. Artists appearing on many tracks still
// contribute a single increment per tag; the source system aggregates
// at this granularity.
func TopGenres(artists []Artist, limit int) []GenreCount {
	counts := newCounter()
	for _, a := range artists {
		for _, g := range a.Genres {
			counts.Add(g)
		}
	}

	top := make([]GenreCount, 0, limit)
	for _, kc := range counts.Sorted() {
		if len(top) == limit {
			break
		}
		top = append(top, GenreCount{Genre: kc.Key, Count: kc.Count})
	}
	return top
}

// PopularityExtremes returns the single most and least popular tracks
// among entries that have a defined popularity. For each extreme the
// first entry encountered wins ties. Both results are nil when no entry
// carries a popularity value.
func PopularityExtremes(entries []Entry) (most, least *TrackHighlight) {
	for _, e := range entries {
		t := e.Track
		if t.Popularity == nil {
			continue
		}
		h := &TrackHighlight{
			Name:        t.Name,
			Artists:     joinArtistNames(t.Artists),
			Popularity:  *t.Popularity,
			ID:          t.ID,
			ExternalURL: t.ExternalURL,
		}
		if most == nil || h.Popularity > most.Popularity {
			most = h
		}
		if least == nil || h.Popularity < least.Popularity {
			least = h
		}
	}
	return most, least
}

func joinArtistNames(artists []TrackArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// neutralMood is the fixed fallback emitted when no audio features are
// present at all.
func neutralMood() MoodAverages {
	return MoodAverages{
		Valence:          0.5,
		Energy:           0.5,
		Danceability:     0.5,
		Acousticness:     0.5,
		Instrumentalness: 0.5,
		Speechiness:      0.5,
		Tempo:            120,
	}
}

// MoodProfile averages each audio feature across the entries that have
// a feature record; absent records are excluded from the divisor rather
// than counted as zero. With zero records present it returns the
// neutral defaults — biased toward higher energy, danceability, and
// valence when the top genres carry afro/amapiano tokens. That bias is
// a known heuristic for the playlists this tool grew up on, not a
// general rule. The second result is the number of records averaged.
func MoodProfile(entries []Entry, features map[string]*AudioFeatures, topGenres []GenreCount) (MoodAverages, int) {
	var present []*AudioFeatures
	for _, e := range entries {
		if f := features[e.Track.ID]; f != nil {
			present = append(present, f)
		}
	}

	if len(present) == 0 {
		mood := neutralMood()
		for _, g := range topGenres {
			if strings.Contains(g.Genre, "afro") || strings.Contains(g.Genre, "amapiano") {
				mood.Valence = 0.7
				mood.Energy = 0.8
				mood.Danceability = 0.85
				mood.Acousticness = 0.2
				mood.Speechiness = 0.15
				mood.Tempo = 115
				break
			}
		}
		return mood, 0
	}

	var mood MoodAverages
	for _, f := range present {
		mood.Valence += f.Valence
		mood.Energy += f.Energy
		mood.Danceability += f.Danceability
		mood.Acousticness += f.Acousticness
		mood.Instrumentalness += f.Instrumentalness
		mood.Speechiness += f.Speechiness
		mood.Tempo += f.Tempo
	}
	n := float64(len(present))
	mood.Valence /= n
	mood.Energy /= n
	mood.Danceability /= n
	mood.Acousticness /= n
	mood.Instrumentalness /= n
	mood.Speechiness /= n
	mood.Tempo /= n
	return mood, len(present)
}

// AddedDateRange spans the parseable added-at timestamps; nil when none
// are parseable.
func AddedDateRange(entries []Entry) *DateRange {
	var r *DateRange
	for _, e := range entries {
		if e.AddedAt.IsZero() {
			continue
		}
		if r == nil {
			r = &DateRange{Earliest: e.AddedAt, Latest: e.AddedAt}
			continue
		}
		if e.AddedAt.Before(r.Earliest) {
			r.Earliest = e.AddedAt
		}
		if e.AddedAt.After(r.Latest) {
			r.Latest = e.AddedAt
		}
	}
	return r
}
