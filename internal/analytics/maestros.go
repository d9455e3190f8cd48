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

import (
	"math"
	"sort"
	"strings"
)

const (
	// maestroMinTracks is the floor a contributor must reach in a genre
	// before the genre produces a maestro at all.
	maestroMinTracks = 2
	maxMaestros      = 12
	maxMaestroTracks = 3
)

// maestroTitles maps well-known genres to their crown. Anything else
// falls through to "<Genre> Master".
var maestroTitles = map[string]string{
	"afrobeats":  "Afrobeats Maestro",
	"amapiano":   "Amapiano Oracle",
	"hip hop":    "Hip Hop Head",
	"pop":        "Pop Pioneer",
	"rock":       "Rock Legend",
	"jazz":       "Jazz Connoisseur",
	"electronic": "Electronic Explorer",
	"classical":  "Classical Curator",
	"country":    "Country Champion",
	"reggae":     "Reggae Ruler",
}

type genreAgg struct {
	total           int
	byContributor   *counter
	tracksByContrib map[string][]TrackDetail
}

// GenreMaestros crowns the leading contributor per genre. A track counts
// once toward a genre no matter how many of its artists carry the tag,
// genres appear in the order the playlist first introduces them, and
// ties go to the contributor encountered first. The result is sorted by
// song count descending and capped at 12 genres.
func GenreMaestros(entries []Entry, artists []Artist, names map[string]string) []GenreMaestro {
	genresOf := make(map[string][]string, len(artists))
	for _, a := range artists {
		genresOf[a.ID] = a.Genres
	}

	genreOrder := newOrderedSet()
	perGenre := make(map[string]*genreAgg)

	for _, e := range entries {
		if !e.Valid() {
			continue
		}
		who := contributorOf(e)
		detail := TrackDetail{
			Name:        e.Track.Name,
			Artists:     joinArtistNames(e.Track.Artists),
			Popularity:  popularityOrZero(e.Track),
			AddedAt:     e.AddedAt,
			ReleaseDate: e.Track.ReleaseDate,
			TrackID:     e.Track.ID,
		}

		trackGenres := newOrderedSet()
		for _, ta := range e.Track.Artists {
			for _, g := range genresOf[ta.ID] {
				trackGenres.Add(g)
			}
		}
		for _, g := range trackGenres.Values() {
			genreOrder.Add(g)
			agg := perGenre[g]
			if agg == nil {
				agg = &genreAgg{
					byContributor:   newCounter(),
					tracksByContrib: make(map[string][]TrackDetail),
				}
				perGenre[g] = agg
			}
			agg.total++
			agg.byContributor.Add(who)
			agg.tracksByContrib[who] = append(agg.tracksByContrib[who], detail)
		}
	}

	var maestros []GenreMaestro
	for _, g := range genreOrder.Values() {
		agg := perGenre[g]
		ranked := agg.byContributor.Sorted()
		leader := ranked[0]
		if leader.Count < maestroMinTracks {
			continue
		}

		tracks := append([]TrackDetail(nil), agg.tracksByContrib[leader.Key]...)
		sort.SliceStable(tracks, func(i, j int) bool {
			return tracks[i].Popularity > tracks[j].Popularity
		})
		if len(tracks) > maxMaestroTracks {
			tracks = tracks[:maxMaestroTracks]
		}

		maestros = append(maestros, GenreMaestro{
			Genre:            g,
			ContributorID:    leader.Key,
			ContributorName:  names[leader.Key],
			SongCount:        leader.Count,
			TotalGenreTracks: agg.total,
			Percentage:       int(math.Round(float64(leader.Count) / float64(agg.total) * 100)),
			Title:            maestroTitle(g),
			Tracks:           tracks,
		})
	}

	sort.SliceStable(maestros, func(i, j int) bool {
		return maestros[i].SongCount > maestros[j].SongCount
	})
	if len(maestros) > maxMaestros {
		maestros = maestros[:maxMaestros]
	}
	return maestros
}

func maestroTitle(genre string) string {
	if title, ok := maestroTitles[strings.ToLower(genre)]; ok {
		return title
	}
	return titleCase(genre) + " Master"
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
