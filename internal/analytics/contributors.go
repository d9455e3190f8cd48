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
	"strconv"
	"time"
)

// contributorAccum gathers raw per-contributor observations before any
// averaging happens.
type contributorAccum struct {
	id              string
	tracksAdded     int
	totalPopularity int
	genres          *orderedSet
	artists         *orderedSet
	tracks          []TrackDetail
	energy          []float64
	danceability    []float64
	valence         []float64
	acousticness    []float64
	speechiness     []float64
	tempo           []float64
	releaseYears    []int
}

// BuildContributorReport groups valid entries by contributor, computes
// per-contributor metrics, ranks by tracks added, and runs the badge
// pass. `now` only feeds the average-release-year fallback so that a
// run is reproducible for a fixed clock.
func BuildContributorReport(entries []Entry, artists []Artist, features map[string]*AudioFeatures, names map[string]string, now time.Time) *ContributorReport {
	genresByArtist := make(map[string][]string, len(artists))
	for _, a := range artists {
		genresByArtist[a.ID] = a.Genres
	}

	var order []string
	accums := make(map[string]*contributorAccum)

	for _, e := range entries {
		id := contributorOf(e)
		acc := accums[id]
		if acc == nil {
			acc = &contributorAccum{
				id:      id,
				genres:  newOrderedSet(),
				artists: newOrderedSet(),
			}
			accums[id] = acc
			order = append(order, id)
		}

		t := e.Track
		acc.tracksAdded++
		acc.totalPopularity += popularityOrZero(t)
		acc.tracks = append(acc.tracks, TrackDetail{
			Name:        t.Name,
			Artists:     joinArtistNames(t.Artists),
			Popularity:  popularityOrZero(t),
			AddedAt:     e.AddedAt,
			ReleaseDate: t.ReleaseDate,
			TrackID:     t.ID,
		})

		for _, a := range t.Artists {
			acc.artists.Add(a.Name)
			for _, g := range genresByArtist[a.ID] {
				acc.genres.Add(g)
			}
		}

		if f := features[t.ID]; f != nil {
			acc.energy = append(acc.energy, f.Energy)
			acc.danceability = append(acc.danceability, f.Danceability)
			acc.valence = append(acc.valence, f.Valence)
			acc.acousticness = append(acc.acousticness, f.Acousticness)
			acc.speechiness = append(acc.speechiness, f.Speechiness)
			acc.tempo = append(acc.tempo, f.Tempo)
		}

		if year, ok := releaseYearOf(t.ReleaseDate); ok {
			acc.releaseYears = append(acc.releaseYears, year)
		}
	}

	contributors := make([]*Contributor, 0, len(order))
	for _, id := range order {
		contributors = append(contributors, finishContributor(accums[id], names[id], now))
	}

	// Ranking is by tracks added; the stable sort keeps
	// first-track-encountered order for ties.
	sort.SliceStable(contributors, func(i, j int) bool {
		return contributors[i].TracksAdded > contributors[j].TracksAdded
	})

	assignBadges(contributors)

	report := &ContributorReport{
		TotalContributors: len(contributors),
		Contributors:      contributors,
		Summary:           summarize(contributors, len(entries)),
	}
	if len(report.Contributors) > 10 {
		report.Contributors = report.Contributors[:10]
	}
	return report
}

func finishContributor(acc *contributorAccum, name string, now time.Time) *Contributor {
	c := &Contributor{
		ID:              acc.id,
		Name:            name,
		TracksAdded:     acc.tracksAdded,
		TotalPopularity: acc.totalPopularity,
		Genres:          acc.genres.Values(),
		Artists:         acc.artists.Values(),
		Tracks:          acc.tracks,
		GenreDiversity:  acc.genres.Len(),
		ArtistDiversity: acc.artists.Len(),
		Badges:          []Badge{},
	}

	if acc.tracksAdded > 0 {
		c.AvgPopularity = roundTo1(float64(acc.totalPopularity) / float64(acc.tracksAdded))
	}

	c.AvgAudioFeatures = FeatureAverages{
		Energy:       mean(acc.energy),
		Danceability: mean(acc.danceability),
		Valence:      mean(acc.valence),
		Acousticness: mean(acc.acousticness),
		Speechiness:  mean(acc.speechiness),
		Tempo:        mean(acc.tempo),
	}

	if len(acc.releaseYears) > 0 {
		var sum int
		for _, y := range acc.releaseYears {
			sum += y
		}
		c.AvgReleaseYear = int(math.Round(float64(sum) / float64(len(acc.releaseYears))))
	} else {
		c.AvgReleaseYear = now.Year()
	}

	return c
}

func summarize(contributors []*Contributor, totalTracks int) ContributorSummary {
	s := ContributorSummary{MostActive: "Unknown"}
	if len(contributors) == 0 {
		return s
	}
	s.MostActive = contributors[0].Name
	s.AvgContribution = int(math.Round(float64(totalTracks) / float64(len(contributors))))

	genres := newOrderedSet()
	artists := newOrderedSet()
	for _, c := range contributors {
		for _, g := range c.Genres {
			genres.Add(g)
		}
		for _, a := range c.Artists {
			artists.Add(a)
		}
	}
	s.TotalGenres = genres.Len()
	s.TotalArtists = artists.Len()
	return s
}

func popularityOrZero(t *Track) int {
	if t.Popularity == nil {
		return 0
	}
	return *t.Popularity
}

// releaseYearOf extracts the year from an ISO release date, which may
// be year-only.
func releaseYearOf(releaseDate string) (int, bool) {
	if len(releaseDate) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
