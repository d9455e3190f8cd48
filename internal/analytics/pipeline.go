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

import "time"

const (
	topArtistsLimit      = 10
	topGenresLimit       = 8
	topContributorsLimit = 5
)

// Analyze runs the full derivation over one snapshot. It is pure: the
// same snapshot and the same now produce the same Insights, and the
// snapshot is never mutated. now only feeds the average-release-year
// fallback for contributors whose tracks carry no release dates.
func Analyze(snap *Snapshot, now time.Time) (*Insights, error) {
	if snap == nil {
		return nil, ErrInvalidInput
	}

	entries := ValidEntries(snap.Entries)
	names := DisplayNames(entries, snap.Playlist, snap.Profiles)

	topGenres := TopGenres(snap.Artists, topGenresLimit)
	most, least := PopularityExtremes(entries)
	mood, analyzed := MoodProfile(entries, snap.Features, topGenres)

	return &Insights{
		Playlist:            snap.Playlist,
		TopArtists:          TopArtists(entries, topArtistsLimit),
		TotalUniqueArtists:  UniqueArtistCount(entries),
		TopGenres:           topGenres,
		MostPopular:         most,
		LeastPopular:        least,
		AudioFeatures:       mood,
		DateRange:           AddedDateRange(entries),
		TotalAnalyzedTracks: analyzed,
		TopContributors:     topContributors(entries, names, topContributorsLimit),
		Contributors:        BuildContributorReport(entries, snap.Artists, snap.Features, names, now),
		GenreMaestros:       GenreMaestros(entries, snap.Artists, names),
		PlaylistMembers:     BuildMembers(entries, names, snap.Playlist),
	}, nil
}

// topContributors is the compact ranking kept for the basic summary
// view, distinct from the full contributor report.
func topContributors(entries []Entry, names map[string]string, limit int) []ContributorCount {
	counts := newCounter()
	for _, e := range entries {
		counts.Add(contributorOf(e))
	}

	var out []ContributorCount
	for _, kc := range counts.Sorted() {
		out = append(out, ContributorCount{
			UserID:      kc.Key,
			Count:       kc.Count,
			DisplayName: names[kc.Key],
		})
		if len(out) == limit {
			break
		}
	}
	return out
}
