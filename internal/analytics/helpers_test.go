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
	"fmt"
	"time"
)

// Shared fixture builders for the analytics tests.

func intp(v int) *int {
	return &v
}

func testTrack(id string, pop int, artists ...TrackArtist) *Track {
	return &Track{
		ID:         id,
		Name:       "Track " + id,
		Artists:    artists,
		Popularity: intp(pop),
	}
}

func testEntry(addedBy string, track *Track) Entry {
	return Entry{
		Track:   track,
		AddedBy: addedBy,
		AddedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// entriesFor builds n entries by one contributor, each with a distinct
// track and artist so diversity metrics scale with n.
func entriesFor(addedBy string, n int, pop int) []Entry {
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s-t%d", addedBy, i)
		artist := TrackArtist{ID: fmt.Sprintf("%s-a%d", addedBy, i), Name: fmt.Sprintf("Artist %s %d", addedBy, i)}
		entries = append(entries, testEntry(addedBy, testTrack(id, pop, artist)))
	}
	return entries
}

func testNames(entries []Entry) map[string]string {
	names := make(map[string]string)
	for _, e := range entries {
		id := contributorOf(e)
		names[id] = "Name " + id
	}
	return names
}

func featuresFor(entries []Entry, f AudioFeatures) map[string]*AudioFeatures {
	out := make(map[string]*AudioFeatures, len(entries))
	for _, e := range entries {
		cp := f
		out[e.Track.ID] = &cp
	}
	return out
}

var testNow = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
