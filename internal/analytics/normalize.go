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

import "errors"

// ErrInvalidInput is returned when a core function receives
// structurally malformed input (a nil snapshot). Data-completeness gaps
// never produce it; they degrade locally instead.
var ErrInvalidInput = errors.New("analytics: invalid input")

// ValidEntries drops entries whose track is missing or has no id.
// Everything downstream operates only on the result.
func ValidEntries(entries []Entry) []Entry {
	valid := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Valid() {
			valid = append(valid, e)
		}
	}
	return valid
}

// ArtistIDs returns the distinct artist ids referenced anywhere in the
// entries' tracks, in first-encountered order.
func ArtistIDs(entries []Entry) []string {
	ids := newOrderedSet()
	for _, e := range entries {
		if !e.Valid() {
			continue
		}
		for _, a := range e.Track.Artists {
			if a.ID != "" {
				ids.Add(a.ID)
			}
		}
	}
	return ids.Values()
}

// ContributorIDs returns the distinct non-sentinel contributor ids in
// first-encountered order.
func ContributorIDs(entries []Entry) []string {
	ids := newOrderedSet()
	for _, e := range entries {
		if !e.Valid() {
			continue
		}
		if id := contributorOf(e); id != UnknownUser {
			ids.Add(id)
		}
	}
	return ids.Values()
}

func contributorOf(e Entry) string {
	if e.AddedBy == "" {
		return UnknownUser
	}
	return e.AddedBy
}

// DisplayNames resolves every contributor id appearing in the entries
// to a display name. Precedence: playlist owner's name (or id), the
// "Unknown User" sentinel, the fetched profile's display name, then a
// masked fallback built from the id's last 4 characters.
func DisplayNames(entries []Entry, playlist PlaylistInfo, profiles []Profile) map[string]string {
	byID := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	names := make(map[string]string)
	for _, e := range entries {
		if !e.Valid() {
			continue
		}
		id := contributorOf(e)
		if _, done := names[id]; done {
			continue
		}
		names[id] = resolveName(id, playlist, byID)
	}
	return names
}

func resolveName(id string, playlist PlaylistInfo, profiles map[string]Profile) string {
	switch {
	case id == playlist.OwnerID && playlist.OwnerID != "":
		if playlist.OwnerName != "" {
			return playlist.OwnerName
		}
		return playlist.OwnerID
	case id == UnknownUser:
		return "Unknown User"
	}
	if p, ok := profiles[id]; ok && p.DisplayName != "" {
		return p.DisplayName
	}
	return "User " + lastChars(id, 4)
}

func lastChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
