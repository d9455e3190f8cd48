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
	"sort"
)

// BuildMembers enumerates everyone who added a track, marks the owner,
// and estimates the silent listener count from the follower total. The
// owner is listed first even when out-added; everyone else sorts by
// tracks added descending with first-encountered order breaking ties.
func BuildMembers(entries []Entry, names map[string]string, playlist PlaylistInfo) *MembersRollup {
	byContributor := newCounter()
	for _, e := range entries {
		if !e.Valid() {
			continue
		}
		// Anonymous additions have no identity to list as a member.
		if id := contributorOf(e); id != UnknownUser {
			byContributor.Add(id)
		}
	}

	var members []Member
	for _, id := range byContributor.Keys() {
		isOwner := id == playlist.OwnerID
		m := Member{
			ID:          id,
			Name:        names[id],
			TracksAdded: byContributor.Get(id),
			IsOwner:     isOwner,
			Role:        "Contributor",
			Icon:        "🎵",
		}
		if isOwner {
			m.Role = "Owner & Contributor"
			m.Icon = "👑"
		}
		m.Description = fmt.Sprintf("Added %d %s", m.TracksAdded, pluralTracks(m.TracksAdded))
		members = append(members, m)
	}

	sort.SliceStable(members, func(i, j int) bool {
		if members[i].IsOwner != members[j].IsOwner {
			return members[i].IsOwner
		}
		return members[i].TracksAdded > members[j].TracksAdded
	})

	listeners := playlist.Followers - len(members)
	if listeners < 0 {
		listeners = 0
	}

	return &MembersRollup{
		Contributors: members,
		Listeners: Listeners{
			Count: listeners,
			Note:  "Followers who haven't added tracks",
		},
		Summary: MembersSummary{
			TotalMembers:     playlist.Followers,
			ContributorCount: len(members),
			ListenerCount:    listeners,
		},
	}
}

func pluralTracks(n int) string {
	if n == 1 {
		return "track"
	}
	return "tracks"
}
