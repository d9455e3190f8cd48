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
package spotify

import (
	"time"

	"github.com/zmb3/spotify/v2"

	"github.com/mwangiq/playlist-wrapped/internal/analytics"
)

func convertPlaylist(p *spotify.FullPlaylist) analytics.PlaylistInfo {
	info := analytics.PlaylistInfo{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.Owner.ID,
		OwnerName:   p.Owner.DisplayName,
		TotalTracks: int(p.Tracks.Total),
		Followers:   int(p.Followers.Count),
		Public:      p.IsPublic,
	}
	if len(p.Images) > 0 {
		info.ImageURL = p.Images[0].URL
	}
	return info
}

func convertEntry(pt spotify.PlaylistTrack) analytics.Entry {
	t := pt.Track
	track := &analytics.Track{
		ID:          string(t.ID),
		Name:        t.Name,
		Popularity:  intp(int(t.Popularity)),
		ReleaseDate: t.Album.ReleaseDate,
		ExternalURL: t.ExternalURLs["spotify"],
	}
	for _, a := range t.Artists {
		track.Artists = append(track.Artists, analytics.TrackArtist{
			ID:   string(a.ID),
			Name: a.Name,
		})
	}

	// A failed parse leaves the zero time; the date range simply skips
	// the entry.
	addedAt, _ := time.Parse(spotify.TimestampLayout, pt.AddedAt)

	return analytics.Entry{
		Track:   track,
		AddedAt: addedAt,
		AddedBy: pt.AddedBy.ID,
	}
}

func convertArtist(a *spotify.FullArtist) analytics.Artist {
	return analytics.Artist{
		ID:         string(a.ID),
		Name:       a.Name,
		Genres:     a.Genres,
		Popularity: int(a.Popularity),
	}
}

func convertFeatures(f *spotify.AudioFeatures) *analytics.AudioFeatures {
	return &analytics.AudioFeatures{
		Energy:           float64(f.Energy),
		Danceability:     float64(f.Danceability),
		Valence:          float64(f.Valence),
		Acousticness:     float64(f.Acousticness),
		Instrumentalness: float64(f.Instrumentalness),
		Speechiness:      float64(f.Speechiness),
		Tempo:            float64(f.Tempo),
	}
}

func intp(v int) *int {
	return &v
}

// chunkIDs splits ids into slices of at most size, for the endpoints
// with per-request caps.
func chunkIDs(ids []spotify.ID, size int) [][]spotify.ID {
	var chunks [][]spotify.ID
	for len(ids) > 0 {
		n := size
		if n > len(ids) {
			n = len(ids)
		}
		chunks = append(chunks, ids[:n])
		ids = ids[n:]
	}
	return chunks
}

func toSpotifyIDs(raw []string) []spotify.ID {
	ids := make([]spotify.ID, 0, len(raw))
	for _, r := range raw {
		ids = append(ids, spotify.ID(r))
	}
	return ids
}
