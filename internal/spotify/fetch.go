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
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/time/rate"

	"github.com/mwangiq/playlist-wrapped/internal/analytics"
)

const (
	audioFeaturesChunk = 100
	artistsChunk       = 50
)

// Fetcher pulls everything one analytics run needs from the API.
type Fetcher struct {
	client  *spotify.Client
	limiter *rate.Limiter
}

func NewFetcher(client *spotify.Client) *Fetcher {
	return &Fetcher{
		client:  client,
		limiter: newLimiter(),
	}
}

// FetchSnapshot resolves the playlist, all of its pages, the artists
// referenced by its tracks, the tracks' audio features, and the
// contributors' public profiles. Audio features and profiles are
// best-effort: their absence degrades the analytics rather than failing
// the fetch.
func (f *Fetcher) FetchSnapshot(ctx context.Context, playlistID string) (*analytics.Snapshot, error) {
	playlist, entries, err := f.fetchPlaylist(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, err
	}

	snap := &analytics.Snapshot{
		Playlist: playlist,
		Entries:  entries,
		Features: map[string]*analytics.AudioFeatures{},
	}

	snap.Artists, err = f.fetchArtists(ctx, analytics.ArtistIDs(entries))
	if err != nil {
		return nil, err
	}

	if err := f.fetchAudioFeatures(ctx, entries, snap.Features); err != nil {
		// Deprecated for newer app registrations; the analytics fall
		// back to neutral defaults.
		fmt.Printf("audio features unavailable: %v\n", err)
	}

	snap.Profiles = f.fetchProfiles(ctx, analytics.ContributorIDs(entries))
	return snap, nil
}

func (f *Fetcher) fetchPlaylist(ctx context.Context, id spotify.ID) (analytics.PlaylistInfo, []analytics.Entry, error) {
	var playlist *spotify.FullPlaylist
	err := withRetry(func() error {
		var err error
		playlist, err = f.client.GetPlaylist(ctx, id)
		return err
	})
	if err != nil {
		return analytics.PlaylistInfo{}, nil, fmt.Errorf("fetching playlist %s: %w", id, err)
	}

	var entries []analytics.Entry
	page := playlist.Tracks
	for {
		for _, item := range page.Tracks {
			if item.IsLocal || item.Track.ID == "" {
				continue
			}
			entries = append(entries, convertEntry(item))
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return analytics.PlaylistInfo{}, nil, err
		}
		err := withRetry(func() error {
			return f.client.NextPage(ctx, &page)
		})
		if err == spotify.ErrNoMorePages {
			break
		}
		if err != nil {
			return analytics.PlaylistInfo{}, nil, fmt.Errorf("fetching playlist page: %w", err)
		}
	}

	return convertPlaylist(playlist), entries, nil
}

func (f *Fetcher) fetchArtists(ctx context.Context, ids []string) ([]analytics.Artist, error) {
	var artists []analytics.Artist
	for _, chunk := range chunkIDs(toSpotifyIDs(ids), artistsChunk) {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var full []*spotify.FullArtist
		chunk := chunk
		err := withRetry(func() error {
			var err error
			full, err = f.client.GetArtists(ctx, chunk...)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("fetching artists: %w", err)
		}

		for _, a := range full {
			if a == nil {
				continue
			}
			artists = append(artists, convertArtist(a))
		}
	}
	return artists, nil
}

func (f *Fetcher) fetchAudioFeatures(ctx context.Context, entries []analytics.Entry, out map[string]*analytics.AudioFeatures) error {
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.Track.ID)
	}

	for _, chunk := range chunkIDs(toSpotifyIDs(ids), audioFeaturesChunk) {
		if err := f.limiter.Wait(ctx); err != nil {
			return err
		}

		var features []*spotify.AudioFeatures
		chunk := chunk
		err := withRetry(func() error {
			var err error
			features, err = f.client.GetAudioFeatures(ctx, chunk...)
			return err
		})
		if err != nil {
			return fmt.Errorf("fetching audio features: %w", err)
		}

		for _, feat := range features {
			if feat == nil {
				continue
			}
			out[string(feat.ID)] = convertFeatures(feat)
		}
	}
	return nil
}

// fetchProfiles is best-effort per user: a private or deleted account
// just keeps its masked fallback name.
func (f *Fetcher) fetchProfiles(ctx context.Context, ids []string) []analytics.Profile {
	var profiles []analytics.Profile
	for _, id := range ids {
		if err := f.limiter.Wait(ctx); err != nil {
			return profiles
		}

		var user *spotify.User
		id := id
		err := withRetry(func() error {
			var err error
			user, err = f.client.GetUsersPublicProfile(ctx, spotify.ID(id))
			return err
		})
		if err != nil {
			fmt.Printf("profile lookup failed for %s: %v\n", id, err)
			continue
		}

		profiles = append(profiles, analytics.Profile{
			ID:          user.ID,
			DisplayName: user.DisplayName,
		})
	}
	return profiles
}
