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

// Package spotify fetches a playlist snapshot from the Spotify Web API
// using the client-credentials flow and converts it into the shape the
// analytics package consumes.
package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// Config holds the application credentials. The client-credentials
// grant is enough: only public playlist data is read.
type Config struct {
	ClientID     string
	ClientSecret string
}

// NewClient authenticates against the Spotify accounts service and
// returns an API client whose transport refreshes the token as needed.
func NewClient(ctx context.Context, config Config) (*spotify.Client, error) {
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("spotify credentials are not set")
	}

	auth := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	httpClient := auth.Client(ctx)
	return spotify.New(httpClient), nil
}

// newLimiter paces API calls. Spotify's documented limits are generous,
// but bursty pagination over large playlists will hit 429s without it.
func newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(200*time.Millisecond), 1)
}

// withRetry runs an API call, retrying on server errors and rate-limit
// responses. Client errors (bad id, missing resource) fail immediately.
func withRetry(call func() error) error {
	return retry.Do(
		call,
		retry.RetryIf(func(err error) bool {
			if serr, ok := err.(spotify.Error); ok {
				if serr.Status/100 == 5 || serr.Status == 429 {
					fmt.Printf("spotify errored, retrying: %v\n", serr)
					return true
				}
				return false
			}
			return false
		}),
	)
}
