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
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwangiq/playlist-wrapped/internal/analytics"
	"github.com/mwangiq/playlist-wrapped/internal/spotify"
	"github.com/mwangiq/playlist-wrapped/internal/store"
)

// keepRuns is how many historical runs Prune leaves per playlist.
const keepRuns = 10

type UpdateConfig struct {
	DbPath     string
	PlaylistID string
	Force      bool
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetches the playlist and recomputes insights",
	Long:  `Stores computed insights in a local SQLite database.`,
	Run: func(cmd *cobra.Command, args []string) {
		playlist, err := requirePlaylist()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		config := UpdateConfig{
			DbPath:     viper.GetString("database"),
			PlaylistID: playlist,
			Force:      viper.GetBool("force"),
		}

		if err := updateDatabase(context.Background(), config); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	var force bool
	updateCmd.Flags().BoolVarP(&force, "force", "f", false, "Recompute even if the cache is fresh")
	viper.BindPFlag("force", updateCmd.Flags().Lookup("force"))
}

func updateDatabase(ctx context.Context, config UpdateConfig) error {
	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	lastUpdated, err := db.LastUpdated(config.PlaylistID)
	if err != nil {
		return err
	}
	now := time.Now()
	if !lastUpdated.IsZero() && now.Sub(lastUpdated).Hours() < 24 && !config.Force {
		fmt.Printf("Playlist was already updated in the past 24 hours\n")
		return nil
	}
	if !lastUpdated.IsZero() {
		fmt.Printf("Playlist was last updated: %s\n", lastUpdated.Format("2006-01-02"))
	}

	return refreshInsights(ctx, db, config.PlaylistID, now)
}

// refreshInsights fetches, computes, and caches one run. Shared by the
// update command, the serve refresh endpoint, and the scheduler.
func refreshInsights(ctx context.Context, db *store.Store, playlistID string, now time.Time) error {
	client, err := spotify.NewClient(ctx, spotify.Config{
		ClientID:     viper.GetString("client_id"),
		ClientSecret: viper.GetString("client_secret"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Fetching playlist %q\n", playlistID)
	snap, err := spotify.NewFetcher(client).FetchSnapshot(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("fetching snapshot: %w", err)
	}
	fmt.Printf("Fetched %d tracks, %d artists\n", len(snap.Entries), len(snap.Artists))

	insights, err := analytics.Analyze(snap, now)
	if err != nil {
		return fmt.Errorf("computing insights: %w", err)
	}

	if err := db.SaveInsights(playlistID, now, insights); err != nil {
		return err
	}
	if err := db.Prune(playlistID, keepRuns); err != nil {
		return err
	}

	fmt.Printf("Cached insights for %q (%d contributors)\n",
		insights.Playlist.Name, insights.Contributors.TotalContributors)
	return nil
}

// loadInsights reads the latest cached run for the display commands.
func loadInsights(dbPath, playlistID string) (*analytics.Insights, time.Time, error) {
	db, err := store.New(dbPath)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	insights, generatedAt, err := db.LatestInsights(playlistID)
	if err != nil {
		return nil, time.Time{}, err
	}
	if insights == nil {
		return nil, time.Time{}, fmt.Errorf("no cached insights for playlist %q, run update first", playlistID)
	}
	return insights, generatedAt, nil
}
