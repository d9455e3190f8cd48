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
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwangiq/playlist-wrapped/internal/server"
	"github.com/mwangiq/playlist-wrapped/internal/store"
)

type ServeConfig struct {
	DbPath        string
	PlaylistID    string
	Port          int
	Timezone      string
	AdminPassword string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves cached insights over HTTP",
	Long: `Exposes the latest cached insights on a small JSON API and refreshes
them every morning at 9AM in the configured timezone.`,
	Run: func(cmd *cobra.Command, args []string) {
		playlist, err := requirePlaylist()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		config := ServeConfig{
			DbPath:        viper.GetString("database"),
			PlaylistID:    playlist,
			Port:          viper.GetInt("port"),
			Timezone:      viper.GetString("timezone"),
			AdminPassword: viper.GetString("admin_password"),
		}
		if err := serve(config); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	var port int
	serveCmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}

func serve(config ServeConfig) error {
	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", config.Timezone, err)
	}

	refresh := func(ctx context.Context) error {
		return refreshInsights(ctx, db, config.PlaylistID, time.Now())
	}
	srv := server.New(db, config.PlaylistID, config.AdminPassword, refresh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.NewScheduler(srv, location).Run(ctx)

	// Populate the cache on first boot so the API has data to serve.
	lastUpdated, err := db.LastUpdated(config.PlaylistID)
	if err != nil {
		return err
	}
	if lastUpdated.IsZero() {
		log.Println("no cached insights, running initial refresh")
		srv.RunScheduledRefresh(ctx)
	}

	log.Printf("playlist-wrapped listening on :%d", config.Port)
	return http.ListenAndServe(fmt.Sprintf(":%d", config.Port), srv.Handler())
}
