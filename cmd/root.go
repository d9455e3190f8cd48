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
	"fmt"
	"os"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string
var spotifyClientID string
var spotifyClientSecret string
var playlistID string
var databasePath string
var timezoneName string
var adminPassword string
var sendgridApiKey string
var fromAddress string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "playlist-wrapped",
	Short: "Analyzes a collaborative Spotify playlist",
	Long: `Fetches a collaborative playlist from the Spotify API, computes
contributor analytics, badges, genre maestros, and a members rollup, and
caches the results in a local SQLite database.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.playlist-wrapped.yaml)")

	rootCmd.PersistentFlags().StringVar(
		&spotifyClientID, "client_id", "", "Spotify application client id")
	viper.BindPFlag("client_id", rootCmd.PersistentFlags().Lookup("client_id"))

	rootCmd.PersistentFlags().StringVar(
		&spotifyClientSecret, "client_secret", "", "Spotify application client secret")
	viper.BindPFlag("client_secret", rootCmd.PersistentFlags().Lookup("client_secret"))

	rootCmd.PersistentFlags().StringVarP(
		&playlistID, "playlist", "p", "", "Spotify playlist id to analyze")
	viper.BindPFlag("playlist", rootCmd.PersistentFlags().Lookup("playlist"))

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./playlist.db", "Path to the SQLite database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVar(
		&timezoneName, "timezone", "Africa/Nairobi", "Timezone for the daily refresh schedule")
	viper.BindPFlag("timezone", rootCmd.PersistentFlags().Lookup("timezone"))

	rootCmd.PersistentFlags().StringVar(
		&adminPassword, "admin_password", "", "Password for the manual refresh endpoint")
	viper.BindPFlag("admin_password", rootCmd.PersistentFlags().Lookup("admin_password"))

	rootCmd.PersistentFlags().StringVar(
		&sendgridApiKey, "sendgrid_api_key", "", "SendGrid API key for email reports")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))

	rootCmd.PersistentFlags().StringVar(
		&fromAddress, "from", "", "From email address for reports")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A .env in the working directory seeds the environment, matching
	// how the hosted deployment is configured.
	godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".playlist-wrapped" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".playlist-wrapped")
	}

	viper.SetEnvPrefix("spotify_wrapped")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func requirePlaylist() (string, error) {
	id := viper.GetString("playlist")
	if id == "" {
		return "", fmt.Errorf("required flag \"playlist\" not set")
	}
	return id, nil
}
