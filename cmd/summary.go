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
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwangiq/playlist-wrapped/internal/analytics"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Shows the playlist summary",
	Long:  `Top artists, top genres, popularity extremes, and the mood profile from the latest cached run.`,
	Run: func(cmd *cobra.Command, args []string) {
		playlist, err := requirePlaylist()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := printSummary(viper.GetString("database"), playlist); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func printSummary(dbPath string, playlist string) error {
	insights, generatedAt, err := loadInsights(dbPath, playlist)
	if err != nil {
		return err
	}

	fmt.Printf("%s (generated %s)\n\n", insights.Playlist.Name, generatedAt.Format("2006-01-02"))

	out, err := SummaryAnalyzer{}.GetResults(insights)
	if err != nil {
		return err
	}
	fmt.Println(out)

	mood, err := MoodAnalyzer{}.GetResults(insights)
	if err != nil {
		return err
	}
	fmt.Println(mood)
	return nil
}

type SummaryAnalyzer struct{}

func (s SummaryAnalyzer) GetName() string {
	return "Playlist summary"
}

func (s SummaryAnalyzer) GetResults(insights *analytics.Insights) (analysis Analysis, err error) {
	analysis.results = [][]string{{"Artist", "Tracks"}}
	for _, a := range insights.TopArtists {
		analysis.results = append(analysis.results, []string{a.Name, strconv.Itoa(a.Count)})
	}

	summary := fmt.Sprintf("%d unique artists across %d analyzed tracks.",
		insights.TotalUniqueArtists, insights.TotalAnalyzedTracks)
	if insights.MostPopular != nil {
		summary += fmt.Sprintf("\nMost popular: %q by %s (%d).",
			insights.MostPopular.Name, insights.MostPopular.Artists, insights.MostPopular.Popularity)
	}
	if insights.LeastPopular != nil {
		summary += fmt.Sprintf("\nDeepest cut: %q by %s (%d).",
			insights.LeastPopular.Name, insights.LeastPopular.Artists, insights.LeastPopular.Popularity)
	}
	if insights.DateRange != nil {
		summary += fmt.Sprintf("\nTracks added between %s and %s.",
			insights.DateRange.Earliest.Format("2006-01-02"), insights.DateRange.Latest.Format("2006-01-02"))
	}
	analysis.summary = summary
	return
}

type MoodAnalyzer struct{}

func (m MoodAnalyzer) GetName() string {
	return "Mood profile"
}

func (m MoodAnalyzer) GetResults(insights *analytics.Insights) (analysis Analysis, err error) {
	f := insights.AudioFeatures
	analysis.results = [][]string{
		{"Feature", "Average"},
		{"Energy", formatFeature(f.Energy)},
		{"Danceability", formatFeature(f.Danceability)},
		{"Valence", formatFeature(f.Valence)},
		{"Acousticness", formatFeature(f.Acousticness)},
		{"Speechiness", formatFeature(f.Speechiness)},
		{"Tempo", fmt.Sprintf("%.0f BPM", f.Tempo)},
	}

	genres := ""
	for i, g := range insights.TopGenres {
		if i > 0 {
			genres += ", "
		}
		genres += fmt.Sprintf("%s (%d)", g.Genre, g.Count)
	}
	if genres == "" {
		genres = "no genre data"
	}
	analysis.summary = "Top genres: " + genres
	return
}

func formatFeature(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
