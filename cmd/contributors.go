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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwangiq/playlist-wrapped/internal/analytics"
)

var contributorsCmd = &cobra.Command{
	Use:   "contributors",
	Short: "Shows the ranked contributor analytics",
	Long:  `Per-contributor metrics and badges from the latest cached run.`,
	Run: func(cmd *cobra.Command, args []string) {
		playlist, err := requirePlaylist()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := printContributors(viper.GetString("database"), playlist); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(contributorsCmd)
}

func printContributors(dbPath string, playlist string) error {
	insights, _, err := loadInsights(dbPath, playlist)
	if err != nil {
		return err
	}

	out, err := ContributorsAnalyzer{}.GetResults(insights)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

type ContributorsAnalyzer struct{}

func (c ContributorsAnalyzer) GetName() string {
	return "Contributors"
}

func (c ContributorsAnalyzer) GetResults(insights *analytics.Insights) (analysis Analysis, err error) {
	report := insights.Contributors
	if report == nil {
		err = fmt.Errorf("cached insights have no contributor report")
		return
	}

	analysis.results = [][]string{{"#", "Contributor", "Tracks", "Avg pop", "Genres", "Artists", "Avg year", "Badges"}}
	for i, con := range report.Contributors {
		badges := make([]string, 0, len(con.Badges))
		for _, b := range con.Badges {
			badges = append(badges, b.Name)
		}
		analysis.results = append(analysis.results, []string{
			strconv.Itoa(i + 1),
			con.Name,
			strconv.Itoa(con.TracksAdded),
			strconv.FormatFloat(con.AvgPopularity, 'f', -1, 64),
			strconv.Itoa(con.GenreDiversity),
			strconv.Itoa(con.ArtistDiversity),
			strconv.Itoa(con.AvgReleaseYear),
			strings.Join(badges, ", "),
		})
	}

	analysis.summary = fmt.Sprintf(
		"%d contributors. Most active: %s. Average contribution: %d tracks. %d genres, %d artists overall.",
		report.TotalContributors, report.Summary.MostActive, report.Summary.AvgContribution,
		report.Summary.TotalGenres, report.Summary.TotalArtists)
	return
}
