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

var maestrosCmd = &cobra.Command{
	Use:   "maestros",
	Short: "Shows the genre maestros",
	Long:  `The dominant contributor per genre from the latest cached run.`,
	Run: func(cmd *cobra.Command, args []string) {
		playlist, err := requirePlaylist()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := printMaestros(viper.GetString("database"), playlist); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(maestrosCmd)
}

func printMaestros(dbPath string, playlist string) error {
	insights, _, err := loadInsights(dbPath, playlist)
	if err != nil {
		return err
	}

	out, err := MaestrosAnalyzer{}.GetResults(insights)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

type MaestrosAnalyzer struct{}

func (m MaestrosAnalyzer) GetName() string {
	return "Genre maestros"
}

func (m MaestrosAnalyzer) GetResults(insights *analytics.Insights) (analysis Analysis, err error) {
	analysis.results = [][]string{{"Genre", "Maestro", "Title", "Tracks", "Share"}}
	for _, gm := range insights.GenreMaestros {
		analysis.results = append(analysis.results, []string{
			gm.Genre,
			gm.ContributorName,
			gm.Title,
			fmt.Sprintf("%d/%d", gm.SongCount, gm.TotalGenreTracks),
			strconv.Itoa(gm.Percentage) + "%",
		})
	}

	if len(insights.GenreMaestros) == 0 {
		analysis.summary = "No genre has a contributor with 2 or more tracks yet."
	} else {
		analysis.summary = fmt.Sprintf("%d genres crowned.", len(insights.GenreMaestros))
	}
	return
}
