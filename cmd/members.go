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

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Shows playlist members and estimated listeners",
	Long:  `Everyone who added a track, plus the silent-follower estimate, from the latest cached run.`,
	Run: func(cmd *cobra.Command, args []string) {
		playlist, err := requirePlaylist()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := printMembers(viper.GetString("database"), playlist); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(membersCmd)
}

func printMembers(dbPath string, playlist string) error {
	insights, _, err := loadInsights(dbPath, playlist)
	if err != nil {
		return err
	}

	out, err := MembersAnalyzer{}.GetResults(insights)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

type MembersAnalyzer struct{}

func (m MembersAnalyzer) GetName() string {
	return "Playlist members"
}

func (m MembersAnalyzer) GetResults(insights *analytics.Insights) (analysis Analysis, err error) {
	rollup := insights.PlaylistMembers
	if rollup == nil {
		err = fmt.Errorf("cached insights have no members rollup")
		return
	}

	analysis.results = [][]string{{"", "Member", "Role", "Tracks"}}
	for _, member := range rollup.Contributors {
		analysis.results = append(analysis.results, []string{
			member.Icon,
			member.Name,
			member.Role,
			strconv.Itoa(member.TracksAdded),
		})
	}

	analysis.summary = fmt.Sprintf("%d members: %d contributors and about %d listeners (%s).",
		rollup.Summary.TotalMembers, rollup.Summary.ContributorCount,
		rollup.Listeners.Count, rollup.Listeners.Note)
	return
}
