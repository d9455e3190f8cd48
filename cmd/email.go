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
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwangiq/playlist-wrapped/internal/analytics"
)

type SendEmailConfig struct {
	DbPath         string
	PlaylistID     string
	From           string
	To             string
	DryRun         bool
	SendgridApiKey string
}

var emailCmd = &cobra.Command{
	Use:   "email <address>",
	Short: "Sends an insights report by email",
	Long:  `Emails the latest cached insights to the specified address.`,
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		playlist, err := requirePlaylist()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		config := SendEmailConfig{
			DbPath:         viper.GetString("database"),
			PlaylistID:     playlist,
			From:           viper.GetString("from"),
			To:             args[0],
			DryRun:         viper.GetBool("dryRun"),
			SendgridApiKey: viper.GetString("sendgrid_api_key"),
		}
		if err := sendEmail(config); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))
}

func sendEmail(config SendEmailConfig) error {
	insights, generatedAt, err := loadInsights(config.DbPath, config.PlaylistID)
	if err != nil {
		return err
	}

	subject, body, err := generateEmailContent(insights, generatedAt)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, body)
		return nil
	}

	if config.SendgridApiKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	from := mail.NewEmail("playlist-wrapped", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	client := sendgrid.NewSendClient(config.SendgridApiKey)
	if _, err := client.Send(message); err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	return nil
}

func generateEmailContent(insights *analytics.Insights, generatedAt time.Time) (subject string, body string, err error) {
	out := `
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`
	analysers := []Analyser{
		SummaryAnalyzer{},
		MoodAnalyzer{},
		ContributorsAnalyzer{},
		MaestrosAnalyzer{},
		MembersAnalyzer{},
	}

	for _, analyser := range analysers {
		out += "\n<div>\n"
		out += fmt.Sprintf("<h2>%s for %s:</h2>\n", analyser.GetName(), insights.Playlist.Name)

		analysis, aerr := analyser.GetResults(insights)
		if aerr != nil {
			return "", "", fmt.Errorf("getting results for %s: %w", analyser.GetName(), aerr)
		}

		if len(analysis.results) <= 1 {
			out += "<div>No data.</div>\n"
		} else {
			out += "<table>\n<thead>\n<tr>\n"
			for _, header := range analysis.results[0] {
				out += fmt.Sprintf("<th>%s</th>", header)
			}
			out += "</tr>\n</thead>\n<tbody>\n"
			for _, row := range analysis.results[1:] {
				out += "<tr>\n"
				for _, column := range row {
					out += fmt.Sprintf("<td>%s</td>\n", column)
				}
				out += "</tr>\n"
			}
			out += "</tbody>\n</table>\n"
		}
		out += fmt.Sprintf("<div>%s</div>\n</div>", analysis.summary)
	}

	out += "\n  </body>\n</html>\n"

	subject = fmt.Sprintf("Playlist insights for %s (%s)",
		insights.Playlist.Name, generatedAt.Format("2006-01-02"))
	return subject, out, nil
}
