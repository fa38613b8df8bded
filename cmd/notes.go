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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/chart-tools/internal/rank"
	"github.com/ademuri/chart-tools/internal/report"
	"github.com/ademuri/chart-tools/internal/store"
	"github.com/ademuri/chart-tools/internal/window"
)

type NotesConfig struct {
	OutDir string
	Year   int
	Week   int
	Groups int
	To     string
	From   string
	DryRun bool
}

var notesCmd = &cobra.Command{
	Use:   "notes --week=N [--email=address]",
	Short: "Writes the notes of a week from its workbooks",
	Long: `Reads the all-time and weekly workbooks and writes the podium of every chart
to weekly_notes/W<N>_Notes.txt. Rows tied on score are all quoted.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		week, _ := cmd.Flags().GetInt("week")
		if week <= 0 {
			return fmt.Errorf("required flag(s) \"week\" not set")
		}
		to, _ := cmd.Flags().GetString("email")
		if to != "" && viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := NotesConfig{
			OutDir: viper.GetString("out_dir"),
			Year:   viper.GetInt("year"),
			From:   viper.GetString("from"),
		}
		config.Week, _ = cmd.Flags().GetInt("week")
		config.Groups, _ = cmd.Flags().GetInt("groups")
		config.To, _ = cmd.Flags().GetString("email")
		config.DryRun, _ = cmd.Flags().GetBool("dry_run")

		if err := makeNotes(config); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(notesCmd)

	notesCmd.Flags().Int("week", 0, "Number of the reporting week")
	notesCmd.Flags().Int("groups", rank.DefaultGroups, "Number of distinct scores quoted per chart")
	notesCmd.Flags().String("email", "", "Also email the notes to this address")
	notesCmd.Flags().Bool("dry_run", false, "Print the email instead of sending it")
}

func makeNotes(config NotesConfig) error {
	path, err := writeNotes(config.OutDir, config.Year, config.Week, config.Groups)
	if err != nil {
		return err
	}
	fmt.Printf("Notes written to %s\n", path)

	if config.To == "" {
		return nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading notes: %w", err)
	}
	subject := fmt.Sprintf("Charts %d, week %d", config.Year, config.Week)
	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, body)
		return nil
	}
	return sendNotes(config.From, config.To, subject, string(body))
}

// writeNotes reads back the all-time and week workbooks and writes the
// week's notes next to them.
func writeNotes(outDir string, year, week, groups int) (string, error) {
	allTime, err := store.Open(store.WorkbookPath(outDir, year, window.AllTime()))
	if err != nil {
		return "", err
	}
	defer allTime.Close()

	weekly, err := store.Open(store.WorkbookPath(outDir, year, window.Window{Kind: window.KindWeek, Number: week}))
	if err != nil {
		return "", err
	}
	defer weekly.Close()

	notes, err := report.Build(weekly, allTime, week, groups)
	if err != nil {
		return "", err
	}

	path := report.Path(outDir, week)
	if err := report.Write(path, notes); err != nil {
		return "", err
	}
	return path, nil
}
