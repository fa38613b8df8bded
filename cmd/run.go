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
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/chart-tools/internal/alias"
	"github.com/ademuri/chart-tools/internal/catalog"
	"github.com/ademuri/chart-tools/internal/fanout"
	"github.com/ademuri/chart-tools/internal/pipeline"
	"github.com/ademuri/chart-tools/internal/rank"
	"github.com/ademuri/chart-tools/internal/rotate"
	"github.com/ademuri/chart-tools/internal/source/scrape"
	"github.com/ademuri/chart-tools/internal/source/soundcloud"
	"github.com/ademuri/chart-tools/internal/source/tracklists"
	"github.com/ademuri/chart-tools/internal/source/youtube"
	"github.com/ademuri/chart-tools/internal/window"
)

type RunConfig struct {
	Catalogue      string
	Aliases        string
	OutDir         string
	Year           int
	Week           int
	WeekStart      time.Time
	WeekEnd        time.Time
	Month          int
	YouTubeAPIKey  string
	RotateCommand  string
	SkipTracklists []string
	SkipSoundcloud []string
	Pace           time.Duration
	WriteNotes     bool
}

var runCmd = &cobra.Command{
	Use:   "run --week=N --week-start=yyyy-mm-dd [--week-end=yyyy-mm-dd] [--month=M]",
	Short: "Collects metrics, exports every workbook and writes the week's notes",
	Long: `Resolves artist aliases, fetches YouTube views, 1001Tracklists supports and
SoundCloud plays for every track, then writes the all-time, weekly and monthly
workbooks and the notes for the week.
  --week-end defaults to six days after --week-start.
  --month defaults to the month --week-end falls in; months 1 through it are re-exported.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return checkRunFlags(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		runWithFlags(cmd, true)
	},
}

var collectCmd = &cobra.Command{
	Use:   "collect --week=N --week-start=yyyy-mm-dd [--week-end=yyyy-mm-dd] [--month=M]",
	Short: "Like run, without writing the notes",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return checkRunFlags(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		runWithFlags(cmd, false)
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, collectCmd} {
		rootCmd.AddCommand(c)
		c.Flags().Int("week", 0, "Number of the reporting week")
		c.Flags().String("week-start", "", "First day of the week, in yyyy-mm-dd format")
		c.Flags().String("week-end", "", "Last day of the week, in yyyy-mm-dd format")
		c.Flags().Int("month", 0, "Last month to export")
	}

	var apiKey string
	runCmd.PersistentFlags().StringVar(&apiKey, "youtube_api_key", "", "YouTube Data API key")
	viper.BindPFlag("youtube_api_key", runCmd.PersistentFlags().Lookup("youtube_api_key"))

	var rotateCommand string
	runCmd.PersistentFlags().StringVar(&rotateCommand, "rotate_command", "", "Shell command that changes the network route after a block, e.g. a VPN reconnect")
	viper.BindPFlag("rotate_command", runCmd.PersistentFlags().Lookup("rotate_command"))

	var pace string
	runCmd.PersistentFlags().StringVar(&pace, "pace", "3s", "Minimum time between two page scrapes")
	viper.BindPFlag("pace", runCmd.PersistentFlags().Lookup("pace"))

	// collect shares the source settings through viper.
	collectCmd.Flags().AddFlagSet(runCmd.PersistentFlags())
}

func checkRunFlags(cmd *cobra.Command) error {
	week, _ := cmd.Flags().GetInt("week")
	if week <= 0 {
		return fmt.Errorf("required flag(s) \"week\" not set")
	}
	start, _ := cmd.Flags().GetString("week-start")
	if start == "" {
		return fmt.Errorf("required flag(s) \"week-start\" not set")
	}
	return nil
}

func runWithFlags(cmd *cobra.Command, writeNotes bool) {
	config, err := runConfigFromFlags(cmd)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	config.WriteNotes = writeNotes

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := runCharts(ctx, config, newLogger())
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Print(out)
}

func runConfigFromFlags(cmd *cobra.Command) (RunConfig, error) {
	config := RunConfig{
		Catalogue:      viper.GetString("catalogue"),
		Aliases:        viper.GetString("aliases"),
		OutDir:         viper.GetString("out_dir"),
		Year:           viper.GetInt("year"),
		YouTubeAPIKey:  viper.GetString("youtube_api_key"),
		RotateCommand:  viper.GetString("rotate_command"),
		SkipTracklists: viper.GetStringSlice("skip_1001t"),
		SkipSoundcloud: viper.GetStringSlice("skip_soundcloud"),
	}

	pace, err := time.ParseDuration(viper.GetString("pace"))
	if err != nil {
		return config, fmt.Errorf("--pace: %w", err)
	}
	config.Pace = pace

	config.Week, _ = cmd.Flags().GetInt("week")
	config.Month, _ = cmd.Flags().GetInt("month")

	startString, _ := cmd.Flags().GetString("week-start")
	config.WeekStart, err = window.ParseDay(startString)
	if err != nil {
		return config, fmt.Errorf("--week-start: %w", err)
	}

	endString, _ := cmd.Flags().GetString("week-end")
	if endString == "" {
		config.WeekEnd = config.WeekStart.AddDate(0, 0, 6)
	} else {
		config.WeekEnd, err = window.ParseDay(endString)
		if err != nil {
			return config, fmt.Errorf("--week-end: %w", err)
		}
	}

	if config.Month == 0 {
		config.Month = int(config.WeekEnd.Month())
		if config.WeekEnd.Year() > config.Year {
			config.Month = 12
		}
	}
	return config, nil
}

func runCharts(ctx context.Context, config RunConfig, logger *slog.Logger) (string, error) {
	loaded, err := catalog.LoadFile(config.Catalogue)
	if err != nil {
		return "", err
	}
	for _, problem := range loaded.Problems {
		logger.Warn("catalogue row kept with defaults", "error", problem)
	}

	table := alias.Table{}
	if config.Aliases != "" {
		table, err = alias.LoadFile(config.Aliases)
		if err != nil {
			return "", err
		}
	}

	sources, err := buildSources(config, logger)
	if err != nil {
		return "", err
	}

	var rotator fanout.Rotator = rotate.NewNoop(logger)
	if config.RotateCommand != "" {
		rotator = rotate.NewCommand(config.RotateCommand, logger)
	}
	reducer := fanout.NewReducer(fanout.RetryPolicy{Rotator: rotator}, config.Pace, logger)

	week, err := window.Week(config.Week, config.WeekStart, config.WeekEnd)
	if err != nil {
		return "", err
	}

	p := pipeline.New(alias.New(table), reducer, sources, logger)
	result, err := p.Run(ctx, loaded.Tracks, pipeline.Config{
		OutDir: config.OutDir,
		Year:   config.Year,
		Week:   week,
		Months: window.Months(config.Year, config.Month),
	})
	if err != nil {
		return "", err
	}

	out := new(bytes.Buffer)
	if err := printRunSummary(out, result); err != nil {
		return "", err
	}

	if config.WriteNotes {
		path, err := writeNotes(config.OutDir, config.Year, config.Week, rank.DefaultGroups)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(out, "Notes written to %s\n", path)
	}
	return out.String(), nil
}

func buildSources(config RunConfig, logger *slog.Logger) ([]fanout.Source, error) {
	yt, err := youtube.New(config.YouTubeAPIKey, "", logger)
	if err != nil {
		return nil, fmt.Errorf("--youtube_api_key: %w", err)
	}
	client := scrape.New(logger)
	return []fanout.Source{
		yt.Source(nil),
		tracklists.New(client, "").Source(config.SkipTracklists),
		soundcloud.New(client, "").Source(config.SkipSoundcloud),
	}, nil
}

func printRunSummary(out io.Writer, result pipeline.Report) error {
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Source", "Identifiers", "Fetched", "Shared", "Retries", "Elapsed"})
	for _, r := range result.Sources {
		row := []string{
			r.Source,
			humanize.Comma(int64(r.Identifiers)),
			humanize.Comma(int64(r.Fetched)),
			fmt.Sprint(len(r.Shared)),
			fmt.Sprint(r.Retries),
			r.Elapsed.Round(time.Second).String(),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering summary: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}

	for _, e := range result.Exports {
		fmt.Fprintf(out, "%s: %d tracks -> %s\n", e.Window.Label(), e.Tracks, e.Path)
	}
	return nil
}
