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
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/chart-tools/internal/logger"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chart-tools",
	Short: "Builds weekly music charts from YouTube, 1001Tracklists and SoundCloud",
	Long: `Reads the track catalogue, collects audience metrics for every track,
rolls them up by artist and label, and writes ranked chart workbooks for all
time, the week and each month, plus the notes for the week's posts.`,
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
		&cfgFile, "config", "", "config file (default is $HOME/.chart-tools.yaml)")

	var catalogue string
	rootCmd.PersistentFlags().StringVarP(&catalogue, "catalogue", "c", "./2021 Charts IN.csv", "Path to the track catalogue, exported as CSV")
	viper.BindPFlag("catalogue", rootCmd.PersistentFlags().Lookup("catalogue"))

	var aliases string
	rootCmd.PersistentFlags().StringVar(&aliases, "aliases", "", "Path to the artist alias table (YAML)")
	viper.BindPFlag("aliases", rootCmd.PersistentFlags().Lookup("aliases"))

	var outDir string
	rootCmd.PersistentFlags().StringVarP(&outDir, "out_dir", "o", ".", "Directory the workbooks and notes are written to")
	viper.BindPFlag("out_dir", rootCmd.PersistentFlags().Lookup("out_dir"))

	var year int
	rootCmd.PersistentFlags().IntVar(&year, "year", time.Now().Year(), "Chart year, used in workbook names and month windows")
	viper.BindPFlag("year", rootCmd.PersistentFlags().Lookup("year"))

	var logLevel string
	rootCmd.PersistentFlags().StringVar(&logLevel, "log_level", "info", "Log level: debug, info, warn or error")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))

	var logFormat string
	rootCmd.PersistentFlags().StringVar(&logFormat, "log_format", logger.FormatText, "Log format: text or json")
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log_format"))

	var sendgridKey string
	rootCmd.PersistentFlags().StringVar(&sendgridKey, "sendgrid_api_key", "", "SendGrid API key, for emailing notes")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))

	var from string
	rootCmd.PersistentFlags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
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

		// Search config in home directory with name ".chart-tools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".chart-tools")
	}

	viper.SetEnvPrefix("CHART_TOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
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

func newLogger() *slog.Logger {
	return logger.New(logger.Config{
		Writer: os.Stderr,
		Format: viper.GetString("log_format"),
		Level:  logger.ParseLevel(viper.GetString("log_level")),
	})
}
