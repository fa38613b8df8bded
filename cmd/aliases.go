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
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/chart-tools/internal/alias"
	"github.com/ademuri/chart-tools/internal/catalog"
)

var aliasesCmd = &cobra.Command{
	Use:   "aliases <artist field...>",
	Short: "Prints the artist list a catalogue artist field resolves to",
	Long: `Useful for checking the alias table. Each argument is one catalogue
Artist cell, e.g. "Dj A, B".`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printAliases(os.Stdout, viper.GetString("aliases"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(aliasesCmd)
}

func printAliases(out io.Writer, path string, fields []string) error {
	if path == "" {
		return fmt.Errorf("required flag(s) \"aliases\" not set")
	}
	table, err := alias.LoadFile(path)
	if err != nil {
		return err
	}
	resolver := alias.New(table)
	for _, field := range fields {
		resolved := resolver.Resolve(catalog.SplitField(field))
		fmt.Fprintf(out, "%s -> %s\n", strings.TrimSpace(field), catalog.JoinField(resolved))
	}
	return nil
}
