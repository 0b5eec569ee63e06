// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/openquant/eqdata/library"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	reportRefresh  bool
	reportStartStr string
	reportEndStr   string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Display the data completeness report",
	Long: `The report sub-command renders the data completeness table, one row per
symbol with the completeness percentage of every dataset. With --refresh the
table is recomputed over the requested date range first.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myLibrary := &library.Library{
			DBUrl: viper.GetString("database.url"),
		}

		if err := myLibrary.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to library")
		}
		defer myLibrary.Close()

		if reportRefresh {
			start, end := reportDateRange()
			if err := myLibrary.RefreshCompleteness(ctx, start, end); err != nil {
				log.Fatal().Err(err).Msg("could not refresh completeness table")
			}
		}

		report, err := myLibrary.CompletenessReport(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create completeness report")
		}

		r, _ := glamour.NewTermRenderer(
			// detect background color and pick either the default dark or light theme
			glamour.WithAutoStyle(),
			// wrap output at specific width (default is 80)
			glamour.WithWordWrap(120),
		)

		out, err := r.Render(report)
		if err != nil {
			log.Fatal().Err(err).Msg("could not render completeness report")
		}

		fmt.Print(out)
	},
}

func reportDateRange() (time.Time, time.Time) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	if reportEndStr != "" {
		var err error
		end, err = time.Parse("2006-01-02", reportEndStr)
		if err != nil {
			log.Fatal().Err(err).Str("End", reportEndStr).Msg("could not parse end date")
		}
	}

	start := end.AddDate(-5, 0, 0)
	if reportStartStr != "" {
		var err error
		start, err = time.Parse("2006-01-02", reportStartStr)
		if err != nil {
			log.Fatal().Err(err).Str("Start", reportStartStr).Msg("could not parse start date")
		}
	}

	return start, end
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportRefresh, "refresh", false, "recompute completeness before displaying the report")
	reportCmd.Flags().StringVar(&reportStartStr, "start", "", "start of the refresh date range (YYYY-MM-DD, default 5 years ago)")
	reportCmd.Flags().StringVar(&reportEndStr, "end", "", "end of the refresh date range (YYYY-MM-DD, default today)")
}
