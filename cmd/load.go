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
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/hako/durafmt"
	"github.com/openquant/eqdata/data"
	"github.com/openquant/eqdata/dataset"
	"github.com/openquant/eqdata/healthcheck"
	"github.com/openquant/eqdata/library"
	"github.com/openquant/eqdata/yahoo"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	loadDatasets []string
	loadUniverse string
	loadStartStr string
	loadEndStr   string
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load [symbol...]",
	Short: "Fetch datasets from the upstream API and save them to the library",
	Long: `The load sub-command fetches data for the listed symbols and saves the
records to the database. When no symbol is listed every active symbol in the
library is loaded. The --datasets flag restricts the load to the named
datasets. Failures for individual symbols are logged and the load continues
with the next symbol; re-running a load updates existing rows in place.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		startTime := time.Now()

		loadStart, loadEnd := loadDateRange()

		myLibrary := &library.Library{
			DBUrl: viper.GetString("database.url"),
			Name:  viper.GetString("library.name"),
			Owner: viper.GetString("library.owner"),
		}

		if err := myLibrary.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to library")
		}
		defer myLibrary.Close()

		if loadUniverse != "" {
			numSymbols, err := myLibrary.LoadUniverse(ctx, loadUniverse)
			if err != nil {
				log.Fatal().Err(err).Str("FileName", loadUniverse).Msg("could not load universe file")
			}
			log.Info().Int("NumSymbols", numSymbols).Str("FileName", loadUniverse).Msg("loaded universe file")
		}

		symbols := args
		if len(symbols) == 0 {
			var err error
			symbols, err = myLibrary.ActiveSymbols(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("could not query active symbols")
			}
		}

		if len(symbols) == 0 {
			log.Fatal().Msg("no active symbols in library; load a universe file first")
		}

		datasets := loadDatasets
		if len(datasets) == 0 {
			datasets = dataset.Names()
		}

		registry := dataset.Map()
		for _, name := range datasets {
			if _, ok := registry[name]; !ok {
				log.Fatal().Str("Dataset", name).Strs("Available", dataset.Names()).Msg("unknown dataset")
			}
		}

		client := yahoo.New(
			yahoo.WithRateLimit(viper.GetInt("yahoo.rate_limit")),
			yahoo.WithSymbolSuffix(viper.GetString("yahoo.symbol_suffix")),
		)

		checkID := viper.GetString("healthchecks.check_id")
		healthcheck.PingStart(checkID)

		summaries := make([]data.RunSummary, 0, len(datasets))
		for _, name := range datasets {
			summaries = append(summaries, runDataset(ctx, myLibrary, registry[name], client, symbols, loadStart, loadEnd))
		}

		log.Info().Msg("refreshing completeness table")
		if err := myLibrary.RefreshCompleteness(ctx, loadStart, loadEnd); err != nil {
			log.Error().Err(err).Msg("could not refresh completeness table")
			healthcheck.PingFailure(checkID)
		} else {
			healthcheck.PingSuccess(checkID)
		}

		fmt.Println(renderSummaries(summaries))
		log.Info().Str("RunTime", durafmt.Parse(time.Since(startTime)).String()).Msg("load finished")
	},
}

// runDataset executes a single dataset fetch with a drain goroutine
// saving observations as they stream in
func runDataset(ctx context.Context, myLibrary *library.Library, ds dataset.Dataset, client *yahoo.Client, symbols []string, start, end time.Time) data.RunSummary {
	job := &dataset.Job{
		RunID:     uuid.New(),
		Symbols:   symbols,
		Client:    client,
		StartDate: start,
		EndDate:   end,
	}

	fetchLogger := log.With().Str("Dataset", ds.Name).Str("RunID", job.RunID.String()[:6]).Logger()
	fetchCtx := fetchLogger.WithContext(ctx)

	outChan := make(chan *data.Observation, 100)
	exitNotification := make(chan data.RunSummary, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go myLibrary.SaveObservations(outChan, &wg)

	fetchLogger.Info().Int("NumSymbols", len(symbols)).Msg("starting dataset load")
	ds.Fetch(fetchCtx, job, outChan, exitNotification)

	close(outChan)
	wg.Wait()

	summary := <-exitNotification
	fetchLogger.Info().
		Int("NumObservations", summary.NumObservations).
		Int("NumFailed", summary.NumFailed).
		Str("RunTime", durafmt.Parse(summary.EndTime.Sub(summary.StartTime)).String()).
		Msg("dataset load finished")

	return summary
}

// renderSummaries draws a run report box for display on the terminal
func renderSummaries(summaries []data.RunSummary) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n\n", lipgloss.NewStyle().Bold(true).Render("LOAD SUMMARY"))

	for _, summary := range summaries {
		fmt.Fprintf(&sb, "%s: %d observations, %d of %d symbols failed (%s)\n",
			summary.Dataset, summary.NumObservations, summary.NumFailed,
			summary.NumSymbols, durafmt.Parse(summary.EndTime.Sub(summary.StartTime)).String())
	}

	return lipgloss.NewStyle().
		Width(78).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2).
		Render(sb.String())
}

// loadDateRange resolves the --start and --end flags; the default range
// covers the five years ending today
func loadDateRange() (time.Time, time.Time) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	if loadEndStr != "" {
		var err error
		end, err = time.Parse("2006-01-02", loadEndStr)
		if err != nil {
			log.Fatal().Err(err).Str("End", loadEndStr).Msg("could not parse end date")
		}
	}

	start := end.AddDate(-5, 0, 0)
	if loadStartStr != "" {
		var err error
		start, err = time.Parse("2006-01-02", loadStartStr)
		if err != nil {
			log.Fatal().Err(err).Str("Start", loadStartStr).Msg("could not parse start date")
		}
	}

	if end.Before(start) {
		log.Fatal().Time("Start", start).Time("End", end).Msg("end date is before start date")
	}

	return start, end
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringSliceVar(&loadDatasets, "datasets", nil, "load only these datasets instead of all of them")
	loadCmd.Flags().StringVar(&loadUniverse, "universe", "", "csv file of symbols to add to the universe before loading")
	loadCmd.Flags().StringVar(&loadStartStr, "start", "", "start of the date range (YYYY-MM-DD, default 5 years ago)")
	loadCmd.Flags().StringVar(&loadEndStr, "end", "", "end of the date range (YYYY-MM-DD, default today)")
}
