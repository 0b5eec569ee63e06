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

	"github.com/charmbracelet/glamour"
	"github.com/openquant/eqdata/library"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var deactivateSymbols []string

// tickersCmd represents the tickers command
var tickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "List the ticker universe",
	Long: `The tickers sub-command lists every ticker in the library. Symbols
passed to --deactivate are marked inactive first; subsequent loads skip
them while their saved data stays in the database.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myLibrary := &library.Library{
			DBUrl: viper.GetString("database.url"),
			Name:  viper.GetString("library.name"),
			Owner: viper.GetString("library.owner"),
		}

		if err := myLibrary.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to library")
		}
		defer myLibrary.Close()

		for _, symbol := range deactivateSymbols {
			if err := myLibrary.Deactivate(ctx, symbol); err != nil {
				log.Fatal().Err(err).Str("Symbol", symbol).Msg("could not deactivate ticker")
			}
			log.Info().Str("Symbol", symbol).Msg("ticker deactivated")
		}

		tickers, err := myLibrary.Tickers(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("could not query tickers")
		}

		r, _ := glamour.NewTermRenderer(
			// detect background color and pick either the default dark or light theme
			glamour.WithAutoStyle(),
			// ticker tables are wide
			glamour.WithWordWrap(120),
		)

		out, err := r.Render(library.TickerTable(tickers))
		if err != nil {
			log.Fatal().Err(err).Msg("could not render ticker table")
		}

		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(tickersCmd)
	tickersCmd.Flags().StringSliceVar(&deactivateSymbols, "deactivate", nil, "mark these symbols inactive before listing")
}
