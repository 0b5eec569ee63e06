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
	"time"

	"github.com/openquant/eqdata/library"
	"github.com/openquant/eqdata/yahoo"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var pingSymbol string

// pingCmd represents the ping command
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to the database and the upstream API",
	Long: `The ping sub-command connects to the configured database and fetches a
single quote from the upstream API. Use it to verify credentials and network
access before scheduling a full load.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myLibrary := &library.Library{
			DBUrl: viper.GetString("database.url"),
		}

		if err := myLibrary.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer myLibrary.Close()

		if err := myLibrary.Pool.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("database did not respond to ping")
		}

		log.Info().Msg("database connection ok")

		client := yahoo.New(
			yahoo.WithRateLimit(viper.GetInt("yahoo.rate_limit")),
			yahoo.WithSymbolSuffix(viper.GetString("yahoo.symbol_suffix")),
		)

		end := time.Now().UTC()
		start := end.AddDate(0, 0, -7)

		result, err := client.Chart(ctx, pingSymbol, start, end)
		if err != nil {
			log.Fatal().Err(err).Str("Symbol", pingSymbol).Msg("upstream API did not respond")
		}

		log.Info().Str("Symbol", result.Meta.Symbol).Str("Currency", result.Meta.Currency).
			Int("NumBars", len(result.Timestamp)).Msg("upstream API connection ok")
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)

	pingCmd.Flags().StringVar(&pingSymbol, "symbol", "RELIANCE", "symbol used for the API connectivity check")
}
