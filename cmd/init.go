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
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/jackc/pgx/v5"
	"github.com/openquant/eqdata/db"
	"github.com/openquant/eqdata/healthcheck"
	"github.com/openquant/eqdata/yahoo"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type initialConfig struct {
	Library struct {
		Name  string `toml:"name"`
		Owner string `toml:"owner"`
	} `toml:"library"`

	Database struct {
		URL string `toml:"url"`
	} `toml:"database"`

	Yahoo struct {
		RateLimit    int    `toml:"rate_limit"`
		SymbolSuffix string `toml:"symbol_suffix"`
	} `toml:"yahoo"`

	Healthchecks struct {
		APIKey  string `toml:"apikey"`
		CheckID string `toml:"check_id"`
	} `toml:"healthchecks"`
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Gather database configuration and setup schema",
	Run: func(cmd *cobra.Command, args []string) {
		config := initialConfig{}
		config.Yahoo.RateLimit = yahoo.DefaultRateLimit
		config.Yahoo.SymbolSuffix = ".NS"

		suffix := config.Yahoo.SymbolSuffix
		monitorRuns := false

		form := huh.NewForm(
			// Gather details about the library and who owns it
			huh.NewGroup(
				huh.NewInput().
					Title("Give the library a name:").
					Value(&config.Library.Name),

				huh.NewInput().
					Title("Who owns the library?").
					Value(&config.Library.Owner),
			),

			// Get details about the database
			huh.NewGroup(
				huh.NewInput().
					Title("Provide the DSN for connecting to your PostgreSQL database (postgres://[user[:password]@][netloc][:port][/dbname][?param1=value1&...])").
					Value(&config.Database.URL).
					Validate(func(dsn string) error {
						_, err := pgx.ParseConfig(dsn)
						return err
					}),
			),

			// Get details about the upstream API
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Which exchange suffix should be appended to symbols?").
					Options(
						huh.NewOption("National Stock Exchange (.NS)", ".NS"),
						huh.NewOption("Bombay Stock Exchange (.BO)", ".BO"),
						huh.NewOption("None (US listings)", ""),
					).
					Value(&suffix),
			),

			// Optionally monitor load runs with healthchecks.io
			huh.NewGroup(
				huh.NewConfirm().
					Title("Should a healthchecks.io monitor report load runs?").
					Value(&monitorRuns),

				huh.NewInput().
					Title("healthchecks.io API key (leave blank to skip)").
					Value(&config.Healthchecks.APIKey),
			),
		)

		err := form.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("error gathering database settings")
		}

		config.Yahoo.SymbolSuffix = suffix

		if monitorRuns && config.Healthchecks.APIKey != "" {
			viper.Set("healthchecks.apikey", config.Healthchecks.APIKey)
			checkID, err := healthcheck.Create(config.Library.Name, "eqdata-load",
				[]string{"eqdata"}, "0 18 * * 1-5")
			if err != nil {
				log.Fatal().Err(err).Msg("creating healthcheck failed")
			}
			config.Healthchecks.CheckID = checkID
			log.Info().Str("CheckID", checkID).Msg("created healthchecks.io monitor")
		}

		log.Info().Msg("creating database tables")

		// run migration
		dbURL := strings.Replace(config.Database.URL, "postgres://", "pgx5://", -1)
		err = db.Migrate(dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("error running database migration")
		}

		log.Info().Msg("database tables created")

		// save database settings to config file
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine user home directory")
		}

		configFN := filepath.Join(home, ".eqdata.toml")
		log.Info().Str("ConfigFile", configFN).Msg("Saving database connection info to config file")
		configData, err := toml.Marshal(config)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		err = os.WriteFile(configFN, configData, 0644)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		log.Info().Msg("Your data library has been initialized")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
