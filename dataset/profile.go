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
package dataset

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/openquant/eqdata/data"
	"github.com/openquant/eqdata/figi"
	"github.com/openquant/eqdata/yahoo"
	"github.com/rs/zerolog"
)

func fetchProfile(ctx context.Context, job *Job, out chan<- *data.Observation, exitNotification chan<- data.RunSummary) {
	runSummary := data.RunSummary{
		RunID:     job.RunID,
		Dataset:   "profile",
		StartTime: time.Now(),
	}

	numObs := 0

	defer func() {
		runSummary.EndTime = time.Now()
		runSummary.NumObservations = numObs
		runSummary.NumSymbols = len(job.Symbols)
		exitNotification <- runSummary
	}()

	logger := zerolog.Ctx(ctx)
	tickers := make([]*data.Ticker, 0, len(job.Symbols))

	for _, symbol := range job.Symbols {
		ticker, err := profileForSymbol(ctx, job, symbol)

		numRecords := 0
		if ticker != nil {
			tickers = append(tickers, ticker)
			numRecords = 1
		}

		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("fetching profile failed")
			runSummary.NumFailed++
		}

		out <- &data.Observation{
			IngestLogEntry:  logEntry(job, "profile", symbol, numRecords, numRecords, err),
			ObservationDate: time.Now(),
			RunID:           job.RunID,
			Dataset:         "profile",
		}
	}

	// fill names and exchange codes yahoo did not provide
	figi.Enrich(tickers...)

	for _, ticker := range tickers {
		out <- &data.Observation{
			TickerObject:    ticker,
			ObservationDate: ticker.LastUpdated,
			RunID:           job.RunID,
			Dataset:         "profile",
		}
		numObs++
	}
}

func profileForSymbol(ctx context.Context, job *Job, symbol string) (*data.Ticker, error) {
	result, err := job.Client.QuoteSummary(ctx, symbol,
		yahoo.ModuleAssetProfile, yahoo.ModulePrice)
	if err != nil {
		return nil, err
	}

	ticker := &data.Ticker{
		Symbol:      symbol,
		Active:      true,
		LastUpdated: time.Now(),
	}

	if result.Price != nil {
		ticker.Name = result.Price.LongName
		if ticker.Name == "" {
			ticker.Name = result.Price.ShortName
		}
		ticker.Exchange = result.Price.ExchangeName
		ticker.Currency = result.Price.Currency
	}

	if result.AssetProfile != nil {
		ticker.Sector = result.AssetProfile.Sector
		ticker.Industry = result.AssetProfile.Industry

		if raw, err := json.Marshal(result.AssetProfile); err == nil {
			ticker.RawInfo = raw
		}
	}

	return ticker, nil
}
