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

	"github.com/openquant/eqdata/data"
	"github.com/rs/zerolog"
)

func fetchPrices(ctx context.Context, job *Job, out chan<- *data.Observation, exitNotification chan<- data.RunSummary) {
	runSummary := data.RunSummary{
		RunID:     job.RunID,
		Dataset:   "prices",
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

	for _, symbol := range job.Symbols {
		processed, emitted, err := pricesForSymbol(ctx, job, out, symbol)
		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("fetching price history failed")
			runSummary.NumFailed++
		}

		numObs += emitted
		out <- &data.Observation{
			IngestLogEntry:  logEntry(job, "prices", symbol, processed, emitted, err),
			ObservationDate: time.Now(),
			RunID:           job.RunID,
			Dataset:         "prices",
		}
	}
}

func pricesForSymbol(ctx context.Context, job *Job, out chan<- *data.Observation, symbol string) (int, int, error) {
	result, err := job.Client.Chart(ctx, symbol, job.StartDate, job.EndDate)
	if err != nil {
		return 0, 0, err
	}

	if len(result.Indicators.Quote) == 0 {
		return 0, 0, nil
	}

	quote := result.Indicators.Quote[0]

	var adjClose []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	dividends := make(map[string]*float64, len(result.Events.Dividends))
	for _, dividend := range result.Events.Dividends {
		amount := dividend.Amount
		dividends[dayKey(dividend.Date)] = &amount
	}

	splits := make(map[string]*float64, len(result.Events.Splits))
	for _, split := range result.Events.Splits {
		if split.Denominator == 0 {
			continue
		}
		factor := split.Numerator / split.Denominator
		splits[dayKey(split.Date)] = &factor
	}

	numRecords := 0
	for idx, stamp := range result.Timestamp {
		eventDate := time.Unix(stamp, 0).UTC().Truncate(24 * time.Hour)

		bar := &data.PriceBar{
			Symbol:      symbol,
			EventDate:   eventDate,
			Dividend:    dividends[dayKey(stamp)],
			SplitFactor: splits[dayKey(stamp)],
		}

		if idx < len(quote.Open) {
			bar.Open = quote.Open[idx]
		}
		if idx < len(quote.High) {
			bar.High = quote.High[idx]
		}
		if idx < len(quote.Low) {
			bar.Low = quote.Low[idx]
		}
		if idx < len(quote.Close) {
			bar.Close = quote.Close[idx]
		}
		if idx < len(quote.Volume) {
			bar.Volume = quote.Volume[idx]
		}
		if idx < len(adjClose) {
			bar.AdjClose = adjClose[idx]
		}

		out <- &data.Observation{
			PriceBar:        bar,
			ObservationDate: eventDate,
			RunID:           job.RunID,
			Dataset:         "prices",
		}

		numRecords++
	}

	return numRecords, numRecords, nil
}

// dayKey normalizes a unix timestamp to its UTC calendar day so bars
// and events taken at different intraday times still line up
func dayKey(stamp int64) string {
	return time.Unix(stamp, 0).UTC().Format("2006-01-02")
}
