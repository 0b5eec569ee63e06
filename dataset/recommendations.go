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
	"strconv"
	"strings"
	"time"

	"github.com/openquant/eqdata/data"
	"github.com/openquant/eqdata/yahoo"
	"github.com/rs/zerolog"
)

func fetchRecommendations(ctx context.Context, job *Job, out chan<- *data.Observation, exitNotification chan<- data.RunSummary) {
	runSummary := data.RunSummary{
		RunID:     job.RunID,
		Dataset:   "recommendations",
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
		processed, emitted, err := recommendationsForSymbol(ctx, job, out, symbol)
		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("fetching recommendations failed")
			runSummary.NumFailed++
		}

		numObs += emitted
		out <- &data.Observation{
			IngestLogEntry:  logEntry(job, "recommendations", symbol, processed, emitted, err),
			ObservationDate: time.Now(),
			RunID:           job.RunID,
			Dataset:         "recommendations",
		}
	}
}

func recommendationsForSymbol(ctx context.Context, job *Job, out chan<- *data.Observation, symbol string) (int, int, error) {
	result, err := job.Client.QuoteSummary(ctx, symbol, yahoo.ModuleRecommendationTrend)
	if err != nil {
		return 0, 0, err
	}

	if result.RecommendationTrend == nil {
		return 0, 0, nil
	}

	processed := 0
	emitted := 0
	for _, trend := range result.RecommendationTrend.Trend {
		processed++

		periodStart, periodEnd, ok := trendPeriod(trend.Period, time.Now().UTC())
		if !ok {
			continue
		}

		out <- &data.Observation{
			Recommendation: &data.Recommendation{
				Symbol:      symbol,
				PeriodStart: periodStart,
				PeriodEnd:   periodEnd,
				StrongBuy:   trend.StrongBuy,
				Buy:         trend.Buy,
				Hold:        trend.Hold,
				Sell:        trend.Sell,
				StrongSell:  trend.StrongSell,
			},
			ObservationDate: periodEnd,
			RunID:           job.RunID,
			Dataset:         "recommendations",
		}

		emitted++
	}

	return processed, emitted, nil
}

// trendPeriod resolves a relative period label such as "0m" or "-2m"
// to the first and last day of the referenced calendar month
func trendPeriod(period string, now time.Time) (time.Time, time.Time, bool) {
	offset, err := strconv.Atoi(strings.TrimSuffix(period, "m"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
	periodStart := month
	periodEnd := month.AddDate(0, 1, -1)

	return periodStart, periodEnd, true
}
