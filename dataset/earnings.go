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
	"github.com/openquant/eqdata/yahoo"
	"github.com/rs/zerolog"
)

func fetchEarnings(ctx context.Context, job *Job, out chan<- *data.Observation, exitNotification chan<- data.RunSummary) {
	runSummary := data.RunSummary{
		RunID:     job.RunID,
		Dataset:   "earnings",
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
		processed, emitted, err := earningsForSymbol(ctx, job, out, symbol)
		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("fetching earnings history failed")
			runSummary.NumFailed++
		}

		numObs += emitted
		out <- &data.Observation{
			IngestLogEntry:  logEntry(job, "earnings", symbol, processed, emitted, err),
			ObservationDate: time.Now(),
			RunID:           job.RunID,
			Dataset:         "earnings",
		}
	}
}

func earningsForSymbol(ctx context.Context, job *Job, out chan<- *data.Observation, symbol string) (int, int, error) {
	result, err := job.Client.QuoteSummary(ctx, symbol, yahoo.ModuleEarningsHistory)
	if err != nil {
		return 0, 0, err
	}

	if result.EarningsHistory == nil {
		return 0, 0, nil
	}

	processed := 0
	emitted := 0
	for _, row := range result.EarningsHistory.History {
		processed++

		periodEnd := row.Quarter.Time()
		if periodEnd.IsZero() {
			continue
		}

		out <- &data.Observation{
			EarningsReport: &data.EarningsReport{
				Symbol:      symbol,
				PeriodEnd:   periodEnd,
				EpsActual:   row.EpsActual.Float(),
				EpsEstimate: row.EpsEstimate.Float(),
				EpsSurprise: row.EpsDifference.Float(),
				SurprisePct: row.SurprisePercent.Float(),
			},
			ObservationDate: periodEnd,
			RunID:           job.RunID,
			Dataset:         "earnings",
		}

		emitted++
	}

	return processed, emitted, nil
}
