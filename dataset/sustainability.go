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

func fetchSustainability(ctx context.Context, job *Job, out chan<- *data.Observation, exitNotification chan<- data.RunSummary) {
	runSummary := data.RunSummary{
		RunID:     job.RunID,
		Dataset:   "sustainability",
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
		esgScore, err := sustainabilityForSymbol(ctx, job, symbol)

		numRecords := 0
		if esgScore != nil {
			out <- &data.Observation{
				ESGScore:        esgScore,
				ObservationDate: esgScore.EventDate,
				RunID:           job.RunID,
				Dataset:         "sustainability",
			}
			numRecords = 1
			numObs++
		}

		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("fetching esg scores failed")
			runSummary.NumFailed++
		}

		out <- &data.Observation{
			IngestLogEntry:  logEntry(job, "sustainability", symbol, numRecords, numRecords, err),
			ObservationDate: time.Now(),
			RunID:           job.RunID,
			Dataset:         "sustainability",
		}
	}
}

func sustainabilityForSymbol(ctx context.Context, job *Job, symbol string) (*data.ESGScore, error) {
	result, err := job.Client.QuoteSummary(ctx, symbol, yahoo.ModuleEsgScores)
	if err != nil {
		return nil, err
	}

	scores := result.EsgScores
	if scores == nil {
		return nil, nil
	}

	eventDate := time.Now().UTC().Truncate(24 * time.Hour)
	if scores.RatingYear != nil && scores.RatingMonth != nil {
		eventDate = time.Date(*scores.RatingYear, time.Month(*scores.RatingMonth), 1, 0, 0, 0, 0, time.UTC)
	}

	return &data.ESGScore{
		Symbol:             symbol,
		EventDate:          eventDate,
		TotalEsg:           scores.TotalEsg.Float(),
		EnvironmentScore:   scores.EnvironmentScore.Float(),
		SocialScore:        scores.SocialScore.Float(),
		GovernanceScore:    scores.GovernanceScore.Float(),
		HighestControversy: scores.HighestControversy.Float(),
	}, nil
}
