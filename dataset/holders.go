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

func fetchHolders(ctx context.Context, job *Job, out chan<- *data.Observation, exitNotification chan<- data.RunSummary) {
	runSummary := data.RunSummary{
		RunID:     job.RunID,
		Dataset:   "holders",
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
		processed, emitted, err := holdersForSymbol(ctx, job, out, symbol)
		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("fetching holders failed")
			runSummary.NumFailed++
		}

		numObs += emitted
		out <- &data.Observation{
			IngestLogEntry:  logEntry(job, "holders", symbol, processed, emitted, err),
			ObservationDate: time.Now(),
			RunID:           job.RunID,
			Dataset:         "holders",
		}
	}
}

func holdersForSymbol(ctx context.Context, job *Job, out chan<- *data.Observation, symbol string) (int, int, error) {
	result, err := job.Client.QuoteSummary(ctx, symbol,
		yahoo.ModuleInstitutionOwnership, yahoo.ModuleFundOwnership)
	if err != nil {
		return 0, 0, err
	}

	p1, e1 := streamHolders(job, out, symbol, data.InstitutionalHolder, result.InstitutionOwnership)
	p2, e2 := streamHolders(job, out, symbol, data.MutualFundHolder, result.FundOwnership)

	return p1 + p2, e1 + e2, nil
}

func streamHolders(job *Job, out chan<- *data.Observation, symbol string, holderType data.HolderType, ownership *yahoo.OwnershipList) (int, int) {
	if ownership == nil {
		return 0, 0
	}

	processed := 0
	emitted := 0
	for _, position := range ownership.OwnershipList {
		processed++

		dateReported := position.ReportDate.Time()
		if position.Organization == "" || dateReported.IsZero() {
			continue
		}

		out <- &data.Observation{
			Holder: &data.Holder{
				Symbol:       symbol,
				HolderName:   position.Organization,
				HolderType:   holderType,
				DateReported: dateReported,
				Shares:       position.Position.Int64(),
				PercentHeld:  position.PctHeld.Float(),
				Value:        position.Value.Int64(),
			},
			ObservationDate: dateReported,
			RunID:           job.RunID,
			Dataset:         "holders",
		}

		emitted++
	}

	return processed, emitted
}
