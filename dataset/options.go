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

func fetchOptions(ctx context.Context, job *Job, out chan<- *data.Observation, exitNotification chan<- data.RunSummary) {
	runSummary := data.RunSummary{
		RunID:     job.RunID,
		Dataset:   "options",
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
		processed, emitted, err := optionsForSymbol(ctx, job, out, symbol)
		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("fetching option chain failed")
			runSummary.NumFailed++
		}

		numObs += emitted
		out <- &data.Observation{
			IngestLogEntry:  logEntry(job, "options", symbol, processed, emitted, err),
			ObservationDate: time.Now(),
			RunID:           job.RunID,
			Dataset:         "options",
		}
	}
}

func optionsForSymbol(ctx context.Context, job *Job, out chan<- *data.Observation, symbol string) (int, int, error) {
	chain, err := job.Client.OptionChain(ctx, symbol, 0)
	if err != nil {
		return 0, 0, err
	}

	processed, emitted := streamContracts(job, out, symbol, chain)

	// the first response lists the remaining expirations; fetch each one
	seen := make(map[int64]bool)
	for _, block := range chain.Options {
		seen[block.ExpirationDate] = true
	}

	for _, expiration := range chain.ExpirationDates {
		if seen[expiration] {
			continue
		}

		expChain, err := job.Client.OptionChain(ctx, symbol, expiration)
		if err != nil {
			return processed, emitted, err
		}

		p, e := streamContracts(job, out, symbol, expChain)
		processed, emitted = processed+p, emitted+e
	}

	return processed, emitted, nil
}

func streamContracts(job *Job, out chan<- *data.Observation, symbol string, chain *yahoo.OptionChainResult) (int, int) {
	processed := 0
	emitted := 0

	for _, block := range chain.Options {
		p, e := streamContractList(job, out, symbol, data.CallOption, block.Calls)
		processed, emitted = processed+p, emitted+e

		p, e = streamContractList(job, out, symbol, data.PutOption, block.Puts)
		processed, emitted = processed+p, emitted+e
	}

	return processed, emitted
}

func streamContractList(job *Job, out chan<- *data.Observation, symbol string, optionType data.OptionType, contracts []yahoo.OptionContract) (int, int) {
	processed := 0
	emitted := 0

	for _, contract := range contracts {
		processed++

		if contract.ContractSymbol == "" {
			continue
		}

		expirationDate := time.Unix(contract.Expiration, 0).UTC().Truncate(24 * time.Hour)
		inTheMoney := contract.InTheMoney

		out <- &data.Observation{
			OptionContract: &data.OptionContract{
				ContractSymbol:    contract.ContractSymbol,
				Symbol:            symbol,
				OptionType:        optionType,
				ExpirationDate:    expirationDate,
				Strike:            contract.Strike.Float(),
				LastPrice:         contract.LastPrice.Float(),
				Bid:               contract.Bid.Float(),
				Ask:               contract.Ask.Float(),
				Volume:            contract.Volume.Int64(),
				OpenInterest:      contract.OpenInterest.Int64(),
				ImpliedVolatility: contract.ImpliedVolatility.Float(),
				InTheMoney:        &inTheMoney,
			},
			ObservationDate: time.Now(),
			RunID:           job.RunID,
			Dataset:         "options",
		}

		emitted++
	}

	return processed, emitted
}
