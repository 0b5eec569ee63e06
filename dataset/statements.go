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

// metadata keys that appear alongside the line items of a statement
var statementMetaKeys = map[string]bool{
	"endDate": true,
	"maxAge":  true,
}

func fetchStatements(ctx context.Context, job *Job, out chan<- *data.Observation, exitNotification chan<- data.RunSummary) {
	runSummary := data.RunSummary{
		RunID:     job.RunID,
		Dataset:   "statements",
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
		processed, emitted, err := statementsForSymbol(ctx, job, out, symbol)
		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("fetching financial statements failed")
			runSummary.NumFailed++
		}

		numObs += emitted
		out <- &data.Observation{
			IngestLogEntry:  logEntry(job, "statements", symbol, processed, emitted, err),
			ObservationDate: time.Now(),
			RunID:           job.RunID,
			Dataset:         "statements",
		}
	}
}

func statementsForSymbol(ctx context.Context, job *Job, out chan<- *data.Observation, symbol string) (int, int, error) {
	result, err := job.Client.QuoteSummary(ctx, symbol, yahoo.ModuleIncomeStatement,
		yahoo.ModuleBalanceSheet, yahoo.ModuleCashflowStatement)
	if err != nil {
		return 0, 0, err
	}

	processed := 0
	emitted := 0

	if result.IncomeHistory != nil {
		p, e := streamStatements(job, out, symbol, data.IncomeStatement, result.IncomeHistory.Statements)
		processed, emitted = processed+p, emitted+e
	}

	if result.BalanceSheetHistory != nil {
		p, e := streamStatements(job, out, symbol, data.BalanceSheet, result.BalanceSheetHistory.Statements)
		processed, emitted = processed+p, emitted+e
	}

	if result.CashflowHistory != nil {
		p, e := streamStatements(job, out, symbol, data.CashflowStatement, result.CashflowHistory.Statements)
		processed, emitted = processed+p, emitted+e
	}

	return processed, emitted, nil
}

// streamStatements writes one observation per statement line item and
// returns how many line items the source reported and how many could be
// emitted; line items of a statement without an end date count as
// processed but not emitted
func streamStatements(job *Job, out chan<- *data.Observation, symbol string, statementType data.StatementType, statements []yahoo.Statement) (int, int) {
	processed := 0
	emitted := 0

	for _, statement := range statements {
		periodEnd := statement.EndDate().Time()

		// annual reporting period
		periodStart := periodEnd.AddDate(-1, 0, 1)

		for lineItem, value := range statement {
			if statementMetaKeys[lineItem] {
				continue
			}

			processed++
			if periodEnd.IsZero() {
				continue
			}

			out <- &data.Observation{
				StatementLine: &data.StatementLine{
					Symbol:        symbol,
					StatementType: statementType,
					PeriodStart:   periodStart,
					PeriodEnd:     periodEnd,
					LineItem:      lineItem,
					Value:         value.Float(),
				},
				ObservationDate: periodEnd,
				RunID:           job.RunID,
				Dataset:         "statements",
			}

			emitted++
		}
	}

	return processed, emitted
}
