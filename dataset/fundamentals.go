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

func fetchFundamentals(ctx context.Context, job *Job, out chan<- *data.Observation, exitNotification chan<- data.RunSummary) {
	runSummary := data.RunSummary{
		RunID:     job.RunID,
		Dataset:   "fundamentals",
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
		fundamental, err := fundamentalForSymbol(ctx, job, symbol)

		numRecords := 0
		if fundamental != nil {
			out <- &data.Observation{
				Fundamental:     fundamental,
				ObservationDate: fundamental.EventDate,
				RunID:           job.RunID,
				Dataset:         "fundamentals",
			}
			numRecords = 1
			numObs++
		}

		if err != nil {
			logger.Error().Err(err).Str("Symbol", symbol).Msg("fetching fundamentals failed")
			runSummary.NumFailed++
		}

		out <- &data.Observation{
			IngestLogEntry:  logEntry(job, "fundamentals", symbol, numRecords, numRecords, err),
			ObservationDate: time.Now(),
			RunID:           job.RunID,
			Dataset:         "fundamentals",
		}
	}
}

func fundamentalForSymbol(ctx context.Context, job *Job, symbol string) (*data.Fundamental, error) {
	result, err := job.Client.QuoteSummary(ctx, symbol, yahoo.ModuleSummaryDetail,
		yahoo.ModuleKeyStatistics, yahoo.ModuleFinancialData, yahoo.ModulePrice)
	if err != nil {
		return nil, err
	}

	fundamental := &data.Fundamental{
		Symbol:    symbol,
		EventDate: time.Now().UTC().Truncate(24 * time.Hour),
	}

	if detail := result.SummaryDetail; detail != nil {
		fundamental.MarketCap = detail.MarketCap.Int64()
		fundamental.TrailingPE = detail.TrailingPE.Float()
		fundamental.ForwardPE = detail.ForwardPE.Float()
		fundamental.PriceToSalesTTM = detail.PriceToSales.Float()
		fundamental.Beta = detail.Beta.Float()
		fundamental.DividendYield = detail.DividendYield.Float()
		fundamental.DividendRate = detail.DividendRate.Float()
		fundamental.PayoutRatio = detail.PayoutRatio.Float()
	}

	if fundamental.MarketCap == nil && result.Price != nil {
		fundamental.MarketCap = result.Price.MarketCap.Int64()
	}

	if stats := result.KeyStatistics; stats != nil {
		fundamental.EnterpriseValue = stats.EnterpriseValue.Int64()
		fundamental.PriceToBook = stats.PriceToBook.Float()
		fundamental.PegRatio = stats.PegRatio.Float()
		fundamental.BookValue = stats.BookValue.Float()
		fundamental.EpsTTM = stats.TrailingEps.Float()
		fundamental.SharesOutstanding = stats.SharesOutstanding.Int64()
		fundamental.ProfitMargins = stats.ProfitMargins.Float()
	}

	if financial := result.FinancialData; financial != nil {
		fundamental.DebtToEquity = financial.DebtToEquity.Float()
		fundamental.CurrentRatio = financial.CurrentRatio.Float()
		fundamental.QuickRatio = financial.QuickRatio.Float()
		fundamental.ReturnOnEquity = financial.ReturnOnEquity.Float()
		fundamental.ReturnOnAssets = financial.ReturnOnAssets.Float()
		fundamental.GrossMargins = financial.GrossMargins.Float()
		fundamental.OperatingMargins = financial.OperatingMargins.Float()
		fundamental.RevenueGrowth = financial.RevenueGrowth.Float()
		fundamental.EarningsGrowth = financial.EarningsGrowth.Float()
		fundamental.TotalRevenue = financial.TotalRevenue.Int64()
		fundamental.TotalCash = financial.TotalCash.Int64()
		fundamental.TotalDebt = financial.TotalDebt.Int64()
		fundamental.FreeCashflow = financial.FreeCashflow.Int64()
		fundamental.OperatingCashflow = financial.OperatingCashflow.Int64()

		if fundamental.ProfitMargins == nil {
			fundamental.ProfitMargins = financial.ProfitMargins.Float()
		}
	}

	return fundamental, nil
}
