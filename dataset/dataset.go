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

// Package dataset defines the fetchable datasets. Each dataset walks
// the requested symbol list, retrieves records from the upstream API
// and streams them as observations; a failure for one symbol is logged
// and recorded in the ingestion log without stopping the run.
package dataset

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/openquant/eqdata/data"
	"github.com/openquant/eqdata/yahoo"
)

// Job carries the parameters of a single fetch run
type Job struct {
	RunID     uuid.UUID
	Symbols   []string
	Client    *yahoo.Client
	StartDate time.Time
	EndDate   time.Time
}

type Dataset struct {
	Name        string
	Description string
	Tables      []string

	// Fetch retrieves records for every symbol in the job and writes them
	// to out. A RunSummary is sent on exitNotification when the fetch
	// completes.
	Fetch func(context.Context, *Job, chan<- *data.Observation, chan<- data.RunSummary)
}

// Map returns the dataset registry keyed by dataset name
func Map() map[string]Dataset {
	return map[string]Dataset{
		"prices": {
			Name:        "prices",
			Description: "Daily open, high, low, close, adjusted close and volume with dividend and split events.",
			Tables:      []string{data.PriceTable},
			Fetch:       fetchPrices,
		},
		"profile": {
			Name:        "profile",
			Description: "Company name, exchange, sector, industry and the raw profile document.",
			Tables:      []string{data.TickerTable},
			Fetch:       fetchProfile,
		},
		"fundamentals": {
			Name:        "fundamentals",
			Description: "Valuation ratios, margins, growth rates and balance sheet aggregates.",
			Tables:      []string{data.FundamentalTable},
			Fetch:       fetchFundamentals,
		},
		"statements": {
			Name:        "statements",
			Description: "Annual income statement, balance sheet and cash flow line items.",
			Tables:      []string{data.StatementTable},
			Fetch:       fetchStatements,
		},
		"earnings": {
			Name:        "earnings",
			Description: "Quarterly EPS actuals, estimates and surprises.",
			Tables:      []string{data.EarningsTable},
			Fetch:       fetchEarnings,
		},
		"recommendations": {
			Name:        "recommendations",
			Description: "Monthly analyst recommendation counts.",
			Tables:      []string{data.RecommendationTable},
			Fetch:       fetchRecommendations,
		},
		"sustainability": {
			Name:        "sustainability",
			Description: "ESG scores and controversy levels.",
			Tables:      []string{data.SustainabilityTable},
			Fetch:       fetchSustainability,
		},
		"holders": {
			Name:        "holders",
			Description: "Institutional and mutual fund ownership positions.",
			Tables:      []string{data.HolderTable},
			Fetch:       fetchHolders,
		},
		"options": {
			Name:        "options",
			Description: "Option chain snapshots for every listed expiration.",
			Tables:      []string{data.OptionTable},
			Fetch:       fetchOptions,
		},
	}
}

// Names returns the sorted names of all registered datasets
func Names() []string {
	datasets := Map()
	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// logEntry builds the ingestion log record for one symbol of a run.
// processed counts the rows the source returned, emitted the rows that
// could be mapped and streamed; the difference is recorded as failed.
func logEntry(job *Job, dataset string, symbol string, processed int, emitted int, err error) *data.IngestLog {
	entry := &data.IngestLog{
		RunID:             job.RunID,
		Symbol:            symbol,
		Dataset:           dataset,
		RecordsProcessed:  processed,
		RecordsSuccessful: emitted,
		RecordsFailed:     processed - emitted,
		Status:            data.IngestSuccess,
	}

	switch {
	case err != nil && emitted > 0:
		entry.Status = data.IngestPartial
		entry.ErrorMessage = err.Error()
	case err != nil:
		entry.Status = data.IngestFailed
		entry.ErrorMessage = err.Error()
	case emitted < processed:
		entry.Status = data.IngestPartial
	}

	return entry
}
