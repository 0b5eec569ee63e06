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
package data

import (
	"time"

	"github.com/google/uuid"
)

// table names created by the db migrations
const (
	TickerTable         = "tickers"
	PriceTable          = "price_history"
	FundamentalTable    = "fundamentals"
	StatementTable      = "financial_statements"
	EarningsTable       = "earnings"
	RecommendationTable = "recommendations"
	SustainabilityTable = "sustainability"
	HolderTable         = "holders"
	OptionTable         = "options_data"
	IngestLogTable      = "ingestion_log"
	CompletenessTable   = "data_completeness"
)

// RunSummary describes a single execution of a dataset fetch
type RunSummary struct {
	RunID           uuid.UUID
	Dataset         string
	StartTime       time.Time
	EndTime         time.Time
	NumObservations int
	NumSymbols      int
	NumFailed       int
}

// Observation is the envelope streamed from dataset fetchers to the
// library saver. Exactly one of the record pointers is set.
type Observation struct {
	TickerObject   *Ticker
	PriceBar       *PriceBar
	Fundamental    *Fundamental
	StatementLine  *StatementLine
	EarningsReport *EarningsReport
	Recommendation *Recommendation
	ESGScore       *ESGScore
	Holder         *Holder
	OptionContract *OptionContract
	IngestLogEntry *IngestLog

	ObservationDate time.Time
	RunID           uuid.UUID
	Dataset         string
}
