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
package library

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/openquant/eqdata/data"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RecentRun is an aggregate of the ingestion log rows belonging to a
// single run id
type RecentRun struct {
	RunID      string    `db:"run_id"`
	Dataset    string    `db:"dataset"`
	NumSymbols int       `db:"num_symbols"`
	NumFailed  int       `db:"num_failed"`
	FinishedOn time.Time `db:"finished_on"`
}

// RecentRuns returns aggregates of the most recent ingestion runs,
// newest first
func (myLibrary *Library) RecentRuns(ctx context.Context, limit int) ([]*RecentRun, error) {
	var runs []*RecentRun
	err := pgxscan.Select(ctx, myLibrary.Pool, &runs,
		`SELECT run_id::text AS run_id, dataset, count(*) AS num_symbols,
count(*) FILTER (WHERE status = 'FAILED') AS num_failed,
max(created_on) AS finished_on
FROM ingestion_log GROUP BY run_id, dataset ORDER BY finished_on DESC LIMIT $1`, limit)
	return runs, err
}

// RecordCounts returns the number of rows in every data table
func (myLibrary *Library) RecordCounts(ctx context.Context) (map[string]int, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	tables := []string{data.TickerTable, data.PriceTable, data.FundamentalTable,
		data.StatementTable, data.EarningsTable, data.RecommendationTable,
		data.SustainabilityTable, data.HolderTable, data.OptionTable}

	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		count := 0
		if err := conn.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", table)).Scan(&count); err != nil {
			return nil, err
		}
		counts[table] = count
	}

	return counts, nil
}

// Summary returns a description of the library in markdown
func (myLibrary *Library) Summary(ctx context.Context) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	if _, err := builder.WriteString(fmt.Sprintf("# %s\n", myLibrary.Name)); err != nil {
		return "", err
	}

	if _, err := builder.WriteString("## Details\n\n"); err != nil {
		return "", err
	}

	if _, err := builder.WriteString(fmt.Sprintf("Database: %s\n\n", myLibrary.DBUrl)); err != nil {
		return "", err
	}

	totalSecurities, err := myLibrary.TotalSecurities(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Securities Tracked: %d\n", totalSecurities)); err != nil {
		return "", err
	}

	totalRecords, err := myLibrary.TotalRecords(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Price Records: %d\n\n", totalRecords)); err != nil {
		return "", err
	}

	lastUpdated, err := myLibrary.LastUpdated(ctx)
	if err != nil {
		return "", err
	}

	age := timeago.English.Format(lastUpdated)

	if lastUpdated.Year() <= 1 {
		if _, err := builder.WriteString("Last Updated: Never\n\n"); err != nil {
			return "", err
		}
	} else {
		if _, err := builder.WriteString(fmt.Sprintf("Last Updated: %s (%s)\n\n", age,
			lastUpdated.Local().Format("01/02/2006"))); err != nil {
			return "", err
		}
	}

	if _, err := builder.WriteString("## Tables\n\n"); err != nil {
		return "", err
	}

	counts, err := myLibrary.RecordCounts(ctx)
	if err != nil {
		return "", err
	}

	tables := []string{data.TickerTable, data.PriceTable, data.FundamentalTable,
		data.StatementTable, data.EarningsTable, data.RecommendationTable,
		data.SustainabilityTable, data.HolderTable, data.OptionTable}
	for _, table := range tables {
		if _, err := builder.WriteString(p.Sprintf("  * %s: %d\n", table, counts[table])); err != nil {
			return "", err
		}
	}

	if _, err := builder.WriteString("\n## Recent runs\n\n"); err != nil {
		return "", err
	}

	runs, err := myLibrary.RecentRuns(ctx, 10)
	if err != nil {
		return "", err
	}

	for _, run := range runs {
		if _, err := builder.WriteString(p.Sprintf("  * %s: %d symbols, %d failed (%s) [%s]\n",
			run.Dataset, run.NumSymbols, run.NumFailed,
			timeago.English.Format(run.FinishedOn), run.RunID[:6])); err != nil {
			return "", err
		}
	}

	return builder.String(), nil
}

// CompletenessReport renders the data_completeness table as a markdown
// table pivoted by symbol
func (myLibrary *Library) CompletenessReport(ctx context.Context) (string, error) {
	rows, err := myLibrary.Completeness(ctx)
	if err != nil {
		return "", err
	}

	datasets := []string{"prices", "fundamentals", "statements", "earnings",
		"recommendations", "sustainability", "holders", "options"}

	pivot := make(map[string]map[string]float64)
	symbols := make([]string, 0)
	for _, row := range rows {
		if _, ok := pivot[row.Symbol]; !ok {
			pivot[row.Symbol] = make(map[string]float64, len(datasets))
			symbols = append(symbols, row.Symbol)
		}
		pivot[row.Symbol][row.Dataset] = row.CompletenessPct
	}

	builder := strings.Builder{}
	builder.WriteString("# Data completeness\n\n")
	builder.WriteString("| Symbol |")
	for _, dataset := range datasets {
		builder.WriteString(fmt.Sprintf(" %s |", dataset))
	}
	builder.WriteString("\n|--------|")
	for range datasets {
		builder.WriteString("------|")
	}
	builder.WriteString("\n")

	for _, symbol := range symbols {
		builder.WriteString(fmt.Sprintf("| %s |", symbol))
		for _, dataset := range datasets {
			builder.WriteString(fmt.Sprintf(" %.1f%% |", pivot[symbol][dataset]))
		}
		builder.WriteString("\n")
	}

	return builder.String(), nil
}
