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
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/rs/zerolog/log"
)

// CompletenessRow is one (symbol, dataset) entry of the
// data_completeness table
type CompletenessRow struct {
	Symbol          string    `db:"symbol"`
	Dataset         string    `db:"dataset"`
	ExpectedRecords int       `db:"expected_records"`
	ActualRecords   int       `db:"actual_records"`
	CompletenessPct float64   `db:"completeness_pct"`
	LastChecked     time.Time `db:"last_checked"`
}

// BusinessDays counts weekdays in the closed interval [start, end].
// Market holidays are not excluded, so price completeness slightly
// understates on holiday-heavy ranges.
func BusinessDays(start, end time.Time) int {
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}

// FiscalYears counts the fiscal years (April through March) that
// overlap the closed interval [start, end]
func FiscalYears(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}

	years := make(map[int]bool)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		year := d.Year()
		if d.Month() < time.April {
			year--
		}
		years[year] = true
	}
	return len(years)
}

// RefreshCompleteness recomputes the data_completeness table for every
// active symbol over the closed interval [start, end]. Price bars are
// measured against business days, statements and fundamentals against
// fiscal years, and the point-in-time datasets count as present or
// absent.
func (myLibrary *Library) RefreshCompleteness(ctx context.Context, start, end time.Time) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	expectedDays := BusinessDays(start, end)
	expectedYears := FiscalYears(start, end)

	log.Info().Time("Start", start).Time("End", end).Int("BusinessDays", expectedDays).
		Int("FiscalYears", expectedYears).Msg("refreshing completeness table")

	upsert := `ON CONFLICT (symbol, dataset) DO UPDATE SET
		expected_records = EXCLUDED.expected_records,
		actual_records = EXCLUDED.actual_records,
		completeness_pct = EXCLUDED.completeness_pct,
		last_checked = EXCLUDED.last_checked`

	statements := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO data_completeness (symbol, dataset, expected_records, actual_records, completeness_pct, last_checked)
		SELECT t.symbol, 'prices', $1, coalesce(p.cnt, 0),
			round(coalesce(p.cnt, 0)::numeric * 100 / greatest($1, 1), 2), now()
		FROM tickers t LEFT JOIN (
			SELECT symbol, count(DISTINCT event_date) AS cnt FROM price_history
			WHERE event_date BETWEEN $2 AND $3 GROUP BY symbol
		) p ON p.symbol = t.symbol
		WHERE t.active='t' ` + upsert,
			[]any{expectedDays, start, end}},

		{`INSERT INTO data_completeness (symbol, dataset, expected_records, actual_records, completeness_pct, last_checked)
		SELECT t.symbol, 'statements', $1, coalesce(s.cnt, 0),
			round(coalesce(s.cnt, 0)::numeric * 100 / greatest($1, 1), 2), now()
		FROM tickers t LEFT JOIN (
			SELECT symbol, count(DISTINCT (statement_type, period_end)) AS cnt FROM financial_statements
			WHERE period_end BETWEEN $2 AND $3 AND value IS NOT NULL GROUP BY symbol
		) s ON s.symbol = t.symbol
		WHERE t.active='t' ` + upsert,
			[]any{expectedYears * 3, start, end}},

		{`INSERT INTO data_completeness (symbol, dataset, expected_records, actual_records, completeness_pct, last_checked)
		SELECT t.symbol, 'fundamentals', $1, coalesce(f.cnt, 0),
			round(coalesce(f.cnt, 0)::numeric * 100 / greatest($1, 1), 2), now()
		FROM tickers t LEFT JOIN (
			SELECT symbol, count(DISTINCT event_date) AS cnt FROM fundamentals
			WHERE event_date BETWEEN $2 AND $3 AND (market_cap IS NOT NULL OR revenue_growth IS NOT NULL
				OR profit_margins IS NOT NULL OR eps_ttm IS NOT NULL OR return_on_equity IS NOT NULL)
			GROUP BY symbol
		) f ON f.symbol = t.symbol
		WHERE t.active='t' ` + upsert,
			[]any{expectedYears, start, end}},

		{`INSERT INTO data_completeness (symbol, dataset, expected_records, actual_records, completeness_pct, last_checked)
		SELECT t.symbol, 'earnings', $1, coalesce(e.cnt, 0),
			round(coalesce(e.cnt, 0)::numeric * 100 / greatest($1, 1), 2), now()
		FROM tickers t LEFT JOIN (
			SELECT symbol, count(DISTINCT period_end) AS cnt FROM earnings
			WHERE period_end BETWEEN $2 AND $3 GROUP BY symbol
		) e ON e.symbol = t.symbol
		WHERE t.active='t' ` + upsert,
			[]any{expectedYears, start, end}},

		{`INSERT INTO data_completeness (symbol, dataset, expected_records, actual_records, completeness_pct, last_checked)
		SELECT t.symbol, 'recommendations', 1, least(coalesce(r.cnt, 0), 1),
			least(coalesce(r.cnt, 0), 1) * 100, now()
		FROM tickers t LEFT JOIN (
			SELECT symbol, count(*) AS cnt FROM recommendations
			WHERE period_end >= $1 AND period_start <= $2 GROUP BY symbol
		) r ON r.symbol = t.symbol
		WHERE t.active='t' ` + upsert,
			[]any{start, end}},

		{`INSERT INTO data_completeness (symbol, dataset, expected_records, actual_records, completeness_pct, last_checked)
		SELECT t.symbol, 'sustainability', 1, least(coalesce(s.cnt, 0), 1),
			least(coalesce(s.cnt, 0), 1) * 100, now()
		FROM tickers t LEFT JOIN (
			SELECT symbol, count(*) AS cnt FROM sustainability
			WHERE event_date BETWEEN $1 AND $2 GROUP BY symbol
		) s ON s.symbol = t.symbol
		WHERE t.active='t' ` + upsert,
			[]any{start, end}},

		{`INSERT INTO data_completeness (symbol, dataset, expected_records, actual_records, completeness_pct, last_checked)
		SELECT t.symbol, 'holders', 1, least(coalesce(h.cnt, 0), 1),
			least(coalesce(h.cnt, 0), 1) * 100, now()
		FROM tickers t LEFT JOIN (
			SELECT symbol, count(*) AS cnt FROM holders
			WHERE date_reported BETWEEN $1 AND $2 GROUP BY symbol
		) h ON h.symbol = t.symbol
		WHERE t.active='t' ` + upsert,
			[]any{start, end}},

		{`INSERT INTO data_completeness (symbol, dataset, expected_records, actual_records, completeness_pct, last_checked)
		SELECT t.symbol, 'options', 1, least(coalesce(o.cnt, 0), 1),
			least(coalesce(o.cnt, 0), 1) * 100, now()
		FROM tickers t LEFT JOIN (
			SELECT symbol, count(*) AS cnt FROM options_data GROUP BY symbol
		) o ON o.symbol = t.symbol
		WHERE t.active='t' ` + upsert,
			nil},
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt.sql, stmt.args...); err != nil {
			return err
		}
	}

	return nil
}

// Completeness returns the current contents of the data_completeness
// table ordered by symbol and dataset
func (myLibrary *Library) Completeness(ctx context.Context) ([]*CompletenessRow, error) {
	var rows []*CompletenessRow
	err := pgxscan.Select(ctx, myLibrary.Pool, &rows,
		`SELECT symbol, dataset, expected_records, actual_records, completeness_pct, last_checked
FROM data_completeness ORDER BY symbol, dataset`)
	return rows, err
}
