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
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type StatementType string

const (
	IncomeStatement   StatementType = "income"
	BalanceSheet      StatementType = "balance_sheet"
	CashflowStatement StatementType = "cashflow"
	UnknownStatement  StatementType = "unknown"
)

// StatementLine is one line item of a financial statement stored in
// tall format: (symbol, statement_type, period_end, line_item) -> value
type StatementLine struct {
	Symbol        string        `db:"symbol"`
	StatementType StatementType `db:"statement_type"`
	PeriodStart   time.Time     `db:"period_start"`
	PeriodEnd     time.Time     `db:"period_end"`
	LineItem      string        `db:"line_item"`
	Value         *float64      `db:"value"`
}

func (line *StatementLine) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	if line.Symbol == "" || line.PeriodEnd.IsZero() || line.LineItem == "" {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing statement transaction to database")
		}
	}()

	sql := `INSERT INTO financial_statements (
		"symbol",
		"statement_type",
		"period_start",
		"period_end",
		"line_item",
		"value"
	) VALUES (
		$1, $2, $3, $4, $5, $6
	) ON CONFLICT (symbol, statement_type, period_end, line_item) DO UPDATE SET
		period_start = EXCLUDED.period_start,
		value = EXCLUDED.value`

	_, err = tx.Exec(ctx, sql, line.Symbol, line.StatementType, line.PeriodStart,
		line.PeriodEnd, line.LineItem, line.Value)
	if err != nil {
		log.Error().Err(err).Str("Symbol", line.Symbol).Str("LineItem", line.LineItem).
			Msg("save statement line to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rollingback tx")
		}
	}

	return nil
}
