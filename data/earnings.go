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

// EarningsReport captures one historical earnings period
type EarningsReport struct {
	Symbol    string    `db:"symbol"`
	PeriodEnd time.Time `db:"period_end"`

	EpsActual   *float64 `db:"eps_actual"`
	EpsEstimate *float64 `db:"eps_estimate"`
	EpsSurprise *float64 `db:"eps_surprise"`
	SurprisePct *float64 `db:"surprise_pct"`
}

func (report *EarningsReport) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	if report.Symbol == "" || report.PeriodEnd.IsZero() {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing earnings transaction to database")
		}
	}()

	sql := `INSERT INTO earnings (
		"symbol",
		"period_end",
		"eps_actual",
		"eps_estimate",
		"eps_surprise",
		"surprise_pct"
	) VALUES (
		$1, $2, $3, $4, $5, $6
	) ON CONFLICT (symbol, period_end) DO UPDATE SET
		eps_actual = EXCLUDED.eps_actual,
		eps_estimate = EXCLUDED.eps_estimate,
		eps_surprise = EXCLUDED.eps_surprise,
		surprise_pct = EXCLUDED.surprise_pct`

	_, err = tx.Exec(ctx, sql, report.Symbol, report.PeriodEnd, report.EpsActual,
		report.EpsEstimate, report.EpsSurprise, report.SurprisePct)
	if err != nil {
		log.Error().Err(err).Str("Symbol", report.Symbol).Msg("save earnings report to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rollingback tx")
		}
	}

	return nil
}
