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

// Recommendation is an aggregated analyst recommendation trend for a
// one month window
type Recommendation struct {
	Symbol      string    `db:"symbol"`
	PeriodStart time.Time `db:"period_start"`
	PeriodEnd   time.Time `db:"period_end"`

	StrongBuy  *int `db:"strong_buy"`
	Buy        *int `db:"buy"`
	Hold       *int `db:"hold"`
	Sell       *int `db:"sell"`
	StrongSell *int `db:"strong_sell"`
}

func (rec *Recommendation) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	if rec.Symbol == "" || rec.PeriodStart.IsZero() || rec.PeriodEnd.IsZero() {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing recommendation transaction to database")
		}
	}()

	sql := `INSERT INTO recommendations (
		"symbol",
		"period_start",
		"period_end",
		"strong_buy",
		"buy",
		"hold",
		"sell",
		"strong_sell"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8
	) ON CONFLICT (symbol, period_start, period_end) DO UPDATE SET
		strong_buy = EXCLUDED.strong_buy,
		buy = EXCLUDED.buy,
		hold = EXCLUDED.hold,
		sell = EXCLUDED.sell,
		strong_sell = EXCLUDED.strong_sell`

	_, err = tx.Exec(ctx, sql, rec.Symbol, rec.PeriodStart, rec.PeriodEnd,
		rec.StrongBuy, rec.Buy, rec.Hold, rec.Sell, rec.StrongSell)
	if err != nil {
		log.Error().Err(err).Str("Symbol", rec.Symbol).Msg("save recommendation to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rollingback tx")
		}
	}

	return nil
}
