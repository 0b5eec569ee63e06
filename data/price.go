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

// PriceBar is a single daily price observation. Numeric fields are
// pointers because the source may omit any of them; missing values are
// stored as NULL, never zero.
type PriceBar struct {
	Symbol    string    `db:"symbol"`
	EventDate time.Time `db:"event_date"`

	Open     *float64 `db:"open"`
	High     *float64 `db:"high"`
	Low      *float64 `db:"low"`
	Close    *float64 `db:"close"`
	AdjClose *float64 `db:"adj_close"`
	Volume   *int64   `db:"volume"`

	Dividend    *float64 `db:"dividend"`
	SplitFactor *float64 `db:"split_factor"`
}

func (bar *PriceBar) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	if bar.Symbol == "" || bar.EventDate.IsZero() {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing price bar transaction to database")
		}
	}()

	sql := `INSERT INTO price_history (
		"symbol",
		"event_date",
		"open",
		"high",
		"low",
		"close",
		"adj_close",
		"volume",
		"dividend",
		"split_factor"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	) ON CONFLICT (symbol, event_date) DO UPDATE SET
		open = EXCLUDED.open,
		high = EXCLUDED.high,
		low = EXCLUDED.low,
		close = EXCLUDED.close,
		adj_close = EXCLUDED.adj_close,
		volume = EXCLUDED.volume,
		dividend = EXCLUDED.dividend,
		split_factor = EXCLUDED.split_factor`

	_, err = tx.Exec(ctx, sql, bar.Symbol, bar.EventDate, bar.Open, bar.High,
		bar.Low, bar.Close, bar.AdjClose, bar.Volume, bar.Dividend, bar.SplitFactor)
	if err != nil {
		log.Error().Err(err).Str("Symbol", bar.Symbol).Time("EventDate", bar.EventDate).
			Msg("save price bar to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rollingback tx")
		}
	}

	return nil
}
