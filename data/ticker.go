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

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type Ticker struct {
	Symbol   string          `db:"symbol"`
	Name     string          `db:"name"`
	Exchange string          `db:"exchange"`
	Sector   string          `db:"sector"`
	Industry string          `db:"industry"`
	ISIN     string          `db:"isin"`
	Currency string          `db:"currency"`
	Active   bool            `db:"active"`
	RawInfo  json.RawMessage `db:"raw_info"`

	LastUpdated time.Time `db:"last_updated"`
}

func (ticker *Ticker) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	if ticker.Symbol == "" {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing ticker transaction to database")
		}
	}()

	sql := `INSERT INTO tickers (
		"symbol",
		"name",
		"exchange",
		"sector",
		"industry",
		"isin",
		"currency",
		"active",
		"raw_info",
		"last_updated"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	) ON CONFLICT (symbol) DO UPDATE SET
		name = EXCLUDED.name,
		exchange = EXCLUDED.exchange,
		sector = EXCLUDED.sector,
		industry = EXCLUDED.industry,
		isin = EXCLUDED.isin,
		currency = EXCLUDED.currency,
		active = EXCLUDED.active,
		raw_info = EXCLUDED.raw_info,
		last_updated = EXCLUDED.last_updated`

	_, err = tx.Exec(ctx, sql, ticker.Symbol, ticker.Name, ticker.Exchange,
		ticker.Sector, ticker.Industry, ticker.ISIN, ticker.Currency,
		ticker.Active, ticker.RawInfo, ticker.LastUpdated)
	if err != nil {
		log.Error().Err(err).Str("Symbol", ticker.Symbol).Msg("save ticker to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rollingback tx")
		}
	}

	return nil
}
