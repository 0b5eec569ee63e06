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

type HolderType string

const (
	InstitutionalHolder HolderType = "institutional"
	MutualFundHolder    HolderType = "mutualfund"
)

// Holder is a reported institutional or mutual fund position
type Holder struct {
	Symbol       string     `db:"symbol"`
	HolderName   string     `db:"holder_name"`
	HolderType   HolderType `db:"holder_type"`
	DateReported time.Time  `db:"date_reported"`

	Shares      *int64   `db:"shares"`
	PercentHeld *float64 `db:"percent_held"`
	Value       *int64   `db:"value"`
}

func (holder *Holder) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	if holder.Symbol == "" || holder.HolderName == "" || holder.DateReported.IsZero() {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing holder transaction to database")
		}
	}()

	sql := `INSERT INTO holders (
		"symbol",
		"holder_name",
		"holder_type",
		"date_reported",
		"shares",
		"percent_held",
		"value"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	) ON CONFLICT (symbol, holder_name, holder_type, date_reported) DO UPDATE SET
		shares = EXCLUDED.shares,
		percent_held = EXCLUDED.percent_held,
		value = EXCLUDED.value`

	_, err = tx.Exec(ctx, sql, holder.Symbol, holder.HolderName, holder.HolderType,
		holder.DateReported, holder.Shares, holder.PercentHeld, holder.Value)
	if err != nil {
		log.Error().Err(err).Str("Symbol", holder.Symbol).Str("Holder", holder.HolderName).
			Msg("save holder to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rollingback tx")
		}
	}

	return nil
}
