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

type OptionType string

const (
	CallOption OptionType = "call"
	PutOption  OptionType = "put"
)

// OptionContract is one row of an option chain
type OptionContract struct {
	ContractSymbol string     `db:"contract_symbol"`
	Symbol         string     `db:"symbol"`
	OptionType     OptionType `db:"option_type"`
	ExpirationDate time.Time  `db:"expiration_date"`
	Strike         *float64   `db:"strike"`

	LastPrice         *float64 `db:"last_price"`
	Bid               *float64 `db:"bid"`
	Ask               *float64 `db:"ask"`
	Volume            *int64   `db:"volume"`
	OpenInterest      *int64   `db:"open_interest"`
	ImpliedVolatility *float64 `db:"implied_volatility"`
	InTheMoney        *bool    `db:"in_the_money"`
}

func (contract *OptionContract) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	if contract.ContractSymbol == "" || contract.Symbol == "" || contract.ExpirationDate.IsZero() {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing option transaction to database")
		}
	}()

	sql := `INSERT INTO options_data (
		"contract_symbol",
		"symbol",
		"option_type",
		"expiration_date",
		"strike",
		"last_price",
		"bid",
		"ask",
		"volume",
		"open_interest",
		"implied_volatility",
		"in_the_money"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
	) ON CONFLICT (contract_symbol) DO UPDATE SET
		strike = EXCLUDED.strike,
		last_price = EXCLUDED.last_price,
		bid = EXCLUDED.bid,
		ask = EXCLUDED.ask,
		volume = EXCLUDED.volume,
		open_interest = EXCLUDED.open_interest,
		implied_volatility = EXCLUDED.implied_volatility,
		in_the_money = EXCLUDED.in_the_money`

	_, err = tx.Exec(ctx, sql, contract.ContractSymbol, contract.Symbol,
		contract.OptionType, contract.ExpirationDate, contract.Strike,
		contract.LastPrice, contract.Bid, contract.Ask, contract.Volume,
		contract.OpenInterest, contract.ImpliedVolatility, contract.InTheMoney)
	if err != nil {
		log.Error().Err(err).Str("Contract", contract.ContractSymbol).Msg("save option contract to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rollingback tx")
		}
	}

	return nil
}
