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

// ESGScore is a point-in-time sustainability rating
type ESGScore struct {
	Symbol    string    `db:"symbol"`
	EventDate time.Time `db:"event_date"`

	TotalEsg           *float64 `db:"total_esg"`
	EnvironmentScore   *float64 `db:"environment_score"`
	SocialScore        *float64 `db:"social_score"`
	GovernanceScore    *float64 `db:"governance_score"`
	HighestControversy *float64 `db:"highest_controversy"`
}

func (esg *ESGScore) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	if esg.Symbol == "" || esg.EventDate.IsZero() {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing esg transaction to database")
		}
	}()

	sql := `INSERT INTO sustainability (
		"symbol",
		"event_date",
		"total_esg",
		"environment_score",
		"social_score",
		"governance_score",
		"highest_controversy"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7
	) ON CONFLICT (symbol, event_date) DO UPDATE SET
		total_esg = EXCLUDED.total_esg,
		environment_score = EXCLUDED.environment_score,
		social_score = EXCLUDED.social_score,
		governance_score = EXCLUDED.governance_score,
		highest_controversy = EXCLUDED.highest_controversy`

	_, err = tx.Exec(ctx, sql, esg.Symbol, esg.EventDate, esg.TotalEsg,
		esg.EnvironmentScore, esg.SocialScore, esg.GovernanceScore, esg.HighestControversy)
	if err != nil {
		log.Error().Err(err).Str("Symbol", esg.Symbol).Msg("save esg score to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rollingback tx")
		}
	}

	return nil
}
