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

// Package library manages the market data library stored in PostgreSQL:
// the ticker universe, the saver that drains dataset observations into
// the data tables, and the completeness bookkeeping.
package library

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openquant/eqdata/data"
	"github.com/rs/zerolog/log"
)

type Library struct {
	DBUrl string
	Name  string
	Owner string

	Pool *pgxpool.Pool
}

// Connect to the database configured for the library
func (myLibrary *Library) Connect(ctx context.Context) error {
	if myLibrary.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(ctx, myLibrary.DBUrl)
	if err != nil {
		return err
	}
	myLibrary.Pool = pool

	return nil
}

// Close the database pool
func (myLibrary *Library) Close() {
	myLibrary.Pool.Close()
}

// LastUpdated returns the time of the most recent ingestion run
func (myLibrary *Library) LastUpdated(ctx context.Context) (time.Time, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer conn.Release()

	var lastUpdated time.Time
	err = conn.QueryRow(ctx,
		"SELECT coalesce(max(created_on), '0001-01-01'::timestamp) FROM ingestion_log").Scan(&lastUpdated)
	if err != nil {
		return time.Time{}, err
	}

	return lastUpdated, nil
}

// TotalRecords returns the number of price history records in the library
func (myLibrary *Library) TotalRecords(ctx context.Context) (int, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM price_history").Scan(&count)
	return count, err
}

// TotalSecurities returns the number of active tickers in the library
func (myLibrary *Library) TotalSecurities(ctx context.Context) (int, error) {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(*) FROM tickers WHERE active='t'").Scan(&count)
	return count, err
}

// SaveObservations continuously reads from the input queue and writes
// each record to its table. Individual save failures are logged and do
// not stop the drain; the upstream fetcher keeps its own failure count.
func (myLibrary *Library) SaveObservations(queue <-chan *data.Observation, wg *sync.WaitGroup) {
	ctx := context.Background()
	defer wg.Done()

	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		log.Panic().Err(err).Msg("cannot acquire database connection")
		return
	}
	defer conn.Release()

	for elem := range queue {
		if elem.TickerObject != nil {
			if err := elem.TickerObject.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save ticker to database")
			}
		}

		if elem.PriceBar != nil {
			if err := elem.PriceBar.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save price bar to database")
			}
		}

		if elem.Fundamental != nil {
			if err := elem.Fundamental.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save fundamental to database")
			}
		}

		if elem.StatementLine != nil {
			if err := elem.StatementLine.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save statement line to database")
			}
		}

		if elem.EarningsReport != nil {
			if err := elem.EarningsReport.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save earnings report to database")
			}
		}

		if elem.Recommendation != nil {
			if err := elem.Recommendation.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save recommendation to database")
			}
		}

		if elem.ESGScore != nil {
			if err := elem.ESGScore.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save esg score to database")
			}
		}

		if elem.Holder != nil {
			if err := elem.Holder.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save holder to database")
			}
		}

		if elem.OptionContract != nil {
			if err := elem.OptionContract.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save option contract to database")
			}
		}

		if elem.IngestLogEntry != nil {
			if err := elem.IngestLogEntry.SaveDB(ctx, conn); err != nil {
				log.Error().Err(err).Msg("cannot save ingestion log entry to database")
			}
		}
	}
}
