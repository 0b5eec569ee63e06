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
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/gocarina/gocsv"
	"github.com/openquant/eqdata/data"
	"github.com/rs/zerolog/log"
)

// UniverseRecord is one row of a universe CSV file; only Symbol is
// required, remaining columns seed the ticker record until the profile
// dataset fills them in
type UniverseRecord struct {
	Symbol   string `csv:"symbol"`
	Name     string `csv:"name"`
	Exchange string `csv:"exchange"`
	ISIN     string `csv:"isin"`
}

// LoadUniverse reads a universe CSV file and upserts its symbols into
// the tickers table, marking them active
func (myLibrary *Library) LoadUniverse(ctx context.Context, fn string) (int, error) {
	raw, err := os.ReadFile(fn)
	if err != nil {
		return 0, err
	}

	var records []*UniverseRecord
	if err := gocsv.UnmarshalBytes(raw, &records); err != nil {
		return 0, err
	}

	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	for _, record := range records {
		if record.Symbol == "" {
			log.Warn().Str("FileName", fn).Msg("skipping universe row with empty symbol")
			continue
		}

		ticker := &data.Ticker{
			Symbol:      record.Symbol,
			Name:        record.Name,
			Exchange:    record.Exchange,
			ISIN:        record.ISIN,
			Active:      true,
			LastUpdated: time.Now(),
		}

		if err := ticker.SaveDB(ctx, conn); err != nil {
			return count, err
		}

		count++
	}

	return count, nil
}

// ActiveSymbols returns the symbols of all active tickers in the library
func (myLibrary *Library) ActiveSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	err := pgxscan.Select(ctx, myLibrary.Pool, &symbols,
		"SELECT symbol FROM tickers WHERE active='t' ORDER BY symbol")
	return symbols, err
}

// Tickers returns all tickers in the library
func (myLibrary *Library) Tickers(ctx context.Context) ([]*data.Ticker, error) {
	var tickers []*data.Ticker
	err := pgxscan.Select(ctx, myLibrary.Pool, &tickers,
		`SELECT symbol, name, exchange, sector, industry, isin, currency, active,
coalesce(raw_info, 'null'::jsonb) AS raw_info, last_updated FROM tickers ORDER BY symbol`)
	return tickers, err
}

// TickerTable renders the ticker list as a markdown table
func TickerTable(tickers []*data.Ticker) string {
	var sb strings.Builder

	sb.WriteString("# Tickers\n\n")
	sb.WriteString("| Symbol | Name | Exchange | Sector | Active | Last Updated |\n")
	sb.WriteString("|--------|------|----------|--------|--------|--------------|\n")

	for _, ticker := range tickers {
		active := "no"
		if ticker.Active {
			active = "yes"
		}

		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n", ticker.Symbol,
			ticker.Name, ticker.Exchange, ticker.Sector, active,
			ticker.LastUpdated.Format("2006-01-02"))
	}

	return sb.String()
}

// Deactivate marks a symbol inactive so subsequent loads skip it
func (myLibrary *Library) Deactivate(ctx context.Context, symbol string) error {
	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "UPDATE tickers SET active='f' WHERE symbol=$1", symbol)
	return err
}
