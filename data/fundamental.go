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

// Fundamental is a snapshot of company ratios as reported on a given
// date. All metrics are nullable; the source frequently omits fields
// for small caps and recent listings.
type Fundamental struct {
	Symbol    string    `db:"symbol"`
	EventDate time.Time `db:"event_date"`

	MarketCap         *int64   `db:"market_cap"`
	EnterpriseValue   *int64   `db:"enterprise_value"`
	TrailingPE        *float64 `db:"trailing_pe"`
	ForwardPE         *float64 `db:"forward_pe"`
	PriceToBook       *float64 `db:"price_to_book"`
	PriceToSalesTTM   *float64 `db:"price_to_sales_ttm"`
	PegRatio          *float64 `db:"peg_ratio"`
	BookValue         *float64 `db:"book_value"`
	EpsTTM            *float64 `db:"eps_ttm"`
	Beta              *float64 `db:"beta"`
	DebtToEquity      *float64 `db:"debt_to_equity"`
	CurrentRatio      *float64 `db:"current_ratio"`
	QuickRatio        *float64 `db:"quick_ratio"`
	ReturnOnEquity    *float64 `db:"return_on_equity"`
	ReturnOnAssets    *float64 `db:"return_on_assets"`
	DividendYield     *float64 `db:"dividend_yield"`
	DividendRate      *float64 `db:"dividend_rate"`
	PayoutRatio       *float64 `db:"payout_ratio"`
	ProfitMargins     *float64 `db:"profit_margins"`
	GrossMargins      *float64 `db:"gross_margins"`
	OperatingMargins  *float64 `db:"operating_margins"`
	RevenueGrowth     *float64 `db:"revenue_growth"`
	EarningsGrowth    *float64 `db:"earnings_growth"`
	TotalRevenue      *int64   `db:"total_revenue"`
	TotalCash         *int64   `db:"total_cash"`
	TotalDebt         *int64   `db:"total_debt"`
	FreeCashflow      *int64   `db:"free_cashflow"`
	OperatingCashflow *int64   `db:"operating_cashflow"`
	SharesOutstanding *int64   `db:"shares_outstanding"`
}

func (fundamental *Fundamental) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	if fundamental.Symbol == "" || fundamental.EventDate.IsZero() {
		return nil
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Commit(ctx); err != nil {
			log.Error().Err(err).Msg("error committing fundamental transaction to database")
		}
	}()

	sql := `INSERT INTO fundamentals (
		"symbol",
		"event_date",
		"market_cap",
		"enterprise_value",
		"trailing_pe",
		"forward_pe",
		"price_to_book",
		"price_to_sales_ttm",
		"peg_ratio",
		"book_value",
		"eps_ttm",
		"beta",
		"debt_to_equity",
		"current_ratio",
		"quick_ratio",
		"return_on_equity",
		"return_on_assets",
		"dividend_yield",
		"dividend_rate",
		"payout_ratio",
		"profit_margins",
		"gross_margins",
		"operating_margins",
		"revenue_growth",
		"earnings_growth",
		"total_revenue",
		"total_cash",
		"total_debt",
		"free_cashflow",
		"operating_cashflow",
		"shares_outstanding"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31
	) ON CONFLICT (symbol, event_date) DO UPDATE SET
		market_cap = EXCLUDED.market_cap,
		enterprise_value = EXCLUDED.enterprise_value,
		trailing_pe = EXCLUDED.trailing_pe,
		forward_pe = EXCLUDED.forward_pe,
		price_to_book = EXCLUDED.price_to_book,
		price_to_sales_ttm = EXCLUDED.price_to_sales_ttm,
		peg_ratio = EXCLUDED.peg_ratio,
		book_value = EXCLUDED.book_value,
		eps_ttm = EXCLUDED.eps_ttm,
		beta = EXCLUDED.beta,
		debt_to_equity = EXCLUDED.debt_to_equity,
		current_ratio = EXCLUDED.current_ratio,
		quick_ratio = EXCLUDED.quick_ratio,
		return_on_equity = EXCLUDED.return_on_equity,
		return_on_assets = EXCLUDED.return_on_assets,
		dividend_yield = EXCLUDED.dividend_yield,
		dividend_rate = EXCLUDED.dividend_rate,
		payout_ratio = EXCLUDED.payout_ratio,
		profit_margins = EXCLUDED.profit_margins,
		gross_margins = EXCLUDED.gross_margins,
		operating_margins = EXCLUDED.operating_margins,
		revenue_growth = EXCLUDED.revenue_growth,
		earnings_growth = EXCLUDED.earnings_growth,
		total_revenue = EXCLUDED.total_revenue,
		total_cash = EXCLUDED.total_cash,
		total_debt = EXCLUDED.total_debt,
		free_cashflow = EXCLUDED.free_cashflow,
		operating_cashflow = EXCLUDED.operating_cashflow,
		shares_outstanding = EXCLUDED.shares_outstanding`

	_, err = tx.Exec(ctx, sql, fundamental.Symbol, fundamental.EventDate,
		fundamental.MarketCap, fundamental.EnterpriseValue, fundamental.TrailingPE,
		fundamental.ForwardPE, fundamental.PriceToBook, fundamental.PriceToSalesTTM,
		fundamental.PegRatio, fundamental.BookValue, fundamental.EpsTTM,
		fundamental.Beta, fundamental.DebtToEquity, fundamental.CurrentRatio,
		fundamental.QuickRatio, fundamental.ReturnOnEquity, fundamental.ReturnOnAssets,
		fundamental.DividendYield, fundamental.DividendRate, fundamental.PayoutRatio,
		fundamental.ProfitMargins, fundamental.GrossMargins, fundamental.OperatingMargins,
		fundamental.RevenueGrowth, fundamental.EarningsGrowth, fundamental.TotalRevenue,
		fundamental.TotalCash, fundamental.TotalDebt, fundamental.FreeCashflow,
		fundamental.OperatingCashflow, fundamental.SharesOutstanding)
	if err != nil {
		log.Error().Err(err).Str("Symbol", fundamental.Symbol).Msg("save fundamental to DB failed")
		if err2 := tx.Rollback(ctx); err2 != nil {
			log.Error().Err(err2).Msg("error rollingback tx")
		}
	}

	return nil
}
