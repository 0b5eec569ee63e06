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
package data_test

import (
	"context"
	"time"

	"github.com/openquant/eqdata/data"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Records with an empty natural key are dropped before any database
// work happens, so passing a nil connection proves the guard: the save
// would panic if it tried to use the connection.
var _ = Describe("SaveDB key guards", func() {
	ctx := context.Background()

	It("drops a ticker without a symbol", func() {
		ticker := &data.Ticker{Name: "No Symbol Inc"}
		Expect(ticker.SaveDB(ctx, nil)).To(Succeed())
	})

	It("drops a price bar without a symbol", func() {
		bar := &data.PriceBar{EventDate: time.Now()}
		Expect(bar.SaveDB(ctx, nil)).To(Succeed())
	})

	It("drops a price bar without an event date", func() {
		bar := &data.PriceBar{Symbol: "RELIANCE"}
		Expect(bar.SaveDB(ctx, nil)).To(Succeed())
	})

	It("drops a fundamental without an event date", func() {
		fundamental := &data.Fundamental{Symbol: "RELIANCE"}
		Expect(fundamental.SaveDB(ctx, nil)).To(Succeed())
	})

	It("drops a statement line without a line item", func() {
		line := &data.StatementLine{
			Symbol:        "RELIANCE",
			StatementType: data.BalanceSheet,
			PeriodEnd:     time.Now(),
		}
		Expect(line.SaveDB(ctx, nil)).To(Succeed())
	})

	It("drops a statement line without a period end", func() {
		line := &data.StatementLine{
			Symbol:        "RELIANCE",
			StatementType: data.BalanceSheet,
			LineItem:      "totalAssets",
		}
		Expect(line.SaveDB(ctx, nil)).To(Succeed())
	})

	It("drops an earnings report without a period end", func() {
		report := &data.EarningsReport{Symbol: "RELIANCE"}
		Expect(report.SaveDB(ctx, nil)).To(Succeed())
	})

	It("drops a recommendation without a period", func() {
		recommendation := &data.Recommendation{Symbol: "RELIANCE"}
		Expect(recommendation.SaveDB(ctx, nil)).To(Succeed())
	})

	It("drops an esg score without a symbol", func() {
		esgScore := &data.ESGScore{EventDate: time.Now()}
		Expect(esgScore.SaveDB(ctx, nil)).To(Succeed())
	})

	It("drops a holder without a name", func() {
		holder := &data.Holder{
			Symbol:       "RELIANCE",
			HolderType:   data.InstitutionalHolder,
			DateReported: time.Now(),
		}
		Expect(holder.SaveDB(ctx, nil)).To(Succeed())
	})

	It("drops an option contract without a contract symbol", func() {
		contract := &data.OptionContract{Symbol: "RELIANCE"}
		Expect(contract.SaveDB(ctx, nil)).To(Succeed())
	})

	It("drops an ingest log entry without a dataset", func() {
		entry := &data.IngestLog{Symbol: "RELIANCE"}
		Expect(entry.SaveDB(ctx, nil)).To(Succeed())
	})
})
