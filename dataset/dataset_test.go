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
package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/openquant/eqdata/data"
	"github.com/openquant/eqdata/yahoo"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const priceChartBody = `{
	"chart": {
		"result": [{
			"meta": {"currency": "INR", "symbol": "GOODSYM.NS", "exchangeName": "NSI", "timezone": "IST"},
			"timestamp": [1704067800, 1704154200],
			"indicators": {
				"quote": [{
					"open": [100.5, 101.0],
					"high": [101.0, 102.0],
					"low": [99.0, 100.0],
					"close": [100.0, 101.5],
					"volume": [1000, 2000]
				}],
				"adjclose": [{"adjclose": [99.5, 101.0]}]
			}
		}],
		"error": null
	}
}`

var _ = Describe("registry", func() {
	It("contains every dataset exactly once", func() {
		Expect(Names()).To(Equal([]string{"earnings", "fundamentals", "holders",
			"options", "prices", "profile", "recommendations", "statements",
			"sustainability"}))
	})

	It("declares a fetch function and target table for each dataset", func() {
		for name, ds := range Map() {
			Expect(ds.Name).To(Equal(name))
			Expect(ds.Fetch).ToNot(BeNil())
			Expect(ds.Tables).ToNot(BeEmpty())
		}
	})
})

var _ = Describe("logEntry", func() {
	job := &Job{RunID: uuid.New()}

	It("marks a clean fetch as success", func() {
		entry := logEntry(job, "prices", "RELIANCE", 250, 250, nil)
		Expect(entry.Status).To(Equal(data.IngestSuccess))
		Expect(entry.RecordsProcessed).To(Equal(250))
		Expect(entry.RecordsSuccessful).To(Equal(250))
		Expect(entry.RecordsFailed).To(BeZero())
		Expect(entry.ErrorMessage).To(BeEmpty())
	})

	It("marks a failed fetch with no records as failed", func() {
		entry := logEntry(job, "prices", "RELIANCE", 0, 0, errors.New("boom"))
		Expect(entry.Status).To(Equal(data.IngestFailed))
		Expect(entry.ErrorMessage).To(Equal("boom"))
	})

	It("marks a failed fetch with some records as partial", func() {
		entry := logEntry(job, "options", "RELIANCE", 12, 12, errors.New("boom"))
		Expect(entry.Status).To(Equal(data.IngestPartial))
		Expect(entry.RecordsProcessed).To(Equal(12))
	})

	It("counts rows that could not be mapped as failed", func() {
		entry := logEntry(job, "statements", "RELIANCE", 10, 7, nil)
		Expect(entry.Status).To(Equal(data.IngestPartial))
		Expect(entry.RecordsProcessed).To(Equal(10))
		Expect(entry.RecordsSuccessful).To(Equal(7))
		Expect(entry.RecordsFailed).To(Equal(3))
		Expect(entry.ErrorMessage).To(BeEmpty())
	})
})

var _ = Describe("trendPeriod", func() {
	now := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

	It("resolves the current month", func() {
		start, end, ok := trendPeriod("0m", now)
		Expect(ok).To(BeTrue())
		Expect(start).To(Equal(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)))
		Expect(end).To(Equal(time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)))
	})

	It("resolves a past month across a year boundary", func() {
		start, end, ok := trendPeriod("-6m", now)
		Expect(ok).To(BeTrue())
		Expect(start).To(Equal(time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)))
		Expect(end).To(Equal(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)))
	})

	It("rejects labels it cannot parse", func() {
		_, _, ok := trendPeriod("current", now)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("streamStatements", func() {
	It("emits one line per item and skips metadata keys", func() {
		var statement yahoo.Statement
		Expect(json.Unmarshal([]byte(`{
			"maxAge": 1,
			"endDate": {"raw": 1711843200, "fmt": "2024-03-31"},
			"totalAssets": {"raw": 17500000000000},
			"cash": {}
		}`), &statement)).To(Succeed())

		job := &Job{RunID: uuid.New()}
		out := make(chan *data.Observation, 10)

		processed, emitted := streamStatements(job, out, "RELIANCE", data.BalanceSheet, []yahoo.Statement{statement})
		close(out)

		Expect(processed).To(Equal(2))
		Expect(emitted).To(Equal(2))

		lines := make(map[string]*data.StatementLine)
		for obs := range out {
			Expect(obs.StatementLine).ToNot(BeNil())
			lines[obs.StatementLine.LineItem] = obs.StatementLine
		}

		Expect(lines).To(HaveKey("totalAssets"))
		Expect(lines).To(HaveKey("cash"))
		Expect(lines).ToNot(HaveKey("endDate"))
		Expect(lines).ToNot(HaveKey("maxAge"))

		Expect(lines["totalAssets"].Value).To(HaveValue(Equal(17500000000000.0)))
		Expect(lines["cash"].Value).To(BeNil())
		Expect(lines["totalAssets"].PeriodEnd.Year()).To(Equal(2024))
		Expect(lines["totalAssets"].PeriodStart.Before(lines["totalAssets"].PeriodEnd)).To(BeTrue())
	})

	It("skips statements without an end date but still counts their line items", func() {
		var statement yahoo.Statement
		Expect(json.Unmarshal([]byte(`{"totalAssets": {"raw": 1}}`), &statement)).To(Succeed())

		job := &Job{RunID: uuid.New()}
		out := make(chan *data.Observation, 10)

		processed, emitted := streamStatements(job, out, "RELIANCE", data.BalanceSheet, []yahoo.Statement{statement})
		Expect(processed).To(Equal(1))
		Expect(emitted).To(BeZero())
	})
})

var _ = Describe("fetchPrices", func() {
	It("keeps loading the remaining symbols after one fails", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if strings.Contains(r.URL.Path, "BADSYM") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(priceChartBody))
		}))
		defer server.Close()

		job := &Job{
			RunID:   uuid.New(),
			Symbols: []string{"BADSYM", "GOODSYM"},
			Client: yahoo.New(
				yahoo.WithBaseURL(server.URL),
				yahoo.WithRateLimit(6000),
				yahoo.WithRetryWait(time.Millisecond, 2*time.Millisecond),
			),
			StartDate: time.Now().AddDate(0, 0, -7),
			EndDate:   time.Now(),
		}

		out := make(chan *data.Observation, 16)
		exitNotification := make(chan data.RunSummary, 1)

		fetchPrices(context.Background(), job, out, exitNotification)
		close(out)

		numBars := 0
		logs := make(map[string]*data.IngestLog)
		for obs := range out {
			if obs.PriceBar != nil {
				Expect(obs.PriceBar.Symbol).To(Equal("GOODSYM"))
				numBars++
			}
			if obs.IngestLogEntry != nil {
				logs[obs.IngestLogEntry.Symbol] = obs.IngestLogEntry
			}
		}

		Expect(numBars).To(Equal(2))
		Expect(logs["BADSYM"].Status).To(Equal(data.IngestFailed))
		Expect(logs["BADSYM"].ErrorMessage).ToNot(BeEmpty())
		Expect(logs["GOODSYM"].Status).To(Equal(data.IngestSuccess))
		Expect(logs["GOODSYM"].RecordsProcessed).To(Equal(2))

		summary := <-exitNotification
		Expect(summary.NumSymbols).To(Equal(2))
		Expect(summary.NumFailed).To(Equal(1))
		Expect(summary.NumObservations).To(Equal(2))
	})
})

var _ = Describe("dayKey", func() {
	It("normalizes intraday timestamps to the same day", func() {
		morning := time.Date(2024, time.June, 14, 3, 45, 0, 0, time.UTC).Unix()
		evening := time.Date(2024, time.June, 14, 21, 10, 0, 0, time.UTC).Unix()
		Expect(dayKey(morning)).To(Equal(dayKey(evening)))
		Expect(dayKey(morning)).To(Equal("2024-06-14"))
	})
})
