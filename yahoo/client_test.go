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
package yahoo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/openquant/eqdata/yahoo"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const chartBody = `{
	"chart": {
		"result": [{
			"meta": {"currency": "INR", "symbol": "RELIANCE.NS", "exchangeName": "NSI", "timezone": "IST"},
			"timestamp": [1704067800, 1704154200, 1704240600],
			"events": {
				"dividends": {"1704067800": {"amount": 9.0, "date": 1704067800}},
				"splits": {"1704154200": {"date": 1704154200, "numerator": 2, "denominator": 1, "splitRatio": "2:1"}}
			},
			"indicators": {
				"quote": [{
					"open": [100.5, null, 102.0],
					"high": [101.0, null, 103.0],
					"low": [99.0, null, 101.0],
					"close": [100.0, null, 102.5],
					"volume": [1000, null, 3000]
				}],
				"adjclose": [{"adjclose": [99.5, null, 102.0]}]
			}
		}],
		"error": null
	}
}`

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		requests atomic.Int32
		status   atomic.Int32
		body     atomic.Value
	)

	BeforeEach(func() {
		requests.Store(0)
		status.Store(http.StatusOK)
		body.Store(chartBody)

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(int(status.Load()))
			_, _ = w.Write([]byte(body.Load().(string)))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newClient := func(opts ...yahoo.Option) *yahoo.Client {
		opts = append([]yahoo.Option{
			yahoo.WithBaseURL(server.URL),
			yahoo.WithRateLimit(6000),
			yahoo.WithRetryWait(10*time.Millisecond, 50*time.Millisecond),
		}, opts...)
		return yahoo.New(opts...)
	}

	Describe("Chart", func() {
		It("decodes price bars with missing values as nil", func() {
			client := newClient()
			result, err := client.Chart(context.Background(), "RELIANCE",
				time.Now().AddDate(0, 0, -7), time.Now())
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Timestamp).To(HaveLen(3))
			quote := result.Indicators.Quote[0]
			Expect(quote.Open[0]).To(HaveValue(Equal(100.5)))
			Expect(quote.Open[1]).To(BeNil())
			Expect(quote.Volume[2]).To(HaveValue(Equal(int64(3000))))
			Expect(result.Events.Dividends).To(HaveLen(1))
			Expect(result.Events.Splits).To(HaveLen(1))
		})

		It("appends the configured symbol suffix", func() {
			client := newClient(yahoo.WithSymbolSuffix(".NS"))
			Expect(client.FullSymbol("RELIANCE")).To(Equal("RELIANCE.NS"))
		})

		It("returns an api error from the payload", func() {
			body.Store(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`)
			client := newClient()
			_, err := client.Chart(context.Background(), "BOGUS", time.Now().AddDate(0, 0, -7), time.Now())
			Expect(err).To(MatchError(ContainSubstring("Not Found")))
		})

		It("fails on a non-retryable error status", func() {
			status.Store(http.StatusNotFound)
			client := newClient()
			_, err := client.Chart(context.Background(), "RELIANCE", time.Now().AddDate(0, 0, -7), time.Now())
			Expect(err).To(MatchError(yahoo.ErrInvalidStatusCode))
			Expect(requests.Load()).To(Equal(int32(1)))
		})
	})

	Describe("rate limiting", func() {
		It("waits for the limiter between consecutive requests", func() {
			// 600 requests per minute is roughly one every 100ms
			client := yahoo.New(
				yahoo.WithBaseURL(server.URL),
				yahoo.WithRateLimit(600),
			)

			start := time.Now()
			for i := 0; i < 3; i++ {
				_, err := client.Chart(context.Background(), "RELIANCE",
					time.Now().AddDate(0, 0, -7), time.Now())
				Expect(err).ToNot(HaveOccurred())
			}

			// the first request is immediate, the next two wait
			Expect(time.Since(start)).To(BeNumerically(">=", 180*time.Millisecond))
		})

		It("retries after a 429 response", func() {
			server.Close()
			var timestamps []time.Time
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				timestamps = append(timestamps, time.Now())
				w.Header().Set("Content-Type", "application/json")
				if len(timestamps) == 1 {
					w.WriteHeader(http.StatusTooManyRequests)
					return
				}
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(chartBody))
			}))

			client := yahoo.New(
				yahoo.WithBaseURL(server.URL),
				yahoo.WithRateLimit(6000),
				yahoo.WithRetryWait(100*time.Millisecond, 200*time.Millisecond),
			)

			result, err := client.Chart(context.Background(), "RELIANCE",
				time.Now().AddDate(0, 0, -7), time.Now())
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Timestamp).To(HaveLen(3))

			Expect(len(timestamps)).To(BeNumerically(">=", 2))
			Expect(timestamps[1].Sub(timestamps[0])).To(BeNumerically(">=", 100*time.Millisecond))
		})

		It("honors the Retry-After header on a 429 response", func() {
			server.Close()
			var timestamps []time.Time
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				timestamps = append(timestamps, time.Now())
				w.Header().Set("Content-Type", "application/json")
				if len(timestamps) == 1 {
					w.Header().Set("Retry-After", "1")
					w.WriteHeader(http.StatusTooManyRequests)
					return
				}
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(chartBody))
			}))

			client := yahoo.New(
				yahoo.WithBaseURL(server.URL),
				yahoo.WithRateLimit(6000),
				yahoo.WithRetryWait(10*time.Millisecond, 2*time.Second),
			)

			_, err := client.Chart(context.Background(), "RELIANCE",
				time.Now().AddDate(0, 0, -7), time.Now())
			Expect(err).ToNot(HaveOccurred())

			Expect(len(timestamps)).To(BeNumerically(">=", 2))
			Expect(timestamps[1].Sub(timestamps[0])).To(BeNumerically(">=", time.Second))
		})
	})

	Describe("QuoteSummary", func() {
		It("decodes modules and statement line items", func() {
			body.Store(`{
				"quoteSummary": {
					"result": [{
						"price": {"shortName": "Reliance", "longName": "Reliance Industries Limited", "exchangeName": "NSI", "currency": "INR", "marketCap": {"raw": 2000000000000, "fmt": "2T"}},
						"assetProfile": {"sector": "Energy", "industry": "Oil & Gas Refining", "longName": ""},
						"financialData": {"returnOnEquity": {"raw": 0.089, "fmt": "8.90%"}, "totalRevenue": {"raw": 9740000000000}},
						"balanceSheetHistory": {
							"balanceSheetStatements": [
								{"maxAge": 1, "endDate": {"raw": 1711843200, "fmt": "2024-03-31"}, "totalAssets": {"raw": 17500000000000}, "cash": {}}
							]
						}
					}],
					"error": null
				}
			}`)

			client := newClient()
			result, err := client.QuoteSummary(context.Background(), "RELIANCE",
				yahoo.ModulePrice, yahoo.ModuleAssetProfile, yahoo.ModuleFinancialData, yahoo.ModuleBalanceSheet)
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Price.LongName).To(Equal("Reliance Industries Limited"))
			Expect(result.AssetProfile.Sector).To(Equal("Energy"))
			Expect(result.FinancialData.ReturnOnEquity.Float()).To(HaveValue(Equal(0.089)))
			Expect(result.KeyStatistics).To(BeNil())

			statements := result.BalanceSheetHistory.Statements
			Expect(statements).To(HaveLen(1))
			Expect(statements[0].EndDate().Time().Year()).To(Equal(2024))
			Expect(statements[0]["totalAssets"].Float()).To(HaveValue(Equal(17500000000000.0)))
			Expect(statements[0]["cash"].Float()).To(BeNil())
		})

		It("returns ErrEmptyResult when no modules come back", func() {
			body.Store(`{"quoteSummary": {"result": [], "error": null}}`)
			client := newClient()
			_, err := client.QuoteSummary(context.Background(), "RELIANCE", yahoo.ModulePrice)
			Expect(err).To(MatchError(yahoo.ErrEmptyResult))
		})
	})

	Describe("OptionChain", func() {
		It("decodes calls and puts", func() {
			body.Store(`{
				"optionChain": {
					"result": [{
						"underlyingSymbol": "RELIANCE.NS",
						"expirationDates": [1719532800, 1722124800],
						"options": [{
							"expirationDate": 1719532800,
							"calls": [{"contractSymbol": "RELIANCE240628C02900000", "strike": {"raw": 2900}, "lastPrice": {"raw": 45.5}, "inTheMoney": true, "expiration": 1719532800}],
							"puts": [{"contractSymbol": "RELIANCE240628P02900000", "strike": {"raw": 2900}, "lastPrice": {"raw": 12.0}, "inTheMoney": false, "expiration": 1719532800}]
						}]
					}],
					"error": null
				}
			}`)

			client := newClient()
			chain, err := client.OptionChain(context.Background(), "RELIANCE", 0)
			Expect(err).ToNot(HaveOccurred())

			Expect(chain.ExpirationDates).To(HaveLen(2))
			Expect(chain.Options).To(HaveLen(1))
			Expect(chain.Options[0].Calls[0].ContractSymbol).To(Equal("RELIANCE240628C02900000"))
			Expect(chain.Options[0].Calls[0].Strike.Float()).To(HaveValue(Equal(2900.0)))
			Expect(chain.Options[0].Puts[0].InTheMoney).To(BeFalse())
		})
	})
})
