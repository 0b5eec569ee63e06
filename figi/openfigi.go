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

// Package figi maps ticker symbols to security identifiers using the
// OpenFIGI api
package figi

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/openquant/eqdata/data"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

const OPENFIGI_MAPPING_URL string = "https://api.openfigi.com/v3/mapping"

type MappingResponse struct {
	Data []*OpenFigiAsset `json:"data"`
}

type OpenFigiAsset struct {
	Figi                string `json:"figi"`
	SecurityType        string `json:"securityType"`
	MarketSector        string `json:"marketSector"`
	Ticker              string `json:"ticker"`
	Name                string `json:"name"`
	ExchangeCode        string `json:"exchCode"`
	ShareClassFIGI      string `json:"shareClassFIGI"`
	CompositeFIGI       string `json:"compositeFIGI"`
	SecurityType2       string `json:"securityType2"`
	SecurityDescription string `json:"securityDescription"`
}

type OpenFigiQuery struct {
	IdType                  string `json:"idType"`
	IdValue                 string `json:"idValue"`
	ExchangeCode            string `json:"exchCode"`
	MarketSectorDescription string `json:"marketSecDes"`
}

func rateLimit() *rate.Limiter {
	dur := (time.Second * 6) / 25
	openFigiRate := rate.Every(dur)
	return rate.NewLimiter(openFigiRate, 10)
}

func mapFigis(query []*OpenFigiQuery) ([]*MappingResponse, error) {
	if len(query) > 100 {
		log.Error().Msg("programming error - too many tickers in request")
	}

	apiKey := viper.GetString("openfigi.apikey")
	mappingResponse := make([]*MappingResponse, 0)
	client := resty.New()
	resp, err := client.R().
		SetHeader("X-OPENFIGI-APIKEY", apiKey).
		SetBody(query).
		SetResult(&mappingResponse).
		Post(OPENFIGI_MAPPING_URL)

	log.Debug().Str("URL", OPENFIGI_MAPPING_URL).Int("NumTickers", len(query)).Msg("map tickers to FIGIs")

	if err != nil {
		log.Error().Err(err).Msg("OpenFigi api called errored out")
		return []*MappingResponse{}, err
	}

	if resp.StatusCode() >= 400 {
		log.Error().Int("StatusCode", resp.StatusCode()).Str("Body", string(resp.Body())).Msg("openfigi api call returned invalid status code")
		return []*MappingResponse{}, err
	}

	return mappingResponse, nil
}

// Enrich fills in the name and exchange of tickers that are missing
// them. Tickers the mapping service does not know are left untouched.
func Enrich(tickers ...*data.Ticker) {
	rateLimiter := rateLimit()

	missing := make([]*data.Ticker, 0, 100)
	for _, ticker := range tickers {
		if ticker.Name == "" || ticker.Exchange == "" {
			missing = append(missing, ticker)
		}
	}

	figiMap := LookupTickers(missing, rateLimiter)
	for _, ticker := range missing {
		figiAsset, ok := figiMap[ticker.Symbol]
		if !ok {
			continue
		}

		if ticker.Name == "" {
			ticker.Name = figiAsset.Name
		}

		if ticker.Exchange == "" {
			ticker.Exchange = figiAsset.ExchangeCode
		}
	}
}

// LookupTickers queries the mapping service in batches of 100 and
// returns the results keyed by symbol
func LookupTickers(tickers []*data.Ticker, rateLimiter *rate.Limiter) map[string]*OpenFigiAsset {
	exchangeCode := viper.GetString("openfigi.exchange_code")
	if exchangeCode == "" {
		exchangeCode = "US"
	}

	query := make([]*OpenFigiQuery, 0, 100)
	result := make(map[string]*OpenFigiAsset)

	collect := func() {
		if err := rateLimiter.Wait(context.Background()); err != nil {
			log.Panic().Err(err).Msg("rate limiter failed")
		}

		mappingResponse, _ := mapFigis(query)
		for _, resp := range mappingResponse {
			for _, figiAsset := range resp.Data {
				result[figiAsset.Ticker] = figiAsset
			}
		}
		query = make([]*OpenFigiQuery, 0, 100)
	}

	for _, ticker := range tickers {
		query = append(query, &OpenFigiQuery{
			IdType:                  "TICKER",
			IdValue:                 ticker.Symbol,
			ExchangeCode:            exchangeCode,
			MarketSectorDescription: "Equity",
		})

		if len(query) == 100 {
			collect()
		}
	}

	if len(query) > 0 {
		collect()
	}

	return result
}
