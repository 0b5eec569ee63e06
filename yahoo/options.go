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
package yahoo

import (
	"context"
	"fmt"
	"strconv"
)

type optionsResponse struct {
	OptionChain struct {
		Result []*OptionChainResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"optionChain"`
}

type OptionChainResult struct {
	UnderlyingSymbol string  `json:"underlyingSymbol"`
	ExpirationDates  []int64 `json:"expirationDates"`
	Options          []struct {
		ExpirationDate int64            `json:"expirationDate"`
		Calls          []OptionContract `json:"calls"`
		Puts           []OptionContract `json:"puts"`
	} `json:"options"`
}

type OptionContract struct {
	ContractSymbol    string `json:"contractSymbol"`
	Strike            Number `json:"strike"`
	LastPrice         Number `json:"lastPrice"`
	Bid               Number `json:"bid"`
	Ask               Number `json:"ask"`
	Volume            Number `json:"volume"`
	OpenInterest      Number `json:"openInterest"`
	ImpliedVolatility Number `json:"impliedVolatility"`
	InTheMoney        bool   `json:"inTheMoney"`
	Expiration        int64  `json:"expiration"`
}

// OptionChain fetches the option chain for symbol. When expiration is
// non-zero only contracts for that expiration date are returned,
// otherwise the nearest expiration is used.
func (c *Client) OptionChain(ctx context.Context, symbol string, expiration int64) (*OptionChainResult, error) {
	var resp optionsResponse

	queryParams := map[string]string{}
	if expiration > 0 {
		queryParams["date"] = strconv.FormatInt(expiration, 10)
	}

	url := fmt.Sprintf("%s/v7/finance/options/%s", c.baseURL, c.FullSymbol(symbol))
	err := c.get(ctx, url, queryParams, &resp)
	if err != nil {
		return nil, err
	}

	if resp.OptionChain.Error != nil {
		return nil, fmt.Errorf("options request failed: %s (%s)",
			resp.OptionChain.Error.Code, resp.OptionChain.Error.Description)
	}

	if len(resp.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("%w: options %s", ErrEmptyResult, symbol)
	}

	return resp.OptionChain.Result[0], nil
}
