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
	"strings"
)

// quoteSummary modules grouped by the dataset that consumes them
const (
	ModuleAssetProfile         = "assetProfile"
	ModulePrice                = "price"
	ModuleSummaryDetail        = "summaryDetail"
	ModuleKeyStatistics        = "defaultKeyStatistics"
	ModuleFinancialData        = "financialData"
	ModuleBalanceSheet         = "balanceSheetHistory"
	ModuleIncomeStatement      = "incomeStatementHistory"
	ModuleCashflowStatement    = "cashflowStatementHistory"
	ModuleEarningsHistory      = "earningsHistory"
	ModuleRecommendationTrend  = "recommendationTrend"
	ModuleEsgScores            = "esgScores"
	ModuleInstitutionOwnership = "institutionOwnership"
	ModuleFundOwnership        = "fundOwnership"
)

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []*QuoteSummaryResult `json:"result"`
		Error  *apiError             `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteSummaryResult holds the requested modules; modules that were not
// requested, or that the source has no data for, are nil
type QuoteSummaryResult struct {
	AssetProfile         *AssetProfile        `json:"assetProfile"`
	Price                *PriceModule         `json:"price"`
	SummaryDetail        *SummaryDetail       `json:"summaryDetail"`
	KeyStatistics        *KeyStatistics       `json:"defaultKeyStatistics"`
	FinancialData        *FinancialData       `json:"financialData"`
	BalanceSheetHistory  *BalanceSheetHistory `json:"balanceSheetHistory"`
	IncomeHistory        *IncomeHistory       `json:"incomeStatementHistory"`
	CashflowHistory      *CashflowHistory     `json:"cashflowStatementHistory"`
	EarningsHistory      *EarningsHistory     `json:"earningsHistory"`
	RecommendationTrend  *RecommendationTrend `json:"recommendationTrend"`
	EsgScores            *EsgScores           `json:"esgScores"`
	InstitutionOwnership *OwnershipList       `json:"institutionOwnership"`
	FundOwnership        *OwnershipList       `json:"fundOwnership"`
}

type AssetProfile struct {
	LongName            string `json:"longName"`
	Sector              string `json:"sector"`
	Industry            string `json:"industry"`
	LongBusinessSummary string `json:"longBusinessSummary"`
	Website             string `json:"website"`
	City                string `json:"city"`
	Country             string `json:"country"`
	FullTimeEmployees   *int64 `json:"fullTimeEmployees"`
}

type PriceModule struct {
	ShortName    string `json:"shortName"`
	LongName     string `json:"longName"`
	ExchangeName string `json:"exchangeName"`
	Currency     string `json:"currency"`
	MarketCap    Number `json:"marketCap"`
}

type SummaryDetail struct {
	MarketCap     Number `json:"marketCap"`
	TrailingPE    Number `json:"trailingPE"`
	ForwardPE     Number `json:"forwardPE"`
	PriceToSales  Number `json:"priceToSalesTrailing12Months"`
	Beta          Number `json:"beta"`
	DividendYield Number `json:"dividendYield"`
	DividendRate  Number `json:"dividendRate"`
	PayoutRatio   Number `json:"payoutRatio"`
}

type KeyStatistics struct {
	EnterpriseValue   Number `json:"enterpriseValue"`
	PriceToBook       Number `json:"priceToBook"`
	PegRatio          Number `json:"pegRatio"`
	BookValue         Number `json:"bookValue"`
	TrailingEps       Number `json:"trailingEps"`
	ProfitMargins     Number `json:"profitMargins"`
	SharesOutstanding Number `json:"sharesOutstanding"`
}

type FinancialData struct {
	DebtToEquity      Number `json:"debtToEquity"`
	CurrentRatio      Number `json:"currentRatio"`
	QuickRatio        Number `json:"quickRatio"`
	ReturnOnEquity    Number `json:"returnOnEquity"`
	ReturnOnAssets    Number `json:"returnOnAssets"`
	GrossMargins      Number `json:"grossMargins"`
	OperatingMargins  Number `json:"operatingMargins"`
	ProfitMargins     Number `json:"profitMargins"`
	RevenueGrowth     Number `json:"revenueGrowth"`
	EarningsGrowth    Number `json:"earningsGrowth"`
	TotalRevenue      Number `json:"totalRevenue"`
	TotalCash         Number `json:"totalCash"`
	TotalDebt         Number `json:"totalDebt"`
	FreeCashflow      Number `json:"freeCashflow"`
	OperatingCashflow Number `json:"operatingCashflow"`
}

// Statement is one reporting period of a financial statement. Line
// items vary by company and statement type, so they decode as a map
// from the source field name to its value. The endDate key carries the
// period end date.
type Statement map[string]Number

// EndDate returns the reporting period end or the zero time
func (s Statement) EndDate() Number {
	return s["endDate"]
}

type BalanceSheetHistory struct {
	Statements []Statement `json:"balanceSheetStatements"`
}

type IncomeHistory struct {
	Statements []Statement `json:"incomeStatementHistory"`
}

type CashflowHistory struct {
	Statements []Statement `json:"cashflowStatements"`
}

type EarningsHistory struct {
	History []struct {
		Quarter         Number `json:"quarter"`
		EpsActual       Number `json:"epsActual"`
		EpsEstimate     Number `json:"epsEstimate"`
		EpsDifference   Number `json:"epsDifference"`
		SurprisePercent Number `json:"surprisePercent"`
	} `json:"history"`
}

type RecommendationTrend struct {
	Trend []struct {
		Period     string `json:"period"`
		StrongBuy  *int   `json:"strongBuy"`
		Buy        *int   `json:"buy"`
		Hold       *int   `json:"hold"`
		Sell       *int   `json:"sell"`
		StrongSell *int   `json:"strongSell"`
	} `json:"trend"`
}

type EsgScores struct {
	TotalEsg           Number `json:"totalEsg"`
	EnvironmentScore   Number `json:"environmentScore"`
	SocialScore        Number `json:"socialScore"`
	GovernanceScore    Number `json:"governanceScore"`
	HighestControversy Number `json:"highestControversy"`
	RatingYear         *int   `json:"ratingYear"`
	RatingMonth        *int   `json:"ratingMonth"`
}

type OwnershipList struct {
	OwnershipList []struct {
		ReportDate   Number `json:"reportDate"`
		Organization string `json:"organization"`
		PctHeld      Number `json:"pctHeld"`
		Position     Number `json:"position"`
		Value        Number `json:"value"`
	} `json:"ownershipList"`
}

// QuoteSummary fetches the requested quoteSummary modules for symbol
func (c *Client) QuoteSummary(ctx context.Context, symbol string, modules ...string) (*QuoteSummaryResult, error) {
	var resp quoteSummaryResponse

	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s", c.baseURL, c.FullSymbol(symbol))
	err := c.get(ctx, url, map[string]string{
		"modules": strings.Join(modules, ","),
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary request failed: %s (%s)",
			resp.QuoteSummary.Error.Code, resp.QuoteSummary.Error.Description)
	}

	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: quoteSummary %s", ErrEmptyResult, symbol)
	}

	return resp.QuoteSummary.Result[0], nil
}
