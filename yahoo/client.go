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

// Package yahoo is a rate limited client for the public Yahoo Finance
// chart, quoteSummary and options endpoints. Every request passes
// through a token bucket limiter and retries transparently on HTTP 429
// and 5xx responses.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// DefaultRateLimit is the maximum number of requests per minute made
	// against the upstream API. Yahoo does not publish a limit; this is a
	// conservative value that has proven safe for bulk loads.
	DefaultRateLimit = 30
)

var (
	ErrInvalidStatusCode = errors.New("invalid status code received")
	ErrEmptyResult       = errors.New("response contains no result")
)

type Client struct {
	baseURL string
	suffix  string
	client  *resty.Client
	limiter *rate.Limiter
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint; used by tests
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRateLimit sets the maximum number of requests per minute
func WithRateLimit(requestsPerMinute int) Option {
	return func(c *Client) {
		if requestsPerMinute > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/float64(61)), 1)
		}
	}
}

// WithSymbolSuffix appends an exchange suffix to every requested symbol,
// e.g. ".NS" for National Stock Exchange listings
func WithSymbolSuffix(suffix string) Option {
	return func(c *Client) {
		c.suffix = suffix
	}
}

// WithRetryWait sets the minimum and maximum wait between retries
func WithRetryWait(waitTime, maxWaitTime time.Duration) Option {
	return func(c *Client) {
		c.client.SetRetryWaitTime(waitTime).SetRetryMaxWaitTime(maxWaitTime)
	}
}

func New(opts ...Option) *Client {
	client := resty.New().
		SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) eqdata").
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(60 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return false
			}
			return resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500
		}).
		SetRetryAfter(func(client *resty.Client, resp *resty.Response) (time.Duration, error) {
			// honor the Retry-After header when the server sends one
			if seconds, err := strconv.Atoi(resp.Header().Get("Retry-After")); err == nil && seconds > 0 {
				return time.Duration(seconds) * time.Second, nil
			}
			return 0, nil
		})

	myClient := &Client{
		baseURL: DefaultBaseURL,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(float64(DefaultRateLimit)/float64(61)), 1),
	}

	for _, opt := range opts {
		opt(myClient)
	}

	return myClient
}

// FullSymbol returns the symbol as sent to the API, including any
// configured exchange suffix
func (c *Client) FullSymbol(symbol string) string {
	return symbol + c.suffix
}

// get waits for the rate limiter, issues the request and validates the
// response status
func (c *Client) get(ctx context.Context, url string, queryParams map[string]string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(queryParams).
		SetResult(result).
		Get(url)
	if err != nil {
		return err
	}

	if resp.StatusCode() >= 300 {
		return fmt.Errorf("%w: %d (%s)", ErrInvalidStatusCode, resp.StatusCode(), resp.Request.URL)
	}

	return nil
}
