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

// Package healthcheck signals run progress to a healthchecks.io
// monitor. All functions are no-ops when no check id is configured.
package healthcheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var ErrStatus = errors.New("status code is invalid")

// endpoints are variables so tests can point them at a local server
var (
	apiURL  = "https://healthchecks.io/api/v3/checks/"
	pingURL = "https://hc-ping.com"
)

type createReq struct {
	APIKey      string `json:"api_key"`
	Name        string `json:"name"`
	Description string `json:"desc,omitempty"`
	Grace       int    `json:"grace"`
	Schedule    string `json:"schedule"`
	Slug        string `json:"slug"`
	Tags        string `json:"tags"`
	Timezone    string `json:"tz"`
}

type createResp struct {
	PingURL string `json:"ping_url"`
}

// Create a new healthchecks.io check and return the id
func Create(name string, slug string, tags []string, schedule string) (string, error) {
	command := createReq{
		APIKey:   viper.GetString("healthchecks.apikey"),
		Name:     name,
		Slug:     slug,
		Tags:     strings.Join(tags, " "),
		Grace:    3600,
		Schedule: schedule,
		Timezone: "Asia/Kolkata",
	}

	result := createResp{}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(command).
		SetResult(&result).
		Post(apiURL)

	if err != nil {
		return "", err
	}

	if resp.StatusCode() > 201 {
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	checkID := strings.Split(result.PingURL, "/")
	healthCheckID := checkID[len(checkID)-1]

	return healthCheckID, nil
}

// PingStart signals the beginning of a run
func PingStart(checkID string) {
	ping(checkID, "/start")
}

// PingSuccess signals successful completion of a run
func PingSuccess(checkID string) {
	ping(checkID, "")
}

// PingFailure signals a failed run
func PingFailure(checkID string) {
	ping(checkID, "/fail")
}

func ping(checkID string, suffix string) {
	if checkID == "" {
		return
	}

	client := resty.New()
	resp, err := client.R().Get(fmt.Sprintf("%s/%s%s", pingURL, checkID, suffix))
	if err != nil {
		log.Warn().Err(err).Str("CheckID", checkID).Msg("health check ping failed")
		return
	}

	if resp.StatusCode() != 200 {
		log.Warn().Int("StatusCode", resp.StatusCode()).Str("CheckID", checkID).Msg("health check ping returned error status")
	}
}
