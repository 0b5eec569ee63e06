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
package healthcheck

import (
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Create", func() {
	var (
		server    *httptest.Server
		oldAPIURL string
	)

	BeforeEach(func() {
		oldAPIURL = apiURL
	})

	AfterEach(func() {
		apiURL = oldAPIURL
		server.Close()
	})

	It("returns the check id from the ping url", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ping_url": "https://hc-ping.com/abc-123"}`))
		}))
		apiURL = server.URL

		checkID, err := Create("my library", "eqdata-load", []string{"eqdata"}, "0 18 * * 1-5")
		Expect(err).ToNot(HaveOccurred())
		Expect(checkID).To(Equal("abc-123"))
	})

	It("fails on an error status", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		apiURL = server.URL

		_, err := Create("my library", "eqdata-load", nil, "0 18 * * 1-5")
		Expect(err).To(MatchError(ErrStatus))
	})
})

var _ = Describe("pings", func() {
	var (
		server     *httptest.Server
		oldPingURL string
		mu         sync.Mutex
		paths      []string
	)

	BeforeEach(func() {
		paths = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			paths = append(paths, r.URL.Path)
			mu.Unlock()
		}))
		oldPingURL = pingURL
		pingURL = server.URL
	})

	AfterEach(func() {
		pingURL = oldPingURL
		server.Close()
	})

	It("signals start, success and failure for a check", func() {
		PingStart("abc-123")
		PingSuccess("abc-123")
		PingFailure("abc-123")

		Expect(paths).To(Equal([]string{"/abc-123/start", "/abc-123", "/abc-123/fail"}))
	})

	It("does nothing when no check is configured", func() {
		PingStart("")
		PingSuccess("")
		PingFailure("")

		Expect(paths).To(BeEmpty())
	})
})
