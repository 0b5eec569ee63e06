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
package library_test

import (
	"time"

	"github.com/openquant/eqdata/data"
	"github.com/openquant/eqdata/library"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TickerTable", func() {
	It("renders one row per ticker and marks inactive symbols", func() {
		table := library.TickerTable([]*data.Ticker{
			{
				Symbol:      "RELIANCE",
				Name:        "Reliance Industries Limited",
				Exchange:    "NSI",
				Sector:      "Energy",
				Active:      true,
				LastUpdated: time.Date(2024, time.June, 14, 9, 30, 0, 0, time.UTC),
			},
			{
				Symbol:      "DELISTED",
				Name:        "Delisted Co",
				Active:      false,
				LastUpdated: time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC),
			},
		})

		Expect(table).To(ContainSubstring("| RELIANCE | Reliance Industries Limited | NSI | Energy | yes | 2024-06-14 |"))
		Expect(table).To(ContainSubstring("| DELISTED | Delisted Co |  |  | no | 2023-01-02 |"))
	})

	It("renders only the header for an empty library", func() {
		table := library.TickerTable(nil)
		Expect(table).To(ContainSubstring("| Symbol |"))
	})
})
