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

	"github.com/openquant/eqdata/library"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("BusinessDays", func() {
	It("counts weekdays in a full week", func() {
		// Monday through Sunday
		Expect(library.BusinessDays(date(2024, time.June, 10), date(2024, time.June, 16))).To(Equal(5))
	})

	It("counts a single weekday", func() {
		Expect(library.BusinessDays(date(2024, time.June, 12), date(2024, time.June, 12))).To(Equal(1))
	})

	It("counts zero for a weekend range", func() {
		Expect(library.BusinessDays(date(2024, time.June, 15), date(2024, time.June, 16))).To(Equal(0))
	})

	It("counts roughly 260 weekdays in a year", func() {
		Expect(library.BusinessDays(date(2023, time.January, 1), date(2023, time.December, 31))).To(Equal(260))
	})
})

var _ = Describe("FiscalYears", func() {
	It("counts one year inside a single fiscal year", func() {
		Expect(library.FiscalYears(date(2023, time.April, 1), date(2024, time.March, 31))).To(Equal(1))
	})

	It("counts two years when the range crosses April", func() {
		Expect(library.FiscalYears(date(2024, time.February, 1), date(2024, time.May, 1))).To(Equal(2))
	})

	It("counts five years for a five year span", func() {
		Expect(library.FiscalYears(date(2019, time.June, 1), date(2024, time.May, 31))).To(Equal(6))
	})

	It("returns zero for an inverted range", func() {
		Expect(library.FiscalYears(date(2024, time.May, 1), date(2024, time.April, 1))).To(Equal(0))
	})
})
