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
	"time"

	"github.com/goccy/go-json"
	"github.com/openquant/eqdata/yahoo"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Number", func() {
	decode := func(input string) yahoo.Number {
		var n yahoo.Number
		Expect(json.Unmarshal([]byte(input), &n)).To(Succeed())
		return n
	}

	It("decodes a raw/fmt object", func() {
		n := decode(`{"raw": 1234.5, "fmt": "1.23k"}`)
		Expect(n.Float()).To(HaveValue(Equal(1234.5)))
		Expect(n.Int64()).To(HaveValue(Equal(int64(1234))))
	})

	It("decodes a bare number", func() {
		n := decode(`42`)
		Expect(n.Float()).To(HaveValue(Equal(42.0)))
	})

	It("treats an empty object as missing", func() {
		n := decode(`{}`)
		Expect(n.Float()).To(BeNil())
		Expect(n.Int64()).To(BeNil())
	})

	It("treats null as missing", func() {
		n := decode(`null`)
		Expect(n.Float()).To(BeNil())
	})

	It("treats a non-numeric value as missing", func() {
		n := decode(`"Infinity"`)
		Expect(n.Float()).To(BeNil())
	})

	It("interprets the raw value as a unix timestamp", func() {
		n := decode(`{"raw": 1703980800, "fmt": "2023-12-31"}`)
		Expect(n.Time()).To(Equal(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
	})

	It("returns the zero time when missing", func() {
		n := decode(`{}`)
		Expect(n.Time().IsZero()).To(BeTrue())
	})
})
