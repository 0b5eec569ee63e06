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
package cmd

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("load command", func() {
	It("takes symbols as arguments and datasets as a flag", func() {
		Expect(loadCmd.Use).To(Equal("load [symbol...]"))
		Expect(loadCmd.Flags().Lookup("datasets")).ToNot(BeNil())
		Expect(loadCmd.Flags().Lookup("universe")).ToNot(BeNil())
		Expect(loadCmd.Flags().Lookup("start")).ToNot(BeNil())
		Expect(loadCmd.Flags().Lookup("end")).ToNot(BeNil())
	})

	Describe("loadDateRange", func() {
		BeforeEach(func() {
			loadStartStr = ""
			loadEndStr = ""
		})

		AfterEach(func() {
			loadStartStr = ""
			loadEndStr = ""
		})

		It("defaults to the five years ending today", func() {
			start, end := loadDateRange()
			Expect(end).To(Equal(time.Now().UTC().Truncate(24 * time.Hour)))
			Expect(start).To(Equal(end.AddDate(-5, 0, 0)))
		})

		It("parses explicit start and end dates", func() {
			loadStartStr = "2024-01-01"
			loadEndStr = "2024-06-30"

			start, end := loadDateRange()
			Expect(start).To(Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
			Expect(end).To(Equal(time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)))
		})
	})
})
