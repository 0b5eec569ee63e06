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
package pkginfo_test

import (
	"runtime"
	"sort"

	"github.com/openquant/eqdata/pkginfo"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BuildVersionString", func() {
	It("names the binary and target platform", func() {
		banner := pkginfo.BuildVersionString()
		Expect(banner).To(HavePrefix("eqdata "))
		Expect(banner).To(ContainSubstring(runtime.GOOS + "/" + runtime.GOARCH))
		Expect(banner).To(ContainSubstring(runtime.Version()))
	})

	It("includes the stamped commit and build date", func() {
		pkginfo.CommitHash = "abc1234"
		pkginfo.BuildDate = "2026-08-29"
		defer func() {
			pkginfo.CommitHash = ""
			pkginfo.BuildDate = ""
		}()

		banner := pkginfo.BuildVersionString()
		Expect(banner).To(ContainSubstring("commit: abc1234"))
		Expect(banner).To(ContainSubstring("built: 2026-08-29"))
	})
})

var _ = Describe("Dependencies", func() {
	It("returns a list sorted by module path", func() {
		Expect(sort.StringsAreSorted(pkginfo.Dependencies())).To(BeTrue())
	})
})
