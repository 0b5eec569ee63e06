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

// Package pkginfo exposes build information stamped in at link time.
package pkginfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// set via -ldflags at build time
var (
	BuildDate  string
	CommitHash string
	Version    = "dev"
)

// BuildVersionString returns the banner printed by the version sub-command
func BuildVersionString() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "eqdata %s %s/%s\n", Version, runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&sb, "compiler: %s\n", runtime.Version())

	if CommitHash != "" {
		fmt.Fprintf(&sb, "commit: %s\n", CommitHash)
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, "built: %s\n", BuildDate)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// Dependencies returns the modules linked into the binary, sorted by
// module path
func Dependencies() []string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		log.Error().Msg("build info not available")
		return nil
	}

	deps := make([]string, 0, len(buildInfo.Deps))
	for _, dep := range buildInfo.Deps {
		deps = append(deps, fmt.Sprintf("%s %s", dep.Path, dep.Version))
	}

	sort.Strings(deps)

	return deps
}
