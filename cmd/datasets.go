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
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/openquant/eqdata/dataset"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// datasetsCmd represents the datasets command
var datasetsCmd = &cobra.Command{
	Use:   "datasets [name]",
	Short: "List all datasets available or get details about a specific dataset",
	Run: func(cmd *cobra.Command, args []string) {
		r, _ := glamour.NewTermRenderer(
			// detect background color and pick either the default dark or light theme
			glamour.WithAutoStyle(),
			// wrap output at specific width (default is 80)
			glamour.WithWordWrap(80),
		)

		builder := strings.Builder{}
		registry := dataset.Map()

		if len(args) > 0 {
			if ds, ok := registry[args[0]]; ok {
				builder.WriteString(fmt.Sprintf("# %s\n", ds.Name))
				builder.WriteString(ds.Description)
				builder.WriteString("\n\n## Tables\n")
				for _, table := range ds.Tables {
					builder.WriteString(fmt.Sprintf("- %s\n", table))
				}
			} else {
				log.Fatal().Str("Dataset", args[0]).Strs("Available", dataset.Names()).Msg("unknown dataset")
			}
		} else {
			builder.WriteString("# Available Datasets\n")
			for _, name := range dataset.Names() {
				ds := registry[name]
				builder.WriteString(fmt.Sprintf("\n## %s\n", ds.Name))
				builder.WriteString(ds.Description)
			}
		}

		out, err := r.Render(builder.String())
		if err != nil {
			log.Fatal().Err(err).Msg("could not render dataset document")
		}

		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}
