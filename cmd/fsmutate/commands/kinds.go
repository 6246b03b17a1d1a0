// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/fsmutate/cmd/fsmutate/opts"
	"github.com/walteh/fsmutate/pkg/access"
	"github.com/walteh/fsmutate/pkg/operation"
)

// NewKindsCmd creates the kinds command
func NewKindsCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the available mutation kinds",
		Long:  "Kinds lists every registered mutation kind with its parameters. Parameters ending in ? are optional.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return pterm.DefaultTable.
				WithHasHeader().
				WithWriter(o.Out).
				WithData(kindsTable(operation.DefaultRegistry)).
				Render()
		},
	}
}

func kindsTable(r *operation.Registry) pterm.TableData {
	data := pterm.TableData{{"KIND", "PARAMETERS", "REQUIRES", "DESCRIPTION"}}
	for _, s := range r.Specs() {
		params := strings.Join(s.Params, ", ")
		if params == "" {
			params = "-"
		}
		data = append(data, []string{
			s.Kind.String(),
			params,
			access.Required(s.Kind.String()).String(),
			s.Description,
		})
	}
	return data
}
