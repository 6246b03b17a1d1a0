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
	"sort"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/fsmutate/cmd/fsmutate/opts"
	"github.com/walteh/fsmutate/pkg/audit"
	"gitlab.com/tozd/go/errors"
)

// NewAuditCmd creates the audit command
func NewAuditCmd(o *opts.RootOpts) *cobra.Command {
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "audit <log file>",
		Short: "Summarize a campaign audit log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := audit.Read(args[0])
			if err != nil {
				return errors.Errorf("reading %s: %w", args[0], err)
			}

			if err := pterm.DefaultTable.
				WithHasHeader().
				WithWriter(o.Out).
				WithData(summaryTable(audit.Summarize(records))).
				Render(); err != nil {
				return err
			}

			if !failedOnly {
				return nil
			}
			failed := pterm.TableData{{"TIME", "PATH", "TYPE"}}
			for _, r := range records {
				if !r.Success {
					failed = append(failed, []string{r.Time.Format(time.RFC3339), r.Path, r.Type})
				}
			}
			return pterm.DefaultTable.WithHasHeader().WithWriter(o.Out).WithData(failed).Render()
		},
	}

	cmd.Flags().BoolVar(&failedOnly, "failed", false, "also list every failed entry")
	return cmd
}

func summaryTable(s audit.Summary) pterm.TableData {
	data := pterm.TableData{{"TYPE", "ATTEMPTED", "SUCCEEDED", "FAILED"}}

	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Strings(types)

	row := func(name string, c audit.Counts) []string {
		return []string{name, strconv.Itoa(c.Attempted), strconv.Itoa(c.Succeeded), strconv.Itoa(c.Failed)}
	}
	for _, t := range types {
		data = append(data, row(t, s.ByType[t]))
	}
	return append(data, row("TOTAL", s.Counts))
}
