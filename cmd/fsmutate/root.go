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

package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fsmutate/cmd/fsmutate/commands"
	"github.com/walteh/fsmutate/cmd/fsmutate/opts"
)

// newRootCmd wires the shared options into every command
func newRootCmd(o *opts.RootOpts, logOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fsmutate",
		Short: "Bulk mutation campaigns for filesystem metadata",
		Long: `fsmutate applies administrative mutations (storage policy, replication,
ownership, permissions, caching, deletion) to large working sets of
filesystem entries, one entry at a time, with an audit log per campaign.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := setupLogging(o, logOut)
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewRunCmd(o),
		commands.NewKindsCmd(o),
		commands.NewAuditCmd(o),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "fsmutate.hcl", "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(o *opts.RootOpts, out io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(o.Level())
	log := zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
	return log
}

func defaultLogOutput() io.Writer {
	return os.Stderr
}
