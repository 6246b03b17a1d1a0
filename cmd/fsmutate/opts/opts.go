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

package opts

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/fsmutate/pkg/config"
	"github.com/walteh/fsmutate/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool

	// Out receives operator-facing console output
	Out io.Writer
}

// New returns options writing to stdout
func New() *RootOpts {
	return &RootOpts{Out: os.Stdout}
}

// LoadConfig reads and validates the config file named by --config
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Level is the zerolog level selected by --debug
func (o *RootOpts) Level() zerolog.Level {
	if o.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// Console creates the per-mutation console logger
func (o *RootOpts) Console(ctx context.Context) *log.Logger {
	return log.New(ctx, o.Out)
}
