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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔌 ClientArgs selects the filesystem client
type ClientArgs struct {
	Root   string `json:"root,omitempty" yaml:"root,omitempty"`       // Root of the local backing tree
	DryRun bool   `json:"dry_run,omitempty" yaml:"dry_run,omitempty"` // Log mutations instead of applying them
}

// 🏃 DriverArgs paces campaign execution
type DriverArgs struct {
	Rate     float64 `json:"rate,omitempty" yaml:"rate,omitempty"`         // Advance calls per second, 0 is unlimited
	Burst    int     `json:"burst,omitempty" yaml:"burst,omitempty"`       // Token bucket size
	Parallel int     `json:"parallel,omitempty" yaml:"parallel,omitempty"` // Campaigns driven at once
}

// 🔐 AccessArgs lists the users holding each capability
type AccessArgs struct {
	Admins       []string `json:"admins,omitempty" yaml:"admins,omitempty"`
	Writers      []string `json:"writers,omitempty" yaml:"writers,omitempty"`
	Readers      []string `json:"readers,omitempty" yaml:"readers,omitempty"`
	CacheReaders []string `json:"cache_readers,omitempty" yaml:"cache_readers,omitempty"`
}

// 📊 MetricsArgs configures the Prometheus endpoint
type MetricsArgs struct {
	Listen string `json:"listen,omitempty" yaml:"listen,omitempty"` // Address for /metrics, empty disables it
}

// 📚 Config represents the complete configuration
type Config struct {
	LogDir       string      `json:"log_dir" yaml:"log_dir"`
	Client       ClientArgs  `json:"client" yaml:"client"`
	Driver       DriverArgs  `json:"driver,omitempty" yaml:"driver,omitempty"`
	Unclassified string      `json:"unclassified,omitempty" yaml:"unclassified,omitempty"`
	Exclude      []string    `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Access       AccessArgs  `json:"access,omitempty" yaml:"access,omitempty"`
	Metrics      MetricsArgs `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks required fields, cleans paths and fills defaults
func (cfg *Config) Validate() error {
	if cfg.LogDir == "" {
		return errors.Errorf("log_dir is required")
	}
	if cfg.Client.Root == "" && !cfg.Client.DryRun {
		return errors.Errorf("client.root is required unless client.dry_run is set")
	}
	if cfg.Driver.Rate < 0 {
		return errors.Errorf("driver.rate must not be negative")
	}
	if cfg.Driver.Burst < 0 || cfg.Driver.Parallel < 0 {
		return errors.Errorf("driver.burst and driver.parallel must not be negative")
	}

	switch strings.ToLower(cfg.Unclassified) {
	case "":
		cfg.Unclassified = "skip"
	case "skip", "stall":
		cfg.Unclassified = strings.ToLower(cfg.Unclassified)
	default:
		return errors.Errorf("unclassified must be skip or stall, got %q", cfg.Unclassified)
	}

	// Clean up paths
	cfg.LogDir = filepath.Clean(cfg.LogDir)
	if cfg.Client.Root != "" {
		cfg.Client.Root = filepath.Clean(cfg.Client.Root)
	}

	// Set defaults
	if cfg.Driver.Burst == 0 {
		cfg.Driver.Burst = 1
	}
	if cfg.Driver.Parallel == 0 {
		cfg.Driver.Parallel = 1
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	target := cfg.Client.Root
	if cfg.Client.DryRun {
		target = "dry-run"
	}
	rate := "unlimited"
	if cfg.Driver.Rate > 0 {
		rate = fmt.Sprintf("%g/s", cfg.Driver.Rate)
	}
	return fmt.Sprintf("%s (audit %s, rate %s, unclassified %s)", target, cfg.LogDir, rate, cfg.Unclassified)
}
