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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
//
// Expressions can read the process environment through the env object,
// e.g. log_dir = "${env.HOME}/fsmutate".
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environment(),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		LogDir       string   `hcl:"log_dir"`
		Unclassified string   `hcl:"unclassified,optional"`
		Exclude      []string `hcl:"exclude,optional"`
		Client       struct {
			Root   string `hcl:"root,optional"`
			DryRun bool   `hcl:"dry_run,optional"`
		} `hcl:"client,block"`
		Driver *struct {
			Rate     float64 `hcl:"rate,optional"`
			Burst    int     `hcl:"burst,optional"`
			Parallel int     `hcl:"parallel,optional"`
		} `hcl:"driver,block"`
		Access *struct {
			Admins       []string `hcl:"admins,optional"`
			Writers      []string `hcl:"writers,optional"`
			Readers      []string `hcl:"readers,optional"`
			CacheReaders []string `hcl:"cache_readers,optional"`
		} `hcl:"access,block"`
		Metrics *struct {
			Listen string `hcl:"listen,optional"`
		} `hcl:"metrics,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		LogDir:       hclCfg.LogDir,
		Unclassified: hclCfg.Unclassified,
		Exclude:      hclCfg.Exclude,
		Client: ClientArgs{
			Root:   hclCfg.Client.Root,
			DryRun: hclCfg.Client.DryRun,
		},
	}
	if d := hclCfg.Driver; d != nil {
		cfg.Driver = DriverArgs{Rate: d.Rate, Burst: d.Burst, Parallel: d.Parallel}
	}
	if a := hclCfg.Access; a != nil {
		cfg.Access = AccessArgs{
			Admins:       a.Admins,
			Writers:      a.Writers,
			Readers:      a.Readers,
			CacheReaders: a.CacheReaders,
		}
	}
	if m := hclCfg.Metrics; m != nil {
		cfg.Metrics.Listen = m.Listen
	}

	return cfg, nil
}

// environment exposes the process environment as a cty object
func environment() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(vars)
}
