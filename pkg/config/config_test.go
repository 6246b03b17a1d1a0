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
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("FSMUTATE_TEST_AUDIT", "/srv/audit")

	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "full_yaml",
			filename: "fsmutate.yaml",
			config: `
log_dir: /var/log/fsmutate/
client:
  root: /mnt/warehouse
driver:
  rate: 25
  burst: 5
  parallel: 2
unclassified: STALL
exclude:
  - "/tmp/**"
access:
  admins: [root]
  writers: [alice, bob]
  readers: [carol]
  cache_readers: [dave]
metrics:
  listen: ":9102"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/var/log/fsmutate", cfg.LogDir, "log dir should be cleaned")
				assert.Equal(t, "/mnt/warehouse", cfg.Client.Root)
				assert.False(t, cfg.Client.DryRun)
				assert.Equal(t, 25.0, cfg.Driver.Rate)
				assert.Equal(t, 5, cfg.Driver.Burst)
				assert.Equal(t, 2, cfg.Driver.Parallel)
				assert.Equal(t, "stall", cfg.Unclassified, "policy should be normalized")
				assert.Equal(t, []string{"/tmp/**"}, cfg.Exclude)
				assert.Equal(t, []string{"root"}, cfg.Access.Admins)
				assert.Equal(t, []string{"alice", "bob"}, cfg.Access.Writers)
				assert.Equal(t, []string{"carol"}, cfg.Access.Readers)
				assert.Equal(t, []string{"dave"}, cfg.Access.CacheReaders)
				assert.Equal(t, ":9102", cfg.Metrics.Listen)
			},
		},
		{
			name:     "minimal_yaml_defaults",
			filename: "fsmutate.yml",
			config: `
log_dir: audit
client:
  dry_run: true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Client.DryRun)
				assert.Equal(t, "skip", cfg.Unclassified)
				assert.Equal(t, 1, cfg.Driver.Burst)
				assert.Equal(t, 1, cfg.Driver.Parallel)
				assert.Zero(t, cfg.Driver.Rate)
				assert.Equal(t, "dry-run (audit audit, rate unlimited, unclassified skip)", cfg.String())
			},
		},
		{
			name:     "hcl_with_env",
			filename: "fsmutate.hcl",
			config: `
log_dir      = "${env.FSMUTATE_TEST_AUDIT}/campaigns"
unclassified = "skip"
exclude      = ["/scratch/**"]

client {
  root = "/mnt/warehouse"
}

driver {
  rate     = 12.5
  parallel = 4
}

access {
  admins  = ["root"]
  writers = ["alice"]
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/audit/campaigns", cfg.LogDir)
				assert.Equal(t, "/mnt/warehouse", cfg.Client.Root)
				assert.Equal(t, 12.5, cfg.Driver.Rate)
				assert.Equal(t, 1, cfg.Driver.Burst)
				assert.Equal(t, 4, cfg.Driver.Parallel)
				assert.Equal(t, []string{"/scratch/**"}, cfg.Exclude)
				assert.Equal(t, []string{"alice"}, cfg.Access.Writers)
				assert.Empty(t, cfg.Metrics.Listen)
				assert.Equal(t, "/mnt/warehouse (audit /srv/audit/campaigns, rate 12.5/s, unclassified skip)", cfg.String())
			},
		},
		{
			name:     "json",
			filename: "fsmutate.json",
			config:   `{"log_dir": "/audit", "client": {"root": "/data"}, "driver": {"rate": 3}}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/audit", cfg.LogDir)
				assert.Equal(t, "/data", cfg.Client.Root)
				assert.Equal(t, 3.0, cfg.Driver.Rate)
			},
		},
		{
			name:        "missing_log_dir",
			filename:    "fsmutate.yaml",
			config:      "client:\n  root: /data\n",
			wantErr:     true,
			errContains: "log_dir is required",
		},
		{
			name:        "missing_client_root",
			filename:    "fsmutate.yaml",
			config:      "log_dir: /audit\n",
			wantErr:     true,
			errContains: "client.root is required",
		},
		{
			name:        "bad_unclassified_policy",
			filename:    "fsmutate.yaml",
			config:      "log_dir: /audit\nclient:\n  root: /data\nunclassified: retry\n",
			wantErr:     true,
			errContains: "unclassified must be skip or stall",
		},
		{
			name:        "negative_rate",
			filename:    "fsmutate.yaml",
			config:      "log_dir: /audit\nclient:\n  root: /data\ndriver:\n  rate: -1\n",
			wantErr:     true,
			errContains: "driver.rate must not be negative",
		},
		{
			name:        "unknown_yaml_field",
			filename:    "fsmutate.yaml",
			config:      "log_dir: /audit\nclient:\n  root: /data\nretries: 3\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			filename:    "fsmutate.json",
			config:      `{"log_dir": "/audit", "client": {"root": "/data"}, "retries": 3}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "hcl_missing_client_block",
			filename:    "fsmutate.hcl",
			config:      `log_dir = "/audit"`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "hcl_syntax_error",
			filename:    "fsmutate.hcl",
			config:      `log_dir = `,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "unsupported_extension",
			filename:    "fsmutate.toml",
			config:      "log_dir = '/audit'",
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0o644), "writing config file")

			logger := zerolog.New(zerolog.NewTestWriter(t))
			ctx := logger.WithContext(context.Background())

			cfg, err := Load(ctx, path)
			if tt.wantErr {
				require.Error(t, err, "Load should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error message should match")
				return
			}

			require.NoError(t, err, "Load should succeed")
			require.NotNil(t, cfg, "config should not be nil")
			tt.check(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		filename string
		want     Parser
	}{
		{filename: "a.yaml", want: &YAMLParser{}},
		{filename: "A.YML", want: &YAMLParser{}},
		{filename: "a.hcl", want: &HCLParser{}},
		{filename: "a.json", want: &JSONParser{}},
		{filename: "a.txt", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}
