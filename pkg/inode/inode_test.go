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

package inode

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"FILE", TypeFile},
		{"file", TypeFile},
		{"DIR", TypeDirectory},
		{"directory", TypeDirectory},
		{"symlink", TypeOther},
		{"", TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseType(tt.in), "parsed type should match")
		})
	}

	assert.Equal(t, "FILE", TypeFile.String())
	assert.Equal(t, "DIRECTORY", TypeDirectory.String())
	assert.Equal(t, "UNKNOWN", TypeOther.String())
}

func TestWorkingSetFilter(t *testing.T) {
	ws := WorkingSet{
		{Path: "/data/a.parquet", Type: TypeFile},
		{Path: "/data/tmp/b.tmp", Type: TypeFile},
		{Path: "/tmp/scratch", Type: TypeDirectory},
		{Path: "/data/c.log", Type: TypeFile},
	}

	tests := []struct {
		name        string
		patterns    []string
		want        []string
		wantErr     bool
		errContains string
	}{
		{
			name:     "no_patterns",
			patterns: nil,
			want:     []string{"/data/a.parquet", "/data/tmp/b.tmp", "/tmp/scratch", "/data/c.log"},
		},
		{
			name:     "double_star",
			patterns: []string{"/data/tmp/**", "/tmp/**"},
			want:     []string{"/data/a.parquet", "/data/c.log"},
		},
		{
			name:     "extension",
			patterns: []string{"/**/*.log"},
			want:     []string{"/data/a.parquet", "/data/tmp/b.tmp", "/tmp/scratch"},
		},
		{
			name:        "invalid_pattern",
			patterns:    []string{"/data/[a"},
			wantErr:     true,
			errContains: "invalid exclude pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ws.Filter(tt.patterns)
			if tt.wantErr {
				require.Error(t, err, "Filter should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}
			require.NoError(t, err, "Filter should succeed")
			assert.Equal(t, tt.want, got.Paths(), "remaining paths should match")
		})
	}
}

func TestWorkingSetDedupe(t *testing.T) {
	ws := WorkingSet{
		{Path: "/a", Type: TypeFile, Replication: 3},
		{Path: "/b", Type: TypeDirectory},
		{Path: "/a", Type: TypeFile, Replication: 1},
	}

	got := ws.Dedupe()
	require.Len(t, got, 2, "duplicates should be dropped")
	assert.Equal(t, []string{"/a", "/b"}, got.Paths())
	assert.Equal(t, int16(3), got[0].Replication, "first occurrence should win")
}

func TestLoadManifest(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		content     string
		wantErr     bool
		errContains string
		check       func(t *testing.T, m *Manifest)
	}{
		{
			name:     "yaml_manifest",
			filename: "set.yaml",
			content: `
query: /filter?set=files&filters=fileSize:lt:1024
entries:
  - path: /data/dirA
    type: DIRECTORY
  - path: /data/dirA/file1
    type: FILE
    replication: 3
    storage_policy: HOT
  - path: /data/dirA/link
    type: SYMLINK
`,
			check: func(t *testing.T, m *Manifest) {
				assert.Equal(t, "/filter?set=files&filters=fileSize:lt:1024", m.Query, "query should match")
				require.Len(t, m.Entries, 3, "should have 3 entries")
				assert.Equal(t, TypeDirectory, m.Entries[0].Type)
				assert.Equal(t, TypeFile, m.Entries[1].Type)
				assert.Equal(t, int16(3), m.Entries[1].Replication)
				assert.Equal(t, "HOT", m.Entries[1].StoragePolicy)
				assert.Equal(t, TypeOther, m.Entries[2].Type, "unknown labels should map to TypeOther")
			},
		},
		{
			name:     "json_manifest",
			filename: "set.json",
			content:  `{"entries":[{"path":"/x","type":"FILE"},{"path":"/y","type":"DIR"}]}`,
			check: func(t *testing.T, m *Manifest) {
				assert.Equal(t, []string{"/x", "/y"}, m.Entries.Paths())
				assert.True(t, m.Entries[0].IsFile())
				assert.True(t, m.Entries[1].IsDirectory())
			},
		},
		{
			name:        "missing_path",
			filename:    "set.json",
			content:     `{"entries":[{"type":"FILE"}]}`,
			wantErr:     true,
			errContains: "has no path",
		},
		{
			name:        "unknown_field",
			filename:    "set.json",
			content:     `{"entries":[],"extra":true}`,
			wantErr:     true,
			errContains: "parsing JSON manifest",
		},
		{
			name:        "unsupported_extension",
			filename:    "set.txt",
			content:     "/x",
			wantErr:     true,
			errContains: "unsupported manifest extension",
		},
	}

	ctx := zerolog.Nop().WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644), "writing manifest should succeed")

			m, err := LoadManifest(ctx, path)
			if tt.wantErr {
				require.Error(t, err, "LoadManifest should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}
			require.NoError(t, err, "LoadManifest should succeed")
			tt.check(t, m)
		})
	}
}
