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

// Package inode holds the read-only view of filesystem entries that a
// mutation campaign works through.
package inode

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 📂 Type classifies a filesystem entry
type Type int

const (
	TypeOther     Type = iota // Could not be classified
	TypeFile                  // Regular file
	TypeDirectory             // Directory
)

// String returns the label written to audit logs
func (t Type) String() string {
	switch t {
	case TypeFile:
		return "FILE"
	case TypeDirectory:
		return "DIRECTORY"
	default:
		return "UNKNOWN"
	}
}

// ParseType maps a label to a Type. Anything unrecognised is TypeOther.
func ParseType(s string) Type {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FILE", "F":
		return TypeFile
	case "DIRECTORY", "DIR", "D":
		return TypeDirectory
	default:
		return TypeOther
	}
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	*t = ParseType(string(b))
	return nil
}

// 📄 Entry is a snapshot of one inode as seen by the metadata index.
// The engine never changes it; mutations go through the filesystem client.
type Entry struct {
	Path          string `json:"path" yaml:"path"`
	Type          Type   `json:"type" yaml:"type"`
	Replication   int16  `json:"replication,omitempty" yaml:"replication,omitempty"`
	StoragePolicy string `json:"storage_policy,omitempty" yaml:"storage_policy,omitempty"`
	Owner         string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Group         string `json:"group,omitempty" yaml:"group,omitempty"`
	Permission    uint32 `json:"permission,omitempty" yaml:"permission,omitempty"`
	Size          int64  `json:"size,omitempty" yaml:"size,omitempty"`
	Cached        bool   `json:"cached,omitempty" yaml:"cached,omitempty"`
}

func (e Entry) IsFile() bool {
	return e.Type == TypeFile
}

func (e Entry) IsDirectory() bool {
	return e.Type == TypeDirectory
}

// 🗂️ WorkingSet is the finite collection of entries a campaign targets
type WorkingSet []Entry

// Paths returns the entry paths in order
func (ws WorkingSet) Paths() []string {
	paths := make([]string, 0, len(ws))
	for _, e := range ws {
		paths = append(paths, e.Path)
	}
	return paths
}

// Dedupe drops entries whose path was already seen, keeping the first one
func (ws WorkingSet) Dedupe() WorkingSet {
	seen := make(map[string]struct{}, len(ws))
	out := make(WorkingSet, 0, len(ws))
	for _, e := range ws {
		if _, ok := seen[e.Path]; ok {
			continue
		}
		seen[e.Path] = struct{}{}
		out = append(out, e)
	}
	return out
}

// 🔍 Filter drops every entry whose path matches one of the glob patterns
func (ws WorkingSet) Filter(patterns []string) (WorkingSet, error) {
	if len(patterns) == 0 {
		return ws, nil
	}

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	out := make(WorkingSet, 0, len(ws))
	for _, e := range ws {
		excluded := false
		for _, pattern := range patterns {
			if doublestar.MatchUnvalidated(pattern, e.Path) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, e)
		}
	}
	return out, nil
}
