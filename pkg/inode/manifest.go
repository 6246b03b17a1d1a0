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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📋 Manifest is a materialized query result: the query that produced it and
// the entries it selected
type Manifest struct {
	Query   string     `json:"query,omitempty" yaml:"query,omitempty"`
	Entries WorkingSet `json:"entries" yaml:"entries"`
}

// LoadManifest reads a manifest from a .json, .yaml or .yml file
func LoadManifest(ctx context.Context, path string) (*Manifest, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading manifest")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&m); err != nil {
			return nil, errors.Errorf("parsing JSON manifest: %w", err)
		}
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&m); err != nil {
			return nil, errors.Errorf("parsing YAML manifest: %w", err)
		}
	default:
		return nil, errors.Errorf("unsupported manifest extension %q", ext)
	}

	for i, e := range m.Entries {
		if e.Path == "" {
			return nil, errors.Errorf("manifest entry %d has no path", i)
		}
	}

	logger.Debug().Int("entries", len(m.Entries)).Str("query", m.Query).Msg("manifest loaded")
	return &m, nil
}
