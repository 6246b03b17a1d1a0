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

package operation

import (
	"context"
	"strconv"
	"strings"

	"github.com/walteh/fsmutate/pkg/fsclient"
	"github.com/walteh/fsmutate/pkg/inode"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Mutator performs the one mutation a variant is responsible for. It is
// only ever called with a classified entry, from inside a campaign step.
type Mutator interface {
	Mutate(ctx context.Context, client fsclient.Client, entry inode.Entry) (bool, error)
}

// MutatorFunc adapts a function to Mutator
type MutatorFunc func(ctx context.Context, client fsclient.Client, entry inode.Entry) (bool, error)

func (f MutatorFunc) Mutate(ctx context.Context, client fsclient.Client, entry inode.Entry) (bool, error) {
	return f(ctx, client, entry)
}

// 📦 Params carries the kind-specific arguments of a campaign
type Params map[string]string

// String returns a parameter or "" when absent
func (p Params) String(key string) string {
	return strings.TrimSpace(p[key])
}

// Require returns a non-empty parameter
func (p Params) Require(key string) (string, error) {
	v := p.String(key)
	if v == "" {
		return "", errors.Errorf("%w: %s", ErrMissingParameter, key)
	}
	return v, nil
}

// Bool parses an optional boolean parameter
func (p Params) Bool(key string, def bool) (bool, error) {
	v := p.String(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Errorf("%w: %s=%q is not a boolean", ErrInvalidParameter, key, v)
	}
	return b, nil
}
