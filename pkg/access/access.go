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

// Package access decides which users may launch which mutation campaigns.
// Identities are always passed explicitly; nothing is read from ambient
// process or goroutine state.
package access

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrDenied is returned when an identity lacks the capability a kind needs
var ErrDenied = errors.Base("not authorized")

// 🔑 Capability is a set of granted abilities
type Capability uint8

const (
	// Reader may query the metadata index
	Reader Capability = 1 << iota
	// CacheReader may query cache state
	CacheReader
	// Writer may launch mutation campaigns
	Writer
	// Admin may do everything, including deletes
	Admin
)

// None grants nothing
const None Capability = 0

// Has reports whether every bit of want is granted
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

func (c Capability) String() string {
	if c == None {
		return "none"
	}
	var names []string
	for _, n := range []struct {
		c    Capability
		name string
	}{
		{Admin, "admin"},
		{Writer, "writer"},
		{Reader, "reader"},
		{CacheReader, "cache_reader"},
	} {
		if c.Has(n.c) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// 👤 Identity is the user on whose behalf a request is made
type Identity struct {
	User string
}

// 📜 Policy maps users to capabilities
type Policy struct {
	grants map[string]Capability
}

// Lists are the user lists a policy is built from
type Lists struct {
	Admins       []string
	Writers      []string
	Readers      []string
	CacheReaders []string
}

// NewPolicy builds a policy. A policy with no users at all is disabled and
// allows everything.
func NewPolicy(l Lists) *Policy {
	p := &Policy{grants: map[string]Capability{}}
	grant := func(users []string, c Capability) {
		for _, u := range users {
			u = strings.TrimSpace(u)
			if u == "" {
				continue
			}
			p.grants[u] |= c
		}
	}
	grant(l.Admins, Admin|Writer|Reader|CacheReader)
	grant(l.Writers, Writer|Reader)
	grant(l.Readers, Reader)
	grant(l.CacheReaders, CacheReader)
	return p
}

// Enabled reports whether any user is configured
func (p *Policy) Enabled() bool {
	return len(p.grants) > 0
}

// Capabilities returns what user may do
func (p *Policy) Capabilities(user string) Capability {
	return p.grants[user]
}

// Required returns the capability a mutation kind needs. Kind names are
// matched the way the registry resolves them: trimmed and case-insensitive.
func Required(kind string) Capability {
	if strings.EqualFold(strings.TrimSpace(kind), "delete") {
		return Admin
	}
	return Writer
}

// 🚦 Authorize checks that id may launch a campaign of kind
func (p *Policy) Authorize(ctx context.Context, id Identity, kind string) error {
	logger := zerolog.Ctx(ctx)

	if !p.Enabled() {
		logger.Debug().Str("user", id.User).Str("kind", kind).Msg("authorization disabled")
		return nil
	}
	if id.User == "" {
		return errors.Errorf("%w: no user given", ErrDenied)
	}

	have := p.Capabilities(id.User)
	need := Required(kind)
	if !have.Has(need) {
		logger.Warn().Str("user", id.User).Str("kind", kind).Stringer("has", have).Stringer("needs", need).Msg("campaign denied")
		return errors.Errorf("%w: %s is %s, %s needs %s", ErrDenied, id.User, have, kind, need)
	}
	return nil
}
