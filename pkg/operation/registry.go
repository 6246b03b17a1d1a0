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
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/fsmutate/pkg/fsclient"
	"github.com/walteh/fsmutate/pkg/inode"
	"gitlab.com/tozd/go/errors"
)

// 🏭 Builder constructs the mutator of one kind from campaign parameters
type Builder func(p Params) (Mutator, error)

// 📋 Spec describes a registered mutation kind
type Spec struct {
	Kind        Kind
	Description string
	Params      []string
	Build       Builder
}

// 📚 Registry maps kind names to variants
type Registry struct {
	mu    sync.RWMutex
	specs map[Kind]Spec
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{specs: make(map[Kind]Spec)}
}

// DefaultRegistry holds every built-in mutation kind
var DefaultRegistry = NewRegistry()

func init() {
	for _, s := range []Spec{
		{KindSetStoragePolicy, "set the storage policy of each entry", []string{"policy"}, newSetStoragePolicy},
		{KindSetReplication, "set the replication factor of each file", []string{"replication"}, newSetReplication},
		{KindDelete, "delete each entry", []string{"recursive?"}, newDelete},
		{KindSetOwner, "change owner and/or group", []string{"owner?", "group?"}, newSetOwner},
		{KindSetPermission, "set octal permission bits", []string{"permission"}, newSetPermission},
		{KindCache, "add each entry to a cache pool", []string{"pool?"}, newCache},
		{KindUncache, "remove each entry from its cache pool", nil, newUncache},
	} {
		DefaultRegistry.Register(s)
	}
}

// Register adds or replaces a kind
func (r *Registry) Register(s Spec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs[s.Kind] = s
}

// Lookup resolves a kind name, exactly first and then case-insensitively
func (r *Registry) Lookup(name string) (Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.TrimSpace(name)
	if s, ok := r.specs[Kind(name)]; ok {
		return s, nil
	}
	for k, s := range r.specs {
		if strings.EqualFold(string(k), name) {
			return s, nil
		}
	}
	return Spec{}, errors.Errorf("%w: %q", ErrUnknownKind, name)
}

// Specs returns every registered kind sorted by name
func (r *Registry) Specs() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Spec, 0, len(r.specs))
	for _, s := range r.specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Kinds returns the registered kind names sorted
func (r *Registry) Kinds() []Kind {
	specs := r.Specs()
	out := make([]Kind, len(specs))
	for i, s := range specs {
		out[i] = s.Kind
	}
	return out
}

// 📨 Request carries everything shared by a new campaign. The identity in
// Owner must already have been authorized for Kind.
type Request struct {
	Kind         string
	Owner        string
	Query        string
	LogDir       string
	Client       fsclient.Client
	Entries      inode.WorkingSet
	Params       Params
	Exclude      []string
	Unclassified UnclassifiedPolicy
	Observer     Observer
}

// 🚦 Dispatch validates the kind and builds a campaign. Unknown kinds and bad
// parameters are rejected before anything is created on disk.
func (r *Registry) Dispatch(ctx context.Context, req Request) (*Campaign, error) {
	spec, err := r.Lookup(req.Kind)
	if err != nil {
		return nil, err
	}

	m, err := spec.Build(req.Params)
	if err != nil {
		return nil, errors.Errorf("building %s: %w", spec.Kind, err)
	}

	entries, err := req.Entries.Filter(req.Exclude)
	if err != nil {
		return nil, errors.Errorf("filtering working set: %w", err)
	}

	c, err := newCampaign(campaignConfig{
		kind:         spec.Kind,
		owner:        req.Owner,
		query:        req.Query,
		logDir:       req.LogDir,
		client:       req.Client,
		mutator:      m,
		entries:      entries,
		unclassified: req.Unclassified,
		observer:     req.Observer,
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("campaign", c.ID()).
		Str("kind", spec.Kind.String()).
		Str("owner", req.Owner).
		Int("entries", c.Total()).
		Int("excluded", len(req.Entries)-len(entries)).
		Str("audit", c.AuditPath()).
		Msg("campaign created")

	return c, nil
}

// Dispatch builds a campaign with the default registry
func Dispatch(ctx context.Context, req Request) (*Campaign, error) {
	return DefaultRegistry.Dispatch(ctx, req)
}
