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
	"strings"

	"github.com/walteh/fsmutate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrUnknownKind is a client error: no variant is registered under the requested name
	ErrUnknownKind = errors.Base("unknown mutation kind")
	// ErrMissingParameter is returned when a variant is built without a required parameter
	ErrMissingParameter = errors.Base("missing parameter")
	// ErrInvalidParameter is returned when a variant parameter cannot be parsed
	ErrInvalidParameter = errors.Base("invalid parameter")
	// ErrUnclassified marks an entry that is neither a file nor a directory
	ErrUnclassified = errors.Base("could not determine entry type")
	// ErrStalled is returned by the runner when a campaign refuses to move past its current entry
	ErrStalled = errors.Base("campaign stalled")
)

// 🏷️ Kind names a mutation kind
type Kind string

const (
	KindSetStoragePolicy Kind = "setStoragePolicy"
	KindSetReplication   Kind = "setReplication"
	KindDelete           Kind = "delete"
	KindSetOwner         Kind = "setOwner"
	KindSetPermission    Kind = "setPermission"
	KindCache            Kind = "cache"
	KindUncache          Kind = "uncache"
)

func (k Kind) String() string {
	return string(k)
}

// 🚧 UnclassifiedPolicy decides what a step does with an entry that is neither
// a file nor a directory
type UnclassifiedPolicy int

const (
	// UnclassifiedSkip audits the entry as a failure and moves past it
	UnclassifiedSkip UnclassifiedPolicy = iota
	// UnclassifiedStall leaves the entry cached, audits nothing and reports no
	// progress; the campaign cannot advance again
	UnclassifiedStall
)

func (p UnclassifiedPolicy) String() string {
	if p == UnclassifiedStall {
		return "stall"
	}
	return "skip"
}

// ParseUnclassifiedPolicy accepts "skip" (or empty) and "stall"
func ParseUnclassifiedPolicy(s string) (UnclassifiedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return UnclassifiedSkip, nil
	case "stall":
		return UnclassifiedStall, nil
	default:
		return UnclassifiedSkip, errors.Errorf("unknown unclassified policy %q", s)
	}
}

// 🎯 Operation is the single-step contract a driver works against
type Operation interface {
	// ID uniquely identifies the campaign
	ID() string
	// Kind is the mutation kind this campaign applies
	Kind() Kind
	// HasMore reports whether a candidate is cached; never blocks
	HasMore() bool
	// Advance attempts the mutation of the cached candidate. It returns true
	// when an attempt was made, whatever its outcome.
	Advance(ctx context.Context) bool
	// Snapshot returns current progress; never blocks behind Advance
	Snapshot() status.Progress
}

// 📝 Attempt describes one completed step
type Attempt struct {
	Campaign string
	Kind     Kind
	Path     string
	Type     string
	Success  bool
	Err      error
}

// Observer is notified after every completed step, inside the step
type Observer func(ctx context.Context, a Attempt)
