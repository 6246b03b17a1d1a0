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
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/fsmutate/pkg/audit"
	"github.com/walteh/fsmutate/pkg/fsclient"
	"github.com/walteh/fsmutate/pkg/inode"
	"github.com/walteh/fsmutate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

var _ Operation = (*Campaign)(nil)

// 🚀 Campaign applies one mutation kind to every entry of a working set, one
// entry per Advance.
//
// The step lock covers the whole transition (read candidate, mutate, audit,
// record, move the cursor). Progress lives behind its own lock and is only
// written at the end of a step, so readers never wait on a slow mutation.
type Campaign struct {
	id           string
	kind         Kind
	owner        string
	query        string
	logDir       string
	createdAt    time.Time
	client       fsclient.Client
	mutator      Mutator
	unclassified UnclassifiedPolicy
	observer     Observer
	audit        *audit.Log

	step    sync.Mutex
	entries inode.WorkingSet
	cursor  int

	// ready is true while entries[cursor] is a cached candidate
	ready atomic.Bool

	mu        sync.RWMutex
	processed []string
	failures  int
	updatedAt time.Time
	err       error
}

type campaignConfig struct {
	kind         Kind
	owner        string
	query        string
	logDir       string
	client       fsclient.Client
	mutator      Mutator
	entries      inode.WorkingSet
	unclassified UnclassifiedPolicy
	observer     Observer
}

// 🏗️ newCampaign snapshots the working set, opens the audit log and caches
// the first candidate
func newCampaign(cfg campaignConfig) (*Campaign, error) {
	if cfg.client == nil {
		return nil, errors.New("filesystem client is required")
	}
	if cfg.mutator == nil {
		return nil, errors.Errorf("no mutator for kind %s", cfg.kind)
	}

	id := uuid.NewString()
	auditLog, err := audit.Open(cfg.logDir, cfg.kind.String(), id)
	if err != nil {
		return nil, errors.Errorf("opening audit log: %w", err)
	}

	entries := cfg.entries.Dedupe()

	now := time.Now()
	c := &Campaign{
		id:           id,
		kind:         cfg.kind,
		owner:        cfg.owner,
		query:        cfg.query,
		logDir:       cfg.logDir,
		createdAt:    now,
		client:       cfg.client,
		mutator:      cfg.mutator,
		unclassified: cfg.unclassified,
		observer:     cfg.observer,
		audit:        auditLog,
		entries:      entries,
		processed:    make([]string, 0, len(entries)),
		updatedAt:    now,
	}
	c.ready.Store(len(entries) > 0)
	return c, nil
}

func (c *Campaign) ID() string           { return c.id }
func (c *Campaign) Kind() Kind           { return c.kind }
func (c *Campaign) Owner() string        { return c.owner }
func (c *Campaign) Query() string        { return c.query }
func (c *Campaign) LogDir() string       { return c.logDir }
func (c *Campaign) CreatedAt() time.Time { return c.createdAt }
func (c *Campaign) Total() int           { return len(c.entries) }

// AuditPath is the file this campaign appends to
func (c *Campaign) AuditPath() string { return c.audit.Path() }

// HasMore reports whether a candidate is cached
func (c *Campaign) HasMore() bool {
	return c.ready.Load()
}

// 👣 Advance attempts the mutation of the cached candidate.
//
// It returns false without side effects once the working set is exhausted,
// and also when the candidate cannot be classified under UnclassifiedStall.
// Any other step returns true whether the mutation succeeded or not.
func (c *Campaign) Advance(ctx context.Context) bool {
	c.step.Lock()
	defer c.step.Unlock()

	if !c.ready.Load() {
		return false
	}

	entry := c.entries[c.cursor]
	entryType := entry.Type.String()
	logger := zerolog.Ctx(ctx).With().
		Str("campaign", c.id).
		Str("kind", c.kind.String()).
		Str("path", entry.Path).
		Str("type", entryType).
		Logger()

	var (
		success bool
		err     error
	)
	switch {
	case entry.IsFile() || entry.IsDirectory():
		logger.Debug().Msg("mutating entry")
		start := time.Now()
		success, err = c.mutate(ctx, entry)
		MutationDuration.WithLabelValues(c.kind.String()).Observe(time.Since(start).Seconds())
		if err != nil {
			success = false
		}
	case c.unclassified == UnclassifiedStall:
		logger.Warn().Msg("cannot determine entry type, campaign stalled")
		return false
	default:
		err = ErrUnclassified
	}

	// audit first: a crash before the processed update under-reports
	if aerr := c.audit.Append(entry.Path, entryType, success); aerr != nil {
		logger.Error().Err(aerr).Msg("writing audit record")
		c.setErr(errors.Errorf("auditing %s: %w", entry.Path, aerr))
	}

	c.cursor++
	c.record(entry.Path, success, c.cursor < len(c.entries))

	MutationsTotal.WithLabelValues(c.kind.String(), entryType, resultLabel(success), c.owner).Inc()

	evt := logger.Info()
	if !success {
		evt = logger.Warn().Err(err)
	}
	evt.Bool("success", success).Msg("mutation attempted")

	if c.observer != nil {
		c.observer(ctx, Attempt{
			Campaign: c.id,
			Kind:     c.kind,
			Path:     entry.Path,
			Type:     entryType,
			Success:  success,
			Err:      err,
		})
	}

	return true
}

// mutate turns a panicking client into a per-entry failure so the step
// still completes
func (c *Campaign) mutate(ctx context.Context, entry inode.Entry) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, errors.Errorf("mutation panicked: %v", r)
		}
	}()
	return c.mutator.Mutate(ctx, c.client, entry)
}

// record publishes a finished step. ready flips under mu so a snapshot never
// sees every entry processed while a candidate is still cached.
func (c *Campaign) record(path string, success, more bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processed = append(c.processed, path)
	if !success {
		c.failures++
	}
	c.updatedAt = time.Now()
	c.ready.Store(more)
}

func (c *Campaign) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	} else {
		c.err = errors.Join(c.err, err)
	}
}

// Err returns the audit failures seen so far
func (c *Campaign) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Processed returns the attempted paths in visit order
func (c *Campaign) Processed() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.processed))
	copy(out, c.processed)
	return out
}

// Remaining is the number of entries not yet attempted
func (c *Campaign) Remaining() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries) - len(c.processed)
}

// Failures is the number of attempts that did not succeed
func (c *Campaign) Failures() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.failures
}

// 📸 Snapshot returns the campaign's progress
func (c *Campaign) Snapshot() status.Progress {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return status.Progress{
		ID:        c.id,
		Kind:      c.kind.String(),
		Owner:     c.owner,
		Query:     c.query,
		Total:     len(c.entries),
		Remaining: len(c.entries) - len(c.processed),
		Processed: len(c.processed),
		Failures:  c.failures,
		Exhausted: !c.ready.Load(),
		CreatedAt: c.createdAt,
		UpdatedAt: c.updatedAt,
	}
}

// Close releases the audit log. The campaign cannot advance afterwards
// without recording audit failures.
func (c *Campaign) Close() error {
	return c.audit.Close()
}
