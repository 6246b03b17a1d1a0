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

package status

import (
	"sort"
	"sync"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 📊 Progress is a point-in-time view of one campaign
type Progress struct {
	ID        string    // Campaign id
	Kind      string    // Mutation kind
	Owner     string    // User that launched the campaign
	Query     string    // Query that produced the working set
	Total     int       // Entries in the working set
	Remaining int       // Entries not yet attempted
	Processed int       // Entries attempted
	Failures  int       // Attempts that did not succeed
	Exhausted bool      // No candidate left
	CreatedAt time.Time // Campaign construction time
	UpdatedAt time.Time // Last completed step
}

// Succeeded returns the number of successful attempts
func (p Progress) Succeeded() int {
	return p.Processed - p.Failures
}

// 📈 Reporter is anything that can describe its own progress without blocking
type Reporter interface {
	ID() string
	Snapshot() Progress
}

// 🗂️ Tracker keeps the set of campaigns a process is currently aware of
type Tracker struct {
	mu        sync.RWMutex
	campaigns map[string]Reporter
}

// 🏭 NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		campaigns: make(map[string]Reporter),
	}
}

// Track registers a campaign; tracking the same id twice replaces it
func (t *Tracker) Track(r Reporter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.campaigns[r.ID()] = r
}

// Forget drops a campaign
func (t *Tracker) Forget(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.campaigns, id)
}

// Get returns the current progress of one campaign
func (t *Tracker) Get(id string) (Progress, error) {
	t.mu.RLock()
	r, ok := t.campaigns[id]
	t.mu.RUnlock()

	if !ok {
		return Progress{}, errors.Errorf("campaign not tracked: %s", id)
	}
	return r.Snapshot(), nil
}

// List returns the progress of every tracked campaign, oldest first
func (t *Tracker) List() []Progress {
	t.mu.RLock()
	out := make([]Progress, 0, len(t.campaigns))
	for _, r := range t.campaigns {
		out = append(out, r.Snapshot())
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
