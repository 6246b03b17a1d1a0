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

	"github.com/rs/zerolog"
	"github.com/walteh/fsmutate/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ⚙️ RunnerOptions controls how fast and how wide campaigns are driven
type RunnerOptions struct {
	// Rate is the number of Advance calls per second shared by every
	// campaign of the runner; 0 means unlimited
	Rate float64
	// Burst is the token bucket size, at least 1
	Burst int
	// Parallel caps the campaigns driven at once by RunAll, at least 1
	Parallel int
	// Tracker, when set, sees every campaign while it is driven
	Tracker *status.Tracker
}

// 🏃 Runner drives campaigns to exhaustion, pacing the calls to Advance so the
// backing metadata service is not overwhelmed
type Runner struct {
	limiter  *rate.Limiter
	parallel int
	tracker  *status.Tracker
}

// 🏗️ NewRunner creates a new runner
func NewRunner(opts RunnerOptions) *Runner {
	limit := rate.Inf
	if opts.Rate > 0 {
		limit = rate.Limit(opts.Rate)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	parallel := opts.Parallel
	if parallel < 1 {
		parallel = 1
	}
	return &Runner{
		limiter:  rate.NewLimiter(limit, burst),
		parallel: parallel,
		tracker:  opts.Tracker,
	}
}

// 🏃 Run advances op until it is exhausted.
//
// Cancelling ctx stops between steps and leaves the campaign resumable. A
// campaign that refuses to advance while it still has a candidate yields
// ErrStalled.
func (r *Runner) Run(ctx context.Context, op Operation) error {
	logger := zerolog.Ctx(ctx).With().Str("campaign", op.ID()).Str("kind", op.Kind().String()).Logger()

	if r.tracker != nil {
		r.tracker.Track(op)
	}
	ActiveCampaigns.WithLabelValues(op.Kind().String()).Inc()
	defer ActiveCampaigns.WithLabelValues(op.Kind().String()).Dec()

	logger.Debug().Int("total", op.Snapshot().Total).Msg("driving campaign")

	for op.HasMore() {
		if err := r.limiter.Wait(ctx); err != nil {
			logger.Warn().Err(err).Msg("campaign interrupted")
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if !op.Advance(ctx) && op.HasMore() {
			p := op.Snapshot()
			logger.Error().Int("processed", p.Processed).Int("remaining", p.Remaining).Msg("campaign stalled")
			return errors.Errorf("%w: %s after %d of %d entries", ErrStalled, op.ID(), p.Processed, p.Total)
		}
	}

	p := op.Snapshot()
	logger.Info().
		Int("processed", p.Processed).
		Int("failures", p.Failures).
		Msg("campaign exhausted")
	return nil
}

// ⚡ RunAll drives several campaigns at once, at most Parallel at a time, and
// returns every campaign error joined
func (r *Runner) RunAll(ctx context.Context, ops ...Operation) error {
	errs := make([]error, len(ops))

	var g errgroup.Group
	g.SetLimit(r.parallel)
	for i, op := range ops {
		g.Go(func() error {
			errs[i] = r.Run(ctx, op)
			return nil
		})
	}
	_ = g.Wait()

	var joined error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if joined == nil {
			joined = err
		} else {
			joined = errors.Join(joined, err)
		}
	}
	return joined
}
