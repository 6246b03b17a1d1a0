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

package commands

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fsmutate/cmd/fsmutate/opts"
	"github.com/walteh/fsmutate/pkg/access"
	"github.com/walteh/fsmutate/pkg/config"
	"github.com/walteh/fsmutate/pkg/fsclient"
	"github.com/walteh/fsmutate/pkg/inode"
	"github.com/walteh/fsmutate/pkg/log"
	"github.com/walteh/fsmutate/pkg/operation"
	"github.com/walteh/fsmutate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

type runFlags struct {
	kind      string
	manifests []string
	user      string
	query     string
	params    []string
}

// NewRunCmd creates the run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run mutation campaigns over working sets",
		Long: `Run applies one mutation kind to every entry of one or more manifests.
It will:
1. Authorize the user for the mutation kind
2. Load and filter each working set
3. Create one campaign per manifest, each with its own audit log
4. Advance them one entry at a time at the configured rate, driving up to
   driver.parallel campaigns at once`,
		Example: `  fsmutate run --kind setStoragePolicy --param policy=COLD --manifest warehouse.yaml --user alice
  fsmutate run --kind uncache --manifest hot-a.json --manifest hot-b.json --user root`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCampaigns(cmd.Context(), o, f)
		},
	}

	cmd.Flags().StringVarP(&f.kind, "kind", "k", "", "mutation kind (see 'fsmutate kinds')")
	cmd.Flags().StringArrayVarP(&f.manifests, "manifest", "m", nil, "working set manifest (.json, .yaml), repeatable, one campaign each")
	cmd.Flags().StringVarP(&f.user, "user", "u", "", "user launching the campaigns")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "originating query, defaults to each manifest's")
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "kind parameter as key=value, repeatable")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func runCampaigns(ctx context.Context, o *opts.RootOpts, f runFlags) error {
	userLogger := opts.NewUserLogger(ctx)

	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return err
	}

	// authorize the kind the registry will actually build
	spec, err := operation.DefaultRegistry.Lookup(f.kind)
	if err != nil {
		return errors.Errorf("creating campaign: %w", err)
	}
	kind := spec.Kind.String()

	policy := access.NewPolicy(access.Lists{
		Admins:       cfg.Access.Admins,
		Writers:      cfg.Access.Writers,
		Readers:      cfg.Access.Readers,
		CacheReaders: cfg.Access.CacheReaders,
	})
	if err := policy.Authorize(ctx, access.Identity{User: f.user}, kind); err != nil {
		return errors.Errorf("authorizing %s: %w", kind, err)
	}

	params, err := parseParams(f.params)
	if err != nil {
		return err
	}

	// every manifest loads before any audit log is opened
	manifests := make([]*inode.Manifest, 0, len(f.manifests))
	for _, path := range f.manifests {
		m, err := inode.LoadManifest(ctx, path)
		if err != nil {
			return err
		}
		manifests = append(manifests, m)
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	unclassified, err := operation.ParseUnclassifiedPolicy(cfg.Unclassified)
	if err != nil {
		return err
	}

	console := o.Console(ctx)

	campaigns := make([]*operation.Campaign, 0, len(manifests))
	defer func() {
		for _, c := range campaigns {
			_ = c.Close()
		}
	}()
	for i, m := range manifests {
		query := f.query
		if query == "" {
			query = m.Query
		}
		c, err := operation.Dispatch(ctx, operation.Request{
			Kind:         kind,
			Owner:        f.user,
			Query:        query,
			LogDir:       cfg.LogDir,
			Client:       client,
			Entries:      m.Entries,
			Params:       params,
			Exclude:      cfg.Exclude,
			Unclassified: unclassified,
			Observer:     consoleObserver(console),
		})
		if err != nil {
			return errors.Errorf("creating campaign for %s: %w", f.manifests[i], err)
		}
		campaigns = append(campaigns, c)
	}

	if err := operation.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		return err
	}
	if cfg.Metrics.Listen != "" {
		stop := serveMetrics(ctx, cfg.Metrics.Listen)
		defer stop()
	}

	tracker := status.NewTracker()
	runner := operation.NewRunner(operation.RunnerOptions{
		Rate:     cfg.Driver.Rate,
		Burst:    cfg.Driver.Burst,
		Parallel: cfg.Driver.Parallel,
		Tracker:  tracker,
	})

	header := "running " + kind + " campaign"
	if len(campaigns) > 1 {
		header = fmt.Sprintf("running %d %s campaigns, %d at a time", len(campaigns), kind, cfg.Driver.Parallel)
	}
	console.Header(header)

	ops := make([]operation.Operation, len(campaigns))
	for i, c := range campaigns {
		console.StartCampaign(log.CampaignInfo{
			ID:    c.ID(),
			Kind:  kind,
			Owner: c.Owner(),
			Query: c.Query(),
			Total: c.Total(),
		})
		ops[i] = c
	}

	runErr := runner.RunAll(ctx, ops...)

	console.LogNewline()
	return report(console, userLogger, tracker, campaigns, runErr)
}

// report prints the outcome of every campaign the runner tracked
func report(console *log.Logger, userLogger *opts.UserLogger, tracker *status.Tracker, campaigns []*operation.Campaign, runErr error) error {
	formatter := status.NewDefaultFormatter()

	for _, c := range campaigns {
		console.EndCampaign(c.ID())
	}

	failures := 0
	for _, p := range tracker.List() {
		console.Info(formatter.FormatSnapshot(p))
		failures += p.Failures
	}

	for _, c := range campaigns {
		userLogger.LogStateChange("audit log: " + c.AuditPath())
		if err := c.Err(); err != nil {
			console.Error("audit log incomplete: "+c.AuditPath(), err)
		}
	}

	switch {
	case runErr != nil:
		if errors.Is(runErr, operation.ErrStalled) {
			console.Error("a campaign stalled on an entry it cannot classify", runErr)
		}
		return errors.Errorf("running campaigns: %w", runErr)
	case failures > 0:
		console.Warning(fmt.Sprintf("%d entries failed, see the audit logs", failures))
	default:
		console.Success(fmt.Sprintf("%d campaigns exhausted", len(campaigns)))
	}
	return nil
}

// newClient selects the filesystem client from config
func newClient(ctx context.Context, cfg *config.Config) (fsclient.Client, error) {
	if cfg.Client.DryRun {
		zerolog.Ctx(ctx).Info().Msg("dry run, no filesystem will be changed")
		return fsclient.DryRun{}, nil
	}
	client, err := fsclient.NewLocal(cfg.Client.Root)
	if err != nil {
		return nil, errors.Errorf("creating filesystem client: %w", err)
	}
	return client, nil
}

// parseParams turns repeated key=value flags into campaign parameters
func parseParams(raw []string) (operation.Params, error) {
	params := operation.Params{}
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.Errorf("parameter %q is not key=value", kv)
		}
		if _, dup := params[k]; dup {
			return nil, errors.Errorf("parameter %q given twice", k)
		}
		params[k] = v
	}
	return params, nil
}

// consoleObserver prints every attempt as it completes
func consoleObserver(console *log.Logger) operation.Observer {
	return func(_ context.Context, a operation.Attempt) {
		console.LogMutation(log.MutationRecord{
			Campaign: a.Campaign,
			Path:     a.Path,
			Type:     a.Type,
			Success:  a.Success,
			Err:      a.Err,
		})
	}
}

// serveMetrics exposes /metrics until the returned stop func is called
func serveMetrics(ctx context.Context, addr string) func() {
	logger := zerolog.Ctx(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
