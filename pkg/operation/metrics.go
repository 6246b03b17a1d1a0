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
	"github.com/prometheus/client_golang/prometheus"
	"gitlab.com/tozd/go/errors"
)

// 📊 Campaign metrics. Collectors are package level so every campaign in a
// process feeds the same series; nothing is exported until RegisterMetrics.
var (
	MutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fsmutate",
		Name:      "mutations_total",
		Help:      "Mutation attempts by kind, entry type, result and launching user",
	}, []string{"kind", "type", "result", "owner"})

	MutationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fsmutate",
		Name:      "mutation_duration_seconds",
		Help:      "Latency of a single filesystem client mutation",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"kind"})

	ActiveCampaigns = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fsmutate",
		Name:      "active_campaigns",
		Help:      "Campaigns currently being driven",
	}, []string{"kind"})
)

// RegisterMetrics registers the campaign collectors on reg, or the default
// registerer when reg is nil. Registering twice is not an error.
func RegisterMetrics(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{MutationsTotal, MutationDuration, ActiveCampaigns} {
		if err := reg.Register(c); err != nil {
			if !errors.As(err, &prometheus.AlreadyRegisteredError{}) {
				return errors.Errorf("registering metrics: %w", err)
			}
		}
	}
	return nil
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
