// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package username

import "github.com/prometheus/client_golang/prometheus"

// Verdicts counts classifications by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var Verdicts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "shuttlecraft_username_verdicts_total",
		Help: "Total number of username classifications by verdict",
	},
	[]string{"verdict"},
)

// RegisterMetrics registers username metrics with the given Prometheus registry.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Verdicts)
}

func recordVerdict(verdict string) {
	Verdicts.WithLabelValues(verdict).Inc()
}
