// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Shuttlecraft Contributors

package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Verify outcomes recorded in PasswordVerifications.
const (
	verifyOK       = "ok"
	verifyMismatch = "mismatch"
	verifyInvalid  = "invalid"
)

// HashDuration is the histogram for password hash duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var HashDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "shuttlecraft_password_hash_duration_seconds",
		Help:    "Password hash duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	},
	[]string{"variant"},
)

// PasswordVerifications counts Verify calls by outcome.
var PasswordVerifications = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "shuttlecraft_password_verify_total",
		Help: "Total number of password verifications by result",
	},
	[]string{"result"},
)

// InflightMemory tracks KiB of KDF working memory admitted by a Limiter.
var InflightMemory = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "shuttlecraft_password_inflight_kib",
		Help: "KDF working memory currently admitted, in KiB",
	},
)

// RegisterMetrics registers auth metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(HashDuration)
	reg.MustRegister(PasswordVerifications)
	reg.MustRegister(InflightMemory)
}

func observeHash(v Variant, d time.Duration) {
	HashDuration.WithLabelValues(string(v)).Observe(d.Seconds())
}

func observeVerify(result string) {
	PasswordVerifications.WithLabelValues(result).Inc()
}
