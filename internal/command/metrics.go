// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package command

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for command execution metrics.
const (
	StatusSuccess          = "success"
	StatusError            = "error"
	StatusRejected         = "rejected"
	StatusNotFound         = "not_found"
	StatusPermissionDenied = "permission_denied"
	StatusRateLimited      = "rate_limited"
)

// CommandExecutions counts command executions by name and outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var CommandExecutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "embermud_command_executions_total",
		Help: "Total number of command executions",
	},
	[]string{"command", "status"},
)

// CommandDuration is the histogram for command execution duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var CommandDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "embermud_command_duration_seconds",
		Help:    "Command execution duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"command"},
)

// RateLimitedCommands counts commands refused by the rate limiter.
var RateLimitedCommands = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "embermud_command_rate_limited_total",
		Help: "Total number of commands refused by the rate limiter",
	},
	[]string{"command"},
)

// RegisterMetrics registers command package metrics with the given
// Prometheus registry. Call once at startup.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(CommandExecutions)
	reg.MustRegister(CommandDuration)
	reg.MustRegister(RateLimitedCommands)
}

// metricsRecorder tracks execution metrics for a single dispatch.
type metricsRecorder struct {
	startTime time.Time
	command   string
	status    string
}

func newMetricsRecorder() *metricsRecorder {
	return &metricsRecorder{startTime: time.Now(), status: StatusSuccess}
}

func (m *metricsRecorder) setCommand(name string) { m.command = name }
func (m *metricsRecorder) setStatus(status string) {
	m.status = status
}

// record writes the collected metrics if a command name was resolved.
func (m *metricsRecorder) record() {
	if m.command == "" {
		return
	}
	CommandExecutions.WithLabelValues(m.command, m.status).Inc()
	CommandDuration.WithLabelValues(m.command).Observe(time.Since(m.startTime).Seconds())
}
