// Package metrics defines and registers all custom Prometheus metrics for
// the content platform API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "content_platform"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts credential login attempts.
// Label:
//   - result: "success", "invalid", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of credential login attempts, by result.",
	},
	[]string{"result"},
)

// OAuthSignInsTotal counts OAuth sign-in completions.
// Labels:
//   - provider: identity provider name (e.g. "google")
//   - result: "success" or "error"
var OAuthSignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oauth_signins_total",
		Help:      "Total number of OAuth sign-in completions, by provider and result.",
	},
	[]string{"provider", "result"},
)

// RegistrationsTotal counts account registrations.
// Label:
//   - result: "success", "duplicate", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// ── Generation metrics ────────────────────────────────────────────────────────

// GenerationsSubmittedTotal counts submissions accepted by the backend.
// Label:
//   - platform: target platform, or "unspecified"
var GenerationsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generations_submitted_total",
		Help:      "Total number of generation requests accepted by the backend.",
	},
	[]string{"platform"},
)

// GenerationSubmitErrorsTotal counts submissions that failed before a
// request id was assigned.
// Label:
//   - reason: "validation_rejected", "backend_unavailable", "upstream_error", "unknown"
var GenerationSubmitErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_submit_errors_total",
		Help:      "Total number of generation submissions that failed.",
	},
	[]string{"reason"},
)

// StatusPollsTotal counts status polls by observed outcome.
// Label:
//   - status: backend status, "untracked" (404 fallback), or "degraded"
var StatusPollsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_polls_total",
		Help:      "Total number of generation status polls, by observed status.",
	},
	[]string{"status"},
)

// BackendRequestDuration measures round-trip time to the generation backend.
// Labels:
//   - endpoint: logical backend endpoint (e.g. "generate", "status", "health")
//   - outcome: "ok" or "error"
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of HTTP requests to the generation backend.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"endpoint", "outcome"},
)

// ── Email metrics ─────────────────────────────────────────────────────────────

// EmailDeliveriesTotal counts verification email deliveries.
// Label:
//   - result: "sent", "failed", or "retried"
var EmailDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_deliveries_total",
		Help:      "Total number of verification email delivery attempts, by result.",
	},
	[]string{"result"},
)

// EmailQueueDepth tracks pending deliveries in each retry worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EmailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "email_queue_depth",
		Help:      "Current number of emails pending in each retry worker channel.",
	},
	[]string{"worker_id"},
)
