// Package metrics defines and registers all custom Prometheus metrics for the
// user directory. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed by the router under /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_directory"

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts users successfully created.
// Label:
//   - role: the stored role ("employee", "client", ...)
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created, by role.",
	},
	[]string{"role"},
)

// UserConflictsTotal counts creations rejected by the uniqueness check.
// Label:
//   - field: the reported conflicting field ("username", "phone", "email")
var UserConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_conflicts_total",
		Help:      "Total number of user creations rejected for a uniqueness conflict.",
	},
	[]string{"field"},
)

// UsersDeletedTotal counts removed user records.
// Label:
//   - mode: "single" or "purge"
var UsersDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of user records removed.",
	},
	[]string{"mode"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events by outcome.
// Labels:
//   - type: the event type (e.g. "user.created")
//   - result: "stored", "failed" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, labelled by type and result.",
	},
	[]string{"type", "result"},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)
