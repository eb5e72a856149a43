// Package metrics defines the gateway's Prometheus metrics. It is the single
// source of truth for metric names, labels, and help strings; promauto
// registers everything with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gateway"

// ConnectionsActive tracks the number of currently admitted websocket
// connections.
var ConnectionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connections_active",
		Help:      "Number of live websocket connections.",
	},
)

// ConnectionsTotal counts connection attempts by outcome.
// Label:
//   - outcome: "admitted", "rejected_credential", "rejected_subject"
var ConnectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connections_total",
		Help:      "Total websocket connection attempts, by outcome.",
	},
	[]string{"outcome"},
)

// MessagesTotal counts inbound send-message events by result.
// Label:
//   - result: "sent", "invalid", "persist_error"
var MessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_total",
		Help:      "Total inbound chat messages, by processing result.",
	},
	[]string{"result"},
)

// NotificationsTotal counts notifications fanned out, by category.
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total notifications persisted and fanned out, by category.",
	},
	[]string{"type"},
)

// UsersOnline tracks how many distinct users have at least one live handle.
var UsersOnline = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "users_online",
		Help:      "Number of distinct users currently online.",
	},
)
