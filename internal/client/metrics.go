package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Send sources used as the "source" label of send failures.
const (
	sourceUser     = "user"
	sourceInitial  = "initial"
	sourceRefresh  = "refresh"
	sourceFarewell = "farewell"
)

type metrics struct {
	framesReceived   prometheus.Counter
	snapshotsApplied prometheus.Counter
	refreshRequests  prometheus.Counter
	sendFailures     *prometheus.CounterVec
	state            prometheus.Gauge
}

// newMetrics registers the client collectors with reg. A nil reg keeps the
// collectors unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		framesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "roomchat",
			Subsystem: "client",
			Name:      "frames_received_total",
			Help:      "Frames read from the server.",
		}),
		snapshotsApplied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "roomchat",
			Subsystem: "client",
			Name:      "snapshots_applied_total",
			Help:      "Member list snapshots applied to the roster.",
		}),
		refreshRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "roomchat",
			Subsystem: "client",
			Name:      "refresh_requests_total",
			Help:      "Member list requests triggered by server notices.",
		}),
		sendFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roomchat",
			Subsystem: "client",
			Name:      "send_failures_total",
			Help:      "Failed writes by command source.",
		}, []string{"source"}),
		state: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "roomchat",
			Subsystem: "client",
			Name:      "state",
			Help:      "Current lifecycle state (0 idle, 1 connecting, 2 open, 3 closing, 4 closed).",
		}),
	}
}
