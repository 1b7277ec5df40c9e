// Package metrics declares the Prometheus instruments the service and
// worker export on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ReportsSaved counts successful report upserts.
var ReportsSaved = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "setoran",
	Subsystem: "report",
	Name:      "saved_total",
	Help:      "Total reports saved (new rows and overwrites).",
})

// SaveFailures counts failed save attempts by stage.
var SaveFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "setoran",
	Subsystem: "report",
	Name:      "save_failures_total",
	Help:      "Total failed save attempts by stage.",
}, []string{"stage"})

// SyncResults counts worker export outcomes.
var SyncResults = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "setoran",
	Subsystem: "sync",
	Name:      "results_total",
	Help:      "Total sheet export attempts by result.",
}, []string{"result"})

// PendingSyncReports tracks the export backlog after each worker pass.
var PendingSyncReports = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "setoran",
	Subsystem: "sync",
	Name:      "pending_reports",
	Help:      "Reports waiting for sheet export after the last pass.",
})

// HTTPRequestDuration observes handler latency.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "setoran",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request duration by route and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "status"})

// SharesSent counts share notifications by outcome.
var SharesSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "setoran",
	Subsystem: "share",
	Name:      "sent_total",
	Help:      "Total share notifications by result.",
}, []string{"result"})
