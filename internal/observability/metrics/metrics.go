package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "ecocore_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	ingestRequests *prometheus.CounterVec
	ingestLatency  *prometheus.HistogramVec

	alertsTotal *prometheus.CounterVec

	scheduleRuns *prometheus.CounterVec

	overridesTotal *prometheus.CounterVec

	exportTotal *prometheus.CounterVec
)

// Init registers observability metrics.
func Init() {
	registerOnce.Do(func() {
		ingestRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ingest_requests_total",
				Help: "Total sensor ingest requests by result",
			},
			[]string{"result"},
		)
		ingestLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "ingest_latency_seconds",
				Help:    "Sensor ingest latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		alertsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alerts_total",
				Help: "Total alerts raised by type",
			},
			[]string{"type"},
		)

		scheduleRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "schedule_runs_total",
				Help: "Total schedule optimizer runs by kind and result",
			},
			[]string{"kind", "result"},
		)

		overridesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "overrides_total",
				Help: "Total manual overrides by utility and action",
			},
			[]string{"utility", "action"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total history exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			ingestRequests,
			ingestLatency,
			alertsTotal,
			scheduleRuns,
			overridesTotal,
			exportTotal,
		)
	})
}

// ObserveIngest records ingest request duration and result.
func ObserveIngest(success bool, duration time.Duration) {
	result := resultSuccess
	if !success {
		result = resultError
	}
	if ingestRequests != nil {
		ingestRequests.WithLabelValues(result).Inc()
	}
	if ingestLatency != nil {
		ingestLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AlertRaised counts a raised alert by type.
func AlertRaised(alertType string) {
	if alertsTotal != nil {
		alertsTotal.WithLabelValues(alertType).Inc()
	}
}

// ScheduleRun counts an optimizer run by kind and result.
func ScheduleRun(kind string, success bool) {
	result := resultSuccess
	if !success {
		result = resultError
	}
	if scheduleRuns != nil {
		scheduleRuns.WithLabelValues(kind, result).Inc()
	}
}

// OverrideApplied counts a manual override.
func OverrideApplied(utility, action string) {
	if overridesTotal != nil {
		overridesTotal.WithLabelValues(utility, action).Inc()
	}
}

// ObserveExport counts a history export by format and result.
func ObserveExport(format string, success bool) {
	result := resultSuccess
	if !success {
		result = resultError
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}
