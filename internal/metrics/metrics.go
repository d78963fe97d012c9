//go:build !tinygo

// Package metrics exports scan statistics for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"splitkb/firmware/stats"
)

// Metrics mirrors the latest statistics report.
type Metrics struct {
	ScansPerSecond  prometheus.Gauge
	MicrosPerScan   prometheus.Gauge
	IdlePercent     prometheus.Gauge
	RemoteConnected prometheus.Gauge
	Reports         prometheus.Counter

	registry *prometheus.Registry
}

// New creates the gauges and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		ScansPerSecond: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "splitkb",
			Subsystem: "scan",
			Name:      "scans_per_second",
			Help:      "Scan iterations per second over the last statistics window",
		}),
		MicrosPerScan: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "splitkb",
			Subsystem: "scan",
			Name:      "microseconds_per_scan",
			Help:      "Average wall time of one scan iteration",
		}),
		IdlePercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "splitkb",
			Subsystem: "scan",
			Name:      "idle_percent",
			Help:      "Share of the window spent idling after failed remote polls",
		}),
		RemoteConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "splitkb",
			Subsystem: "remote",
			Name:      "connected",
			Help:      "Remote half connectivity at the end of the window (0/1)",
		}),
		Reports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitkb",
			Subsystem: "scan",
			Name:      "reports_total",
			Help:      "Number of completed statistics windows",
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.ScansPerSecond, m.MicrosPerScan, m.IdlePercent, m.RemoteConnected, m.Reports)
	return m
}

// Observe implements stats.Sink.
func (m *Metrics) Observe(r stats.Report) {
	m.ScansPerSecond.Set(float64(r.ScansPerSecond()))
	m.MicrosPerScan.Set(float64(r.MicrosPerScan()))
	m.IdlePercent.Set(float64(r.IdlePercent()))
	if r.Connected {
		m.RemoteConnected.Set(1)
	} else {
		m.RemoteConnected.Set(0)
	}
	m.Reports.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
