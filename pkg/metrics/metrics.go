package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the console's Prometheus metrics
type Metrics struct {
	AlertsReceived       *prometheus.CounterVec
	MalformedFrames      prometheus.Counter
	Reconnects           prometheus.Counter
	FleetRefreshes       prometheus.Counter
	FleetRefreshFailures prometheus.Counter
	ActionsDispatched    *prometheus.CounterVec

	FeedConnected prometheus.Gauge
	FleetSize     prometheus.Gauge
}

// NewMetrics creates the console metrics collectors
func NewMetrics() *Metrics {
	return &Metrics{
		AlertsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simshield_alerts_received_total",
			Help: "Total number of alerts admitted to the ring store, by kind",
		}, []string{"kind"}),
		MalformedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simshield_malformed_frames_total",
			Help: "Total number of feed frames that failed structured decode",
		}),
		Reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simshield_feed_reconnects_total",
			Help: "Total number of live alert feed reconnect attempts",
		}),
		FleetRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simshield_fleet_refreshes_total",
			Help: "Total number of fleet snapshot refreshes",
		}),
		FleetRefreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simshield_fleet_refresh_failures_total",
			Help: "Total number of failed fleet snapshot refreshes",
		}),
		ActionsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simshield_actions_dispatched_total",
			Help: "Total number of manual remediation actions dispatched, by action",
		}, []string{"action"}),
		FeedConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "simshield_feed_connected",
			Help: "Whether the live alert feed is currently open (1) or not (0)",
		}),
		FleetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "simshield_fleet_size",
			Help: "Number of SIMs in the current fleet snapshot",
		}),
	}
}

// Register registers all collectors with the given registry
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.AlertsReceived,
		m.MalformedFrames,
		m.Reconnects,
		m.FleetRefreshes,
		m.FleetRefreshFailures,
		m.ActionsDispatched,
		m.FeedConnected,
		m.FleetSize,
	)
}
