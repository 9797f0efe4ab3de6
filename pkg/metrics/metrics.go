package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "winwifi"

type Metrics struct {
	ScansTotal           *prometheus.CounterVec
	ScanDuration         prometheus.Histogram
	NotificationsDropped prometheus.Counter
	BssUnmatched         prometheus.Counter
	BssDecodeErrors      prometheus.Counter
	NetworksFound        prometheus.Gauge
	CommandsTotal        *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New uses a private registry, so repeated construction in one
// process (tests, repeated CLI iterations) never collides.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Interface scans by result (completed, timed_out, failed)",
		}, []string{"result"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Time from scan trigger to completion notification or timeout",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16},
		}),
		NotificationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dropped_total",
			Help:      "Platform notifications dropped because the waiter queue was full",
		}),
		BssUnmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bss_unmatched_total",
			Help:      "BSS entries whose SSID matched no available network",
		}),
		BssDecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bss_decode_errors_total",
			Help:      "BSS entries skipped because their information elements could not be decoded",
		}),
		NetworksFound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "networks_found",
			Help:      "Networks returned by the last scan pass",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "CLI command executions by command and result",
		}, []string{"command", "result"}),
		gatherer: gatherer,
	}

	reg.MustRegister(
		m.ScansTotal,
		m.ScanDuration,
		m.NotificationsDropped,
		m.BssUnmatched,
		m.BssDecodeErrors,
		m.NetworksFound,
		m.CommandsTotal,
	)
	return m
}

func (m *Metrics) ObserveScan(result string, took time.Duration) {
	m.ScansTotal.WithLabelValues(result).Inc()
	m.ScanDuration.Observe(took.Seconds())
}

func (m *Metrics) IncDroppedNotification() {
	m.NotificationsDropped.Inc()
}

func (m *Metrics) IncCommand(command string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.CommandsTotal.WithLabelValues(command, result).Inc()
}

// WriteTextfile writes every metric in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(filename string) error {
	if err := prometheus.WriteToTextfile(filename, m.gatherer); err != nil {
		return fmt.Errorf("writing metrics to %q: %w", filename, err)
	}
	return nil
}
