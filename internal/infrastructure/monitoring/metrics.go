package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the shell.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Shell metrics
	ClustersActive     prometheus.Gauge
	StoriesActive      prometheus.Gauge
	SplitsTotal        prometheus.Counter
	MergesTotal        prometheus.Counter
	CoverageViolations prometheus.Counter
	LayoutComputes     *prometheus.HistogramVec

	// Session metrics
	SessionsSaved    prometheus.Counter
	SessionsRestored prometheus.Counter

	// Suggestion metrics
	SuggestionQueries prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for the JSON stats API
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the JSON stats API.
type Snapshot struct {
	TotalRequests     int64
	TotalErrors       int64
	ActiveConnections int64
	TotalDuration     float64 // sum of all request durations
	RequestCount      int64   // count for averaging
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shell_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shell_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		ClustersActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "shell_clusters_active",
				Help: "Number of live story clusters",
			},
		),
		StoriesActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "shell_stories_active",
				Help: "Number of stories across all clusters",
			},
		),
		SplitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "shell_panel_splits_total",
				Help: "Total panel split operations (drag-out and drop-in)",
			},
		),
		MergesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "shell_cluster_merges_total",
				Help: "Total cluster merge operations",
			},
		),
		CoverageViolations: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "shell_coverage_violations_total",
				Help: "Debug-assertion failures of the panel coverage invariant",
			},
		),
		LayoutComputes: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shell_layout_compute_seconds",
				Help:    "Layout classifier duration in seconds",
				Buckets: []float64{.00001, .0001, .001, .01, .1},
			},
			[]string{"tag"},
		),

		SessionsSaved: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "shell_sessions_saved_total",
				Help: "Total number of sessions saved",
			},
		),
		SessionsRestored: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "shell_sessions_restored_total",
				Help: "Total number of sessions restored",
			},
		),

		SuggestionQueries: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "shell_suggestion_queries_total",
				Help: "Total number of suggestion queries",
			},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "shell_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shell_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "shell_uptime_seconds",
				Help: "Shell uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric.
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordLayoutCompute records one layout classifier run.
func (m *Metrics) RecordLayoutCompute(tag string, duration time.Duration) {
	m.LayoutComputes.WithLabelValues(tag).Observe(duration.Seconds())
}

// RecordWSMessage records a WebSocket message.
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections.
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections.
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// IncSessionsSaved increments the sessions saved counter.
func (m *Metrics) IncSessionsSaved() {
	m.SessionsSaved.Inc()
}

// IncSessionsRestored increments the sessions restored counter.
func (m *Metrics) IncSessionsRestored() {
	m.SessionsRestored.Inc()
}

// GetSnapshot returns current values for the JSON stats API.
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// UptimeSeconds returns seconds since process start.
func (m *Metrics) UptimeSeconds() float64 {
	return time.Since(m.startTime).Seconds()
}
