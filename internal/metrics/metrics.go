// Package metrics exposes the master server's operational state as
// prometheus collectors, plus a gopsutil-backed process monitor feeding the
// CPU and memory gauges.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the server updates. All fields are safe for
// concurrent use; a nil *Metrics disables collection (every method is a
// no-op on nil).
type Metrics struct {
	registry *prometheus.Registry

	connections   prometheus.Gauge
	sessions      prometheus.Gauge
	rooms         prometheus.Gauge
	upstreamAlive prometheus.Gauge
	packetsIn     *prometheus.CounterVec
	packetsOut    *prometheus.CounterVec
	bytesIn       prometheus.Counter
	bytesOut      prometheus.Counter
	dumpDropped   prometheus.CounterFunc

	cpuPercent prometheus.Gauge
	rssBytes   prometheus.Gauge
}

// New creates and registers all collectors. droppedFrames reports the packet
// dumper's overflow count; pass nil when dumping is disabled.
func New(droppedFrames func() uint64) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.connections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "master_connections_active",
		Help: "Live TCP connections, logged in or not.",
	})
	m.sessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "master_sessions_active",
		Help: "Logged-in sessions.",
	})
	m.rooms = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "master_rooms_open",
		Help: "Open rooms across all channels.",
	})
	m.upstreamAlive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "master_upstream_alive",
		Help: "User service liveness as seen by the probe (1 alive, 0 down).",
	})
	m.packetsIn = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "master_packets_in_total",
		Help: "Inbound packets by packet id name.",
	}, []string{"packet"})
	m.packetsOut = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "master_packets_out_total",
		Help: "Outbound packets by packet id name.",
	}, []string{"packet"})
	m.bytesIn = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "master_bytes_in_total",
		Help: "Bytes received on client connections.",
	})
	m.bytesOut = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "master_bytes_out_total",
		Help: "Bytes written to client connections.",
	})
	m.cpuPercent = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "master_process_cpu_percent",
		Help: "Process CPU usage sampled by the monitor.",
	})
	m.rssBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "master_process_rss_bytes",
		Help: "Process resident memory sampled by the monitor.",
	})

	m.registry.MustRegister(m.connections, m.sessions, m.rooms, m.upstreamAlive,
		m.packetsIn, m.packetsOut, m.bytesIn, m.bytesOut, m.cpuPercent, m.rssBytes)

	if droppedFrames != nil {
		m.dumpDropped = prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "master_dump_dropped_total",
			Help: "Frames dropped by the packet dumper on queue overflow.",
		}, func() float64 { return float64(droppedFrames()) })
		m.registry.MustRegister(m.dumpDropped)
	}

	return m
}

// SetConnections records the live connection count.
func (m *Metrics) SetConnections(n int) {
	if m == nil {
		return
	}
	m.connections.Set(float64(n))
}

// SetSessions records the logged-in session count.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}

// SetRooms records the open room count.
func (m *Metrics) SetRooms(n int) {
	if m == nil {
		return
	}
	m.rooms.Set(float64(n))
}

// SetUpstreamAlive records the probe's view of the user service.
func (m *Metrics) SetUpstreamAlive(alive bool) {
	if m == nil {
		return
	}
	if alive {
		m.upstreamAlive.Set(1)
	} else {
		m.upstreamAlive.Set(0)
	}
}

// ObserveInbound counts one received frame.
func (m *Metrics) ObserveInbound(packetName string, frameLen int) {
	if m == nil {
		return
	}
	m.packetsIn.WithLabelValues(packetName).Inc()
	m.bytesIn.Add(float64(frameLen))
}

// ObserveOutbound counts one sent frame.
func (m *Metrics) ObserveOutbound(packetName string, frameLen int) {
	if m == nil {
		return
	}
	m.packetsOut.WithLabelValues(packetName).Inc()
	m.bytesOut.Add(float64(frameLen))
}

// Handler returns the scrape endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve blocks serving /metrics on addr until the context is canceled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	slog.Info("metrics listener started", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
