package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollectors(t *testing.T) {
	m := New(func() uint64 { return 7 })

	m.SetConnections(4)
	m.SetSessions(3)
	m.SetRooms(2)
	m.SetUpstreamAlive(true)
	m.ObserveInbound("LOGIN", 10)
	m.ObserveInbound("LOGIN", 14)
	m.ObserveOutbound("REPLY", 5)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.connections))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sessions))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rooms))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamAlive))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.packetsIn.WithLabelValues("LOGIN")))
	assert.Equal(t, 24.0, testutil.ToFloat64(m.bytesIn))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.packetsOut.WithLabelValues("REPLY")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.bytesOut))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.dumpDropped))

	m.SetUpstreamAlive(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.upstreamAlive))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.SetConnections(1)
	m.SetSessions(1)
	m.SetRooms(1)
	m.SetUpstreamAlive(true)
	m.ObserveInbound("LOGIN", 10)
	m.ObserveOutbound("REPLY", 5)
}
