package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObservePhysical("soundbank", "load", true)
	m.ObservePhysical("soundbank", "load", false)
	m.ObserveNodeLoad("event", true)
	m.NodeAttached("event")
	m.NodeAttached("event")
	m.NodeDetached("event")
	m.LanguageSwapped()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PhysicalOps.WithLabelValues("soundbank", "load", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PhysicalOps.WithLabelValues("soundbank", "load", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NodeLoads.WithLabelValues("event", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadedNodes.WithLabelValues("event")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LanguageSwaps))

	// Registering twice on the same registry must fail.
	_, err = New(reg)
	assert.Error(t, err)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePhysical("media", "unload", true)
		m.ObserveNodeLoad("media", false)
		m.NodeAttached("media")
		m.NodeDetached("media")
		m.LanguageSwapped()
	})
}
