package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "audio_loader"

// Metrics holds the loader's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	PhysicalOps   *prometheus.CounterVec
	NodeLoads     *prometheus.CounterVec
	LoadedNodes   *prometheus.GaugeVec
	LanguageSwaps prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		PhysicalOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "physical_ops_total",
			Help:      "Backend load/unload calls partitioned by resource kind, operation and result.",
		}, []string{"kind", "op", "result"}),
		NodeLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_loads_total",
			Help:      "Load requests partitioned by object kind and result.",
		}, []string{"kind", "result"}),
		LoadedNodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loaded_nodes",
			Help:      "Objects currently attached to a registry, by kind.",
		}, []string{"kind"}),
		LanguageSwaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "language_swaps_total",
			Help:      "Completed language swaps.",
		}),
	}

	for _, c := range []prometheus.Collector{m.PhysicalOps, m.NodeLoads, m.LoadedNodes, m.LanguageSwaps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// ObservePhysical counts one backend call.
func (m *Metrics) ObservePhysical(kind, op string, ok bool) {
	if m == nil {
		return
	}
	m.PhysicalOps.WithLabelValues(kind, op, result(ok)).Inc()
}

// ObserveNodeLoad counts one load request outcome.
func (m *Metrics) ObserveNodeLoad(kind string, ok bool) {
	if m == nil {
		return
	}
	m.NodeLoads.WithLabelValues(kind, result(ok)).Inc()
}

// NodeAttached increments the loaded node gauge.
func (m *Metrics) NodeAttached(kind string) {
	if m == nil {
		return
	}
	m.LoadedNodes.WithLabelValues(kind).Inc()
}

// NodeDetached decrements the loaded node gauge.
func (m *Metrics) NodeDetached(kind string) {
	if m == nil {
		return
	}
	m.LoadedNodes.WithLabelValues(kind).Dec()
}

// LanguageSwapped counts a finished language swap.
func (m *Metrics) LanguageSwapped() {
	if m == nil {
		return
	}
	m.LanguageSwaps.Inc()
}
