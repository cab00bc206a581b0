package simplesecrets

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	opPack   = "pack"
	opUnpack = "unpack"
)

// Metrics counts Pack and Unpack outcomes. A nil *Metrics records nothing.
type Metrics struct {
	packed   prometheus.Counter
	unpacked prometheus.Counter
	rejected prometheus.Counter
	failures *prometheus.CounterVec
}

// NewMetrics creates the packet counters and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		packed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simple_secrets",
			Name:      "packets_packed_total",
			Help:      "Number of values packed into tokens.",
		}),
		unpacked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simple_secrets",
			Name:      "packets_unpacked_total",
			Help:      "Number of tokens successfully unpacked.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "simple_secrets",
			Name:      "packets_rejected_total",
			Help:      "Number of tokens rejected as foreign or tampered.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "simple_secrets",
			Name:      "operation_errors_total",
			Help:      "Number of pack and unpack calls that returned an error.",
		}, []string{"op"}),
	}

	for _, c := range []prometheus.Collector{m.packed, m.unpacked, m.rejected, m.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observePacked() {
	if m != nil {
		m.packed.Inc()
	}
}

func (m *Metrics) observeUnpacked() {
	if m != nil {
		m.unpacked.Inc()
	}
}

func (m *Metrics) observeRejected() {
	if m != nil {
		m.rejected.Inc()
	}
}

func (m *Metrics) observeFailure(op string) {
	if m != nil {
		m.failures.WithLabelValues(op).Inc()
	}
}
