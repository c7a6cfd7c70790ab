package server

import (
	"github.com/evcc-io/onstar/util"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes numeric sensor states as prometheus gauges
type Metrics struct {
	value *prometheus.GaugeVec
}

// NewMetrics creates sensor gauges and registers them with the registerer
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		value: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "onstar",
			Name:      "sensor_value",
			Help:      "Numeric sensor state",
		}, []string{"entity"}),
	}

	return m, reg.Register(m.value)
}

func (m *Metrics) handle(p util.Param) {
	s, ok := p.Val.(EntityState)
	if !ok {
		return
	}

	if f, ok := numeric(s.State); ok {
		m.value.WithLabelValues(s.EntityID).Set(f)
	} else {
		m.value.DeleteLabelValues(s.EntityID)
	}
}

// Run updates the gauges for the values received on the channel
func (m *Metrics) Run(in <-chan util.Param) {
	for p := range in {
		m.handle(p)
	}
}
