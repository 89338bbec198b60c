// Package metrics exports handle lifecycle events as Prometheus metrics.
//
//	obs, err := metrics.New(prometheus.DefaultRegisterer, "game")
//	if err != nil {
//		return err
//	}
//	defer thinwrap.Subscribe(obs)()
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/syssam/thinwrap"
)

// Observer counts handle lifecycle events per resource kind. It implements
// thinwrap.Observer.
type Observer struct {
	created   *prometheus.CounterVec
	released  *prometheus.CounterVec
	extracted *prometheus.CounterVec
	leaked    *prometheus.CounterVec
	live      *prometheus.GaugeVec
}

// New creates the collectors under namespace and registers them with reg.
func New(reg prometheus.Registerer, namespace string) (*Observer, error) {
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "handles",
			Name:      name,
			Help:      help,
		}, []string{"kind"})
	}
	o := &Observer{
		created:   counter("created_total", "Handles adopted by a wrapper."),
		released:  counter("released_total", "Handles released by their wrapper."),
		extracted: counter("extracted_total", "Handles moved out of their wrapper without release."),
		leaked:    counter("leaked_total", "Handles released by a collector after their wrapper was garbage collected."),
		live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "handles",
			Name:      "live",
			Help:      "Handles currently owned by a wrapper.",
		}, []string{"kind"}),
	}

	var errs []error
	for _, c := range []prometheus.Collector{o.created, o.released, o.extracted, o.leaked, o.live} {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return o, nil
}

// OnHandleEvent implements thinwrap.Observer.
func (o *Observer) OnHandleEvent(e thinwrap.Event) {
	switch e.Type {
	case thinwrap.EventCreated:
		o.created.WithLabelValues(e.Kind).Inc()
		o.live.WithLabelValues(e.Kind).Inc()
	case thinwrap.EventReleased:
		o.released.WithLabelValues(e.Kind).Inc()
		o.live.WithLabelValues(e.Kind).Dec()
	case thinwrap.EventExtracted:
		o.extracted.WithLabelValues(e.Kind).Inc()
		o.live.WithLabelValues(e.Kind).Dec()
	case thinwrap.EventLeaked:
		o.leaked.WithLabelValues(e.Kind).Inc()
		o.live.WithLabelValues(e.Kind).Dec()
	}
}
