// Package metrics exports property list activity as Prometheus metrics.
//
// A Collector is attached to lists with plist.WithObserver and to a type
// registry with Registry.Subscribe. Arena usage is sampled on demand with
// ObserveArena.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wippyai/proplist/plist"
	"github.com/wippyai/proplist/pool"
	"github.com/wippyai/proplist/resource"
)

// DefaultNamespace prefixes every metric name unless overridden.
const DefaultNamespace = "proplist"

var (
	_ plist.Observer    = (*Collector)(nil)
	_ resource.Observer = (*Collector)(nil)
)

// Collector turns list and registry events into metrics. It is safe for
// concurrent use.
type Collector struct {
	gatherer prometheus.Gatherer

	// EventsTotal counts list events by type.
	EventsTotal *prometheus.CounterVec

	// LiveLists tracks lists created and not yet destroyed.
	LiveLists prometheus.Gauge

	// Properties tracks defined properties across all observed lists.
	Properties prometheus.Gauge

	// SlotCapacity records the slot array size after each growth.
	SlotCapacity prometheus.Histogram

	// SymtabBuckets records the bucket count after each rehash.
	SymtabBuckets prometheus.Histogram

	// TypeRefs tracks lists registered as types.
	TypeRefs prometheus.Gauge

	// ArenaBytes is the last sampled usage per arena.
	ArenaBytes *prometheus.GaugeVec

	// ArenaFailures is the last sampled failed-allocation count per arena.
	ArenaFailures *prometheus.GaugeVec
}

// New registers a Collector's metrics with reg. A nil reg gets a fresh
// registry, which is what tests and the CLI use.
func New(reg *prometheus.Registry, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	f := promauto.With(reg)

	return &Collector{
		gatherer: reg,
		EventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "list",
			Name:      "events_total",
			Help:      "Property list events by type",
		}, []string{"event"}),
		LiveLists: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "list",
			Name:      "live",
			Help:      "Lists created and not yet destroyed",
		}),
		Properties: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "list",
			Name:      "properties",
			Help:      "Defined properties across observed lists",
		}),
		SlotCapacity: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "list",
			Name:      "slot_capacity",
			Help:      "Slot array size after growth",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 10),
		}),
		SymtabBuckets: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "symtab",
			Name:      "buckets",
			Help:      "Symbol table bucket count after rehash",
			Buckets:   []float64{7, 19, 31, 67, 123, 257, 513},
		}),
		TypeRefs: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "type_refs",
			Help:      "Lists registered as property types",
		}),
		ArenaBytes: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "used_bytes",
			Help:      "Bytes reserved in an arena",
		}, []string{"arena"}),
		ArenaFailures: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "arena",
			Name:      "failures",
			Help:      "Refused allocations in an arena",
		}, []string{"arena"}),
	}
}

// OnListEvent implements plist.Observer.
func (c *Collector) OnListEvent(e plist.Event) {
	c.EventsTotal.WithLabelValues(e.Type.String()).Inc()

	switch e.Type {
	case plist.EventCreated:
		c.LiveLists.Inc()
	case plist.EventDuplicated:
		c.LiveLists.Inc()
		c.Properties.Add(float64(e.Count))
	case plist.EventDestroyed:
		c.LiveLists.Dec()
		c.Properties.Sub(float64(e.Count))
	case plist.EventDefined:
		c.Properties.Inc()
	case plist.EventDeleted:
		c.Properties.Dec()
	case plist.EventGrown:
		c.SlotCapacity.Observe(float64(e.Capacity))
	case plist.EventRehashed:
		c.SymtabBuckets.Observe(float64(e.Buckets))
	}
}

// OnResourceEvent implements resource.Observer for type registries.
func (c *Collector) OnResourceEvent(e resource.Event) {
	switch e.Type {
	case resource.EventCreated:
		c.TypeRefs.Inc()
	case resource.EventDropped:
		c.TypeRefs.Dec()
	}
}

// ObserveArena samples an arena's accounting.
func (c *Collector) ObserveArena(a *pool.Arena) {
	st := a.Stats()
	c.ArenaBytes.WithLabelValues(st.Name).Set(float64(st.Used))
	c.ArenaFailures.WithLabelValues(st.Name).Set(float64(st.Failures))
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
