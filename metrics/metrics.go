// Package metrics provides a shared prometheus registry and component-scoped
// metric constructors.
package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "bmcp"

var (
	registry     *prometheus.Registry
	registryOnce sync.Once

	// SizeBuckets cover payload and script sizes up to the 100 KB message ceiling.
	SizeBuckets = []float64{32, 64, 128, 256, 512, 1024, 4096, 16384, 65536, 100000}
	// CountBuckets cover batch sizes.
	CountBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}
	// DurationBuckets cover request and decode latencies in seconds.
	DurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5}
)

// GetRegistry returns the process-wide registry, creating it with the Go and
// process collectors on first use.
func GetRegistry() *prometheus.Registry {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
	return registry
}

// ComponentRegistry creates metrics under namespace_subsystem and registers
// them on a prometheus registerer.
type ComponentRegistry struct {
	subsystem  string
	registerer prometheus.Registerer
}

// NewComponentRegistry returns a registry for component, optionally narrowed
// by sub. Metrics land on the process-wide registry.
func NewComponentRegistry(component, sub string) *ComponentRegistry {
	return NewComponentRegistryWith(GetRegistry(), component, sub)
}

// NewComponentRegistryWith is NewComponentRegistry on an explicit registerer.
func NewComponentRegistryWith(reg prometheus.Registerer, component, sub string) *ComponentRegistry {
	subsystem := component
	if sub != "" {
		subsystem = component + "_" + sub
	}
	return &ComponentRegistry{subsystem: subsystem, registerer: reg}
}

// register adds c to reg, returning the collector already registered under
// the same descriptor when a second component instance asks for it.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (r *ComponentRegistry) NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	opts.Namespace, opts.Subsystem = namespace, r.subsystem
	return register(r.registerer, prometheus.NewCounter(opts))
}

func (r *ComponentRegistry) NewCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	opts.Namespace, opts.Subsystem = namespace, r.subsystem
	return register(r.registerer, prometheus.NewCounterVec(opts, labels))
}

func (r *ComponentRegistry) NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	opts.Namespace, opts.Subsystem = namespace, r.subsystem
	return register(r.registerer, prometheus.NewGauge(opts))
}

func (r *ComponentRegistry) NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	opts.Namespace, opts.Subsystem = namespace, r.subsystem
	return register(r.registerer, prometheus.NewHistogram(opts))
}

func (r *ComponentRegistry) NewHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	opts.Namespace, opts.Subsystem = namespace, r.subsystem
	return register(r.registerer, prometheus.NewHistogramVec(opts, labels))
}
