package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LayoutCollector bundles Prometheus metrics for layout activity and
// provides a ready-made /metrics handler for drivers that want one.
type LayoutCollector struct {
	gatherer prometheus.Gatherer

	PlacementsAccepted prometheus.Counter
	PlacementsRejected prometheus.Counter
	Observations       prometheus.Counter
	ObserveDurations   prometheus.Histogram

	LayoutObjects prometheus.Gauge
}

// NewLayoutCollector registers layout Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when
// nil.
func NewLayoutCollector(reg prometheus.Registerer) (*LayoutCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	accepted, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "layout_objects_placed_total",
		Help: "Total number of objects accepted into a layout.",
	}), "layout_objects_placed_total")
	if err != nil {
		return nil, err
	}
	rejected, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "layout_objects_rejected_total",
		Help: "Total number of object placements rejected for being out of bounds.",
	}), "layout_objects_rejected_total")
	if err != nil {
		return nil, err
	}
	observations, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "layout_observations_total",
		Help: "Total number of layout observation queries.",
	}), "layout_observations_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "layout_observe_duration_seconds",
		Help:    "Latency of layout observation queries in seconds.",
		Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}), "layout_observe_duration_seconds")
	if err != nil {
		return nil, err
	}

	objects, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "layout_objects",
		Help: "Current number of objects held by the observed layout.",
	}), "layout_objects")
	if err != nil {
		return nil, err
	}

	return &LayoutCollector{
		gatherer:           gatherer,
		PlacementsAccepted: accepted,
		PlacementsRejected: rejected,
		Observations:       observations,
		ObserveDurations:   durations,
		LayoutObjects:      objects,
	}, nil
}

// RecordPlacement counts one AddObject outcome.
func (c *LayoutCollector) RecordPlacement(accepted bool) {
	if c == nil {
		return
	}
	if accepted {
		if c.PlacementsAccepted != nil {
			c.PlacementsAccepted.Inc()
		}
		return
	}
	if c.PlacementsRejected != nil {
		c.PlacementsRejected.Inc()
	}
}

// RecordObservation counts one Observe call and its duration.
func (c *LayoutCollector) RecordObservation(elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.Observations != nil {
		c.Observations.Inc()
	}
	if c.ObserveDurations != nil {
		c.ObserveDurations.Observe(elapsed.Seconds())
	}
}

// SetObjectCount drives the layout_objects gauge.
func (c *LayoutCollector) SetObjectCount(n int) {
	if c == nil || c.LayoutObjects == nil {
		return
	}
	c.LayoutObjects.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *LayoutCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, histogram prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(histogram); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return histogram, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
