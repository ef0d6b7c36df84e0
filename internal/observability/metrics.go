// Package observability wires Prometheus metrics and OpenTelemetry tracing
// into the conversion pipeline.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the conversion metrics. All methods are safe on a nil
// Collector, which records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	Conversions      *prometheus.CounterVec
	TrianglesDecoded prometheus.Counter
	DecodeErrors     *prometheus.CounterVec
	Detections       *prometheus.CounterVec
	DecksWritten     *prometheus.CounterVec
	StageDurations   *prometheus.HistogramVec
}

// NewCollector registers the conversion metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	conversions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stl2nec_conversions_total",
		Help: "Total number of conversions, labeled by outcome (ok or error).",
	}, []string{"outcome"}), "stl2nec_conversions_total")
	if err != nil {
		return nil, err
	}

	triangles, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stl2nec_triangles_decoded_total",
		Help: "Total number of triangles decoded from STL input.",
	}), "stl2nec_triangles_decoded_total")
	if err != nil {
		return nil, err
	}

	decodeErrors, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stl2nec_decode_errors_total",
		Help: "Total number of STL decode failures, labeled by format.",
	}, []string{"format"}), "stl2nec_decode_errors_total")
	if err != nil {
		return nil, err
	}

	detections, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stl2nec_antenna_detections_total",
		Help: "Antenna detection runs, labeled by result (detected, none or disabled).",
	}, []string{"result"}), "stl2nec_antenna_detections_total")
	if err != nil {
		return nil, err
	}

	decks, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stl2nec_decks_written_total",
		Help: "Total number of decks written, labeled by dialect.",
	}, []string{"dialect"}), "stl2nec_decks_written_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stl2nec_stage_duration_seconds",
		Help:    "Duration of each pipeline stage in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	}, []string{"stage"}), "stl2nec_stage_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		Conversions:      conversions,
		TrianglesDecoded: triangles,
		DecodeErrors:     decodeErrors,
		Detections:       detections,
		DecksWritten:     decks,
		StageDurations:   durations,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveStage records how long a stage took since start.
func (c *Collector) ObserveStage(stage string, start time.Time) {
	if c == nil || c.StageDurations == nil {
		return
	}
	c.StageDurations.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Decoded counts decoded triangles
func (c *Collector) Decoded(triangles int) {
	if c == nil || c.TrianglesDecoded == nil {
		return
	}
	c.TrianglesDecoded.Add(float64(triangles))
}

// DecodeFailed counts a decode failure for format ("ascii", "binary" or "io")
func (c *Collector) DecodeFailed(format string) {
	if c == nil || c.DecodeErrors == nil {
		return
	}
	c.DecodeErrors.WithLabelValues(format).Inc()
}

// Detection records the outcome of antenna detection
func (c *Collector) Detection(result string) {
	if c == nil || c.Detections == nil {
		return
	}
	c.Detections.WithLabelValues(result).Inc()
}

// DeckWritten counts a written deck
func (c *Collector) DeckWritten(dialect string) {
	if c == nil || c.DecksWritten == nil {
		return
	}
	c.DecksWritten.WithLabelValues(dialect).Inc()
}

// Conversion records a finished conversion
func (c *Collector) Conversion(err error) {
	if c == nil || c.Conversions == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.Conversions.WithLabelValues(outcome).Inc()
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

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
