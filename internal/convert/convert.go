// Package convert runs one conversion: load the source mesh, scale it,
// detect the antenna, then generate and write the NEC and EZ decks.
package convert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/philipparndt/stl2nec/internal/job"
	"github.com/philipparndt/stl2nec/internal/logging"
	"github.com/philipparndt/stl2nec/internal/observability"
	"github.com/philipparndt/stl2nec/pkg/antenna"
	"github.com/philipparndt/stl2nec/pkg/deck"
	"github.com/philipparndt/stl2nec/pkg/encoder"
	"github.com/philipparndt/stl2nec/pkg/openscad"
	"github.com/philipparndt/stl2nec/pkg/stl"
)

// Detection outcomes, also used as metric labels
const (
	Detected = "detected"
	NotFound = "none"
	Disabled = "disabled"
)

// Result describes a finished conversion
type Result struct {
	Mesh      *stl.Mesh
	Scaled    bool
	Wire      antenna.Wire
	Detection string
	// StructureOnly is set when no antenna was used
	StructureOnly bool
	NEC           *deck.Deck
	EZ            *deck.Deck
	Written       []string
	Warnings      []string
}

// Converter runs conversions. It is safe to reuse across runs.
type Converter struct {
	log      logging.Logger
	metrics  *observability.Collector
	tracer   trace.Tracer
	renderer *openscad.Renderer
}

// Option configures a Converter
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(c *Converter) { c.log = logging.OrNoop(l) }
}

// WithMetrics records pipeline metrics on m
func WithMetrics(m *observability.Collector) Option {
	return func(c *Converter) { c.metrics = m }
}

// WithTracer replaces the global pipeline tracer
func WithTracer(t trace.Tracer) Option {
	return func(c *Converter) { c.tracer = t }
}

// WithRenderer sets the renderer used for .scad sources
func WithRenderer(r *openscad.Renderer) Option {
	return func(c *Converter) { c.renderer = r }
}

// New creates a converter
func New(opts ...Option) *Converter {
	c := &Converter{log: logging.Noop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = observability.Tracer()
	}
	return c
}

// Run executes the whole pipeline for s. The NEC and EZ decks are written
// independently; when either write fails the other is still attempted and
// the failures are joined.
func (c *Converter) Run(ctx context.Context, s *job.Settings) (res *Result, err error) {
	ctx, span := c.tracer.Start(ctx, "convert", trace.WithAttributes(
		attribute.String("source", s.Source),
	))
	defer func() {
		endSpan(span, err)
		c.metrics.Conversion(err)
	}()

	mesh, err := c.Load(ctx, s.Source)
	if err != nil {
		return nil, err
	}
	res = &Result{Mesh: mesh}

	if res.Scaled, err = c.scale(ctx, mesh, s); err != nil {
		return nil, err
	}

	res.Warnings = Check(mesh)
	for _, w := range res.Warnings {
		c.log.Warn(ctx, "mesh check", logging.String("warning", w))
	}

	res.Wire, res.Detection = c.detect(ctx, mesh, s)
	res.StructureOnly = res.Detection != Detected

	if res.NEC, res.EZ, err = c.encode(ctx, mesh, s, res); err != nil {
		return nil, err
	}

	res.Written, err = c.write(ctx, s, res)
	if err != nil {
		return res, err
	}

	c.log.Info(ctx, "conversion complete",
		logging.Int("triangles", mesh.TriangleCount()),
		logging.String("detection", res.Detection),
		logging.Any("written", res.Written),
	)
	return res, nil
}

func (c *Converter) scale(ctx context.Context, mesh *stl.Mesh, s *job.Settings) (bool, error) {
	if s.ScaleTo <= 0 {
		return false, nil
	}
	ctx, span := c.tracer.Start(ctx, "scale")
	start := time.Now()

	var scaled bool
	var err error
	if s.ScaleAxis != "" {
		scaled, err = mesh.ScaleToAxis(s.ScaleTo, s.ScaleAxis)
	} else {
		scaled, err = mesh.ScaleToLength(s.ScaleTo)
	}
	c.metrics.ObserveStage("scale", start)
	span.SetAttributes(attribute.Float64("scale.factor", mesh.ScaleFactor()))
	endSpan(span, err)
	if err != nil {
		return false, fmt.Errorf("failed to scale mesh: %w", err)
	}

	if !scaled {
		c.log.Warn(ctx, "mesh has no extent, scale skipped", logging.Float("target_m", s.ScaleTo))
	} else {
		c.log.Info(ctx, "mesh scaled",
			logging.Float("factor", mesh.ScaleFactor()),
			logging.Float("target_m", s.ScaleTo),
			logging.String("axis", s.ScaleAxis),
		)
	}
	return scaled, nil
}

func (c *Converter) detect(ctx context.Context, mesh *stl.Mesh, s *job.Settings) (antenna.Wire, string) {
	if !s.Encoder.AntennaEnabled {
		c.metrics.Detection(Disabled)
		c.log.Info(ctx, "antenna detection disabled")
		return antenna.Wire{}, Disabled
	}

	_, span := c.tracer.Start(ctx, "detect", trace.WithAttributes(
		attribute.String("grouping", s.Detection.Grouping.String()),
	))
	defer span.End()
	start := time.Now()

	wire := antenna.NewDetector(s.Detection).Detect(mesh)
	c.metrics.ObserveStage("detect", start)

	result := NotFound
	if wire.Detected {
		result = Detected
		span.SetAttributes(
			attribute.Float64("wire.length_m", wire.Length),
			attribute.Float64("wire.radius_m", wire.Radius),
		)
		c.log.Info(ctx, "antenna detected",
			logging.Float("length_m", wire.Length),
			logging.Float("radius_m", wire.Radius),
			logging.Int("triangles", len(wire.Triangles)),
		)
	} else {
		c.log.Info(ctx, "no antenna detected, generating structure only")
	}
	span.SetAttributes(attribute.String("result", result))
	c.metrics.Detection(result)
	return wire, result
}

func (c *Converter) encode(ctx context.Context, mesh *stl.Mesh, s *job.Settings, res *Result) (*deck.Deck, *deck.Deck, error) {
	_, span := c.tracer.Start(ctx, "encode", trace.WithAttributes(
		attribute.Bool("structure_only", res.StructureOnly),
	))
	start := time.Now()

	decks := make([]*deck.Deck, 2)
	var err error
	for i, d := range []deck.Dialect{deck.NEC, deck.EZ} {
		enc := encoder.New(d, s.Encoder)
		if res.StructureOnly {
			decks[i], err = enc.GenerateStructureOnly(mesh, s.Material, s.Frequency)
		} else {
			decks[i], err = enc.Generate(mesh, s.Material, s.Frequency, res.Wire)
		}
		if err != nil {
			err = fmt.Errorf("failed to generate %s deck: %w", d, err)
			break
		}
	}
	c.metrics.ObserveStage("encode", start)
	endSpan(span, err)
	if err != nil {
		return nil, nil, err
	}
	return decks[0], decks[1], nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// decodeFormat labels a load failure for the decode error metric
func decodeFormat(err error) string {
	var de *stl.DecodeError
	if errors.As(err, &de) {
		return de.Format
	}
	return "io"
}
