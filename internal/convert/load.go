package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/philipparndt/stl2nec/internal/logging"
	"github.com/philipparndt/stl2nec/pkg/openscad"
	"github.com/philipparndt/stl2nec/pkg/stl"
)

// Load decodes the mesh at path. OpenSCAD sources are rendered to a
// temporary STL first.
func (c *Converter) Load(ctx context.Context, path string) (mesh *stl.Mesh, err error) {
	ctx, span := c.tracer.Start(ctx, "decode", trace.WithAttributes(
		attribute.String("source", path),
	))
	start := time.Now()
	defer func() {
		c.metrics.ObserveStage("decode", start)
		endSpan(span, err)
	}()

	stlPath := path
	if openscad.IsSource(path) {
		source, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		renderer := c.renderer
		if renderer == nil {
			renderer = openscad.NewRenderer(filepath.Dir(source))
		}
		c.log.Info(ctx, "rendering OpenSCAD source", logging.String("source", source))

		rendered, cleanup, err := renderer.RenderTemp(ctx, source)
		if err != nil {
			c.metrics.DecodeFailed("io")
			return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
		}
		defer cleanup()
		stlPath = rendered
	}

	mesh, err = stl.Parse(stlPath)
	if err != nil {
		c.metrics.DecodeFailed(decodeFormat(err))
		return nil, fmt.Errorf("failed to parse STL file: %w", err)
	}

	c.metrics.Decoded(mesh.TriangleCount())
	span.SetAttributes(attribute.Int("triangles", mesh.TriangleCount()))
	c.log.Info(ctx, "mesh decoded",
		logging.String("source", path),
		logging.String("name", mesh.Name),
		logging.Int("triangles", mesh.TriangleCount()),
	)
	return mesh, nil
}
