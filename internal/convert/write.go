package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/philipparndt/stl2nec/internal/job"
	"github.com/philipparndt/stl2nec/internal/logging"
	"github.com/philipparndt/stl2nec/pkg/deck"
	"github.com/philipparndt/stl2nec/pkg/stl"
)

// WriteError reports an output file that could not be written
type WriteError struct {
	Dialect string
	Path    string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s output %s: %v", e.Dialect, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (c *Converter) write(ctx context.Context, s *job.Settings, res *Result) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "write")
	start := time.Now()

	var written []string
	var errs []error
	for _, out := range []struct {
		deck *deck.Deck
		path string
	}{
		{res.NEC, s.NECPath},
		{res.EZ, s.EZPath},
	} {
		if out.path == "" {
			continue
		}
		dialect := out.deck.Dialect.String()
		if err := writeFile(out.path, func(w io.Writer) error {
			_, err := out.deck.WriteTo(w)
			return err
		}); err != nil {
			errs = append(errs, &WriteError{Dialect: dialect, Path: out.path, Err: err})
			c.log.Error(ctx, "write failed", logging.String("dialect", dialect), logging.String("path", out.path), logging.Err(err))
			continue
		}
		c.metrics.DeckWritten(dialect)
		written = append(written, out.path)
		c.log.Info(ctx, "deck written",
			logging.String("dialect", dialect),
			logging.String("path", out.path),
			logging.Int("cards", len(out.deck.Cards)),
		)
	}

	if s.ScaledSTL != "" {
		if err := writeFile(s.ScaledSTL, func(w io.Writer) error {
			return stl.WriteBinary(w, res.Mesh)
		}); err != nil {
			errs = append(errs, &WriteError{Dialect: "stl", Path: s.ScaledSTL, Err: err})
		} else {
			written = append(written, s.ScaledSTL)
			c.log.Info(ctx, "scaled mesh written", logging.String("path", s.ScaledSTL))
		}
	}

	err := errors.Join(errs...)
	c.metrics.ObserveStage("write", start)
	span.SetAttributes(attribute.Int("files", len(written)))
	endSpan(span, err)
	return written, err
}

func writeFile(path string, fill func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
