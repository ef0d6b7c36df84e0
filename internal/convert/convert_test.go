package convert

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/philipparndt/stl2nec/internal/job"
	"github.com/philipparndt/stl2nec/internal/observability"
	"github.com/philipparndt/stl2nec/pkg/geometry"
	"github.com/philipparndt/stl2nec/pkg/openscad"
	"github.com/philipparndt/stl2nec/pkg/stl"
)

// tube builds an open cylinder along Z with n sides
func tube(n int, radius, length float64, origin geometry.Vector3) []geometry.Triangle {
	var tris []geometry.Triangle
	for i := 0; i < n; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(n)
		a1 := 2 * math.Pi * float64((i+1)%n) / float64(n)
		b0 := origin.Add(geometry.NewVector3(radius*math.Cos(a0), radius*math.Sin(a0), 0))
		b1 := origin.Add(geometry.NewVector3(radius*math.Cos(a1), radius*math.Sin(a1), 0))
		t0 := b0.Add(geometry.NewVector3(0, 0, length))
		t1 := b1.Add(geometry.NewVector3(0, 0, length))
		tris = append(tris, geometry.NewTriangle(b0, b1, t1), geometry.NewTriangle(b0, t1, t0))
	}
	return tris
}

func plate() []geometry.Triangle {
	return []geometry.Triangle{
		geometry.NewTriangle(geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 1, 0)),
		geometry.NewTriangle(geometry.NewVector3(1, 0, 0), geometry.NewVector3(1, 1, 0), geometry.NewVector3(0, 1, 0)),
	}
}

func writeMesh(t *testing.T, dir, name string, triangles []geometry.Triangle) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := stl.WriteBinary(f, stl.NewMesh("test", triangles)); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

type harness struct {
	conv     *Converter
	metrics  *observability.Collector
	recorder *tracetest.SpanRecorder
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	opts = append([]Option{WithMetrics(metrics), WithTracer(tp.Tracer("test"))}, opts...)
	return &harness{conv: New(opts...), metrics: metrics, recorder: recorder}
}

func (h *harness) spanNames() []string {
	var names []string
	for _, s := range h.recorder.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func resolve(t *testing.T, j *job.Job) *job.Settings {
	t.Helper()
	s, err := j.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return s
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRunDetectsAntenna(t *testing.T) {
	dir := t.TempDir()
	src := writeMesh(t, dir, "whip.stl", append(plate(), tube(8, 0.002, 0.5, geometry.NewVector3(3, 3, 0))...))
	h := newHarness(t)

	s := resolve(t, &job.Job{
		Source:       src,
		FrequencyMHz: 146,
		Detection:    job.Detection{Grouping: "connected"},
	})
	res, err := h.conv.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Detection != Detected || res.StructureOnly {
		t.Fatalf("Detection = %q, StructureOnly = %v", res.Detection, res.StructureOnly)
	}
	if len(res.Written) != 2 {
		t.Fatalf("Written = %v, want two decks", res.Written)
	}

	nec := readFile(t, filepath.Join(dir, "whip.nec"))
	ez := readFile(t, filepath.Join(dir, "whip.ez"))
	if nec != res.NEC.String() || ez != res.EZ.String() {
		t.Error("written files differ from the generated decks")
	}
	for _, want := range []string{"CM Model: whip\n", "GW 1 ", "EX 0 1 ", "FR 0 1 0 0 146.0000 0\n", "EN\n"} {
		if !strings.Contains(nec, want) {
			t.Errorf("NEC deck missing %q", want)
		}
	}
	if strings.Contains(ez, "PT ") {
		t.Error("EZ deck must not contain a PT card")
	}

	if got := testutil.ToFloat64(h.metrics.Conversions.WithLabelValues("ok")); got != 1 {
		t.Errorf("conversions ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.metrics.Detections.WithLabelValues(Detected)); got != 1 {
		t.Errorf("detections detected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.metrics.TrianglesDecoded); got != 18 {
		t.Errorf("triangles decoded = %v, want 18", got)
	}
	for _, dialect := range []string{"nec", "ez"} {
		if got := testutil.ToFloat64(h.metrics.DecksWritten.WithLabelValues(dialect)); got != 1 {
			t.Errorf("decks written %s = %v, want 1", dialect, got)
		}
	}

	names := strings.Join(h.spanNames(), ",")
	for _, want := range []string{"decode", "detect", "encode", "write", "convert"} {
		if !strings.Contains(names, want) {
			t.Errorf("span %q not recorded, got %s", want, names)
		}
	}
}

func TestRunStructureOnly(t *testing.T) {
	dir := t.TempDir()
	src := writeMesh(t, dir, "plate.stl", plate())
	h := newHarness(t)

	res, err := h.conv.Run(context.Background(), resolve(t, &job.Job{Source: src, FrequencyMHz: 14}))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Detection != NotFound || !res.StructureOnly {
		t.Fatalf("Detection = %q, StructureOnly = %v", res.Detection, res.StructureOnly)
	}

	nec := res.NEC.String()
	if !strings.Contains(nec, "CM Antenna: structure only\n") {
		t.Error("structure-only header comment missing")
	}
	if strings.Contains(nec, "EX ") {
		t.Error("structure-only deck must not excite a wire")
	}
	if got := res.NEC.Count("GW"); got != 2 {
		t.Errorf("GW cards = %d, want one per triangle", got)
	}
	if got := testutil.ToFloat64(h.metrics.Detections.WithLabelValues(NotFound)); got != 1 {
		t.Errorf("detections none = %v, want 1", got)
	}
}

func TestRunDetectionDisabled(t *testing.T) {
	dir := t.TempDir()
	src := writeMesh(t, dir, "whip.stl", tube(8, 0.002, 0.5, geometry.NewVector3(0, 0, 0)))
	h := newHarness(t)

	off := false
	res, err := h.conv.Run(context.Background(), resolve(t, &job.Job{
		Source:       src,
		FrequencyMHz: 146,
		Detection:    job.Detection{Enabled: &off, Grouping: "connected"},
	}))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Detection != Disabled || res.Wire.Detected {
		t.Fatalf("Detection = %q, wire detected = %v", res.Detection, res.Wire.Detected)
	}
	if strings.Contains(strings.Join(h.spanNames(), ","), "detect") {
		t.Error("detect span recorded although detection is disabled")
	}
}

func TestRunDecodeError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.stl")
	if err := os.WriteFile(src, make([]byte, 40), 0o644); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t)

	_, err := h.conv.Run(context.Background(), resolve(t, &job.Job{Source: src, FrequencyMHz: 14}))
	if !errors.Is(err, stl.ErrDecode) {
		t.Fatalf("err = %v, want a decode error", err)
	}
	if got := testutil.ToFloat64(h.metrics.DecodeErrors.WithLabelValues("binary")); got != 1 {
		t.Errorf("decode errors binary = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.metrics.Conversions.WithLabelValues("error")); got != 1 {
		t.Errorf("conversions error = %v, want 1", got)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "broken.nec")); !os.IsNotExist(statErr) {
		t.Error("no deck should be written after a decode error")
	}
}

func TestRunWriteErrorKeepsOtherOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeMesh(t, dir, "plate.stl", plate())
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t)

	s := resolve(t, &job.Job{
		Source:       src,
		FrequencyMHz: 14,
		Output:       job.Output{NEC: filepath.Join(blocker, "plate.nec")},
	})
	res, err := h.conv.Run(context.Background(), s)

	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("err = %v, want a *WriteError", err)
	}
	if we.Dialect != "nec" {
		t.Errorf("failed dialect = %q, want nec", we.Dialect)
	}
	if res == nil || len(res.Written) != 1 || res.Written[0] != s.EZPath {
		t.Fatalf("EZ deck should still be written, got %+v", res)
	}
	if got := testutil.ToFloat64(h.metrics.DecksWritten.WithLabelValues("ez")); got != 1 {
		t.Errorf("decks written ez = %v, want 1", got)
	}
}

func TestRunScalesAndExports(t *testing.T) {
	dir := t.TempDir()
	src := writeMesh(t, dir, "plate.stl", plate())
	h := newHarness(t)

	s := resolve(t, &job.Job{
		Source:       src,
		FrequencyMHz: 14,
		Scale:        job.Scale{LengthM: 5},
		Output:       job.Output{ScaledSTL: filepath.Join(dir, "scaled.stl")},
	})
	res, err := h.conv.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Scaled || res.Mesh.ScaleFactor() != 5 {
		t.Fatalf("Scaled = %v, factor = %v", res.Scaled, res.Mesh.ScaleFactor())
	}

	scaled, err := stl.Parse(s.ScaledSTL)
	if err != nil {
		t.Fatalf("parse scaled export: %v", err)
	}
	if got := scaled.BoundingBox().MaxExtent(); math.Abs(got-5) > 1e-6 {
		t.Errorf("exported extent = %v, want 5", got)
	}
	if len(res.Written) != 3 {
		t.Errorf("Written = %v, want two decks and the scaled mesh", res.Written)
	}
}

func TestLoadScadWithoutOpenSCAD(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "part.scad")
	if err := os.WriteFile(src, []byte("cube(1);\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	renderer := openscad.NewRenderer(dir).WithBinary("stl2nec-no-such-openscad")
	h := newHarness(t, WithRenderer(renderer))

	_, err := h.conv.Load(context.Background(), src)
	if !errors.Is(err, openscad.ErrNotInstalled) {
		t.Fatalf("err = %v, want ErrNotInstalled", err)
	}
	if got := testutil.ToFloat64(h.metrics.DecodeErrors.WithLabelValues("io")); got != 1 {
		t.Errorf("decode errors io = %v, want 1", got)
	}
}

func TestCheck(t *testing.T) {
	origin := geometry.NewVector3(0, 0, 0)
	tests := []struct {
		name string
		mesh *stl.Mesh
		want string
	}{
		{"nil mesh", nil, "no triangles"},
		{"healthy", stl.NewMesh("", plate()), ""},
		{"degenerate triangle", stl.NewMesh("", append(plate(),
			geometry.NewTriangle(origin, origin, geometry.NewVector3(1, 1, 1)))), "degenerate triangle"},
		{"line", stl.NewMesh("", []geometry.Triangle{
			geometry.NewTriangle(geometry.NewVector3(1, 1, 1), geometry.NewVector3(2, 1, 1), geometry.NewVector3(3, 1, 1)),
		}), "two dimensions"},
		{"non-finite", stl.NewMesh("", append(plate(),
			geometry.NewTriangle(origin, geometry.NewVector3(math.NaN(), 0, 0), geometry.NewVector3(0, 1, 0)))), "non-finite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(Check(tt.mesh), "; ")
			if tt.want == "" {
				if got != "" {
					t.Errorf("unexpected warnings: %s", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("warnings %q do not mention %q", got, tt.want)
			}
		})
	}
}
