package antenna

import (
	"github.com/philipparndt/stl2nec/pkg/geometry"
	"github.com/philipparndt/stl2nec/pkg/stl"
)

const (
	DefaultMinLength = 0.1
	DefaultMaxLength = 10.0
	// MaxRadius is the upper bound on an accepted wire radius (1 cm)
	MaxRadius = 0.01
)

// Config holds the detection thresholds, in meters
type Config struct {
	MaxDiameter float64
	MinLength   float64
	MaxLength   float64
	Grouping    Grouping
	// Tolerance is the vertex matching distance for Connected grouping
	Tolerance float64
}

// DefaultConfig returns the stock thresholds with per-triangle grouping
func DefaultConfig() Config {
	return Config{
		MaxDiameter: geometry.DefaultMaxDiameter,
		MinLength:   DefaultMinLength,
		MaxLength:   DefaultMaxLength,
		Grouping:    PerTriangle,
		Tolerance:   geometry.DefaultCoincidenceTolerance,
	}
}

// Candidate is one evaluated group of triangles
type Candidate struct {
	Index       int
	Triangles   []geometry.Triangle
	BoundingBox geometry.BoundingBox
	Path        []geometry.Vector3
	Length      float64
	Radius      float64
	WireLike    bool
	Accepted    bool
	Reason      string
}

// Detector scans candidates in mesh order and accepts the first that
// qualifies.
type Detector struct {
	config Config
}

// NewDetector creates a detector. Zero thresholds take their defaults.
func NewDetector(config Config) *Detector {
	def := DefaultConfig()
	if config.MaxDiameter <= 0 {
		config.MaxDiameter = def.MaxDiameter
	}
	if config.MinLength <= 0 {
		config.MinLength = def.MinLength
	}
	if config.MaxLength <= 0 {
		config.MaxLength = def.MaxLength
	}
	if config.Tolerance <= 0 {
		config.Tolerance = def.Tolerance
	}
	return &Detector{config: config}
}

// Config returns the effective configuration
func (d *Detector) Config() Config {
	return d.config
}

// Detect returns the first qualifying candidate as a Wire
func (d *Detector) Detect(mesh *stl.Mesh) Wire {
	if mesh == nil {
		return Wire{}
	}
	for i, group := range d.groups(mesh.Triangles) {
		c := d.evaluate(i, group)
		if c.Accepted {
			return c.Wire()
		}
	}
	return Wire{}
}

// Candidates evaluates every group, in mesh order, without stopping at the
// first match.
func (d *Detector) Candidates(mesh *stl.Mesh) []Candidate {
	if mesh == nil {
		return nil
	}
	groups := d.groups(mesh.Triangles)
	out := make([]Candidate, 0, len(groups))
	for i, group := range groups {
		out = append(out, d.evaluate(i, group))
	}
	return out
}

// Qualifies applies the acceptance rules to measured properties. It returns
// false and the reason when the candidate is rejected.
func (d *Detector) Qualifies(bbox geometry.BoundingBox, length, radius float64) (bool, string) {
	extents := bbox.SortedExtents()
	if extents[0] > d.config.MaxDiameter || extents[1] > d.config.MaxDiameter {
		return false, "not wire-like"
	}
	if length < d.config.MinLength || length > d.config.MaxLength {
		return false, "length out of range"
	}
	if !(radius > 0 && radius <= MaxRadius) {
		return false, "radius out of range"
	}
	return true, ""
}

func (d *Detector) groups(triangles []geometry.Triangle) [][]geometry.Triangle {
	if d.config.Grouping == Connected {
		return geometry.ConnectedComponents(triangles, d.config.Tolerance)
	}
	return geometry.SingletonComponents(triangles)
}

func (d *Detector) evaluate(index int, group []geometry.Triangle) Candidate {
	c := Candidate{
		Index:       index,
		Triangles:   group,
		BoundingBox: geometry.BoundsOf(group),
	}

	c.WireLike = geometry.IsWireLike(group, d.config.MaxDiameter)
	if !c.WireLike {
		c.Reason = "not wire-like"
		return c
	}

	if d.config.Grouping == Connected {
		c.Path, c.Radius = measureConnected(group, c.BoundingBox, d.config.Tolerance)
	} else {
		c.Path = geometry.WirePath(group)
		c.Radius = geometry.WireRadius(group)
	}
	c.Length = geometry.WireLength(c.Path)

	c.Accepted, c.Reason = d.Qualifies(c.BoundingBox, c.Length, c.Radius)
	return c
}

// measureConnected treats the group as a straight round conductor along its
// longest axis.
func measureConnected(group []geometry.Triangle, bbox geometry.BoundingBox, tolerance float64) ([]geometry.Vector3, float64) {
	path := geometry.AxialPath(group, max(tolerance, geometry.DefaultSimplifyTolerance))

	points := make([]geometry.Vector3, 0, 3*len(group))
	for _, t := range group {
		points = append(points, t.V1, t.V2, t.V3)
	}
	fit, err := geometry.FitCrossSection(points, bbox.LongestAxis())
	if err != nil {
		return path, geometry.WireRadius(group)
	}
	return path, fit.Radius
}

// Wire converts an accepted candidate to a detected Wire
func (c Candidate) Wire() Wire {
	w := Wire{
		Triangles: c.Triangles,
		Path:      c.Path,
		Radius:    c.Radius,
		Length:    c.Length,
		Detected:  true,
	}
	if len(c.Path) > 0 {
		w.Start = c.Path[0]
		w.End = c.Path[len(c.Path)-1]
	}
	return w
}
