package stl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/philipparndt/stl2nec/pkg/geometry"
)

// ErrAxis is returned when a scale axis is not one of x, y or z.
var ErrAxis = errors.New("stl: unknown axis")

// Mesh is a decoded STL model. Triangles keep file order. The only mutation
// after decoding is uniform scaling, which rewrites every vertex.
type Mesh struct {
	Name      string
	Triangles []geometry.Triangle

	scaleFactor float64
	original    geometry.BoundingBox
}

// NewMesh creates a mesh from triangles and records its bounding box as the
// original, pre-scale bounds.
func NewMesh(name string, triangles []geometry.Triangle) *Mesh {
	m := &Mesh{
		Name:        name,
		Triangles:   triangles,
		scaleFactor: 1.0,
	}
	m.original = m.BoundingBox()
	return m
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox calculates the bounding box of the entire mesh
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	return geometry.BoundsOf(m.Triangles)
}

// OriginalBoundingBox returns the bounds as decoded, before any scaling
func (m *Mesh) OriginalBoundingBox() geometry.BoundingBox {
	return m.original
}

// ScaleFactor returns the factor applied by the last successful scale, or 1.
func (m *Mesh) ScaleFactor() float64 {
	return m.scaleFactor
}

// SurfaceArea calculates the total surface area of the mesh
func (m *Mesh) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}

// ScaleToLength scales the mesh uniformly so that its largest bounding-box
// dimension becomes target. A mesh with zero extent is left untouched and
// false is returned.
func (m *Mesh) ScaleToLength(target float64) (bool, error) {
	return m.scaleTo(target, m.BoundingBox().MaxExtent())
}

// ScaleToAxis scales the mesh uniformly so that its extent along axis
// ("x", "y" or "z", case-insensitive) becomes target.
func (m *Mesh) ScaleToAxis(target float64, axis string) (bool, error) {
	size := m.BoundingBox().Size()

	var current float64
	switch strings.ToLower(axis) {
	case "x":
		current = size.X
	case "y":
		current = size.Y
	case "z":
		current = size.Z
	default:
		return false, fmt.Errorf("%w: %q", ErrAxis, axis)
	}
	return m.scaleTo(target, current)
}

func (m *Mesh) scaleTo(target, current float64) (bool, error) {
	if target <= 0 {
		return false, fmt.Errorf("stl: scale target must be positive, got %v", target)
	}
	if len(m.Triangles) == 0 || current <= 0 {
		return false, nil
	}

	m.scaleFactor = target / current
	m.apply(m.scaleFactor)
	return true, nil
}

func (m *Mesh) apply(factor float64) {
	if factor == 1.0 {
		return
	}
	for i, t := range m.Triangles {
		m.Triangles[i] = t.Scaled(factor)
	}
}
