package geometry

import "sort"

// BoundingBox represents an axis-aligned bounding box.
//
// The zero value is the "empty" box: the first point passed to Expand
// replaces both corners. A box that legitimately spans only the origin is
// therefore indistinguishable from an empty one, and a later point resets it.
// Callers that accumulate points rely on this, so it is kept as is.
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// IsEmpty reports whether the box is the all-zero sentinel
func (b BoundingBox) IsEmpty() bool {
	return b.Min == (Vector3{}) && b.Max == (Vector3{})
}

// Expand grows the bounding box to include a point
func (b *BoundingBox) Expand(point Vector3) {
	if b.IsEmpty() {
		b.Min = point
		b.Max = point
		return
	}
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// BoundsOf accumulates the bounding box of every vertex in triangles
func BoundsOf(triangles []Triangle) BoundingBox {
	var bbox BoundingBox
	for _, t := range triangles {
		bbox.Expand(t.V1)
		bbox.Expand(t.V2)
		bbox.Expand(t.V3)
	}
	return bbox
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// SortedExtents returns the three dimensions in ascending order
func (b BoundingBox) SortedExtents() [3]float64 {
	size := b.Size()
	extents := []float64{size.X, size.Y, size.Z}
	sort.Float64s(extents)
	return [3]float64{extents[0], extents[1], extents[2]}
}

// LongestAxis returns 0, 1 or 2 for the axis with the largest extent.
// Ties prefer the lower axis.
func (b BoundingBox) LongestAxis() int {
	size := b.Size()
	axis := 0
	for i := 1; i < 3; i++ {
		if size.Axis(i) > size.Axis(axis) {
			axis = i
		}
	}
	return axis
}

// MaxExtent returns the largest of the three dimensions
func (b BoundingBox) MaxExtent() float64 {
	return b.SortedExtents()[2]
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return Vector3{
		X: (b.Min.X + b.Max.X) / 2.0,
		Y: (b.Min.Y + b.Max.Y) / 2.0,
		Z: (b.Min.Z + b.Max.Z) / 2.0,
	}
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	size := b.Size()
	return size.Length()
}

// Volume returns the volume of the bounding box
func (b BoundingBox) Volume() float64 {
	size := b.Size()
	return size.X * size.Y * size.Z
}
