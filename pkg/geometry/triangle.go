package geometry

// Triangle represents a triangular facet in 3D space. The normal is always
// derived from the vertices; any normal stored in a source file is ignored.
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a triangle and computes its unit normal
func NewTriangle(v1, v2, v3 Vector3) Triangle {
	t := Triangle{V1: v1, V2: v2, V3: v3}
	t.Normal = t.CalculateNormal()
	return t
}

// CalculateNormal computes the unit normal of the triangle. Degenerate
// triangles yield the zero vector.
func (t Triangle) CalculateNormal() Vector3 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	return edge1.Cross(edge2).Normalize()
}

// Vertices returns the three corners in file order
func (t Triangle) Vertices() [3]Vector3 {
	return [3]Vector3{t.V1, t.V2, t.V3}
}

// Scaled returns a copy with every coordinate multiplied by factor and the
// normal recomputed.
func (t Triangle) Scaled(factor float64) Triangle {
	return NewTriangle(t.V1.Mul(factor), t.V2.Mul(factor), t.V3.Mul(factor))
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	cross := edge1.Cross(edge2)
	return cross.Length() / 2.0
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// LongestEdge returns the endpoints of the longest edge. Ties keep the
// earlier edge (V1-V2, then V2-V3, then V3-V1).
func (t Triangle) LongestEdge() (Vector3, Vector3) {
	lengths := t.EdgeLengths()
	edges := [3][2]Vector3{{t.V1, t.V2}, {t.V2, t.V3}, {t.V3, t.V1}}
	best := 0
	for i := 1; i < 3; i++ {
		if lengths[i] > lengths[best] {
			best = i
		}
	}
	return edges[best][0], edges[best][1]
}

// Perimeter returns the total length of all edges
func (t Triangle) Perimeter() float64 {
	lengths := t.EdgeLengths()
	return lengths[0] + lengths[1] + lengths[2]
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	return Vector3{
		X: (t.V1.X + t.V2.X + t.V3.X) / 3.0,
		Y: (t.V1.Y + t.V2.Y + t.V3.Y) / 3.0,
		Z: (t.V1.Z + t.V2.Z + t.V3.Z) / 3.0,
	}
}
