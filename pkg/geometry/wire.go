package geometry

import "sort"

const (
	// DefaultMaxDiameter is the thickness below which a group counts as a wire (1 cm).
	DefaultMaxDiameter = 0.01

	// DefaultSimplifyTolerance is the minimum spacing kept between path points.
	DefaultSimplifyTolerance = 1e-3

	// DefaultCoincidenceTolerance is the distance under which two vertices are the same.
	DefaultCoincidenceTolerance = 1e-6
)

// IsWireLike reports whether the group is thin in two axes: the two smallest
// bounding-box extents must both be at most maxDiameter. It says nothing
// about the topology of the group.
func IsWireLike(group []Triangle, maxDiameter float64) bool {
	if len(group) == 0 {
		return false
	}
	extents := BoundsOf(group).SortedExtents()
	return extents[0] <= maxDiameter && extents[1] <= maxDiameter
}

// AspectRatio returns the largest extent divided by the smallest, or 0 when
// the smallest extent is zero.
func AspectRatio(group []Triangle) float64 {
	extents := BoundsOf(group).SortedExtents()
	if extents[0] == 0 {
		return 0
	}
	return extents[2] / extents[0]
}

// CentroidPath returns one point per triangle, its centroid, in mesh order.
func CentroidPath(group []Triangle) []Vector3 {
	path := make([]Vector3, 0, len(group))
	for _, t := range group {
		path = append(path, t.Center())
	}
	return path
}

// Endpoints returns the vertices that occur in exactly one triangle of the
// group, in ascending point order. No connectivity walk is done between
// them.
func Endpoints(group []Triangle) []Vector3 {
	counts := make(map[Vector3]int)
	for _, t := range group {
		for _, v := range t.Vertices() {
			counts[v]++
		}
	}

	var endpoints []Vector3
	for v, n := range counts {
		if n == 1 {
			endpoints = append(endpoints, v)
		}
	}
	sort.Slice(endpoints, func(i, j int) bool {
		return endpoints[i].Less(endpoints[j])
	})
	return endpoints
}

// WirePath extracts a path from the group. With two or more endpoints the
// sorted endpoint set is the path; otherwise the centroid path is used. The
// result is simplified with DefaultSimplifyTolerance.
func WirePath(group []Triangle) []Vector3 {
	path := Endpoints(group)
	if len(path) < 2 {
		path = CentroidPath(group)
	}
	return Simplify(path, DefaultSimplifyTolerance)
}

// AxialPath projects every vertex onto the line through the bounding-box
// center parallel to the longest axis, orders the projections along that
// axis and simplifies the result. It assumes a straight wire.
func AxialPath(group []Triangle, tolerance float64) []Vector3 {
	if len(group) == 0 {
		return nil
	}
	bbox := BoundsOf(group)
	axis := bbox.LongestAxis()
	center := bbox.Center()

	path := make([]Vector3, 0, 3*len(group))
	for _, t := range group {
		for _, v := range t.Vertices() {
			p := center
			switch axis {
			case 0:
				p.X = v.X
			case 1:
				p.Y = v.Y
			default:
				p.Z = v.Z
			}
			path = append(path, p)
		}
	}
	sort.SliceStable(path, func(i, j int) bool {
		return path[i].Axis(axis) < path[j].Axis(axis)
	})
	return Simplify(path, tolerance)
}

// Simplify keeps the first and last point, and any intermediate point that is
// farther than tolerance from the last point kept.
func Simplify(path []Vector3, tolerance float64) []Vector3 {
	if len(path) <= 2 {
		return append([]Vector3(nil), path...)
	}

	simplified := []Vector3{path[0]}
	for _, p := range path[1 : len(path)-1] {
		if p.Distance(simplified[len(simplified)-1]) > tolerance {
			simplified = append(simplified, p)
		}
	}
	return append(simplified, path[len(path)-1])
}

// WireLength sums the distances between consecutive path points
func WireLength(path []Vector3) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i-1].Distance(path[i])
	}
	return total
}

// WireRadius returns the mean distance from the centroid of all vertices of
// the group to each vertex.
func WireRadius(group []Triangle) float64 {
	if len(group) == 0 {
		return 0
	}

	var center Vector3
	for _, t := range group {
		center = center.Add(t.V1).Add(t.V2).Add(t.V3)
	}
	count := float64(3 * len(group))
	center = center.Mul(1.0 / count)

	total := 0.0
	for _, t := range group {
		for _, v := range t.Vertices() {
			total += center.Distance(v)
		}
	}
	return total / count
}

// Interpolate subdivides each consecutive pair of points into segments equal
// steps. The original points are all preserved.
func Interpolate(path []Vector3, segments int) []Vector3 {
	if len(path) < 2 || segments < 1 {
		return append([]Vector3(nil), path...)
	}

	out := make([]Vector3, 0, (len(path)-1)*segments+1)
	for i := 0; i < len(path)-1; i++ {
		start, step := path[i], path[i+1].Sub(path[i]).Mul(1.0/float64(segments))
		for k := 0; k < segments; k++ {
			out = append(out, start.Add(step.Mul(float64(k))))
		}
	}
	return append(out, path[len(path)-1])
}

// Coincident reports whether two points are closer than tolerance
func Coincident(p1, p2 Vector3, tolerance float64) bool {
	return p1.Distance(p2) < tolerance
}
