package geometry

import (
	"fmt"
	"math"
)

// CircleFit represents the result of fitting a circle to points
type CircleFit struct {
	Center Vector3 // Circle center in 3D
	Radius float64 // Circle radius
	Normal Vector3 // Normal vector of the plane containing the circle
	StdDev float64 // Standard deviation of fit (quality measure)
}

// FitCrossSection fits a circle to the cross-section of a wire running along
// axis (0=X, 1=Y, 2=Z). Points are projected onto the plane perpendicular to
// the axis; the center is the centroid of the projections and the radius is
// their mean distance from it. The center's axis coordinate is the mean of
// the points' axis coordinates.
func FitCrossSection(points []Vector3, axis int) (*CircleFit, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("need at least 3 points to fit a circle")
	}

	if axis < 0 || axis > 2 {
		return nil, fmt.Errorf("invalid axis: %d (must be 0, 1, or 2)", axis)
	}

	var normal Vector3
	switch axis {
	case 0:
		normal = NewVector3(1, 0, 0)
	case 1:
		normal = NewVector3(0, 1, 0)
	case 2:
		normal = NewVector3(0, 0, 1)
	}

	points2D := make([][2]float64, len(points))
	var cu, cv, along float64
	for i, p := range points {
		switch axis {
		case 0:
			points2D[i] = [2]float64{p.Y, p.Z}
		case 1:
			points2D[i] = [2]float64{p.X, p.Z}
		case 2:
			points2D[i] = [2]float64{p.X, p.Y}
		}
		cu += points2D[i][0]
		cv += points2D[i][1]
		along += p.Axis(axis)
	}
	n := float64(len(points))
	cu, cv, along = cu/n, cv/n, along/n

	var radius float64
	dists := make([]float64, len(points2D))
	for i, p := range points2D {
		dists[i] = math.Hypot(p[0]-cu, p[1]-cv)
		radius += dists[i]
	}
	radius /= n
	if radius == 0 {
		return nil, fmt.Errorf("points are collinear with the axis")
	}

	var sumError float64
	for _, d := range dists {
		sumError += (d - radius) * (d - radius)
	}

	var center Vector3
	switch axis {
	case 0:
		center = NewVector3(along, cu, cv)
	case 1:
		center = NewVector3(cu, along, cv)
	case 2:
		center = NewVector3(cu, cv, along)
	}

	return &CircleFit{
		Center: center,
		Radius: radius,
		Normal: normal,
		StdDev: math.Sqrt(sumError / n),
	}, nil
}
