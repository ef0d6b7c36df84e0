package geometry

import "math"

// tube builds an open cylinder along Z with n sides, two triangles per side.
func tube(n int, radius, length float64, origin Vector3) []Triangle {
	bottom := make([]Vector3, n)
	top := make([]Vector3, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		bottom[i] = origin.Add(NewVector3(radius*math.Cos(a), radius*math.Sin(a), 0))
		top[i] = bottom[i].Add(NewVector3(0, 0, length))
	}

	var tris []Triangle
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		tris = append(tris,
			NewTriangle(bottom[i], bottom[j], top[j]),
			NewTriangle(bottom[i], top[j], top[i]),
		)
	}
	return tris
}
