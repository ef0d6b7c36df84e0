package geometry

import "math"

// SingletonComponents puts every triangle in its own group, in mesh order.
func SingletonComponents(triangles []Triangle) [][]Triangle {
	groups := make([][]Triangle, 0, len(triangles))
	for _, t := range triangles {
		groups = append(groups, []Triangle{t})
	}
	return groups
}

// ConnectedComponents groups triangles that share a vertex. Two vertices are
// shared when they are Coincident within tolerance; vertices are bucketed on
// a grid of cell size tolerance and each lookup checks the neighbouring cells,
// so points straddling a cell boundary still match. Coordinates beyond about
// 4.6e18 times the tolerance saturate the grid and only match by distance
// within the saturated cell. Groups are ordered by their first triangle and
// keep mesh order internally.
func ConnectedComponents(triangles []Triangle, tolerance float64) [][]Triangle {
	if len(triangles) == 0 {
		return nil
	}
	if tolerance <= 0 {
		tolerance = DefaultCoincidenceTolerance
	}

	uf := newUnionFind(len(triangles))
	grid := make(map[gridCell][]gridVertex)
	for i, t := range triangles {
		for _, v := range t.Vertices() {
			cell := cellOf(v, tolerance)
			for _, n := range cell.neighbours() {
				for _, other := range grid[n] {
					if Coincident(v, other.point, tolerance) {
						uf.union(i, other.triangle)
					}
				}
			}
			grid[cell] = append(grid[cell], gridVertex{point: v, triangle: i})
		}
	}

	index := make(map[int]int)
	var groups [][]Triangle
	for i, t := range triangles {
		root := uf.find(i)
		g, ok := index[root]
		if !ok {
			g = len(groups)
			index[root] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], t)
	}
	return groups
}

type gridCell [3]int64

type gridVertex struct {
	point    Vector3
	triangle int
}

func cellOf(v Vector3, tolerance float64) gridCell {
	return gridCell{
		cellIndex(v.X / tolerance),
		cellIndex(v.Y / tolerance),
		cellIndex(v.Z / tolerance),
	}
}

// cellIndex floors f and clamps it to the int64 range
func cellIndex(f float64) int64 {
	const limit = 1 << 62
	f = math.Floor(f)
	switch {
	case math.IsNaN(f):
		return 0
	case f > limit:
		return limit
	case f < -limit:
		return -limit
	}
	return int64(f)
}

// neighbours returns the cell and the 26 cells around it
func (c gridCell) neighbours() []gridCell {
	out := make([]gridCell, 0, 27)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				out = append(out, gridCell{c[0] + dx, c[1] + dy, c[2] + dz})
			}
		}
	}
	return out
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}
