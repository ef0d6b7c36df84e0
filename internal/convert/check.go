package convert

import (
	"fmt"

	"github.com/philipparndt/stl2nec/pkg/stl"
)

// Check returns warnings about a decoded mesh that will still convert but
// probably not as intended.
func Check(mesh *stl.Mesh) []string {
	if mesh == nil || mesh.TriangleCount() == 0 {
		return []string{"mesh has no triangles"}
	}

	var warnings []string
	nonFinite, degenerate := 0, 0
	for _, t := range mesh.Triangles {
		if !t.V1.IsFinite() || !t.V2.IsFinite() || !t.V3.IsFinite() {
			nonFinite++
			continue
		}
		if t.Area() == 0 {
			degenerate++
		}
	}
	if nonFinite > 0 {
		warnings = append(warnings, fmt.Sprintf("%d triangle(s) have non-finite coordinates", nonFinite))
	}
	if degenerate > 0 {
		warnings = append(warnings, fmt.Sprintf("%d degenerate triangle(s) with zero area", degenerate))
	}

	bbox := mesh.BoundingBox()
	if bbox.IsEmpty() {
		warnings = append(warnings, "bounding box is empty")
	} else {
		ext := bbox.SortedExtents()
		if ext[2] == 0 {
			warnings = append(warnings, "mesh has zero size")
		} else if ext[1] == 0 {
			warnings = append(warnings, "mesh is degenerate in two dimensions")
		}
	}
	return warnings
}
