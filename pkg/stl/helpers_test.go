package stl

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/philipparndt/stl2nec/pkg/geometry"
)

// binarySTL builds a binary file with a zeroed header and one record per
// triangle. Each triangle is given as nine coordinates.
func binarySTL(t *testing.T, triangles ...[9]float32) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(make([]byte, headerSize))
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(triangles))); err != nil {
		t.Fatal(err)
	}
	for _, tri := range triangles {
		rec := make([]byte, recordSize)
		for i, v := range tri {
			binary.LittleEndian.PutUint32(rec[12+4*i:], math.Float32bits(v))
		}
		buf.Write(rec)
	}
	return buf.Bytes()
}

const twoFacetASCII = `solid panel
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 1 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid panel
`

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func vecApprox(a, b geometry.Vector3) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z)
}
