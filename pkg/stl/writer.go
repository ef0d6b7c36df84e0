package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/philipparndt/stl2nec/pkg/geometry"
)

// WriteBinary encodes the mesh as binary STL. The name is stored in the
// 80-byte header, truncated if needed.
func WriteBinary(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)

	var header [headerSize + 4]byte
	copy(header[:headerSize], m.Name)
	binary.LittleEndian.PutUint32(header[headerSize:], uint32(len(m.Triangles)))
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	var rec [recordSize]byte
	for i, t := range m.Triangles {
		encodeRecord(rec[:], t)
		if _, err := bw.Write(rec[:]); err != nil {
			return fmt.Errorf("error writing triangle %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func encodeRecord(rec []byte, t geometry.Triangle) {
	values := [12]float64{
		t.Normal.X, t.Normal.Y, t.Normal.Z,
		t.V1.X, t.V1.Y, t.V1.Z,
		t.V2.X, t.V2.Y, t.V2.Z,
		t.V3.X, t.V3.Y, t.V3.Z,
	}
	for i, v := range values {
		binary.LittleEndian.PutUint32(rec[4*i:], math.Float32bits(float32(v)))
	}
	// attribute byte count
	rec[48], rec[49] = 0, 0
}

// WriteASCII encodes the mesh as ASCII STL
func WriteASCII(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "solid %s\n", m.Name)
	for _, t := range m.Triangles {
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", t.Normal.X, t.Normal.Y, t.Normal.Z)
		fmt.Fprintf(bw, "    outer loop\n")
		for _, v := range t.Vertices() {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", m.Name)

	return bw.Flush()
}
