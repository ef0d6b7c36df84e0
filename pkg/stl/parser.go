// Package stl decodes and encodes ASCII and binary STL meshes.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/stl2nec/pkg/geometry"
)

const (
	headerSize = 80
	recordSize = 50
)

// ErrDecode matches every *DecodeError with errors.Is.
var ErrDecode = errors.New("stl: decode failed")

// DecodeError describes why a file could not be decoded. No partial mesh is
// ever returned alongside it.
type DecodeError struct {
	Format   string // "ascii" or "binary"
	Triangle int    // 0-based facet index, or -1 when not tied to a facet
	Line     int    // 1-based line for ASCII input, 0 otherwise
	Reason   string
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "stl: invalid %s file", e.Format)
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Triangle >= 0 {
		fmt.Fprintf(&b, " (facet %d)", e.Triangle)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// Is lets errors.Is(err, ErrDecode) match.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Parse reads an STL file and returns a Mesh.
// It automatically detects whether the file is ASCII or binary format
func Parse(filename string) (*Mesh, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Decode(data)
}

// DecodeReader reads r to the end and decodes it
func DecodeReader(r io.Reader) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL data: %w", err)
	}
	return Decode(data)
}

// Decode decodes STL content. The content is ASCII when it contains both
// "solid" and "facet" (case-insensitive), binary otherwise.
func Decode(data []byte) (*Mesh, error) {
	if IsASCII(data) {
		return decodeASCII(data)
	}
	return decodeBinary(data)
}

// IsASCII reports whether data looks like an ASCII STL
func IsASCII(data []byte) bool {
	lower := bytes.ToLower(data)
	return bytes.Contains(lower, []byte("solid")) && bytes.Contains(lower, []byte("facet"))
}

func decodeASCII(data []byte) (*Mesh, error) {
	r := newASCIIReader(bytes.NewReader(data))
	name, err := r.header()
	if err != nil {
		return nil, err
	}

	var triangles []geometry.Triangle
	for {
		t, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		triangles = append(triangles, t)
	}

	if len(triangles) == 0 {
		return nil, &DecodeError{Format: "ascii", Triangle: -1, Reason: "no facets found"}
	}
	return NewMesh(name, triangles), nil
}

func decodeBinary(data []byte) (*Mesh, error) {
	if len(data) < headerSize+4 {
		return nil, &DecodeError{Format: "binary", Triangle: -1,
			Reason: fmt.Sprintf("file too small: %d bytes, need at least %d", len(data), headerSize+4)}
	}

	count := binary.LittleEndian.Uint32(data[headerSize:])
	if count == 0 {
		return nil, &DecodeError{Format: "binary", Triangle: -1, Reason: "triangle count is zero"}
	}

	expected := uint64(headerSize+4) + uint64(count)*recordSize
	if uint64(len(data)) < expected {
		return nil, &DecodeError{Format: "binary", Triangle: -1,
			Reason: fmt.Sprintf("file size %d does not match %d triangles (%d bytes)", len(data), count, expected)}
	}

	triangles := make([]geometry.Triangle, count)
	offset := headerSize + 4
	for i := range triangles {
		triangles[i] = decodeRecord(data[offset : offset+recordSize])
		offset += recordSize
	}

	return NewMesh(headerName(data[:headerSize]), triangles), nil
}

// decodeRecord reads one 50-byte record. The stored normal and the attribute
// bytes are ignored; the normal is recomputed from the vertices.
func decodeRecord(rec []byte) geometry.Triangle {
	var v [3]geometry.Vector3
	for j := range v {
		const start = 3 * 4 // skip normal
		base := start + 12*j
		v[j] = geometry.NewVector3(
			float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[base:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[base+4:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[base+8:]))),
		)
	}
	return geometry.NewTriangle(v[0], v[1], v[2])
}

func headerName(header []byte) string {
	return strings.TrimSpace(string(bytes.TrimRight(header, "\x00")))
}

// asciiReader consumes facet blocks in lock-step. Any line that does not
// have the expected shape fails the whole decode.
type asciiReader struct {
	scanner *bufio.Scanner
	line    int
	facets  int
	done    bool
}

func newASCIIReader(r io.Reader) *asciiReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &asciiReader{scanner: scanner}
}

func (r *asciiReader) fail(reason string) error {
	return &DecodeError{Format: "ascii", Triangle: r.facets, Line: r.line, Reason: reason}
}

// nextFields returns the fields of the next non-blank line
func (r *asciiReader) nextFields() ([]string, error) {
	for r.scanner.Scan() {
		r.line++
		fields := strings.Fields(r.scanner.Text())
		if len(fields) > 0 {
			return fields, nil
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	return nil, io.EOF
}

// header skips the first line and returns the solid name found on it
func (r *asciiReader) header() (string, error) {
	fields, err := r.nextFields()
	if err == io.EOF {
		return "", &DecodeError{Format: "ascii", Triangle: -1, Reason: "empty file"}
	}
	if err != nil {
		return "", err
	}
	if strings.EqualFold(fields[0], "solid") {
		return strings.Join(fields[1:], " "), nil
	}
	return "", nil
}

// next returns the next facet, or io.EOF after endsolid or end of input
func (r *asciiReader) next() (geometry.Triangle, error) {
	if r.done {
		return geometry.Triangle{}, io.EOF
	}

	fields, err := r.nextFields()
	if err != nil {
		return geometry.Triangle{}, err
	}
	if strings.EqualFold(fields[0], "endsolid") {
		r.done = true
		return geometry.Triangle{}, io.EOF
	}
	if !hasKeywords(fields, "facet", "normal") || len(fields) != 5 || !allFloats(fields[2:]) {
		return geometry.Triangle{}, r.fail(fmt.Sprintf("expected \"facet normal nx ny nz\", got %q", strings.Join(fields, " ")))
	}

	if err := r.expect("outer", "loop"); err != nil {
		return geometry.Triangle{}, err
	}

	var v [3]geometry.Vector3
	for i := range v {
		fields, err := r.nextFields()
		if err == io.EOF {
			return geometry.Triangle{}, r.fail("unexpected end of file in facet")
		}
		if err != nil {
			return geometry.Triangle{}, err
		}
		if len(fields) != 4 || !strings.EqualFold(fields[0], "vertex") {
			return geometry.Triangle{}, r.fail(fmt.Sprintf("expected \"vertex x y z\", got %q", strings.Join(fields, " ")))
		}
		coords, ok := parseFloats(fields[1:])
		if !ok {
			return geometry.Triangle{}, r.fail(fmt.Sprintf("invalid vertex coordinates %q", strings.Join(fields[1:], " ")))
		}
		v[i] = geometry.NewVector3(coords[0], coords[1], coords[2])
	}

	if err := r.expect("endloop"); err != nil {
		return geometry.Triangle{}, err
	}
	if err := r.expect("endfacet"); err != nil {
		return geometry.Triangle{}, err
	}

	r.facets++
	return geometry.NewTriangle(v[0], v[1], v[2]), nil
}

func (r *asciiReader) expect(keywords ...string) error {
	want := strings.Join(keywords, " ")
	fields, err := r.nextFields()
	if err == io.EOF {
		return r.fail(fmt.Sprintf("unexpected end of file, expected %q", want))
	}
	if err != nil {
		return err
	}
	if len(fields) != len(keywords) || !hasKeywords(fields, keywords...) {
		return r.fail(fmt.Sprintf("expected %q, got %q", want, strings.Join(fields, " ")))
	}
	return nil
}

func hasKeywords(fields []string, keywords ...string) bool {
	if len(fields) < len(keywords) {
		return false
	}
	for i, k := range keywords {
		if !strings.EqualFold(fields[i], k) {
			return false
		}
	}
	return true
}

func allFloats(fields []string) bool {
	_, ok := parseFloats(fields)
	return ok
}

func parseFloats(fields []string) ([3]float64, bool) {
	var out [3]float64
	if len(fields) != 3 {
		return out, false
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return out, false
		}
		out[i] = v
	}
	return out, true
}
