package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/philipparndt/stl2nec/pkg/geometry"
)

// DefaultChunkSize is the number of triangles returned per chunk.
const DefaultChunkSize = 16384

// sniffSize is how much of the stream is inspected to pick a format.
const sniffSize = 1024

// ChunkReader decodes an STL stream a bounded number of triangles at a time.
// Each chunk is independent: geometry spanning chunks is never related, so
// chunks are suitable for statistics but not for antenna detection.
type ChunkReader struct {
	binary    bool
	chunkSize int
	total     int
	processed int

	br    *bufio.Reader
	ascii *asciiReader
	name  string
}

// NewChunkReader inspects the start of r to choose the format. Unlike
// Decode it only sees a prefix: the stream is ASCII when it starts with
// "solid" and the prefix also contains "facet".
func NewChunkReader(r io.Reader, chunkSize int) (*ChunkReader, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	br := bufio.NewReaderSize(r, 64*1024)
	prefix, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read STL header: %w", err)
	}

	cr := &ChunkReader{chunkSize: chunkSize, br: br, total: -1}
	lower := bytes.ToLower(bytes.TrimSpace(prefix))
	if bytes.HasPrefix(lower, []byte("solid")) && bytes.Contains(lower, []byte("facet")) {
		cr.ascii = newASCIIReader(br)
		name, err := cr.ascii.header()
		if err != nil {
			return nil, err
		}
		cr.name = name
		return cr, nil
	}

	cr.binary = true
	var header [headerSize + 4]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, &DecodeError{Format: "binary", Triangle: -1, Reason: "file too small for header"}
	}
	cr.total = int(binary.LittleEndian.Uint32(header[headerSize:]))
	if cr.total == 0 {
		return nil, &DecodeError{Format: "binary", Triangle: -1, Reason: "triangle count is zero"}
	}
	cr.name = headerName(header[:headerSize])
	return cr, nil
}

// Name returns the solid name or binary header text
func (c *ChunkReader) Name() string { return c.name }

// IsBinary reports whether the stream is binary STL
func (c *ChunkReader) IsBinary() bool { return c.binary }

// Total returns the declared triangle count, or -1 for ASCII streams
func (c *ChunkReader) Total() int { return c.total }

// Processed returns how many triangles have been returned so far
func (c *ChunkReader) Processed() int { return c.processed }

// Progress returns the processed fraction for binary streams, or 0 when the
// total is unknown.
func (c *ChunkReader) Progress() float64 {
	if c.total <= 0 {
		return 0
	}
	return float64(c.processed) / float64(c.total)
}

// Next returns the next chunk, or io.EOF once the stream is exhausted.
func (c *ChunkReader) Next() ([]geometry.Triangle, error) {
	if c.binary {
		return c.nextBinary()
	}
	return c.nextASCII()
}

func (c *ChunkReader) nextBinary() ([]geometry.Triangle, error) {
	remaining := c.total - c.processed
	if remaining <= 0 {
		return nil, io.EOF
	}
	n := min(remaining, c.chunkSize)

	chunk := make([]geometry.Triangle, 0, n)
	var rec [recordSize]byte
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(c.br, rec[:]); err != nil {
			return nil, &DecodeError{Format: "binary", Triangle: c.processed,
				Reason: fmt.Sprintf("truncated record: %v", err)}
		}
		chunk = append(chunk, decodeRecord(rec[:]))
		c.processed++
	}
	return chunk, nil
}

func (c *ChunkReader) nextASCII() ([]geometry.Triangle, error) {
	var chunk []geometry.Triangle
	for len(chunk) < c.chunkSize {
		t, err := c.ascii.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		chunk = append(chunk, t)
		c.processed++
	}
	if len(chunk) == 0 {
		if c.processed == 0 {
			return nil, &DecodeError{Format: "ascii", Triangle: -1, Reason: "no facets found"}
		}
		return nil, io.EOF
	}
	return chunk, nil
}

// Stats summarizes a mesh without holding all of it in memory
type Stats struct {
	Name          string
	Binary        bool
	TriangleCount int
	BoundingBox   geometry.BoundingBox
	SurfaceArea   float64
}

// ScanStats streams r chunk by chunk and accumulates Stats
func ScanStats(r io.Reader, chunkSize int) (Stats, error) {
	cr, err := NewChunkReader(r, chunkSize)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Name: cr.Name(), Binary: cr.IsBinary()}
	for {
		chunk, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Stats{}, err
		}
		for _, t := range chunk {
			stats.BoundingBox.Expand(t.V1)
			stats.BoundingBox.Expand(t.V2)
			stats.BoundingBox.Expand(t.V3)
			stats.SurfaceArea += t.Area()
		}
		stats.TriangleCount += len(chunk)
	}
	return stats, nil
}
