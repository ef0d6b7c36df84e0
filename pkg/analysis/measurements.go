// Package analysis summarizes a mesh and its antenna candidates for
// reporting.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/stl2nec/pkg/antenna"
	"github.com/philipparndt/stl2nec/pkg/geometry"
	"github.com/philipparndt/stl2nec/pkg/stl"
)

// EdgeInfo contains information about an edge in the model
type EdgeInfo struct {
	Start      geometry.Vector3
	End        geometry.Vector3
	Length     float64
	TriangleID int
}

// MeasurementResult contains various measurements of an STL model
type MeasurementResult struct {
	Name                string
	BoundingBox         geometry.BoundingBox
	OriginalBoundingBox geometry.BoundingBox
	ScaleFactor         float64
	Dimensions          geometry.Vector3
	Volume              float64
	SurfaceArea         float64
	TriangleCount       int
	EdgeCount           int
	MinEdgeLength       float64
	MaxEdgeLength       float64
	AvgEdgeLength       float64
	DegenerateTriangles int
	AllEdges            []EdgeInfo
}

// AnalyzeModel measures the mesh and collects every triangle edge
func AnalyzeModel(mesh *stl.Mesh) *MeasurementResult {
	result := &MeasurementResult{
		Name:                mesh.Name,
		BoundingBox:         mesh.BoundingBox(),
		OriginalBoundingBox: mesh.OriginalBoundingBox(),
		ScaleFactor:         mesh.ScaleFactor(),
		SurfaceArea:         mesh.SurfaceArea(),
		TriangleCount:       mesh.TriangleCount(),
		AllEdges:            make([]EdgeInfo, 0, 3*mesh.TriangleCount()),
	}

	result.Dimensions = result.BoundingBox.Size()
	result.Volume = result.BoundingBox.Volume()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for i, triangle := range mesh.Triangles {
		if triangle.Area() == 0 {
			result.DegenerateTriangles++
		}
		edges := [3][2]geometry.Vector3{
			{triangle.V1, triangle.V2},
			{triangle.V2, triangle.V3},
			{triangle.V3, triangle.V1},
		}
		for _, edge := range edges {
			length := edge[0].Distance(edge[1])
			result.AllEdges = append(result.AllEdges, EdgeInfo{
				Start:      edge[0],
				End:        edge[1],
				Length:     length,
				TriangleID: i,
			})

			totalLength += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
		}
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *MeasurementResult, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges in the model. Equal lengths
// keep mesh order.
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	edges := append([]EdgeInfo(nil), result.AllEdges...)
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Length > edges[j].Length
	})
	return edges[:min(count, len(edges))]
}

// CandidateSummary is the report line of one wire-like candidate
type CandidateSummary struct {
	Index     int
	Triangles int
	Length    float64
	Radius    float64
	Accepted  bool
	Reason    string
}

// AntennaReport lists the wire-like candidates, at most limit of them
// (all when limit <= 0), and the wire the detector would pick.
type AntennaReport struct {
	Grouping   antenna.Grouping
	Groups     int
	WireLike   int
	Candidates []CandidateSummary
	Wire       antenna.Wire
}

// AnalyzeAntenna evaluates every candidate of the mesh with d
func AnalyzeAntenna(d *antenna.Detector, mesh *stl.Mesh, limit int) *AntennaReport {
	report := &AntennaReport{Grouping: d.Config().Grouping}
	candidates := d.Candidates(mesh)
	report.Groups = len(candidates)

	for _, c := range candidates {
		if !c.WireLike {
			continue
		}
		report.WireLike++
		if !report.Wire.Detected && c.Accepted {
			report.Wire = c.Wire()
		}
		if limit > 0 && len(report.Candidates) >= limit {
			continue
		}
		report.Candidates = append(report.Candidates, CandidateSummary{
			Index:     c.Index,
			Triangles: len(c.Triangles),
			Length:    c.Length,
			Radius:    c.Radius,
			Accepted:  c.Accepted,
			Reason:    c.Reason,
		})
	}
	return report
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "m"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
