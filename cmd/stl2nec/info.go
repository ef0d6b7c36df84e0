package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stl2nec/internal/convert"
	"github.com/philipparndt/stl2nec/pkg/analysis"
	"github.com/philipparndt/stl2nec/pkg/antenna"
	"github.com/philipparndt/stl2nec/pkg/stl"
)

var (
	infoStream      bool
	infoGrouping    string
	infoMaxDiameter float64
	infoCandidates  int
	infoEdges       int
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display mesh statistics and antenna candidates",
	Long: `Show triangle count, bounding box, surface area and edge statistics of a
model, followed by the wire-like candidates the antenna detector evaluates.
With --stream only the statistics are computed, without loading the mesh.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&infoStream, "stream", false, "Stream the file in chunks and print statistics only")
	infoCmd.Flags().StringVar(&infoGrouping, "grouping", "per-triangle", "Candidate grouping: per-triangle or connected")
	infoCmd.Flags().Float64Var(&infoMaxDiameter, "max-diameter", 0, "Largest wire diameter in meters (default 0.01)")
	infoCmd.Flags().IntVarP(&infoCandidates, "candidates", "n", 10, "Number of wire-like candidates to list (0 for all)")
	infoCmd.Flags().IntVar(&infoEdges, "edges", 0, "Also list this many of the longest edges")
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]
	out := cmd.OutOrStdout()

	if infoStream {
		return streamInfo(out, filename)
	}

	grouping, err := antenna.ParseGrouping(infoGrouping)
	if err != nil {
		return err
	}

	mesh, err := convert.New(convert.WithLogger(logger)).Load(cmd.Context(), filename)
	if err != nil {
		return err
	}

	result := analysis.AnalyzeModel(mesh)
	printModel(out, filename, result)

	if infoEdges > 0 {
		fmt.Fprintf(out, "Longest Edges:\n")
		for i, edge := range analysis.FindLongestEdges(result, infoEdges) {
			fmt.Fprintf(out, "  %-4d %-35s %-35s %s\n", i+1,
				analysis.FormatVector(edge.Start), analysis.FormatVector(edge.End),
				analysis.FormatMeasurement(edge.Length, "m"))
		}
		fmt.Fprintln(out)
	}

	cfg := antenna.DefaultConfig()
	cfg.Grouping = grouping
	cfg.MaxDiameter = infoMaxDiameter
	printAntenna(out, analysis.AnalyzeAntenna(antenna.NewDetector(cfg), mesh, infoCandidates))
	return nil
}

func streamInfo(out io.Writer, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	stats, err := stl.ScanStats(f, stl.DefaultChunkSize)
	if err != nil {
		return err
	}

	format := "ASCII"
	if stats.Binary {
		format = "binary"
	}
	fmt.Fprintln(out, "STL File Information")
	fmt.Fprintln(out, "====================")
	if stats.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", stats.Name)
	}
	fmt.Fprintf(out, "File: %s (%s)\n\n", filename, format)
	fmt.Fprintf(out, "  Triangles: %d\n", stats.TriangleCount)
	fmt.Fprintf(out, "  Surface Area: %.6f m²\n", stats.SurfaceArea)
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(stats.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(stats.BoundingBox.Max))
	return nil
}

func printModel(out io.Writer, filename string, result *analysis.MeasurementResult) {
	fmt.Fprintln(out, "STL File Information")
	fmt.Fprintln(out, "====================")
	if result.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", result.Name)
	}
	fmt.Fprintf(out, "File: %s\n\n", filename)

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "  Edges: %d\n", result.EdgeCount)
	if result.DegenerateTriangles > 0 {
		fmt.Fprintf(out, "  Degenerate triangles: %d\n", result.DegenerateTriangles)
	}
	fmt.Fprintf(out, "  Surface Area: %.6f m²\n\n", result.SurfaceArea)

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %s\n", analysis.FormatMeasurement(result.Dimensions.X, "m"))
	fmt.Fprintf(out, "  Depth (Y): %s\n", analysis.FormatMeasurement(result.Dimensions.Y, "m"))
	fmt.Fprintf(out, "  Height (Z): %s\n", analysis.FormatMeasurement(result.Dimensions.Z, "m"))
	fmt.Fprintf(out, "  Diagonal: %s\n\n", analysis.FormatMeasurement(result.BoundingBox.Diagonal(), "m"))

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %s\n", analysis.FormatMeasurement(result.MinEdgeLength, "m"))
	fmt.Fprintf(out, "  Maximum: %s\n", analysis.FormatMeasurement(result.MaxEdgeLength, "m"))
	fmt.Fprintf(out, "  Average: %s\n\n", analysis.FormatMeasurement(result.AvgEdgeLength, "m"))
}

func printAntenna(out io.Writer, report *analysis.AntennaReport) {
	fmt.Fprintf(out, "Antenna Candidates (%s grouping):\n", report.Grouping)
	fmt.Fprintf(out, "  Groups: %d, wire-like: %d\n", report.Groups, report.WireLike)
	for _, c := range report.Candidates {
		status := "accepted"
		if !c.Accepted {
			status = c.Reason
		}
		fmt.Fprintf(out, "  #%-5d %4d tri  length %.4f m  radius %.4f m  %s\n",
			c.Index, c.Triangles, c.Length, c.Radius, status)
	}

	if report.Wire.Detected {
		fmt.Fprintf(out, "Detected antenna: %s -> %s, length %.4f m, radius %.4f m\n",
			analysis.FormatVector(report.Wire.Start), analysis.FormatVector(report.Wire.End),
			report.Wire.Length, report.Wire.Radius)
	} else {
		fmt.Fprintln(out, "Detected antenna: none")
	}
}
