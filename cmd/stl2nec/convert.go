package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/philipparndt/stl2nec/internal/convert"
	"github.com/philipparndt/stl2nec/internal/job"
	"github.com/philipparndt/stl2nec/internal/logging"
	"github.com/philipparndt/stl2nec/internal/observability"
)

var convertFlags jobFlags

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert an STL or OpenSCAD model into NEC and EZ decks",
	Long: `Decode the model, optionally scale it, detect the antenna and write one NEC
and one EZ deck. Settings come from --job and are overridden by flags.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertFlags.register(convertCmd.Flags())
}

func runConvert(cmd *cobra.Command, args []string) error {
	j, err := convertFlags.build(cmd, args)
	if err != nil {
		return err
	}
	settings, err := j.Resolve()
	if err != nil {
		return err
	}

	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return err
	}
	ctx, log := logging.WithRunLogger(cmd.Context(), logger)
	conv := convert.New(convert.WithLogger(log), convert.WithMetrics(metrics))

	res, err := conv.Run(ctx, settings)
	if res != nil {
		printResult(cmd.OutOrStdout(), settings, res)
	}
	return err
}

func printResult(w io.Writer, s *job.Settings, res *convert.Result) {
	fmt.Fprintf(w, "Model: %s (%d triangles)\n", s.Encoder.ModelName, res.Mesh.TriangleCount())
	if res.Scaled {
		fmt.Fprintf(w, "Scale factor: %.6f\n", res.Mesh.ScaleFactor())
	}
	fmt.Fprintf(w, "Frequency: %.4f MHz (%s), wavelength %.2f cm\n",
		s.Frequency.MHz(), s.Frequency.Band().Description(), s.Frequency.WavelengthCm())

	switch res.Detection {
	case convert.Detected:
		fmt.Fprintf(w, "Antenna: length %.4f m, radius %.4f m, %d triangle(s)\n",
			res.Wire.Length, res.Wire.Radius, len(res.Wire.Triangles))
	case convert.Disabled:
		fmt.Fprintln(w, "Antenna: detection disabled, structure only")
	default:
		fmt.Fprintln(w, "Antenna: none detected, structure only")
	}

	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	for _, path := range res.Written {
		fmt.Fprintf(w, "Wrote %s\n", path)
	}
}
