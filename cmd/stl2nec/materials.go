package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stl2nec/pkg/ground"
	"github.com/philipparndt/stl2nec/pkg/material"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "List the material, water and ground catalogs",
	Args:  cobra.NoArgs,
	Run:   runMaterials,
}

func init() {
	rootCmd.AddCommand(materialsCmd)
}

func runMaterials(cmd *cobra.Command, args []string) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Materials:")
	fmt.Fprintln(tw, "  #\tName\tConductivity (S/m)\tPermittivity\tDescription")
	for i, m := range material.All() {
		fmt.Fprintf(tw, "  %d\t%s\t%.2e\t%.1f\t%s\n", i+1, m.Name, m.Conductivity, m.Permittivity, m.Description)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Water:")
	for _, w := range material.Waters() {
		fmt.Fprintf(tw, "  \t%s\t%.2e\t%.1f\t%s\n", w.Name, w.Conductivity, w.Permittivity, w.Description)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Ground types:")
	for _, t := range []ground.Type{ground.Perfect, ground.SommerfeldNorton, ground.FiniteGroundScreen, ground.RealGround, ground.WaterGround} {
		fmt.Fprintf(tw, "  \t%s\t\t\t%s\n", t, t.Description())
	}

	fmt.Fprintln(tw)
	fmt.Fprint(tw, "Vehicles:")
	for _, v := range material.Vehicles() {
		fmt.Fprintf(tw, " %s", v)
	}
	fmt.Fprintln(tw)
	_ = tw.Flush()
}
