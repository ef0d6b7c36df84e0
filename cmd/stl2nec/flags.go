package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/philipparndt/stl2nec/internal/job"
)

// jobFlags are the job fields settable on the command line. A flag that was
// given overrides the job file.
type jobFlags struct {
	jobFile string

	modelName    string
	material     string
	frequency    float64
	vehicle      string
	waterline    float64
	water        string
	scaleLength  float64
	scaleAxis    string
	noAntenna    bool
	grouping     string
	maxDiameter  float64
	minLength    float64
	maxLength    float64
	nec          string
	ez           string
	scaledSTL    string
	noComments   bool
	noPattern    bool
	current      bool
	strictGround bool
	ground       string
}

func (f *jobFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.jobFile, "job", "j", "", "YAML or TOML job file")
	fs.StringVar(&f.modelName, "name", "", "Model name written to the deck header (default: source basename)")
	fs.StringVarP(&f.material, "material", "m", "", "Structure material (see 'stl2nec materials')")
	fs.Float64VarP(&f.frequency, "frequency", "f", 0, "Operating frequency in MHz")
	fs.StringVar(&f.vehicle, "vehicle", "", "Vehicle type: ship, boat, airplane, helicopter, car, land_vehicle")
	fs.Float64Var(&f.waterline, "waterline", 0, "Waterline height in meters")
	fs.StringVar(&f.water, "water", "", "Water type for ships and boats: fresh or salt")
	fs.Float64Var(&f.scaleLength, "scale", 0, "Scale the model so its extent becomes this many meters")
	fs.StringVar(&f.scaleAxis, "axis", "", "Axis measured by --scale: x, y or z (default: largest extent)")
	fs.BoolVar(&f.noAntenna, "no-antenna", false, "Skip antenna detection and write structure-only decks")
	fs.StringVar(&f.grouping, "grouping", "", "Candidate grouping: per-triangle or connected")
	fs.Float64Var(&f.maxDiameter, "max-diameter", 0, "Largest wire diameter in meters")
	fs.Float64Var(&f.minLength, "min-length", 0, "Shortest accepted antenna in meters")
	fs.Float64Var(&f.maxLength, "max-length", 0, "Longest accepted antenna in meters")
	fs.StringVar(&f.nec, "nec", "", "NEC output file (default: <source>.nec)")
	fs.StringVar(&f.ez, "ez", "", "EZ output file (default: <source>.ez)")
	fs.StringVar(&f.scaledSTL, "scaled-stl", "", "Also write the scaled mesh as binary STL")
	fs.BoolVar(&f.noComments, "no-comments", false, "Omit the CM header comments")
	fs.BoolVar(&f.noPattern, "no-pattern", false, "Omit the RP radiation pattern card")
	fs.BoolVar(&f.current, "current", false, "Add a PT current card (NEC only)")
	fs.BoolVar(&f.strictGround, "strict-ground", false, "Fail on invalid ground parameters")
	fs.StringVar(&f.ground, "ground", "", "Ground type: perfect, sommerfeld, screen, real or water")
}

// build loads the job file, if any, and applies the flags that were set.
// A positional argument replaces the job's source.
func (f *jobFlags) build(cmd *cobra.Command, args []string) (*job.Job, error) {
	j := &job.Job{}
	if f.jobFile != "" {
		loaded, err := job.Load(f.jobFile)
		if err != nil {
			return nil, err
		}
		j = loaded
	}
	if len(args) > 0 {
		j.Source = args[0]
	}
	if j.Source == "" {
		return nil, fmt.Errorf("no source file given (pass a file or --job)")
	}

	changed := cmd.Flags().Changed
	setString := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	setFloat := func(name string, dst *float64, v float64) {
		if changed(name) {
			*dst = v
		}
	}

	setString("name", &j.ModelName, f.modelName)
	setString("material", &j.Material, f.material)
	setFloat("frequency", &j.FrequencyMHz, f.frequency)
	setString("vehicle", &j.Vehicle, f.vehicle)
	setFloat("waterline", &j.WaterlineM, f.waterline)
	setString("water", &j.Water, f.water)
	setFloat("scale", &j.Scale.LengthM, f.scaleLength)
	setString("axis", &j.Scale.Axis, f.scaleAxis)
	setString("grouping", &j.Detection.Grouping, f.grouping)
	setFloat("max-diameter", &j.Detection.MaxDiameterM, f.maxDiameter)
	setFloat("min-length", &j.Detection.MinLengthM, f.minLength)
	setFloat("max-length", &j.Detection.MaxLengthM, f.maxLength)
	setString("nec", &j.Output.NEC, f.nec)
	setString("ez", &j.Output.EZ, f.ez)
	setString("scaled-stl", &j.Output.ScaledSTL, f.scaledSTL)
	setString("ground", &j.Output.Ground, f.ground)

	if changed("no-antenna") {
		enabled := !f.noAntenna
		j.Detection.Enabled = &enabled
	}
	if changed("no-comments") {
		comments := !f.noComments
		j.Output.Comments = &comments
	}
	if changed("no-pattern") {
		pattern := !f.noPattern
		j.Output.Pattern = &pattern
	}
	if changed("current") {
		j.Output.Current = f.current
	}
	if changed("strict-ground") {
		j.Output.StrictGround = f.strictGround
	}
	return j, nil
}
