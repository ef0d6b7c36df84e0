package job

import (
	"fmt"
	"strings"

	"github.com/philipparndt/stl2nec/pkg/antenna"
	"github.com/philipparndt/stl2nec/pkg/encoder"
	"github.com/philipparndt/stl2nec/pkg/frequency"
	"github.com/philipparndt/stl2nec/pkg/ground"
	"github.com/philipparndt/stl2nec/pkg/material"
)

// Settings is a validated job turned into the values the pipeline consumes
type Settings struct {
	Source    string
	Material  *material.Properties
	Water     *material.Water
	Vehicle   material.Vehicle
	Frequency *frequency.Model
	ScaleTo   float64
	ScaleAxis string
	Detection antenna.Config
	Encoder   encoder.Options
	NECPath   string
	EZPath    string
	ScaledSTL string
}

// Resolve applies defaults, validates the job and resolves every catalog
// reference.
func (j *Job) Resolve() (*Settings, error) {
	j.ApplyDefaults()
	if err := j.Validate(); err != nil {
		return nil, err
	}

	mat, _ := material.Lookup(j.Material)
	vehicle, _ := material.ParseVehicle(j.Vehicle)
	grouping, _ := antenna.ParseGrouping(j.Detection.Grouping)
	groundType, _ := ground.ParseType(j.Output.Ground)

	freq, err := frequency.New(j.FrequencyMHz)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var water *material.Water
	if j.Water != "" {
		water, _ = material.LookupWater(j.Water)
	}

	detection := antenna.DefaultConfig()
	detection.Grouping = grouping
	if j.Detection.MaxDiameterM > 0 {
		detection.MaxDiameter = j.Detection.MaxDiameterM
	}
	if j.Detection.MinLengthM > 0 {
		detection.MinLength = j.Detection.MinLengthM
	}
	if j.Detection.MaxLengthM > 0 {
		detection.MaxLength = j.Detection.MaxLengthM
	}

	opts := encoder.DefaultOptions()
	opts.ModelName = j.ModelName
	opts.AntennaEnabled = *j.Detection.Enabled
	opts.Comments = *j.Output.Comments
	opts.Pattern = *j.Output.Pattern
	opts.Current = j.Output.Current
	opts.StrictGround = j.Output.StrictGround
	opts.Ground = ground.Defaults(groundType)
	opts.Waterline = j.WaterlineM
	opts.Water = water

	return &Settings{
		Source:    j.Source,
		Material:  mat,
		Water:     water,
		Vehicle:   vehicle,
		Frequency: freq,
		ScaleTo:   j.Scale.LengthM,
		ScaleAxis: strings.ToLower(j.Scale.Axis),
		Detection: detection,
		Encoder:   opts,
		NECPath:   j.Output.NEC,
		EZPath:    j.Output.EZ,
		ScaledSTL: j.Output.ScaledSTL,
	}, nil
}
