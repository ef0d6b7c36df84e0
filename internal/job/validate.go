package job

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/philipparndt/stl2nec/pkg/antenna"
	"github.com/philipparndt/stl2nec/pkg/ground"
	"github.com/philipparndt/stl2nec/pkg/material"
)

// ErrInvalid marks every job validation failure
var ErrInvalid = errors.New("job: invalid")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate reports every problem with the job at once. It expects
// ApplyDefaults to have run.
func (j *Job) Validate() error {
	var errs []error

	switch ext := strings.ToLower(filepath.Ext(j.Source)); {
	case j.Source == "":
		errs = append(errs, invalid("source is required"))
	case ext != ".stl" && ext != ".scad":
		errs = append(errs, invalid("source %q must be an .stl or .scad file", j.Source))
	}

	if !(j.FrequencyMHz > 0) || math.IsInf(j.FrequencyMHz, 0) {
		errs = append(errs, invalid("frequency_mhz must be positive, got %v", j.FrequencyMHz))
	}
	if _, ok := material.Lookup(j.Material); !ok {
		errs = append(errs, invalid("unknown material %q", j.Material))
	}

	vehicle, err := material.ParseVehicle(j.Vehicle)
	if err != nil {
		errs = append(errs, invalid("%v", err))
	}
	if !(j.WaterlineM >= 0) || math.IsInf(j.WaterlineM, 0) {
		errs = append(errs, invalid("waterline_m must not be negative, got %v", j.WaterlineM))
	}
	if j.Water != "" {
		if _, ok := material.LookupWater(j.Water); !ok {
			errs = append(errs, invalid("unknown water %q (want fresh or salt)", j.Water))
		} else if err == nil && !vehicle.IsMarine() {
			errs = append(errs, invalid("water is only valid for ships and boats, vehicle is %s", vehicle))
		}
	}

	if j.Scale.LengthM != 0 && (!(j.Scale.LengthM > 0) || math.IsInf(j.Scale.LengthM, 0)) {
		errs = append(errs, invalid("scale.length_m must be positive, got %v", j.Scale.LengthM))
	}
	switch strings.ToLower(j.Scale.Axis) {
	case "", "x", "y", "z":
	default:
		errs = append(errs, invalid("scale.axis must be x, y or z, got %q", j.Scale.Axis))
	}

	if _, err := antenna.ParseGrouping(j.Detection.Grouping); err != nil {
		errs = append(errs, invalid("%v", err))
	}
	for name, v := range map[string]float64{
		"detection.max_diameter_m": j.Detection.MaxDiameterM,
		"detection.min_length_m":   j.Detection.MinLengthM,
		"detection.max_length_m":   j.Detection.MaxLengthM,
	} {
		if v < 0 || math.IsNaN(v) {
			errs = append(errs, invalid("%s must not be negative, got %v", name, v))
		}
	}
	// unset bounds fall back to the detector defaults, so compare what resolves
	minLen, maxLen := j.Detection.MinLengthM, j.Detection.MaxLengthM
	if minLen <= 0 {
		minLen = antenna.DefaultMinLength
	}
	if maxLen <= 0 {
		maxLen = antenna.DefaultMaxLength
	}
	if minLen > maxLen {
		errs = append(errs, invalid("detection.min_length_m %v exceeds max_length_m %v", minLen, maxLen))
	}

	if _, err := ground.ParseType(j.Output.Ground); err != nil {
		errs = append(errs, invalid("%v", err))
	}
	errs = append(errs, j.validateOutputs()...)

	return errors.Join(errs...)
}

func (j *Job) validateOutputs() []error {
	var errs []error
	if j.Output.NEC == "" {
		errs = append(errs, invalid("output.nec is required"))
	}
	if j.Output.EZ == "" {
		errs = append(errs, invalid("output.ez is required"))
	}

	seen := map[string]string{}
	if j.Source != "" {
		seen[filepath.Clean(j.Source)] = "source"
	}
	for _, out := range []struct{ key, path string }{
		{"output.nec", j.Output.NEC},
		{"output.ez", j.Output.EZ},
		{"output.scaled_stl", j.Output.ScaledSTL},
	} {
		if out.path == "" {
			continue
		}
		p := filepath.Clean(out.path)
		if other, ok := seen[p]; ok {
			errs = append(errs, invalid("%s and %s both name %s", other, out.key, out.path))
			continue
		}
		seen[p] = out.key
	}
	return errs
}
