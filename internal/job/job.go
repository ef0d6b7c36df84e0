// Package job loads and validates conversion jobs. A job is the complete
// input record of one conversion: source mesh, electrical parameters and
// output files.
package job

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/philipparndt/stl2nec/pkg/material"
)

// Job is the on-disk form of a conversion request
type Job struct {
	Source       string    `yaml:"source" toml:"source"`
	ModelName    string    `yaml:"model_name,omitempty" toml:"model_name"`
	Material     string    `yaml:"material,omitempty" toml:"material"`
	FrequencyMHz float64   `yaml:"frequency_mhz" toml:"frequency_mhz"`
	Vehicle      string    `yaml:"vehicle,omitempty" toml:"vehicle"`
	WaterlineM   float64   `yaml:"waterline_m,omitempty" toml:"waterline_m"`
	Water        string    `yaml:"water,omitempty" toml:"water"`
	Scale        Scale     `yaml:"scale,omitempty" toml:"scale"`
	Detection    Detection `yaml:"detection,omitempty" toml:"detection"`
	Output       Output    `yaml:"output,omitempty" toml:"output"`
}

// Scale rescales the mesh before detection. Units are meters.
type Scale struct {
	LengthM float64 `yaml:"length_m,omitempty" toml:"length_m"`
	// Axis selects x, y or z; empty scales the largest extent
	Axis string `yaml:"axis,omitempty" toml:"axis"`
}

// Detection tunes the antenna detector
type Detection struct {
	Enabled      *bool   `yaml:"enabled,omitempty" toml:"enabled"`
	Grouping     string  `yaml:"grouping,omitempty" toml:"grouping"`
	MaxDiameterM float64 `yaml:"max_diameter_m,omitempty" toml:"max_diameter_m"`
	MinLengthM   float64 `yaml:"min_length_m,omitempty" toml:"min_length_m"`
	MaxLengthM   float64 `yaml:"max_length_m,omitempty" toml:"max_length_m"`
}

// Output names the generated files and what goes into them
type Output struct {
	NEC          string `yaml:"nec,omitempty" toml:"nec"`
	EZ           string `yaml:"ez,omitempty" toml:"ez"`
	ScaledSTL    string `yaml:"scaled_stl,omitempty" toml:"scaled_stl"`
	Comments     *bool  `yaml:"comments,omitempty" toml:"comments"`
	Pattern      *bool  `yaml:"pattern,omitempty" toml:"pattern"`
	Current      bool   `yaml:"current,omitempty" toml:"current"`
	StrictGround bool   `yaml:"strict_ground,omitempty" toml:"strict_ground"`
	Ground       string `yaml:"ground,omitempty" toml:"ground"`
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) job file. Unknown keys
// are rejected. Relative paths in the job are resolved against the job
// file's directory.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job: %w", err)
	}

	var j Job
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&j); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &j)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse %s: unknown key %q", path, undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("unsupported job format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}

	j.rebase(filepath.Dir(path))
	return &j, nil
}

func (j *Job) rebase(dir string) {
	for _, p := range []*string{&j.Source, &j.Output.NEC, &j.Output.EZ, &j.Output.ScaledSTL} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// ApplyDefaults fills every unset field. Output files default to the
// source path with .nec and .ez extensions.
func (j *Job) ApplyDefaults() {
	base := strings.TrimSuffix(j.Source, filepath.Ext(j.Source))
	if j.ModelName == "" && j.Source != "" {
		j.ModelName = filepath.Base(base)
	}
	if j.Material == "" {
		j.Material = material.Default
	}
	if j.Vehicle == "" {
		j.Vehicle = "unknown"
	}
	if j.Detection.Enabled == nil {
		j.Detection.Enabled = ptr(true)
	}
	if j.Detection.Grouping == "" {
		j.Detection.Grouping = "per-triangle"
	}
	if j.Output.NEC == "" && j.Source != "" {
		j.Output.NEC = base + ".nec"
	}
	if j.Output.EZ == "" && j.Source != "" {
		j.Output.EZ = base + ".ez"
	}
	if j.Output.Comments == nil {
		j.Output.Comments = ptr(true)
	}
	if j.Output.Pattern == nil {
		j.Output.Pattern = ptr(true)
	}
	if j.Output.Ground == "" {
		j.Output.Ground = "perfect"
	}
}

func ptr[T any](v T) *T { return &v }
