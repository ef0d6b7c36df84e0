// Package encoder turns a mesh, its detected antenna and the electrical
// parameters into NEC or EZ decks.
package encoder

import (
	"errors"
	"fmt"
	"math"

	"github.com/philipparndt/stl2nec/pkg/antenna"
	"github.com/philipparndt/stl2nec/pkg/deck"
	"github.com/philipparndt/stl2nec/pkg/frequency"
	"github.com/philipparndt/stl2nec/pkg/geometry"
	"github.com/philipparndt/stl2nec/pkg/ground"
	"github.com/philipparndt/stl2nec/pkg/material"
	"github.com/philipparndt/stl2nec/pkg/stl"
)

const (
	// DefaultStructureRadius is the radius of structure wires, about AWG 12
	DefaultStructureRadius = 0.001
	// StructureSpacing is the segment length used without a frequency model
	StructureSpacing = 0.05
	// DefaultModelName is used when the options carry no name
	DefaultModelName = "STL Model"
)

// ErrGround is returned in strict mode when the ground parameters are invalid
var ErrGround = errors.New("encoder: invalid ground")

// Options controls deck generation
type Options struct {
	ModelName       string
	AntennaEnabled  bool
	Comments        bool
	Pattern         bool
	Current         bool
	StructureRadius float64
	// Ground is used unless water or a waterline is set
	Ground ground.Parameters
	// StrictGround fails generation on invalid ground parameters instead of
	// emitting a comment card
	StrictGround bool
	Waterline    float64
	Water        *material.Water
}

// DefaultOptions enables the antenna, comments and the pattern card over a
// perfect ground.
func DefaultOptions() Options {
	return Options{
		ModelName:       DefaultModelName,
		AntennaEnabled:  true,
		Comments:        true,
		Pattern:         true,
		StructureRadius: DefaultStructureRadius,
		Ground:          ground.Defaults(ground.Perfect),
	}
}

// Encoder generates decks of one dialect. It keeps no state between calls.
type Encoder struct {
	dialect deck.Dialect
	opts    Options
}

// New creates an encoder
func New(d deck.Dialect, opts Options) *Encoder {
	if opts.ModelName == "" {
		opts.ModelName = DefaultModelName
	}
	if !(opts.StructureRadius > 0) {
		opts.StructureRadius = DefaultStructureRadius
	}
	if opts.Ground.Description == "" {
		opts.Ground.Description = opts.Ground.Type.Description()
	}
	return &Encoder{dialect: d, opts: opts}
}

// Dialect returns the dialect this encoder writes
func (e *Encoder) Dialect() deck.Dialect {
	return e.dialect
}

// GroundParameters returns the ground that will be emitted: water ground
// when water or a waterline is given, the configured ground otherwise.
func (e *Encoder) GroundParameters() ground.Parameters {
	if e.opts.Water != nil || e.opts.Waterline > 0 {
		return ground.ForWater(e.opts.Water)
	}
	return e.opts.Ground
}

// Generate builds the full deck. The antenna is emitted as wire 1 and
// excited at its middle segment when it is enabled and detected.
func (e *Encoder) Generate(mesh *stl.Mesh, mat *material.Properties, freq *frequency.Model, wire antenna.Wire) (*deck.Deck, error) {
	return e.generate(mesh, mat, freq, wire, false, e.spacing(freq))
}

// GenerateStructureOnly builds a deck with structure wires only, segmented
// at StructureSpacing. freq may be nil, in which case no FR card is written.
func (e *Encoder) GenerateStructureOnly(mesh *stl.Mesh, mat *material.Properties, freq *frequency.Model) (*deck.Deck, error) {
	return e.generate(mesh, mat, freq, antenna.Wire{}, true, StructureSpacing)
}

func (e *Encoder) spacing(freq *frequency.Model) float64 {
	if freq != nil {
		return freq.RecommendedSpacing()
	}
	return frequency.RecommendedSpacing
}

func (e *Encoder) generate(mesh *stl.Mesh, mat *material.Properties, freq *frequency.Model,
	wire antenna.Wire, structureOnly bool, spacing float64) (*deck.Deck, error) {
	if mesh == nil {
		return nil, fmt.Errorf("encoder: no mesh")
	}

	gnd := e.GroundParameters()
	if e.opts.StrictGround {
		if err := gnd.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGround, err)
		}
	}

	d := deck.New(e.dialect)
	withAntenna := !structureOnly && e.opts.AntennaEnabled && wire.Detected
	antennaSegments := 0
	if withAntenna {
		antennaSegments = frequency.Segments(wire.Length, spacing)
	}

	if e.opts.Comments {
		d.Add(e.header(mesh, mat, freq, wire, structureOnly, antennaSegments, gnd)...)
	}
	d.Add(deck.CommentEnd(e.opts.ModelName))

	tag := 1
	if withAntenna {
		d.Add(e.dialect.Wire(tag, antennaSegments, wire.Start, wire.End, wire.Radius))
		tag++
	}
	for _, t := range mesh.Triangles {
		d.Add(e.structureWire(tag, t, spacing))
		tag++
	}

	d.Add(deck.GeometryEnd(gnd.HasGroundPlane()))

	if mat != nil && mat.Conductivity > 0 && !math.IsInf(mat.Conductivity, 0) {
		d.Add(e.dialect.ConductivityLoad(mat.Conductivity))
	}
	if withAntenna {
		d.Add(deck.Excitation(1, (antennaSegments+1)/2))
	}

	d.Add(gnd.Cards(e.dialect)...)

	if freq.IsSet() {
		d.Add(deck.Frequency(freq.MHz()))
	}
	if e.opts.Current && e.dialect.SupportsCurrent() {
		d.Add(deck.Current())
	}
	if e.opts.Pattern {
		d.Add(deck.Pattern())
	}
	d.Add(deck.End())
	return d, nil
}

// structureWire represents a triangle by its longest edge
func (e *Encoder) structureWire(tag int, t geometry.Triangle, spacing float64) deck.Card {
	a, b := t.LongestEdge()
	segments := frequency.Segments(a.Distance(b), spacing)
	return e.dialect.Wire(tag, segments, a, b, e.opts.StructureRadius)
}
