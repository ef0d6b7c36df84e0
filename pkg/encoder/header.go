package encoder

import (
	"github.com/philipparndt/stl2nec/pkg/antenna"
	"github.com/philipparndt/stl2nec/pkg/deck"
	"github.com/philipparndt/stl2nec/pkg/frequency"
	"github.com/philipparndt/stl2nec/pkg/ground"
	"github.com/philipparndt/stl2nec/pkg/material"
	"github.com/philipparndt/stl2nec/pkg/stl"
)

// header returns the comment block. It must not contain anything that
// varies between runs with the same input.
func (e *Encoder) header(mesh *stl.Mesh, mat *material.Properties, freq *frequency.Model,
	wire antenna.Wire, structureOnly bool, segments int, gnd ground.Parameters) []deck.Card {
	d := e.dialect
	cards := []deck.Card{
		deck.Commentf("Model: %s", e.opts.ModelName),
		deck.Comment("Generated by stl2nec"),
		deck.Commentf("Triangles: %d", mesh.TriangleCount()),
	}

	if mat != nil {
		cards = append(cards, deck.Commentf("Material: %s (conductivity %s S/m, permittivity %s)",
			mat.Name, d.Conductivity(mat.Conductivity), d.Permittivity(mat.Permittivity)))
	}

	if freq.IsSet() {
		cards = append(cards,
			deck.Commentf("Frequency: %.4f MHz, wavelength %s m", freq.MHz(), d.Coordinate(freq.Wavelength())),
			deck.Commentf("Band: %s", freq.Band().Description()),
		)
	}

	switch {
	case structureOnly || !e.opts.AntennaEnabled:
		cards = append(cards, deck.Comment("Antenna: structure only"))
	case wire.Detected:
		cards = append(cards, deck.Commentf("Antenna: wire 1, length %s m, radius %s m, %d segments",
			d.Coordinate(wire.Length), d.Coordinate(wire.Radius), segments))
	default:
		cards = append(cards, deck.Comment("Antenna: none detected"))
	}

	cards = append(cards, deck.Commentf("Ground: %s", gnd.Description))
	if e.opts.Waterline > 0 {
		cards = append(cards, deck.Commentf("Waterline: %s m", d.Coordinate(e.opts.Waterline)))
	}
	return cards
}
