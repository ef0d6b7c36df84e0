package deck

import (
	"fmt"

	"github.com/philipparndt/stl2nec/pkg/geometry"
)

// Comment returns a CM card. Line breaks in text are replaced by spaces.
func Comment(text string) Card {
	return Card{Mnemonic: "CM", Fields: nonEmpty(singleLine(text))}
}

// Commentf formats a CM card
func Commentf(format string, args ...any) Card {
	return Comment(fmt.Sprintf(format, args...))
}

// CommentEnd returns the CE card closing the comment block
func CommentEnd(text string) Card {
	return Card{Mnemonic: "CE", Fields: nonEmpty(singleLine(text))}
}

// Wire returns a GW card for a straight wire from a to b
func (d Dialect) Wire(tag, segments int, a, b geometry.Vector3, radius float64) Card {
	return Card{Mnemonic: "GW", Fields: []string{
		fmt.Sprint(tag),
		fmt.Sprint(segments),
		d.Coordinate(a.X), d.Coordinate(a.Y), d.Coordinate(a.Z),
		d.Coordinate(b.X), d.Coordinate(b.Y), d.Coordinate(b.Z),
		d.Coordinate(radius),
	}}
}

// GeometryEnd returns the GE card. groundPlane selects flag 1.
func GeometryEnd(groundPlane bool) Card {
	if groundPlane {
		return NewCard("GE", 1)
	}
	return NewCard("GE", 0)
}

// ConductivityLoad returns an LD 5 card applying σ to every segment of every wire
func (d Dialect) ConductivityLoad(sigma float64) Card {
	return Card{Mnemonic: "LD", Fields: []string{"5", "0", "0", "0", d.Conductivity(sigma)}}
}

// Excitation returns a voltage source EX card on the given wire segment
func Excitation(tag, segment int) Card {
	return Card{Mnemonic: "EX", Fields: []string{"0", fmt.Sprint(tag), fmt.Sprint(segment), "0", "1.0", "0.0"}}
}

// Frequency returns an FR card for a single frequency in MHz
func Frequency(mhz float64) Card {
	return Card{Mnemonic: "FR", Fields: []string{"0", "1", "0", "0", fmt.Sprintf("%.4f", mhz), "0"}}
}

// Current returns the PT card requesting current printout
func Current() Card {
	return NewCard("PT", 0, 0, 0, 0)
}

// Pattern returns the RP card for a full-sphere pattern in 5° steps
func Pattern() Card {
	return Card{Mnemonic: "RP", Fields: []string{"0", "37", "73", "1000", "0.0", "0.0", "5.0", "5.0"}}
}

// End returns the EN card
func End() Card {
	return Card{Mnemonic: "EN"}
}

func singleLine(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
