// Package ground builds the ground cards of a deck for the supported ground
// models.
package ground

import (
	"errors"
	"fmt"
	"strings"

	"github.com/philipparndt/stl2nec/pkg/deck"
	"github.com/philipparndt/stl2nec/pkg/material"
)

// Type is a ground model
type Type int

const (
	Perfect Type = iota
	SommerfeldNorton
	FiniteGroundScreen
	RealGround
	WaterGround
)

var typeNames = []string{"perfect", "sommerfeld", "screen", "real", "water"}

func (t Type) String() string {
	if int(t) < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("ground(%d)", int(t))
	}
	return typeNames[t]
}

// Description returns a human readable name
func (t Type) Description() string {
	switch t {
	case Perfect:
		return "Perfect ground (infinite conductivity)"
	case SommerfeldNorton:
		return "Sommerfeld-Norton ground model"
	case FiniteGroundScreen:
		return "Finite ground screen"
	case RealGround:
		return "Real ground with soil properties"
	case WaterGround:
		return "Water ground for marine applications"
	}
	return "Unknown ground type"
}

// ParseType accepts the short names used in job files and flags
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "perfect":
		return Perfect, nil
	case "sommerfeld", "sommerfeld_norton", "sommerfeld-norton":
		return SommerfeldNorton, nil
	case "screen", "finite_screen", "finite_ground_screen", "ground_screen":
		return FiniteGroundScreen, nil
	case "real", "real_ground":
		return RealGround, nil
	case "water", "water_ground":
		return WaterGround, nil
	}
	return Perfect, fmt.Errorf("unknown ground type %q", s)
}

// ErrInvalidParameters matches every *ValidationError with errors.Is
var ErrInvalidParameters = errors.New("ground: invalid parameters")

// ValidationError reports the first parameter that is out of range
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ground: %s (%s = %g)", strings.ToLower(e.Reason), e.Field, e.Value)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidParameters
}

const (
	maxConductivity = 1e8
	minPermittivity = 1.0
	maxPermittivity = 100.0
)

// Parameters describes one ground model instance
type Parameters struct {
	Type         Type
	Conductivity float64 // S/m
	Permittivity float64 // relative
	ScreenRadius float64 // meters, screen only
	Description  string
}

// Defaults returns the stock parameters for a ground type
func Defaults(t Type) Parameters {
	p := Parameters{Type: t, Permittivity: 1.0}
	switch t {
	case Perfect:
		p.Description = "Perfect ground (infinite conductivity)"
	case SommerfeldNorton:
		p.Conductivity, p.Permittivity = 0.01, 13.0
		p.Description = "Sommerfeld-Norton ground (average soil)"
	case FiniteGroundScreen:
		p.Conductivity, p.Permittivity, p.ScreenRadius = 1.0e7, 1.0, 10.0
		p.Description = "Finite ground screen (copper)"
	case RealGround:
		p.Conductivity, p.Permittivity = 0.01, 13.0
		p.Description = "Real ground (average soil)"
	case WaterGround:
		p.Conductivity, p.Permittivity = 4.5, 81.0
		p.Description = "Water ground (salt water)"
	}
	return p
}

// ForWater returns water ground parameters taken from w. A nil w gives the
// salt water defaults.
func ForWater(w *material.Water) Parameters {
	p := Defaults(WaterGround)
	if w != nil {
		p.Conductivity = w.Conductivity
		p.Permittivity = w.Permittivity
		p.Description = "Water ground (" + w.Name + ")"
	}
	return p
}

// Validate checks the parameters. Perfect ground has nothing to validate.
func (p Parameters) Validate() error {
	if p.Type == Perfect {
		return nil
	}
	if !(p.Conductivity >= 0 && p.Conductivity <= maxConductivity) {
		return &ValidationError{Field: "conductivity", Value: p.Conductivity, Reason: "Invalid conductivity value"}
	}
	if !(p.Permittivity >= minPermittivity && p.Permittivity <= maxPermittivity) {
		return &ValidationError{Field: "permittivity", Value: p.Permittivity, Reason: "Invalid permittivity value"}
	}
	if p.Type == FiniteGroundScreen && !(p.ScreenRadius > 0) {
		return &ValidationError{Field: "screen_radius", Value: p.ScreenRadius, Reason: "Invalid screen radius"}
	}
	return nil
}

// HasGroundPlane reports whether the cards describe a ground below the
// structure, which decides the GE flag.
func (p Parameters) HasGroundPlane() bool {
	return p.Type != Perfect && p.Validate() == nil
}

// Cards returns the ground cards for the dialect. Invalid parameters do not
// fail: a single comment card describing the problem is returned instead.
func (p Parameters) Cards(d deck.Dialect) []deck.Card {
	if err := p.Validate(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return []deck.Card{deck.Comment(ve.Reason)}
		}
		return []deck.Card{deck.Comment(err.Error())}
	}

	switch p.Type {
	case SommerfeldNorton:
		return []deck.Card{groundCard(d, 1, p)}
	case FiniteGroundScreen:
		r := fmt.Sprintf("%g", p.ScreenRadius)
		return []deck.Card{
			groundCard(d, 0, p),
			{Mnemonic: "GD", Fields: []string{"0.0", "0.0", "0.001", "0.001", r, r}},
		}
	case RealGround, WaterGround:
		return []deck.Card{groundCard(d, 2, p)}
	default:
		return []deck.Card{deck.NewCard("GN", -1)}
	}
}

// Command renders the ground cards as text, one line each
func (p Parameters) Command(d deck.Dialect) string {
	var b strings.Builder
	for _, c := range p.Cards(d) {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func groundCard(d deck.Dialect, model int, p Parameters) deck.Card {
	return deck.Card{Mnemonic: "GN", Fields: []string{
		fmt.Sprint(model), "0", "0", "0",
		d.Permittivity(p.Permittivity),
		d.Conductivity(p.Conductivity),
	}}
}
