// Package antenna finds a thin, wire-like part of a mesh that is probably
// the antenna.
package antenna

import (
	"fmt"
	"strings"

	"github.com/philipparndt/stl2nec/pkg/geometry"
)

// Wire is the detected antenna. When Detected is false every other field is
// zero; that is a normal outcome, not an error.
type Wire struct {
	Triangles []geometry.Triangle
	Path      []geometry.Vector3
	Radius    float64
	Length    float64
	Start     geometry.Vector3
	End       geometry.Vector3
	Detected  bool
}

// Grouping selects how triangles are combined into candidates
type Grouping int

const (
	// PerTriangle makes every triangle its own candidate
	PerTriangle Grouping = iota
	// Connected groups triangles that share vertices
	Connected
)

func (g Grouping) String() string {
	switch g {
	case PerTriangle:
		return "per-triangle"
	case Connected:
		return "connected"
	}
	return fmt.Sprintf("grouping(%d)", int(g))
}

// ParseGrouping accepts "per-triangle" (or "triangle") and "connected".
func ParseGrouping(s string) (Grouping, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per-triangle", "per_triangle", "triangle":
		return PerTriangle, nil
	case "connected", "components":
		return Connected, nil
	}
	return PerTriangle, fmt.Errorf("unknown grouping %q", s)
}
