// Package material provides the read-only catalogs of conductor and water
// electrical properties.
package material

import "strings"

// Properties describes the electrical behavior of a material
type Properties struct {
	Name         string
	Conductivity float64 // S/m
	Permittivity float64 // relative
	Description  string
}

var materials = []Properties{
	{"Aluminum", 1.5e7, 1.0, "Aluminum alloys (6061, 2024, etc.)"},
	{"Mild Steel", 7.0e6, 1.0, "Mild steel (car bodies, ship hulls)"},
	{"Stainless Steel", 1.2e6, 1.0, "Stainless steel (304, 316)"},
	{"Galvanized Steel", 4.0e6, 1.0, "Galvanized steel"},
	{"Spring Steel", 3.0e6, 1.0, "High carbon spring steel"},
	{"Concrete", 0.5, 8.0, "Concrete building walls"},
}

// Default is the material used when none is selected
const Default = "Aluminum"

// All returns the catalog in display order. The returned pointers refer to
// catalog entries and must not be modified.
func All() []*Properties {
	out := make([]*Properties, len(materials))
	for i := range materials {
		out[i] = &materials[i]
	}
	return out
}

// Lookup finds a material by name, ignoring case and surrounding spaces.
func Lookup(name string) (*Properties, bool) {
	name = strings.TrimSpace(name)
	for i := range materials {
		if strings.EqualFold(materials[i].Name, name) {
			return &materials[i], true
		}
	}
	return nil, false
}

// ByIndex returns the material at a 1-based menu index
func ByIndex(index int) (*Properties, bool) {
	if index < 1 || index > len(materials) {
		return nil, false
	}
	return &materials[index-1], true
}

// Names lists the catalog names in order
func Names() []string {
	names := make([]string, len(materials))
	for i, m := range materials {
		names[i] = m.Name
	}
	return names
}
