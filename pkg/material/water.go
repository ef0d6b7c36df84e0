package material

import "strings"

// Water describes the water surrounding a marine vehicle
type Water struct {
	Name         string
	Conductivity float64 // S/m
	Permittivity float64 // relative
	Description  string
}

var (
	freshWater = Water{"Fresh Water", 0.001, 81.0, "rivers, lakes"}
	saltWater  = Water{"Salt Water", 4.5, 81.0, "ocean"}
)

// FreshWater returns the fresh water catalog entry
func FreshWater() *Water { return &freshWater }

// SaltWater returns the salt water catalog entry
func SaltWater() *Water { return &saltWater }

// Waters returns both water types, fresh first
func Waters() []*Water {
	return []*Water{&freshWater, &saltWater}
}

// LookupWater accepts "fresh" or "salt", or a full catalog name.
func LookupWater(name string) (*Water, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fresh", "fresh water", "freshwater":
		return &freshWater, true
	case "salt", "salt water", "saltwater", "sea":
		return &saltWater, true
	}
	return nil, false
}
