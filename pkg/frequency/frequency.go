// Package frequency derives wavelength, grid spacing and wire segmentation
// from an operating frequency.
package frequency

import (
	"fmt"
	"math"
)

// SpeedOfLight in m/s
const SpeedOfLight = 299792458.0

// RecommendedSpacing is the amateur-radio default grid spacing in meters. It
// does not depend on the frequency.
const RecommendedSpacing = 0.05

// Model holds the operating frequency. The zero value has no frequency set
// and a wavelength of 0.
type Model struct {
	mhz        float64
	wavelength float64
}

// New returns a Model for f MHz
func New(mhz float64) (*Model, error) {
	m := &Model{}
	if err := m.SetFrequency(mhz); err != nil {
		return nil, err
	}
	return m, nil
}

// SetFrequency sets the frequency in MHz and recomputes the wavelength.
func (m *Model) SetFrequency(mhz float64) error {
	if !(mhz > 0) || math.IsInf(mhz, 0) {
		return fmt.Errorf("frequency must be a positive number of MHz, got %v", mhz)
	}
	m.mhz = mhz
	m.wavelength = SpeedOfLight / (mhz * 1e6)
	return nil
}

// IsSet reports whether a valid frequency has been set
func (m *Model) IsSet() bool { return m != nil && m.mhz > 0 }

// MHz returns the frequency in MHz
func (m *Model) MHz() float64 { return m.mhz }

// Hz returns the frequency in Hz
func (m *Model) Hz() float64 { return m.mhz * 1e6 }

// Wavelength returns the wavelength in meters
func (m *Model) Wavelength() float64 { return m.wavelength }

// WavelengthCm returns the wavelength in centimeters
func (m *Model) WavelengthCm() float64 { return m.wavelength * 100 }

// HighAccuracySpacing is λ/20 in meters
func (m *Model) HighAccuracySpacing() float64 { return m.wavelength / 20 }

// StandardSpacing is λ/10 in meters
func (m *Model) StandardSpacing() float64 { return m.wavelength / 10 }

// RecommendedSpacing returns the fixed 0.05 m spacing
func (m *Model) RecommendedSpacing() float64 { return RecommendedSpacing }

func (m *Model) HighAccuracySpacingCm() float64 { return m.HighAccuracySpacing() * 100 }
func (m *Model) StandardSpacingCm() float64     { return m.StandardSpacing() * 100 }
func (m *Model) RecommendedSpacingCm() float64  { return RecommendedSpacing * 100 }

// Band returns the band the frequency falls in
func (m *Model) Band() Band { return BandOf(m.mhz) }

// RecommendedSegments segments a wire of the given length at the
// recommended spacing.
func (m *Model) RecommendedSegments(length float64) int {
	return Segments(length, RecommendedSpacing)
}

// Segments returns ceil(length/spacing), never less than 1.
func Segments(length, spacing float64) int {
	if spacing <= 0 || !(length > 0) {
		return 1
	}
	n := math.Ceil(length / spacing)
	if n < 1 || math.IsInf(n, 0) {
		return 1
	}
	return int(n)
}
