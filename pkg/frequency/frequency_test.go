package frequency

import (
	"math"
	"testing"
)

func TestWavelength(t *testing.T) {
	tests := []struct {
		mhz      float64
		expected float64
	}{
		{14.2, 299792458.0 / 14.2e6},
		{146, 299792458.0 / 146e6},
		{299.792458, 1.0},
	}

	for _, tt := range tests {
		m, err := New(tt.mhz)
		if err != nil {
			t.Fatalf("New(%v) failed: %v", tt.mhz, err)
		}
		if math.Abs(m.Wavelength()-tt.expected) > 1e-12 {
			t.Errorf("Wavelength(%v): expected %v, got %v", tt.mhz, tt.expected, m.Wavelength())
		}
		if math.Abs(m.WavelengthCm()-tt.expected*100) > 1e-9 {
			t.Errorf("WavelengthCm(%v): got %v", tt.mhz, m.WavelengthCm())
		}
	}
}

func TestSetFrequencyRejectsNonPositive(t *testing.T) {
	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := New(f); err == nil {
			t.Errorf("expected error for %v", f)
		}
	}

	var m Model
	if m.IsSet() || m.Wavelength() != 0 {
		t.Error("zero model should have no frequency")
	}
}

func TestSpacing(t *testing.T) {
	m, _ := New(299.792458)
	if math.Abs(m.HighAccuracySpacing()-0.05) > 1e-12 {
		t.Errorf("λ/20: got %v", m.HighAccuracySpacing())
	}
	if math.Abs(m.StandardSpacing()-0.1) > 1e-12 {
		t.Errorf("λ/10: got %v", m.StandardSpacing())
	}
	if math.Abs(m.StandardSpacingCm()-10) > 1e-9 {
		t.Errorf("λ/10 cm: got %v", m.StandardSpacingCm())
	}

	for _, f := range []float64{1.8, 14, 144, 2400} {
		other, _ := New(f)
		if other.RecommendedSpacing() != 0.05 {
			t.Errorf("recommended spacing must be 0.05 at %v MHz, got %v", f, other.RecommendedSpacing())
		}
	}
	if m.RecommendedSpacingCm() != 5 {
		t.Errorf("recommended cm: got %v", m.RecommendedSpacingCm())
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		length, spacing float64
		expected        int
	}{
		{1.0, 0.05, 20},
		{1.01, 0.05, 21},
		{0.01, 0.05, 1},
		{0.5, 0.1, 5},
		{0, 0.05, 1},
		{1, 0, 1},
		{1, -1, 1},
	}

	for _, tt := range tests {
		if got := Segments(tt.length, tt.spacing); got != tt.expected {
			t.Errorf("Segments(%v, %v): expected %d, got %d", tt.length, tt.spacing, tt.expected, got)
		}
	}

	m, _ := New(7)
	if got := m.RecommendedSegments(2.5); got != 50 {
		t.Errorf("RecommendedSegments: expected 50, got %d", got)
	}
}

func TestBandOf(t *testing.T) {
	tests := []struct {
		mhz  float64
		band Band
	}{
		{0.0005, Unknown},
		{0.001, VLF},
		{0.05, LF},
		{0.1, MF},
		{2.999, MF},
		{3, HF},
		{30, HF},
		{30.01, VHF},
		{300, VHF},
		{433, UHF},
		{3000, UHF},
		{10000, SHF},
		{30000, SHF},
		{30001, Unknown},
	}

	for _, tt := range tests {
		if got := BandOf(tt.mhz); got != tt.band {
			t.Errorf("BandOf(%v): expected %v, got %v", tt.mhz, tt.band, got)
		}
	}
}

func TestBandDescription(t *testing.T) {
	m, _ := New(14.2)
	if m.Band().Description() != "HF (3-30 MHz)" {
		t.Errorf("unexpected description %q", m.Band().Description())
	}
	if Band(42).String() != "Unknown" {
		t.Errorf("out of range band should be Unknown")
	}
}
