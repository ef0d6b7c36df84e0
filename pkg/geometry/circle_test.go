package geometry

import (
	"math"
	"testing"
)

func TestFitCrossSection(t *testing.T) {
	points := []Vector3{
		NewVector3(2, 0, 0),
		NewVector3(0, 2, 1),
		NewVector3(-2, 0, 2),
		NewVector3(0, -2, 3),
	}

	fit, err := FitCrossSection(points, 2)
	if err != nil {
		t.Fatalf("FitCrossSection: %v", err)
	}
	if math.Abs(fit.Radius-2) > 1e-12 {
		t.Errorf("radius = %v, want 2", fit.Radius)
	}
	if fit.Center != NewVector3(0, 0, 1.5) {
		t.Errorf("center = %v, want (0, 0, 1.5)", fit.Center)
	}
	if fit.Normal != NewVector3(0, 0, 1) {
		t.Errorf("normal = %v", fit.Normal)
	}
	if fit.StdDev > 1e-12 {
		t.Errorf("expected perfect fit, stddev = %v", fit.StdDev)
	}
}

func TestFitCrossSectionErrors(t *testing.T) {
	if _, err := FitCrossSection([]Vector3{{}, {}}, 0); err == nil {
		t.Error("expected error for fewer than 3 points")
	}
	line := []Vector3{NewVector3(1, 1, 0), NewVector3(1, 1, 1), NewVector3(1, 1, 2)}
	if _, err := FitCrossSection(line, 2); err == nil {
		t.Error("expected error for points on the axis")
	}
	if _, err := FitCrossSection(line, 3); err == nil {
		t.Error("expected error for invalid axis")
	}
}

func TestFitCrossSectionUsesCentroid(t *testing.T) {
	// points bunched on one side pull the center toward them; the fit is the
	// centroid of the projections, not a least-squares circle
	points := []Vector3{
		NewVector3(0, 1, 0),
		NewVector3(1, 0, 1),
		NewVector3(0, -1, 2),
		NewVector3(1, 0, 3),
	}

	fit, err := FitCrossSection(points, 2)
	if err != nil {
		t.Fatalf("FitCrossSection: %v", err)
	}
	if fit.Center != NewVector3(0.5, 0, 1.5) {
		t.Errorf("center = %v, want (0.5, 0, 1.5)", fit.Center)
	}
	want := (2*math.Hypot(0.5, 1) + 2*0.5) / 4
	if math.Abs(fit.Radius-want) > 1e-12 {
		t.Errorf("radius = %v, want mean distance %v", fit.Radius, want)
	}
	if fit.StdDev == 0 {
		t.Error("expected a nonzero spread for uneven distances")
	}
}
