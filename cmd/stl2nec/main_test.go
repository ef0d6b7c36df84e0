package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stl2nec/pkg/geometry"
	"github.com/philipparndt/stl2nec/pkg/stl"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writePlate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plate.stl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	mesh := stl.NewMesh("plate", []geometry.Triangle{
		geometry.NewTriangle(geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 1, 0)),
		geometry.NewTriangle(geometry.NewVector3(1, 0, 0), geometry.NewVector3(1, 1, 0), geometry.NewVector3(0, 1, 0)),
	})
	if err := stl.WriteBinary(f, mesh); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMaterialsCommand(t *testing.T) {
	out, err := execute(t, "materials")
	if err != nil {
		t.Fatalf("materials: %v", err)
	}
	for _, want := range []string{"Aluminum", "1.50e+07", "Salt Water", "4.50e+00", "81.0", "sommerfeld", "land_vehicle"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoCommand(t *testing.T) {
	path := writePlate(t)

	out, err := execute(t, "info", path, "--stream=false", "--grouping", "per-triangle")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"Name: plate", "Triangles: 2", "Antenna Candidates (per-triangle grouping)", "Detected antenna: none"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoCommandStream(t *testing.T) {
	path := writePlate(t)
	defer func() { infoStream = false }()

	out, err := execute(t, "info", path, "--stream")
	if err != nil {
		t.Fatalf("info --stream: %v", err)
	}
	if !strings.Contains(out, "(binary)") || !strings.Contains(out, "Triangles: 2") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "Antenna Candidates") {
		t.Error("streaming info must not run detection")
	}
}

func TestConvertCommand(t *testing.T) {
	path := writePlate(t)
	dir := filepath.Dir(path)

	out, err := execute(t, "convert", path, "--frequency", "14.2", "--material", "mild steel")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, "HF (3-30 MHz)") || !strings.Contains(out, "structure only") {
		t.Errorf("unexpected summary:\n%s", out)
	}

	nec, err := os.ReadFile(filepath.Join(dir, "plate.nec"))
	if err != nil {
		t.Fatalf("NEC deck not written: %v", err)
	}
	if !strings.Contains(string(nec), "CM Material: Mild Steel") {
		t.Errorf("material flag not applied:\n%s", nec)
	}
	if _, err := os.Stat(filepath.Join(dir, "plate.ez")); err != nil {
		t.Errorf("EZ deck not written: %v", err)
	}
}

func TestConvertCommandRejectsInvalidJob(t *testing.T) {
	path := writePlate(t)
	if _, err := execute(t, "convert", path, "--frequency", "-1"); err == nil {
		t.Fatal("expected a validation error for a negative frequency")
	}
}

func TestJobFlagsOverrideJobFile(t *testing.T) {
	dir := t.TempDir()
	jobFile := filepath.Join(dir, "job.yaml")
	content := "source: a.stl\nfrequency_mhz: 7\nmaterial: Concrete\noutput:\n  pattern: true\n"
	if err := os.WriteFile(jobFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var f jobFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd.Flags())
	if err := cmd.Flags().Parse([]string{"--job", jobFile, "--frequency", "21", "--no-pattern"}); err != nil {
		t.Fatal(err)
	}

	j, err := f.build(cmd, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if j.FrequencyMHz != 21 {
		t.Errorf("FrequencyMHz = %v, want the flag value 21", j.FrequencyMHz)
	}
	if j.Material != "Concrete" {
		t.Errorf("Material = %q, want the job value", j.Material)
	}
	if j.Output.Pattern == nil || *j.Output.Pattern {
		t.Error("--no-pattern should turn the pattern card off")
	}
	if want := filepath.Join(dir, "a.stl"); j.Source != want {
		t.Errorf("Source = %q, want %q", j.Source, want)
	}
}

func TestJobFlagsRequireSource(t *testing.T) {
	var f jobFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd.Flags())
	if _, err := f.build(cmd, nil); err == nil {
		t.Fatal("expected an error without a source")
	}
}
