package encoder

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/philipparndt/stl2nec/pkg/antenna"
	"github.com/philipparndt/stl2nec/pkg/deck"
	"github.com/philipparndt/stl2nec/pkg/frequency"
	"github.com/philipparndt/stl2nec/pkg/geometry"
	"github.com/philipparndt/stl2nec/pkg/ground"
	"github.com/philipparndt/stl2nec/pkg/material"
	"github.com/philipparndt/stl2nec/pkg/stl"
)

func plateMesh() *stl.Mesh {
	return stl.NewMesh("plate", []geometry.Triangle{
		geometry.NewTriangle(geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 1, 0)),
		geometry.NewTriangle(geometry.NewVector3(1, 0, 0), geometry.NewVector3(1, 1, 0), geometry.NewVector3(0, 1, 0)),
	})
}

func whip() antenna.Wire {
	return antenna.Wire{
		Start:    geometry.NewVector3(0, 0, 1),
		End:      geometry.NewVector3(0, 0, 1.5),
		Length:   0.5,
		Radius:   0.002,
		Detected: true,
	}
}

func inputs(t *testing.T) (*material.Properties, *frequency.Model) {
	t.Helper()
	mat, ok := material.Lookup("Aluminum")
	if !ok {
		t.Fatal("Aluminum missing from catalog")
	}
	freq, err := frequency.New(146)
	if err != nil {
		t.Fatal(err)
	}
	return mat, freq
}

func lines(d *deck.Deck) []string {
	return strings.Split(strings.TrimSuffix(d.String(), "\n"), "\n")
}

func withPrefix(d *deck.Deck, mnemonic string) []deck.Card {
	var out []deck.Card
	for _, c := range d.Cards {
		if c.Mnemonic == mnemonic {
			out = append(out, c)
		}
	}
	return out
}

func TestGenerateDeterministic(t *testing.T) {
	mat, freq := inputs(t)

	for _, dialect := range []deck.Dialect{deck.NEC, deck.EZ} {
		enc := New(dialect, DefaultOptions())
		first, err := enc.Generate(plateMesh(), mat, freq, whip())
		if err != nil {
			t.Fatal(err)
		}
		second, err := New(dialect, DefaultOptions()).Generate(plateMesh(), mat, freq, whip())
		if err != nil {
			t.Fatal(err)
		}
		if first.String() != second.String() {
			t.Errorf("%v output differs between runs", dialect)
		}
	}
}

func TestGenerateNEC(t *testing.T) {
	mat, freq := inputs(t)
	opts := DefaultOptions()
	opts.ModelName = "whip"
	opts.Comments = false

	d, err := New(deck.NEC, opts).Generate(plateMesh(), mat, freq, whip())
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{
		"CE whip",
		"GW 1 10 0.000000 0.000000 1.000000 0.000000 0.000000 1.500000 0.002000",
		"GW 2 29 1.000000 0.000000 0.000000 0.000000 1.000000 0.000000 0.001000",
		"GW 3 29 0.000000 1.000000 0.000000 1.000000 0.000000 0.000000 0.001000",
		"GE 0",
		"LD 5 0 0 0 1.50e+07",
		"EX 0 1 5 0 1.0 0.0",
		"GN -1",
		"FR 0 1 0 0 146.0000 0",
		"RP 0 37 73 1000 0.0 0.0 5.0 5.0",
		"EN",
	}
	got := lines(d)
	if len(got) != len(expected) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(expected), len(got), d)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("line %d:\nexpected %q\ngot      %q", i, expected[i], got[i])
		}
	}
}

func TestGenerateEZ(t *testing.T) {
	mat, freq := inputs(t)
	opts := DefaultOptions()
	opts.Current = true

	d, err := New(deck.EZ, opts).Generate(plateMesh(), mat, freq, whip())
	if err != nil {
		t.Fatal(err)
	}

	gw := withPrefix(d, "GW")
	if gw[0].String() != "GW 1 10 0.0000 0.0000 1.0000 0.0000 0.0000 1.5000 0.0020" {
		t.Errorf("unexpected antenna wire %q", gw[0])
	}
	if d.Count("PT") != 0 {
		t.Error("EZ decks have no current card")
	}
	if got := withPrefix(d, "LD")[0].String(); got != "LD 5 0 0 0 1.50E+07" {
		t.Errorf("unexpected load card %q", got)
	}
}

func TestGenerateCurrentNEC(t *testing.T) {
	mat, freq := inputs(t)
	opts := DefaultOptions()
	opts.Current = true
	opts.Pattern = false

	d, err := New(deck.NEC, opts).Generate(plateMesh(), mat, freq, whip())
	if err != nil {
		t.Fatal(err)
	}
	if d.Count("PT") != 1 || d.Count("RP") != 0 {
		t.Errorf("expected PT and no RP:\n%s", d)
	}
}

func TestTagsIncreaseFromOne(t *testing.T) {
	mat, freq := inputs(t)

	for _, wire := range []antenna.Wire{whip(), {}} {
		d, err := New(deck.NEC, DefaultOptions()).Generate(plateMesh(), mat, freq, wire)
		if err != nil {
			t.Fatal(err)
		}
		for i, c := range withPrefix(d, "GW") {
			tag, err := strconv.Atoi(c.Fields[0])
			if err != nil || tag != i+1 {
				t.Errorf("wire %d has tag %q", i, c.Fields[0])
			}
		}
	}
}

func TestAntennaDisabled(t *testing.T) {
	mat, freq := inputs(t)
	opts := DefaultOptions()
	opts.AntennaEnabled = false

	d, err := New(deck.NEC, opts).Generate(plateMesh(), mat, freq, whip())
	if err != nil {
		t.Fatal(err)
	}
	if d.Count("GW") != 2 || d.Count("EX") != 0 {
		t.Errorf("disabled antenna must not be emitted:\n%s", d)
	}
}

func TestStructureOnly(t *testing.T) {
	mat, _ := inputs(t)
	mesh := plateMesh()

	wire := antenna.NewDetector(antenna.DefaultConfig()).Detect(mesh)
	if wire.Detected {
		t.Fatal("plate must not contain an antenna")
	}

	d, err := New(deck.NEC, DefaultOptions()).GenerateStructureOnly(mesh, mat, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Count("EX") != 0 {
		t.Error("structure-only output must not contain an excitation")
	}
	if d.Count("FR") != 0 {
		t.Error("no frequency card without a frequency")
	}
	if d.Count("GW") != 2 {
		t.Errorf("expected one wire per triangle, got %d", d.Count("GW"))
	}
	if !strings.Contains(d.String(), "CM Antenna: structure only\n") {
		t.Errorf("missing structure-only comment:\n%s", d)
	}
	if last := lines(d); last[len(last)-1] != "EN" {
		t.Errorf("deck must end with EN, got %q", last[len(last)-1])
	}
}

func TestWaterGround(t *testing.T) {
	mat, freq := inputs(t)
	opts := DefaultOptions()
	opts.Water = material.SaltWater()
	opts.Waterline = 1.2

	d, err := New(deck.NEC, opts).Generate(plateMesh(), mat, freq, whip())
	if err != nil {
		t.Fatal(err)
	}

	out := d.String()
	if !strings.Contains(out, "\nGN 2 0 0 0 81.0 4.50e+00\n") {
		t.Errorf("missing water ground card:\n%s", out)
	}
	if !strings.Contains(out, "\nGE 1\n") {
		t.Errorf("water ground needs GE 1:\n%s", out)
	}
	if !strings.Contains(out, "CM Waterline: 1.200000 m\n") {
		t.Errorf("missing waterline comment:\n%s", out)
	}
}

func TestInvalidGround(t *testing.T) {
	mat, freq := inputs(t)
	opts := DefaultOptions()
	opts.Ground = ground.Parameters{Type: ground.RealGround, Conductivity: 0.01, Permittivity: 500}

	d, err := New(deck.NEC, opts).Generate(plateMesh(), mat, freq, whip())
	if err != nil {
		t.Fatalf("invalid ground must not fail by default: %v", err)
	}
	if !strings.Contains(d.String(), "\nCM Invalid permittivity value\n") || d.Count("GN") != 0 {
		t.Errorf("expected ground comment instead of GN:\n%s", d)
	}

	opts.StrictGround = true
	_, err = New(deck.NEC, opts).Generate(plateMesh(), mat, freq, whip())
	if !errors.Is(err, ErrGround) || !errors.Is(err, ground.ErrInvalidParameters) {
		t.Errorf("expected ErrGround wrapping ErrInvalidParameters, got %v", err)
	}
}

func TestCommentHeader(t *testing.T) {
	mat, freq := inputs(t)
	opts := DefaultOptions()
	opts.ModelName = "mast"

	d, err := New(deck.NEC, opts).Generate(plateMesh(), mat, freq, whip())
	if err != nil {
		t.Fatal(err)
	}
	out := d.String()
	for _, want := range []string{
		"CM Model: mast\n",
		"CM Triangles: 2\n",
		"CM Material: Aluminum (conductivity 1.50e+07 S/m, permittivity 1.0)\n",
		"CM Band: VHF (30-300 MHz)\n",
		"CM Antenna: wire 1, length 0.500000 m, radius 0.002000 m, 10 segments\n",
		"CM Ground: Perfect ground (infinite conductivity)\n",
		"CE mast\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNoMesh(t *testing.T) {
	if _, err := New(deck.NEC, DefaultOptions()).Generate(nil, nil, nil, antenna.Wire{}); err == nil {
		t.Error("expected error without mesh")
	}
}
