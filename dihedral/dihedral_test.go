package dihedral

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/TuftsBCB/rama/pdb"
	"github.com/TuftsBCB/rama/pdb/pdbtest"
)

// Coordinates are written with three decimals, which costs a little
// precision in the angles read back.
const tolerance = 0.5

func readChains(t *testing.T, chains ...pdbtest.Chain) *pdb.Entry {
	buf := new(bytes.Buffer)
	require.NoError(t, pdbtest.Write(buf, chains...))
	entry, err := pdb.ReadFrom(buf, "test.pdb", pdb.Options{Strict: true})
	require.NoError(t, err)
	return entry
}

func repeat(a pdbtest.Angles, n int) []pdbtest.Angles {
	as := make([]pdbtest.Angles, n)
	for i := range as {
		as[i] = a
	}
	return as
}

func TestDegrees(t *testing.T) {
	a := r3.Vec{Y: 1}
	b := r3.Vec{}
	c := r3.Vec{X: 1}

	tests := []struct {
		d    r3.Vec
		want float64
	}{
		{r3.Vec{X: 1, Y: 1}, 0},
		{r3.Vec{X: 1, Z: 1}, 90},
		{r3.Vec{X: 1, Z: -1}, -90},
		{r3.Vec{X: 1, Y: -1}, 180},
		{r3.Vec{X: 1, Y: 1, Z: 1}, 45},
	}
	for _, test := range tests {
		got := Degrees(a, b, c, test.d)
		require.InDelta(t, test.want, got, 1e-9, "d = %v", test.d)
	}
}

func TestExtractHelix(t *testing.T) {
	want := pdbtest.Angles{Phi: -60, Psi: -45}
	entry := readChains(t, pdbtest.Ideal('A', "ALA", repeat(want, 5)...))

	samples := Extract(entry)
	require.Len(t, samples, 3)
	for i, s := range samples {
		require.InDelta(t, want.Phi, s.Phi, tolerance)
		require.InDelta(t, want.Psi, s.Psi, tolerance)
		require.Equal(t, byte('A'), s.Chain)
		require.Equal(t, 1, s.Model)
		require.Equal(t, i+2, s.Residue.SequenceNum)
	}
}

func TestExtractMixed(t *testing.T) {
	angles := []pdbtest.Angles{
		{Phi: 0, Psi: 0},
		{Phi: -120, Psi: 130},
		{Phi: 60, Psi: 45},
		{Phi: -75, Psi: 150},
		{Phi: 170, Psi: -170},
		{Phi: 0, Psi: 0},
	}
	entry := readChains(t, pdbtest.Ideal('A', "GLY", angles...))

	samples := Extract(entry)
	require.Len(t, samples, 4)
	for i, s := range samples {
		require.InDelta(t, angles[i+1].Phi, s.Phi, tolerance)
		require.InDelta(t, angles[i+1].Psi, s.Psi, tolerance)
	}
}

func TestExtractShortChains(t *testing.T) {
	h := pdbtest.Angles{Phi: -60, Psi: -45}

	entry := readChains(t,
		pdbtest.Ideal('A', "ALA", repeat(h, 1)...),
		pdbtest.Ideal('B', "ALA", repeat(h, 2)...))
	require.Empty(t, Extract(entry))

	entry = readChains(t,
		pdbtest.Ideal('A', "ALA", repeat(h, 2)...),
		pdbtest.Ideal('B', "ALA", repeat(h, 3)...))
	samples := Extract(entry)
	require.Len(t, samples, 1)
	require.Equal(t, byte('B'), samples[0].Chain)
}

func TestExtractChainBreak(t *testing.T) {
	c := pdbtest.Ideal('A', "ALA", repeat(pdbtest.Angles{Phi: -60, Psi: -45}, 6)...)
	c.Translate(3, r3.Vec{X: 8, Y: -8, Z: 8})
	entry := readChains(t, c)

	// Residues 2 and 5 only: nothing may bridge the gap.
	samples := Extract(entry)
	require.Len(t, samples, 2)
	require.Equal(t, 2, samples[0].Residue.SequenceNum)
	require.Equal(t, 5, samples[1].Residue.SequenceNum)
}

func TestExtractMissingAtom(t *testing.T) {
	c := pdbtest.Ideal('A', "ALA", repeat(pdbtest.Angles{Phi: -60, Psi: -45}, 5)...)
	c.Residues[2].Missing = []string{"CA"}
	entry := readChains(t, c)

	samples := Extract(entry)
	require.Len(t, samples, 2)
	require.Equal(t, 2, samples[0].Residue.SequenceNum)
	require.Equal(t, 4, samples[1].Residue.SequenceNum)
}

func TestSplit(t *testing.T) {
	phi, psi := Split([]Sample{{Phi: 1, Psi: 2}, {Phi: 3, Psi: 4}})
	require.Equal(t, []float64{1, 3}, phi)
	require.Equal(t, []float64{2, 4}, psi)
}

func ExampleExtract() {
	buf := new(bytes.Buffer)
	pdbtest.Write(buf, pdbtest.Ideal('A', "ALA",
		pdbtest.Angles{Phi: -60, Psi: -45},
		pdbtest.Angles{Phi: -60, Psi: -45},
		pdbtest.Angles{Phi: -120, Psi: 130},
		pdbtest.Angles{Phi: -60, Psi: -45}))
	entry, err := pdb.ReadFrom(buf, "ideal.pdb", pdb.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, s := range Extract(entry) {
		fmt.Printf("%s %0.0f %0.0f\n", s.Residue, s.Phi, s.Psi)
	}

	// Output:
	// ALA2 -60 -45
	// ALA3 -120 130
}
