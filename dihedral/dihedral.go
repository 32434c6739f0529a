// Package dihedral computes the backbone dihedral angles (phi, psi) of the
// residues in a PDB entry.
package dihedral

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/TuftsBCB/rama/pdb"
)

// Rad2Deg converts radians to degrees.
const Rad2Deg = 180 / math.Pi

// Sample is the (phi, psi) pair of a single residue, in degrees. Both angles
// are in the range (-180, 180].
type Sample struct {
	Phi, Psi float64

	Chain   byte
	Model   int
	Residue *pdb.Residue
}

// Angle returns the dihedral angle, in radians, defined by the four points
// given. The sign follows the IUPAC convention: looking down the p1->p2
// bond, a clockwise rotation of p0 onto p3 is positive.
func Angle(p0, p1, p2, p3 r3.Vec) float64 {
	b1 := r3.Sub(p1, p0)
	b2 := r3.Sub(p2, p1)
	b3 := r3.Sub(p3, p2)

	n1 := r3.Cross(b1, b2)
	n2 := r3.Cross(b2, b3)
	y := r3.Norm(b2) * r3.Dot(b1, n2)
	x := r3.Dot(n1, n2)
	return math.Atan2(y, x)
}

// Degrees is Angle converted to degrees in the range (-180, 180].
func Degrees(p0, p1, p2, p3 r3.Vec) float64 {
	deg := Angle(p0, p1, p2, p3) * Rad2Deg
	if deg <= -180 {
		deg += 360
	}
	return deg
}

// Extract returns the (phi, psi) samples of every residue in the entry that
// has both a preceding and following residue in the same backbone segment,
// and all five atoms the two angles need. Samples are ordered by chain, then
// model, then residue.
func Extract(entry *pdb.Entry) []Sample {
	samples := make([]Sample, 0)
	for _, chain := range entry.Chains {
		for _, model := range chain.Models {
			for _, seg := range model.Segments() {
				samples = appendSegment(samples, model, seg)
			}
		}
	}
	return samples
}

// appendSegment adds the samples for the interior residues of a single
// backbone segment.
func appendSegment(samples []Sample, model *pdb.Model, seg []*pdb.Residue) []Sample {
	bbs := make([]pdb.Backbone, len(seg))
	for i, r := range seg {
		bbs[i] = r.Backbone()
	}
	for i := 1; i < len(bbs)-1; i++ {
		prev, cur, next := bbs[i-1], bbs[i], bbs[i+1]
		if prev.C == nil || !cur.Complete() || next.N == nil {
			continue
		}
		samples = append(samples, Sample{
			Phi:     Degrees(*prev.C, *cur.N, *cur.Ca, *cur.C),
			Psi:     Degrees(*cur.N, *cur.Ca, *cur.C, *next.N),
			Chain:   model.Chain.Ident,
			Model:   model.Num,
			Residue: cur.Residue,
		})
	}
	return samples
}

// Split returns the phi and psi angles of the samples as two parallel slices.
func Split(samples []Sample) (phi, psi []float64) {
	phi = make([]float64, len(samples))
	psi = make([]float64, len(samples))
	for i, s := range samples {
		phi[i], psi[i] = s.Phi, s.Psi
	}
	return phi, psi
}
