package pdb

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// MaxPeptideBond is the largest C-N distance (in Angstroms) between two
// consecutive residues for them to be considered joined by a peptide bond.
const MaxPeptideBond = 1.8

// Backbone holds the coordinates of the backbone atoms of a single residue.
// A nil field means the residue has no such atom.
type Backbone struct {
	Residue  *Residue
	N, Ca, C *r3.Vec
	O        *r3.Vec
}

// Backbone returns the backbone atoms of this residue.
func (r *Residue) Backbone() Backbone {
	bb := Backbone{Residue: r}
	if a := r.Atom("N"); a != nil {
		bb.N = &a.Vec
	}
	if a := r.Atom("CA"); a != nil {
		bb.Ca = &a.Vec
	}
	if a := r.Atom("C"); a != nil {
		bb.C = &a.Vec
	}
	if a := r.Atom("O"); a != nil {
		bb.O = &a.Vec
	}
	return bb
}

// Complete returns true when N, CA and C are all present.
func (bb Backbone) Complete() bool {
	return bb.N != nil && bb.Ca != nil && bb.C != nil
}

// Segments splits the residues of this model into maximal runs of amino acid
// residues where every residue is joined to the next one by a peptide bond.
// A residue that isn't a standard amino acid, or a gap in the chain (a
// missing residue shows up as a long C-N distance), ends the current segment.
//
// Segments with a single residue are not returned, since they have no
// backbone dihedrals.
func (m *Model) Segments() [][]*Residue {
	segments := make([][]*Residue, 0)

	var cur []*Residue
	var last *Residue
	flush := func() {
		if len(cur) > 1 {
			segments = append(segments, cur)
		}
		cur = nil
	}
	for _, r := range m.Residues {
		if !isStandardAmino(r.Name) {
			flush()
			last = nil
			continue
		}
		if last != nil && last.isBonded(r) {
			cur = append(cur, r)
		} else {
			flush()
			cur = []*Residue{r}
		}
		last = r
	}
	flush()
	return segments
}

// isBonded returns true if the carbonyl carbon of r is within peptide bond
// distance of the amide nitrogen of next.
func (r *Residue) isBonded(next *Residue) bool {
	c, n := r.Atom("C"), next.Atom("N")
	if c == nil || n == nil {
		return false
	}
	return r3.Norm(r3.Sub(c.Vec, n.Vec)) <= MaxPeptideBond
}
