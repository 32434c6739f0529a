// Package pdbtest builds synthetic protein backbones with chosen dihedral
// angles and writes them as PDB coordinate records. It exists for tests.
package pdbtest

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"
)

// Ideal backbone geometry (Engh & Huber).
const (
	BondNCa = 1.458
	BondCaC = 1.525
	BondCN  = 1.329
	BondCO  = 1.231

	AngleNCaC = 111.2
	AngleCaCN = 116.2
	AngleCNCa = 121.7
	AngleCaCO = 120.5

	Omega = 180.0
)

// Angles is a (phi, psi) pair in degrees.
type Angles struct {
	Phi, Psi float64
}

type Residue struct {
	Name        string
	Num         int
	N, CA, C, O r3.Vec

	// Names of backbone atoms that are not written.
	Missing []string
}

type Chain struct {
	Ident    byte
	Residues []Residue
}

// Ideal builds a chain of len(angles) residues named name, numbered from 1,
// where residue i has the dihedrals angles[i]. The phi of the first residue
// and the psi of the last residue have no effect.
func Ideal(ident byte, name string, angles ...Angles) Chain {
	c := Chain{Ident: ident, Residues: make([]Residue, len(angles))}
	if len(angles) == 0 {
		return c
	}

	first := &c.Residues[0]
	first.N = r3.Vec{}
	first.CA = r3.Vec{X: BondNCa}
	t := rad(AngleNCaC)
	first.C = r3.Add(first.CA,
		r3.Vec{X: -BondCaC * math.Cos(t), Y: BondCaC * math.Sin(t)})

	for i := 1; i < len(angles); i++ {
		prev, r := &c.Residues[i-1], &c.Residues[i]
		r.N = place(prev.N, prev.CA, prev.C, BondCN, AngleCaCN, angles[i-1].Psi)
		r.CA = place(prev.CA, prev.C, r.N, BondNCa, AngleCNCa, Omega)
		r.C = place(prev.C, r.N, r.CA, BondCaC, AngleNCaC, angles[i].Phi)
	}
	for i := range c.Residues {
		r := &c.Residues[i]
		r.Name = name
		r.Num = i + 1
		r.O = place(r.N, r.CA, r.C, BondCO, AngleCaCO, angles[i].Psi+180)
	}
	return c
}

// Translate moves every residue starting at index from by d. It's used to
// open a chain break.
func (c Chain) Translate(from int, d r3.Vec) {
	for i := from; i < len(c.Residues); i++ {
		r := &c.Residues[i]
		r.N, r.CA = r3.Add(r.N, d), r3.Add(r.CA, d)
		r.C, r.O = r3.Add(r.C, d), r3.Add(r.O, d)
	}
}

// Write writes the chains given as ATOM records followed by an END record.
func Write(w io.Writer, chains ...Chain) error {
	buf := bufio.NewWriter(w)
	serial := 1
	for _, c := range chains {
		for _, r := range c.Residues {
			atoms := []struct {
				name string
				v    r3.Vec
			}{{"N", r.N}, {"CA", r.CA}, {"C", r.C}, {"O", r.O}}
			for _, a := range atoms {
				if r.missing(a.name) {
					continue
				}
				if _, err := fmt.Fprintln(buf, Record(serial, a.name, r.Name,
					c.Ident, r.Num, a.v)); err != nil {
					return err
				}
				serial++
			}
		}
		if _, err := fmt.Fprintf(buf, "TER   %5d\n", serial); err != nil {
			return err
		}
		serial++
	}
	if _, err := fmt.Fprintln(buf, "END"); err != nil {
		return err
	}
	return buf.Flush()
}

// WriteFile writes the chains to a file called name in dir and returns its
// path.
func WriteFile(dir, name string, chains ...Chain) (string, error) {
	fp := filepath.Join(dir, name)
	f, err := os.Create(fp)
	if err != nil {
		return "", err
	}
	if err := Write(f, chains...); err != nil {
		f.Close()
		return "", err
	}
	return fp, f.Close()
}

// Record formats a single ATOM record.
func Record(serial int, atom, res string, chain byte, num int, v r3.Vec) string {
	return fmt.Sprintf("ATOM  %5d  %-3s %3s %c%4d    %8.3f%8.3f%8.3f"+
		"%6.2f%6.2f          %2s",
		serial, atom, res, chain, num, v.X, v.Y, v.Z, 1.0, 0.0, atom[:1])
}

func (r Residue) missing(name string) bool {
	for _, m := range r.Missing {
		if m == name {
			return true
		}
	}
	return false
}

// place positions atom d such that |cd| = bond, the angle bcd = angle and
// the dihedral abcd = torsion (both in degrees).
func place(a, b, c r3.Vec, bond, angle, torsion float64) r3.Vec {
	bc := r3.Unit(r3.Sub(c, b))
	n := r3.Unit(r3.Cross(r3.Sub(b, a), bc))
	m := r3.Cross(n, bc)

	theta, phi := rad(angle), rad(torsion)
	dx := -bond * math.Cos(theta)
	dy := bond * math.Sin(theta) * math.Cos(phi)
	dz := bond * math.Sin(theta) * math.Sin(phi)
	return r3.Add(c, r3.Add(r3.Scale(dx, bc),
		r3.Add(r3.Scale(dy, m), r3.Scale(dz, n))))
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}
