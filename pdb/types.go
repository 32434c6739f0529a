package pdb

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Entry represents all information read from a single PDB file that is
// relevant to backbone analysis.
type Entry struct {
	Path           string
	IdCode         string
	Classification string
	Chains         []*Chain

	// Skipped is the number of ATOM/HETATM records that were dropped while
	// reading in lenient mode.
	Skipped int

	// Digest is the xxHash64 of the (decompressed) PDB text.
	Digest uint64

	modified map[modification]string
}

// Chain is a single chain identifier in a PDB file. When the file contains
// several MODEL records, each of them contributes one Model to the chain.
type Chain struct {
	Entry  *Entry
	Ident  byte
	Models []*Model
}

type Model struct {
	Entry    *Entry
	Chain    *Chain
	Num      int
	Residues []*Residue
}

type Residue struct {
	Name          string
	SequenceNum   int
	InsertionCode byte
	Het           bool
	Atoms         []Atom

	// The alternate location kept for this residue. Zero until a non-blank
	// altLoc is seen.
	altLoc byte
}

type Atom struct {
	Serial int
	Name   string
	r3.Vec
}

// Chain returns the chain with the given identifier.
// If such a chain does not exist, nil is returned.
func (e *Entry) Chain(ident byte) *Chain {
	for _, chain := range e.Chains {
		if chain.Ident == ident {
			return chain
		}
	}
	return nil
}

// OneChain returns a single chain in the PDB file. If there is more than one
// chain, OneChain will panic. This is convenient when you expect a PDB file to
// have only a single chain, but don't know the name.
func (e *Entry) OneChain() *Chain {
	if len(e.Chains) != 1 {
		panic(fmt.Sprintf("OneChain can only be called on PDB entries with "+
			"ONE chain. But the '%s' PDB entry has %d chains.",
			e.Path, len(e.Chains)))
	}
	return e.Chains[0]
}

// Sequence returns the one letter amino acid sequence of the residues with
// ATOM records in the first model of this chain. Modified residues listed in
// MODRES records are translated to their standard residue. Anything that
// isn't an amino acid is skipped, and unknown amino acids are 'X'.
func (c *Chain) Sequence() []byte {
	if len(c.Models) == 0 {
		return nil
	}
	s := make([]byte, 0, len(c.Models[0].Residues))
	for _, r := range c.Models[0].Residues {
		name := c.Entry.standardName(c.Ident, r.Name)
		if !isAmino(name) {
			continue
		}
		s = append(s, getAmino(name))
	}
	return s
}

// IdString returns the lowercase id code followed by the chain identifier.
func (c *Chain) IdString() string {
	return fmt.Sprintf("%s%c", c.Entry.IdString(), c.Ident)
}

// IdString returns the id code in lowercase.
func (e *Entry) IdString() string {
	return strings.ToLower(e.IdCode)
}

// Atom returns the first atom in this residue with the given name.
// If one does not exist, nil is returned.
func (r *Residue) Atom(name string) *Atom {
	for i := range r.Atoms {
		if r.Atoms[i].Name == name {
			return &r.Atoms[i]
		}
	}
	return nil
}

// Ca returns the coordinates of the alpha-carbon atom in this residue.
// If one does not exist, nil is returned.
func (r *Residue) Ca() *r3.Vec {
	if atom := r.Atom("CA"); atom != nil {
		return &atom.Vec
	}
	return nil
}

func (r *Residue) String() string {
	if r.InsertionCode != ' ' && r.InsertionCode != 0 {
		return fmt.Sprintf("%s%d%c", r.Name, r.SequenceNum, r.InsertionCode)
	}
	return fmt.Sprintf("%s%d", r.Name, r.SequenceNum)
}

func (a Atom) String() string {
	return fmt.Sprintf("(%d, %s, [%0.3f %0.3f %0.3f])",
		a.Serial, a.Name, a.X, a.Y, a.Z)
}
