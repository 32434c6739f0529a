package pdb

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"gonum.org/v1/gonum/spatial/r3"
)

// Options controls how Read treats anomalies in coordinate records.
type Options struct {
	// When Strict is true, the first malformed ATOM/HETATM record, duplicate
	// atom or duplicate residue is returned as an error. Otherwise, such
	// records are skipped and counted in Entry.Skipped.
	Strict bool

	// Skipped records are logged here at debug level. If nil, slog.Default
	// is used.
	Logger *slog.Logger
}

type pdbParser struct {
	entry    *Entry
	opts     Options
	log      *slog.Logger
	curModel int
	lineNum  int
	line     []byte
}

// Read creates a new PDB Entry from a file. If the file cannot be read, or
// there is an error parsing the PDB file, an error is returned.
//
// If the file name ends with ".gz", ".zst" or ".lz4", the corresponding
// decompression is used.
func Read(fileName string, opts Options) (*Entry, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, err := decompress(fileName, f)
	if err != nil {
		return nil, fmt.Errorf("Could not decompress '%s': %w", fileName, err)
	}
	defer reader.Close()

	return ReadFrom(reader, fileName, opts)
}

// ReadFrom is just like Read, except the PDB records are read from r. The
// name given is used as the entry's path, and to guess its id code when there
// is no HEADER record.
func ReadFrom(r io.Reader, name string, opts Options) (*Entry, error) {
	entry := &Entry{
		Path:     name,
		Chains:   make([]*Chain, 0),
		modified: make(map[modification]string, 5),
	}
	p := &pdbParser{
		entry:    entry,
		opts:     opts,
		log:      opts.Logger,
		curModel: 1,
	}
	if p.log == nil {
		p.log = slog.Default()
	}

	// Now traverse each line, and process it according to the record name.
	// The order of ATOM records is preserved, since residue order within a
	// chain is what backbone segments are built from.
	digest := xxhash.New()
	breader := bufio.NewReaderSize(io.TeeReader(r, digest), 1000)
	continued := false
	for {
		// We never care about lines longer than 1000 characters, so the
		// remainder of such a line is thrown away.
		line, isPrefix, err := breader.ReadLine()
		if err == io.EOF && len(line) == 0 {
			break
		} else if err != io.EOF && err != nil {
			return nil, err
		}
		if continued {
			continued = isPrefix
			continue
		}
		continued = isPrefix

		p.lineNum++
		p.line = line
		if err := p.parseLine(); err != nil {
			return nil, err
		}
	}

	entry.Digest = digest.Sum64()

	// If we didn't pick up any chains, this probably isn't a valid PDB file.
	if len(entry.Chains) == 0 {
		return nil, fmt.Errorf("The file '%s' does not appear to be a valid "+
			"PDB file.", entry.Path)
	}

	// If we couldn't find an Id code, inspect the base name of the file path.
	if len(entry.IdCode) == 0 {
		name := path.Base(entry.Path)
		switch {
		case len(name) >= 7 && name[0:3] == "pdb":
			entry.IdCode = name[3:7]
		case len(name) == 7: // cath
			entry.IdCode = name[0:4]
		}
	}
	return entry, nil
}

func decompress(fileName string, r io.Reader) (io.ReadCloser, error) {
	switch path.Ext(fileName) {
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return gz, nil
	case ".zst":
		d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case ".lz4":
		return io.NopCloser(lz4.NewReader(r)), nil
	}
	return io.NopCloser(r), nil
}

func (p *pdbParser) parseLine() error {
	switch p.cols(1, 6) {
	case "HEADER":
		// Only the first HEADER counts.
		if len(p.entry.IdCode) == 0 && len(p.entry.Classification) == 0 {
			p.entry.Classification = p.cols(11, 50)
			p.entry.IdCode = p.cols(63, 66)
		}
	case "MODEL":
		num, err := p.atoi(11, 14)
		if err != nil {
			// Some writers leave the serial out. Just count.
			num = p.curModel + 1
		}
		p.curModel = num
	case "MODRES":
		mod := modification{p.at(17), p.cols(13, 15)}
		p.entry.modified[mod] = p.cols(25, 27)
	case "ATOM":
		return p.parseAtom(false)
	case "HETATM":
		return p.parseAtom(true)
	}
	return nil
}

// parseAtom loads a single ATOM or HETATM record into its residue. Records
// that are alternate locations other than the first one seen for a residue
// are silently dropped.
func (p *pdbParser) parseAtom(het bool) error {
	if len(p.line) < 54 {
		return p.anomaly("coordinate record is truncated (%d columns)",
			len(p.line))
	}

	ident := p.at(22)
	if ident == ' ' {
		ident = '_'
	}
	resName := p.cols(18, 20)
	seqNum, err := p.atoi(23, 26)
	if err != nil {
		return p.anomaly("invalid residue sequence number: %s", err)
	}
	icode := p.at(27)
	altLoc := p.at(17)

	atom := Atom{Name: p.cols(13, 16)}
	if len(atom.Name) == 0 {
		return p.anomaly("atom name is blank")
	}
	if serial, err := p.atoi(7, 11); err == nil {
		atom.Serial = serial
	}
	var x, y, z float64
	if x, err = p.atof(31, 38); err != nil {
		return p.anomaly("invalid x coordinate: %s", err)
	}
	if y, err = p.atof(39, 46); err != nil {
		return p.anomaly("invalid y coordinate: %s", err)
	}
	if z, err = p.atof(47, 54); err != nil {
		return p.anomaly("invalid z coordinate: %s", err)
	}
	atom.Vec = r3.Vec{X: x, Y: y, Z: z}

	model := p.getModel(ident)
	residue, err := p.getResidue(model, resName, seqNum, icode, het, altLoc)
	if err != nil || residue == nil {
		return err
	}

	if altLoc != ' ' && altLoc != 0 {
		if residue.altLoc == 0 {
			residue.altLoc = altLoc
		} else if residue.altLoc != altLoc {
			return nil
		}
	}
	if residue.Atom(atom.Name) != nil {
		return p.anomaly("duplicate atom %s in residue %s", atom.Name, residue)
	}
	residue.Atoms = append(residue.Atoms, atom)
	return nil
}

func (p *pdbParser) getChain(ident byte) *Chain {
	if chain := p.entry.Chain(ident); chain != nil {
		return chain
	}
	chain := &Chain{
		Entry:  p.entry,
		Ident:  ident,
		Models: make([]*Model, 0, 1),
	}
	p.entry.Chains = append(p.entry.Chains, chain)
	return chain
}

func (p *pdbParser) getModel(ident byte) *Model {
	chain := p.getChain(ident)
	for _, model := range chain.Models {
		if model.Num == p.curModel {
			return model
		}
	}
	model := &Model{
		Entry:    p.entry,
		Chain:    chain,
		Num:      p.curModel,
		Residues: make([]*Residue, 0, 25),
	}
	chain.Models = append(chain.Models, model)
	return model
}

// getResidue returns the residue an atom record belongs to, creating it if
// necessary. Records for a residue must be contiguous: an atom of a residue
// that already appeared earlier in the model is an anomaly.
//
// HETATM residues (waters, ligands) are keyed separately from ATOM residues,
// so they may reuse the sequence numbers of the polymer.
//
// A nil residue with a nil error means the record should be dropped.
func (p *pdbParser) getResidue(
	model *Model,
	name string,
	seqNum int,
	icode byte,
	het bool,
	altLoc byte,
) (*Residue, error) {
	if n := len(model.Residues); n > 0 {
		last := model.Residues[n-1]
		if last.SequenceNum == seqNum && last.InsertionCode == icode &&
			last.Het == het {
			if last.Name == name {
				return last, nil
			}
			// Point mutations show up as alternate residues sharing the
			// same sequence number. The first one wins.
			if altLoc != ' ' && altLoc != 0 {
				return nil, nil
			}
			return nil, p.anomaly("residue %s%d conflicts with %s",
				name, seqNum, last)
		}
	}
	for _, r := range model.Residues {
		if r.SequenceNum == seqNum && r.InsertionCode == icode && r.Het == het {
			return nil, p.anomaly("duplicate residue %s in chain %c",
				r, model.Chain.Ident)
		}
	}

	residue := &Residue{
		Name:          name,
		SequenceNum:   seqNum,
		InsertionCode: icode,
		Het:           het,
		Atoms:         make([]Atom, 0, 8),
	}
	model.Residues = append(model.Residues, residue)
	return residue, nil
}

// anomaly reports a problem with the current line. In strict mode, it
// becomes an error. Otherwise the record is counted as skipped.
func (p *pdbParser) anomaly(format string, v ...interface{}) error {
	msg := fmt.Sprintf(format, v...)
	if p.opts.Strict {
		return fmt.Errorf("Error on line %d of '%s': %s",
			p.lineNum, p.entry.Path, msg)
	}
	p.entry.Skipped++
	p.log.Debug("skipping PDB record",
		"path", p.entry.Path, "line", p.lineNum, "reason", msg)
	return nil
}

func (p *pdbParser) atoi(start, end int) (int, error) {
	return strconv.Atoi(p.cols(start, end))
}

func (p *pdbParser) atof(start, end int) (float64, error) {
	return strconv.ParseFloat(p.cols(start, end), 64)
}

// cols returns the trimmed text in the 1-indexed, inclusive column range
// given. Columns past the end of the line are empty.
func (p *pdbParser) cols(start, end int) string {
	rs, re := start-1, end
	if rs >= len(p.line) || rs < 0 {
		return ""
	}
	if re > len(p.line) {
		re = len(p.line)
	}
	if re < 0 || re < rs {
		return ""
	}
	return string(bytes.TrimSpace(p.line[rs:re]))
}

// at returns the byte at the 1-indexed column given, or a space if the line
// is too short.
func (p *pdbParser) at(column int) byte {
	i := column - 1
	if i < 0 || i >= len(p.line) {
		return ' '
	}
	return p.line[i]
}
