package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/TuftsBCB/rama/pdb"
)

// DefaultColumns is the width at which a Writer wraps sequences.
const DefaultColumns = 60

// An Entry is a single line header and a sequence, which may have been
// spread over several lines in the file it was read from.
type Entry struct {
	Header   string
	Sequence []byte
}

func (e Entry) String() string {
	return e.StringCols(DefaultColumns)
}

// StringCols formats the entry with the sequence wrapped at cols columns.
// If cols is <= 0, the sequence is written on a single line.
func (e Entry) StringCols(cols int) string {
	var b strings.Builder
	b.WriteByte('>')
	b.WriteString(e.Header)
	if cols <= 0 {
		b.WriteByte('\n')
		b.Write(e.Sequence)
		return b.String()
	}
	for start := 0; start < len(e.Sequence); start += cols {
		end := start + cols
		if end > len(e.Sequence) {
			end = len(e.Sequence)
		}
		b.WriteByte('\n')
		b.Write(e.Sequence[start:end])
	}
	return b.String()
}

// Chains returns an entry for every chain in a PDB entry that has at least one
// amino acid. The header is the id code followed by the chain identifier, and
// the sequence is taken from the ATOM records of the chain's first model.
//
// When the PDB entry has no id code, the base name of its path is used.
func Chains(e *pdb.Entry) []Entry {
	id := e.IdString()
	if len(id) == 0 {
		base := filepath.Base(e.Path)
		id = strings.TrimSuffix(base, filepath.Ext(base))
	}

	entries := make([]Entry, 0, len(e.Chains))
	for _, c := range e.Chains {
		s := c.Sequence()
		if len(s) == 0 {
			continue
		}
		entries = append(entries, Entry{
			Header:   fmt.Sprintf("%s%c", id, c.Ident),
			Sequence: s,
		})
	}
	return entries
}

// A Reader reads entries from FASTA encoded input. It is not safe for
// concurrent use.
type Reader struct {
	buf  *bufio.Scanner
	line int

	// The header of the next entry, if it has already been read.
	next string
	more bool
}

func NewReader(r io.Reader) *Reader {
	return &Reader{buf: bufio.NewScanner(r)}
}

// ReadAll reads every remaining entry. Reading stops at the first error.
func (r *Reader) ReadAll() ([]Entry, error) {
	var entries []Entry
	for {
		entry, err := r.Read()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}

// Read returns the next entry, or io.EOF when there are no more.
// Blank lines and surrounding whitespace are ignored.
func (r *Reader) Read() (Entry, error) {
	var entry Entry
	if r.more {
		entry.Header, r.more = r.next, false
	} else {
		line, ok := r.nextLine()
		if !ok {
			if err := r.buf.Err(); err != nil {
				return Entry{}, err
			}
			return Entry{}, io.EOF
		}
		if line[0] != '>' {
			return Entry{}, fmt.Errorf("Error on line %d: expected '>', "+
				"got '%c'.", r.line, line[0])
		}
		entry.Header = trimHeader(line)
	}

	for {
		line, ok := r.nextLine()
		if !ok {
			return entry, r.buf.Err()
		}
		if line[0] == '>' {
			r.next, r.more = trimHeader(line), true
			return entry, nil
		}
		for _, b := range line {
			up, ok := translate(b)
			if !ok {
				return Entry{}, fmt.Errorf("Error on line %d: invalid "+
					"character '%c'.", r.line, b)
			}
			entry.Sequence = append(entry.Sequence, up)
		}
	}
}

// nextLine returns the next non-blank line with whitespace trimmed.
func (r *Reader) nextLine() ([]byte, bool) {
	for r.buf.Scan() {
		r.line++
		if line := bytes.TrimSpace(r.buf.Bytes()); len(line) > 0 {
			return line, true
		}
	}
	return nil, false
}

func translate(b byte) (byte, bool) {
	switch {
	case b >= 'a' && b <= 'z':
		return b - 'a' + 'A', true
	case b >= 'A' && b <= 'Z', b == '*', b == '-':
		return b, true
	}
	return 0, false
}

func trimHeader(line []byte) string {
	return string(bytes.TrimSpace(line[1:]))
}

// A Writer writes FASTA entries. Headers are never wrapped.
type Writer struct {
	// Columns is the width at which sequences are wrapped. A value <= 0
	// disables wrapping.
	Columns int
	buf     *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{Columns: DefaultColumns, buf: bufio.NewWriter(w)}
}

// Write buffers a single entry. Call Flush when done.
func (w *Writer) Write(entry Entry) error {
	if _, err := w.buf.WriteString(entry.StringCols(w.Columns)); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// WriteAll writes every entry and flushes.
func (w *Writer) WriteAll(entries []Entry) error {
	for _, entry := range entries {
		if err := w.Write(entry); err != nil {
			return err
		}
	}
	return w.Flush()
}
