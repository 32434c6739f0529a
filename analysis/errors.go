package analysis

import (
	"errors"
	"fmt"
)

// ParseError is returned when a structure file cannot be read as a PDB file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Could not parse structure '%s': %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// EmptyResultError is returned when a structure was read but no residue has
// a complete backbone with peptide bonded neighbors on both sides.
type EmptyResultError struct {
	Path string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("No backbone dihedral angles could be computed "+
		"for '%s'.", e.Path)
}

// DensityError is returned when no kernel density estimate can be fit to the
// samples. It wraps kde.ErrTooFewSamples or kde.ErrDegenerate.
type DensityError struct {
	Samples int
	Err     error
}

func (e *DensityError) Error() string {
	return fmt.Sprintf("Could not estimate the density of %d samples: %s",
		e.Samples, e.Err)
}

func (e *DensityError) Unwrap() error {
	return e.Err
}

// IOError is returned when the plot cannot be written.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("Could not write plot '%s': %s", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsInvalidInput returns true when err was caused by the structure given
// rather than by a failure of the analysis itself.
func IsInvalidInput(err error) bool {
	var (
		parse   *ParseError
		empty   *EmptyResultError
		density *DensityError
	)
	return errors.As(err, &parse) ||
		errors.As(err, &empty) ||
		errors.As(err, &density)
}
