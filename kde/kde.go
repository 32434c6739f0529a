// Package kde fits a two dimensional Gaussian kernel density estimate to
// (phi, psi) samples and evaluates it on a regular grid.
//
// The estimate is the same as scipy.stats.gaussian_kde with a scalar
// bandwidth factor: the kernel covariance is the (unbiased) covariance of the
// samples scaled by the square of the factor.
package kde

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultFactor is the bandwidth factor used for Ramachandran plots.
	DefaultFactor = 0.15

	// DefaultGridSize is the number of grid points along each axis.
	DefaultGridSize = 300

	// The grid always spans [Lo, Hi] on both axes, inclusive.
	Lo = -180.0
	Hi = 180.0
)

var (
	ErrTooFewSamples = errors.New("kde: at least two samples are required")
	ErrDegenerate    = errors.New("kde: samples have a singular covariance")
)

// Estimator is a fitted kernel density estimate.
type Estimator struct {
	phi, psi []float64

	// The inverse of the kernel covariance is [[ia, ib], [ib, ic]].
	ia, ib, ic float64
	norm       float64

	// Cov is the kernel covariance.
	Cov *mat.SymDense
}

// Fit fits a kernel density estimate to the samples given as parallel phi and
// psi slices. ErrTooFewSamples is returned for fewer than two samples, and
// ErrDegenerate when the kernel covariance is not positive definite (e.g.,
// every sample is the same, or all samples lie on a line).
func Fit(phi, psi []float64, factor float64) (*Estimator, error) {
	if len(phi) != len(psi) {
		return nil, fmt.Errorf("kde: %d phi values but %d psi values",
			len(phi), len(psi))
	}
	n := len(phi)
	if n < 2 {
		return nil, ErrTooFewSamples
	}
	if factor <= 0 {
		return nil, fmt.Errorf("kde: bandwidth factor must be positive, "+
			"but got %f", factor)
	}

	data := mat.NewDense(n, 2, nil)
	for i := range phi {
		data.Set(i, 0, phi[i])
		data.Set(i, 1, psi[i])
	}
	cov := new(mat.SymDense)
	stat.CovarianceMatrix(cov, data, nil)
	cov.ScaleSym(factor*factor, cov)

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return nil, ErrDegenerate
	}
	det := chol.Det()
	if !(det > 0) || math.IsInf(det, 0) {
		return nil, ErrDegenerate
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, ErrDegenerate
	}

	return &Estimator{
		phi:  append([]float64(nil), phi...),
		psi:  append([]float64(nil), psi...),
		ia:   inv.At(0, 0),
		ib:   inv.At(0, 1),
		ic:   inv.At(1, 1),
		norm: 1 / (float64(n) * 2 * math.Pi * math.Sqrt(det)),
		Cov:  cov,
	}, nil
}

// Len returns the number of samples the estimate was fit to.
func (e *Estimator) Len() int {
	return len(e.phi)
}

// Evaluate returns the density at (phi, psi).
func (e *Estimator) Evaluate(phi, psi float64) float64 {
	sum := 0.0
	for i := range e.phi {
		dx, dy := phi-e.phi[i], psi-e.psi[i]
		sum += math.Exp(-0.5 * (e.ia*dx*dx + 2*e.ib*dx*dy + e.ic*dy*dy))
	}
	return sum * e.norm
}

// Grid is an N x N grid of densities over [Lo, Hi] x [Lo, Hi].
// Values are stored row-major with phi as the row.
type Grid struct {
	N      int
	Values []float64
}

// At returns the phi (or psi) coordinate of the i'th grid line.
func (g *Grid) At(i int) float64 {
	return Lo + (Hi-Lo)*float64(i)/float64(g.N-1)
}

// Value returns the density at the i'th phi and j'th psi grid line.
func (g *Grid) Value(i, j int) float64 {
	return g.Values[i*g.N+j]
}

// Max returns the largest value in the grid.
func (g *Grid) Max() float64 {
	max := math.Inf(-1)
	for _, v := range g.Values {
		if v > max {
			max = v
		}
	}
	return max
}

// Grid evaluates the estimate on an n x n grid and normalizes the result so
// that its largest value is exactly 1. Rows are evaluated by at most workers
// goroutines; if workers < 1, GOMAXPROCS is used.
func (e *Estimator) Grid(n, workers int) (*Grid, error) {
	if n < 2 {
		return nil, fmt.Errorf("kde: grid size must be at least 2, "+
			"but got %d", n)
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	g := &Grid{N: n, Values: make([]float64, n*n)}
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			phi := g.At(i)
			row := g.Values[i*n : (i+1)*n]
			for j := range row {
				row[j] = e.Evaluate(phi, g.At(j))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := g.normalize(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Grid) normalize() error {
	max := g.Max()
	if !(max > 0) || math.IsInf(max, 0) {
		return ErrDegenerate
	}
	for i := range g.Values {
		g.Values[i] /= max
	}
	return nil
}
