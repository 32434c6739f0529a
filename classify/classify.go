// Package classify sorts backbone dihedral samples into the favored, allowed
// and outlier regions of the Ramachandran plot.
package classify

import (
	"fmt"
	"math"

	"github.com/TuftsBCB/rama/dihedral"
)

type Region int

const (
	Favored Region = iota
	Allowed
	Outlier
)

func (r Region) String() string {
	switch r {
	case Favored:
		return "favored"
	case Allowed:
		return "allowed"
	case Outlier:
		return "outlier"
	}
	panic(fmt.Sprintf("Unknown region: %d", r))
}

// Box is a rectangle of phi/psi space, inclusive on all sides.
type Box struct {
	PhiMin, PhiMax float64
	PsiMin, PsiMax float64
}

func (b Box) Contains(phi, psi float64) bool {
	return phi >= b.PhiMin && phi <= b.PhiMax &&
		psi >= b.PsiMin && psi <= b.PsiMax
}

var (
	AlphaHelix = Box{PhiMin: -160, PhiMax: -40, PsiMin: -80, PsiMax: 45}
	BetaSheet  = Box{PhiMin: -180, PhiMax: -40, PsiMin: 90, PsiMax: 180}

	// GenerouslyAllowed leaves psi unconstrained.
	GenerouslyAllowed = Box{PhiMin: -180, PhiMax: -30, PsiMin: -180, PsiMax: 180}
)

// Classify returns the region of a single (phi, psi) pair. The boxes are
// tested in order: alpha helix, beta sheet, generously allowed. The first
// box containing the pair decides.
func Classify(phi, psi float64) Region {
	switch {
	case AlphaHelix.Contains(phi, psi):
		return Favored
	case BetaSheet.Contains(phi, psi):
		return Favored
	case GenerouslyAllowed.Contains(phi, psi):
		return Allowed
	}
	return Outlier
}

// Point is a (phi, psi) pair kept for plotting.
type Point struct {
	Phi, Psi float64
}

// Tally counts the samples in each region. The favored and outlier points
// are kept in the order of the samples; allowed points are only counted.
type Tally struct {
	Total         int
	Favored       int
	Allowed       int
	Outlier       int
	FavoredPoints []Point
	OutlierPoints []Point
}

// Count classifies every sample.
func Count(samples []dihedral.Sample) Tally {
	t := Tally{
		Total:         len(samples),
		FavoredPoints: make([]Point, 0),
		OutlierPoints: make([]Point, 0),
	}
	for _, s := range samples {
		switch Classify(s.Phi, s.Psi) {
		case Favored:
			t.Favored++
			t.FavoredPoints = append(t.FavoredPoints, Point{s.Phi, s.Psi})
		case Allowed:
			t.Allowed++
		case Outlier:
			t.Outlier++
			t.OutlierPoints = append(t.OutlierPoints, Point{s.Phi, s.Psi})
		}
	}
	return t
}

// FavoredPct is the percentage of samples in a favored region, rounded to
// two decimal places.
func (t Tally) FavoredPct() float64 {
	return Percent(t.Favored, t.Total)
}

// AllowedPct is the percentage of samples that are only generously allowed.
func (t Tally) AllowedPct() float64 {
	return Percent(t.Allowed, t.Total)
}

func (t Tally) OutlierPct() float64 {
	return Percent(t.Outlier, t.Total)
}

// AllowedPercentage is the percentage of samples that are favored or
// allowed. It is computed from the counts, not by summing the rounded
// percentages.
func (t Tally) AllowedPercentage() float64 {
	return Percent(t.Favored+t.Allowed, t.Total)
}

// Percent returns count/total*100 rounded to two decimal places.
// A zero total gives zero.
func Percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(count) / float64(total) * 100)
}

// Round2 rounds to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
