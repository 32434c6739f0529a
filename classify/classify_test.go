package classify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TuftsBCB/rama/dihedral"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		phi, psi float64
		want     Region
	}{
		// Inside the alpha helix box, which is also generously allowed.
		{-60, -45, Favored},
		{-160, -45, Favored},
		{-40, 45, Favored},
		{-160, -80, Favored},

		// Just outside the alpha helix box.
		{-161, -45, Allowed},
		{-39, -45, Allowed},
		{-60, 46, Allowed},
		{-60, -81, Allowed},

		// Beta sheet.
		{-120, 130, Favored},
		{-180, 180, Favored},
		{-40, 90, Favored},
		{-120, 89, Allowed},

		// Generously allowed edges.
		{-30, 0, Allowed},
		{-35, 179, Allowed},
		{-180, -180, Allowed},

		// Outliers.
		{-29.99, 0, Outlier},
		{0, 0, Outlier},
		{60, 45, Outlier},
		{180, 180, Outlier},
	}
	for _, test := range tests {
		got := Classify(test.phi, test.psi)
		require.Equal(t, test.want, got, "(%v, %v)", test.phi, test.psi)
	}
}

func TestCount(t *testing.T) {
	samples := []dihedral.Sample{
		{Phi: -60, Psi: -45},
		{Phi: 60, Psi: 45},
		{Phi: -120, Psi: 130},
		{Phi: -90, Psi: 70},
		{Phi: 0, Psi: 0},
		{Phi: -65, Psi: -40},
	}
	tally := Count(samples)

	require.Equal(t, 6, tally.Total)
	require.Equal(t, 3, tally.Favored)
	require.Equal(t, 1, tally.Allowed)
	require.Equal(t, 2, tally.Outlier)
	require.Equal(t, tally.Total, tally.Favored+tally.Allowed+tally.Outlier)

	require.Equal(t, []Point{{-60, -45}, {-120, 130}, {-65, -40}},
		tally.FavoredPoints)
	require.Equal(t, []Point{{60, 45}, {0, 0}}, tally.OutlierPoints)

	require.Equal(t, 50.0, tally.FavoredPct())
	require.Equal(t, 16.67, tally.AllowedPct())
	require.Equal(t, 33.33, tally.OutlierPct())
	require.Equal(t, 66.67, tally.AllowedPercentage())
}

func TestCountSingleOutlier(t *testing.T) {
	tally := Count([]dihedral.Sample{{Phi: 0, Psi: 0}})
	require.Equal(t, 1, tally.Outlier)
	require.Equal(t, []Point{{0, 0}}, tally.OutlierPoints)
	require.Empty(t, tally.FavoredPoints)
	require.Equal(t, 0.0, tally.AllowedPercentage())
	require.Equal(t, 100.0, tally.OutlierPct())
}

func TestCountEmpty(t *testing.T) {
	tally := Count(nil)
	require.Zero(t, tally.Total)
	require.Zero(t, tally.FavoredPct())
	require.Zero(t, tally.AllowedPercentage())
}

func TestPercentRounding(t *testing.T) {
	// Independent rounding: 3 x 33.33 != 100.
	tally := Tally{Total: 3, Favored: 1, Allowed: 1, Outlier: 1}
	require.Equal(t, 33.33, tally.FavoredPct())
	require.Equal(t, 33.33, tally.AllowedPct())
	require.Equal(t, 33.33, tally.OutlierPct())
	require.Equal(t, 66.67, tally.AllowedPercentage())

	require.Equal(t, 14.29, Percent(1, 7))
	require.Equal(t, 85.71, Percent(6, 7))
	require.Equal(t, 100.0, Percent(7, 7))
}

func ExampleClassify() {
	for _, pair := range [][2]float64{{-60, -45}, {-161, -45}, {0, 0}} {
		fmt.Printf("(%v, %v) %s\n", pair[0], pair[1], Classify(pair[0], pair[1]))
	}

	// Output:
	// (-60, -45) favored
	// (-161, -45) allowed
	// (0, 0) outlier
}
