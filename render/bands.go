package render

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/TuftsBCB/rama/kde"
)

// bands implements plot.Plotter by filling every grid cell with the color of
// its density band. Each grid point is the center of its cell; cells on the
// border are clipped to the grid's range. Neighboring cells in a row that
// share a band are filled as one rectangle.
type bands struct {
	grid *kde.Grid
}

func (b *bands) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	g := b.grid
	half := (kde.Hi - kde.Lo) / float64(g.N-1) / 2
	edge := func(i int, side float64) float64 {
		v := g.At(i) + side*half
		if v < kde.Lo {
			return kde.Lo
		}
		if v > kde.Hi {
			return kde.Hi
		}
		return v
	}

	for i := 0; i < g.N; i++ {
		x0, x1 := trX(edge(i, -1)), trX(edge(i, 1))
		start, cur := 0, band(g.Value(i, 0))
		for j := 1; j <= g.N; j++ {
			next := -1
			if j < g.N {
				next = band(g.Value(i, j))
			}
			if j < g.N && next == cur {
				continue
			}
			if cur >= 0 {
				y0, y1 := trY(edge(start, -1)), trY(edge(j-1, 1))
				c.FillPolygon(Colors[cur], []vg.Point{
					{X: x0, Y: y0}, {X: x1, Y: y0},
					{X: x1, Y: y1}, {X: x0, Y: y1},
				})
			}
			start, cur = j, next
		}
	}
}

// band returns the index into Colors for a normalized density, or -1 if the
// density is below the lowest level.
func band(v float64) int {
	k := -1
	for i, lvl := range Levels {
		if v >= lvl {
			k = i
		}
	}
	return k
}
