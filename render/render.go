// Package render draws Ramachandran plots: density bands from a normalized
// kernel density grid, classified points on top, and a panel of summary
// statistics to the right of the plot.
//
// Every call builds its own plot and canvas, so concurrent calls never share
// drawing state.
package render

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/TuftsBCB/rama/classify"
	"github.com/TuftsBCB/rama/kde"
)

const (
	Title  = "Ramachandran Plot"
	XLabel = "Phi (degrees)"
	YLabel = "Psi (degrees)"

	// Marker sizes are areas in square points, as in matplotlib's scatter.
	FavoredMarker = 10
	OutlierMarker = 25
)

var (
	// Levels are the lower bounds of the density bands. A grid value v is
	// drawn in Colors[k] for the largest k with v >= Levels[k]; values below
	// Levels[0] are not drawn.
	Levels = []float64{0.02, 0.08, 0.20, 0.40, 1.0}
	Colors = []color.Color{
		color.RGBA{R: 0xff, G: 0xf9, B: 0xcc, A: 0xff},
		color.RGBA{R: 0xff, G: 0xff, B: 0x66, A: 0xff},
		color.RGBA{R: 0xff, G: 0xcc, B: 0x00, A: 0xff},
		color.RGBA{R: 0xff, G: 0x99, B: 0x33, A: 0xff},
		color.RGBA{R: 0xcc, G: 0x00, B: 0x00, A: 0xff},
	}

	FavoredColor = color.Black
	OutlierColor = color.RGBA{R: 0xff, A: 0xff}
)

// Options controls the size of the output image.
type Options struct {
	// DPI is the resolution of the PNG.
	DPI int

	// Size is the width and height of the square plot. The statistics
	// panel is added to the right of it.
	Size vg.Length
}

// DefaultOptions returns 300 DPI and an 8 inch plot.
func DefaultOptions() Options {
	return Options{DPI: 300, Size: 8 * vg.Inch}
}

func (opts Options) withDefaults() Options {
	def := DefaultOptions()
	if opts.DPI <= 0 {
		opts.DPI = def.DPI
	}
	if opts.Size <= 0 {
		opts.Size = def.Size
	}
	return opts
}

// Stats are the percentages shown next to the plot.
type Stats struct {
	Favored float64
	Allowed float64
	Outlier float64
}

func (s Stats) String() string {
	return fmt.Sprintf("Most Favoured: %s%%\n"+
		"Additionally Allowed: %s%%\n"+
		"Outliers: %s%%\n"+
		"\n"+
		"Black dots = Low steric hindrance\n"+
		"Red dots = High steric hindrance",
		percent(s.Favored), percent(s.Allowed), percent(s.Outlier))
}

// percent formats an already rounded percentage with as few digits as
// needed, but always with a fractional part: 100.0, 33.33, 0.5.
func percent(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Figure is everything drawn in a Ramachandran plot. A nil Density draws no
// bands.
type Figure struct {
	Density  *kde.Grid
	Favored  []classify.Point
	Outliers []classify.Point
	Stats    Stats
}

// NewFigure builds a figure from a density grid and a classification tally.
func NewFigure(density *kde.Grid, t classify.Tally) Figure {
	return Figure{
		Density:  density,
		Favored:  t.FavoredPoints,
		Outliers: t.OutlierPoints,
		Stats: Stats{
			Favored: t.FavoredPct(),
			Allowed: t.AllowedPct(),
			Outlier: t.OutlierPct(),
		},
	}
}

// Render draws the figure and writes it to w as a PNG.
func Render(w io.Writer, fig Figure, opts Options) error {
	opts = opts.withDefaults()

	p, err := newPlot(fig)
	if err != nil {
		return err
	}

	sty := p.Title.TextStyle
	sty.Font.Size = vg.Points(11)
	sty.XAlign = text.XLeft
	sty.YAlign = text.YCenter
	block := fig.Stats.String()
	pad := vg.Points(12)
	panel := sty.Width(block) + 2*pad

	c := vgimg.NewWith(
		vgimg.UseWH(opts.Size+panel, opts.Size),
		vgimg.UseDPI(opts.DPI))
	dc := draw.New(c)
	p.Draw(draw.Crop(dc, 0, -panel, 0, 0))
	dc.FillText(sty, vg.Point{X: dc.Max.X - panel + pad, Y: dc.Center().Y}, block)

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("Could not encode PNG: %s", err)
	}
	return nil
}

// WriteFile renders the figure to a PNG at path. The image is written to a
// temporary file in the same directory and renamed over path, so a failed
// write never leaves a partial image behind.
func WriteFile(path string, fig Figure, opts Options) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	buf := bufio.NewWriter(f)
	if err = Render(buf, fig, opts); err != nil {
		return err
	}
	if err = buf.Flush(); err != nil {
		return err
	}
	if err = f.Chmod(0644); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

func newPlot(fig Figure) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = Title
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel

	if fig.Density != nil {
		p.Add(&bands{fig.Density})
	}

	grid := plotter.NewGrid()
	grid.Vertical.Width = vg.Points(0.3)
	grid.Vertical.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Horizontal = grid.Vertical
	p.Add(grid)

	ref := draw.LineStyle{Color: color.Black, Width: vg.Points(0.6)}
	for _, xys := range []plotter.XYs{
		{{X: kde.Lo, Y: 0}, {X: kde.Hi, Y: 0}},
		{{X: 0, Y: kde.Lo}, {X: 0, Y: kde.Hi}},
	} {
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		l.LineStyle = ref
		p.Add(l)
	}

	if err := addPoints(p, fig.Favored, FavoredColor, FavoredMarker); err != nil {
		return nil, err
	}
	if err := addPoints(p, fig.Outliers, OutlierColor, OutlierMarker); err != nil {
		return nil, err
	}

	// Fixed after adding the plotters, which would otherwise widen the
	// axes to fit their data.
	ticks := axisTicks()
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Min, ax.Max = kde.Lo, kde.Hi
		ax.Padding = 0
		ax.Tick.Marker = ticks
	}
	return p, nil
}

func addPoints(p *plot.Plot, pts []classify.Point, c color.Color, size float64) error {
	if len(pts) == 0 {
		return nil
	}
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i].X, xys[i].Y = pt.Phi, pt.Psi
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	s.GlyphStyle = draw.GlyphStyle{
		Color:  c,
		Radius: markerRadius(size),
		Shape:  draw.CircleGlyph{},
	}
	p.Add(s)
	return nil
}

// markerRadius converts a marker area to a circle radius. The marker's
// diameter is the square root of its area.
func markerRadius(area float64) vg.Length {
	return vg.Points(math.Sqrt(area) / 2)
}

func axisTicks() plot.ConstantTicks {
	var ticks plot.ConstantTicks
	for v := -180; v <= 180; v += 60 {
		ticks = append(ticks, plot.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	return ticks
}
