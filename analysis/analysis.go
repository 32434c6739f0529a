// Package analysis runs a complete Ramachandran analysis of a structure file:
// it reads the structure, computes backbone dihedral angles, classifies them,
// estimates their density and writes a plot.
package analysis

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/TuftsBCB/rama/classify"
	"github.com/TuftsBCB/rama/dihedral"
	"github.com/TuftsBCB/rama/kde"
	"github.com/TuftsBCB/rama/pdb"
	"github.com/TuftsBCB/rama/render"
)

// Options controls an Analyzer. Zero values are replaced with the
// corresponding values from DefaultOptions.
type Options struct {
	// In strict mode, malformed coordinate records are errors, and so is a
	// sample set that no density can be fit to. Otherwise, bad records are
	// skipped and the plot is drawn without density bands.
	Strict bool

	// Bandwidth is the kernel density bandwidth factor.
	Bandwidth float64

	// GridSize is the number of density grid points along each axis.
	GridSize int

	// Workers bounds the goroutines evaluating the density grid.
	Workers int

	Render render.Options
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Bandwidth: kde.DefaultFactor,
		GridSize:  kde.DefaultGridSize,
		Workers:   runtime.GOMAXPROCS(0),
		Render:    render.DefaultOptions(),
	}
}

// Analyzer runs analyses with a fixed set of options. It is safe for
// concurrent use, as long as concurrent analyses write different images.
type Analyzer struct {
	opts Options
	log  *slog.Logger
}

func New(opts Options) *Analyzer {
	def := DefaultOptions()
	if opts.Bandwidth <= 0 {
		opts.Bandwidth = def.Bandwidth
	}
	if opts.GridSize <= 0 {
		opts.GridSize = def.GridSize
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.Render.DPI <= 0 {
		opts.Render.DPI = def.Render.DPI
	}
	if opts.Render.Size <= 0 {
		opts.Render.Size = def.Render.Size
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{opts: opts, log: log}
}

// Analyze analyzes a structure with the default options.
func Analyze(structurePath, imagePath string) (*Report, error) {
	return New(DefaultOptions()).Analyze(structurePath, imagePath)
}

// Analyze reads the structure at structurePath, writes its Ramachandran plot
// to imagePath as a PNG and returns the statistics of the classification.
//
// The error returned is a *ParseError, *EmptyResultError, *DensityError or
// *IOError. A *DensityError is only returned when Options.Strict is set;
// otherwise the plot is drawn without density bands and Report.Density is
// false. No image is written unless the report is returned.
func (a *Analyzer) Analyze(structurePath, imagePath string) (*Report, error) {
	start := time.Now()
	log := a.log.With("run", uuid.NewString(), "structure", structurePath)

	entry, err := pdb.Read(structurePath, pdb.Options{
		Strict: a.opts.Strict,
		Logger: log,
	})
	if err != nil {
		return nil, &ParseError{Path: structurePath, Err: err}
	}
	if entry.Skipped > 0 {
		log.Warn("skipped malformed coordinate records", "count", entry.Skipped)
	}

	samples := dihedral.Extract(entry)
	if len(samples) == 0 {
		return nil, &EmptyResultError{Path: structurePath}
	}
	tally := classify.Count(samples)

	grid, err := a.density(samples)
	if err != nil {
		if a.opts.Strict {
			return nil, err
		}
		log.Warn("drawing plot without density bands", "error", err)
	}

	fig := render.NewFigure(grid, tally)
	if err := render.WriteFile(imagePath, fig, a.opts.Render); err != nil {
		return nil, &IOError{Path: imagePath, Err: err}
	}

	r := NewReport(tally)
	r.Structure = structurePath
	r.Digest = fmt.Sprintf("%016x", entry.Digest)
	r.Image = imagePath
	r.Skipped = entry.Skipped
	r.Density = grid != nil
	r.Entry = entry

	log.Info("analysis complete",
		"residues", r.TotalResidues,
		"favored", r.FavoredCount,
		"allowed", r.AllowedCount,
		"outliers", r.OutlierCount,
		"image", imagePath,
		"elapsed", time.Since(start))
	return r, nil
}

func (a *Analyzer) density(samples []dihedral.Sample) (*kde.Grid, error) {
	phi, psi := dihedral.Split(samples)
	est, err := kde.Fit(phi, psi, a.opts.Bandwidth)
	if err != nil {
		return nil, &DensityError{Samples: len(samples), Err: err}
	}
	grid, err := est.Grid(a.opts.GridSize, a.opts.Workers)
	if err != nil {
		return nil, &DensityError{Samples: len(samples), Err: err}
	}
	return grid, nil
}
