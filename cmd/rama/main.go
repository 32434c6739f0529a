// Command rama writes a Ramachandran plot for each PDB file given, and prints
// the statistics of each analysis to stdout.
//
// Files are analyzed in parallel by a fixed number of workers (--workers).
// The plot of 'x.pdb' (or 'x.ent', optionally compressed with gzip, zstd or
// lz4) is written to '<out-dir>/x_rama.png'.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/TuftsBCB/rama/analysis"
	"github.com/TuftsBCB/rama/config"
	"github.com/TuftsBCB/rama/fasta"
)

var (
	structureExts  = []string{".pdb", ".ent"}
	compressedExts = []string{".gz", ".zst", ".lz4"}
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(fs *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "Usage: rama [flags] pdb-file [ pdb-file ... ]\n")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// job is a single structure to analyze. Results are reported in the order
// of the jobs, regardless of the order in which workers finish them.
type job struct {
	index int
	file  string
	image string
}

type result struct {
	report *analysis.Report
	chains []fasta.Entry
	err    error
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("rama", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.Flags(fs)
	fs.Usage = func() { usage(fs, stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	lvl, _ := cfg.LogLevel()
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))

	if fs.NArg() < 1 {
		usage(fs, stderr)
		return 2
	}
	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		log.Error("could not create output directory",
			"dir", cfg.OutDir, "error", err)
		return 1
	}

	failed := false
	results := make([]result, fs.NArg())
	jobs := make([]job, 0, fs.NArg())
	seen := make(map[string]string, fs.NArg())
	for i, file := range fs.Args() {
		name, err := plotName(file)
		if err == nil {
			if other, ok := seen[name]; ok {
				err = fmt.Errorf("'%s' and '%s' would both be plotted to '%s'",
					other, file, name)
			}
		}
		if err != nil {
			results[i].err = err
			continue
		}
		seen[name] = file
		jobs = append(jobs, job{
			index: i,
			file:  file,
			image: filepath.Join(cfg.OutDir, name),
		})
	}

	analyzer := analysis.New(cfg.AnalysisOptions(log))
	process(jobs, cfg.Workers, results, func(j job) result {
		return analyze(analyzer, j, cfg)
	})

	var sequences []fasta.Entry
	for i, res := range results {
		if res.err != nil {
			failed = true
			log.Error("analysis failed",
				"structure", fs.Arg(i),
				"invalid_input", analysis.IsInvalidInput(res.err),
				"error", res.err)
			continue
		}
		sequences = append(sequences, res.chains...)
	}

	if err := writeReports(stdout, cfg.Format, results); err != nil {
		log.Error("could not write reports", "error", err)
		return 1
	}
	if cfg.Fasta != "" {
		if err := writeFasta(cfg.Fasta, sequences); err != nil {
			log.Error("could not write sequences", "path", cfg.Fasta, "error", err)
			return 1
		}
	}
	if failed {
		return 1
	}
	return 0
}

// process runs do on every job with a fixed pool of workers. The result of
// each job is stored at its index in results.
func process(jobs []job, workers int, results []result, do func(job) result) {
	if workers < 1 {
		workers = 1
	}
	queue := make(chan job, len(jobs))
	for _, j := range jobs {
		queue <- j
	}
	close(queue)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				results[j.index] = do(j)
			}
		}()
	}
	wg.Wait()
}

func analyze(a *analysis.Analyzer, j job, cfg *config.Config) result {
	report, err := a.Analyze(j.file, j.image)
	if err != nil {
		return result{err: err}
	}
	res := result{report: report}
	if cfg.Fasta != "" {
		res.chains = fasta.Chains(report.Entry)
	}
	return res
}

// plotName returns the base name of the plot for a structure file, or an
// error if the file does not have a structure file extension.
func plotName(file string) (string, error) {
	base := filepath.Base(file)
	if ext := filepath.Ext(base); slices.Contains(compressedExts, ext) {
		base = strings.TrimSuffix(base, ext)
	}
	ext := filepath.Ext(base)
	if !slices.Contains(structureExts, ext) {
		return "", fmt.Errorf("'%s' is not a .pdb or .ent file", file)
	}
	return strings.TrimSuffix(base, ext) + "_rama.png", nil
}

func writeReports(w io.Writer, format string, results []result) error {
	var reports []*analysis.Report
	for _, res := range results {
		if res.report != nil {
			reports = append(reports, res.report)
		}
	}

	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return enc.Close()
	case config.FormatText:
		for _, r := range reports {
			if _, err := fmt.Fprintln(w, textReport(r)); err != nil {
				return err
			}
		}
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func textReport(r *analysis.Report) string {
	return fmt.Sprintf("%s: %d residues, %d favored (%.2f%%), "+
		"%d allowed (%.2f%%), %d outliers (%.2f%%), "+
		"%.2f%% in allowed regions -> %s",
		r.Structure, r.TotalResidues,
		r.FavoredCount, r.FavoredPercentage,
		r.AllowedCount, r.AdditionallyAllowedPercentage,
		r.OutlierCount, r.OutlierPercentage,
		r.AllowedPercentage, r.Image)
}

func writeFasta(path string, entries []fasta.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fasta.NewWriter(f).WriteAll(entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
