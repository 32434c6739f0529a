package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func load(t *testing.T, args ...string) (*Config, error) {
	fs := pflag.NewFlagSet("rama", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse(args))
	return Load(fs)
}

func TestDefaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)

	require.False(t, cfg.Strict)
	require.Equal(t, runtime.GOMAXPROCS(0), cfg.Workers)
	require.Equal(t, ".", cfg.OutDir)
	require.Equal(t, FormatJSON, cfg.Format)
	require.Empty(t, cfg.Fasta)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 0.15, cfg.Density.Bandwidth)
	require.Equal(t, 300, cfg.Density.GridSize)
	require.Equal(t, 300, cfg.Render.DPI)
	require.Equal(t, 8.0, cfg.Render.Size)

	opts := cfg.AnalysisOptions(nil)
	require.Equal(t, 0.15, opts.Bandwidth)
	require.Equal(t, 300, opts.GridSize)
	require.Equal(t, 300, opts.Render.DPI)
	require.Equal(t, 8*vg.Inch, opts.Render.Size)
}

func TestEnv(t *testing.T) {
	t.Setenv("RAMA_STRICT", "true")
	t.Setenv("RAMA_WORKERS", "3")
	t.Setenv("RAMA_FORMAT", "yaml")
	t.Setenv("RAMA_DENSITY_GRID_SIZE", "100")
	t.Setenv("RAMA_LOG_LEVEL", "debug")

	cfg, err := load(t)
	require.NoError(t, err)
	require.True(t, cfg.Strict)
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, FormatYAML, cfg.Format)
	require.Equal(t, 100, cfg.Density.GridSize)

	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, lvl)
}

func TestFlagsOverEnv(t *testing.T) {
	t.Setenv("RAMA_WORKERS", "3")
	t.Setenv("RAMA_OUT_DIR", "/env")

	cfg, err := load(t, "--workers", "5", "--grid-size", "50", "--size", "4")
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Workers)
	require.Equal(t, "/env", cfg.OutDir)
	require.Equal(t, 50, cfg.Density.GridSize)
	require.Equal(t, 4.0, cfg.Render.Size)
}

func TestConfigFile(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(fp, []byte(`
format: text
out_dir: plots
density:
  bandwidth: 0.3
render:
  dpi: 72
`), 0644))
	t.Setenv("RAMA_RENDER_DPI", "96")

	cfg, err := load(t, "--config", fp)
	require.NoError(t, err)
	require.Equal(t, FormatText, cfg.Format)
	require.Equal(t, "plots", cfg.OutDir)
	require.Equal(t, 0.3, cfg.Density.Bandwidth)
	require.Equal(t, 96, cfg.Render.DPI)
	require.Equal(t, 300, cfg.Density.GridSize)

	_, err = load(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	_, err := load(t, "--format", "xml")
	require.ErrorContains(t, err, "format")

	_, err = load(t, "--bandwidth", "0")
	require.ErrorContains(t, err, "bandwidth")

	_, err = load(t, "--grid-size", "1")
	require.ErrorContains(t, err, "grid_size")

	_, err = load(t, "--log-level", "loud")
	require.ErrorContains(t, err, "log.level")

	_, err = load(t, "--workers", "0")
	require.ErrorContains(t, err, "workers")
}
