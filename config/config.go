// Package config loads the settings of the rama command from flags, RAMA_*
// environment variables and an optional YAML file, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"

	"github.com/TuftsBCB/rama/analysis"
	"github.com/TuftsBCB/rama/kde"
	"github.com/TuftsBCB/rama/render"
)

// Output formats for reports.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

type Config struct {
	Strict  bool          `mapstructure:"strict" json:"strict"`
	Workers int           `mapstructure:"workers" json:"workers"`
	OutDir  string        `mapstructure:"out_dir" json:"out_dir"`
	Format  string        `mapstructure:"format" json:"format"`
	Fasta   string        `mapstructure:"fasta" json:"fasta"`
	Log     LogConfig     `mapstructure:"log" json:"log"`
	Density DensityConfig `mapstructure:"density" json:"density"`
	Render  RenderConfig  `mapstructure:"render" json:"render"`
}

type LogConfig struct {
	Level string `mapstructure:"level" json:"level"`
}

type DensityConfig struct {
	Bandwidth float64 `mapstructure:"bandwidth" json:"bandwidth"`
	GridSize  int     `mapstructure:"grid_size" json:"grid_size"`
}

type RenderConfig struct {
	DPI int `mapstructure:"dpi" json:"dpi"`

	// Size is the width and height of the plot in inches.
	Size float64 `mapstructure:"size" json:"size"`
}

// flags maps flag names to configuration keys.
var flags = map[string]string{
	"strict":    "strict",
	"workers":   "workers",
	"out-dir":   "out_dir",
	"format":    "format",
	"fasta":     "fasta",
	"log-level": "log.level",
	"bandwidth": "density.bandwidth",
	"grid-size": "density.grid_size",
	"dpi":       "render.dpi",
	"size":      "render.size",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("strict", false)
	v.SetDefault("workers", runtime.GOMAXPROCS(0))
	v.SetDefault("out_dir", ".")
	v.SetDefault("format", FormatJSON)
	v.SetDefault("fasta", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("density.bandwidth", kde.DefaultFactor)
	v.SetDefault("density.grid_size", kde.DefaultGridSize)
	v.SetDefault("render.dpi", render.DefaultOptions().DPI)
	v.SetDefault("render.size", float64(render.DefaultOptions().Size/vg.Inch))
}

// Flags registers the command line flags read by Load.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "",
		"YAML configuration file (default: rama.yaml in the working directory)")
	fs.Bool("strict", false,
		"Reject malformed coordinate records and degenerate densities.")
	fs.Int("workers", runtime.GOMAXPROCS(0),
		"Number of structures analyzed at once.")
	fs.String("out-dir", ".", "Directory to write plots to.")
	fs.String("format", FormatJSON, "Report format: json, yaml or text.")
	fs.String("fasta", "",
		"When set, the sequence of every chain analyzed is written here.")
	fs.String("log-level", "info", "One of debug, info, warn or error.")
	fs.Float64("bandwidth", kde.DefaultFactor, "Kernel density bandwidth factor.")
	fs.Int("grid-size", kde.DefaultGridSize, "Density grid points per axis.")
	fs.Int("dpi", render.DefaultOptions().DPI, "Resolution of the plots.")
	fs.Float64("size", float64(render.DefaultOptions().Size/vg.Inch),
		"Width and height of the plots in inches.")
}

// Load reads the configuration. fs must have been set up with Flags and
// parsed. A missing rama.yaml is not an error, but a missing file given
// with --config is.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RAMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flags {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	override, _ := fs.GetString("config")
	if override != "" {
		v.SetConfigFile(override)
	} else {
		v.SetConfigName("rama")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if override != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Format {
	case FormatJSON, FormatYAML, FormatText:
	default:
		return fmt.Errorf("invalid format %q: must be json, yaml or text",
			c.Format)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers %d: must be at least 1", c.Workers)
	}
	if c.Density.Bandwidth <= 0 {
		return fmt.Errorf("invalid density.bandwidth %f: must be positive",
			c.Density.Bandwidth)
	}
	if c.Density.GridSize < 2 {
		return fmt.Errorf("invalid density.grid_size %d: must be at least 2",
			c.Density.GridSize)
	}
	if c.Render.DPI < 1 {
		return fmt.Errorf("invalid render.dpi %d", c.Render.DPI)
	}
	if c.Render.Size <= 0 {
		return fmt.Errorf("invalid render.size %f", c.Render.Size)
	}
	return nil
}

func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}

// AnalysisOptions converts the configuration into options for an analyzer.
func (c *Config) AnalysisOptions(log *slog.Logger) analysis.Options {
	return analysis.Options{
		Strict:    c.Strict,
		Bandwidth: c.Density.Bandwidth,
		GridSize:  c.Density.GridSize,
		Render: render.Options{
			DPI:  c.Render.DPI,
			Size: vg.Length(c.Render.Size) * vg.Inch,
		},
		Logger: log,
	}
}
