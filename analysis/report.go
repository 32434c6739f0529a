package analysis

import (
	"github.com/TuftsBCB/rama/classify"
	"github.com/TuftsBCB/rama/pdb"
)

// Report is the result of analyzing one structure. The counts always satisfy
// FavoredCount + AllowedCount + OutlierCount == TotalResidues.
type Report struct {
	TotalResidues     int     `json:"total_residues" yaml:"total_residues"`
	FavoredCount      int     `json:"favored_count" yaml:"favored_count"`
	AllowedCount      int     `json:"allowed_count" yaml:"allowed_count"`
	OutlierCount      int     `json:"outlier_count" yaml:"outlier_count"`
	AllowedPercentage float64 `json:"allowed_percentage" yaml:"allowed_percentage"`

	FavoredPercentage             float64 `json:"favored_percentage" yaml:"favored_percentage"`
	AdditionallyAllowedPercentage float64 `json:"additionally_allowed_percentage" yaml:"additionally_allowed_percentage"`
	OutlierPercentage             float64 `json:"outlier_percentage" yaml:"outlier_percentage"`

	Structure string `json:"structure,omitempty" yaml:"structure,omitempty"`
	Digest    string `json:"digest,omitempty" yaml:"digest,omitempty"`
	Image     string `json:"image,omitempty" yaml:"image,omitempty"`

	// Skipped counts the coordinate records dropped while parsing.
	Skipped int `json:"skipped_records" yaml:"skipped_records"`

	// Density is false when the plot was drawn without density bands.
	Density bool `json:"density" yaml:"density"`

	// Entry is the structure the report was computed from.
	Entry *pdb.Entry `json:"-" yaml:"-"`
}

// NewReport packages the counts and percentages of a tally.
func NewReport(t classify.Tally) *Report {
	return &Report{
		TotalResidues:                 t.Total,
		FavoredCount:                  t.Favored,
		AllowedCount:                  t.Allowed,
		OutlierCount:                  t.Outlier,
		AllowedPercentage:             t.AllowedPercentage(),
		FavoredPercentage:             t.FavoredPct(),
		AdditionallyAllowedPercentage: t.AllowedPct(),
		OutlierPercentage:             t.OutlierPct(),
	}
}
