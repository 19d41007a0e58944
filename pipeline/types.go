package pipeline

import "time"

const (
	// FeatureFormatVersion identifies the on-disk schema for feature exports.
	FeatureFormatVersion = "gait_features_v1"
)

// Options configures the gait_analyze pipeline.
type Options struct {
	OutDir    string
	Format    string // parquet|csv
	Overwrite bool
}

// Result returns generated output paths.
type Result struct {
	OutputDir       string `json:"output_dir"`
	ManifestPath    string `json:"manifest_path"`
	FeaturesPath    string `json:"features_path"`
	FeatureRowsPath string `json:"feature_rows_path"`
	SummaryPath     string `json:"summary_path"`
	RowCount        int    `json:"row_count"`
}

// FeatureRow is one long-format feature value. Value is omitted when the
// feature is undefined for the cycle (Valid false).
type FeatureRow struct {
	Calculator string   `json:"calculator"`
	Context    string   `json:"context"`
	Cycle      int      `json:"cycle"`
	Feature    string   `json:"feature"`
	Value      *float64 `json:"value,omitempty"`
	Valid      bool     `json:"valid"`
}

// Manifest captures pipeline metadata and pointers to generated files.
type Manifest struct {
	FormatVersion   string    `json:"format_version"`
	GeneratedAt     time.Time `json:"generated_at"`
	Calculators     []string  `json:"calculators"`
	ContextCount    int       `json:"context_count"`
	CycleCount      int       `json:"cycle_count"`
	RowCount        int       `json:"row_count"`
	FeaturesPath    string    `json:"features_path"`
	FeatureRowsPath string    `json:"feature_rows_path"`
	SummaryPath     string    `json:"summary_path"`
}
