package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	gaitnotes "github.com/gaitlab/gait-analyzer"
	"github.com/gaitlab/gait-analyzer/features"
	"github.com/gaitlab/gait-analyzer/mapping"
	"github.com/gaitlab/gait-analyzer/model"
)

type calculatorEntry struct {
	name string
	calc features.Calculator
}

func calculatorOrder(cfg *mapping.Config) []calculatorEntry {
	return []calculatorEntry{
		{name: "time_series", calc: features.TimeSeriesFeatures{}},
		{name: "phase_time_series", calc: features.PhaseTimeSeriesFeatures{}},
		{name: "temporal", calc: features.TemporalFeatures{}},
		{name: "spatial", calc: features.NewSpatialFeatures(cfg)},
	}
}

// Run executes every calculator over the segmented trial and writes all
// artifacts into the output directory.
func Run(cycles *model.TrialCycles, cfg *mapping.Config, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "parquet"
	}
	if format != "parquet" && format != "csv" {
		return nil, fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
	}
	if err := prepareOutputDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}

	entries := calculatorOrder(cfg)
	names := make([]string, 0, len(entries))
	rows := make([]FeatureRow, 0, 256)
	for _, entry := range entries {
		names = append(names, entry.name)
		result, err := features.Calculate(entry.calc, cycles)
		if err != nil {
			return nil, fmt.Errorf("run %s calculator: %w", entry.name, err)
		}
		flat, err := flattenResult(entry.name, result)
		if err != nil {
			return nil, fmt.Errorf("flatten %s result: %w", entry.name, err)
		}
		rows = append(rows, flat...)
	}

	featuresPath := filepath.Join(opts.OutDir, "features."+format)
	switch format {
	case "csv":
		if err := writeFeaturesCSV(featuresPath, rows); err != nil {
			return nil, fmt.Errorf("write features csv: %w", err)
		}
	case "parquet":
		if err := writeFeaturesParquet(featuresPath, rows); err != nil {
			return nil, fmt.Errorf("write features parquet: %w", err)
		}
	}

	rowsPath := filepath.Join(opts.OutDir, "features.jsonl")
	if err := writeFeatureJSONL(rowsPath, rows); err != nil {
		return nil, fmt.Errorf("write features.jsonl: %w", err)
	}

	analysis, err := gaitnotes.AnalyzeCycles(cycles, cfg)
	if err != nil {
		return nil, fmt.Errorf("analyze cycles: %w", err)
	}
	summaryPath := filepath.Join(opts.OutDir, "summary.json")
	if err := writeJSON(summaryPath, analysis); err != nil {
		return nil, fmt.Errorf("write summary.json: %w", err)
	}

	cycleCount := 0
	for _, context := range cycles.Contexts() {
		cycleCount += len(cycles.CycleIDs(context))
	}
	manifest := Manifest{
		FormatVersion:   FeatureFormatVersion,
		GeneratedAt:     time.Now().UTC(),
		Calculators:     names,
		ContextCount:    len(cycles.Contexts()),
		CycleCount:      cycleCount,
		RowCount:        len(rows),
		FeaturesPath:    featuresPath,
		FeatureRowsPath: rowsPath,
		SummaryPath:     summaryPath,
	}
	manifestPath := filepath.Join(opts.OutDir, "manifest.json")
	if err := writeJSON(manifestPath, manifest); err != nil {
		return nil, fmt.Errorf("write manifest.json: %w", err)
	}

	return &Result{
		OutputDir:       opts.OutDir,
		ManifestPath:    manifestPath,
		FeaturesPath:    featuresPath,
		FeatureRowsPath: rowsPath,
		SummaryPath:     summaryPath,
		RowCount:        len(rows),
	}, nil
}

func prepareOutputDir(dir string, overwrite bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return fmt.Errorf("output directory %s is not empty (use overwrite)", dir)
	}
	return nil
}

// flattenResult converts a stacked {context, cycle, feature} array into
// long-format rows, preserving the array's label order.
func flattenResult(calculator string, result *model.Array) ([]FeatureRow, error) {
	dims := result.Dims()
	if len(dims) != 3 || dims[0].Name != "context" || dims[1].Name != "cycle" || dims[2].Name != "feature" {
		return nil, fmt.Errorf("unexpected result dimensions for %s", calculator)
	}

	rows := make([]FeatureRow, 0, len(dims[0].Labels)*len(dims[1].Labels)*len(dims[2].Labels))
	for ci, context := range dims[0].Labels {
		for yi, cycleLabel := range dims[1].Labels {
			cycleID, err := strconv.Atoi(cycleLabel)
			if err != nil {
				return nil, fmt.Errorf("parse cycle label %q: %w", cycleLabel, err)
			}
			for fi, feature := range dims[2].Labels {
				value := result.At(ci, yi, fi)
				row := FeatureRow{
					Calculator: calculator,
					Context:    context,
					Cycle:      cycleID,
					Feature:    feature,
				}
				if !math.IsNaN(value) {
					v := value
					row.Value = &v
					row.Valid = true
				}
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

func writeFeaturesCSV(path string, rows []FeatureRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"calculator", "context", "cycle", "feature", "value", "valid"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		value := ""
		if row.Value != nil {
			value = strconv.FormatFloat(*row.Value, 'f', -1, 64)
		}
		record := []string{
			row.Calculator,
			row.Context,
			strconv.Itoa(row.Cycle),
			row.Feature,
			value,
			strconv.FormatBool(row.Valid),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeFeatureJSONL(path string, rows []FeatureRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
