package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gaitlab/gait-analyzer/mapping"
	"github.com/gaitlab/gait-analyzer/pipeline"
)

func main() {
	var (
		trialPath   = flag.String("trial", "", "Path to segmented trial data CSV")
		eventsPath  = flag.String("events", "", "Path to cycle events CSV")
		mappingPath = flag.String("mapping", "", "Path to marker mapping TOML")
		outDir      = flag.String("out", "", "Output directory")
		format      = flag.String("format", "parquet", "Feature table format: parquet|csv")
		overwrite   = flag.Bool("overwrite", true, "Allow writing into non-empty output directories")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --trial trial.csv --events events.csv --mapping map.toml --out outdir [--format parquet|csv]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if strings.TrimSpace(*trialPath) == "" || strings.TrimSpace(*eventsPath) == "" ||
		strings.TrimSpace(*mappingPath) == "" || strings.TrimSpace(*outDir) == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := mapping.LoadConfig(*mappingPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gait_analyze failed: %v\n", err)
		os.Exit(1)
	}

	cycles, err := pipeline.LoadTrialCycles(*trialPath, *eventsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gait_analyze failed: %v\n", err)
		os.Exit(1)
	}

	result, err := pipeline.Run(cycles, cfg, pipeline.Options{
		OutDir:    *outDir,
		Format:    *format,
		Overwrite: *overwrite,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "gait_analyze failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("gait_analyze complete\n")
	fmt.Printf("Output dir:      %s\n", result.OutputDir)
	fmt.Printf("feature table:   %s\n", result.FeaturesPath)
	fmt.Printf("feature rows:    %s\n", result.FeatureRowsPath)
	fmt.Printf("summary:         %s\n", result.SummaryPath)
	fmt.Printf("manifest:        %s\n", result.ManifestPath)
	fmt.Printf("rows written:    %d\n", result.RowCount)
}
