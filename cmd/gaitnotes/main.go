package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gaitnotes "github.com/gaitlab/gait-analyzer"
	"github.com/gaitlab/gait-analyzer/mapping"
	"github.com/gaitlab/gait-analyzer/pipeline"
)

func main() {
	var (
		trialPath   = flag.String("trial", "", "Path to segmented trial data CSV")
		eventsPath  = flag.String("events", "", "Path to cycle events CSV")
		mappingPath = flag.String("mapping", "", "Path to marker mapping TOML")
		jsonOut     = flag.Bool("json", false, "Emit full analysis as JSON")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --trial trial.csv --events events.csv --mapping map.toml [--json]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if strings.TrimSpace(*trialPath) == "" || strings.TrimSpace(*eventsPath) == "" ||
		strings.TrimSpace(*mappingPath) == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := mapping.LoadConfig(*mappingPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	cycles, err := pipeline.LoadTrialCycles(*trialPath, *eventsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	analysis, err := gaitnotes.AnalyzeCycles(cycles, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			fmt.Fprintf(os.Stderr, "json encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(analysis.Notes)
}
