package gaitnotes

import (
	"fmt"
	"math"

	"github.com/gaitlab/gait-analyzer/features"
	"github.com/gaitlab/gait-analyzer/mapping"
	"github.com/gaitlab/gait-analyzer/model"
)

// Analysis contains aggregated gait metrics and generated notes for a
// segmented trial.
type Analysis struct {
	CycleCount int              `json:"cycle_count"`
	Contexts   []ContextSummary `json:"contexts"`
	Symmetry   *SymmetrySummary `json:"symmetry,omitempty"`
	Notes      string           `json:"notes"`
}

// ContextSummary aggregates per-cycle metrics for one laterality context.
type ContextSummary struct {
	Context             string         `json:"context"`
	CycleCount          int            `json:"cycle_count"`
	CadenceMean         float64        `json:"cadence_mean_steps_per_min"`
	StrideTimeMean      float64        `json:"stride_time_mean_s"`
	StepTimeMean        float64        `json:"step_time_mean_s"`
	DoubleSupportMean   float64        `json:"double_support_mean_fraction"`
	SingleSupportMean   float64        `json:"single_support_mean_fraction"`
	StepLengthMean      float64        `json:"step_length_mean_m"`
	StepWidthMean       float64        `json:"step_width_mean_m"`
	ToeClearanceMean    *float64       `json:"minimal_toe_clearance_mean_m,omitempty"`
	APMarginMean        float64        `json:"ap_margin_of_stability_mean_m"`
	MLMarginMean        float64        `json:"ml_margin_of_stability_mean_m"`
	SteadyCycleCount    int            `json:"steady_cycle_count"`
	IrregularCycleCount int            `json:"irregular_cycle_count"`
	OutlierCycleCount   int            `json:"outlier_cycle_count"`
	Cycles              []CycleSummary `json:"cycles"`
}

// CycleSummary is a compact cycle-level view for screening and reporting.
type CycleSummary struct {
	CycleID    int     `json:"cycle_id"`
	StrideTime float64 `json:"stride_time_s"`
	StepTime   float64 `json:"step_time_s"`
	StepLength float64 `json:"step_length_m"`
	Cadence    float64 `json:"cadence_steps_per_min"`
	Label      string  `json:"label"`
}

// AnalyzeCycles computes temporal and spatial metrics for every cycle and
// aggregates them into a trial-level analysis with screening labels and notes.
func AnalyzeCycles(cycles *model.TrialCycles, cfg *mapping.Config) (*Analysis, error) {
	contexts := cycles.Contexts()
	if len(contexts) == 0 {
		return nil, fmt.Errorf("trial has no cycles to analyze")
	}

	spatial := features.NewSpatialFeatures(cfg)
	analysis := &Analysis{}

	for _, context := range contexts {
		summary := ContextSummary{Context: context}

		var (
			cadences, strides, steps   []float64
			doubles, singles           []float64
			lengths, widths, clearance []float64
			apMargins, mlMargins       []float64
		)

		for _, cycleID := range cycles.CycleIDs(context) {
			trial, ok := cycles.Cycle(context, cycleID)
			if !ok {
				continue
			}

			temporal, err := features.TemporalFeatures{}.CalculateCycle(trial)
			if err != nil {
				return nil, fmt.Errorf("analyze context %s cycle %d: %w", context, cycleID, err)
			}
			spatialResult, err := spatial.CalculateCycle(trial)
			if err != nil {
				return nil, fmt.Errorf("analyze context %s cycle %d: %w", context, cycleID, err)
			}

			cycle := CycleSummary{
				CycleID:    cycleID,
				StrideTime: featureValue(temporal, "stride_time"),
				StepTime:   featureValue(temporal, "step_time"),
				StepLength: featureValue(spatialResult, "step_length"),
				Cadence:    featureValue(temporal, "cadence"),
			}
			summary.Cycles = append(summary.Cycles, cycle)

			cadences = append(cadences, cycle.Cadence)
			strides = append(strides, cycle.StrideTime)
			steps = append(steps, cycle.StepTime)
			doubles = append(doubles, featureValue(temporal, "double_support"))
			singles = append(singles, featureValue(temporal, "single_support"))
			lengths = append(lengths, cycle.StepLength)
			widths = append(widths, featureValue(spatialResult, "step_width"))
			clearance = append(clearance, featureValue(spatialResult, "minimal_toe_clearance"))
			apMargins = append(apMargins, featureValue(spatialResult, "AP_margin_of_stability"))
			mlMargins = append(mlMargins, featureValue(spatialResult, "ML_margin_of_stability"))
		}

		summary.CycleCount = len(summary.Cycles)
		summary.CadenceMean = meanFinite(cadences)
		summary.StrideTimeMean = meanFinite(strides)
		summary.StepTimeMean = meanFinite(steps)
		summary.DoubleSupportMean = meanFinite(doubles)
		summary.SingleSupportMean = meanFinite(singles)
		summary.StepLengthMean = meanFinite(lengths)
		summary.StepWidthMean = meanFinite(widths)
		summary.ToeClearanceMean = meanFinitePtr(clearance)
		summary.APMarginMean = meanFinite(apMargins)
		summary.MLMarginMean = meanFinite(mlMargins)

		screenCycles(summary.Cycles)
		for _, cycle := range summary.Cycles {
			switch cycle.Label {
			case labelSteady:
				summary.SteadyCycleCount++
			case labelIrregular:
				summary.IrregularCycleCount++
			case labelOutlier:
				summary.OutlierCycleCount++
			}
		}

		analysis.CycleCount += summary.CycleCount
		analysis.Contexts = append(analysis.Contexts, summary)
	}

	analysis.Symmetry = buildSymmetry(analysis.Contexts)
	analysis.Notes = BuildClinicalNotes(analysis)
	return analysis, nil
}

// featureValue reads one labeled value from a 1-D feature array. Unknown
// labels resolve to NaN so aggregation can skip them.
func featureValue(result *model.Array, name string) float64 {
	featureDim, ok := result.Dim("feature")
	if !ok {
		return math.NaN()
	}
	for i, label := range featureDim.Labels {
		if label == name {
			return result.Values()[i]
		}
	}
	return math.NaN()
}

func meanFinite(values []float64) float64 {
	total := 0.0
	count := 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total += v
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return total / float64(count)
}

// meanFinitePtr is meanFinite for metrics that may be undefined for every
// cycle; nil keeps NaN out of JSON output.
func meanFinitePtr(values []float64) *float64 {
	mean := meanFinite(values)
	if math.IsNaN(mean) {
		return nil
	}
	return &mean
}
