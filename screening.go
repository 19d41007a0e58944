package gaitnotes

import (
	"math"
	"sort"
)

const (
	labelSteady    = "steady"
	labelIrregular = "irregular"
	labelOutlier   = "outlier"

	steadyStrideDeviation  = 0.04
	outlierStrideDeviation = 0.10

	symmetricAsymmetryPct = 5.0
)

// SymmetrySummary compares the two laterality contexts of a trial.
type SymmetrySummary struct {
	FirstContext           string  `json:"first_context"`
	SecondContext          string  `json:"second_context"`
	StepLengthAsymmetryPct float64 `json:"step_length_asymmetry_pct"`
	StepTimeAsymmetryPct   float64 `json:"step_time_asymmetry_pct"`
	Label                  string  `json:"label"`
}

// screenCycles labels every cycle by its stride-time deviation from the
// context median: steady within 4%, irregular within 10%, outlier beyond.
func screenCycles(cycles []CycleSummary) {
	baseline := medianStrideTime(cycles)
	for i := range cycles {
		cycles[i].Label = classifyCycle(cycles[i].StrideTime, baseline)
	}
}

func classifyCycle(stride, baseline float64) string {
	if baseline <= 0 || math.IsNaN(stride) || stride <= 0 {
		return labelOutlier
	}
	deviation := math.Abs(stride-baseline) / baseline
	switch {
	case deviation <= steadyStrideDeviation:
		return labelSteady
	case deviation <= outlierStrideDeviation:
		return labelIrregular
	default:
		return labelOutlier
	}
}

func medianStrideTime(cycles []CycleSummary) float64 {
	strides := make([]float64, 0, len(cycles))
	for _, c := range cycles {
		if !math.IsNaN(c.StrideTime) && c.StrideTime > 0 {
			strides = append(strides, c.StrideTime)
		}
	}
	if len(strides) == 0 {
		return 0
	}
	sort.Float64s(strides)
	mid := len(strides) / 2
	if len(strides)%2 == 1 {
		return strides[mid]
	}
	return (strides[mid-1] + strides[mid]) / 2
}

// buildSymmetry compares the first two contexts of the trial. Single-context
// trials have no symmetry view.
func buildSymmetry(contexts []ContextSummary) *SymmetrySummary {
	if len(contexts) < 2 {
		return nil
	}
	first, second := contexts[0], contexts[1]

	symmetry := &SymmetrySummary{
		FirstContext:           first.Context,
		SecondContext:          second.Context,
		StepLengthAsymmetryPct: asymmetryPct(first.StepLengthMean, second.StepLengthMean),
		StepTimeAsymmetryPct:   asymmetryPct(first.StepTimeMean, second.StepTimeMean),
	}

	worst := math.Max(math.Abs(symmetry.StepLengthAsymmetryPct), math.Abs(symmetry.StepTimeAsymmetryPct))
	if worst <= symmetricAsymmetryPct {
		symmetry.Label = "symmetric"
	} else {
		symmetry.Label = "asymmetric"
	}
	return symmetry
}

// asymmetryPct is the signed percentage difference of a relative to b,
// normalized by their mean.
func asymmetryPct(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0
	}
	mean := (a + b) / 2
	if mean == 0 {
		return 0
	}
	return ((a - b) / mean) * 100.0
}
