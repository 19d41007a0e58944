package features

import (
	"fmt"
	"math"

	"github.com/gaitlab/gait-analyzer/events"
	"github.com/gaitlab/gait-analyzer/model"
)

// PhaseTimeSeriesFeatures splits each cycle at the ipsi-lateral foot-off into
// stance and swing sub-trials and computes the TimeSeriesFeatures statistics
// for each phase independently.
//
// Both label sets carry the "_swing" suffix. The original engine labeled the
// stance set "_swing" as well, and downstream consumers depend on the label
// vocabulary, so the legacy naming is kept until corrected against clinical
// validation data.
type PhaseTimeSeriesFeatures struct{}

// CalculateCycle computes the stance and swing statistics of one cycle,
// concatenated along the feature axis.
func (PhaseTimeSeriesFeatures) CalculateCycle(trial *model.Trial) (*model.Array, error) {
	table := trial.Events()
	if table == nil {
		return nil, &events.MissingEventsError{}
	}
	footOff, err := ipsiFootOffTime(table)
	if err != nil {
		return nil, err
	}
	footOff = math.Round(footOff*1e4) / 1e4

	data, ok := trial.Data(model.CategoryAnalysis)
	if !ok {
		return nil, fmt.Errorf("trial has no analysis data")
	}
	timeDim, ok := data.Dim("time")
	if !ok || len(timeDim.Coords) == 0 {
		return nil, fmt.Errorf("analysis data has no time coordinates")
	}
	start := timeDim.Coords[0]
	end := timeDim.Coords[len(timeDim.Coords)-1]

	stance, err := phaseTrial(trial, start, footOff)
	if err != nil {
		return nil, fmt.Errorf("stance phase: %w", err)
	}
	swing, err := phaseTrial(trial, footOff, end)
	if err != nil {
		return nil, fmt.Errorf("swing phase: %w", err)
	}

	stanceFeatures, err := TimeSeriesFeatures{}.CalculateCycle(stance)
	if err != nil {
		return nil, err
	}
	swingFeatures, err := TimeSeriesFeatures{}.CalculateCycle(swing)
	if err != nil {
		return nil, err
	}

	suffix := func(label string) string { return label + "_swing" }
	stanceFeatures, err = relabelFeatures(stanceFeatures, suffix)
	if err != nil {
		return nil, err
	}
	swingFeatures, err = relabelFeatures(swingFeatures, suffix)
	if err != nil {
		return nil, err
	}
	return concatFeatures(stanceFeatures, swingFeatures)
}

// phaseTrial builds a transient trial restricted to [lo, hi] on the time axis
// of every data category. The source trial is never mutated.
func phaseTrial(trial *model.Trial, lo, hi float64) (*model.Trial, error) {
	phase := model.NewTrial()
	for _, category := range trial.Categories() {
		data, _ := trial.Data(category)
		sliced, err := data.SliceCoords("time", lo, hi)
		if err != nil {
			return nil, fmt.Errorf("slice %s data: %w", category, err)
		}
		phase.AddData(category, sliced)
	}
	return phase, nil
}

func ipsiFootOffTime(table *model.EventTable) (float64, error) {
	found := false
	best := 0.0
	for _, row := range table.Rows {
		if row.Context != table.Context || row.Label != events.FootOff {
			continue
		}
		if !found || row.Time < best {
			best = row.Time
			found = true
		}
	}
	if !found {
		return 0, &events.EventSequenceError{
			Context: table.Context, CycleID: table.CycleID,
			Reason: "no ipsi-lateral foot-off event",
		}
	}
	return best, nil
}
