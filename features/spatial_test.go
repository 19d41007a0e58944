package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaitlab/gait-analyzer/events"
	"github.com/gaitlab/gait-analyzer/internal/gaittest"
	"github.com/gaitlab/gait-analyzer/model"
)

func spatialValue(t *testing.T, result *model.Array, feature string) float64 {
	t.Helper()
	featureDim, ok := result.Dim("feature")
	require.True(t, ok)
	for i, l := range featureDim.Labels {
		if l == feature {
			return result.Values()[i]
		}
	}
	t.Fatalf("feature %s not found", feature)
	return 0
}

func TestSpatialStepLengthAndWidth(t *testing.T) {
	// Progression axis (1,0,0); ipsi forefoot fixed at (2,0.5,0); contra
	// forefoot moves along x at 1 m/s.
	trial := gaittest.StandardCycle("Left", 0)

	calc := NewSpatialFeatures(gaittest.Config())
	result, err := calc.CalculateCycle(trial)
	require.NoError(t, err)

	// Projections at the final event: ipsi (2,0,0), contra (1.2,0,0).
	require.InDelta(t, 0.8, spatialValue(t, result, "step_length"), 1e-9)

	// Contra displacement (0.6,0,0) -> unit x; ipsi offset from its own
	// projection is the y component.
	require.InDelta(t, 0.5, spatialValue(t, result, "step_width"), 1e-9)
}

func TestSpatialMarginsOfStability(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)

	calc := NewSpatialFeatures(gaittest.Config())
	result, err := calc.CalculateCycle(trial)
	require.NoError(t, err)

	// AP: toes at (2,0.5,0) and (0,0.3,0), XCOM (0.5,0,0.9) on axis (1,0,0):
	// base of support 2.0, excursion 0.5.
	require.InDelta(t, 1.5, spatialValue(t, result, "AP_margin_of_stability"), 1e-9)

	// ML: ankles at y 0.4 / -0.2, XCOM y 0 on the sagittal axis (0,-1,0):
	// base of support 0.6, excursion 0.2.
	require.InDelta(t, 0.4, spatialValue(t, result, "ML_margin_of_stability"), 1e-9)
}

// mtcTrial builds a Left-context cycle whose forefoot markers dip during
// swing with high toe speed at the dip, so the minimum qualifies when the
// heel sits at heelZ.
func mtcTrial(heelZ float64) *model.Trial {
	n := 13
	times := gaittest.Times(n)

	windowX := []float64{0, 0.1, 0.5, 0.9, 1.0, 1.05}
	meta2Z := []float64{0.06, 0.05, 0.03, 0.05, 0.06, 0.07}
	meta5Z := []float64{0.09, 0.08, 0.07, 0.08, 0.09, 0.1}

	ltoe := gaittest.ConstMarker("LTOE", 0, 0.5, 0.06, n)
	lmt5 := gaittest.ConstMarker("LMT5", 0, 0.45, 0.09, n)
	for i := 7; i < n; i++ {
		ltoe.X[i] = windowX[i-7]
		ltoe.Z[i] = meta2Z[i-7]
		lmt5.X[i] = windowX[i-7]
		lmt5.Z[i] = meta5Z[i-7]
	}

	rtoe := gaittest.ConstMarker("RTOE", 0, 0.3, 0, n)
	for i := range times {
		rtoe.X[i] = times[i]
	}

	trial := model.NewTrial()
	trial.AddData(model.CategoryMarkers, gaittest.MarkersArray(times,
		gaittest.ConstMarker("SACR", 0, 0, 0, n),
		gaittest.ConstMarker("LASI", 1, 0.1, 0, n),
		gaittest.ConstMarker("RASI", 1, -0.1, 0, n),
		ltoe,
		rtoe,
		lmt5,
		gaittest.ConstMarker("RMT5", 1.2, 0.25, 0.02, n),
		gaittest.ConstMarker("LHEE", 0.2, 0.5, heelZ, n),
		gaittest.ConstMarker("RHEE", 1.0, 0.3, 0.05, n),
		gaittest.ConstMarker("LANK", 1, 0.4, 0.1, n),
		gaittest.ConstMarker("RANK", 1, -0.2, 0.1, n),
		gaittest.ConstMarker("XCOM", 0.5, 0, 0.9, n),
	))
	trial.SetEvents(gaittest.StandardEvents("Left", 0, 0, 0.1, 0.6, 0.7, 1.2))
	return trial
}

func TestSpatialMinimalToeClearance(t *testing.T) {
	trial := mtcTrial(0.2)

	calc := NewSpatialFeatures(gaittest.Config())
	result, err := calc.CalculateCycle(trial)
	require.NoError(t, err)

	// Both forefoot markers dip at the same sample; the lower one wins.
	require.InDelta(t, 0.03, spatialValue(t, result, "minimal_toe_clearance"), 1e-9)
}

func TestSpatialMinimalToeClearanceUndefined(t *testing.T) {
	// Heel on the floor: every dip sits above heel height, nothing
	// qualifies, and the metric resolves to NaN instead of an error.
	trial := mtcTrial(0.0)

	calc := NewSpatialFeatures(gaittest.Config())
	result, err := calc.CalculateCycle(trial)
	require.NoError(t, err)
	require.True(t, math.IsNaN(spatialValue(t, result, "minimal_toe_clearance")))
}

func TestSpatialNoMinimaYieldsNaN(t *testing.T) {
	// Flat forefoot trajectories produce no local minima at all.
	trial := gaittest.StandardCycle("Left", 0)

	calc := NewSpatialFeatures(gaittest.Config())
	result, err := calc.CalculateCycle(trial)
	require.NoError(t, err)
	require.True(t, math.IsNaN(spatialValue(t, result, "minimal_toe_clearance")))
}

func TestSpatialContextSelectsMarkers(t *testing.T) {
	// On a Right-context cycle the roles mirror; with the standard marker
	// set the computation still succeeds and yields finite lengths.
	trial := gaittest.StandardCycle("Right", 0)

	calc := NewSpatialFeatures(gaittest.Config())
	result, err := calc.CalculateCycle(trial)
	require.NoError(t, err)

	require.False(t, math.IsNaN(spatialValue(t, result, "step_length")))
	require.False(t, math.IsNaN(spatialValue(t, result, "AP_margin_of_stability")))
}

func TestSpatialFeaturesRequireEvents(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)
	trial.SetEvents(nil)

	calc := NewSpatialFeatures(gaittest.Config())
	_, err := calc.CalculateCycle(trial)

	var missing *events.MissingEventsError
	require.ErrorAs(t, err, &missing)
}
