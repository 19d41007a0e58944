package features

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaitlab/gait-analyzer/events"
	"github.com/gaitlab/gait-analyzer/internal/gaittest"
)

func TestPhaseTimeSeriesSplitsAtFootOff(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)

	result, err := PhaseTimeSeriesFeatures{}.CalculateCycle(trial)
	require.NoError(t, err)

	featureDim, ok := result.Dim("feature")
	require.True(t, ok)
	// 6 stats x 2 channels per phase, both phases concatenated.
	require.Len(t, featureDim.Labels, 24)

	values := result.Values()
	idx := func(label string) int {
		for i, l := range featureDim.Labels {
			if l == label {
				return i
			}
		}
		t.Fatalf("label %s not found", label)
		return -1
	}

	// knee_angle is 0..12 over 13 samples; foot-off at 0.7 puts samples 0..7
	// in stance and 7..12 in swing (foot-off sample shared).
	require.Equal(t, 0.0, values[idx("knee_angle_min_swing")])
	require.Equal(t, 7.0, values[idx("knee_angle_max_swing")])
	require.Equal(t, 3.5, values[idx("knee_angle_mean_swing")])
	require.InDelta(t, math.Sqrt(5.25), values[idx("knee_angle_std_swing")], 1e-12)

	// The second half of the feature axis holds the swing phase.
	swingMin := values[12+0] // knee_angle_min of the swing set
	swingMax := values[12+2] // knee_angle_max of the swing set
	require.Equal(t, 7.0, swingMin)
	require.Equal(t, 12.0, swingMax)
}

// The original engine suffixes BOTH the stance and the swing label sets with
// "_swing"; downstream consumers key on that vocabulary, so the behavior is
// kept as-is even though the first set was evidently meant to be "_stand".
func TestPhaseTimeSeriesLegacySwingSuffixOnBothPhases(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)

	result, err := PhaseTimeSeriesFeatures{}.CalculateCycle(trial)
	require.NoError(t, err)

	featureDim, _ := result.Dim("feature")
	for _, label := range featureDim.Labels {
		require.True(t, strings.HasSuffix(label, "_swing"), "label %s", label)
	}
	require.NotContains(t, featureDim.Labels, "knee_angle_min_stand")
}

func TestPhaseTimeSeriesRequiresEvents(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)
	trial.SetEvents(nil)

	_, err := PhaseTimeSeriesFeatures{}.CalculateCycle(trial)

	var missing *events.MissingEventsError
	require.ErrorAs(t, err, &missing)
}

func TestPhaseTimeSeriesDoesNotMutateSource(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)
	before, _ := trial.Data("analysis")
	beforeLen := len(before.Values())

	_, err := PhaseTimeSeriesFeatures{}.CalculateCycle(trial)
	require.NoError(t, err)

	after, _ := trial.Data("analysis")
	require.Equal(t, beforeLen, len(after.Values()))
}
