package mocap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaitlab/gait-analyzer/internal/gaittest"
	"github.com/gaitlab/gait-analyzer/mapping"
	"github.com/gaitlab/gait-analyzer/model"
)

func TestGetMarkerData(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)

	heel, err := GetMarkerData(trial, gaittest.Config(), mapping.LHeel)
	require.NoError(t, err)

	dims := heel.Dims()
	require.Len(t, dims, 2)
	require.Equal(t, "axis", dims[0].Name)
	require.Equal(t, "time", dims[1].Name)
	require.Equal(t, 1.8, heel.At(0, 0))
	require.Equal(t, 0.05, heel.At(2, 0))
}

func TestGetMarkerDataUnmappedRole(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)
	cfg := mapping.NewConfig(map[mapping.Marker]string{mapping.LHeel: "LHEE"})

	_, err := GetMarkerData(trial, cfg, mapping.RHeel)
	require.Error(t, err)
}

func TestGetMarkerDataMissingChannel(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)
	cfg := mapping.NewConfig(map[mapping.Marker]string{mapping.LHeel: "NOPE"})

	_, err := GetMarkerData(trial, cfg, mapping.LHeel)
	require.Error(t, err)
}

func TestGetSacrumMarkerDirect(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)

	sacrum, err := GetSacrumMarker(trial, gaittest.Config())
	require.NoError(t, err)
	require.Equal(t, 0.0, sacrum.At(0, 0))
}

func TestGetSacrumMarkerFallsBackToPosteriorHips(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)
	cfg := mapping.NewConfig(map[mapping.Marker]string{
		mapping.LPostHip: "LPSI",
		mapping.RPostHip: "RPSI",
	})

	sacrum, err := GetSacrumMarker(trial, cfg)
	require.NoError(t, err)

	// Midpoint of LPSI (-0.1, 0.1, 0) and RPSI (-0.1, -0.1, 0).
	require.InDelta(t, -0.1, sacrum.At(0, 0), 1e-12)
	require.InDelta(t, 0.0, sacrum.At(1, 0), 1e-12)
}

func TestGetSacrumMarkerFallbackRequiresBothHips(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)
	cfg := mapping.NewConfig(map[mapping.Marker]string{
		mapping.LPostHip: "LPSI",
	})

	_, err := GetSacrumMarker(trial, cfg)
	require.Error(t, err)
}

func TestGetProgressionVector(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)

	progression, err := GetProgressionVector(trial, gaittest.Config())
	require.NoError(t, err)

	// Sacrum at the origin, anterior-hip midpoint at (1, 0, 0).
	require.InDelta(t, 1.0, progression[0], 1e-12)
	require.InDelta(t, 0.0, progression[1], 1e-12)
	require.InDelta(t, 0.0, progression[2], 1e-12)
}

func TestGetSagittalVector(t *testing.T) {
	trial := gaittest.StandardCycle("Left", 0)

	sagittal, err := GetSagittalVector(trial, gaittest.Config())
	require.NoError(t, err)

	require.InDelta(t, 0.0, sagittal[0], 1e-12)
	require.InDelta(t, -1.0, sagittal[1], 1e-12)
	require.InDelta(t, 0.0, sagittal[2], 1e-12)

	norm := 0.0
	for _, v := range sagittal {
		norm += v * v
	}
	require.InDelta(t, 1.0, math.Sqrt(norm), 1e-12)
}

func TestMeanPositionSkipsNaN(t *testing.T) {
	n := 4
	times := gaittest.Times(n)
	m := gaittest.ConstMarker("M", 2, 0, 0, n)
	m.X[1] = math.NaN()
	arr := gaittest.MarkersArray(times, m)

	trajectory, err := arr.SelectLabel("channel", "M")
	require.NoError(t, err)

	mean, err := meanPosition(trajectory)
	require.NoError(t, err)
	require.Equal(t, 2.0, mean[0])
}

func TestGetMarkerDataRequiresMarkers(t *testing.T) {
	trial := model.NewTrial()

	_, err := GetMarkerData(trial, gaittest.Config(), mapping.LHeel)
	require.Error(t, err)
}
