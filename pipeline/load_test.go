package pipeline

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaitlab/gait-analyzer/model"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const trialFixture = `context,cycle,category,channel,axis,time,value
Left,0,markers,LHEE,x,0,1.5
Left,0,markers,LHEE,x,0.1,1.6
Left,0,markers,LHEE,y,0,0.4
Left,0,markers,LHEE,y,0.1,0.4
Left,0,markers,LHEE,z,0,0.05
Left,0,markers,LHEE,z,0.1,0.06
Left,0,analysis,knee_angle,,0,12
Left,0,analysis,knee_angle,,0.1,14
`

const eventsFixture = `context,cycle,event_context,label,time
Left,0,Left,Foot Strike,0
Left,0,Right,Foot Off,0.1
Left,0,Right,Foot Strike,0.6
Left,0,Left,Foot Off,0.7
Left,0,Left,Foot Strike,1.2
`

func TestLoadTrialCycles(t *testing.T) {
	trialPath := writeFixture(t, "trial.csv", trialFixture)
	eventsPath := writeFixture(t, "events.csv", eventsFixture)

	cycles, err := LoadTrialCycles(trialPath, eventsPath)
	require.NoError(t, err)

	require.Equal(t, []string{"Left"}, cycles.Contexts())
	require.Equal(t, []int{0}, cycles.CycleIDs("Left"))

	trial, ok := cycles.Cycle("Left", 0)
	require.True(t, ok)
	require.Equal(t, []model.DataCategory{model.CategoryMarkers, model.CategoryAnalysis}, trial.Categories())

	markers, ok := trial.Data(model.CategoryMarkers)
	require.True(t, ok)
	dims := markers.Dims()
	require.Len(t, dims, 3)
	require.Equal(t, []string{"LHEE"}, dims[0].Labels)
	require.Equal(t, []string{"x", "y", "z"}, dims[1].Labels)
	require.Equal(t, []float64{0, 0.1}, dims[2].Coords)
	require.Equal(t, 1.6, markers.At(0, 0, 1))
	require.Equal(t, 0.05, markers.At(0, 2, 0))

	analysis, ok := trial.Data(model.CategoryAnalysis)
	require.True(t, ok)
	require.Len(t, analysis.Dims(), 2)
	require.Equal(t, 14.0, analysis.At(0, 1))

	events := trial.Events()
	require.NotNil(t, events)
	require.Len(t, events.Rows, 5)
	require.Equal(t, "Foot Strike", events.Rows[0].Label)
	require.Equal(t, 1.2, events.Rows[4].Time)
}

func TestLoadTrialCyclesMissingSampleIsNaN(t *testing.T) {
	// The y axis has only one of the two samples.
	trialPath := writeFixture(t, "trial.csv", `context,cycle,category,channel,axis,time,value
Left,0,markers,LHEE,x,0,1.5
Left,0,markers,LHEE,x,0.1,1.6
Left,0,markers,LHEE,y,0,0.4
`)
	eventsPath := writeFixture(t, "events.csv", eventsFixture)

	cycles, err := LoadTrialCycles(trialPath, eventsPath)
	require.NoError(t, err)

	trial, _ := cycles.Cycle("Left", 0)
	markers, _ := trial.Data(model.CategoryMarkers)
	require.True(t, math.IsNaN(markers.At(0, 1, 1)))
}

func TestLoadTrialCyclesCycleWithoutEvents(t *testing.T) {
	trialPath := writeFixture(t, "trial.csv", trialFixture)
	eventsPath := writeFixture(t, "events.csv", "context,cycle,event_context,label,time\n")

	cycles, err := LoadTrialCycles(trialPath, eventsPath)
	require.NoError(t, err)

	trial, _ := cycles.Cycle("Left", 0)
	require.Nil(t, trial.Events())
}

func TestLoadTrialCyclesRejectsBadHeader(t *testing.T) {
	trialPath := writeFixture(t, "trial.csv", "context,cycle,channel\nLeft,0,LHEE\n")
	eventsPath := writeFixture(t, "events.csv", eventsFixture)

	_, err := LoadTrialCycles(trialPath, eventsPath)
	require.Error(t, err)
}

func TestLoadTrialCyclesRejectsBadNumbers(t *testing.T) {
	trialPath := writeFixture(t, "trial.csv", `context,cycle,category,channel,axis,time,value
Left,zero,markers,LHEE,x,0,1.5
`)
	eventsPath := writeFixture(t, "events.csv", eventsFixture)

	_, err := LoadTrialCycles(trialPath, eventsPath)
	require.Error(t, err)
}
