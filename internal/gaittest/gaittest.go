// Package gaittest builds synthetic trials, cycles and marker mappings for
// tests.
package gaittest

import (
	"fmt"

	"github.com/gaitlab/gait-analyzer/events"
	"github.com/gaitlab/gait-analyzer/mapping"
	"github.com/gaitlab/gait-analyzer/model"
)

// Config returns a marker mapping covering every role the calculators use.
func Config() *mapping.Config {
	return mapping.NewConfig(map[mapping.Marker]string{
		mapping.LHeel:    "LHEE",
		mapping.RHeel:    "RHEE",
		mapping.LMeta2:   "LTOE",
		mapping.RMeta2:   "RTOE",
		mapping.LMeta5:   "LMT5",
		mapping.RMeta5:   "RMT5",
		mapping.LAnkle:   "LANK",
		mapping.RAnkle:   "RANK",
		mapping.Sacrum:   "SACR",
		mapping.LAntHip:  "LASI",
		mapping.RAntHip:  "RASI",
		mapping.LPostHip: "LPSI",
		mapping.RPostHip: "RPSI",
		mapping.XCom:     "XCOM",
	})
}

// Times returns n time coordinates at 10 Hz starting at zero.
func Times(n int) []float64 {
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) / 10
	}
	return times
}

// Marker is one synthetic marker trajectory.
type Marker struct {
	Name    string
	X, Y, Z []float64
}

// ConstMarker returns a marker fixed at (x, y, z) for n samples.
func ConstMarker(name string, x, y, z float64, n int) Marker {
	m := Marker{Name: name, X: make([]float64, n), Y: make([]float64, n), Z: make([]float64, n)}
	for i := 0; i < n; i++ {
		m.X[i], m.Y[i], m.Z[i] = x, y, z
	}
	return m
}

// MarkersArray assembles marker trajectories into a {channel, axis, time}
// array.
func MarkersArray(times []float64, markers ...Marker) *model.Array {
	channels := make([]string, len(markers))
	data := make([]float64, 0, len(markers)*3*len(times))
	for i, m := range markers {
		channels[i] = m.Name
		if len(m.X) != len(times) || len(m.Y) != len(times) || len(m.Z) != len(times) {
			panic(fmt.Sprintf("marker %s has wrong sample count", m.Name))
		}
		data = append(data, m.X...)
		data = append(data, m.Y...)
		data = append(data, m.Z...)
	}
	arr, err := model.NewArray([]model.Dim{
		{Name: "channel", Labels: channels},
		{Name: "axis", Labels: []string{"x", "y", "z"}},
		{Name: "time", Coords: times},
	}, data)
	if err != nil {
		panic(err)
	}
	return arr
}

// Channel is one synthetic analysis channel.
type Channel struct {
	Name   string
	Values []float64
}

// AnalysisArray assembles analysis channels into a {channel, time} array.
func AnalysisArray(times []float64, channels ...Channel) *model.Array {
	labels := make([]string, len(channels))
	data := make([]float64, 0, len(channels)*len(times))
	for i, c := range channels {
		labels[i] = c.Name
		if len(c.Values) != len(times) {
			panic(fmt.Sprintf("channel %s has wrong sample count", c.Name))
		}
		data = append(data, c.Values...)
	}
	arr, err := model.NewArray([]model.Dim{
		{Name: "channel", Labels: labels},
		{Name: "time", Coords: times},
	}, data)
	if err != nil {
		panic(err)
	}
	return arr
}

// StandardEvents returns a valid event table for one cycle: two ipsi
// foot-strikes bracketing one ipsi foot-off, with a contra foot-off and
// foot-strike in between.
func StandardEvents(context string, cycleID int, t0, contraFO, contraFS, ipsiFO, t4 float64) *model.EventTable {
	contra := "Right"
	if context == "Right" {
		contra = "Left"
	}
	return &model.EventTable{
		Context: context,
		CycleID: cycleID,
		Rows: []model.Event{
			{Context: context, Label: events.FootStrike, Time: t0},
			{Context: contra, Label: events.FootOff, Time: contraFO},
			{Context: contra, Label: events.FootStrike, Time: contraFS},
			{Context: context, Label: events.FootOff, Time: ipsiFO},
			{Context: context, Label: events.FootStrike, Time: t4},
		},
	}
}

// StandardCycle returns a fully-populated synthetic cycle: 13 samples at
// 10 Hz, a complete marker set, two analysis channels and a valid event
// table with stride time 1.2 s.
func StandardCycle(context string, cycleID int) *model.Trial {
	n := 13
	times := Times(n)

	rtoe := Marker{Name: "RTOE", X: make([]float64, n), Y: make([]float64, n), Z: make([]float64, n)}
	for i := range times {
		rtoe.X[i] = times[i]
		rtoe.Y[i] = 0.3
	}

	trial := model.NewTrial()
	trial.AddData(model.CategoryMarkers, MarkersArray(times,
		ConstMarker("SACR", 0, 0, 0, n),
		ConstMarker("LASI", 1, 0.1, 0, n),
		ConstMarker("RASI", 1, -0.1, 0, n),
		ConstMarker("LPSI", -0.1, 0.1, 0, n),
		ConstMarker("RPSI", -0.1, -0.1, 0, n),
		ConstMarker("LTOE", 2, 0.5, 0, n),
		rtoe,
		ConstMarker("LMT5", 2, 0.45, 0.02, n),
		ConstMarker("RMT5", 1.2, 0.25, 0.02, n),
		ConstMarker("LHEE", 1.8, 0.5, 0.05, n),
		ConstMarker("RHEE", 1.0, 0.3, 0.05, n),
		ConstMarker("LANK", 1, 0.4, 0.1, n),
		ConstMarker("RANK", 1, -0.2, 0.1, n),
		ConstMarker("XCOM", 0.5, 0, 0.9, n),
	))

	knee := make([]float64, n)
	hip := make([]float64, n)
	for i := range times {
		knee[i] = float64(i)
		hip[i] = 10 + float64(i%4)
	}
	trial.AddData(model.CategoryAnalysis, AnalysisArray(times,
		Channel{Name: "knee_angle", Values: knee},
		Channel{Name: "hip_angle", Values: hip},
	))

	trial.SetEvents(StandardEvents(context, cycleID, 0, 0.1, 0.6, 0.7, 1.2))
	return trial
}

// StandardCycles returns two contexts with two cycles each.
func StandardCycles() *model.TrialCycles {
	cycles := model.NewTrialCycles()
	for _, context := range []string{"Left", "Right"} {
		for id := 0; id < 2; id++ {
			cycles.Add(context, id, StandardCycle(context, id))
		}
	}
	return cycles
}
