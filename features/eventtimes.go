package features

import (
	"sort"

	"github.com/gaitlab/gait-analyzer/events"
	"github.com/gaitlab/gait-analyzer/model"
)

// EventTimes is the canonical 5-tuple of timestamps anchoring one gait cycle,
// heel-strike to next same-side heel-strike.
type EventTimes struct {
	IpsiStrikeStart float64
	ContraOff       float64
	ContraStrike    float64
	IpsiOff         float64
	IpsiStrikeEnd   float64
}

// GetEventTimes validates a cycle's event table and extracts the canonical
// event times. A valid cycle carries exactly three ipsi-context events (two
// foot-strikes bracketing one foot-off) and two contra-context events (one
// foot-strike, one foot-off).
func GetEventTimes(table *model.EventTable) (EventTimes, error) {
	if table == nil {
		return EventTimes{}, &events.MissingEventsError{}
	}
	if len(table.Rows) < 3 {
		return EventTimes{}, &events.MissingEventsError{Context: table.Context, CycleID: table.CycleID}
	}

	var ipsi, contra []model.Event
	for _, row := range table.Rows {
		if row.Context == table.Context {
			ipsi = append(ipsi, row)
		} else {
			contra = append(contra, row)
		}
	}
	if len(ipsi) != 3 {
		return EventTimes{}, &events.EventSequenceError{
			Context: table.Context, CycleID: table.CycleID,
			Reason: "expected 3 ipsi-lateral events",
		}
	}
	if len(contra) != 2 {
		return EventTimes{}, &events.EventSequenceError{
			Context: table.Context, CycleID: table.CycleID,
			Reason: "expected 2 contra-lateral events",
		}
	}

	ipsiStrikes := timesOf(ipsi, events.FootStrike)
	ipsiOffs := timesOf(ipsi, events.FootOff)
	contraStrikes := timesOf(contra, events.FootStrike)
	contraOffs := timesOf(contra, events.FootOff)
	if len(ipsiStrikes) != 2 || len(ipsiOffs) != 1 {
		return EventTimes{}, &events.EventSequenceError{
			Context: table.Context, CycleID: table.CycleID,
			Reason: "expected 2 ipsi-lateral foot-strikes and 1 foot-off",
		}
	}
	if len(contraStrikes) != 1 || len(contraOffs) != 1 {
		return EventTimes{}, &events.EventSequenceError{
			Context: table.Context, CycleID: table.CycleID,
			Reason: "expected 1 contra-lateral foot-strike and 1 foot-off",
		}
	}

	return EventTimes{
		IpsiStrikeStart: ipsiStrikes[0],
		ContraOff:       contraOffs[0],
		ContraStrike:    contraStrikes[0],
		IpsiOff:         ipsiOffs[0],
		IpsiStrikeEnd:   ipsiStrikes[1],
	}, nil
}

func timesOf(rows []model.Event, label string) []float64 {
	var times []float64
	for _, row := range rows {
		if row.Label == label {
			times = append(times, row.Time)
		}
	}
	sort.Float64s(times)
	return times
}
