package features

import (
	"github.com/gaitlab/gait-analyzer/events"
	"github.com/gaitlab/gait-analyzer/model"
)

// TemporalFeatures derives support-phase and cadence features from the event
// times of each cycle, following the definitions of Hollmann et al. 2011
// (doi: 10.1016/j.gaitpost.2011.03.024). All phase fractions are normalized
// by the stride duration.
type TemporalFeatures struct{}

// CalculateCycle computes the temporal feature vector of one cycle.
func (TemporalFeatures) CalculateCycle(trial *model.Trial) (*model.Array, error) {
	table := trial.Events()
	if table == nil {
		return nil, &events.MissingEventsError{}
	}
	et, err := GetEventTimes(table)
	if err != nil {
		return nil, err
	}

	total := et.IpsiStrikeEnd
	values := []FeatureValue{
		{"double_support", (et.ContraOff + (et.IpsiOff - et.ContraStrike)) / total},
		{"single_support", (et.ContraStrike - et.ContraOff) / total},
		{"foot_off", et.IpsiOff / total},
		{"opposite_foot_off", et.ContraOff / total},
		{"opposite_foot_contact", et.ContraStrike / total},
		{"stride_time", total},
		{"step_time", total - et.ContraStrike},
		{"cadence", 60 / (total / 2)},
	}
	return resultFromValues(values), nil
}
