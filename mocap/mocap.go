// Package mocap resolves marker roles against a trial's marker data and
// derives the trial-level landmarks (sacrum, progression and sagittal axes)
// the spatial features are defined against.
package mocap

import (
	"fmt"
	"math"

	"github.com/gaitlab/gait-analyzer/linalg"
	"github.com/gaitlab/gait-analyzer/mapping"
	"github.com/gaitlab/gait-analyzer/model"
)

// GetMarkerData returns the {axis, time} trajectory of a marker role.
func GetMarkerData(trial *model.Trial, cfg *mapping.Config, role mapping.Marker) (*model.Array, error) {
	markers, ok := trial.Data(model.CategoryMarkers)
	if !ok {
		return nil, fmt.Errorf("trial has no marker data")
	}
	name, err := cfg.MarkerName(role)
	if err != nil {
		return nil, err
	}
	data, err := markers.SelectLabel("channel", name)
	if err != nil {
		return nil, fmt.Errorf("marker %s: %w", role, err)
	}
	return data, nil
}

// GetSacrumMarker returns the sacrum trajectory. When no sacrum marker is
// mapped, the midpoint of the posterior hip markers substitutes for it.
func GetSacrumMarker(trial *model.Trial, cfg *mapping.Config) (*model.Array, error) {
	if cfg.HasMarker(mapping.Sacrum) {
		return GetMarkerData(trial, cfg, mapping.Sacrum)
	}
	left, err := GetMarkerData(trial, cfg, mapping.LPostHip)
	if err != nil {
		return nil, fmt.Errorf("sacrum fallback: %w", err)
	}
	right, err := GetMarkerData(trial, cfg, mapping.RPostHip)
	if err != nil {
		return nil, fmt.Errorf("sacrum fallback: %w", err)
	}
	return midpoint(left, right)
}

// GetProgressionVector returns the walking-direction axis of a trial: the
// vector from the time-averaged sacrum position to the time-averaged midpoint
// of the anterior hip markers.
func GetProgressionVector(trial *model.Trial, cfg *mapping.Config) ([]float64, error) {
	sacrum, err := GetSacrumMarker(trial, cfg)
	if err != nil {
		return nil, err
	}
	leftAnt, err := GetMarkerData(trial, cfg, mapping.LAntHip)
	if err != nil {
		return nil, err
	}
	rightAnt, err := GetMarkerData(trial, cfg, mapping.RAntHip)
	if err != nil {
		return nil, err
	}

	from, err := meanPosition(sacrum)
	if err != nil {
		return nil, err
	}
	leftMean, err := meanPosition(leftAnt)
	if err != nil {
		return nil, err
	}
	rightMean, err := meanPosition(rightAnt)
	if err != nil {
		return nil, err
	}

	vector := make([]float64, len(from))
	for i := range vector {
		vector[i] = (leftMean[i]+rightMean[i])/2 - from[i]
	}
	return vector, nil
}

// GetSagittalVector returns the axis orthogonal to the progression axis and
// the vertical, normal to the sagittal plane.
func GetSagittalVector(trial *model.Trial, cfg *mapping.Config) ([]float64, error) {
	progression, err := GetProgressionVector(trial, cfg)
	if err != nil {
		return nil, err
	}
	vertical := []float64{0, 0, 1}
	return linalg.NormalVector(progression, vertical), nil
}

func midpoint(a, b *model.Array) (*model.Array, error) {
	dims := a.Dims()
	va, vb := a.Values(), b.Values()
	if len(va) != len(vb) {
		return nil, fmt.Errorf("marker trajectories have mismatched lengths")
	}
	out := make([]float64, len(va))
	for i := range out {
		out[i] = (va[i] + vb[i]) / 2
	}
	return model.NewArray(dims, out)
}

func meanPosition(marker *model.Array) ([]float64, error) {
	axisDim, ok := marker.Dim("axis")
	if !ok {
		return nil, fmt.Errorf("marker data has no axis dimension")
	}
	mean := make([]float64, len(axisDim.Labels))
	for i, axis := range axisDim.Labels {
		series, err := marker.SelectLabel("axis", axis)
		if err != nil {
			return nil, err
		}
		total, count := 0.0, 0
		for _, v := range series.Values() {
			if math.IsNaN(v) {
				continue
			}
			total += v
			count++
		}
		if count == 0 {
			mean[i] = math.NaN()
			continue
		}
		mean[i] = total / float64(count)
	}
	return mean, nil
}
