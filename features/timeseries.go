package features

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gaitlab/gait-analyzer/model"
)

var timeSeriesFeatureNames = []string{"min", "max", "mean", "median", "std", "amplitude"}

// TimeSeriesFeatures summarizes every analysis channel of a cycle over its
// full time axis: min, max, mean, median, population std and amplitude.
// Missing samples are ignored; events are not required.
type TimeSeriesFeatures struct{}

// CalculateCycle computes the flattened per-channel summary statistics.
func (TimeSeriesFeatures) CalculateCycle(trial *model.Trial) (*model.Array, error) {
	stats, err := timeSeriesStats(trial)
	if err != nil {
		return nil, err
	}
	return flattenFeatures(stats)
}

// timeSeriesStats returns the {feature, channel} statistics array of the
// cycle's analysis data.
func timeSeriesStats(trial *model.Trial) (*model.Array, error) {
	data, ok := trial.Data(model.CategoryAnalysis)
	if !ok {
		return nil, fmt.Errorf("trial has no analysis data")
	}
	channelDim, ok := data.Dim("channel")
	if !ok {
		return nil, fmt.Errorf("analysis data has no channel axis")
	}

	channels := channelDim.Labels
	values := make([]float64, 0, len(timeSeriesFeatureNames)*len(channels))
	byFeature := make(map[string][]float64, len(timeSeriesFeatureNames))
	for _, name := range timeSeriesFeatureNames {
		byFeature[name] = make([]float64, len(channels))
	}

	for i, channel := range channels {
		series, err := data.SelectLabel("channel", channel)
		if err != nil {
			return nil, err
		}
		samples := finiteSamples(series.Values())
		s := summarize(samples)
		byFeature["min"][i] = s.min
		byFeature["max"][i] = s.max
		byFeature["mean"][i] = s.mean
		byFeature["median"][i] = s.median
		byFeature["std"][i] = s.std
		byFeature["amplitude"][i] = s.max - s.min
	}
	for _, name := range timeSeriesFeatureNames {
		values = append(values, byFeature[name]...)
	}

	dims := []model.Dim{
		{Name: "feature", Labels: timeSeriesFeatureNames},
		{Name: "channel", Labels: channels},
	}
	return model.NewArray(dims, values)
}

type summaryStats struct {
	min, max, mean, median, std float64
}

func summarize(samples []float64) summaryStats {
	if len(samples) == 0 {
		nan := math.NaN()
		return summaryStats{min: nan, max: nan, mean: nan, median: nan, std: nan}
	}
	mean := stat.Mean(samples, nil)
	variance := 0.0
	lo, hi := samples[0], samples[0]
	for _, v := range samples {
		d := v - mean
		variance += d * d
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	variance /= float64(len(samples))
	return summaryStats{
		min:    lo,
		max:    hi,
		mean:   mean,
		median: median(samples),
		std:    math.Sqrt(variance),
	}
}

// median interpolates the middle of the sorted samples, matching the
// convention of the upstream analysis stack.
func median(samples []float64) float64 {
	if len(samples) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func finiteSamples(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}
