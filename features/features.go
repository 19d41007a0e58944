// Package features computes per-cycle gait features from segmented
// motion-capture trials: time-series statistics, phase-split statistics,
// temporal support features and spatial stability features.
package features

import (
	"fmt"
	"strconv"

	"github.com/gaitlab/gait-analyzer/model"
)

// Calculator computes the 1-D feature vector of a single gait cycle.
type Calculator interface {
	CalculateCycle(trial *model.Trial) (*model.Array, error)
}

// Calculate runs a calculator over every cycle of a trial and assembles the
// labeled {context, cycle, feature} result. Cycles are visited in the
// insertion order of the cycle collection; a single failing cycle aborts the
// whole trial with no partial result.
func Calculate(calc Calculator, cycles *model.TrialCycles) (*model.Array, error) {
	contexts := cycles.Contexts()
	if len(contexts) == 0 {
		return nil, fmt.Errorf("trial has no cycles")
	}

	contextResults := make([]*model.Array, 0, len(contexts))
	for _, context := range contexts {
		ids := cycles.CycleIDs(context)
		if len(ids) == 0 {
			return nil, fmt.Errorf("context %s has no cycles", context)
		}

		cycleResults := make([]*model.Array, 0, len(ids))
		cycleLabels := make([]string, 0, len(ids))
		for _, id := range ids {
			trial, _ := cycles.Cycle(context, id)
			result, err := calc.CalculateCycle(trial)
			if err != nil {
				return nil, fmt.Errorf("calculate context %s cycle %d: %w", context, id, err)
			}
			cycleResults = append(cycleResults, result)
			cycleLabels = append(cycleLabels, strconv.Itoa(id))
		}

		stacked, err := model.Stack(cycleResults, model.Dim{Name: "cycle", Labels: cycleLabels})
		if err != nil {
			return nil, fmt.Errorf("stack cycles of context %s: %w", context, err)
		}
		contextResults = append(contextResults, stacked)
	}

	result, err := model.Stack(contextResults, model.Dim{Name: "context", Labels: contexts})
	if err != nil {
		return nil, fmt.Errorf("stack contexts: %w", err)
	}
	return result, nil
}

// FeatureValue is one named scalar of a cycle's result.
type FeatureValue struct {
	Name  string
	Value float64
}

// resultFromValues builds the 1-D feature array from ordered named scalars.
func resultFromValues(values []FeatureValue) *model.Array {
	labels := make([]string, len(values))
	data := make([]float64, len(values))
	for i, v := range values {
		labels[i] = v.Name
		data[i] = v.Value
	}
	result, err := model.NewArray([]model.Dim{{Name: "feature", Labels: labels}}, data)
	if err != nil {
		panic(err)
	}
	return result
}

// flattenFeatures collapses a {feature, channel} array into a 1-D feature
// array labeled "{channel}_{feature}", iterating features outer and channels
// inner.
func flattenFeatures(features *model.Array) (*model.Array, error) {
	featureDim, ok := features.Dim("feature")
	if !ok {
		return nil, fmt.Errorf("array has no feature axis")
	}
	channelDim, ok := features.Dim("channel")
	if !ok {
		return nil, fmt.Errorf("array has no channel axis")
	}

	labels := make([]string, 0, len(featureDim.Labels)*len(channelDim.Labels))
	for _, f := range featureDim.Labels {
		for _, c := range channelDim.Labels {
			labels = append(labels, fmt.Sprintf("%s_%s", c, f))
		}
	}
	data := append([]float64(nil), features.Values()...)
	return model.NewArray([]model.Dim{{Name: "feature", Labels: labels}}, data)
}

// relabelFeatures returns the array with its feature labels transformed.
func relabelFeatures(features *model.Array, rename func(string) string) (*model.Array, error) {
	featureDim, ok := features.Dim("feature")
	if !ok {
		return nil, fmt.Errorf("array has no feature axis")
	}
	labels := make([]string, len(featureDim.Labels))
	for i, l := range featureDim.Labels {
		labels[i] = rename(l)
	}
	data := append([]float64(nil), features.Values()...)
	return model.NewArray([]model.Dim{{Name: "feature", Labels: labels}}, data)
}

// concatFeatures joins two 1-D feature arrays along the feature axis.
func concatFeatures(a, b *model.Array) (*model.Array, error) {
	dimA, okA := a.Dim("feature")
	dimB, okB := b.Dim("feature")
	if !okA || !okB {
		return nil, fmt.Errorf("array has no feature axis")
	}
	labels := append(append([]string(nil), dimA.Labels...), dimB.Labels...)
	data := append(append([]float64(nil), a.Values()...), b.Values()...)
	return model.NewArray([]model.Dim{{Name: "feature", Labels: labels}}, data)
}
