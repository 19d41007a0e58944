// Package linalg provides the pure vector and time-series primitives used by
// the spatial feature calculations.
package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/gaitlab/gait-analyzer/model"
)

// Normalize returns v scaled to unit length. A zero vector stays zero.
func Normalize(v []float64) []float64 {
	out := append([]float64(nil), v...)
	norm := floats.Norm(out, 2)
	if norm == 0 {
		return out
	}
	floats.Scale(1/norm, out)
	return out
}

// ProjectPointOnVector returns the orthogonal projection of point p onto the
// line spanned by v.
func ProjectPointOnVector(p, v []float64) []float64 {
	out := append([]float64(nil), v...)
	vv := floats.Dot(v, v)
	if vv == 0 {
		for i := range out {
			out[i] = 0
		}
		return out
	}
	floats.Scale(floats.Dot(p, v)/vv, out)
	return out
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// NormalVector returns the unit vector orthogonal to a and b.
func NormalVector(a, b []float64) []float64 {
	cross := []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
	return Normalize(cross)
}

// SpeedNorm returns the per-sample speed magnitude of a marker trajectory with
// axes {axis, time}. Velocities use central differences over the time
// coordinates, one-sided at the ends.
func SpeedNorm(marker *model.Array) ([]float64, error) {
	timeDim, ok := marker.Dim("time")
	if !ok || timeDim.Coords == nil {
		return nil, fmt.Errorf("marker data has no time coordinates")
	}
	axisDim, ok := marker.Dim("axis")
	if !ok {
		return nil, fmt.Errorf("marker data has no axis dimension")
	}

	times := timeDim.Coords
	n := len(times)
	speeds := make([]float64, n)
	if n < 2 {
		return speeds, nil
	}

	for _, axis := range axisDim.Labels {
		series, err := marker.SelectLabel("axis", axis)
		if err != nil {
			return nil, err
		}
		values := series.Values()
		for i := 0; i < n; i++ {
			var vel float64
			switch {
			case i == 0:
				vel = (values[1] - values[0]) / (times[1] - times[0])
			case i == n-1:
				vel = (values[n-1] - values[n-2]) / (times[n-1] - times[n-2])
			default:
				vel = (values[i+1] - values[i-1]) / (times[i+1] - times[i-1])
			}
			speeds[i] += vel * vel
		}
	}
	for i := range speeds {
		speeds[i] = math.Sqrt(speeds[i])
	}
	return speeds, nil
}

// FindLocalMinima returns the indices of samples strictly below both
// neighbors. End points are never minima.
func FindLocalMinima(values []float64) []int {
	var minima []int
	for i := 1; i < len(values)-1; i++ {
		if values[i] < values[i-1] && values[i] < values[i+1] {
			minima = append(minima, i)
		}
	}
	return minima
}
