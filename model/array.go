package model

import (
	"fmt"
	"math"
)

// Dim describes one named axis of an Array. Exactly one of Labels or Coords is
// set: label axes index by string (channel, axis, feature, cycle, context),
// coordinate axes index by numeric value (time).
type Dim struct {
	Name   string
	Labels []string
	Coords []float64
}

// Len returns the number of entries along the axis.
func (d Dim) Len() int {
	if d.Labels != nil {
		return len(d.Labels)
	}
	return len(d.Coords)
}

func (d Dim) labelIndex(label string) int {
	for i, l := range d.Labels {
		if l == label {
			return i
		}
	}
	return -1
}

// Array is a labeled multi-dimensional numeric array: an ordered list of named
// axes over a flat row-major float64 buffer.
type Array struct {
	dims []Dim
	data []float64
}

// NewArray builds an Array from the given axes and row-major buffer.
func NewArray(dims []Dim, data []float64) (*Array, error) {
	size := 1
	for _, d := range dims {
		size *= d.Len()
	}
	if size != len(data) {
		return nil, fmt.Errorf("array data has %d values, axes require %d", len(data), size)
	}
	return &Array{dims: append([]Dim(nil), dims...), data: data}, nil
}

// Dims returns the ordered axes of the array.
func (a *Array) Dims() []Dim {
	return append([]Dim(nil), a.dims...)
}

// Dim returns the axis with the given name.
func (a *Array) Dim(name string) (Dim, bool) {
	i := a.axisIndex(name)
	if i < 0 {
		return Dim{}, false
	}
	return a.dims[i], true
}

// Values returns the underlying row-major buffer. The buffer is shared, not
// copied.
func (a *Array) Values() []float64 {
	return a.data
}

// At returns the value at the given multi-index, one index per axis.
func (a *Array) At(indices ...int) float64 {
	if len(indices) != len(a.dims) {
		panic(fmt.Sprintf("array has %d axes, got %d indices", len(a.dims), len(indices)))
	}
	flat := 0
	for i, idx := range indices {
		flat = flat*a.dims[i].Len() + idx
	}
	return a.data[flat]
}

func (a *Array) axisIndex(name string) int {
	for i, d := range a.dims {
		if d.Name == name {
			return i
		}
	}
	return -1
}

func (a *Array) shape() []int {
	shape := make([]int, len(a.dims))
	for i, d := range a.dims {
		shape[i] = d.Len()
	}
	return shape
}

// SelectLabel returns the sub-array at the given label, dropping the axis.
func (a *Array) SelectLabel(axis, label string) (*Array, error) {
	ai := a.axisIndex(axis)
	if ai < 0 {
		return nil, fmt.Errorf("array has no axis %q", axis)
	}
	idx := a.dims[ai].labelIndex(label)
	if idx < 0 {
		return nil, fmt.Errorf("axis %q has no label %q", axis, label)
	}
	return a.take(ai, idx), nil
}

// SelectIndex returns the sub-array at the given position, dropping the axis.
func (a *Array) SelectIndex(axis string, idx int) (*Array, error) {
	ai := a.axisIndex(axis)
	if ai < 0 {
		return nil, fmt.Errorf("array has no axis %q", axis)
	}
	if idx < 0 || idx >= a.dims[ai].Len() {
		return nil, fmt.Errorf("index %d out of range on axis %q", idx, axis)
	}
	return a.take(ai, idx), nil
}

func (a *Array) take(ai, idx int) *Array {
	shape := a.shape()
	outer, inner := 1, 1
	for i := 0; i < ai; i++ {
		outer *= shape[i]
	}
	for i := ai + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	out := make([]float64, outer*inner)
	for o := 0; o < outer; o++ {
		src := (o*shape[ai] + idx) * inner
		copy(out[o*inner:(o+1)*inner], a.data[src:src+inner])
	}

	dims := make([]Dim, 0, len(a.dims)-1)
	dims = append(dims, a.dims[:ai]...)
	dims = append(dims, a.dims[ai+1:]...)
	return &Array{dims: dims, data: out}
}

// SliceCoords restricts a coordinate axis to values within [lo, hi], both ends
// inclusive. Coordinates must be ascending.
func (a *Array) SliceCoords(axis string, lo, hi float64) (*Array, error) {
	ai := a.axisIndex(axis)
	if ai < 0 {
		return nil, fmt.Errorf("array has no axis %q", axis)
	}
	coords := a.dims[ai].Coords
	if coords == nil {
		return nil, fmt.Errorf("axis %q has no coordinates", axis)
	}

	start, end := -1, -1
	for i, c := range coords {
		if c < lo {
			continue
		}
		if c > hi {
			break
		}
		if start < 0 {
			start = i
		}
		end = i
	}
	if start < 0 {
		return nil, fmt.Errorf("no coordinates on axis %q within [%v, %v]", axis, lo, hi)
	}

	shape := a.shape()
	outer, inner := 1, 1
	for i := 0; i < ai; i++ {
		outer *= shape[i]
	}
	for i := ai + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	count := end - start + 1
	out := make([]float64, outer*count*inner)
	for o := 0; o < outer; o++ {
		src := (o*shape[ai] + start) * inner
		dst := o * count * inner
		copy(out[dst:dst+count*inner], a.data[src:src+count*inner])
	}

	dims := append([]Dim(nil), a.dims...)
	dims[ai] = Dim{Name: axis, Coords: append([]float64(nil), coords[start:end+1]...)}
	return &Array{dims: dims, data: out}, nil
}

// NearestIndex returns the position on a coordinate axis closest to v. Ties
// resolve to the lower index.
func (a *Array) NearestIndex(axis string, v float64) (int, error) {
	ai := a.axisIndex(axis)
	if ai < 0 {
		return 0, fmt.Errorf("array has no axis %q", axis)
	}
	coords := a.dims[ai].Coords
	if len(coords) == 0 {
		return 0, fmt.Errorf("axis %q has no coordinates", axis)
	}
	best := 0
	bestDist := math.Abs(coords[0] - v)
	for i, c := range coords[1:] {
		if d := math.Abs(c - v); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best, nil
}

// Stack combines arrays of identical shape along a new leading axis.
func Stack(arrays []*Array, dim Dim) (*Array, error) {
	if len(arrays) == 0 {
		return nil, fmt.Errorf("stack of zero arrays")
	}
	if dim.Len() != len(arrays) {
		return nil, fmt.Errorf("axis %q has %d entries for %d arrays", dim.Name, dim.Len(), len(arrays))
	}
	first := arrays[0]
	for _, a := range arrays[1:] {
		if len(a.dims) != len(first.dims) {
			return nil, fmt.Errorf("stacked arrays have mismatched axes")
		}
		for i, d := range a.dims {
			if d.Name != first.dims[i].Name || d.Len() != first.dims[i].Len() {
				return nil, fmt.Errorf("stacked arrays disagree on axis %q", d.Name)
			}
		}
	}

	data := make([]float64, 0, len(arrays)*len(first.data))
	for _, a := range arrays {
		data = append(data, a.data...)
	}
	dims := append([]Dim{dim}, first.dims...)
	return &Array{dims: dims, data: data}, nil
}
