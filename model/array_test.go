package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testArray(t *testing.T) *Array {
	t.Helper()
	arr, err := NewArray([]Dim{
		{Name: "channel", Labels: []string{"a", "b"}},
		{Name: "time", Coords: []float64{0, 0.1, 0.2, 0.3}},
	}, []float64{1, 2, 3, 4, 10, 20, 30, 40})
	require.NoError(t, err)
	return arr
}

func TestNewArrayValidatesSize(t *testing.T) {
	_, err := NewArray([]Dim{{Name: "feature", Labels: []string{"x", "y"}}}, []float64{1})
	require.Error(t, err)
}

func TestSelectLabelDropsAxis(t *testing.T) {
	arr := testArray(t)

	b, err := arr.SelectLabel("channel", "b")
	require.NoError(t, err)

	dims := b.Dims()
	require.Len(t, dims, 1)
	require.Equal(t, "time", dims[0].Name)
	require.Equal(t, []float64{10, 20, 30, 40}, b.Values())

	_, err = arr.SelectLabel("channel", "missing")
	require.Error(t, err)
}

func TestSelectIndexInnerAxis(t *testing.T) {
	arr := testArray(t)

	at, err := arr.SelectIndex("time", 2)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 30}, at.Values())
}

func TestSliceCoordsInclusive(t *testing.T) {
	arr := testArray(t)

	sliced, err := arr.SliceCoords("time", 0.1, 0.3)
	require.NoError(t, err)

	timeDim, ok := sliced.Dim("time")
	require.True(t, ok)
	require.Equal(t, []float64{0.1, 0.2, 0.3}, timeDim.Coords)
	require.Equal(t, []float64{2, 3, 4, 20, 30, 40}, sliced.Values())

	_, err = arr.SliceCoords("time", 5, 6)
	require.Error(t, err)
}

func TestNearestIndexTiesPickLower(t *testing.T) {
	arr := testArray(t)

	idx, err := arr.NearestIndex("time", 0.24)
	require.NoError(t, err)
	require.Equal(t, 2, idx)

	// Exactly between two coordinates resolves to the lower index.
	idx, err = arr.NearestIndex("time", 0.25)
	require.NoError(t, err)
	require.Equal(t, 2, idx)
}

func TestStackAddsLeadingAxis(t *testing.T) {
	a, err := NewArray([]Dim{{Name: "feature", Labels: []string{"x", "y"}}}, []float64{1, 2})
	require.NoError(t, err)
	b, err := NewArray([]Dim{{Name: "feature", Labels: []string{"x", "y"}}}, []float64{3, 4})
	require.NoError(t, err)

	stacked, err := Stack([]*Array{a, b}, Dim{Name: "cycle", Labels: []string{"0", "1"}})
	require.NoError(t, err)

	dims := stacked.Dims()
	require.Equal(t, "cycle", dims[0].Name)
	require.Equal(t, "feature", dims[1].Name)
	require.Equal(t, []float64{1, 2, 3, 4}, stacked.Values())
	require.Equal(t, 4.0, stacked.At(1, 1))
}

func TestStackRejectsMismatchedShapes(t *testing.T) {
	a, _ := NewArray([]Dim{{Name: "feature", Labels: []string{"x", "y"}}}, []float64{1, 2})
	b, _ := NewArray([]Dim{{Name: "feature", Labels: []string{"x"}}}, []float64{3})

	_, err := Stack([]*Array{a, b}, Dim{Name: "cycle", Labels: []string{"0", "1"}})
	require.Error(t, err)

	_, err = Stack(nil, Dim{Name: "cycle"})
	require.Error(t, err)
}

func TestDimsAreCopies(t *testing.T) {
	arr := testArray(t)
	dims := arr.Dims()
	dims[0].Name = "mutated"

	fresh := arr.Dims()
	if diff := cmp.Diff("channel", fresh[0].Name); diff != "" {
		t.Fatalf("dims leaked mutation (-want +got):\n%s", diff)
	}
}
