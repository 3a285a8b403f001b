package featureexpand

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReducers(t *testing.T) {
	// three table rows, window depth 3
	w, err := NewWindow(3,
		[]float64{1, nan, 4},
		[]float64{3, 5, nan},
		[]float64{2, 7, nan},
	)
	require.NoError(t, err)

	cases := []struct {
		reducer Reducer
		want    []float64
	}{
		{ReducerMean, []float64{2, nan, nan}},
		{ReducerNanMean, []float64{2, 6, 4}},
		{ReducerMin, []float64{1, nan, nan}},
		{ReducerNanMin, []float64{1, 5, 4}},
		{ReducerMax, []float64{3, nan, nan}},
		{ReducerNanMax, []float64{3, 7, 4}},
		{ReducerSum, []float64{6, nan, nan}},
		{ReducerNanSum, []float64{6, 12, 4}},
		{ReducerStd, []float64{math.Sqrt(2.0 / 3.0), nan, nan}},
		{ReducerNanStd, []float64{math.Sqrt(2.0 / 3.0), 1, 0}},
		{ReducerMedian, []float64{2, nan, nan}},
		{ReducerNanMedian, []float64{2, 6, 4}},
		{ReducerCount, []float64{3, 2, 1}},
		{ReducerFirst, []float64{1, nan, 4}},
		{ReducerDatapoint, []float64{1, nan, 4}},
		{ReducerLast, []float64{2, 7, nan}},
	}
	for _, tc := range cases {
		t.Run(tc.reducer.String(), func(t *testing.T) {
			got, err := Builtin(tc.reducer).apply(w)
			require.NoError(t, err)
			assertFloats(t, tc.reducer.String(), tc.want, got)
		})
	}
}

func TestReducers_EmptyWindow(t *testing.T) {
	w, err := NewWindow(2)
	require.NoError(t, err)

	for _, r := range []Reducer{ReducerMean, ReducerNanMean, ReducerMin, ReducerNanMax, ReducerStd, ReducerMedian, ReducerFirst, ReducerLast} {
		got, err := Builtin(r).apply(w)
		require.NoError(t, err)
		assertFloats(t, r.String(), []float64{nan, nan}, got)
	}
	for _, r := range []Reducer{ReducerSum, ReducerNanSum, ReducerCount} {
		got, err := Builtin(r).apply(w)
		require.NoError(t, err)
		assertFloats(t, r.String(), []float64{0, 0}, got)
	}
}

func TestParseReducer(t *testing.T) {
	for r, name := range reducerNames {
		got, err := ParseReducer(name)
		require.NoError(t, err)
		require.Equal(t, r, got)
	}

	got, err := ParseReducer(" NanMean ")
	require.NoError(t, err)
	require.Equal(t, ReducerNanMean, got)

	_, err = ParseReducer("average")
	require.ErrorIs(t, err, ErrUnknownAggregation)
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.Contains(t, err.Error(), "average")
}

func TestParseAggs(t *testing.T) {
	aggs, err := ParseAggs("mean", "max", "dp")
	require.NoError(t, err)
	require.Len(t, aggs, 3)
	require.Equal(t, "mean", aggs[0].Name())
	require.Equal(t, "max", aggs[1].Name())
	require.Equal(t, "dp", aggs[2].Name())

	_, err = ParseAggs("mean", "nope")
	require.ErrorIs(t, err, ErrUnknownAggregation)
}

func TestCustomAgg(t *testing.T) {
	w, err := NewWindow(2, []float64{1, 2}, []float64{3, 4})
	require.NoError(t, err)

	rangeAgg := Custom("range", func(w Window) ([]float64, error) {
		lo := reduceExtreme(w, true, func(a, b float64) bool { return b < a })
		hi := reduceExtreme(w, true, func(a, b float64) bool { return b > a })
		for i := range hi {
			hi[i] -= lo[i]
		}
		return hi, nil
	})
	require.Equal(t, "range", rangeAgg.Name())
	got, err := rangeAgg.apply(w)
	require.NoError(t, err)
	assertFloats(t, "range", []float64{2, 2}, got)

	short := Custom("short", func(Window) ([]float64, error) { return []float64{1}, nil })
	_, err = short.apply(w)
	require.ErrorIs(t, err, ErrColumnLength)

	errBoom := errors.New("boom")
	failing := Custom("failing", func(Window) ([]float64, error) { return nil, errBoom })
	_, err = failing.apply(w)
	require.ErrorIs(t, err, errBoom)

	require.ErrorIs(t, Custom("", rangeAgg.fn).validate(), ErrInvalidConfig)
	require.ErrorIs(t, Custom("nil", nil).validate(), ErrInvalidConfig)
	require.ErrorIs(t, Builtin(Reducer(200)).validate(), ErrUnknownAggregation)
}

func TestWindow_Values(t *testing.T) {
	w, err := NewWindow(2, []float64{1, 2}, []float64{3, 4})
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4}, w.Values(1, nil))

	_, err = NewWindow(2, []float64{1})
	require.ErrorIs(t, err, ErrColumnLength)
}
