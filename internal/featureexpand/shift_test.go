package featureexpand

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildShiftMatrix_SingleEntityPastShift(t *testing.T) {
	feature := []float64{50, 40, 30, 20, 10}
	mask := MaskFromBools(make([]bool, 4))

	m, err := BuildShiftMatrix(feature, mask, []int{1})
	require.NoError(t, err)
	require.Equal(t, 2, m.Depth())

	assertFloats(t, "shift 0", feature, m.Row(0))
	assertFloats(t, "shift 1", []float64{nan, 50, 40, 30, 20}, m.Row(1))
}

func TestBuildShiftMatrix_RowZeroIsOriginal(t *testing.T) {
	feature := []float64{1, 2, 3, 4, 5, 6}
	mask := MaskFromBools([]bool{false, true, false, false, true})

	for _, periods := range [][]int{{0}, {1}, {3}, {-2}, {-1, 4}, {2, -5, 1}, {10}} {
		m, err := BuildShiftMatrix(feature, mask, periods)
		require.NoError(t, err)
		assertFloats(t, "row zero", feature, m.Row(0))
	}
}

func TestBuildShiftMatrix_ZeroPeriodOnly(t *testing.T) {
	feature := []float64{3, 1, 2}
	m, err := BuildShiftMatrix(feature, MaskFromBools([]bool{false, false}), []int{0})
	require.NoError(t, err)
	require.Equal(t, 1, m.Depth())
	require.Equal(t, 0, m.Lo())
	require.Equal(t, 0, m.Hi())
	assertFloats(t, "only row", feature, m.Row(0))
}

func TestBuildShiftMatrix_BoundaryIsolation(t *testing.T) {
	// entity A: rows 0..2, entity B: rows 3..4
	feature := []float64{1, 2, 3, 100, 200}
	mask := MaskFromBools([]bool{false, false, true, false})

	m, err := BuildShiftMatrix(feature, mask, []int{1, 2, 6})
	require.NoError(t, err)
	for s := 1; s <= 6; s++ {
		row := m.Row(s)
		if !math.IsNaN(row[3]) {
			t.Fatalf("shift %d leaked %v into the first row of entity B", s, row[3])
		}
	}
	assertFloats(t, "shift 1", []float64{nan, 1, 2, nan, 100}, m.Row(1))
	assertFloats(t, "shift 2", []float64{nan, nan, 1, nan, nan}, m.Row(2))
}

func TestBuildShiftMatrix_NegativeShifts(t *testing.T) {
	feature := []float64{1, 2, 3, 100, 200}
	mask := MaskFromBools([]bool{false, false, true, false})

	m, err := BuildShiftMatrix(feature, mask, []int{-2, 1})
	require.NoError(t, err)
	require.Equal(t, -2, m.Lo())
	require.Equal(t, 1, m.Hi())
	require.Equal(t, 4, m.Depth())

	assertFloats(t, "shift -1", []float64{2, 3, nan, 200, nan}, m.Row(-1))
	assertFloats(t, "shift -2", []float64{3, nan, nan, nan, nan}, m.Row(-2))
	require.Nil(t, m.Row(2))
}

func TestBuildShiftMatrix_MatchesNaiveShift(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 25; trial++ {
		n := 1 + rng.Intn(40)
		feature := make([]float64, n)
		entity := make([]int, n)
		current := 0
		for i := range feature {
			feature[i] = float64(rng.Intn(1000))
			if i > 0 && rng.Intn(4) == 0 {
				current++
			}
			entity[i] = current
		}
		bits := make([]bool, max(n-1, 0))
		for i := range bits {
			bits[i] = entity[i] != entity[i+1]
		}
		periods := []int{rng.Intn(7) - 3, rng.Intn(9) + 1, -(rng.Intn(5) + 1)}

		m, err := BuildShiftMatrix(feature, MaskFromBools(bits), periods)
		require.NoError(t, err)
		for s := m.Lo(); s <= m.Hi(); s++ {
			want := make([]float64, n)
			for i := range want {
				src := i - s
				if src < 0 || src >= n || entity[src] != entity[i] {
					want[i] = nan
					continue
				}
				want[i] = feature[src]
			}
			assertFloats(t, "naive shift", want, m.Row(s))
		}
	}
}

func TestBuildShiftMatrix_Errors(t *testing.T) {
	_, err := BuildShiftMatrix([]float64{1, 2}, MaskFromBools([]bool{false}), nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = BuildShiftMatrix([]float64{1, 2, 3}, MaskFromBools([]bool{false}), []int{1})
	require.ErrorIs(t, err, ErrColumnLength)
}

func TestBuildShiftMatrix_EmptyFeature(t *testing.T) {
	m, err := BuildShiftMatrix(nil, BoundaryMask{}, []int{-1, 2})
	require.NoError(t, err)
	require.Equal(t, 0, m.Len())
	require.Equal(t, 4, m.Depth())
	require.Empty(t, m.Row(1))
}

func TestBuildShiftMatrix_DoesNotAliasInput(t *testing.T) {
	feature := []float64{1, 2, 3}
	m, err := BuildShiftMatrix(feature, MaskFromBools([]bool{false, false}), []int{1})
	require.NoError(t, err)
	feature[0] = 99
	assertFloats(t, "row zero", []float64{1, 2, 3}, m.Row(0))
}
