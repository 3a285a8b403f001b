package featureexpand

import "math"

// ShiftMatrix holds shifted copies of one feature vector, one row per shift in
// [Lo, Hi]. Row s carries the feature moved s positions down the sorted table
// (s < 0 moves it up). A cell is NaN when its source lies outside the table or in
// another entity's block. Row 0 is always the feature itself.
type ShiftMatrix struct {
	lo   int
	hi   int
	n    int
	data []float64
}

// BuildShiftMatrix fills the matrix one shift at a time, deriving shift s from
// shift s-1 (or s+1 for negative shifts), so the whole matrix costs O(N·depth).
// Zero periods are accepted and only ever contribute the unshifted row.
func BuildShiftMatrix(feature []float64, mask BoundaryMask, periods []int) (*ShiftMatrix, error) {
	if len(periods) == 0 {
		return nil, invalidConfigf("periods must not be empty")
	}
	n := len(feature)
	if want := max(n-1, 0); mask.Len() != want {
		return nil, lengthMismatchf("boundary mask has %d entries, want %d", mask.Len(), want)
	}

	lo, hi := shiftRange(periods)
	m := &ShiftMatrix{
		lo:   lo,
		hi:   hi,
		n:    n,
		data: make([]float64, (hi-lo+1)*n),
	}
	copy(m.row(0), feature)
	if n == 0 {
		return m, nil
	}

	nan := math.NaN()
	for s := 1; s <= hi; s++ {
		prev, cur := m.row(s-1), m.row(s)
		cur[0] = nan
		for i := 1; i < n; i++ {
			if mask.bits[i-1] {
				cur[i] = nan
				continue
			}
			cur[i] = prev[i-1]
		}
	}
	for s := -1; s >= lo; s-- {
		prev, cur := m.row(s+1), m.row(s)
		cur[n-1] = nan
		for i := 0; i < n-1; i++ {
			if mask.bits[i] {
				cur[i] = nan
				continue
			}
			cur[i] = prev[i+1]
		}
	}
	return m, nil
}

func shiftRange(periods []int) (lo, hi int) {
	for _, p := range periods {
		lo = min(lo, p)
		hi = max(hi, p)
	}
	return lo, hi
}

func (m *ShiftMatrix) row(shift int) []float64 {
	start := (shift - m.lo) * m.n
	return m.data[start : start+m.n : start+m.n]
}

func (m *ShiftMatrix) Lo() int { return m.lo }

func (m *ShiftMatrix) Hi() int { return m.hi }

// Depth is the number of rows, Hi-Lo+1.
func (m *ShiftMatrix) Depth() int { return m.hi - m.lo + 1 }

// Len is the number of table rows covered by every matrix row.
func (m *ShiftMatrix) Len() int { return m.n }

// Row returns a copy of the row for the given shift.
func (m *ShiftMatrix) Row(shift int) []float64 {
	if shift < m.lo || shift > m.hi {
		return nil
	}
	out := make([]float64, m.n)
	copy(out, m.row(shift))
	return out
}

// window selects shifts from..to (inclusive, ascending). An empty range yields a
// window of depth zero.
func (m *ShiftMatrix) window(from, to int) Window {
	w := Window{n: m.n}
	if from > to {
		return w
	}
	w.rows = make([][]float64, 0, to-from+1)
	for s := from; s <= to; s++ {
		w.rows = append(w.rows, m.row(s))
	}
	return w
}

// Window is an ordered stack of shift-matrix rows. Reducers fold it along the
// temporal axis (across rows) into one value per table row.
type Window struct {
	rows [][]float64
	n    int
}

// NewWindow builds a window over caller-owned rows, all of length n.
func NewWindow(n int, rows ...[]float64) (Window, error) {
	for k, r := range rows {
		if len(r) != n {
			return Window{}, lengthMismatchf("window row %d has %d values, want %d", k, len(r), n)
		}
	}
	return Window{rows: rows, n: n}, nil
}

// Depth is the number of periods stacked in the window.
func (w Window) Depth() int { return len(w.rows) }

// Len is the number of table rows.
func (w Window) Len() int { return w.n }

// Row returns the k-th period of the window. It must not be modified.
func (w Window) Row(k int) []float64 { return w.rows[k] }

// Values gathers the window values of table row i into dst.
func (w Window) Values(i int, dst []float64) []float64 {
	dst = dst[:0]
	for _, r := range w.rows {
		dst = append(dst, r[i])
	}
	return dst
}
