package featureexpand

import (
	"math"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Reducer enumerates the built-in window reductions. The plain variants propagate
// missing values (any NaN in the window gives NaN); the nan* variants skip them.
type Reducer uint8

const (
	ReducerCustom Reducer = iota
	ReducerMean
	ReducerNanMean
	ReducerMin
	ReducerNanMin
	ReducerMax
	ReducerNanMax
	ReducerSum
	ReducerNanSum
	ReducerStd
	ReducerNanStd
	ReducerMedian
	ReducerNanMedian
	ReducerCount
	ReducerFirst
	ReducerLast
	// ReducerDatapoint picks the nearest observation of the window without
	// aggregating, under the short name "dp".
	ReducerDatapoint
)

var reducerNames = map[Reducer]string{
	ReducerMean:      "mean",
	ReducerNanMean:   "nanmean",
	ReducerMin:       "min",
	ReducerNanMin:    "nanmin",
	ReducerMax:       "max",
	ReducerNanMax:    "nanmax",
	ReducerSum:       "sum",
	ReducerNanSum:    "nansum",
	ReducerStd:       "std",
	ReducerNanStd:    "nanstd",
	ReducerMedian:    "median",
	ReducerNanMedian: "nanmedian",
	ReducerCount:     "count",
	ReducerFirst:     "first",
	ReducerLast:      "last",
	ReducerDatapoint: "dp",
}

var reducersByName = func() map[string]Reducer {
	out := make(map[string]Reducer, len(reducerNames))
	for r, name := range reducerNames {
		out[name] = r
	}
	return out
}()

func (r Reducer) String() string {
	if name, ok := reducerNames[r]; ok {
		return name
	}
	return "custom"
}

// ParseReducer resolves a reducer by name, case-insensitively.
func ParseReducer(name string) (Reducer, error) {
	r, ok := reducersByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ReducerCustom, errors.Wrapf(ErrUnknownAggregation, "%q", name)
	}
	return r, nil
}

// MatrixFunc folds a window along its temporal axis. It must return exactly one
// value per table row.
type MatrixFunc func(w Window) ([]float64, error)

// Agg is one requested aggregation: a built-in reducer or a named MatrixFunc.
type Agg struct {
	reducer Reducer
	name    string
	fn      MatrixFunc
}

func Builtin(r Reducer) Agg {
	return Agg{reducer: r}
}

// Named resolves a built-in aggregation by name.
func Named(name string) (Agg, error) {
	r, err := ParseReducer(name)
	if err != nil {
		return Agg{}, err
	}
	return Agg{reducer: r}, nil
}

// ParseAggs resolves every name, failing on the first unknown one.
func ParseAggs(names ...string) ([]Agg, error) {
	out := make([]Agg, 0, len(names))
	for _, name := range names {
		agg, err := Named(name)
		if err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, nil
}

// Custom wraps fn under name; name is used verbatim in generated column names.
func Custom(name string, fn MatrixFunc) Agg {
	return Agg{reducer: ReducerCustom, name: name, fn: fn}
}

func (a Agg) Name() string {
	if a.reducer == ReducerCustom {
		return a.name
	}
	return a.reducer.String()
}

func (a Agg) Reducer() Reducer { return a.reducer }

func (a Agg) validate() error {
	if a.reducer == ReducerCustom {
		if strings.TrimSpace(a.name) == "" {
			return invalidConfigf("custom aggregation requires a name")
		}
		if a.fn == nil {
			return invalidConfigf("custom aggregation %q has no function", a.name)
		}
		return nil
	}
	if _, ok := reducerNames[a.reducer]; !ok {
		return errors.Wrapf(ErrUnknownAggregation, "reducer %d", a.reducer)
	}
	return nil
}

func (a Agg) apply(w Window) ([]float64, error) {
	if a.reducer == ReducerCustom {
		out, err := a.fn(w)
		if err != nil {
			return nil, errors.Wrapf(err, "custom aggregation %q", a.name)
		}
		if len(out) != w.Len() {
			return nil, lengthMismatchf("custom aggregation %q returned %d values, want %d", a.name, len(out), w.Len())
		}
		return out, nil
	}
	return reduce(a.reducer, w), nil
}

func reduce(r Reducer, w Window) []float64 {
	switch r {
	case ReducerMean:
		return reduceMean(w)
	case ReducerNanMean:
		return reduceNanMean(w)
	case ReducerMin:
		return reduceExtreme(w, false, func(a, b float64) bool { return b < a })
	case ReducerNanMin:
		return reduceExtreme(w, true, func(a, b float64) bool { return b < a })
	case ReducerMax:
		return reduceExtreme(w, false, func(a, b float64) bool { return b > a })
	case ReducerNanMax:
		return reduceExtreme(w, true, func(a, b float64) bool { return b > a })
	case ReducerSum:
		return reduceSum(w, false)
	case ReducerNanSum:
		return reduceSum(w, true)
	case ReducerStd:
		return reduceStd(w, false)
	case ReducerNanStd:
		return reduceStd(w, true)
	case ReducerMedian:
		return reduceMedian(w, false)
	case ReducerNanMedian:
		return reduceMedian(w, true)
	case ReducerCount:
		return reduceCount(w)
	case ReducerFirst, ReducerDatapoint:
		return pickRow(w, 0)
	case ReducerLast:
		return pickRow(w, w.Depth()-1)
	default:
		return filled(w.Len(), math.NaN())
	}
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func reduceSum(w Window, skipNaN bool) []float64 {
	out := make([]float64, w.Len())
	for _, row := range w.rows {
		for i, v := range row {
			if skipNaN && math.IsNaN(v) {
				continue
			}
			out[i] += v
		}
	}
	return out
}

func reduceMean(w Window) []float64 {
	if w.Depth() == 0 {
		return filled(w.Len(), math.NaN())
	}
	out := reduceSum(w, false)
	depth := float64(w.Depth())
	for i := range out {
		out[i] /= depth
	}
	return out
}

func reduceNanMean(w Window) []float64 {
	out := reduceSum(w, true)
	counts := reduceCount(w)
	for i := range out {
		if counts[i] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] /= counts[i]
	}
	return out
}

func reduceCount(w Window) []float64 {
	out := make([]float64, w.Len())
	for _, row := range w.rows {
		for i, v := range row {
			if !math.IsNaN(v) {
				out[i]++
			}
		}
	}
	return out
}

// reduceExtreme keeps the value for which better(current, candidate) holds.
func reduceExtreme(w Window, skipNaN bool, better func(a, b float64) bool) []float64 {
	out := filled(w.Len(), math.NaN())
	if w.Depth() == 0 {
		return out
	}
	if !skipNaN {
		copy(out, w.rows[0])
		for _, row := range w.rows[1:] {
			for i, v := range row {
				switch {
				case math.IsNaN(out[i]):
				case math.IsNaN(v):
					out[i] = v
				case better(out[i], v):
					out[i] = v
				}
			}
		}
		return out
	}
	for _, row := range w.rows {
		for i, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(out[i]) || better(out[i], v) {
				out[i] = v
			}
		}
	}
	return out
}

// reduceStd is the population standard deviation (ddof=0).
func reduceStd(w Window, skipNaN bool) []float64 {
	var mean, counts []float64
	if skipNaN {
		mean, counts = reduceNanMean(w), reduceCount(w)
	} else {
		mean, counts = reduceMean(w), filled(w.Len(), float64(w.Depth()))
	}
	out := make([]float64, w.Len())
	for _, row := range w.rows {
		for i, v := range row {
			if skipNaN && math.IsNaN(v) {
				continue
			}
			d := v - mean[i]
			out[i] += d * d
		}
	}
	for i := range out {
		if counts[i] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Sqrt(out[i] / counts[i])
	}
	return out
}

func reduceMedian(w Window, skipNaN bool) []float64 {
	out := make([]float64, w.Len())
	buf := make([]float64, 0, w.Depth())
	for i := range out {
		buf = w.Values(i, buf)
		if skipNaN {
			buf = slices.DeleteFunc(buf, math.IsNaN)
		} else if slices.ContainsFunc(buf, math.IsNaN) {
			out[i] = math.NaN()
			continue
		}
		out[i] = median(buf)
	}
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	slices.Sort(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

func pickRow(w Window, k int) []float64 {
	if k < 0 || k >= w.Depth() {
		return filled(w.Len(), math.NaN())
	}
	out := make([]float64, w.Len())
	copy(out, w.rows[k])
	return out
}
