package featureexpand

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// FeatureName is the engineered column name: {column}_{agg}_{period}{suffix}.
func FeatureName(column, agg string, period int, suffix string) string {
	return fmt.Sprintf("%s_%s_%d%s", column, agg, period, suffix)
}

// Aggregate computes one column per (agg, period) pair, aggregations outermost.
//
// A positive period p aggregates shifts latestPeriodAvailable+1 .. p, nearest
// first: the p rows above each row within its entity block, minus the nearest
// latestPeriodAvailable of them. A negative period -p aggregates shifts -p .. -1,
// the p rows below, in matrix order. Rows with a short history get NaN cells in
// the window; the reducer decides how those propagate.
func Aggregate(m *ShiftMatrix, column string, aggs []Agg, periods []int, latestPeriodAvailable int, suffix string) ([]Column, error) {
	if m == nil {
		return nil, invalidConfigf("shift matrix is required")
	}
	if latestPeriodAvailable < 0 {
		return nil, invalidConfigf("latest period available must be >= 0, got %d", latestPeriodAvailable)
	}
	for _, p := range periods {
		if p == 0 {
			return nil, invalidConfigf("period 0 does not define a window")
		}
		if p > m.Hi() || p < m.Lo() {
			return nil, invalidConfigf("period %d is outside the shift matrix range [%d, %d]", p, m.Lo(), m.Hi())
		}
		if p < 0 && latestPeriodAvailable > 0 {
			return nil, invalidConfigf("latest period available cannot be combined with future period %d", p)
		}
	}

	windows := make([]Window, len(periods))
	for k, p := range periods {
		if p > 0 {
			windows[k] = m.window(latestPeriodAvailable+1, p)
		} else {
			windows[k] = m.window(p, -1)
		}
	}

	out := make([]Column, 0, len(aggs)*len(periods))
	for _, agg := range aggs {
		if err := agg.validate(); err != nil {
			return nil, err
		}
		for k, p := range periods {
			values, err := agg.apply(windows[k])
			if err != nil {
				return nil, errors.Wrapf(err, "aggregate %s over period %d", agg.Name(), p)
			}
			out = append(out, FloatColumn(FeatureName(column, agg.Name(), p, suffix), values))
		}
	}
	return out, nil
}
