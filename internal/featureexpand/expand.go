package featureexpand

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/football-features/internal/platform/logging"
	"github.com/riskibarqy/football-features/internal/platform/workerpool"
)

// ColumnAggs binds aggregations to one feature column.
type ColumnAggs struct {
	Column string
	Aggs   []Agg
}

// Request describes one period expansion.
type Request struct {
	EntityKeys []string `validate:"required,min=1,dive,required"`
	TimeKeys   []string `validate:"required,min=1,dive,required"`
	// Periods are signed window sizes: positive looks at the rows above within an
	// entity block, negative at the rows below.
	Periods []int `validate:"required,min=1,unique,dive,ne=0"`
	// Aggs is applied to every column in Columns. Ignored when PerColumn is set.
	Aggs []Agg
	// Columns defaults to every numeric column that is not a key.
	Columns   []string `validate:"omitempty,dive,required"`
	PerColumn []ColumnAggs
	Suffix    string
	// LatestPeriodAvailable skips the nearest past periods to model reporting lag.
	LatestPeriodAvailable int `validate:"min=0"`
	// OnlyAggColumns restricts the result to the key columns plus new columns.
	OnlyAggColumns bool
	// Parallelism is the number of column workers; 0 and 1 run sequentially.
	Parallelism int `validate:"min=0"`
}

// Expander runs period expansions.
type Expander struct {
	logger   *logging.Logger
	validate *validator.Validate
}

var requestValidator = validator.New()

func NewExpander(logger *logging.Logger) *Expander {
	if logger == nil {
		logger = logging.Default()
	}
	return &Expander{
		logger:   logger,
		validate: requestValidator,
	}
}

// Expand runs req with an expander that logs through logging.Default.
func Expand(ctx context.Context, table *Table, req Request) (*Table, error) {
	return NewExpander(nil).Expand(ctx, table, req)
}

// Expand appends the engineered columns of req to table. The result is sorted by
// entity keys ascending and time keys descending; table itself is left untouched.
// Any failing column fails the whole call.
func (e *Expander) Expand(ctx context.Context, table *Table, req Request) (*Table, error) {
	if table == nil {
		return nil, invalidConfigf("table is required")
	}
	if err := e.validate.StructCtx(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: validate expansion request: %w", ErrInvalidConfig, err)
	}
	plan, err := planColumns(table, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sorted, err := sortPanel(table, req.EntityKeys, req.TimeKeys)
	if err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "sorted panel table", "rows", sorted.Len())

	keys := make([]Column, 0, len(req.EntityKeys))
	for _, name := range req.EntityKeys {
		col, _ := sorted.Column(name)
		keys = append(keys, col)
	}
	mask, err := NewBoundaryMask(keys...)
	if err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "built boundary mask", "entities", entityCount(sorted.Len(), mask))

	results := make([][]Column, len(plan))
	tasks := make([]workerpool.Task, len(plan))
	for idx, item := range plan {
		idx, item := idx, item
		tasks[idx] = func(ctx context.Context) error {
			cols, err := e.expandColumn(ctx, sorted, mask, item, req)
			if err != nil {
				return errors.Wrapf(err, "expand column %q", item.Column)
			}
			results[idx] = cols
			return nil
		}
	}
	if err := workerpool.Run(ctx, req.Parallelism, tasks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExpansionFailed, err)
	}

	base := sorted
	if req.OnlyAggColumns {
		base, err = sorted.Select(keyNames(req)...)
		if err != nil {
			return nil, err
		}
	}
	features := make([]Column, 0, len(plan)*len(req.Periods))
	for _, cols := range results {
		features = append(features, cols...)
	}
	out, err := base.WithColumns(features...)
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "period expansion finished",
		"request", req.Describe(),
		"rows", out.Len(),
		"columns_expanded", len(plan),
		"features", len(features),
		"duration", time.Since(start),
	)
	return out, nil
}

func (e *Expander) expandColumn(ctx context.Context, sorted *Table, mask BoundaryMask, item ColumnAggs, req Request) ([]Column, error) {
	feature, err := sorted.Float64s(item.Column)
	if err != nil {
		return nil, err
	}
	m, err := BuildShiftMatrix(feature, mask, req.Periods)
	if err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "built shift matrix", "column", item.Column, "depth", m.Depth())

	cols, err := Aggregate(m, item.Column, item.Aggs, req.Periods, req.LatestPeriodAvailable, req.Suffix)
	if err != nil {
		return nil, err
	}
	for _, col := range cols {
		e.logger.DebugContext(ctx, "created feature", "feature", col.Name)
	}
	return cols, nil
}

// planColumns normalizes the request into one ColumnAggs per feature column and
// rejects anything that cannot run before any work starts.
func planColumns(table *Table, req Request) ([]ColumnAggs, error) {
	for _, name := range keyNames(req) {
		if _, ok := table.Column(name); !ok {
			return nil, invalidConfigf("unknown key column %q", name)
		}
	}
	if req.LatestPeriodAvailable > 0 && slices.ContainsFunc(req.Periods, func(p int) bool { return p < 0 }) {
		return nil, invalidConfigf("latest period available cannot be combined with future periods")
	}

	plan := req.PerColumn
	if len(plan) == 0 {
		if len(req.Aggs) == 0 {
			return nil, invalidConfigf("no aggregation requested")
		}
		columns := req.Columns
		if len(columns) == 0 {
			columns = defaultFeatureColumns(table, keyNames(req))
		}
		plan = make([]ColumnAggs, 0, len(columns))
		for _, name := range columns {
			plan = append(plan, ColumnAggs{Column: name, Aggs: req.Aggs})
		}
	}

	seen := make(map[string]struct{}, len(plan))
	for _, item := range plan {
		col, ok := table.Column(item.Column)
		if !ok {
			return nil, invalidConfigf("unknown column to expand %q", item.Column)
		}
		if !col.IsNumeric() {
			return nil, invalidConfigf("column to expand %q is %s, want numeric", item.Column, col.Kind)
		}
		if _, dup := seen[item.Column]; dup {
			return nil, invalidConfigf("column %q is listed more than once", item.Column)
		}
		seen[item.Column] = struct{}{}
		if len(item.Aggs) == 0 {
			return nil, invalidConfigf("column %q has no aggregation", item.Column)
		}
		for _, agg := range item.Aggs {
			if err := agg.validate(); err != nil {
				return nil, errors.Wrapf(err, "column %q", item.Column)
			}
		}
	}
	return plan, nil
}

func defaultFeatureColumns(table *Table, keys []string) []string {
	out := make([]string, 0, len(table.columns))
	for _, col := range table.columns {
		if !col.IsNumeric() || slices.Contains(keys, col.Name) {
			continue
		}
		out = append(out, col.Name)
	}
	return out
}

func keyNames(req Request) []string {
	out := make([]string, 0, len(req.EntityKeys)+len(req.TimeKeys))
	out = append(out, req.EntityKeys...)
	for _, name := range req.TimeKeys {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// sortPanel orders rows by entity keys ascending, then time keys descending, so
// each entity forms one contiguous block. Missing float keys sort last either way.
func sortPanel(table *Table, entityKeys, timeKeys []string) (*Table, error) {
	type sortKey struct {
		col  Column
		desc bool
	}
	keys := make([]sortKey, 0, len(entityKeys)+len(timeKeys))
	for _, name := range entityKeys {
		col, ok := table.Column(name)
		if !ok {
			return nil, invalidConfigf("unknown entity key %q", name)
		}
		keys = append(keys, sortKey{col: col})
	}
	for _, name := range timeKeys {
		col, ok := table.Column(name)
		if !ok {
			return nil, invalidConfigf("unknown time key %q", name)
		}
		keys = append(keys, sortKey{col: col, desc: true})
	}

	idx := make([]int, table.Len())
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		for _, k := range keys {
			ma, mb := k.col.missing(a), k.col.missing(b)
			switch {
			case ma && mb:
				continue
			case ma:
				return 1
			case mb:
				return -1
			}
			c := k.col.compare(a, b)
			if c == 0 {
				continue
			}
			if k.desc {
				return -c
			}
			return c
		}
		return 0
	})
	return table.Take(idx), nil
}

func entityCount(rows int, mask BoundaryMask) int {
	if rows == 0 {
		return 0
	}
	return mask.Boundaries() + 1
}

// Describe renders a request for logs.
func (r Request) Describe() string {
	var b strings.Builder
	b.WriteString("entity=")
	b.WriteString(strings.Join(r.EntityKeys, ","))
	b.WriteString(" time=")
	b.WriteString(strings.Join(r.TimeKeys, ","))
	b.WriteString(" periods=")
	for i, p := range r.Periods {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(p))
	}
	return b.String()
}
