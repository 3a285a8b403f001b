package featureexpand

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioTable(t *testing.T) *Table {
	t.Helper()
	// deliberately unsorted input
	return mustTable(t,
		StringColumn("id", []string{"A", "A", "A", "A", "A"}),
		IntColumn("t", []int64{3, 1, 5, 2, 4}),
		IntColumn("x", []int64{30, 10, 50, 20, 40}),
	)
}

func TestExpand_PastMeanScenario(t *testing.T) {
	aggs, err := ParseAggs("mean")
	require.NoError(t, err)

	out, err := NewExpander(nil).Expand(context.Background(), scenarioTable(t), Request{
		EntityKeys: []string{"id"},
		TimeKeys:   []string{"t"},
		Periods:    []int{1, 2},
		Aggs:       aggs,
	})
	require.NoError(t, err)

	tCol, _ := out.Column("t")
	require.Equal(t, []int64{5, 4, 3, 2, 1}, tCol.Ints)
	xCol, _ := out.Column("x")
	require.Equal(t, KindInt, xCol.Kind)
	require.Equal(t, []int64{50, 40, 30, 20, 10}, xCol.Ints)

	assertFloats(t, "x_mean_1", []float64{nan, 50, 40, 30, 20}, floatsOf(t, out, "x_mean_1"))
	assertFloats(t, "x_mean_2", []float64{nan, nan, 45, 35, 25}, floatsOf(t, out, "x_mean_2"))
}

func TestExpand_EntityBoundaries(t *testing.T) {
	table := mustTable(t,
		StringColumn("id", []string{"B", "A", "B", "A", "A"}),
		IntColumn("t", []int64{1, 1, 2, 2, 3}),
		FloatColumn("x", []float64{7, 1, 8, 2, 3}),
	)

	out, err := Expand(context.Background(), table, Request{
		EntityKeys: []string{"id"},
		TimeKeys:   []string{"t"},
		Periods:    []int{1},
		Aggs:       []Agg{Builtin(ReducerMean)},
		Suffix:     "G",
	})
	require.NoError(t, err)

	idCol, _ := out.Column("id")
	require.Equal(t, []string{"A", "A", "A", "B", "B"}, idCol.Strings)
	assertFloats(t, "x", []float64{3, 2, 1, 8, 7}, floatsOf(t, out, "x"))
	// row 3 is the first row of B; A's trailing value must not leak into it
	assertFloats(t, "x_mean_1G", []float64{nan, 3, 2, nan, 8}, floatsOf(t, out, "x_mean_1G"))
}

func TestExpand_ProducesExactlyRequestedColumns(t *testing.T) {
	table := mustTable(t,
		StringColumn("player", []string{"p1", "p1", "p2"}),
		IntColumn("gameweek", []int64{1, 2, 1}),
		FloatColumn("SALARY", []float64{100, 110, 90}),
	)
	aggs, err := ParseAggs("mean", "max")
	require.NoError(t, err)

	out, err := Expand(context.Background(), table, Request{
		EntityKeys:     []string{"player"},
		TimeKeys:       []string{"gameweek"},
		Periods:        []int{1, 3},
		Aggs:           aggs,
		Columns:        []string{"SALARY"},
		Suffix:         "D",
		OnlyAggColumns: true,
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		"player", "gameweek",
		"SALARY_mean_1D", "SALARY_mean_3D", "SALARY_max_1D", "SALARY_max_3D",
	}, out.Names())
}

func TestExpand_DefaultColumnsSkipKeysAndText(t *testing.T) {
	table := mustTable(t,
		IntColumn("player", []int64{1, 1}),
		IntColumn("gameweek", []int64{1, 2}),
		StringColumn("position", []string{"FW", "FW"}),
		IntColumn("goals", []int64{1, 0}),
		FloatColumn("rating", []float64{7.1, 6.4}),
	)

	out, err := Expand(context.Background(), table, Request{
		EntityKeys:     []string{"player"},
		TimeKeys:       []string{"gameweek"},
		Periods:        []int{1},
		Aggs:           []Agg{Builtin(ReducerSum)},
		OnlyAggColumns: true,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"player", "gameweek", "goals_sum_1", "rating_sum_1"}, out.Names())
	assertFloats(t, "goals_sum_1", []float64{nan, 0}, floatsOf(t, out, "goals_sum_1"))
}

func TestExpand_PerColumnAggregations(t *testing.T) {
	table := scenarioTable(t)
	out, err := Expand(context.Background(), table, Request{
		EntityKeys: []string{"id"},
		TimeKeys:   []string{"t"},
		Periods:    []int{2},
		Aggs:       []Agg{Builtin(ReducerStd)},
		Columns:    []string{"does-not-matter"},
		PerColumn: []ColumnAggs{
			{Column: "x", Aggs: []Agg{Builtin(ReducerNanMax), Builtin(ReducerDatapoint)}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "t", "x", "x_nanmax_2", "x_dp_2"}, out.Names())
	assertFloats(t, "x_nanmax_2", []float64{nan, 50, 50, 40, 30}, floatsOf(t, out, "x_nanmax_2"))
	assertFloats(t, "x_dp_2", []float64{nan, 50, 40, 30, 20}, floatsOf(t, out, "x_dp_2"))
}

func TestExpand_ParallelMatchesSequential(t *testing.T) {
	ids := make([]string, 0, 60)
	times := make([]int64, 0, 60)
	cols := make([][]float64, 6)
	for i := 0; i < 60; i++ {
		ids = append(ids, string(rune('A'+i%4)))
		times = append(times, int64(i/4))
		for c := range cols {
			cols[c] = append(cols[c], float64((i*(c+3))%17))
		}
	}
	columns := []Column{StringColumn("id", ids), IntColumn("t", times)}
	for c, values := range cols {
		columns = append(columns, FloatColumn(string(rune('a'+c)), values))
	}
	table := mustTable(t, columns...)
	aggs, err := ParseAggs("nanmean", "min", "count")
	require.NoError(t, err)

	req := Request{
		EntityKeys: []string{"id"},
		TimeKeys:   []string{"t"},
		Periods:    []int{1, 3, 5},
		Aggs:       aggs,
	}
	sequential, err := Expand(context.Background(), table, req)
	require.NoError(t, err)

	req.Parallelism = 4
	parallel, err := Expand(context.Background(), table, req)
	require.NoError(t, err)

	require.Equal(t, sequential.Names(), parallel.Names())
	for _, name := range sequential.Names()[2:] {
		assertFloats(t, name, floatsOf(t, sequential, name), floatsOf(t, parallel, name))
	}
}

func TestExpand_WorkerFailureFailsWholeCall(t *testing.T) {
	errBoom := errors.New("boom")
	failing := Custom("explode", func(Window) ([]float64, error) { return nil, errBoom })
	panicking := Custom("panic", func(Window) ([]float64, error) { panic("bad reducer") })

	table := mustTable(t,
		StringColumn("id", []string{"A", "A"}),
		IntColumn("t", []int64{1, 2}),
		FloatColumn("a", []float64{1, 2}),
		FloatColumn("b", []float64{3, 4}),
		FloatColumn("c", []float64{5, 6}),
	)

	for _, parallelism := range []int{1, 3} {
		out, err := Expand(context.Background(), table, Request{
			EntityKeys: []string{"id"},
			TimeKeys:   []string{"t"},
			Periods:    []int{1},
			PerColumn: []ColumnAggs{
				{Column: "a", Aggs: []Agg{Builtin(ReducerMean)}},
				{Column: "b", Aggs: []Agg{failing}},
				{Column: "c", Aggs: []Agg{Builtin(ReducerMean)}},
			},
			Parallelism: parallelism,
		})
		require.Nil(t, out)
		require.ErrorIs(t, err, ErrExpansionFailed)
		require.ErrorIs(t, err, errBoom)

		out, err = Expand(context.Background(), table, Request{
			EntityKeys:  []string{"id"},
			TimeKeys:    []string{"t"},
			Periods:     []int{1},
			Aggs:        []Agg{panicking},
			Parallelism: parallelism,
		})
		require.Nil(t, out)
		require.ErrorIs(t, err, ErrExpansionFailed)
	}
}

func TestExpand_ConfigErrors(t *testing.T) {
	table := scenarioTable(t)
	mean := []Agg{Builtin(ReducerMean)}
	base := func() Request {
		return Request{EntityKeys: []string{"id"}, TimeKeys: []string{"t"}, Periods: []int{1}, Aggs: mean}
	}

	cases := map[string]func(r *Request){
		"missing entity keys":  func(r *Request) { r.EntityKeys = nil },
		"missing time keys":    func(r *Request) { r.TimeKeys = nil },
		"empty key name":       func(r *Request) { r.TimeKeys = []string{""} },
		"no periods":           func(r *Request) { r.Periods = nil },
		"zero period":          func(r *Request) { r.Periods = []int{1, 0} },
		"duplicate period":     func(r *Request) { r.Periods = []int{-2, 1, -2} },
		"negative lag":         func(r *Request) { r.LatestPeriodAvailable = -1 },
		"negative parallelism": func(r *Request) { r.Parallelism = -2 },
		"unknown key":          func(r *Request) { r.EntityKeys = []string{"team"} },
		"unknown column":       func(r *Request) { r.Columns = []string{"y"} },
		"text column":          func(r *Request) { r.Columns = []string{"id"} },
		"empty column name":    func(r *Request) { r.Columns = []string{""} },
		"duplicate column":     func(r *Request) { r.Columns = []string{"x", "x"} },
		"no aggregation":       func(r *Request) { r.Aggs = nil },
		"lag with future":      func(r *Request) { r.Periods = []int{-1, 2}; r.LatestPeriodAvailable = 1 },
		"custom without func":  func(r *Request) { r.Aggs = []Agg{Custom("x", nil)} },
		"per column no aggs":   func(r *Request) { r.PerColumn = []ColumnAggs{{Column: "x"}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := base()
			mutate(&req)
			_, err := Expand(context.Background(), table, req)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Expand(context.Background(), nil, base())
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestExpand_SingleRowEntities(t *testing.T) {
	table := mustTable(t,
		StringColumn("id", []string{"A", "B", "C"}),
		IntColumn("t", []int64{1, 1, 1}),
		FloatColumn("x", []float64{1, 2, 3}),
	)

	out, err := Expand(context.Background(), table, Request{
		EntityKeys: []string{"id"},
		TimeKeys:   []string{"t"},
		Periods:    []int{-3, 4},
		Aggs:       []Agg{Builtin(ReducerMean)},
	})
	require.NoError(t, err)
	assertFloats(t, "x_mean_4", []float64{nan, nan, nan}, floatsOf(t, out, "x_mean_4"))
	assertFloats(t, "x_mean_-3", []float64{nan, nan, nan}, floatsOf(t, out, "x_mean_-3"))
}

func TestExpand_CompositeKeysAndInputUntouched(t *testing.T) {
	table := mustTable(t,
		StringColumn("league", []string{"L1", "L1", "L2", "L1"}),
		IntColumn("player", []int64{9, 9, 9, 9}),
		StringColumn("date", []string{"2025-08-01", "2025-08-08", "2025-08-02", "2025-08-15"}),
		IntColumn("hour", []int64{18, 18, 20, 18}),
		IntColumn("goals", []int64{1, 0, 2, 3}),
	)

	out, err := Expand(context.Background(), table, Request{
		EntityKeys: []string{"league", "player"},
		TimeKeys:   []string{"date", "hour"},
		Periods:    []int{2},
		Aggs:       []Agg{Builtin(ReducerNanSum)},
		Columns:    []string{"goals"},
	})
	require.NoError(t, err)

	dates, _ := out.Column("date")
	require.Equal(t, []string{"2025-08-15", "2025-08-08", "2025-08-01", "2025-08-02"}, dates.Strings)
	assertFloats(t, "goals_nansum_2", []float64{0, 3, 3, 0}, floatsOf(t, out, "goals_nansum_2"))

	original, _ := table.Column("goals")
	require.Equal(t, []int64{1, 0, 2, 3}, original.Ints)
	require.Len(t, table.Names(), 5)
}

func TestExpand_EmptyTable(t *testing.T) {
	table := mustTable(t,
		StringColumn("id", nil),
		IntColumn("t", nil),
		FloatColumn("x", nil),
	)
	out, err := Expand(context.Background(), table, Request{
		EntityKeys: []string{"id"},
		TimeKeys:   []string{"t"},
		Periods:    []int{1},
		Aggs:       []Agg{Builtin(ReducerMean)},
	})
	require.NoError(t, err)
	require.Zero(t, out.Len())
	require.Contains(t, out.Names(), "x_mean_1")
}

func TestCountBy(t *testing.T) {
	table := mustTable(t,
		StringColumn("team", []string{"ars", "che", "ars", "liv", "che", "ars"}),
		IntColumn("season", []int64{2024, 2024, 2024, 2024, 2024, 2023}),
	)

	out, err := CountBy(table, "team")
	require.NoError(t, err)
	teams, _ := out.Column("team")
	cnt, _ := out.Column("cnt")
	require.Equal(t, []string{"ars", "che", "liv"}, teams.Strings)
	require.Equal(t, []int64{3, 2, 1}, cnt.Ints)

	out, err = CountBy(table, "team", "season")
	require.NoError(t, err)
	require.Equal(t, 4, out.Len())

	_, err = CountBy(table, "coach")
	require.ErrorIs(t, err, ErrInvalidConfig)
}
