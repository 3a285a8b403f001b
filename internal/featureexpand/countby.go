package featureexpand

import (
	"slices"
	"strings"
)

// CountBy counts rows per distinct key tuple. The result holds the key columns
// plus a "cnt" column, largest groups first; ties keep first-seen order.
func CountBy(table *Table, keys ...string) (*Table, error) {
	if table == nil {
		return nil, invalidConfigf("table is required")
	}
	if len(keys) == 0 {
		return nil, invalidConfigf("at least one key column is required")
	}
	cols := make([]Column, 0, len(keys))
	for _, name := range keys {
		col, ok := table.Column(name)
		if !ok {
			return nil, invalidConfigf("unknown column %q", name)
		}
		cols = append(cols, col)
	}

	groupOf := make(map[string]int, table.Len())
	firstRow := make([]int, 0)
	counts := make([]int64, 0)
	var b strings.Builder
	for i := 0; i < table.Len(); i++ {
		b.Reset()
		for _, col := range cols {
			b.WriteString(col.Kind.String())
			b.WriteByte(':')
			b.WriteString(col.Format(i))
			b.WriteByte(0)
		}
		key := b.String()
		g, ok := groupOf[key]
		if !ok {
			g = len(counts)
			groupOf[key] = g
			firstRow = append(firstRow, i)
			counts = append(counts, 0)
		}
		counts[g]++
	}

	order := make([]int, len(counts))
	for g := range order {
		order[g] = g
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case counts[a] > counts[b]:
			return -1
		case counts[a] < counts[b]:
			return 1
		default:
			return 0
		}
	})

	rows := make([]int, len(order))
	cnt := make([]int64, len(order))
	for k, g := range order {
		rows[k] = firstRow[g]
		cnt[k] = counts[g]
	}
	grouped, err := table.Select(keys...)
	if err != nil {
		return nil, err
	}
	return grouped.Take(rows).WithColumns(IntColumn("cnt", cnt))
}
