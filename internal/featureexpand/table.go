package featureexpand

import (
	"cmp"
	"math"
	"strconv"
)

type Kind uint8

const (
	KindFloat Kind = iota + 1
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Column is a named vector. Only the slice matching Kind is populated.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Ints    []int64
	Strings []string
}

func FloatColumn(name string, values []float64) Column {
	return Column{Name: name, Kind: KindFloat, Floats: values}
}

func IntColumn(name string, values []int64) Column {
	return Column{Name: name, Kind: KindInt, Ints: values}
}

func StringColumn(name string, values []string) Column {
	return Column{Name: name, Kind: KindString, Strings: values}
}

func (c Column) Len() int {
	switch c.Kind {
	case KindFloat:
		return len(c.Floats)
	case KindInt:
		return len(c.Ints)
	case KindString:
		return len(c.Strings)
	default:
		return 0
	}
}

func (c Column) IsNumeric() bool {
	return c.Kind == KindFloat || c.Kind == KindInt
}

// Float64s returns a float copy of a numeric column. Integer columns are widened so
// that shifted copies can carry NaN as the missing marker.
func (c Column) Float64s() ([]float64, error) {
	switch c.Kind {
	case KindFloat:
		out := make([]float64, len(c.Floats))
		copy(out, c.Floats)
		return out, nil
	case KindInt:
		out := make([]float64, len(c.Ints))
		for i, v := range c.Ints {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, invalidConfigf("column %q of kind %s is not numeric", c.Name, c.Kind)
	}
}

// Format renders one cell. Missing floats render as an empty string.
func (c Column) Format(i int) string {
	switch c.Kind {
	case KindFloat:
		v := c.Floats[i]
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case KindInt:
		return strconv.FormatInt(c.Ints[i], 10)
	case KindString:
		return c.Strings[i]
	default:
		return ""
	}
}

// Value returns the cell as float64, int64, string or nil for a missing float.
func (c Column) Value(i int) any {
	switch c.Kind {
	case KindFloat:
		if math.IsNaN(c.Floats[i]) {
			return nil
		}
		return c.Floats[i]
	case KindInt:
		return c.Ints[i]
	case KindString:
		return c.Strings[i]
	default:
		return nil
	}
}

func (c Column) missing(i int) bool {
	return c.Kind == KindFloat && math.IsNaN(c.Floats[i])
}

func (c Column) compare(i, j int) int {
	switch c.Kind {
	case KindFloat:
		return cmp.Compare(c.Floats[i], c.Floats[j])
	case KindInt:
		return cmp.Compare(c.Ints[i], c.Ints[j])
	case KindString:
		return cmp.Compare(c.Strings[i], c.Strings[j])
	default:
		return 0
	}
}

func (c Column) equal(i, j int) bool {
	if c.missing(i) || c.missing(j) {
		return c.missing(i) && c.missing(j)
	}
	return c.compare(i, j) == 0
}

func (c Column) take(idx []int) Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case KindFloat:
		out.Floats = make([]float64, len(idx))
		for k, i := range idx {
			out.Floats[k] = c.Floats[i]
		}
	case KindInt:
		out.Ints = make([]int64, len(idx))
		for k, i := range idx {
			out.Ints[k] = c.Ints[i]
		}
	case KindString:
		out.Strings = make([]string, len(idx))
		for k, i := range idx {
			out.Strings[k] = c.Strings[i]
		}
	}
	return out
}

// Table is a column-oriented dataset. Tables are never modified in place: every
// operation returns a new table, and column slices handed out must be treated as
// read-only.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

func NewTable(columns ...Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.Name == "" {
			return nil, invalidConfigf("column %d has an empty name", i)
		}
		if col.Kind < KindFloat || col.Kind > KindString {
			return nil, invalidConfigf("column %q has unknown kind %d", col.Name, col.Kind)
		}
		if _, exists := t.index[col.Name]; exists {
			return nil, invalidConfigf("duplicate column %q", col.Name)
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, lengthMismatchf("column %q has %d rows, want %d", col.Name, col.Len(), t.rows)
		}
		t.index[col.Name] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t, nil
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

func (t *Table) Names() []string {
	out := make([]string, len(t.columns))
	for i, col := range t.columns {
		out[i] = col.Name
	}
	return out
}

func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

func (t *Table) Float64s(name string) ([]float64, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, invalidConfigf("unknown column %q", name)
	}
	return col.Float64s()
}

func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		col, ok := t.Column(name)
		if !ok {
			return nil, invalidConfigf("unknown column %q", name)
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return &Table{index: map[string]int{}, rows: t.rows}, nil
	}
	return NewTable(cols...)
}

// Take returns a new table holding the rows at idx, in that order.
func (t *Table) Take(idx []int) *Table {
	out := &Table{
		columns: make([]Column, len(t.columns)),
		index:   make(map[string]int, len(t.columns)),
		rows:    len(idx),
	}
	for i, col := range t.columns {
		out.columns[i] = col.take(idx)
		out.index[col.Name] = i
	}
	return out
}

// WithColumns appends cols, replacing existing columns of the same name in place.
func (t *Table) WithColumns(cols ...Column) (*Table, error) {
	out := &Table{
		columns: make([]Column, len(t.columns), len(t.columns)+len(cols)),
		index:   make(map[string]int, len(t.columns)+len(cols)),
		rows:    t.rows,
	}
	copy(out.columns, t.columns)
	for name, i := range t.index {
		out.index[name] = i
	}
	for _, col := range cols {
		if col.Name == "" {
			return nil, invalidConfigf("column has an empty name")
		}
		if len(out.columns) == 0 && out.rows == 0 {
			out.rows = col.Len()
		}
		if col.Len() != out.rows {
			return nil, lengthMismatchf("column %q has %d rows, want %d", col.Name, col.Len(), out.rows)
		}
		if i, exists := out.index[col.Name]; exists {
			out.columns[i] = col
			continue
		}
		out.index[col.Name] = len(out.columns)
		out.columns = append(out.columns, col)
	}
	return out, nil
}
