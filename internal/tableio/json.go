package tableio

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-features/internal/featureexpand"
	"github.com/valyala/bytebufferpool"
)

var decodeAPI = sonic.Config{UseNumber: true}.Froze()

// ReadJSON reads an array of flat records. Nested objects are unpacked one level
// deep into {parent}_{child} columns; deeper values and arrays are kept as their
// JSON text. Columns are ordered by name since JSON objects carry no order.
func ReadJSON(r io.Reader) (*featureexpand.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read json table")
	}
	var records []map[string]any
	if err := decodeAPI.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode json records: %w", ErrMalformedTable, err)
	}

	flat := make([]map[string]string, len(records))
	names := make(map[string]struct{})
	for i, record := range records {
		row, err := flattenRecord(record)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		for name := range row {
			names[name] = struct{}{}
		}
		flat[i] = row
	}

	ordered := make([]string, 0, len(names))
	for name := range names {
		ordered = append(ordered, name)
	}
	slices.Sort(ordered)
	columns := make([]featureexpand.Column, len(ordered))
	for j, name := range ordered {
		c := cells{name: name, tokens: make([]string, len(flat))}
		for i, row := range flat {
			c.tokens[i] = row[name]
		}
		columns[j] = inferColumn(c)
	}
	table, err := featureexpand.NewTable(columns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTable, err)
	}
	return table, nil
}

func flattenRecord(record map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(record))
	for key, value := range record {
		nested, ok := value.(map[string]any)
		if !ok {
			tok, err := token(value)
			if err != nil {
				return nil, errors.Wrapf(err, "field %q", key)
			}
			out[key] = tok
			continue
		}
		for child, v := range nested {
			name := key + "_" + child
			if _, dup := record[name]; dup {
				return nil, errors.Wrapf(ErrMalformedTable, "flattened field %q collides with an existing field", name)
			}
			tok, err := token(v)
			if err != nil {
				return nil, errors.Wrapf(err, "field %q", name)
			}
			out[name] = tok
		}
	}
	return out, nil
}

func token(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		raw, err := sonic.MarshalString(v)
		if err != nil {
			return "", errors.Wrap(err, "encode nested value")
		}
		return raw, nil
	}
}

// WriteJSON writes the table as an array of records keyed by column name, in
// column order. Missing floats are written as null.
func WriteJSON(w io.Writer, table *featureexpand.Table) error {
	if table == nil {
		return errors.Wrap(ErrMalformedTable, "nil table")
	}
	columns := table.Columns()
	keys := make([]string, len(columns))
	for j, col := range columns {
		key, err := sonic.MarshalString(col.Name)
		if err != nil {
			return errors.Wrapf(err, "encode column name %q", col.Name)
		}
		keys[j] = key
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('[')
	for i := 0; i < table.Len(); i++ {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		_ = buf.WriteByte('{')
		for j, col := range columns {
			if j > 0 {
				_ = buf.WriteByte(',')
			}
			value, err := sonic.Marshal(col.Value(i))
			if err != nil {
				return errors.Wrapf(err, "encode row %d column %q", i, col.Name)
			}
			_, _ = buf.WriteString(keys[j])
			_ = buf.WriteByte(':')
			_, _ = buf.Write(value)
		}
		_ = buf.WriteByte('}')
	}
	_, _ = buf.WriteString("]\n")

	if _, err := buf.WriteTo(w); err != nil {
		return errors.Wrap(err, "write json output")
	}
	return nil
}
