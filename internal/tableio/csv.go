package tableio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-features/internal/featureexpand"
	"github.com/valyala/bytebufferpool"
)

// ReadCSV reads a table with a header row. Column kinds are inferred.
func ReadCSV(r io.Reader) (*featureexpand.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Wrap(ErrMalformedTable, "csv has no header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	cols := make([]cells, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			return nil, errors.Wrapf(ErrMalformedTable, "csv column %d has no name", i)
		}
		cols[i] = cells{name: name}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) && errors.Is(parseErr.Err, csv.ErrFieldCount) {
				return nil, errors.Wrapf(ErrMalformedTable, "csv line %d: %v", parseErr.Line, parseErr.Err)
			}
			return nil, errors.Wrap(err, "read csv row")
		}
		for i, tok := range record {
			cols[i].tokens = append(cols[i].tokens, tok)
		}
	}

	columns := make([]featureexpand.Column, len(cols))
	for i, c := range cols {
		columns[i] = inferColumn(c)
	}
	table, err := featureexpand.NewTable(columns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTable, err)
	}
	return table, nil
}

// WriteCSV writes a header row and one record per table row. Missing floats are
// written as empty fields.
func WriteCSV(w io.Writer, table *featureexpand.Table) error {
	if table == nil {
		return errors.Wrap(ErrMalformedTable, "nil table")
	}
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writer := csv.NewWriter(buf)
	columns := table.Columns()
	if err := writer.Write(table.Names()); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	record := make([]string, len(columns))
	for i := 0; i < table.Len(); i++ {
		for j, col := range columns {
			record[j] = col.Format(i)
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrapf(err, "write csv row %d", i)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "flush csv")
	}

	if _, err := buf.WriteTo(w); err != nil {
		return errors.Wrap(err, "write csv output")
	}
	return nil
}
