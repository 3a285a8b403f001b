package tableio

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-features/internal/featureexpand"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported table format")
	ErrMalformedTable    = errors.New("malformed table")
)

func ParseFormat(v string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(v))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", v)
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.Wrapf(ErrUnsupportedFormat, "no extension on %q", path)
	}
	return ParseFormat(ext)
}

func Read(r io.Reader, format Format) (*featureexpand.Table, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSON:
		return ReadJSON(r)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
}

func Write(w io.Writer, format Format, table *featureexpand.Table) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, table)
	case FormatJSON:
		return WriteJSON(w, table)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
}

// ReadFile reads path, using the extension when format is empty.
func ReadFile(path string, format Format) (*featureexpand.Table, error) {
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return nil, err
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open table %s", path)
	}
	defer f.Close()

	table, err := Read(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "read table %s", path)
	}
	return table, nil
}

func WriteFile(path string, format Format, table *featureexpand.Table) (err error) {
	if format == "" {
		if format, err = FormatFromPath(path); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create table %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close table %s", path)
		}
	}()

	if err := Write(f, format, table); err != nil {
		return errors.Wrapf(err, "write table %s", path)
	}
	return nil
}
