package featureexpand

import "github.com/cockroachdb/errors"

var (
	ErrInvalidConfig = errors.New("invalid expansion config")
	// ErrUnknownAggregation is a configuration error.
	ErrUnknownAggregation = errors.Wrap(ErrInvalidConfig, "unknown aggregation")
	ErrColumnLength       = errors.New("column length mismatch")
	ErrExpansionFailed    = errors.New("expansion failed")
)

func invalidConfigf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}

func lengthMismatchf(format string, args ...any) error {
	return errors.Wrapf(ErrColumnLength, format, args...)
}
