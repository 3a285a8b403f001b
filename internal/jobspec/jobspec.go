// Package jobspec decodes expansion job files.
//
//	entity_keys: [player_id]
//	time_keys: [kickoff_at]
//	periods: [1, 3, -1]
//	columns: [goals, assists]   # or a single name; defaults to every numeric column
//	agg: [mean, nansum]         # or a single name, or a map of column -> name(s)
//	suffix: G
//	latest_period_available: 0
//	only_agg_columns: false
//	parallelism: 4
package jobspec

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-features/internal/featureexpand"
	"gopkg.in/yaml.v3"
)

type Job struct {
	EntityKeys            StringList `yaml:"entity_keys"`
	TimeKeys              StringList `yaml:"time_keys"`
	Periods               []int      `yaml:"periods"`
	Columns               StringList `yaml:"columns"`
	Agg                   AggSpec    `yaml:"agg"`
	Suffix                *string    `yaml:"suffix"`
	LatestPeriodAvailable *int       `yaml:"latest_period_available"`
	OnlyAggColumns        bool       `yaml:"only_agg_columns"`
	Parallelism           *int       `yaml:"parallelism"`
}

// Defaults fill the optional job fields left out of the file.
type Defaults struct {
	Suffix                string
	LatestPeriodAvailable int
	Parallelism           int
}

// StringList accepts a single scalar or a sequence of scalars.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var values []string
		if err := node.Decode(&values); err != nil {
			return fmt.Errorf("%w: line %d: %w", featureexpand.ErrInvalidConfig, node.Line, err)
		}
		*l = values
		return nil
	default:
		return errors.Wrapf(featureexpand.ErrInvalidConfig, "line %d: want a name or a list of names", node.Line)
	}
}

// ColumnAgg is one entry of a per-column agg map.
type ColumnAgg struct {
	Column string
	Names  []string
}

// AggSpec is either one list of aggregation names applied to every column or an
// ordered map from column to its own names.
type AggSpec struct {
	Names     []string
	PerColumn []ColumnAgg
}

func (a *AggSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		var names StringList
		if err := names.UnmarshalYAML(node); err != nil {
			return errors.Wrap(err, "agg")
		}
		a.Names = names
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var names StringList
		if err := names.UnmarshalYAML(value); err != nil {
			return errors.Wrapf(err, "agg for column %q", key.Value)
		}
		a.PerColumn = append(a.PerColumn, ColumnAgg{Column: key.Value, Names: names})
	}
	return nil
}

// Parse decodes a job. Unknown fields are rejected.
func Parse(r io.Reader) (*Job, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var job Job
	if err := dec.Decode(&job); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrap(featureexpand.ErrInvalidConfig, "job file is empty")
		}
		return nil, fmt.Errorf("%w: decode job: %w", featureexpand.ErrInvalidConfig, err)
	}
	return &job, nil
}

func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read job %s", path)
	}
	job, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "job %s", path)
	}
	return job, nil
}

// Request resolves aggregation names and applies defaults. The request is
// validated again by the expander.
func (j *Job) Request(defaults Defaults) (featureexpand.Request, error) {
	req := featureexpand.Request{
		EntityKeys:            j.EntityKeys,
		TimeKeys:              j.TimeKeys,
		Periods:               j.Periods,
		Columns:               j.Columns,
		Suffix:                defaults.Suffix,
		LatestPeriodAvailable: defaults.LatestPeriodAvailable,
		OnlyAggColumns:        j.OnlyAggColumns,
		Parallelism:           defaults.Parallelism,
	}
	if j.Suffix != nil {
		req.Suffix = *j.Suffix
	}
	if j.LatestPeriodAvailable != nil {
		req.LatestPeriodAvailable = *j.LatestPeriodAvailable
	}
	if j.Parallelism != nil {
		req.Parallelism = *j.Parallelism
	}

	if len(j.Agg.PerColumn) > 0 {
		if len(j.Columns) > 0 {
			return featureexpand.Request{}, errors.Wrap(featureexpand.ErrInvalidConfig, "columns cannot be combined with a per-column agg map")
		}
		req.PerColumn = make([]featureexpand.ColumnAggs, 0, len(j.Agg.PerColumn))
		for _, item := range j.Agg.PerColumn {
			aggs, err := featureexpand.ParseAggs(item.Names...)
			if err != nil {
				return featureexpand.Request{}, errors.Wrapf(err, "agg for column %q", item.Column)
			}
			req.PerColumn = append(req.PerColumn, featureexpand.ColumnAggs{Column: item.Column, Aggs: aggs})
		}
		return req, nil
	}

	aggs, err := featureexpand.ParseAggs(j.Agg.Names...)
	if err != nil {
		return featureexpand.Request{}, errors.Wrap(err, "agg")
	}
	req.Aggs = aggs
	return req, nil
}
