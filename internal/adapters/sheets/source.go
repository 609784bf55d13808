// Package sheets fetches the raw drink log table.
//
// Every source returns rows of strings, header first, in the form the
// aggregation engine consumes. Cells are never interpreted here.
package sheets

import (
	"context"
	"fmt"
)

// Source fetches the full table.
type Source interface {
	Fetch(ctx context.Context) ([][]string, error)
	// Name identifies the source in logs and metrics.
	Name() string
}

// FromSheetValues converts Sheets API cells to strings. Nil cells become "".
func FromSheetValues(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = toStrings(row)
	}
	return rows
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch t := v.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = t
		default:
			out[i] = fmt.Sprint(t)
		}
	}
	return out
}

// StaticSource serves a fixed table. It backs tests and offline runs.
type StaticSource struct {
	rows [][]string
	err  error
}

// NewStaticSource returns a source that always serves rows.
func NewStaticSource(rows [][]string) *StaticSource {
	return &StaticSource{rows: rows}
}

// NewFailingSource returns a source that always fails with err.
func NewFailingSource(err error) *StaticSource {
	return &StaticSource{err: err}
}

// Fetch implements Source.
func (s *StaticSource) Fetch(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, s.err)
	}
	rows := make([][]string, len(s.rows))
	for i, r := range s.rows {
		rows[i] = append([]string(nil), r...)
	}
	return rows, nil
}

// Name implements Source.
func (s *StaticSource) Name() string { return "static" }
