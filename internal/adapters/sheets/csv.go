package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
)

// CSVSource reads the table from a CSV export of the sheet. The file is read
// on every Fetch so edits show up on the next refresh.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source reading path.
func NewCSVSource(path string) (*CSVSource, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty csv path", ErrNotConfigured)
	}
	return &CSVSource{path: path}, nil
}

// Fetch implements Source.
func (s *CSVSource) Fetch(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // short rows are padded by the parser
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, s.path, err)
	}
	return rows, nil
}

// Name implements Source.
func (s *CSVSource) Name() string { return "csv" }

// WriteCSV writes rows as CSV to path, creating or truncating it.
func WriteCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
