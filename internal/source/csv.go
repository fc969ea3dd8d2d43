package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/gradestat/schema"
)

// CSVSource reads records from a CSV file whose first row is the header.
type CSVSource struct {
	Path string
}

// Describe returns the file path.
func (s *CSVSource) Describe() string {
	return s.Path
}

// Records streams every data row of the file to fn.
func (s *CSVSource) Records(ctx context.Context, fn func(schema.RawRecord) error) error {
	file, err := os.Open(s.Path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ReadCSV(ctx, file, fn)
}

// ReadCSV streams records from any CSV reader.
func ReadCSV(ctx context.Context, r io.Reader, fn func(schema.RawRecord) error) error {
	reader := csv.NewReader(r)
	// Allow variable number of fields
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ErrNoHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	header, err := headerIndex(first)
	if err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read row: %w", err)
		}
		if isBlankRow(row) {
			continue
		}
		if err := fn(toRecord(header, row)); err != nil {
			return err
		}
	}
}
