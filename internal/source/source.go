// Package source reads raw grade records from CSV and XLSX files.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/huangsam/gradestat/internal/contract"
	"github.com/huangsam/gradestat/schema"
)

// Sentinel errors for record sources.
var (
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrNoHeader          = errors.New("input has no header row")
)

// New returns a RecordSource for the path. AutoInput picks the format from the extension.
func New(path string, format schema.InputFormat, sheet string) (contract.RecordSource, error) {
	if path == "" {
		return nil, errors.New("--input is required")
	}
	resolved, err := ResolveFormat(path, format)
	if err != nil {
		return nil, err
	}
	switch resolved {
	case schema.XLSXInput:
		return &XLSXSource{Path: path, Sheet: sheet}, nil
	default:
		return &CSVSource{Path: path}, nil
	}
}

// ResolveFormat maps AutoInput to a concrete format using the file extension.
func ResolveFormat(path string, format schema.InputFormat) (schema.InputFormat, error) {
	if format != "" && format != schema.AutoInput {
		if _, ok := schema.ValidInputFormats[format]; !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
		}
		return format, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return schema.CSVInput, nil
	case ".xlsx", ".xlsm":
		return schema.XLSXInput, nil
	default:
		return "", fmt.Errorf("%w: cannot detect format of %s (use --input-format)", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// headerIndex trims header cells and drops a leading byte order mark.
func headerIndex(cells []string) ([]string, error) {
	header := make([]string, len(cells))
	nonEmpty := false
	for i, c := range cells {
		if i == 0 {
			c = strings.TrimPrefix(c, "\ufeff")
		}
		header[i] = strings.TrimSpace(c)
		if header[i] != "" {
			nonEmpty = true
		}
	}
	if !nonEmpty {
		return nil, ErrNoHeader
	}
	return header, nil
}

// toRecord pairs a data row with the header. Short rows leave the missing
// columns absent; cells under a blank header are ignored.
func toRecord(header, row []string) schema.RawRecord {
	rec := make(schema.RawRecord, len(header))
	for i, name := range header {
		if name == "" || i >= len(row) {
			continue
		}
		rec[name] = row[i]
	}
	return rec
}

// isBlankRow reports whether every cell of a row is empty.
func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
