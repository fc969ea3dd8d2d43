package source

import (
	"context"
	"fmt"
	"slices"

	"github.com/huangsam/gradestat/schema"
	"github.com/xuri/excelize/v2"
)

// XLSXSource reads records from one worksheet of a workbook.
// The first row of the sheet is the header.
type XLSXSource struct {
	Path  string
	Sheet string // Empty means the first sheet
}

// Describe returns the path and the sheet when one was chosen.
func (s *XLSXSource) Describe() string {
	if s.Sheet == "" {
		return s.Path
	}
	return s.Path + "#" + s.Sheet
}

// Records streams every data row of the sheet to fn.
func (s *XLSXSource) Records(ctx context.Context, fn func(schema.RawRecord) error) error {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet, err := pickSheet(f.GetSheetList(), s.Sheet)
	if err != nil {
		return err
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	defer func() { _ = rows.Close() }()

	var header []string
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		cells, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("failed to read row of sheet %s: %w", sheet, err)
		}
		if header == nil {
			if header, err = headerIndex(cells); err != nil {
				return err
			}
			continue
		}
		if isBlankRow(cells) {
			continue
		}
		if err := fn(toRecord(header, cells)); err != nil {
			return err
		}
	}
	if err := rows.Error(); err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if header == nil {
		return ErrNoHeader
	}
	return nil
}

// pickSheet returns the requested sheet, or the first one when none was requested.
func pickSheet(sheets []string, want string) (string, error) {
	if len(sheets) == 0 {
		return "", ErrNoHeader
	}
	if want == "" {
		return sheets[0], nil
	}
	if !slices.Contains(sheets, want) {
		return "", fmt.Errorf("sheet %q not found (available: %v)", want, sheets)
	}
	return want, nil
}
