package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/gradestat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = "\ufeffSubject, Course Number,Title,Instructor,CRN,Term,Year,Total_Students,A+,A,F\n" +
	"CSCI,112,Intro,Smith,1001,Fall,2023,10,2,5,3\n" +
	",,,,,,,,,,\n" +
	"MATH,201,\"Calc, II\",,2002,Spring,2024,7,1\n"

// collect gathers every record a source yields.
func collect(t *testing.T, read func(fn func(schema.RawRecord) error) error) []schema.RawRecord {
	t.Helper()
	var out []schema.RawRecord
	require.NoError(t, read(func(r schema.RawRecord) error {
		out = append(out, r)
		return nil
	}))
	return out
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		path     string
		format   schema.InputFormat
		expected schema.InputFormat
		wantErr  bool
	}{
		{"grades.csv", schema.AutoInput, schema.CSVInput, false},
		{"GRADES.XLSX", "", schema.XLSXInput, false},
		{"grades.dat", schema.CSVInput, schema.CSVInput, false},
		{"grades.dat", schema.AutoInput, "", true},
		{"grades.csv", "ods", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+string(tt.format), func(t *testing.T) {
			got, err := ResolveFormat(tt.path, tt.format)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNew(t *testing.T) {
	src, err := New("grades.csv", schema.AutoInput, "")
	require.NoError(t, err)
	assert.IsType(t, &CSVSource{}, src)

	src, err = New("grades.xlsx", schema.AutoInput, "Fall")
	require.NoError(t, err)
	assert.Equal(t, "grades.xlsx#Fall", src.Describe())

	_, err = New("", schema.AutoInput, "")
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	ctx := context.Background()
	records := collect(t, func(fn func(schema.RawRecord) error) error {
		return ReadCSV(ctx, strings.NewReader(sampleCSV), fn)
	})

	require.Len(t, records, 2, "blank rows are skipped")
	assert.Equal(t, "CSCI", records[0][schema.FieldSubject], "BOM is stripped from the first header")
	assert.Equal(t, "112", records[0][schema.FieldCourseNumber], "header cells are trimmed")
	assert.Equal(t, "3", records[0]["F"])

	assert.Equal(t, "Calc, II", records[1][schema.FieldTitle])
	assert.Equal(t, "", records[1][schema.FieldInstructor])
	_, hasF := records[1]["F"]
	assert.False(t, hasF, "short rows leave trailing columns absent")
}

func TestReadCSVErrors(t *testing.T) {
	ctx := context.Background()
	noop := func(schema.RawRecord) error { return nil }

	assert.ErrorIs(t, ReadCSV(ctx, strings.NewReader(""), noop), ErrNoHeader)
	assert.ErrorIs(t, ReadCSV(ctx, strings.NewReader(" , ,\n"), noop), ErrNoHeader)

	stop := errors.New("stop")
	err := ReadCSV(ctx, strings.NewReader(sampleCSV), func(schema.RawRecord) error { return stop })
	assert.ErrorIs(t, err, stop)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, ReadCSV(cancelled, strings.NewReader(sampleCSV), noop), context.Canceled)
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := &CSVSource{Path: filepath.Join(t.TempDir(), "missing.csv")}
	err := src.Records(context.Background(), func(schema.RawRecord) error { return nil })
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// writeWorkbook saves a workbook with the given rows on the named sheet.
func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	f.SetSheetName(f.GetSheetName(0), sheet)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "grades.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSXSource(t *testing.T) {
	path := writeWorkbook(t, "Grades", [][]any{
		{"Subject", "Course Number", "Title", "Instructor", "Term", "Year", "Total_Students", "A"},
		{"CSCI", "112", "Intro", "Smith", "Fall", "2023", 10, 10},
		{"PHYS", "101", "Mechanics", "Lee", "Spring", "2024", 6, 4},
	})

	src := &XLSXSource{Path: path}
	records := collect(t, func(fn func(schema.RawRecord) error) error {
		return src.Records(context.Background(), fn)
	})

	require.Len(t, records, 2)
	assert.Equal(t, "CSCI", records[0][schema.FieldSubject])
	assert.Equal(t, "10", records[0][schema.FieldTotalStudents])
	assert.Equal(t, "Lee", records[1][schema.FieldInstructor])
}

func TestXLSXSourceSheetSelection(t *testing.T) {
	path := writeWorkbook(t, "Fall", [][]any{{"Subject"}, {"CSCI"}})

	src := &XLSXSource{Path: path, Sheet: "Fall"}
	records := collect(t, func(fn func(schema.RawRecord) error) error {
		return src.Records(context.Background(), fn)
	})
	assert.Len(t, records, 1)

	missing := &XLSXSource{Path: path, Sheet: "Winter"}
	err := missing.Records(context.Background(), func(schema.RawRecord) error { return nil })
	assert.ErrorContains(t, err, `sheet "Winter" not found`)
}

func TestPickSheet(t *testing.T) {
	got, err := pickSheet([]string{"A", "B"}, "")
	require.NoError(t, err)
	assert.Equal(t, "A", got)

	_, err = pickSheet(nil, "")
	assert.ErrorIs(t, err, ErrNoHeader)
}
