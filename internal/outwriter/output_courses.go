package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/gradestat/internal/contract"
	"github.com/huangsam/gradestat/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// maxInstructorWidth caps the instructor column in tables.
const maxInstructorWidth = 20

// courseCSVHeader lists the CSV columns that come before the grade counts.
var courseCSVHeader = []string{
	"id",
	"subject",
	"course_number",
	"code",
	"title",
	"instructor",
	"crn",
	"total_students",
	"semesters",
	"gpa",
	"median_gpa",
	"std_dev",
	"label",
}

// writeCourseTable renders summaries as a human-readable table.
func writeCourseTable(w io.Writer, courses []schema.CourseSummary, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Code", "Title", "Instructor", "Students", "GPA", "Median", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	titleWidth := GetMaxTableTitleWidth(cfg)
	data := make([][]string, 0, len(courses))
	for i, c := range courses {
		label := contract.GetPlainLabel(c.GPAValue())
		if cfg.UseColors {
			label = contract.GetColorLabel(c.GPAValue())
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			c.Code,
			contract.TruncateText(c.Title, titleWidth),
			contract.TruncateText(c.Instructor, maxInstructorWidth),
			strconv.Itoa(c.TotalStudents),
			c.GPA,
			c.MedianGPA,
			label,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCourseCSV writes one CSV row per summary. Grade counts follow the fixed
// columns in vocabulary order. withRank prepends the 1-based position.
func writeCourseCSV(w io.Writer, courses []schema.CourseSummary, withRank bool) error {
	header := make([]string, 0, len(courseCSVHeader)+schema.NumGrades+1)
	if withRank {
		header = append(header, "rank")
	}
	header = append(header, courseCSVHeader...)
	for _, letter := range schema.GradeLetters {
		header = append(header, string(letter))
	}

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, c := range courses {
			rec := make([]string, 0, len(header))
			if withRank {
				rec = append(rec, strconv.Itoa(i+1))
			}
			rec = append(rec,
				c.ID,
				c.Subject,
				c.CourseNumber,
				c.Code,
				c.Title,
				c.Instructor,
				c.CRN,
				strconv.Itoa(c.TotalStudents),
				strings.Join(c.Semesters, "|"),
				c.GPA,
				c.MedianGPA,
				c.StdDev,
				contract.GetPlainLabel(c.GPAValue()),
			)
			for _, count := range c.Grades {
				rec = append(rec, strconv.Itoa(count))
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
