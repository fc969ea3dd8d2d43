// Package agg groups raw grade records and accumulates their histograms.
package agg

import (
	"strings"

	"github.com/huangsam/gradestat/schema"
)

// NormalizedRecord is a raw record that passed the record filter.
// Identity fields are trimmed; Raw keeps the original cells for grade parsing.
type NormalizedRecord struct {
	Subject      string
	CourseNumber string
	Title        string
	Instructor   string
	CRN          string
	Term         string
	Year         string
	Raw          schema.RawRecord
}

// field returns the trimmed value of a column, empty when absent.
func field(rec schema.RawRecord, name string) string {
	return strings.TrimSpace(rec[name])
}

// FilterRecord rejects records missing any identity field and normalizes the rest.
// A missing or blank instructor becomes schema.UnknownInstructor.
func FilterRecord(rec schema.RawRecord) (NormalizedRecord, bool) {
	n := NormalizedRecord{
		Subject:      field(rec, schema.FieldSubject),
		CourseNumber: field(rec, schema.FieldCourseNumber),
		Title:        field(rec, schema.FieldTitle),
		Instructor:   field(rec, schema.FieldInstructor),
		CRN:          field(rec, schema.FieldCRN),
		Term:         field(rec, schema.FieldTerm),
		Year:         field(rec, schema.FieldYear),
		Raw:          rec,
	}
	if n.Subject == "" || n.CourseNumber == "" || n.Term == "" || n.Year == "" {
		return NormalizedRecord{}, false
	}
	if n.Instructor == "" {
		n.Instructor = schema.UnknownInstructor
	}
	return n, true
}
