package agg

import (
	"fmt"

	"github.com/huangsam/gradestat/schema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// GroupKey identifies a (course, instructor) group.
type GroupKey struct {
	Code       string
	Instructor string
}

// ID is the serialized form of the key, "<code>-<instructor>".
// Codes or instructors containing "-" can collide here; the key itself cannot.
func (k GroupKey) ID() string {
	return k.Code + "-" + k.Instructor
}

// SemesterAggregate holds one semester's share of a group.
type SemesterAggregate struct {
	Label         string
	Term          string
	Year          string
	Grades        schema.GradeHistogram
	TotalStudents int
}

// CourseGroup pools every record of one course taught by one instructor.
type CourseGroup struct {
	Key           GroupKey
	Subject       string
	CourseNumber  string
	Title         string
	CRN           string
	Grades        schema.GradeHistogram
	TotalStudents int

	semesters *orderedmap.OrderedMap[string, *SemesterAggregate]
}

func newCourseGroup(key GroupKey, rec NormalizedRecord) *CourseGroup {
	return &CourseGroup{
		Key:          key,
		Subject:      rec.Subject,
		CourseNumber: rec.CourseNumber,
		semesters:    orderedmap.New[string, *SemesterAggregate](),
	}
}

// Semesters returns the group's semesters in first-seen order.
func (g *CourseGroup) Semesters() []*SemesterAggregate {
	out := make([]*SemesterAggregate, 0, g.semesters.Len())
	for pair := g.semesters.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// SemesterCount returns how many distinct semesters the group spans.
func (g *CourseGroup) SemesterCount() int {
	return g.semesters.Len()
}

// Semester returns the aggregate for a "{term} {year}" label.
func (g *CourseGroup) Semester(label string) (*SemesterAggregate, bool) {
	return g.semesters.Get(label)
}

// CheckConsistency recomputes the group totals from its semesters and reports any drift.
func (g *CourseGroup) CheckConsistency() error {
	var grades schema.GradeHistogram
	total := 0
	for pair := g.semesters.Oldest(); pair != nil; pair = pair.Next() {
		grades.Add(pair.Value.Grades)
		total += pair.Value.TotalStudents
	}
	if total != g.TotalStudents {
		return fmt.Errorf("group %s: total students %d does not match semester sum %d", g.Key.ID(), g.TotalStudents, total)
	}
	if grades != g.Grades {
		return fmt.Errorf("group %s: grade histogram does not match semester sum", g.Key.ID())
	}
	return nil
}

// Registry owns every group of one run, in first-seen order.
type Registry struct {
	groups *orderedmap.OrderedMap[GroupKey, *CourseGroup]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{groups: orderedmap.New[GroupKey, *CourseGroup]()}
}

// Group finds or creates the group and semester a record belongs to.
// The first non-empty CRN and title seen for a group are kept.
func (r *Registry) Group(rec NormalizedRecord) (*CourseGroup, *SemesterAggregate) {
	key := GroupKey{Code: rec.Subject + " " + rec.CourseNumber, Instructor: rec.Instructor}

	group, ok := r.groups.Get(key)
	if !ok {
		group = newCourseGroup(key, rec)
		r.groups.Set(key, group)
	}
	if group.CRN == "" && rec.CRN != "" {
		group.CRN = rec.CRN
	}
	if group.Title == "" && rec.Title != "" {
		group.Title = rec.Title
	}

	label := rec.Term + " " + rec.Year
	semester, ok := group.semesters.Get(label)
	if !ok {
		semester = &SemesterAggregate{Label: label, Term: rec.Term, Year: rec.Year}
		group.semesters.Set(label, semester)
	}
	return group, semester
}

// Groups returns every group in first-seen order.
func (r *Registry) Groups() []*CourseGroup {
	out := make([]*CourseGroup, 0, r.groups.Len())
	for pair := r.groups.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Len returns the number of groups.
func (r *Registry) Len() int {
	return r.groups.Len()
}
