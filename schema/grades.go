package schema

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// GradeLetter is one letter of the fixed grade vocabulary.
type GradeLetter string

// The fixed grade vocabulary, best to worst.
const (
	GradeAPlus  GradeLetter = "A+"
	GradeA      GradeLetter = "A"
	GradeAMinus GradeLetter = "A-"
	GradeBPlus  GradeLetter = "B+"
	GradeB      GradeLetter = "B"
	GradeBMinus GradeLetter = "B-"
	GradeCPlus  GradeLetter = "C+"
	GradeC      GradeLetter = "C"
	GradeCMinus GradeLetter = "C-"
	GradeD      GradeLetter = "D"
	GradeF      GradeLetter = "F"
)

// NumGrades is the size of the grade vocabulary.
const NumGrades = 11

// GradeLetters lists the vocabulary in histogram order.
var GradeLetters = [NumGrades]GradeLetter{
	GradeAPlus, GradeA, GradeAMinus,
	GradeBPlus, GradeB, GradeBMinus,
	GradeCPlus, GradeC, GradeCMinus,
	GradeD, GradeF,
}

// gradeWeights holds the GPA weight for each index of GradeLetters.
var gradeWeights = [NumGrades]float64{
	4.0, 4.0, 3.67,
	3.33, 3.0, 2.67,
	2.33, 2.0, 1.67,
	1.0, 0.0,
}

// WeightAt returns the GPA weight of the grade at histogram index i.
func WeightAt(i int) float64 {
	return gradeWeights[i]
}

// GradeIndex returns the histogram index of a letter.
func GradeIndex(letter GradeLetter) (int, bool) {
	for i, l := range GradeLetters {
		if l == letter {
			return i, true
		}
	}
	return 0, false
}

// Weight returns the GPA weight of the letter.
func (g GradeLetter) Weight() (float64, bool) {
	i, ok := GradeIndex(g)
	if !ok {
		return 0, false
	}
	return gradeWeights[i], true
}

// GradeHistogram counts students per grade letter, indexed like GradeLetters.
type GradeHistogram [NumGrades]int

// Add merges other into h element-wise.
func (h *GradeHistogram) Add(other GradeHistogram) {
	for i := range h {
		h[i] += other[i]
	}
}

// Graded returns the number of students holding a weighted letter grade.
func (h GradeHistogram) Graded() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// Get returns the count for a letter, or 0 for letters outside the vocabulary.
func (h GradeHistogram) Get(letter GradeLetter) int {
	i, ok := GradeIndex(letter)
	if !ok {
		return 0
	}
	return h[i]
}

// MarshalJSON writes every letter in vocabulary order, zeros included.
func (h GradeHistogram) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, int](NumGrades)
	for i, letter := range GradeLetters {
		om.Set(string(letter), h[i])
	}
	return json.Marshal(om)
}

// UnmarshalJSON reads an object keyed by grade letter. Unknown letters are rejected.
func (h *GradeHistogram) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*h = GradeHistogram{}
	for key, count := range raw {
		i, ok := GradeIndex(GradeLetter(key))
		if !ok {
			return fmt.Errorf("unknown grade letter %q", key)
		}
		h[i] = count
	}
	return nil
}

// termRanks orders the academic terms within a year.
var termRanks = map[string]int{
	"Spring": 1,
	"Summer": 2,
	"Fall":   3,
	"Winter": 4,
}

// TermRank returns the position of a term within a year. Unrecognized terms rank 0.
func TermRank(term string) int {
	return termRanks[term]
}
