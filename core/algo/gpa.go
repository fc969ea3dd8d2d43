// Package algo has the statistics computed over grade histograms.
package algo

import (
	"math"
	"math/big"
	"sort"
	"strconv"

	"github.com/huangsam/gradestat/schema"
)

// GPAStats holds the rounded statistics of one grade histogram.
type GPAStats struct {
	Mean   float64
	StdDev float64
	Median float64
	Graded int
}

// ascendingWeight lists histogram indices from the lowest weight to the highest.
var ascendingWeight = func() []int {
	idx := make([]int, schema.NumGrades)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return schema.WeightAt(idx[a]) < schema.WeightAt(idx[b])
	})
	return idx
}()

// Round2 rounds to two decimal places using the exact binary value of v.
// A stored 3.835 is really 3.83499... and rounds down, while an exactly
// representable tie such as 3.125 rounds away from zero.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	neg := v < 0
	if neg {
		v = -v
	}
	x := new(big.Float).SetPrec(128).SetFloat64(v)
	x.Mul(x, big.NewFloat(100))
	x.Add(x, big.NewFloat(0.5))
	n, _ := x.Int(nil)
	f, _ := new(big.Float).SetInt(n).Float64()
	r := f / 100
	if neg {
		r = -r
	}
	return r
}

// FormatGPA renders a statistic with exactly two decimals.
func FormatGPA(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}

// rawMean returns the unrounded weighted mean and the graded count.
func rawMean(h schema.GradeHistogram) (float64, int) {
	var sum float64
	n := 0
	for i, c := range h {
		sum += float64(c) * schema.WeightAt(i)
		n += c
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// MeanGPA returns the count-weighted mean grade weight, or 0 when nobody is graded.
func MeanGPA(h schema.GradeHistogram) float64 {
	mean, _ := rawMean(h)
	return Round2(mean)
}

// StdDevGPA returns the population standard deviation around the unrounded mean.
// Fewer than two graded students yield 0.
func StdDevGPA(h schema.GradeHistogram) float64 {
	mean, n := rawMean(h)
	if n < 2 {
		return 0
	}
	var ss float64
	for i, c := range h {
		d := schema.WeightAt(i) - mean
		ss += float64(c) * d * d
	}
	return Round2(math.Sqrt(ss / float64(n)))
}

// MedianGPA returns the weight at position (N-1)/2 of the ascending expanded
// multiset of grade weights. For even N this is the lower middle value.
func MedianGPA(h schema.GradeHistogram) float64 {
	n := h.Graded()
	if n == 0 {
		return 0
	}
	pos := (n - 1) / 2
	for _, i := range ascendingWeight {
		if pos < h[i] {
			return Round2(schema.WeightAt(i))
		}
		pos -= h[i]
	}
	return 0
}

// Compute returns every statistic of the histogram.
func Compute(h schema.GradeHistogram) GPAStats {
	return GPAStats{
		Mean:   MeanGPA(h),
		StdDev: StdDevGPA(h),
		Median: MedianGPA(h),
		Graded: h.Graded(),
	}
}
