package grading

import (
	"math"

	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

// Scale is the top of the grading scale every score is normalized to.
const Scale = 10.0

// CategoryResult is the contribution of one category to a partial average.
type CategoryResult struct {
	CategoryID   string  `json:"category_id"`
	Weight       float64 `json:"weight"`
	Value        float64 `json:"value"`  // 0..10
	Graded       int     `json:"graded"` // evaluations with a score
	IsAttendance bool    `json:"is_attendance,omitempty"`
}

// Breakdown is a partial average together with its per-category parts.
type Breakdown struct {
	Average    float64          `json:"average"`
	Categories []CategoryResult `json:"categories"`
}

// PartialBreakdown computes the weighted average of one partial.
//
// An attendance-derived category is worth attendancePct/10. Any other category
// is the mean of its graded evaluations, each normalized to 0..10; ungraded
// evaluations are left out of that mean, but a category with no graded
// evaluation at all contributes 0 and still keeps its weight. The weighted sum
// is divided by 100, so callers are expected to configure weights summing to
// 100. ok is false only when there are no categories.
func PartialBreakdown(categories []records.EvaluationCategory, evaluations []records.Evaluation, scores records.Scores, attendancePct float64) (b Breakdown, ok bool) {
	if len(categories) == 0 {
		return Breakdown{}, false
	}

	byCategory := make(map[string][]records.Evaluation, len(categories))
	for _, ev := range evaluations {
		byCategory[ev.CategoryID] = append(byCategory[ev.CategoryID], ev)
	}

	b.Categories = make([]CategoryResult, 0, len(categories))
	var total float64
	for _, cat := range categories {
		res := CategoryResult{CategoryID: cat.ID, Weight: cat.Weight, IsAttendance: cat.IsAttendance}
		if cat.IsAttendance {
			res.Value = attendancePct / 10
		} else {
			var sum float64
			for _, ev := range byCategory[cat.ID] {
				sc := scores[ev.ID]
				if sc == nil || ev.MaxScore <= 0 {
					continue
				}
				sum += *sc / ev.MaxScore * Scale
				res.Graded++
			}
			if res.Graded > 0 {
				res.Value = sum / float64(res.Graded)
			}
		}
		total += res.Value * cat.Weight
		b.Categories = append(b.Categories, res)
	}
	b.Average = total / 100
	return b, true
}

// PartialAverage is PartialBreakdown without the per-category detail.
func PartialAverage(categories []records.EvaluationCategory, evaluations []records.Evaluation, scores records.Scores, attendancePct float64) (float64, bool) {
	b, ok := PartialBreakdown(categories, evaluations, scores, attendancePct)
	return b.Average, ok
}

// Round1 rounds to one decimal for display.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
