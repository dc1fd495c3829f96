package grading_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-gradebook/internal/grading"
	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

func f(v float64) *float64 { return &v }

func examsAndHomework() ([]records.EvaluationCategory, []records.Evaluation) {
	cats := []records.EvaluationCategory{
		{ID: "exams", Name: "Exams", Weight: 40},
		{ID: "hw", Name: "Homework", Weight: 60},
	}
	evals := []records.Evaluation{
		{ID: "e1", Name: "Exam 1", MaxScore: 10, Partial: 1, CategoryID: "exams"},
		{ID: "e2", Name: "Exam 2", MaxScore: 20, Partial: 1, CategoryID: "exams"},
		{ID: "h1", Name: "HW 1", MaxScore: 5, Partial: 1, CategoryID: "hw"},
		{ID: "h2", Name: "HW 2", MaxScore: 10, Partial: 1, CategoryID: "hw"},
	}
	return cats, evals
}

func TestPartialAverage_AttendanceOnly(t *testing.T) {
	cats := []records.EvaluationCategory{{ID: "att", Name: "Asistencia", Weight: 100, IsAttendance: true}}

	avg, ok := grading.PartialAverage(cats, nil, records.Scores{}, 80)
	require.True(t, ok)
	assert.Equal(t, 8.0, avg)
}

func TestPartialAverage_UngradedEvaluationExcluded(t *testing.T) {
	cats, evals := examsAndHomework()
	scores := records.Scores{"e1": f(8), "e2": nil, "h1": f(5), "h2": f(5)}

	avg, ok := grading.PartialAverage(cats, evals, scores, 100)
	require.True(t, ok)
	// exams: 8 (e2 skipped), homework: (10 + 5) / 2
	assert.InDelta(t, 7.7, avg, 1e-9)
}

func TestPartialAverage_UngradedCategoryCountsAsZero(t *testing.T) {
	cats := []records.EvaluationCategory{
		{ID: "exams", Name: "Exams", Weight: 50},
		{ID: "hw", Name: "Homework", Weight: 50},
	}
	evals := []records.Evaluation{
		{ID: "e1", Name: "Exam", MaxScore: 10, Partial: 1, CategoryID: "exams"},
		{ID: "h1", Name: "HW", MaxScore: 10, Partial: 1, CategoryID: "hw"},
	}

	avg, ok := grading.PartialAverage(cats, evals, records.Scores{"h1": f(10)}, 100)
	require.True(t, ok)
	assert.InDelta(t, 5.0, avg, 1e-9)

	avg, ok = grading.PartialAverage(cats, evals, records.Scores{}, 100)
	require.True(t, ok, "missing scores never make the average undefined")
	assert.Zero(t, avg)
}

func TestPartialAverage_NoCategories(t *testing.T) {
	_, evals := examsAndHomework()
	_, ok := grading.PartialAverage(nil, evals, records.Scores{"e1": f(10)}, 100)
	assert.False(t, ok)
}

func TestPartialAverage_SkipsNonPositiveMaxScore(t *testing.T) {
	cats := []records.EvaluationCategory{{ID: "c", Name: "C", Weight: 100}}
	evals := []records.Evaluation{
		{ID: "bad", Name: "Broken", MaxScore: 0, Partial: 1, CategoryID: "c"},
		{ID: "ok", Name: "Fine", MaxScore: 10, Partial: 1, CategoryID: "c"},
	}
	avg, ok := grading.PartialAverage(cats, evals, records.Scores{"bad": f(3), "ok": f(6)}, 0)
	require.True(t, ok)
	assert.InDelta(t, 6.0, avg, 1e-9)
}

func TestPartialAverage_Monotonic(t *testing.T) {
	cats, evals := examsAndHomework()
	cats = append(cats[:1:1], records.EvaluationCategory{ID: "hw", Name: "Homework", Weight: 40},
		records.EvaluationCategory{ID: "att", Name: "Asistencia", Weight: 20, IsAttendance: true})

	prev := -1.0
	for score := 0.0; score <= 10; score += 0.5 {
		scores := records.Scores{"e1": f(score), "e2": f(12), "h1": f(3)}
		avg, ok := grading.PartialAverage(cats, evals, scores, 90)
		require.True(t, ok)
		assert.GreaterOrEqual(t, avg, prev, "score=%v", score)
		prev = avg
	}
}

func TestPartialBreakdown(t *testing.T) {
	cats, evals := examsAndHomework()
	b, ok := grading.PartialBreakdown(cats, evals, records.Scores{"e1": f(5), "e2": f(20)}, 100)
	require.True(t, ok)
	require.Len(t, b.Categories, 2)

	assert.Equal(t, 2, b.Categories[0].Graded)
	assert.InDelta(t, 7.5, b.Categories[0].Value, 1e-9)
	assert.Equal(t, 0, b.Categories[1].Graded)
	assert.Zero(t, b.Categories[1].Value)
	assert.InDelta(t, 3.0, b.Average, 1e-9)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 7.7, grading.Round1(7.66))
	assert.Equal(t, 7.0, grading.Round1(6.96))
	assert.Equal(t, 0.0, grading.Round1(0.04))
}
