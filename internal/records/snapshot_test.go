package records_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

func sampleSnapshot() records.Snapshot {
	return records.Snapshot{
		Groups: []records.Group{validGroup()},
		Evaluations: map[string][]records.Evaluation{
			"g1": {
				{ID: "e1", Name: "Examen 1", MaxScore: 10, Partial: 1, CategoryID: "exam"},
				{ID: "e2", Name: "Examen 2", MaxScore: 10, Partial: 2, CategoryID: "exam"},
				{ID: "e3", Name: "Examen 3", MaxScore: 10, Partial: 1, CategoryID: "exam"},
			},
		},
		Grades: map[string]records.ScoreMap{
			"g1": {"s1": {"e1": records.Float(8), "e3": records.Float(6)}},
		},
	}
}

func TestWithScore_CopyOnWrite(t *testing.T) {
	orig := sampleSnapshot()
	next := orig.WithScore("g1", "s1", "e1", records.Float(10))

	assert.Equal(t, 8.0, *orig.StudentScores("g1", "s1")["e1"])
	assert.Equal(t, 10.0, *next.StudentScores("g1", "s1")["e1"])
	assert.Equal(t, 6.0, *next.StudentScores("g1", "s1")["e3"])

	cleared := next.WithScore("g1", "s1", "e1", nil)
	sc := cleared.StudentScores("g1", "s1")
	assert.Contains(t, sc, "e1")
	assert.Nil(t, sc["e1"])
	assert.NotNil(t, next.StudentScores("g1", "s1")["e1"])

	fresh := orig.WithScore("g2", "s9", "GRADE_EXTRA", records.Float(7))
	assert.Equal(t, 7.0, *fresh.StudentScores("g2", "s9")["GRADE_EXTRA"])
	assert.Empty(t, orig.StudentScores("g2", "s9"))
}

func TestWithAttendance(t *testing.T) {
	orig := sampleSnapshot()
	next := orig.WithAttendance("g1", "s1", "2024-03-04", records.StatusLate)
	assert.Equal(t, records.StatusLate, next.StudentAttendance("g1", "s1")["2024-03-04"])
	assert.Empty(t, orig.StudentAttendance("g1", "s1"))
}

func TestSaveEvaluation(t *testing.T) {
	orig := sampleSnapshot()

	next, err := orig.SaveEvaluation("g1", records.Evaluation{ID: "e2", Name: "Final", MaxScore: 20, Partial: 2, CategoryID: "exam"})
	require.NoError(t, err)
	require.Len(t, next.GroupEvaluations("g1"), 3)
	assert.Equal(t, "Final", next.GroupEvaluations("g1")[1].Name)
	assert.Equal(t, "Examen 2", orig.GroupEvaluations("g1")[1].Name)

	next, err = next.SaveEvaluation("g1", records.Evaluation{ID: "e4", Name: "Proyecto", MaxScore: 10, Partial: 2, CategoryID: "exam"})
	require.NoError(t, err)
	assert.Equal(t, "e4", next.GroupEvaluations("g1")[3].ID)

	_, err = orig.SaveEvaluation("nope", records.Evaluation{ID: "x"})
	assert.ErrorIs(t, err, records.ErrGroupNotFound)
}

func TestDeleteEvaluation_PrunesScores(t *testing.T) {
	orig := sampleSnapshot()
	next, err := orig.DeleteEvaluation("g1", "e1")
	require.NoError(t, err)

	assert.Len(t, next.GroupEvaluations("g1"), 2)
	assert.NotContains(t, next.StudentScores("g1", "s1"), "e1")
	assert.Contains(t, orig.StudentScores("g1", "s1"), "e1")

	_, err = orig.DeleteEvaluation("g1", "missing")
	assert.ErrorIs(t, err, records.ErrEvaluationNotFound)
}

func TestMoveEvaluation_WithinPartial(t *testing.T) {
	orig := sampleSnapshot()

	ids := func(s records.Snapshot) []string {
		var out []string
		for _, e := range s.GroupEvaluations("g1") {
			out = append(out, e.ID)
		}
		return out
	}

	next, err := orig.MoveEvaluation("g1", "e1", records.Right)
	require.NoError(t, err)
	assert.Equal(t, []string{"e3", "e2", "e1"}, ids(next), "skips the partial 2 evaluation")
	assert.Equal(t, []string{"e1", "e2", "e3"}, ids(orig))

	next, err = orig.MoveEvaluation("g1", "e1", records.Left)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2", "e3"}, ids(next), "already first")

	_, err = orig.MoveEvaluation("g1", "zz", records.Left)
	assert.ErrorIs(t, err, records.ErrEvaluationNotFound)
}

func TestGroupLookup(t *testing.T) {
	s := sampleSnapshot()
	g, err := s.Group("g1")
	require.NoError(t, err)
	st, ok := g.Student("s2")
	require.True(t, ok)
	assert.True(t, st.IsRepeating)

	_, err = s.Group("g9")
	assert.ErrorIs(t, err, records.ErrGroupNotFound)
}
