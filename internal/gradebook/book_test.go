package gradebook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
	"github.com/mind-engage/mindengage-gradebook/internal/grading"
	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

func book(t *testing.T, snap records.Snapshot) *gradebook.Book {
	t.Helper()
	b, err := gradebook.NewBook(snap, "g1", grading.NewPolicy())
	require.NoError(t, err)
	return b
}

func ids(rows []gradebook.Summary) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Student.ID)
	}
	return out
}

func TestNewBook_UnknownGroup(t *testing.T) {
	_, err := gradebook.NewBook(fixture(), "nope", grading.NewPolicy())
	assert.ErrorIs(t, err, records.ErrGroupNotFound)
}

func TestParseView(t *testing.T) {
	v, err := gradebook.ParseView("")
	require.NoError(t, err)
	assert.Equal(t, gradebook.Ordinary, v)

	v, err = gradebook.ParseView("recovery")
	require.NoError(t, err)
	assert.Equal(t, gradebook.Recovery, v)

	_, err = gradebook.ParseView("summary")
	assert.ErrorIs(t, err, gradebook.ErrUnknownView)
}

func TestColumns(t *testing.T) {
	b := book(t, fixture())
	assert.Equal(t, []grading.ColumnKey{
		grading.EvaluationColumn("e1"),
		grading.EvaluationColumn("e3"),
		grading.EvaluationColumn("e2"),
	}, b.Columns(gradebook.Ordinary))
	assert.Equal(t, grading.RecoveryColumns, b.Columns(gradebook.Recovery))

	assert.True(t, b.HasColumn(grading.ExtraColumn))
	assert.True(t, b.HasColumn(grading.EvaluationColumn("e2")))
	assert.False(t, b.HasColumn(grading.EvaluationColumn("e9")))
}

func TestSummarize(t *testing.T) {
	rows := book(t, fixture()).Rows(gradebook.Ordinary, "")
	require.Equal(t, []string{"s1", "s2", "s3"}, ids(rows))

	ana := rows[0]
	require.NotNil(t, ana.P1)
	require.NotNil(t, ana.P2)
	assert.InDelta(t, 9.65, *ana.P1, 1e-9)
	assert.InDelta(t, 9.0, *ana.P2, 1e-9)
	assert.InDelta(t, 9.325, ana.Resolution.Score, 1e-9)
	assert.Equal(t, grading.AttendanceOK, ana.Resolution.AttendanceStatus)
	assert.False(t, ana.NeedsRecovery(7))

	beto := rows[1]
	assert.InDelta(t, 6.5, *beto.P1, 1e-9)
	assert.InDelta(t, 5.0, *beto.P2, 1e-9)
	assert.True(t, beto.Resolution.IsFailing)
	assert.Equal(t, grading.Eligibility{Remedial1: true, Remedial2: true, Extra: true}, beto.Resolution.Eligibility)

	carla := rows[2]
	assert.InDelta(t, 50.0, carla.Attendance.P1, 1e-9)
	assert.InDelta(t, 0.0, carla.Attendance.P2, 1e-9)
	assert.InDelta(t, 25.0, carla.Attendance.Global, 1e-9)
	assert.InDelta(t, 8.5, *carla.P1, 1e-9)
	assert.Equal(t, grading.AttendanceFail, carla.Resolution.AttendanceStatus)
	assert.True(t, carla.Resolution.IsFailing)
	assert.InDelta(t, 5.0, carla.Resolution.Score, 1e-9)
}

func TestRows_RecoveryAndSearch(t *testing.T) {
	b := book(t, fixture())
	assert.Equal(t, []string{"s2", "s3"}, b.RowIDs(gradebook.Recovery, ""))
	assert.Equal(t, []string{"s3"}, b.RowIDs(gradebook.Ordinary, "caro"))
	assert.Equal(t, []string{"s2"}, b.RowIDs(gradebook.Recovery, "m02"))
	assert.Empty(t, b.RowIDs(gradebook.Recovery, "ana"))
}

func TestPolicyFor_SettingsOverrides(t *testing.T) {
	snap := fixture()
	off := false
	tol := 0.0
	snap.Settings.FailByAttendance = &off
	snap.Settings.AttendanceTolerance = &tol
	snap.Groups[0].PartialWeights = &[2]float64{0, 100}

	b := book(t, snap)
	assert.False(t, b.Policy().FailByAttendance)
	assert.Zero(t, b.Policy().AttendanceTolerance)
	assert.Equal(t, [2]float64{0, 100}, b.Policy().PartialWeights)

	carla := b.Rows(gradebook.Ordinary, "carla")[0]
	assert.Equal(t, grading.AttendanceRisk, carla.Resolution.AttendanceStatus)
	assert.True(t, carla.Resolution.CriticalAttendance)
	assert.InDelta(t, 10.0, carla.Resolution.Score, 1e-9)
	assert.False(t, carla.Resolution.IsFailing)
}

func TestPolicyFor_ZeroThreshold(t *testing.T) {
	snap := fixture()
	snap.Settings.LowAttendanceThreshold = ptr(0)

	b := book(t, snap)
	assert.Zero(t, b.Policy().LowAttendanceThreshold)
	carla := b.Rows(gradebook.Ordinary, "carla")[0]
	assert.Equal(t, grading.AttendanceOK, carla.Resolution.AttendanceStatus)
}

func TestPolicyFor_Defaults(t *testing.T) {
	base := grading.NewPolicy(grading.WithLowAttendanceThreshold(90))
	p := gradebook.PolicyFor(base, records.Settings{}, records.Group{})
	assert.Equal(t, base, p)
}

func TestNeedsRecovery_UnconfiguredPartial(t *testing.T) {
	snap := fixture()
	snap.Groups[0].Categories.Partial2 = nil
	snap.Evaluations["g1"] = snap.Evaluations["g1"][:1]

	ana := book(t, snap).Rows(gradebook.Ordinary, "ana")[0]
	assert.Nil(t, ana.P2)
	// P2 counts as 0 in the blend, so the final result fails
	assert.True(t, ana.Resolution.IsFailing)
	assert.True(t, ana.NeedsRecovery(7))
}

func TestEvaluationAverages(t *testing.T) {
	avgs := book(t, fixture()).EvaluationAverages()
	require.Len(t, avgs, 3)
	assert.Equal(t, "e1", avgs[0].EvaluationID)
	assert.Equal(t, 3, avgs[0].Graded)
	assert.InDelta(t, 8.0, *avgs[0].Average, 1e-9)
	assert.InDelta(t, 8.0, *avgs[1].Average, 1e-9)

	snap := fixture()
	snap.Grades = nil
	avgs = book(t, snap).EvaluationAverages()
	assert.Nil(t, avgs[0].Average)
	assert.Zero(t, avgs[0].Graded)
}

func TestAttendanceReport(t *testing.T) {
	rep := book(t, fixture()).AttendanceReport()
	require.Len(t, rep.Months, 1)
	assert.Equal(t, "2024-03", rep.Months[0].Month)
	assert.Equal(t, 10, rep.Months[0].Recorded)
	assert.Equal(t, 9, rep.Months[0].Attended)
	assert.InDelta(t, 90.0, rep.Months[0].Percentage, 1e-9)

	require.Len(t, rep.Students, 3)
	assert.Equal(t, "s3", rep.Students[2].StudentID)
	assert.Equal(t, grading.AttendanceFail, rep.Students[2].Status)
}
