package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-gradebook/internal/attendance"
	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// 2024-03-04 is a Monday.
var settings = records.Settings{
	SemesterStart: "2024-03-04",
	SemesterEnd:   "2024-04-05",
	P1EvalStart:   "2024-03-04",
	P1EvalEnd:     "2024-03-15",
	P2EvalStart:   "2024-03-18",
	P2EvalEnd:     "2024-03-29",
}

var group = records.Group{
	ID:        "g1",
	Name:      "1A",
	ClassDays: []records.DayOfWeek{records.Monday, "miercoles"},
	Students:  []records.Student{{ID: "s1", Name: "Ana"}, {ID: "s2", Name: "Beto"}},
}

func TestClassDates(t *testing.T) {
	got := attendance.ClassDates(group.ClassDays, day("2024-03-04"), day("2024-03-13"))
	assert.Equal(t, []string{"2024-03-04", "2024-03-06", "2024-03-11", "2024-03-13"}, got)

	assert.Empty(t, attendance.ClassDates(nil, day("2024-03-04"), day("2024-03-13")))
	assert.Empty(t, attendance.ClassDates([]records.DayOfWeek{"Domingo"}, day("2024-03-04"), day("2024-03-13")))
	assert.Empty(t, attendance.ClassDates(group.ClassDays, day("2024-03-13"), day("2024-03-04")))
}

func TestDateRange(t *testing.T) {
	from, to, ok := attendance.DateRange(attendance.Partial2, settings)
	require.True(t, ok)
	assert.True(t, from.Equal(day("2024-03-18")))
	assert.True(t, to.Equal(day("2024-03-29")))

	_, _, ok = attendance.DateRange(attendance.Partial1, records.Settings{P1EvalStart: "2024-03-04"})
	assert.False(t, ok)

	_, _, ok = attendance.DateRange(attendance.Global, records.Settings{SemesterStart: "2024-05-01", SemesterEnd: "2024-04-01"})
	assert.False(t, ok)
}

func TestParseScope(t *testing.T) {
	assert.Equal(t, attendance.Partial1, attendance.ParseScope("1"))
	assert.Equal(t, attendance.Partial2, attendance.ParseScope("2"))
	assert.Equal(t, attendance.Global, attendance.ParseScope("global"))
	assert.Equal(t, attendance.Global, attendance.ParseScope("3"))
}

func TestPercentage(t *testing.T) {
	// partial 1 has four classes: 03-04, 03-06, 03-11, 03-13
	log := records.AttendanceLog{
		"2024-03-04": records.StatusPresent,
		"2024-03-06": records.StatusLate,
		"2024-03-11": records.StatusAbsent,
		// 03-13 unlogged counts as absent
		"2024-03-18": records.StatusPresent,
	}
	assert.InDelta(t, 50.0, attendance.Percentage(group, attendance.Partial1, settings, log), 1e-9)

	st := settings
	st.PresentStatuses = []records.AttendanceStatus{records.StatusPresent}
	assert.InDelta(t, 25.0, attendance.Percentage(group, attendance.Partial1, st, log), 1e-9)
}

func TestPercentage_DefaultPresentStatuses(t *testing.T) {
	log := records.AttendanceLog{
		"2024-03-04": records.StatusJustified,
		"2024-03-06": records.StatusExchange,
		"2024-03-11": records.StatusPending,
		"2024-03-13": records.StatusPresent,
	}
	assert.InDelta(t, 75.0, attendance.Percentage(group, attendance.Partial1, settings, log), 1e-9)
}

func TestPercentage_NoScheduledClasses(t *testing.T) {
	logs := []records.AttendanceLog{
		nil,
		{},
		{"2024-03-04": records.StatusAbsent, "2024-03-06": records.StatusAbsent},
	}
	noDays := group
	noDays.ClassDays = nil
	for _, log := range logs {
		assert.Equal(t, 100.0, attendance.Percentage(noDays, attendance.Global, settings, log))
		assert.Equal(t, 100.0, attendance.Percentage(group, attendance.Global, records.Settings{}, log))
	}
}

func TestMonthlySummary(t *testing.T) {
	logs := map[string]records.AttendanceLog{
		"s1": {
			"2024-03-04": records.StatusPresent,
			"2024-03-06": records.StatusAbsent,
			"2024-04-01": records.StatusLate,
		},
		"s2": {
			"2024-03-04": records.StatusPresent,
			"2024-03-06": records.StatusPending,
			"2024-04-01": records.StatusAbsent,
		},
		"gone": {"2024-03-04": records.StatusAbsent},
	}
	got := attendance.MonthlySummary(group, settings, logs)
	require.Len(t, got, 2)

	assert.Equal(t, "2024-03", got[0].Month)
	assert.Equal(t, 2, got[0].Attended)
	assert.Equal(t, 3, got[0].Recorded)
	assert.InDelta(t, 66.67, got[0].Percentage, 0.01)
	assert.Equal(t, "2024-04", got[1].Month)
	assert.Equal(t, 1, got[1].Attended)
	assert.Equal(t, 2, got[1].Recorded)
	assert.InDelta(t, 50.0, got[1].Percentage, 1e-9)
}
