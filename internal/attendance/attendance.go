// Package attendance turns a group's class schedule and a student's logged
// statuses into attendance percentages.
package attendance

import (
	"sort"
	"time"

	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

const dateLayout = "2006-01-02"

// Scope selects the date window a percentage is computed over.
type Scope string

const (
	Partial1 Scope = "1"
	Partial2 Scope = "2"
	Global   Scope = "global"
)

// ParseScope accepts "1", "2" or "global"; anything else is Global.
func ParseScope(s string) Scope {
	switch Scope(s) {
	case Partial1, Partial2:
		return Scope(s)
	}
	return Global
}

// DateRange returns the inclusive window of a scope. ok is false when either
// bound is missing or not a valid date, or the window is inverted.
func DateRange(scope Scope, st records.Settings) (from, to time.Time, ok bool) {
	var a, b string
	switch scope {
	case Partial1:
		a, b = st.P1EvalStart, st.P1EvalEnd
	case Partial2:
		a, b = st.P2EvalStart, st.P2EvalEnd
	default:
		a, b = st.SemesterStart, st.SemesterEnd
	}
	from, err := time.ParseInLocation(dateLayout, a, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err = time.ParseInLocation(dateLayout, b, time.UTC)
	if err != nil || to.Before(from) {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// ClassDates enumerates every date in [from, to] whose weekday is one of the
// class days, formatted as YYYY-MM-DD. Unknown day names are ignored.
func ClassDates(days []records.DayOfWeek, from, to time.Time) []string {
	var set [7]bool
	hasDay := false
	for _, d := range days {
		if wd, ok := d.Weekday(); ok {
			set[wd] = true
			hasDay = true
		}
	}
	if !hasDay {
		return nil
	}
	var out []string
	for d := from.UTC(); !d.After(to); d = d.AddDate(0, 0, 1) {
		if set[d.Weekday()] {
			out = append(out, d.Format(dateLayout))
		}
	}
	return out
}

// Counter decides which statuses count as attended.
type Counter struct {
	present map[records.AttendanceStatus]bool
}

// NewCounter builds a counter from the configured present-equivalent
// statuses, falling back to the defaults when none are configured.
func NewCounter(present []records.AttendanceStatus) Counter {
	if len(present) == 0 {
		present = records.DefaultPresentStatuses
	}
	c := Counter{present: make(map[records.AttendanceStatus]bool, len(present))}
	for _, s := range present {
		c.present[s] = true
	}
	return c
}

func (c Counter) Counts(s records.AttendanceStatus) bool { return c.present[s] }

// Tally counts attended dates among the scheduled ones. Unlogged dates are
// absences.
func (c Counter) Tally(dates []string, log records.AttendanceLog) (attended, scheduled int) {
	for _, d := range dates {
		if c.Counts(log[d]) {
			attended++
		}
	}
	return attended, len(dates)
}

// Ratio is attended/scheduled on a 0..100 scale. No scheduled classes means
// full attendance.
func Ratio(attended, scheduled int) float64 {
	if scheduled == 0 {
		return 100
	}
	return float64(attended) / float64(scheduled) * 100
}

// Percentage computes a student's attendance over a scope.
func Percentage(g records.Group, scope Scope, st records.Settings, log records.AttendanceLog) float64 {
	from, to, ok := DateRange(scope, st)
	if !ok {
		return 100
	}
	return Ratio(NewCounter(st.PresentStatuses).Tally(ClassDates(g.ClassDays, from, to), log))
}

// Month is one row of a monthly attendance breakdown.
type Month struct {
	Month      string  `json:"month" yaml:"month"` // YYYY-MM
	Attended   int     `json:"attended" yaml:"attended"`
	Recorded   int     `json:"recorded" yaml:"recorded"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// MonthlySummary aggregates the logged attendance of a group's students per
// calendar month. Only recorded entries count; pending ones are skipped, as
// are log entries of students no longer in the group.
func MonthlySummary(g records.Group, st records.Settings, logs map[string]records.AttendanceLog) []Month {
	c := NewCounter(st.PresentStatuses)
	byMonth := map[string]*Month{}
	for _, s := range g.Students {
		for date, status := range logs[s.ID] {
			if status == "" || status == records.StatusPending {
				continue
			}
			if _, err := time.Parse(dateLayout, date); err != nil {
				continue
			}
			key := date[:7]
			m := byMonth[key]
			if m == nil {
				m = &Month{Month: key}
				byMonth[key] = m
			}
			m.Recorded++
			if c.Counts(status) {
				m.Attended++
			}
		}
	}
	out := make([]Month, 0, len(byMonth))
	for _, m := range byMonth {
		m.Percentage = Ratio(m.Attended, m.Recorded)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
