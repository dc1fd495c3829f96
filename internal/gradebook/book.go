// Package gradebook composes the grading core over one group of a snapshot:
// the ordinary and recovery views, their row and column sequences, and the
// per-student summaries shown in each.
package gradebook

import (
	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-gradebook/internal/attendance"
	"github.com/mind-engage/mindengage-gradebook/internal/grading"
	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

// View selects which columns and rows the grid shows.
type View string

const (
	Ordinary View = "ordinary"
	Recovery View = "recovery"
)

var (
	ErrUnknownView   = errors.New("unknown view")
	ErrUnknownColumn = errors.New("unknown column")
	ErrIneligible    = errors.New("recovery slot is not open for this student")
)

func ParseView(s string) (View, error) {
	switch View(s) {
	case "", Ordinary:
		return Ordinary, nil
	case Recovery:
		return Recovery, nil
	}
	return "", errors.Wrap(ErrUnknownView, s)
}

// PolicyFor applies snapshot settings and group overrides on top of base.
func PolicyFor(base grading.Policy, st records.Settings, g records.Group) grading.Policy {
	var opts []grading.Option
	if st.LowAttendanceThreshold != nil {
		opts = append(opts, grading.WithLowAttendanceThreshold(*st.LowAttendanceThreshold))
	}
	if st.FailByAttendance != nil {
		opts = append(opts, grading.WithFailByAttendance(*st.FailByAttendance))
	}
	if st.AttendanceTolerance != nil {
		opts = append(opts, grading.WithAttendanceTolerance(*st.AttendanceTolerance))
	}
	if w := g.PartialWeights; w != nil {
		opts = append(opts, grading.WithPartialWeights(w[0], w[1]))
	}
	return base.With(opts...)
}

// Book is a read-only view of one group.
type Book struct {
	snap   records.Snapshot
	group  records.Group
	evals  []records.Evaluation
	policy grading.Policy
}

func NewBook(snap records.Snapshot, groupID string, base grading.Policy) (*Book, error) {
	g, err := snap.Group(groupID)
	if err != nil {
		return nil, errors.Wrap(err, groupID)
	}
	return &Book{
		snap:   snap,
		group:  g,
		evals:  snap.GroupEvaluations(groupID),
		policy: PolicyFor(base, snap.Settings, g),
	}, nil
}

func (b *Book) Group() records.Group   { return b.group }
func (b *Book) Policy() grading.Policy { return b.policy }

func (b *Book) partialEvaluations(partial int) []records.Evaluation {
	var out []records.Evaluation
	for _, ev := range b.evals {
		if ev.Partial == partial {
			out = append(out, ev)
		}
	}
	return out
}

// Columns returns the column sequence of a view: partial 1 evaluations then
// partial 2 evaluations in stored order, or the four recovery slots.
func (b *Book) Columns(v View) []grading.ColumnKey {
	if v == Recovery {
		return append([]grading.ColumnKey(nil), grading.RecoveryColumns...)
	}
	cols := make([]grading.ColumnKey, 0, len(b.evals))
	for _, p := range []int{1, 2} {
		for _, ev := range b.partialEvaluations(p) {
			cols = append(cols, grading.EvaluationColumn(ev.ID))
		}
	}
	return cols
}

// HasColumn reports whether a key names a recovery slot or an evaluation of
// this group.
func (b *Book) HasColumn(k grading.ColumnKey) bool {
	if k.IsRecovery() {
		return true
	}
	for _, ev := range b.evals {
		if ev.ID == k.EvaluationID {
			return true
		}
	}
	return false
}

// Editable reports whether a single edit may land in the student's cell.
// Recovery slots are editable only while the waterfall has them open.
func (b *Book) Editable(st records.Student, col grading.ColumnKey) bool {
	return !col.IsRecovery() || b.Summarize(st).Resolution.Eligibility.Allows(col)
}

// Attendance holds a student's attendance percentage per scope.
type Attendance struct {
	P1     float64 `json:"p1" yaml:"p1"`
	P2     float64 `json:"p2" yaml:"p2"`
	Global float64 `json:"global" yaml:"global"`
}

// Summary is everything the grid shows for one student.
type Summary struct {
	Student    records.Student      `json:"student" yaml:"student"`
	P1         *float64             `json:"p1" yaml:"p1"` // nil when partial 1 has no categories
	P2         *float64             `json:"p2" yaml:"p2"`
	Breakdown  [2]grading.Breakdown `json:"breakdown" yaml:"-"`
	Attendance Attendance           `json:"attendance" yaml:"attendance"`
	Scores     records.Scores       `json:"scores" yaml:"-"`
	Resolution grading.Resolution   `json:"resolution" yaml:"resolution"`
}

// NeedsRecovery is the recovery view's row filter: a failing result, any
// attendance concern, or a failing partial.
func (s Summary) NeedsRecovery(pass float64) bool {
	below := func(v *float64) bool { return v != nil && *v < pass }
	return s.Resolution.IsFailing ||
		s.Resolution.AttendanceStatus != grading.AttendanceOK ||
		below(s.P1) || below(s.P2)
}

func (b *Book) Summarize(st records.Student) Summary {
	log := b.snap.StudentAttendance(b.group.ID, st.ID)
	scores := b.snap.StudentScores(b.group.ID, st.ID)
	s := Summary{
		Student: st,
		Scores:  scores,
		Attendance: Attendance{
			P1:     attendance.Percentage(b.group, attendance.Partial1, b.snap.Settings, log),
			P2:     attendance.Percentage(b.group, attendance.Partial2, b.snap.Settings, log),
			Global: attendance.Percentage(b.group, attendance.Global, b.snap.Settings, log),
		},
	}
	for i, pct := range []float64{s.Attendance.P1, s.Attendance.P2} {
		partial := i + 1
		bd, ok := grading.PartialBreakdown(b.group.Categories.ForPartial(partial), b.partialEvaluations(partial), scores, pct)
		if !ok {
			continue
		}
		s.Breakdown[i] = bd
		avg := bd.Average
		if partial == 1 {
			s.P1 = &avg
		} else {
			s.P2 = &avg
		}
	}
	s.Resolution = b.policy.Resolve(grading.Inputs{
		P1:               s.P1,
		P2:               s.P2,
		Remedial1:        scores[grading.KeyRemedial1],
		Remedial2:        scores[grading.KeyRemedial2],
		Extra:            scores[grading.KeyExtra],
		Special:          scores[grading.KeySpecial],
		GlobalAttendance: s.Attendance.Global,
		IsRepeating:      st.IsRepeating,
	})
	return s
}

// Rows returns the active row list of a view, filtered by search.
func (b *Book) Rows(v View, search string) []Summary {
	var out []Summary
	for _, st := range b.group.Students {
		if !st.Matches(search) {
			continue
		}
		s := b.Summarize(st)
		if v == Recovery && !s.NeedsRecovery(b.policy.PassingScore) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// RowIDs is Rows reduced to student ids, the row list the grid indexes into.
func (b *Book) RowIDs(v View, search string) []string {
	rows := b.Rows(v, search)
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.Student.ID
	}
	return ids
}

// EvaluationAverage is the class mean of one evaluation on the 0..10 scale.
type EvaluationAverage struct {
	EvaluationID string   `json:"evaluation_id" yaml:"evaluation_id"`
	Name         string   `json:"name" yaml:"name"`
	Partial      int      `json:"partial" yaml:"partial"`
	Graded       int      `json:"graded" yaml:"graded"`
	Average      *float64 `json:"average" yaml:"average"`
}

func (b *Book) EvaluationAverages() []EvaluationAverage {
	out := make([]EvaluationAverage, 0, len(b.evals))
	for _, ev := range b.evals {
		ea := EvaluationAverage{EvaluationID: ev.ID, Name: ev.Name, Partial: ev.Partial}
		var sum float64
		for _, st := range b.group.Students {
			sc := b.snap.StudentScores(b.group.ID, st.ID)[ev.ID]
			if sc == nil || ev.MaxScore <= 0 {
				continue
			}
			sum += *sc / ev.MaxScore * grading.Scale
			ea.Graded++
		}
		if ea.Graded > 0 {
			avg := sum / float64(ea.Graded)
			ea.Average = &avg
		}
		out = append(out, ea)
	}
	return out
}

// StudentAttendance is one student's line in the attendance summary.
type StudentAttendance struct {
	StudentID  string                   `json:"student_id" yaml:"student_id"`
	Name       string                   `json:"name" yaml:"name"`
	Attendance Attendance               `json:"attendance" yaml:"attendance"`
	Status     grading.AttendanceStatus `json:"status" yaml:"status"`
}

type AttendanceReport struct {
	Months   []attendance.Month  `json:"months" yaml:"months"`
	Students []StudentAttendance `json:"students" yaml:"students"`
}

func (b *Book) AttendanceReport() AttendanceReport {
	logs := make(map[string]records.AttendanceLog, len(b.group.Students))
	rep := AttendanceReport{Students: make([]StudentAttendance, 0, len(b.group.Students))}
	for _, st := range b.group.Students {
		logs[st.ID] = b.snap.StudentAttendance(b.group.ID, st.ID)
		s := b.Summarize(st)
		rep.Students = append(rep.Students, StudentAttendance{
			StudentID:  st.ID,
			Name:       st.Name,
			Attendance: s.Attendance,
			Status:     s.Resolution.AttendanceStatus,
		})
	}
	rep.Months = attendance.MonthlySummary(b.group, b.snap.Settings, logs)
	return rep
}
