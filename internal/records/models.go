package records

import (
	"strings"
	"time"
)

// DayOfWeek is a weekday name as stored by the host ("Lunes".."Sábado").
type DayOfWeek string

const (
	Monday    DayOfWeek = "Lunes"
	Tuesday   DayOfWeek = "Martes"
	Wednesday DayOfWeek = "Miércoles"
	Thursday  DayOfWeek = "Jueves"
	Friday    DayOfWeek = "Viernes"
	Saturday  DayOfWeek = "Sábado"
)

var weekdays = map[string]time.Weekday{
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miércoles": time.Wednesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sábado":    time.Saturday,
	"sabado":    time.Saturday,
}

// Weekday maps the day name onto time.Weekday. Matching is case-insensitive.
func (d DayOfWeek) Weekday() (time.Weekday, bool) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(string(d)))]
	return wd, ok
}

// AttendanceStatus is one entry of the closed attendance status set.
type AttendanceStatus string

const (
	StatusPresent   AttendanceStatus = "Presente"
	StatusAbsent    AttendanceStatus = "Ausente"
	StatusLate      AttendanceStatus = "Retardo"
	StatusJustified AttendanceStatus = "Justificado"
	StatusExchange  AttendanceStatus = "Intercambio"
	StatusPending   AttendanceStatus = "Pendiente"
)

// AllStatuses lists every known status.
var AllStatuses = []AttendanceStatus{
	StatusPresent, StatusAbsent, StatusLate, StatusJustified, StatusExchange, StatusPending,
}

// DefaultPresentStatuses are the statuses that count as attending a class.
var DefaultPresentStatuses = []AttendanceStatus{StatusPresent, StatusLate, StatusJustified, StatusExchange}

// EvaluationCategory is a weighted grouping of evaluations within one partial.
type EvaluationCategory struct {
	ID           string  `json:"id" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Weight       float64 `json:"weight" validate:"gte=0,lte=100"`
	IsAttendance bool    `json:"isAttendance,omitempty"`
}

// Categories holds the category definitions of both partials.
type Categories struct {
	Partial1 []EvaluationCategory `json:"partial1" validate:"dive"`
	Partial2 []EvaluationCategory `json:"partial2" validate:"dive"`
}

// ForPartial returns the categories configured for partial 1 or 2.
func (c Categories) ForPartial(partial int) []EvaluationCategory {
	switch partial {
	case 1:
		return c.Partial1
	case 2:
		return c.Partial2
	}
	return nil
}

// Has reports whether category id is configured for the partial.
func (c Categories) Has(partial int, id string) bool {
	for _, cat := range c.ForPartial(partial) {
		if cat.ID == id {
			return true
		}
	}
	return false
}

type Student struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Matricula   string `json:"matricula"`
	Nickname    string `json:"nickname,omitempty"`
	IsRepeating bool   `json:"isRepeating,omitempty"`
	Team        string `json:"team,omitempty"`
	TeamCoyote  string `json:"teamCoyote,omitempty"`
}

// Matches reports whether the search term is a case-insensitive substring of
// the student's name, matricula or nickname. An empty term matches everyone.
func (s Student) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), term) ||
		(s.Matricula != "" && strings.Contains(strings.ToLower(s.Matricula), term)) ||
		(s.Nickname != "" && strings.Contains(strings.ToLower(s.Nickname), term))
}

type Group struct {
	ID               string      `json:"id" validate:"required"`
	Name             string      `json:"name" validate:"required"`
	Subject          string      `json:"subject"`
	SubjectShortName string      `json:"subjectShortName,omitempty"`
	Quarter          string      `json:"quarter,omitempty"`
	ClassDays        []DayOfWeek `json:"classDays" validate:"dive,weekday"`
	Students         []Student   `json:"students" validate:"dive"`
	Color            string      `json:"color,omitempty"`
	Categories       Categories  `json:"evaluationTypes"`

	// PartialWeights optionally overrides the 50/50 blend of the two partials.
	PartialWeights *[2]float64 `json:"partialWeights,omitempty"`
}

// Student returns the student with the given id.
func (g Group) Student(id string) (Student, bool) {
	for _, s := range g.Students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

type Evaluation struct {
	ID           string  `json:"id" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	MaxScore     float64 `json:"maxScore" validate:"gt=0"`
	Partial      int     `json:"partial" validate:"oneof=1 2"`
	CategoryID   string  `json:"typeId" validate:"required"`
	IsTeamBased  bool    `json:"isTeamBased,omitempty"`
	TeamType     string  `json:"teamType,omitempty" validate:"omitempty,oneof=base coyote"`
	CourseWorkID string  `json:"classroomCourseWorkId,omitempty"`
}

// Settings are the teacher-wide options consumed by the calculations.
type Settings struct {
	SemesterStart   string `json:"semesterStart" validate:"omitempty,datetime=2006-01-02"`
	FirstPartialEnd string `json:"firstPartialEnd,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SemesterEnd     string `json:"semesterEnd" validate:"omitempty,datetime=2006-01-02"`
	P1EvalStart     string `json:"p1EvalStart" validate:"omitempty,datetime=2006-01-02"`
	P1EvalEnd       string `json:"p1EvalEnd" validate:"omitempty,datetime=2006-01-02"`
	P2EvalStart     string `json:"p2EvalStart" validate:"omitempty,datetime=2006-01-02"`
	P2EvalEnd       string `json:"p2EvalEnd" validate:"omitempty,datetime=2006-01-02"`

	// Optional overrides; unset values fall back to the server defaults.
	LowAttendanceThreshold *float64           `json:"lowAttendanceThreshold,omitempty" validate:"omitempty,gte=0,lte=100"`
	FailByAttendance       *bool              `json:"failByAttendance,omitempty"`
	AttendanceTolerance    *float64           `json:"attendanceTolerance,omitempty" validate:"omitempty,gte=0,lte=100"`
	PresentStatuses        []AttendanceStatus `json:"presentStatuses,omitempty" validate:"omitempty,dive,status"`

	ShowMatricula    bool   `json:"showMatricula,omitempty"`
	ShowTeamsInGrade bool   `json:"showTeamsInGrades,omitempty"`
	ProfessorName    string `json:"professorName,omitempty"`
}

// Scores maps an evaluation id (or recovery slot key) to a score; nil means not graded.
type Scores map[string]*float64

// ScoreMap maps a student id to that student's scores.
type ScoreMap map[string]Scores

// AttendanceLog maps an ISO date (YYYY-MM-DD) to the logged status.
type AttendanceLog map[string]AttendanceStatus

// Float returns a pointer to v, for building score maps.
func Float(v float64) *float64 { return &v }
