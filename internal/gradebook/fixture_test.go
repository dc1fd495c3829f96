package gradebook_test

import (
	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

func ptr(v float64) *float64 { return &v }

// fixture is a three-student group with classes every Monday of March 2024:
// partial 1 covers 03-04 and 03-11, partial 2 covers 03-18 and 03-25.
//
//	s1 Ana:   strong, full attendance
//	s2 Beto:  repeating, failing both partials, full attendance
//	s3 Carla: strong scores, one class attended out of four
func fixture() records.Snapshot {
	allMondays := records.AttendanceLog{
		"2024-03-04": records.StatusPresent,
		"2024-03-11": records.StatusLate,
		"2024-03-18": records.StatusPresent,
		"2024-03-25": records.StatusJustified,
	}
	return records.Snapshot{
		Groups: []records.Group{{
			ID:        "g1",
			Name:      "Física 1A",
			Subject:   "Física",
			ClassDays: []records.DayOfWeek{records.Monday},
			Students: []records.Student{
				{ID: "s1", Name: "Ana Ruiz", Matricula: "M01"},
				{ID: "s2", Name: "Beto Paz", Matricula: "M02", IsRepeating: true},
				{ID: "s3", Name: "Carla Gil", Matricula: "M03", Nickname: "Caro"},
			},
			Categories: records.Categories{
				Partial1: []records.EvaluationCategory{
					{ID: "exam", Name: "Examen", Weight: 70},
					{ID: "att", Name: "Asistencia", Weight: 30, IsAttendance: true},
				},
				Partial2: []records.EvaluationCategory{
					{ID: "exam", Name: "Examen", Weight: 100},
				},
			},
		}},
		Evaluations: map[string][]records.Evaluation{
			"g1": {
				{ID: "e1", Name: "Parcial 1A", MaxScore: 10, Partial: 1, CategoryID: "exam"},
				{ID: "e2", Name: "Parcial 2", MaxScore: 20, Partial: 2, CategoryID: "exam"},
				{ID: "e3", Name: "Parcial 1B", MaxScore: 10, Partial: 1, CategoryID: "exam"},
			},
		},
		Grades: map[string]records.ScoreMap{
			"g1": {
				"s1": {"e1": ptr(9), "e3": ptr(10), "e2": ptr(18)},
				"s2": {"e1": ptr(5), "e3": ptr(5), "e2": ptr(10)},
				"s3": {"e1": ptr(10), "e3": ptr(10), "e2": ptr(20)},
			},
		},
		Attendance: map[string]map[string]records.AttendanceLog{
			"g1": {
				"s1": allMondays,
				"s2": allMondays,
				"s3": {"2024-03-04": records.StatusPresent, "2024-03-11": records.StatusAbsent},
			},
		},
		Settings: records.Settings{
			SemesterStart:          "2024-03-04",
			SemesterEnd:            "2024-03-25",
			P1EvalStart:            "2024-03-04",
			P1EvalEnd:              "2024-03-11",
			P2EvalStart:            "2024-03-18",
			P2EvalEnd:              "2024-03-25",
			LowAttendanceThreshold: ptr(80),
		},
	}
}
