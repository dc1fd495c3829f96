package records

import "errors"

var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrEvaluationNotFound = errors.New("evaluation not found")
)

// Snapshot is the whole editable state of one teacher. Mutating helpers return
// a new Snapshot and copy only the maps they touch, so a Snapshot handed to a
// reader is never changed underneath it.
type Snapshot struct {
	Groups      []Group                             `json:"groups" validate:"dive"`
	Attendance  map[string]map[string]AttendanceLog `json:"attendance"`
	Evaluations map[string][]Evaluation             `json:"evaluations" validate:"dive,dive"`
	Grades      map[string]ScoreMap                 `json:"grades"`
	Settings    Settings                            `json:"settings"`
	TeamNotes   map[string]string                   `json:"teamNotes,omitempty"`
}

// Group returns the group with the given id.
func (s Snapshot) Group(id string) (Group, error) {
	for _, g := range s.Groups {
		if g.ID == id {
			return g, nil
		}
	}
	return Group{}, ErrGroupNotFound
}

// GroupEvaluations returns the evaluations of a group in display order.
func (s Snapshot) GroupEvaluations(groupID string) []Evaluation {
	return s.Evaluations[groupID]
}

// StudentScores returns the scores recorded for one student; never nil.
func (s Snapshot) StudentScores(groupID, studentID string) Scores {
	if sc := s.Grades[groupID][studentID]; sc != nil {
		return sc
	}
	return Scores{}
}

// StudentAttendance returns the attendance log of one student; never nil.
func (s Snapshot) StudentAttendance(groupID, studentID string) AttendanceLog {
	if l := s.Attendance[groupID][studentID]; l != nil {
		return l
	}
	return AttendanceLog{}
}

// WithScore returns a copy of s in which the given cell holds value.
func (s Snapshot) WithScore(groupID, studentID, key string, value *float64) Snapshot {
	grades := make(map[string]ScoreMap, len(s.Grades)+1)
	for k, v := range s.Grades {
		grades[k] = v
	}
	group := make(ScoreMap, len(grades[groupID])+1)
	for k, v := range grades[groupID] {
		group[k] = v
	}
	student := make(Scores, len(group[studentID])+1)
	for k, v := range group[studentID] {
		student[k] = v
	}
	if value != nil {
		v := *value
		student[key] = &v
	} else {
		student[key] = nil
	}
	group[studentID] = student
	grades[groupID] = group
	s.Grades = grades
	return s
}

// WithAttendance returns a copy of s with one attendance entry set.
func (s Snapshot) WithAttendance(groupID, studentID, date string, status AttendanceStatus) Snapshot {
	att := make(map[string]map[string]AttendanceLog, len(s.Attendance)+1)
	for k, v := range s.Attendance {
		att[k] = v
	}
	group := make(map[string]AttendanceLog, len(att[groupID])+1)
	for k, v := range att[groupID] {
		group[k] = v
	}
	log := make(AttendanceLog, len(group[studentID])+1)
	for k, v := range group[studentID] {
		log[k] = v
	}
	log[date] = status
	group[studentID] = log
	att[groupID] = group
	s.Attendance = att
	return s
}

func (s Snapshot) withEvaluations(groupID string, evals []Evaluation) Snapshot {
	m := make(map[string][]Evaluation, len(s.Evaluations)+1)
	for k, v := range s.Evaluations {
		m[k] = v
	}
	m[groupID] = evals
	s.Evaluations = m
	return s
}

// SaveEvaluation replaces the evaluation with the same id, or appends it.
func (s Snapshot) SaveEvaluation(groupID string, ev Evaluation) (Snapshot, error) {
	if _, err := s.Group(groupID); err != nil {
		return s, err
	}
	cur := s.Evaluations[groupID]
	out := make([]Evaluation, 0, len(cur)+1)
	replaced := false
	for _, e := range cur {
		if e.ID == ev.ID {
			out = append(out, ev)
			replaced = true
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, ev)
	}
	return s.withEvaluations(groupID, out), nil
}

// DeleteEvaluation removes an evaluation and every score recorded against it.
func (s Snapshot) DeleteEvaluation(groupID, evalID string) (Snapshot, error) {
	cur := s.Evaluations[groupID]
	out := make([]Evaluation, 0, len(cur))
	found := false
	for _, e := range cur {
		if e.ID == evalID {
			found = true
			continue
		}
		out = append(out, e)
	}
	if !found {
		return s, ErrEvaluationNotFound
	}
	s = s.withEvaluations(groupID, out)

	if groupGrades, ok := s.Grades[groupID]; ok {
		grades := make(map[string]ScoreMap, len(s.Grades))
		for k, v := range s.Grades {
			grades[k] = v
		}
		pruned := make(ScoreMap, len(groupGrades))
		for sid, sc := range groupGrades {
			if _, has := sc[evalID]; !has {
				pruned[sid] = sc
				continue
			}
			cp := make(Scores, len(sc))
			for k, v := range sc {
				if k != evalID {
					cp[k] = v
				}
			}
			pruned[sid] = cp
		}
		grades[groupID] = pruned
		s.Grades = grades
	}
	return s, nil
}

// Direction of an evaluation reorder.
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
)

// MoveEvaluation swaps an evaluation with its nearest neighbour of the same
// partial in the given direction. Scores are untouched; only column order moves.
func (s Snapshot) MoveEvaluation(groupID, evalID string, dir Direction) (Snapshot, error) {
	cur := s.Evaluations[groupID]
	idx := -1
	for i, e := range cur {
		if e.ID == evalID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, ErrEvaluationNotFound
	}
	step := 1
	if dir == Left {
		step = -1
	}
	swap := -1
	for j := idx + step; j >= 0 && j < len(cur); j += step {
		if cur[j].Partial == cur[idx].Partial {
			swap = j
			break
		}
	}
	if swap < 0 {
		return s, nil
	}
	out := make([]Evaluation, len(cur))
	copy(out, cur)
	out[idx], out[swap] = out[swap], out[idx]
	return s.withEvaluations(groupID, out), nil
}
