package grading

import "math"

// AttendanceStatus classifies a student's global attendance.
type AttendanceStatus string

const (
	AttendanceOK   AttendanceStatus = "ok"
	AttendanceRisk AttendanceStatus = "risk"
	AttendanceFail AttendanceStatus = "fail"
)

// Policy holds the thresholds used to resolve a final score.
type Policy struct {
	PassingScore           float64    // scores below this fail
	LowAttendanceThreshold float64    // 0..100
	AttendanceTolerance    float64    // points below the threshold that turn risk into fail
	FailByAttendance       bool       // whether critical attendance forces failure
	FailingCeiling         float64    // maximum score reported when failed by attendance
	PartialWeights         [2]float64 // blend of the two effective partial scores
}

type Option func(*Policy)

func WithPassingScore(v float64) Option { return func(p *Policy) { p.PassingScore = v } }
func WithLowAttendanceThreshold(v float64) Option {
	return func(p *Policy) { p.LowAttendanceThreshold = v }
}
func WithAttendanceTolerance(v float64) Option { return func(p *Policy) { p.AttendanceTolerance = v } }
func WithFailByAttendance(b bool) Option       { return func(p *Policy) { p.FailByAttendance = b } }
func WithFailingCeiling(v float64) Option      { return func(p *Policy) { p.FailingCeiling = v } }
func WithPartialWeights(w1, w2 float64) Option {
	return func(p *Policy) { p.PartialWeights = [2]float64{w1, w2} }
}

// NewPolicy returns the default policy (pass at 7, 80% attendance with a 5
// point tolerance, fail by attendance capped at 5, partials blended 50/50)
// with opts applied.
func NewPolicy(opts ...Option) Policy {
	p := Policy{
		PassingScore:           7,
		LowAttendanceThreshold: 80,
		AttendanceTolerance:    5,
		FailByAttendance:       true,
		FailingCeiling:         5,
		PartialWeights:         [2]float64{50, 50},
	}
	for _, o := range opts {
		o(&p)
	}
	return p
}

// With returns a copy of p with opts applied.
func (p Policy) With(opts ...Option) Policy {
	for _, o := range opts {
		o(&p)
	}
	return p
}

// Inputs are the per-student values the resolver works from. A nil partial
// average means the partial has no configuration; a nil slot is not graded.
type Inputs struct {
	P1, P2               *float64
	Remedial1, Remedial2 *float64
	Extra, Special       *float64
	GlobalAttendance     float64
	IsRepeating          bool
}

// Eligibility tells which recovery slots the host may let the teacher edit.
type Eligibility struct {
	Remedial1 bool `json:"remedial1"`
	Remedial2 bool `json:"remedial2"`
	Extra     bool `json:"extra"`
	Special   bool `json:"special"`
}

// Allows reports whether the column is editable. Ordinary columns always are.
func (e Eligibility) Allows(k ColumnKey) bool {
	switch k.Kind {
	case Remedial1:
		return e.Remedial1
	case Remedial2:
		return e.Remedial2
	case Extra:
		return e.Extra
	case Special:
		return e.Special
	}
	return true
}

// Resolution is the terminal outcome for one student.
type Resolution struct {
	Score            float64          `json:"score"`
	IsFailing        bool             `json:"is_failing"`
	AttendanceStatus AttendanceStatus `json:"attendance_status"`
	// CriticalAttendance is set below threshold minus tolerance, whether or
	// not the policy fails students for it.
	CriticalAttendance bool        `json:"critical_attendance"`
	EffectiveP1        float64     `json:"effective_p1"`
	EffectiveP2        float64     `json:"effective_p2"`
	Eligibility        Eligibility `json:"eligibility"`
}

func below(v *float64, limit float64) bool { return v != nil && *v < limit }

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Eligible computes the recovery waterfall. Each stage is unlocked only while
// the effective score of the stage before it is still failing. Values already
// stored in a slot that is no longer eligible are left alone.
func (p Policy) Eligible(in Inputs) Eligibility {
	effP1 := valueOr(in.Remedial1, valueOr(in.P1, 0))
	effP2 := valueOr(in.Remedial2, valueOr(in.P2, 0))
	pass := p.PassingScore
	return Eligibility{
		Remedial1: below(in.P1, pass),
		Remedial2: below(in.P2, pass),
		Extra:     effP1 < pass || effP2 < pass,
		Special: in.IsRepeating &&
			(below(in.Remedial1, pass) || below(in.Remedial2, pass) || below(in.Extra, pass)),
	}
}

// Resolve folds partial averages, recovery slots and global attendance into
// the final result. The academic score is Special when graded, else Extra when
// graded, else the weighted blend of the effective partial scores; a later
// stage replaces earlier ones and is never averaged with them.
func (p Policy) Resolve(in Inputs) Resolution {
	r := Resolution{
		EffectiveP1: valueOr(in.Remedial1, valueOr(in.P1, 0)),
		EffectiveP2: valueOr(in.Remedial2, valueOr(in.P2, 0)),
		Eligibility: p.Eligible(in),
	}

	switch {
	case in.Special != nil:
		r.Score = *in.Special
	case in.Extra != nil:
		r.Score = *in.Extra
	default:
		w1, w2 := p.PartialWeights[0], p.PartialWeights[1]
		if w1 < 0 || w2 < 0 || w1+w2 <= 0 {
			w1, w2 = 50, 50
		}
		r.Score = (r.EffectiveP1*w1 + r.EffectiveP2*w2) / (w1 + w2)
	}
	r.IsFailing = r.Score < p.PassingScore

	r.CriticalAttendance = in.GlobalAttendance < p.LowAttendanceThreshold-p.AttendanceTolerance
	switch {
	case p.FailByAttendance && r.CriticalAttendance:
		r.AttendanceStatus = AttendanceFail
		r.IsFailing = true
		r.Score = math.Min(r.Score, p.FailingCeiling)
	case in.GlobalAttendance < p.LowAttendanceThreshold:
		r.AttendanceStatus = AttendanceRisk
	default:
		r.AttendanceStatus = AttendanceOK
	}
	return r
}

// ResolveFinal resolves with the default policy, overriding only the
// attendance threshold and the fail-by-attendance switch.
func ResolveFinal(in Inputs, lowAttendanceThreshold float64, failByAttendance bool) Resolution {
	return NewPolicy(
		WithLowAttendanceThreshold(lowAttendanceThreshold),
		WithFailByAttendance(failByAttendance),
	).Resolve(in)
}
