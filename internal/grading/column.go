package grading

import "strings"

// SlotKind tags a grid column as an ordinary evaluation or one of the four
// recovery slots.
type SlotKind int

const (
	Ordinary SlotKind = iota
	Remedial1
	Remedial2
	Extra
	Special
)

// Wire identifiers of the recovery slots, as stored in score maps.
const (
	KeyRemedial1 = "GRADE_REMEDIAL_P1"
	KeyRemedial2 = "GRADE_REMEDIAL_P2"
	KeyExtra     = "GRADE_EXTRA"
	KeySpecial   = "GRADE_SPECIAL"
)

// ColumnKey identifies a column of the grade grid. EvaluationID is only set
// for Ordinary columns, so an evaluation can never alias a recovery slot.
type ColumnKey struct {
	Kind         SlotKind
	EvaluationID string
}

var (
	Remedial1Column = ColumnKey{Kind: Remedial1}
	Remedial2Column = ColumnKey{Kind: Remedial2}
	ExtraColumn     = ColumnKey{Kind: Extra}
	SpecialColumn   = ColumnKey{Kind: Special}

	// RecoveryColumns is the column order of the recovery view.
	RecoveryColumns = []ColumnKey{Remedial1Column, Remedial2Column, ExtraColumn, SpecialColumn}
)

// EvaluationColumn returns the column of an ordinary evaluation.
func EvaluationColumn(evaluationID string) ColumnKey {
	return ColumnKey{Kind: Ordinary, EvaluationID: evaluationID}
}

func (k ColumnKey) IsRecovery() bool { return k.Kind != Ordinary }

// String returns the key under which the column's scores are stored.
func (k ColumnKey) String() string {
	switch k.Kind {
	case Remedial1:
		return KeyRemedial1
	case Remedial2:
		return KeyRemedial2
	case Extra:
		return KeyExtra
	case Special:
		return KeySpecial
	}
	return k.EvaluationID
}

// ParseColumnKey maps a stored key back onto a ColumnKey. It returns false for
// an empty key.
func ParseColumnKey(s string) (ColumnKey, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return ColumnKey{}, false
	case KeyRemedial1:
		return Remedial1Column, true
	case KeyRemedial2:
		return Remedial2Column, true
	case KeyExtra:
		return ExtraColumn, true
	case KeySpecial:
		return SpecialColumn, true
	}
	return EvaluationColumn(s), true
}
