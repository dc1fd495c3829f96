package records

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// weightTolerance absorbs float noise when summing category weights.
const weightTolerance = 1e-6

var (
	ErrInvalid = errors.New("invalid records")

	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is used to indicate an error with a specific field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	if len(err.Fields) == 0 {
		return err.Err.Error()
	}
	parts := make([]string, 0, len(err.Fields))
	for _, f := range err.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return err.Err.Error() + ": " + strings.Join(parts, "; ")
}

func (err *ValidationError) Unwrap() error { return err.Err }

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// report JSON names instead of Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			_, ok := DayOfWeek(fl.Field().String()).Weekday()
			return ok
		})
		_ = validate.RegisterValidation("status", func(fl validator.FieldLevel) bool {
			st := AttendanceStatus(fl.Field().String())
			for _, s := range AllStatuses {
				if s == st {
					return true
				}
			}
			return false
		})
		validate.RegisterStructValidation(groupStructLevel, Group{})
	})
	return validate
}

// groupStructLevel enforces that each configured partial's category weights
// sum to 100 and that at most one category per partial is attendance-derived.
func groupStructLevel(sl validator.StructLevel) {
	g := sl.Current().Interface().(Group)
	partials := []struct {
		name string
		cats []EvaluationCategory
	}{
		{"partial1", g.Categories.Partial1},
		{"partial2", g.Categories.Partial2},
	}
	for _, p := range partials {
		partial, cats := p.name, p.cats
		if len(cats) == 0 {
			continue
		}
		var sum float64
		attendance := 0
		for _, c := range cats {
			sum += c.Weight
			if c.IsAttendance {
				attendance++
			}
		}
		if math.Abs(sum-100) > weightTolerance {
			sl.ReportError(cats, "evaluationTypes."+partial, partial, "weightsum", fmt.Sprintf("%g", sum))
		}
		if attendance > 1 {
			sl.ReportError(cats, "evaluationTypes."+partial, partial, "attendancecount", "")
		}
	}
	if w := g.PartialWeights; w != nil && (w[0] < 0 || w[1] < 0 || w[0]+w[1] <= 0) {
		sl.ReportError(g.PartialWeights, "partialWeights", "PartialWeights", "partialweights", "")
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "weightsum":
		return "category weights must sum to 100 (got " + fe.Param() + ")"
	case "attendancecount":
		return "only one attendance category is allowed per partial"
	case "partialweights":
		return "partial weights must be non-negative and not both zero"
	case "weekday":
		return "unknown class day"
	case "status":
		return "unknown attendance status"
	case "datetime":
		return "must be a YYYY-MM-DD date"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	if fe.Param() != "" {
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	}
	return "failed " + fe.Tag()
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		// drop the root struct name from the namespace
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		fields = append(fields, FieldError{Field: ns, Error: fieldMessage(fe)})
	}
	return NewValidationError(ErrInvalid, fields...)
}

// Validate checks one group's configuration.
func (g Group) Validate() error {
	return toValidationError(validatorInstance().Struct(g))
}

func (ev Evaluation) Validate() error {
	return toValidationError(validatorInstance().Struct(ev))
}

func (st Settings) Validate() error {
	return toValidationError(validatorInstance().Struct(st))
}

// Validate checks a whole snapshot, including that every evaluation points at
// a category configured for its partial.
func (s Snapshot) Validate() error {
	if err := validatorInstance().Struct(s); err != nil {
		return toValidationError(err)
	}
	var fields []FieldError
	for _, g := range s.Groups {
		for i, ev := range s.Evaluations[g.ID] {
			if !g.Categories.Has(ev.Partial, ev.CategoryID) {
				fields = append(fields, FieldError{
					Field: fmt.Sprintf("evaluations[%s][%d].typeId", g.ID, i),
					Error: "category is not configured for partial " + fmt.Sprint(ev.Partial),
				})
			}
		}
	}
	if len(fields) > 0 {
		return NewValidationError(ErrInvalid, fields...)
	}
	return nil
}
