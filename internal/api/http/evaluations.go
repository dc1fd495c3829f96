package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-gradebook/internal/auth"
	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

// POST /groups/{groupID}/evaluations
func SaveEvaluationHandler(svc *gradebook.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev records.Evaluation
		if !decodeJSON(w, r, &ev) {
			return
		}
		saved, err := svc.SaveEvaluation(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "groupID"), ev)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)
	}
}

// DELETE /groups/{groupID}/evaluations/{evalID}
func DeleteEvaluationHandler(svc *gradebook.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.DeleteEvaluation(r.Context(), auth.SubjectFromContext(r.Context()),
			chi.URLParam(r, "groupID"), chi.URLParam(r, "evalID"))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /groups/{groupID}/evaluations/{evalID}/move  {"direction": "left|right"}
func MoveEvaluationHandler(svc *gradebook.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Direction records.Direction `json:"direction"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		err := svc.MoveEvaluation(r.Context(), auth.SubjectFromContext(r.Context()),
			chi.URLParam(r, "groupID"), chi.URLParam(r, "evalID"), req.Direction)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
