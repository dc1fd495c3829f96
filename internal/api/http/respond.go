package http

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-gradebook/internal/auth"
	"github.com/mind-engage/mindengage-gradebook/internal/backup"
	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
	"github.com/mind-engage/mindengage-gradebook/internal/records"
	"github.com/mind-engage/mindengage-gradebook/internal/storage"
	"github.com/mind-engage/mindengage-gradebook/internal/store"
)

type errorBody struct {
	Error  string               `json:"error"`
	Fields []records.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusOf(err error) int {
	var ve *records.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, gradebook.ErrUnknownView),
		errors.Is(err, gradebook.ErrUnknownColumn),
		errors.Is(err, backup.ErrMalformed):
		return http.StatusBadRequest
	case errors.Is(err, records.ErrGroupNotFound),
		errors.Is(err, records.ErrStudentNotFound),
		errors.Is(err, records.ErrEvaluationNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidKey):
		return http.StatusBadRequest
	case errors.Is(err, gradebook.ErrIneligible):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError maps err onto a status code and a JSON body. Internal errors are
// logged and not echoed.
func writeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	status := statusOf(err)
	body := errorBody{Error: err.Error()}
	var ve *records.ValidationError
	if errors.As(err, &ve) {
		body = errorBody{Error: ve.Err.Error(), Fields: ve.Fields}
	}
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"owner":  auth.SubjectFromContext(r.Context()),
		}).Error("request failed")
		body = errorBody{Error: "internal error"}
	}
	writeJSON(w, status, body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad json: " + err.Error()})
		return false
	}
	return true
}
