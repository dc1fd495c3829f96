package http

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-gradebook/internal/auth"
	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

// GET /sync
func PullHandler(svc *gradebook.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Snapshot(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// POST /sync  (whole snapshot; last write wins)
func PushHandler(svc *gradebook.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var snap records.Snapshot
		if !decodeJSON(w, r, &snap) {
			return
		}
		if err := svc.Replace(r.Context(), auth.SubjectFromContext(r.Context()), snap); err != nil {
			writeError(w, r, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /events?limit=
func EventsHandler(svc *gradebook.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		events, err := svc.Events(r.Context(), auth.SubjectFromContext(r.Context()), limit)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
	}
}
