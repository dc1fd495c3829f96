package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-gradebook/internal/auth"
	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

type attendanceSummaryResp struct {
	gradebook.AttendanceReport
	EvaluationAverages []gradebook.EvaluationAverage `json:"evaluation_averages"`
}

// GET /groups/{groupID}/attendance/summary
func AttendanceSummaryHandler(svc *gradebook.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.Book(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "groupID"))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, attendanceSummaryResp{
			AttendanceReport:   b.AttendanceReport(),
			EvaluationAverages: b.EvaluationAverages(),
		})
	}
}

// PUT /groups/{groupID}/attendance/{studentID}/{date}  {"status": "Presente"}
func SetAttendanceHandler(svc *gradebook.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status records.AttendanceStatus `json:"status"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		err := svc.SetAttendance(r.Context(), auth.SubjectFromContext(r.Context()),
			chi.URLParam(r, "groupID"), chi.URLParam(r, "studentID"), chi.URLParam(r, "date"), req.Status)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
