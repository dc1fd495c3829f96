package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-gradebook/internal/auth"
	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
)

type gradesResp struct {
	View    gradebook.View      `json:"view"`
	Columns []string            `json:"columns"`
	Rows    []gradebook.Summary `json:"rows"`
}

// GET /groups/{groupID}/grades?view=ordinary|recovery&q=
func GradesHandler(svc *gradebook.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := gradebook.ParseView(r.URL.Query().Get("view"))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		b, err := svc.Book(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "groupID"))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		resp := gradesResp{View: view, Rows: b.Rows(view, r.URL.Query().Get("q"))}
		for _, c := range b.Columns(view) {
			resp.Columns = append(resp.Columns, c.String())
		}
		if resp.Rows == nil {
			resp.Rows = []gradebook.Summary{}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// PUT /groups/{groupID}/grades/{studentID}/{column}  {"value": "8.5"}
func SetCellHandler(svc *gradebook.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Value string `json:"value"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		v, err := svc.SetCell(r.Context(), auth.SubjectFromContext(r.Context()),
			chi.URLParam(r, "groupID"), chi.URLParam(r, "studentID"), chi.URLParam(r, "column"), req.Value)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]*float64{"value": v})
	}
}

// POST /groups/{groupID}/grades/fill
func FillHandler(svc *gradebook.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradebook.FillRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		n, err := svc.Fill(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "groupID"), req)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"written": n})
	}
}

// POST /groups/{groupID}/grades/paste
func PasteHandler(svc *gradebook.Service, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradebook.PasteRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		res, err := svc.Paste(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "groupID"), req)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
