package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-gradebook/internal/auth"
	"github.com/mind-engage/mindengage-gradebook/internal/backup"
	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
	"github.com/mind-engage/mindengage-gradebook/internal/rbac"
)

// MountBackups registers the backup routes under r, which is expected to be
// mounted at /backups so that a backup's URL path is its blob key.
func MountBackups(r chi.Router, svc *gradebook.Service, backups *backup.Service, log logrus.FieldLogger) {
	// POST /backups  -> {"key": "..."}
	r.With(rbac.Require(rbac.BackupCreate)).Post("/", func(w http.ResponseWriter, r *http.Request) {
		owner := auth.SubjectFromContext(r.Context())
		snap, err := svc.Snapshot(r.Context(), owner)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		key, err := backups.Export(owner, snap)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"key": key})
	})

	r.With(rbac.Require(rbac.BackupRead)).Get("/", func(w http.ResponseWriter, r *http.Request) {
		keys, err := backups.List(auth.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		if keys == nil {
			keys = []string{}
		}
		writeJSON(w, http.StatusOK, map[string][]string{"keys": keys})
	})

	// POST /backups/import  (body: a backup file; replaces the snapshot)
	r.With(rbac.Require(rbac.BackupImport)).Post("/import", func(w http.ResponseWriter, r *http.Request) {
		snap, err := backup.Decode(r.Body)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		if err := svc.Replace(r.Context(), auth.SubjectFromContext(r.Context()), snap); err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"groups": len(snap.Groups)})
	})

	// GET /backups/<owner>/<file>
	r.With(rbac.Require(rbac.BackupRead)).Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := "backups/" + strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		snap, err := backups.Open(auth.SubjectFromContext(r.Context()), key)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="`+key[strings.LastIndex(key, "/")+1:]+`"`)
		writeJSON(w, http.StatusOK, snap)
	})
}
