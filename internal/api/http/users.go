package http

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-gradebook/internal/records"
)

// Users creates or updates local accounts.
type Users interface {
	Create(ctx context.Context, username, password, role string) error
}

// POST /admin/users  {"username": "...", "password": "...", "role": "teacher"}
func CreateUserHandler(users Users, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Role == "" {
			req.Role = "teacher"
		}
		var fields []records.FieldError
		if req.Username == "" {
			fields = append(fields, records.FieldError{Field: "username", Error: "this field is required"})
		}
		if len(req.Password) < 8 {
			fields = append(fields, records.FieldError{Field: "password", Error: "must be at least 8 characters"})
		}
		if req.Role != "teacher" && req.Role != "viewer" && req.Role != "admin" {
			fields = append(fields, records.FieldError{Field: "role", Error: "must be one of: teacher viewer admin"})
		}
		if len(fields) > 0 {
			writeError(w, r, log, records.NewValidationError(records.ErrInvalid, fields...))
			return
		}
		if err := users.Create(r.Context(), req.Username, req.Password, req.Role); err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"username": req.Username, "role": req.Role})
	}
}
