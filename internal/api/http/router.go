package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/mind-engage/mindengage-gradebook/internal/auth"
	"github.com/mind-engage/mindengage-gradebook/internal/backup"
	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
	"github.com/mind-engage/mindengage-gradebook/internal/metrics"
	"github.com/mind-engage/mindengage-gradebook/internal/rbac"
)

type Deps struct {
	Auth        *auth.AuthService
	Accounts    auth.Accounts
	Users       Users // optional
	Gradebook   *gradebook.Service
	Backups     *backup.Service
	Metrics     *metrics.Metrics
	Log         logrus.FieldLogger
	CORSOrigins []string
}

func NewRouter(d Deps) chi.Router {
	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Accounts, log))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	// Protected API (JWT -> subject and role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))
		svc := d.Gradebook

		pr.With(rbac.Require(rbac.SnapshotRead)).Get("/sync", PullHandler(svc, log))
		pr.With(rbac.Require(rbac.SnapshotWrite)).Post("/sync", PushHandler(svc, log))
		pr.With(rbac.Require(rbac.GradesRead)).Get("/events", EventsHandler(svc, log))

		pr.Route("/groups/{groupID}", func(gr chi.Router) {
			gr.With(rbac.Require(rbac.GradesRead)).Get("/grades", GradesHandler(svc, log))
			gr.With(rbac.Require(rbac.GradesWrite)).Put("/grades/{studentID}/{column}", SetCellHandler(svc, log))
			gr.With(rbac.Require(rbac.GradesWrite)).Post("/grades/fill", FillHandler(svc, log))
			gr.With(rbac.Require(rbac.GradesWrite)).Post("/grades/paste", PasteHandler(svc, log))

			gr.With(rbac.Require(rbac.EvaluationsWrite)).Post("/evaluations", SaveEvaluationHandler(svc, log))
			gr.With(rbac.Require(rbac.EvaluationsWrite)).Delete("/evaluations/{evalID}", DeleteEvaluationHandler(svc, log))
			gr.With(rbac.Require(rbac.EvaluationsWrite)).Post("/evaluations/{evalID}/move", MoveEvaluationHandler(svc, log))

			gr.With(rbac.Require(rbac.GradesRead)).Get("/attendance/summary", AttendanceSummaryHandler(svc, log))
			gr.With(rbac.Require(rbac.AttendanceWrite)).Put("/attendance/{studentID}/{date}", SetAttendanceHandler(svc, log))
		})

		if d.Users != nil {
			pr.With(rbac.Require(rbac.UsersWrite)).Post("/admin/users", CreateUserHandler(d.Users, log))
		}

		if d.Backups != nil {
			pr.Route("/backups", func(br chi.Router) {
				MountBackups(br, svc, d.Backups, log)
			})
		}
	})
	return r
}
