package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	api "github.com/mind-engage/mindengage-gradebook/internal/api/http"
	"github.com/mind-engage/mindengage-gradebook/internal/auth"
	"github.com/mind-engage/mindengage-gradebook/internal/backup"
	"github.com/mind-engage/mindengage-gradebook/internal/config"
	"github.com/mind-engage/mindengage-gradebook/internal/db"
	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
	"github.com/mind-engage/mindengage-gradebook/internal/metrics"
	"github.com/mind-engage/mindengage-gradebook/internal/storage"
	"github.com/mind-engage/mindengage-gradebook/internal/store"
	syncx "github.com/mind-engage/mindengage-gradebook/internal/sync"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logrus.WithError(err).Fatal("load env file")
	}
	cfg := config.FromEnv()
	log := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Snapshot store: a process cache in front of the database
	cache := store.NewMemory()
	var (
		snapshots store.Provider = cache
		events    syncx.Log      = syncx.NewMemoryLog()
		accounts  auth.Chain
		users     api.Users
	)
	accounts = append(accounts, auth.StaticAccount{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash, Role: "admin"})

	if cfg.DBDriver != "memory" {
		conn, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.WithError(err).Fatal("db")
		}
		defer conn.Close()
		snapshots = store.NewComposite(log, cache, store.NewSQL(conn))
		events = syncx.NewEventRepo(conn)
		// Teacher accounts beyond the admin only exist in online mode
		if cfg.Mode == config.ModeOnline {
			repo := auth.NewUserRepo(conn)
			accounts = append(accounts, repo)
			users = repo
		}
	}

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.WithError(err).Fatal("blob store")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := gradebook.NewService(snapshots,
		gradebook.WithEventLog(events),
		gradebook.WithMetrics(m),
		gradebook.WithLogger(log),
		gradebook.WithPolicy(cfg.Policy()),
	)

	r := api.NewRouter(api.Deps{
		Auth:        auth.NewAuthService(cfg.AuthHMACSecret),
		Accounts:    accounts,
		Users:       users,
		Gradebook:   svc,
		Backups:     backup.NewService(blobs),
		Metrics:     m,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	log.WithFields(logrus.Fields{"addr": cfg.HTTPAddr, "mode": cfg.Mode, "db": cfg.DBDriver}).Info("listening")
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("serve")
	}
}
