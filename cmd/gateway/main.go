package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/ativbrasil/arsenal/internal/api/http"
	"github.com/ativbrasil/arsenal/internal/auth"
	"github.com/ativbrasil/arsenal/internal/cert"
	"github.com/ativbrasil/arsenal/internal/cohort"
	"github.com/ativbrasil/arsenal/internal/config"
	"github.com/ativbrasil/arsenal/internal/db"
	"github.com/ativbrasil/arsenal/internal/notify"
	"github.com/ativbrasil/arsenal/internal/rbac"
	"github.com/ativbrasil/arsenal/internal/storage"
	"github.com/ativbrasil/arsenal/internal/store"
	"github.com/ativbrasil/arsenal/internal/verify"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	st := store.NewSQLStore(dbh, cfg.DBDriver)

	// --- services ---
	var mailer notify.Mailer = notify.NopMailer{}
	if cfg.SendgridAPIKey != "" {
		mailer = notify.NewSendgridMailer(cfg.SendgridAPIKey, cfg.FromName, cfg.FromEmail)
	}
	notifier := notify.NewService(st, mailer, cfg.OpsInboxEmail, nil)

	var archive cert.Archive
	if cfg.ArchiveDriver == "fs" {
		fs, err := storage.NewFSStore(cfg.ArchiveBasePath)
		if err != nil {
			log.Fatalf("archive store: %v", err)
		}
		archive = fs
	}
	issuer := cert.NewService(st, notifier, archive, cfg.ValidationBaseURL, nil)
	validator := verify.NewService(st)
	cohorts := cohort.NewService(st)
	authSvc := auth.NewAuthService(cfg.AuthSecret)
	checker := rbac.NewChecker(nil)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public surface: login, invite activation, certificate validation.
	r.Post("/auth/login", auth.LoginHandler(authSvc, st))
	r.Post("/auth/activate", auth.ActivateHandler(authSvc, st))
	r.Get("/validar", api.ValidateHandler(validator))
	r.Get("/certificates/{code}/pdf", api.RenderCertificateHandler(issuer))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("attempts:create")).
			Post("/attempts", api.SubmitAttemptHandler(st, issuer))
		pr.With(rbac.RequireAny("attempts:view-own", "attempts:view-all")).
			Get("/attempts", api.ListAttemptsHandler(st, checker))

		pr.Get("/courses/{courseID}", api.GetCourseHandler(st))
		pr.With(rbac.Require("content:manage")).
			Put("/courses/{courseID}", api.PutCourseHandler(st))

		pr.With(rbac.Require("cohorts:manage")).Group(func(cr chi.Router) {
			cr.Post("/cohorts", api.CreateCohortHandler(cohorts))
			cr.Post("/cohorts/{cohortID}/codes", api.AddCodesHandler(cohorts))
			cr.Get("/cohorts/{cohortID}/report", api.ReportHandler(cohorts, false))
			cr.Get("/cohorts/{cohortID}/report.csv", api.ReportHandler(cohorts, true))
			cr.Post("/access-links", api.AccessLinkHandler(cohorts, cfg.PublicURL))
		})

		pr.With(rbac.Require("notifications:view")).Group(func(nr chi.Router) {
			nr.Get("/notifications", api.ListNotificationsHandler(notifier))
			nr.Post("/notifications/expire", api.ExpireNotificationsHandler(notifier))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
