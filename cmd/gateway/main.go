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

	api "github.com/classpoint/classpoint-backend/internal/api/http"
	"github.com/classpoint/classpoint-backend/internal/assessment"
	"github.com/classpoint/classpoint-backend/internal/attendance"
	auth "github.com/classpoint/classpoint-backend/internal/auth/middleware"
	"github.com/classpoint/classpoint-backend/internal/calendar"
	"github.com/classpoint/classpoint-backend/internal/config"
	"github.com/classpoint/classpoint-backend/internal/dashboard"
	"github.com/classpoint/classpoint-backend/internal/db"
	"github.com/classpoint/classpoint-backend/internal/fees"
	"github.com/classpoint/classpoint-backend/internal/notify"
	"github.com/classpoint/classpoint-backend/internal/rbac"
	"github.com/classpoint/classpoint-backend/internal/storage"
	"github.com/classpoint/classpoint-backend/internal/syllabus"
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

	tests := assessment.NewSQLStore(dbh)
	attend := attendance.NewSQLStore(dbh)
	invoices := fees.NewSQLStore(dbh)
	topics := syllabus.NewSQLStore(dbh)
	events := calendar.NewSQLStore(dbh)
	notifier := notify.NewService(dbh)
	boards := dashboard.NewService(dbh)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Tests and question import
		pr.With(rbac.Require("test:create")).
			Post("/tests", api.CreateTestHandler(tests))
		pr.With(rbac.Require("test:view")).
			Get("/tests", api.ListTestsHandler(tests))
		pr.With(rbac.Require("test:view")).
			Get("/tests/{testID}", api.GetTestHandler(tests))
		pr.With(rbac.RequireAny("test:delete-own", "test:delete")).
			Delete("/tests/{testID}", api.DeleteTestHandler(tests))
		pr.With(rbac.Require("question:import")).
			Post("/tests/{testID}/questions/import", api.ImportQuestionsHandler(tests, bs))

		// Marks
		pr.With(rbac.Require("marks:enter")).
			Post("/tests/{testID}/marks", api.EnterMarksHandler(tests))
		pr.With(rbac.Require("marks:view")).
			Get("/tests/{testID}/marks/summary", api.MarksSummaryHandler(tests))

		// Attendance
		pr.With(rbac.Require("attendance:mark")).
			Post("/attendance", api.MarkAttendanceHandler(attend))
		pr.With(rbac.Require("attendance:view")).
			Get("/attendance", api.ClassAttendanceHandler(attend))
		pr.With(rbac.RequireAny("attendance:view-own", "attendance:view")).
			Get("/students/{studentID}/attendance", api.StudentAttendanceHandler(attend))

		// Fees
		pr.With(rbac.Require("fees:manage")).
			Post("/invoices", api.CreateInvoiceHandler(invoices, notifier))
		pr.With(rbac.Require("fees:manage")).
			Post("/invoices/{invoiceID}/payments", api.RecordPaymentHandler(invoices))
		pr.With(rbac.RequireAny("fees:view-own", "fees:manage")).
			Get("/students/{studentID}/invoices", api.StudentInvoicesHandler(invoices))

		// Syllabus
		pr.With(rbac.Require("syllabus:edit")).
			Post("/syllabus/topics", api.AddTopicHandler(topics))
		pr.With(rbac.Require("syllabus:edit")).
			Patch("/syllabus/topics/{topicID}", api.SetTopicStatusHandler(topics))
		pr.With(rbac.RequireAny("syllabus:view", "test:view")).
			Get("/syllabus/progress", api.SyllabusProgressHandler(topics))

		// Calendar
		pr.With(rbac.Require("calendar:edit")).
			Post("/events", api.CreateEventHandler(events))
		pr.With(rbac.Require("calendar:view")).
			Get("/events", api.ListEventsHandler(events))
		pr.With(rbac.Require("calendar:edit")).
			Delete("/events/{eventID}", api.DeleteEventHandler(events))

		// Dashboards
		pr.With(rbac.Require("dashboard:admin")).
			Get("/dashboard/admin", api.AdminDashboardHandler(boards))
		pr.With(rbac.Require("dashboard:student")).
			Get("/dashboard/student", api.StudentDashboardHandler(boards))

		// Notifications
		pr.With(rbac.Require("notification:view-own")).
			Get("/notifications", api.ListNotificationsHandler(notifier))
		pr.With(rbac.Require("notification:view-own")).
			Post("/notifications/{notificationID}/read", api.MarkNotificationReadHandler(notifier))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
