package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"podology-clinic-server/internal/config"
	"podology-clinic-server/internal/handlers"
	"podology-clinic-server/internal/logging"
	"podology-clinic-server/internal/metrics"
	"podology-clinic-server/internal/models"
	"podology-clinic-server/internal/notifications"
	"podology-clinic-server/internal/repository"
	"podology-clinic-server/internal/routes"
	"podology-clinic-server/internal/utils"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Default().Error("error loading config", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	if envErr != nil {
		log.Debug("no .env file loaded", "error", envErr)
	}

	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		log.Error("error connecting to database", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reminderMetrics := metrics.NewReminderMetrics(reg)

	patients := repository.NewPatientRepository(db)
	anamnesis := repository.NewAnamnesisRepository(db)
	appointments := repository.NewAppointmentRepository(db)
	reminders := repository.NewNotificationRepository(db)

	scheduler := notifications.NewScheduler(patients, reminders, notifications.SchedulerOptions{
		Location:   cfg.Reminders.Location,
		AtomicPair: cfg.Reminders.AtomicPair,
	}, log, reminderMetrics)
	service := notifications.NewService(
		reminders,
		notifications.NewLinkBuilder(cfg.Reminders.WhatsAppBaseURL, cfg.Reminders.CountryCode),
		notifications.ServiceOptions{
			ListLimit:      cfg.Reminders.ListLimit,
			QueryLimit:     cfg.Reminders.QueryLimit,
			UpcomingWindow: cfg.Reminders.UpcomingWindow,
		},
		reminderMetrics,
	)

	var reconciler *notifications.Reconciler
	if cfg.Reminders.ReconcileSchedule != "" {
		reconciler = notifications.NewReconciler(reminders, cfg.Reminders.Location, log, reminderMetrics)
		if err := reconciler.Start(cfg.Reminders.ReconcileSchedule); err != nil {
			log.Error("error starting reminder reconciliation", "error", err)
			os.Exit(1)
		}
	}

	var authHandler *handlers.AuthHandler
	if cfg.Auth.Enabled {
		if err := handlers.BootstrapAdmin(db, cfg, log); err != nil {
			log.Error("error seeding admin account", "error", err)
			os.Exit(1)
		}
		authHandler = handlers.NewAuthHandler(db, cfg, log)
	}

	utils.RegisterValidators()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = cfg.Origin != "*"
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Handlers{
		Auth:          authHandler,
		Patients:      handlers.NewPatientHandler(patients, log),
		Anamnesis:     handlers.NewAnamnesisHandler(anamnesis, patients, log),
		Appointments:  handlers.NewAppointmentHandler(appointments, scheduler, service, cfg.Reminders.OrphanPolicy, log),
		Notifications: handlers.NewNotificationHandler(service, log),
	}, cfg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", "port", cfg.Port, "timezone", cfg.Reminders.Location.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	if reconciler != nil {
		reconciler.Stop()
	}
}
