package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/frontdesk-api/internal/config"
	"github.com/clinicdesk/frontdesk-api/internal/email"
	appointmentHandler "github.com/clinicdesk/frontdesk-api/internal/handler/appointment"
	authHandler "github.com/clinicdesk/frontdesk-api/internal/handler/auth"
	doctorHandler "github.com/clinicdesk/frontdesk-api/internal/handler/doctor"
	patientHandler "github.com/clinicdesk/frontdesk-api/internal/handler/patient"
	"github.com/clinicdesk/frontdesk-api/internal/middleware"
	"github.com/clinicdesk/frontdesk-api/internal/model"
	"github.com/clinicdesk/frontdesk-api/internal/repository"
	"github.com/clinicdesk/frontdesk-api/internal/repository/postgres"
	"github.com/clinicdesk/frontdesk-api/internal/repository/redisstore"
	"github.com/clinicdesk/frontdesk-api/internal/router"
	appointmentService "github.com/clinicdesk/frontdesk-api/internal/service/appointment"
	authService "github.com/clinicdesk/frontdesk-api/internal/service/auth"
	doctorService "github.com/clinicdesk/frontdesk-api/internal/service/doctor"
	patientService "github.com/clinicdesk/frontdesk-api/internal/service/patient"
	queueService "github.com/clinicdesk/frontdesk-api/internal/service/queue"
	"github.com/clinicdesk/frontdesk-api/pkg/metrics"
	"github.com/clinicdesk/frontdesk-api/pkg/security"
	"github.com/clinicdesk/frontdesk-api/pkg/token"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := model.RegisterValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validations")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	baseRepo := postgres.NewBaseRepository(db)

	// Logout revocation store is optional
	var tokenStore repository.TokenStore
	if cfg.Redis.URL != "" {
		tokenStore, err = redisstore.NewTokenStore(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
	}

	// Outgoing mail is optional
	mailer := email.NewNoopService()
	if cfg.SMTP.Enabled() {
		mailer = email.NewGomailService(cfg.SMTP)
	}

	// Services
	tokenSvc := token.NewService(cfg.JWT.Secret, cfg.JWT.Expiry())
	hasher := security.NewBcryptHasher(security.DefaultCost)
	authSvc := authService.NewService(staffRepo, tokenSvc, hasher, tokenStore)
	doctorSvc := doctorService.NewService(doctorRepo)
	patientSvc := patientService.NewService(patientRepo, doctorRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, doctorRepo, &baseRepo, mailer)
	queueSvc := queueService.NewService(patientRepo, appointmentRepo, doctorRepo, &baseRepo)

	m := metrics.NewMetrics("frontdesk")

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	aHandler := authHandler.NewHandler(authSvc, os.Getenv("GIN_MODE") == "release")
	dHandler := doctorHandler.NewHandler(doctorSvc)
	pHandler := patientHandler.NewHandler(patientSvc)
	apptHandler := appointmentHandler.NewHandler(appointmentSvc, queueSvc, m)

	corsConfig := middleware.DefaultCORSConfig(cfg.CORS.AllowOrigin)
	if cfg.CORS.MaxAge > 0 {
		corsConfig.MaxAge = cfg.CORS.MaxAge
	}

	r := router.NewRouter(
		authMiddleware,
		aHandler,
		dHandler,
		pHandler,
		apptHandler,
		m,
		router.Config{
			CORS:      corsConfig,
			RateLimit: middleware.RateLimiterConfig{RPS: cfg.RateLimit.RPS, Burst: cfg.RateLimit.Burst},
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
