package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/clinora/clinora/application/usecase"
	"github.com/clinora/clinora/infrastructure/config"
	clinorahttp "github.com/clinora/clinora/infrastructure/http"
	"github.com/clinora/clinora/infrastructure/http/handler"
	"github.com/clinora/clinora/infrastructure/http/middleware"
	"github.com/clinora/clinora/infrastructure/persistence/postgres"
	"github.com/clinora/clinora/infrastructure/service/audit"
	"github.com/clinora/clinora/infrastructure/service/jwt"
	"github.com/clinora/clinora/infrastructure/service/logger"
	"github.com/clinora/clinora/infrastructure/service/maintenance"
	"github.com/clinora/clinora/infrastructure/service/password"
	"github.com/clinora/clinora/infrastructure/service/ratelimit"
	"github.com/clinora/clinora/infrastructure/storage/disk"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "clinora",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	rateLimitService, err := ratelimit.NewRateLimitService(ratelimit.Config{
		Enabled:       cfg.RateLimitEnabled,
		RedisURL:      cfg.RedisURL,
		IPAttempts:    cfg.RateLimitIPAttempts,
		IPWindow:      cfg.RateLimitIPWindow,
		BlockDuration: cfg.RateLimitBlockDuration,
	}, structuredLogger)
	if err != nil {
		log.Fatalf("Failed to initialize rate limit service: %v", err)
	}

	profileRepo := postgres.NewProfileRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	consultationRepo := postgres.NewConsultationRepository(db)

	tokenService, err := jwt.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	passwordService := password.NewBcryptService(10)
	auditRecorder := audit.NewRecorder(auditRepo, structuredLogger)

	imageStore, err := disk.NewImageStore(cfg.ImageStorePath, cfg.ImageStoreBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}

	authUseCase := usecase.NewAuthUseCase(
		profileRepo, refreshTokenRepo, tokenService, passwordService,
		rateLimitService, auditRecorder, structuredLogger,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	adminUseCase := usecase.NewAdminUseCase(profileRepo, auditRepo, passwordService, auditRecorder, structuredLogger)
	patientUseCase := usecase.NewPatientUseCase(patientRepo, auditRecorder, structuredLogger)
	appointmentUseCase := usecase.NewAppointmentUseCase(appointmentRepo, patientRepo, auditRecorder, structuredLogger)
	consultationUseCase := usecase.NewConsultationUseCase(consultationRepo, patientRepo, imageStore, auditRecorder, structuredLogger)
	dashboardUseCase := usecase.NewDashboardUseCase(patientRepo, appointmentRepo, consultationRepo, structuredLogger)

	handlers := clinorahttp.Handlers{
		Auth:         handler.NewAuthHandler(authUseCase),
		Admin:        handler.NewAdminHandler(adminUseCase),
		Patient:      handler.NewPatientHandler(patientUseCase),
		Appointment:  handler.NewAppointmentHandler(appointmentUseCase),
		Consultation: handler.NewConsultationHandler(consultationUseCase),
		Dashboard:    handler.NewDashboardHandler(dashboardUseCase),
	}
	authMW := middleware.NewAuthMiddleware(tokenService, authUseCase)

	sweeper := maintenance.NewTokenSweeper(
		refreshTokenRepo, structuredLogger,
		cfg.TokenSweepSchedule,
		time.Duration(cfg.TokenRetentionDays)*24*time.Hour,
	)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("Failed to start token sweeper: %v", err)
	}

	server := clinorahttp.NewServer(cfg, handlers, authMW, structuredLogger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-stop:
		structuredLogger.Info(ctx, "Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Graceful shutdown failed", err, nil)
	}

	sweeper.Stop()
	auditRecorder.Wait()
	structuredLogger.Info(ctx, "Application stopped", nil)
}
