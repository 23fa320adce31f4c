package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "fitzone/docs"
	"fitzone/internal/attendance"
	"fitzone/internal/auth"
	"fitzone/internal/booking"
	"fitzone/internal/config"
	"fitzone/internal/db"
	"fitzone/internal/email"
	"fitzone/internal/gymclass"
	"fitzone/internal/logger"
	"fitzone/internal/membership"
	"fitzone/internal/payment"
	"fitzone/internal/review"
	"fitzone/internal/server"
	"fitzone/internal/storage"
	"fitzone/internal/trainer"
	"fitzone/internal/user"
	"fitzone/internal/worker"

	"github.com/redis/go-redis/v9"
)

// @title FitZone API
// @version 1.0
// @description Gym membership, class booking and payment API.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting FitZone application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	emailService := email.New(rdb, email.NewSender(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.EmailFromName,
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
	))
	defer emailService.Close()
	logger.Info("Email service initialized")

	store, err := storage.New(cfg.S3Enabled(), cfg.AWSRegion, cfg.AWSAccessKey, cfg.AWSSecretKey,
		cfg.S3Bucket, cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}
	staticDir := ""
	if local, ok := store.(*storage.LocalStore); ok {
		staticDir = local.Dir()
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL)
	denylist := auth.NewRedisDenylist(rdb)

	userRepo := user.NewRepository(database)
	membershipRepo := membership.NewRepository(database)

	users := user.NewService(userRepo, tokens, denylist, store)
	memberships := membership.NewService(membershipRepo, userRepo, emailService)
	classes := gymclass.NewService(gymclass.NewRepository(database))
	bookings := booking.NewService(booking.NewRepository(database), emailService)
	attend := attendance.NewService(attendance.NewRepository(database))
	trainers := trainer.NewService(trainer.NewRepository(database), emailService)
	reviews := review.NewService(review.NewRepository(database))

	gateway := payment.NewGateway(cfg.MidtransServerKey, cfg.MidtransProduction)
	logger.Info("Payment gateway ready", "gateway", gateway.Name())
	payments := payment.NewService(payment.NewRepository(database), membershipRepo, userRepo, gateway, emailService,
		payment.Options{Expiry: cfg.PaymentExpiry, CallbackToken: cfg.PaymentCallbackToken})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.AdminEmail != "" {
		if err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Errorf("Failed to bootstrap admin: %v", err)
		}
	}

	go emailService.Start(ctx)
	go worker.NewSweeper("payment-expiry", cfg.PaymentSweepInterval, payments.ExpireStale).Start(ctx)
	go worker.NewSweeper("attendance-absentees", cfg.AttendanceSweepInterval, attend.SweepAbsentees).Start(ctx)

	srv := server.New(server.Deps{
		Config:      cfg,
		Tokens:      tokens,
		Denylist:    denylist,
		Approvals:   users,
		Health:      database,
		StaticDir:   staticDir,
		Users:       users,
		Memberships: memberships,
		Classes:     classes,
		Bookings:    bookings,
		Attendance:  attend,
		Payments:    payments,
		Trainers:    trainers,
		Reviews:     reviews,
	})

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
