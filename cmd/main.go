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

	"chatlink-auth/config"
	"chatlink-auth/controller"
	_ "chatlink-auth/docs" // Import for swagger
	"chatlink-auth/handler"
	"chatlink-auth/migrations"
	"chatlink-auth/notifier"
	"chatlink-auth/pkg/clock"
	"chatlink-auth/pkg/hash"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/repository"
	"chatlink-auth/service"
	"chatlink-auth/validator"

	"github.com/redis/go-redis/v9"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"
)

// @title ChatLink Authentication Service API
// @version 1.0
// @description OTP-gated registration, password reset, login and profile management
// @contact.name API Support
// @contact.email support@example.com
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
// @description Enter JWT Bearer token in format: Bearer {token}
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Mode)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Infow("Starting ChatLink Authentication Service",
		"version", "1.0.0",
		"port", cfg.HTTPServer.Port,
		"log_level", cfg.Logger.Level,
		"log_mode", cfg.Logger.Mode,
	)

	// Connect to database
	db, err := connectDB(cfg, log)
	if err != nil {
		log.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()

	log.Infow("Database connected successfully",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	// Run migrations
	if err := migrations.RunMigrations(context.Background(), db, migrations.Embedded(), log); err != nil {
		log.Fatalw("Failed to run database migrations", "error", err)
	}

	log.Infow("Database migrations completed successfully")

	// Redis holds transaction state and the issued JWT registry
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalw("Failed to connect to Redis", "error", err)
	}

	log.Infow("Redis connected successfully", "host", cfg.Redis.Host, "port", cfg.Redis.Port)

	v := validator.New()
	clk := clock.New()
	hasher := hash.NewBcrypt(cfg.Security.BcryptCost)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	txRepo := repository.NewRedisTransactionRepository(redisClient, log)

	// Notification channels
	if cfg.Mail.Host == "" {
		log.Warnw("SMTP_HOST is not set; email OTP delivery will fail")
	}
	dispatcher := notifier.NewDispatcher(notifier.NewEmailSender(cfg.Mail), notifier.NewLogSMSSender(log, cfg.Logger.Mode == "development"), log)

	// Initialize services
	tokenService := service.NewTokenService(redisClient, log)
	jwtService := service.NewJWTService(cfg.JWT, clk, log, tokenService)
	otpService := service.NewOTPService(otpRepo, dispatcher, clk, cfg.OTP, log)
	registrationService := service.NewRegistrationService(userRepo, txRepo, otpService, jwtService, hasher, clk, cfg.Registration, log)
	resetService := service.NewPasswordResetService(userRepo, txRepo, otpService, jwtService, hasher, clk, cfg.PasswordReset, log)
	authService := service.NewAuthService(userRepo, jwtService, hasher, log)
	profileService := service.NewProfileService(userRepo, clk, cfg.Profile.LearningLanguageCooldown, log)

	// Initialize controllers
	controllers := handler.Controllers{
		Registration: controller.NewRegistrationController(registrationService, v, log),
		Password:     controller.NewPasswordController(resetService, v, log),
		Auth:         controller.NewAuthController(authService, v, log),
		Profile:      controller.NewProfileController(profileService, v, log),
		Language:     controller.NewLanguageController(),
		Health: controller.NewHealthController(map[string]controller.DependencyCheck{
			"postgres": db.PingContext,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		}),
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Register routes
	handler.RegisterRoutes(e, controllers, jwtService, cfg, log)

	// Start cleanup routine in background
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go startCleanupRoutine(cleanupCtx, otpService, cfg.Application.CleanupInterval, log)

	// Start server in a goroutine
	serverAddr := fmt.Sprintf(":%d", cfg.HTTPServer.Port)
	go func() {
		log.Infow("Starting HTTP server", "address", serverAddr)
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Infow("Shutting down server gracefully...")
	stopCleanup()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Application.GracefulShutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Failed to shutdown server gracefully", "error", err)
		os.Exit(1)
	}

	log.Infow("Server shutdown completed successfully")
}

func connectDB(cfg *config.Config, log *logger.Logger) (*sqlx.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	var db *sqlx.DB
	var err error

	// Retry connection up to 30 times with 1 second delay
	for i := 0; i < 30; i++ {
		db, err = sqlx.Connect("postgres", connStr)
		if err == nil {
			break
		}

		log.Warnw("Database connection attempt failed", "attempt", i+1, "max_attempts", 30, "error", err)
		time.Sleep(1 * time.Second)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after 30 attempts: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// startCleanupRoutine deletes OTP records that can no longer be verified
func startCleanupRoutine(ctx context.Context, otpService service.OTPService, interval time.Duration, logger *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := otpService.CleanupExpired(ctx)
			if err != nil {
				logger.Errorw("Failed to cleanup expired OTPs", "error", err)
				continue
			}
			logger.Debugw("Cleanup routine completed", "deleted", deleted)
		}
	}
}
