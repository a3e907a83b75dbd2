package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Application struct {
	GracefulShutdownTimeout time.Duration
	CleanupInterval         time.Duration
}

type HTTPServer struct {
	Port int
}

type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type Logger struct {
	Level string
	Mode  string // development or production
}

type Swagger struct {
	Enabled bool `json:"enabled"`
}

type JWT struct {
	Secret         string
	ExpirationTime time.Duration
}

// OTP holds the lifecycle limits shared by every OTP namespace.
type OTP struct {
	Length         int
	ExpirationTime time.Duration
	MaxAttempts    int
	FreeResends    int
	ResendCooldown time.Duration
}

type Registration struct {
	DraftTTL time.Duration
	MinAge   int
}

type PasswordReset struct {
	StateTTL       time.Duration
	VerifiedWindow time.Duration
}

type Profile struct {
	LearningLanguageCooldown time.Duration
}

type Mail struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Subject  string
}

type Security struct {
	BcryptCost int
}

type Config struct {
	Application   Application
	HTTPServer    HTTPServer
	Database      Database
	Redis         Redis
	Logger        Logger
	Swagger       Swagger
	JWT           JWT
	OTP           OTP
	Registration  Registration
	PasswordReset PasswordReset
	Profile       Profile
	Mail          Mail
	Security      Security
}

func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Application: Application{
			GracefulShutdownTimeout: parseDurationWithDefault("APPLICATION_GRACEFUL_SHUTDOWN_TIMEOUT", 30*time.Second),
			CleanupInterval:         parseDurationWithDefault("APPLICATION_CLEANUP_INTERVAL", 5*time.Minute),
		},
		HTTPServer: HTTPServer{
			Port: parseIntWithDefault("HTTP_SERVER_PORT", 8080),
		},
		Database: Database{
			Host:     getEnvWithDefault("DATABASE_HOST", "db"),
			Port:     parseIntWithDefault("DATABASE_PORT", 5432),
			User:     getEnvWithDefault("DATABASE_USER", "chatlink"),
			Password: getEnvWithDefault("DATABASE_PASSWORD", "chatlink"),
			Name:     getEnvWithDefault("DATABASE_NAME", "chatlink"),
			SSLMode:  getEnvWithDefault("DATABASE_SSL_MODE", "disable"),
		},
		Logger: Logger{
			Level: getEnvWithDefault("LOGGER_LEVEL", "info"),
			Mode:  getEnvWithDefault("LOGGER_MODE", "production"),
		},
		Swagger: Swagger{
			Enabled: getEnvBoolWithDefault("SWAGGER_ENABLED", true),
		},
		JWT: JWT{
			Secret:         getEnvWithDefault("JWT_SECRET", "your-super-secret-key-change-in-production"),
			ExpirationTime: parseDurationWithDefault("JWT_EXPIRATION_TIME", 24*time.Hour),
		},
		OTP: OTP{
			Length:         parseIntWithDefault("OTP_LENGTH", 6),
			ExpirationTime: parseDurationWithDefault("OTP_EXPIRATION_TIME", 5*time.Minute),
			MaxAttempts:    parseIntWithDefault("OTP_MAX_ATTEMPTS", 5),
			FreeResends:    parseIntWithDefault("OTP_FREE_RESENDS", 5),
			ResendCooldown: parseDurationWithDefault("OTP_RESEND_COOLDOWN", 60*time.Second),
		},
		Registration: Registration{
			DraftTTL: parseDurationWithDefault("REGISTRATION_DRAFT_TTL", 30*time.Minute),
			MinAge:   parseIntWithDefault("REGISTRATION_MIN_AGE", 13),
		},
		PasswordReset: PasswordReset{
			StateTTL:       parseDurationWithDefault("PASSWORD_RESET_STATE_TTL", 20*time.Minute),
			VerifiedWindow: parseDurationWithDefault("PASSWORD_RESET_VERIFIED_WINDOW", 10*time.Minute),
		},
		Profile: Profile{
			LearningLanguageCooldown: parseDurationWithDefault("PROFILE_LEARNING_LANGUAGE_COOLDOWN", 15*24*time.Hour),
		},
		Redis: Redis{
			Host:     getEnvWithDefault("REDIS_HOST", "redis"),
			Port:     parseIntWithDefault("REDIS_PORT", 6379),
			Password: getEnvWithDefault("REDIS_PASSWORD", ""),
			DB:       parseIntWithDefault("REDIS_DB", 0),
		},
		Mail: Mail{
			Host:     getEnvWithDefault("SMTP_HOST", ""),
			Port:     parseIntWithDefault("SMTP_PORT", 587),
			User:     getEnvWithDefault("SMTP_USER", ""),
			Password: getEnvWithDefault("SMTP_PASS", ""),
			From:     getEnvWithDefault("SMTP_FROM", "no-reply@chatlink.local"),
			Subject:  getEnvWithDefault("SMTP_OTP_SUBJECT", "ChatLink OTP Verification"),
		},
		Security: Security{
			BcryptCost: parseIntWithDefault("SECURITY_BCRYPT_COST", 12),
		},
	}

	if cfg.OTP.Length != 6 {
		return nil, fmt.Errorf("OTP_LENGTH must be 6, got %d", cfg.OTP.Length)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
