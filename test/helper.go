// Package test provides helpers for tests that run against a real Postgres.
// They are skipped unless TEST_DB_HOST is set.
package test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"chatlink-auth/entity"
	"chatlink-auth/migrations"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/repository"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// TestDB wraps a test database connection
type TestDB struct {
	DB *sqlx.DB
}

// SetupTestDB connects to the test database and runs migrations
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set; skipping database integration test")
	}

	port := getEnvOrDefault("TEST_DB_PORT", "5432")
	user := getEnvOrDefault("TEST_DB_USER", "chatlink")
	password := getEnvOrDefault("TEST_DB_PASSWORD", "chatlink")

	// Get base database name and add _test suffix
	baseDBName := getEnvOrDefault("POSTGRES_DB", "chatlink")
	dbName := getEnvOrDefault("TEST_DB_NAME", baseDBName+"_test")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbName)

	db, err := sqlx.Connect("postgres", connStr)
	require.NoError(t, err, "Failed to connect to test database")

	err = migrations.RunMigrations(context.Background(), db, migrations.Embedded(), logger.NewNop())
	require.NoError(t, err, "Failed to run test migrations")

	tdb := &TestDB{DB: db}
	tdb.CleanTables(t)
	t.Cleanup(tdb.Close)

	return tdb
}

// Close closes the test database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// CleanTables removes all data from tables (for test isolation)
func (tdb *TestDB) CleanTables(t *testing.T) {
	_, err := tdb.DB.Exec("TRUNCATE TABLE otp_records, users RESTART IDENTITY CASCADE")
	require.NoError(t, err, "Failed to clean test tables")
}

// CreateTestUser creates a test user with the given username and email
func (tdb *TestDB) CreateTestUser(t *testing.T, username, email string) *entity.User {
	t.Helper()

	user := &entity.User{
		Username:         username,
		Email:            &email,
		PasswordHash:     "$2a$04$placeholderplaceholderplaceholderplaceholderplacehol",
		FullName:         "Test User",
		DateOfBirth:      time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC),
		Gender:           "other",
		Country:          "Testland",
		NativeLanguage:   "en",
		LearningLanguage: "es",
	}

	userRepo := repository.NewUserRepository(tdb.DB)
	createdUser, err := userRepo.Create(context.Background(), user)
	require.NoError(t, err, "Failed to create test user")

	return createdUser
}

// CreateTestOTP inserts an OTP record created at createdAt
func (tdb *TestDB) CreateTestOTP(t *testing.T, namespace entity.OTPNamespace, identifier, code string, createdAt time.Time) *entity.OTPRecord {
	t.Helper()

	record := &entity.OTPRecord{
		Namespace:  namespace,
		Identifier: identifier,
		Code:       code,
		CreatedAt:  createdAt,
		LastSentAt: &createdAt,
	}

	otpRepo := repository.NewOTPRepository(tdb.DB)
	require.NoError(t, otpRepo.Replace(context.Background(), record), "Failed to create test OTP")

	return record
}

// AssertUserCount asserts the total number of users in the database
func (tdb *TestDB) AssertUserCount(t *testing.T, expectedCount int) {
	var count int
	err := tdb.DB.Get(&count, "SELECT COUNT(*) FROM users")
	require.NoError(t, err, "Failed to count users")
	require.Equal(t, expectedCount, count, "User count mismatch")
}

// OTPCount returns the number of OTP records for an identifier across namespaces
func (tdb *TestDB) OTPCount(t *testing.T, identifier string) int {
	var count int
	err := tdb.DB.Get(&count, "SELECT COUNT(*) FROM otp_records WHERE identifier = $1", identifier)
	require.NoError(t, err, "Failed to count OTP records")
	return count
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
