package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chatlink-auth/entity"

	"github.com/jmoiron/sqlx"
)

// OTPRepository interface defines OTP record persistence.
// At most one record exists per (namespace, identifier).
type OTPRepository interface {
	Find(ctx context.Context, namespace entity.OTPNamespace, identifier string) (*entity.OTPRecord, error)
	Replace(ctx context.Context, record *entity.OTPRecord) error
	Update(ctx context.Context, record *entity.OTPRecord) error
	IncrementAttempts(ctx context.Context, namespace entity.OTPNamespace, identifier, code string) (int, error)
	Delete(ctx context.Context, namespace entity.OTPNamespace, identifier string) error
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// otpRepository implements OTPRepository interface
type otpRepository struct {
	db *sqlx.DB
}

// NewOTPRepository creates a new OTP repository instance
func NewOTPRepository(db *sqlx.DB) OTPRepository {
	return &otpRepository{
		db: db,
	}
}

// Find retrieves the record for an identifier, or nil when none is outstanding
func (r *otpRepository) Find(ctx context.Context, namespace entity.OTPNamespace, identifier string) (*entity.OTPRecord, error) {
	query := `
		SELECT namespace, identifier, code, attempts, resend_count, created_at, last_sent_at
		FROM otp_records
		WHERE namespace = $1 AND identifier = $2
	`

	var record entity.OTPRecord
	err := r.db.GetContext(ctx, &record, query, namespace, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get OTP record: %w", err)
	}

	return &record, nil
}

// Replace writes a freshly issued record over any existing one for the same key.
// Counters never leak between unrelated attempts and concurrent issuances leave
// the last writer's record.
func (r *otpRepository) Replace(ctx context.Context, record *entity.OTPRecord) error {
	query := `
		INSERT INTO otp_records (namespace, identifier, code, attempts, resend_count, created_at, last_sent_at)
		VALUES (:namespace, :identifier, :code, :attempts, :resend_count, :created_at, :last_sent_at)
		ON CONFLICT (namespace, identifier) DO UPDATE
		SET code = EXCLUDED.code, attempts = EXCLUDED.attempts, resend_count = EXCLUDED.resend_count,
			created_at = EXCLUDED.created_at, last_sent_at = EXCLUDED.last_sent_at
	`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("failed to create OTP record: %w", err)
	}

	return nil
}

// IncrementAttempts bumps the attempt counter of the record still holding code
// and returns the new count. ErrNotFound means the record was deleted or
// reissued with a different code.
func (r *otpRepository) IncrementAttempts(ctx context.Context, namespace entity.OTPNamespace, identifier, code string) (int, error) {
	query := `
		UPDATE otp_records
		SET attempts = attempts + 1
		WHERE namespace = $1 AND identifier = $2 AND code = $3
		RETURNING attempts
	`

	var attempts int
	err := r.db.GetContext(ctx, &attempts, query, namespace, identifier, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment OTP attempts: %w", err)
	}

	return attempts, nil
}

// Update persists a resend
func (r *otpRepository) Update(ctx context.Context, record *entity.OTPRecord) error {
	query := `
		UPDATE otp_records
		SET code = :code, attempts = :attempts, resend_count = :resend_count,
			created_at = :created_at, last_sent_at = :last_sent_at
		WHERE namespace = :namespace AND identifier = :identifier
	`

	result, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("failed to update OTP record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the record for an identifier. Deleting a missing record is not an error.
func (r *otpRepository) Delete(ctx context.Context, namespace entity.OTPNamespace, identifier string) error {
	query := `DELETE FROM otp_records WHERE namespace = $1 AND identifier = $2`

	if _, err := r.db.ExecContext(ctx, query, namespace, identifier); err != nil {
		return fmt.Errorf("failed to delete OTP record: %w", err)
	}

	return nil
}

// DeleteCreatedBefore removes records generated before cutoff
func (r *otpRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM otp_records WHERE created_at < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired OTP records: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
