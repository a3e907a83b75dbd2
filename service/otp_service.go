package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"chatlink-auth/config"
	"chatlink-auth/entity"
	"chatlink-auth/notifier"
	"chatlink-auth/pkg/clock"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/repository"
)

// OTPService interface defines the OTP lifecycle shared by registration and password reset
type OTPService interface {
	Issue(ctx context.Context, namespace entity.OTPNamespace, identifier string, isResend bool) (*entity.OTPRecord, error)
	IssueTo(ctx context.Context, namespace entity.OTPNamespace, identifier, destination string, isResend bool) (*entity.OTPRecord, error)
	Find(ctx context.Context, namespace entity.OTPNamespace, identifier string) (*entity.OTPRecord, error)
	Discard(ctx context.Context, namespace entity.OTPNamespace, identifier string) error
	IsExpired(record *entity.OTPRecord, now time.Time) bool
	CanResend(record *entity.OTPRecord, now time.Time) bool
	ExpiresAt(record *entity.OTPRecord) time.Time
	Verify(ctx context.Context, record *entity.OTPRecord, candidate string) (entity.VerifyResult, error)
	VerifyIdentifier(ctx context.Context, namespace entity.OTPNamespace, identifier, candidate string) (entity.VerifyResult, error)
	CleanupExpired(ctx context.Context) (int64, error)
}

// otpService implements OTPService interface
type otpService struct {
	otpRepo  repository.OTPRepository
	notifier notifier.Notifier
	clock    clock.Clock
	cfg      config.OTP
	logger   *logger.Logger
}

// NewOTPService creates a new OTP service instance
func NewOTPService(otpRepo repository.OTPRepository, n notifier.Notifier, clk clock.Clock, cfg config.OTP, logger *logger.Logger) OTPService {
	return &otpService{
		otpRepo:  otpRepo,
		notifier: n,
		clock:    clk,
		cfg:      cfg,
		logger:   logger,
	}
}

// Issue generates a code for identifier and delivers it to the identifier itself
func (s *otpService) Issue(ctx context.Context, namespace entity.OTPNamespace, identifier string, isResend bool) (*entity.OTPRecord, error) {
	return s.IssueTo(ctx, namespace, identifier, identifier, isResend)
}

// IssueTo generates a code keyed by identifier and delivers it to destination.
// A fresh issue replaces any stale record; a resend mutates the existing one.
func (s *otpService) IssueTo(ctx context.Context, namespace entity.OTPNamespace, identifier, destination string, isResend bool) (*entity.OTPRecord, error) {
	code, err := s.generateOTPCode()
	if err != nil {
		s.logger.Errorw("Failed to generate OTP code", "error", err)
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	now := s.clock.Now()

	var existing *entity.OTPRecord
	if isResend {
		existing, err = s.otpRepo.Find(ctx, namespace, identifier)
		if err != nil {
			s.logger.Errorw("Failed to load OTP record", "namespace", namespace, "error", err)
			return nil, fmt.Errorf("failed to load OTP record: %w", err)
		}
	}

	var record *entity.OTPRecord
	if existing != nil {
		existing.Code = code
		existing.Attempts = 0
		existing.ResendCount++
		existing.CreatedAt = now
		existing.LastSentAt = &now
		if err := s.otpRepo.Update(ctx, existing); err != nil {
			s.logger.Errorw("Failed to update OTP record", "namespace", namespace, "error", err)
			return nil, fmt.Errorf("failed to update OTP record: %w", err)
		}
		record = existing
	} else {
		record = &entity.OTPRecord{
			Namespace:  namespace,
			Identifier: identifier,
			Code:       code,
			CreatedAt:  now,
			LastSentAt: &now,
		}
		if err := s.otpRepo.Replace(ctx, record); err != nil {
			s.logger.Errorw("Failed to create OTP record", "namespace", namespace, "error", err)
			return nil, fmt.Errorf("failed to create OTP record: %w", err)
		}
	}

	channel := entity.ChannelFor(destination)
	if err := s.notifier.Send(ctx, channel, destination, notifier.OTPMessage(code)); err != nil {
		// The record stays valid; the user can ask for a resend.
		s.logger.Warnw("OTP delivery failed", "namespace", namespace, "channel", channel, "error", err)
	}

	s.logger.Infow("OTP issued",
		"namespace", namespace,
		"channel", channel,
		"resend_count", record.ResendCount,
		"expires_at", s.ExpiresAt(record),
	)

	return record, nil
}

// Find returns the outstanding record, or nil
func (s *otpService) Find(ctx context.Context, namespace entity.OTPNamespace, identifier string) (*entity.OTPRecord, error) {
	record, err := s.otpRepo.Find(ctx, namespace, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to load OTP record: %w", err)
	}
	return record, nil
}

// Discard removes the outstanding record, if any
func (s *otpService) Discard(ctx context.Context, namespace entity.OTPNamespace, identifier string) error {
	if err := s.otpRepo.Delete(ctx, namespace, identifier); err != nil {
		return fmt.Errorf("failed to discard OTP record: %w", err)
	}
	return nil
}

func (s *otpService) IsExpired(record *entity.OTPRecord, now time.Time) bool {
	return now.After(s.ExpiresAt(record))
}

func (s *otpService) ExpiresAt(record *entity.OTPRecord) time.Time {
	return record.CreatedAt.Add(s.cfg.ExpirationTime)
}

// CanResend allows the first FreeResends resends unconditionally, then
// enforces the cooldown since the last send.
func (s *otpService) CanResend(record *entity.OTPRecord, now time.Time) bool {
	if record.ResendCount < s.cfg.FreeResends {
		return true
	}
	if record.LastSentAt == nil {
		return true
	}
	return now.After(record.LastSentAt.Add(s.cfg.ResendCooldown))
}

// Verify checks candidate against record. Expired, locked and verified
// records are deleted; a mismatch keeps the record with its attempt counter bumped.
func (s *otpService) Verify(ctx context.Context, record *entity.OTPRecord, candidate string) (entity.VerifyResult, error) {
	return s.verify(ctx, record, candidate, true)
}

func (s *otpService) verify(ctx context.Context, record *entity.OTPRecord, candidate string, reload bool) (entity.VerifyResult, error) {
	if s.IsExpired(record, s.clock.Now()) {
		if err := s.otpRepo.Delete(ctx, record.Namespace, record.Identifier); err != nil {
			return entity.VerifyResult{}, fmt.Errorf("failed to delete expired OTP record: %w", err)
		}
		return entity.VerifyResult{Reason: entity.VerifyReasonExpired}, nil
	}

	attempts, err := s.otpRepo.IncrementAttempts(ctx, record.Namespace, record.Identifier, record.Code)
	if errors.Is(err, repository.ErrNotFound) {
		// Consumed or reissued since it was loaded.
		if !reload {
			return entity.VerifyResult{Reason: entity.VerifyReasonExpired}, nil
		}
		current, err := s.otpRepo.Find(ctx, record.Namespace, record.Identifier)
		if err != nil {
			return entity.VerifyResult{}, fmt.Errorf("failed to reload OTP record: %w", err)
		}
		if current == nil {
			return entity.VerifyResult{Reason: entity.VerifyReasonExpired}, nil
		}
		return s.verify(ctx, current, candidate, false)
	}
	if err != nil {
		return entity.VerifyResult{}, fmt.Errorf("failed to persist OTP attempts: %w", err)
	}
	record.Attempts = attempts

	if record.Attempts > s.cfg.MaxAttempts {
		if err := s.otpRepo.Delete(ctx, record.Namespace, record.Identifier); err != nil {
			return entity.VerifyResult{}, fmt.Errorf("failed to delete locked OTP record: %w", err)
		}
		s.logger.Warnw("OTP locked after too many attempts", "namespace", record.Namespace)
		return entity.VerifyResult{Reason: entity.VerifyReasonTooManyAttempts}, nil
	}

	if record.Code == candidate {
		if err := s.otpRepo.Delete(ctx, record.Namespace, record.Identifier); err != nil {
			return entity.VerifyResult{}, fmt.Errorf("failed to delete verified OTP record: %w", err)
		}
		return entity.VerifyResult{Accepted: true, Reason: entity.VerifyReasonVerified}, nil
	}

	return entity.VerifyResult{Reason: entity.VerifyReasonInvalid}, nil
}

// VerifyIdentifier loads the record and verifies it. A missing record reads as expired.
func (s *otpService) VerifyIdentifier(ctx context.Context, namespace entity.OTPNamespace, identifier, candidate string) (entity.VerifyResult, error) {
	record, err := s.otpRepo.Find(ctx, namespace, identifier)
	if err != nil {
		s.logger.Errorw("Failed to load OTP record", "namespace", namespace, "error", err)
		return entity.VerifyResult{}, fmt.Errorf("failed to load OTP record: %w", err)
	}

	if record == nil {
		return entity.VerifyResult{Reason: entity.VerifyReasonExpired}, nil
	}

	return s.Verify(ctx, record, candidate)
}

// CleanupExpired removes records that can no longer be verified
func (s *otpService) CleanupExpired(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.cfg.ExpirationTime)

	deleted, err := s.otpRepo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		s.logger.Errorw("Failed to delete expired OTP records", "error", err)
		return 0, fmt.Errorf("failed to delete expired OTP records: %w", err)
	}

	return deleted, nil
}

// generateOTPCode generates a random numeric code of the configured length
func (s *otpService) generateOTPCode() (string, error) {
	maxValue := big.NewInt(1)
	for i := 0; i < s.cfg.Length; i++ {
		maxValue.Mul(maxValue, big.NewInt(10))
	}

	randomNumber, err := rand.Int(rand.Reader, maxValue)
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}

	// Format with leading zeros
	format := fmt.Sprintf("%%0%dd", s.cfg.Length)
	return fmt.Sprintf(format, randomNumber), nil
}
