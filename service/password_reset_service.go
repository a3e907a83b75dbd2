package service

import (
	"context"
	"errors"

	"chatlink-auth/config"
	"chatlink-auth/entity"
	"chatlink-auth/pkg/apperror"
	"chatlink-auth/pkg/clock"
	"chatlink-auth/pkg/hash"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/repository"

	"github.com/google/uuid"
)

const resetRequestedMessage = "If an account matches, an OTP has been sent."

// PasswordResetService drives the forgot-password flow: request a code,
// verify it, then submit a new password within the verified window.
type PasswordResetService interface {
	RequestPasswordResetOTP(ctx context.Context, identifier string) (*entity.OTPResponse, error)
	VerifyPasswordResetOTP(ctx context.Context, req *entity.VerifyPasswordResetRequest) (*entity.MessageResponse, error)
	ResendPasswordResetOTP(ctx context.Context, token string) (*entity.OTPResponse, error)
	CommitPasswordReset(ctx context.Context, req *entity.ResetPasswordRequest) (*entity.MessageResponse, error)
	CancelPasswordReset(ctx context.Context, token string) error
}

type passwordResetService struct {
	userRepo   repository.UserRepository
	txRepo     repository.TransactionRepository
	otpService OTPService
	jwtService JWTService
	hasher     hash.PasswordHasher
	clock      clock.Clock
	cfg        config.PasswordReset
	logger     *logger.Logger
}

// NewPasswordResetService creates a new password reset service instance
func NewPasswordResetService(
	userRepo repository.UserRepository,
	txRepo repository.TransactionRepository,
	otpService OTPService,
	jwtService JWTService,
	hasher hash.PasswordHasher,
	clk clock.Clock,
	cfg config.PasswordReset,
	logger *logger.Logger,
) PasswordResetService {
	return &passwordResetService{
		userRepo:   userRepo,
		txRepo:     txRepo,
		otpService: otpService,
		jwtService: jwtService,
		hasher:     hasher,
		clock:      clk,
		cfg:        cfg,
		logger:     logger,
	}
}

// RequestPasswordResetOTP starts a reset. Unknown identifiers get the same
// response but no code is sent, so the endpoint does not reveal which accounts exist.
func (s *passwordResetService) RequestPasswordResetOTP(ctx context.Context, identifier string) (*entity.OTPResponse, error) {
	if identifier == "" {
		return nil, apperror.Validation("Identifier is required")
	}

	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		s.logger.Errorw("Failed to resolve user for password reset", "error", err)
		return nil, apperror.Internal(err)
	}

	now := s.clock.Now()
	expiresAt := s.otpService.ExpiresAt(&entity.OTPRecord{CreatedAt: now})

	if user != nil {
		record, err := s.otpService.Find(ctx, entity.OTPNamespacePasswordReset, identifier)
		if err != nil {
			return nil, apperror.Internal(err)
		}

		// An outstanding code is re-sent rather than replaced, so its resend budget carries over.
		isResend := record != nil && !s.otpService.IsExpired(record, now)
		if isResend && !s.otpService.CanResend(record, now) {
			return nil, apperror.Cooldown("Please wait before requesting another OTP.")
		}

		record, err = s.otpService.IssueTo(ctx, entity.OTPNamespacePasswordReset, identifier, user.Contact(), isResend)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		expiresAt = s.otpService.ExpiresAt(record)
		s.logger.Infow("Password reset requested", "user_id", user.ID)
	} else {
		s.logger.Infow("Password reset requested for unknown identifier")
	}

	token := uuid.NewString()
	state := &entity.PasswordResetState{
		Identifier: identifier,
		CreatedAt:  now,
	}
	if err := s.txRepo.SavePasswordReset(ctx, token, state, s.cfg.StateTTL); err != nil {
		s.logger.Errorw("Failed to store password reset state", "error", err)
		return nil, apperror.Internal(err)
	}

	return &entity.OTPResponse{
		Message:    resetRequestedMessage,
		Token:      token,
		Identifier: identifier,
		ExpiresAt:  expiresAt,
	}, nil
}

// VerifyPasswordResetOTP checks the code and opens the window for a new password
func (s *passwordResetService) VerifyPasswordResetOTP(ctx context.Context, req *entity.VerifyPasswordResetRequest) (*entity.MessageResponse, error) {
	state, err := s.loadState(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	result, err := s.otpService.VerifyIdentifier(ctx, entity.OTPNamespacePasswordReset, state.Identifier, req.Code)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if err := verifyResultError(result); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	state.Verified = true
	state.VerifiedAt = &now
	if err := s.txRepo.SavePasswordReset(ctx, req.Token, state, s.cfg.StateTTL); err != nil {
		s.logger.Errorw("Failed to store password reset state", "error", err)
		return nil, apperror.Internal(err)
	}

	return &entity.MessageResponse{Message: "OTP verified. Please set a new password."}, nil
}

// ResendPasswordResetOTP re-sends the code for an ongoing reset, honouring the resend cooldown
func (s *passwordResetService) ResendPasswordResetOTP(ctx context.Context, token string) (*entity.OTPResponse, error) {
	state, err := s.loadState(ctx, token)
	if err != nil {
		return nil, err
	}
	if state.Verified {
		return nil, apperror.Validation("OTP already verified. Please set a new password.")
	}

	now := s.clock.Now()
	resp := &entity.OTPResponse{
		Message:    resetRequestedMessage,
		Token:      token,
		Identifier: state.Identifier,
		ExpiresAt:  s.otpService.ExpiresAt(&entity.OTPRecord{CreatedAt: now}),
	}

	user, err := s.userRepo.GetByIdentifier(ctx, state.Identifier)
	if err != nil {
		s.logger.Errorw("Failed to resolve user for password reset", "error", err)
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return resp, nil
	}

	record, err := s.otpService.Find(ctx, entity.OTPNamespacePasswordReset, state.Identifier)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if record != nil && !s.otpService.CanResend(record, now) {
		return nil, apperror.Cooldown("Please wait before requesting another OTP.")
	}

	record, err = s.otpService.IssueTo(ctx, entity.OTPNamespacePasswordReset, state.Identifier, user.Contact(), true)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	resp.ExpiresAt = s.otpService.ExpiresAt(record)

	return resp, nil
}

// CommitPasswordReset stores the new password and revokes every session of
// the user. Any failure of the verified window clears the reset state.
func (s *passwordResetService) CommitPasswordReset(ctx context.Context, req *entity.ResetPasswordRequest) (*entity.MessageResponse, error) {
	if err := validatePasswordPair(req.Password, req.ConfirmPassword); err != nil {
		return nil, err
	}

	state, err := s.loadState(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	if !state.Verified || state.VerifiedAt == nil || s.clock.Now().After(state.VerifiedAt.Add(s.cfg.VerifiedWindow)) {
		s.clearState(ctx, req.Token)
		return nil, apperror.SessionExpired("Session expired. Please request a new password reset.")
	}

	user, err := s.userRepo.GetByIdentifier(ctx, state.Identifier)
	if err != nil {
		s.logger.Errorw("Failed to resolve user for password reset", "error", err)
		return nil, apperror.Internal(err)
	}
	if user == nil {
		s.clearState(ctx, req.Token)
		return nil, apperror.SessionExpired("Session expired. Please request a new password reset.")
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Errorw("Failed to hash password", "error", err)
		return nil, apperror.Internal(err)
	}

	if err := s.userRepo.SetPassword(ctx, user.ID, passwordHash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.clearState(ctx, req.Token)
			return nil, apperror.SessionExpired("Session expired. Please request a new password reset.")
		}
		s.logger.Errorw("Failed to set password", "user_id", user.ID, "error", err)
		return nil, apperror.Internal(err)
	}

	if _, err := s.jwtService.RevokeAllUserTokens(ctx, user.ID); err != nil {
		s.logger.Warnw("Failed to revoke tokens after password reset", "user_id", user.ID, "error", err)
	}

	s.clearState(ctx, req.Token)
	s.logger.Infow("Password reset completed", "user_id", user.ID)

	return &entity.MessageResponse{Message: "Password reset successful. Please login."}, nil
}

// CancelPasswordReset discards the reset state and its outstanding code
func (s *passwordResetService) CancelPasswordReset(ctx context.Context, token string) error {
	state, err := s.txRepo.GetPasswordReset(ctx, token)
	if err != nil {
		s.logger.Errorw("Failed to load password reset state", "error", err)
		return apperror.Internal(err)
	}
	if state == nil {
		return nil
	}

	if err := s.otpService.Discard(ctx, entity.OTPNamespacePasswordReset, state.Identifier); err != nil {
		return apperror.Internal(err)
	}
	if err := s.txRepo.DeletePasswordReset(ctx, token); err != nil {
		return apperror.Internal(err)
	}

	return nil
}

func (s *passwordResetService) loadState(ctx context.Context, token string) (*entity.PasswordResetState, error) {
	state, err := s.txRepo.GetPasswordReset(ctx, token)
	if err != nil {
		s.logger.Errorw("Failed to load password reset state", "error", err)
		return nil, apperror.Internal(err)
	}
	if state == nil {
		return nil, apperror.SessionExpired("Session expired. Please request a new password reset.")
	}
	return state, nil
}

func (s *passwordResetService) clearState(ctx context.Context, token string) {
	if err := s.txRepo.DeletePasswordReset(ctx, token); err != nil {
		s.logger.Warnw("Failed to delete password reset state", "error", err)
	}
}
