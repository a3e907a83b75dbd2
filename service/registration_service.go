package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatlink-auth/config"
	"chatlink-auth/entity"
	"chatlink-auth/pkg/apperror"
	"chatlink-auth/pkg/clock"
	"chatlink-auth/pkg/hash"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/repository"
	"chatlink-auth/validator"

	"github.com/google/uuid"
)

// RegistrationService drives the OTP-gated account creation flow. No user row
// exists until the code for the pending draft has been verified.
type RegistrationService interface {
	RequestRegistrationOTP(ctx context.Context, req *entity.RegisterRequest) (*entity.OTPResponse, error)
	VerifyRegistrationOTP(ctx context.Context, req *entity.VerifyRegistrationRequest) (*entity.AuthResponse, error)
	ResendRegistrationOTP(ctx context.Context, token string) (*entity.OTPResponse, error)
	CancelRegistration(ctx context.Context, token string) error
}

type registrationService struct {
	userRepo   repository.UserRepository
	txRepo     repository.TransactionRepository
	otpService OTPService
	jwtService JWTService
	hasher     hash.PasswordHasher
	clock      clock.Clock
	cfg        config.Registration
	logger     *logger.Logger
}

// NewRegistrationService creates a new registration service instance
func NewRegistrationService(
	userRepo repository.UserRepository,
	txRepo repository.TransactionRepository,
	otpService OTPService,
	jwtService JWTService,
	hasher hash.PasswordHasher,
	clk clock.Clock,
	cfg config.Registration,
	logger *logger.Logger,
) RegistrationService {
	return &registrationService{
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

// RequestRegistrationOTP validates the draft, issues a code to the identifier
// and stores the draft under a new transaction token.
func (s *registrationService) RequestRegistrationOTP(ctx context.Context, req *entity.RegisterRequest) (*entity.OTPResponse, error) {
	if err := s.validateDraft(req); err != nil {
		return nil, err
	}

	if err := s.checkAvailability(ctx, req.Username, req.Identifier); err != nil {
		return nil, err
	}

	record, err := s.otpService.Issue(ctx, entity.OTPNamespaceRegistration, req.Identifier, false)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	token := uuid.NewString()
	draft := &entity.RegistrationDraft{
		FullName:         req.FullName,
		Username:         req.Username,
		Identifier:       req.Identifier,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		Country:          req.Country,
		NativeLanguage:   req.NativeLanguage,
		LearningLanguage: req.LearningLanguage,
		CreatedAt:        s.clock.Now(),
	}

	if err := s.txRepo.SaveRegistration(ctx, token, draft, s.cfg.DraftTTL); err != nil {
		s.logger.Errorw("Failed to store registration draft", "error", err)
		return nil, apperror.Internal(err)
	}

	s.logger.Infow("Registration started", "username", req.Username, "channel", entity.ChannelFor(req.Identifier))

	return &entity.OTPResponse{
		Message:    "OTP sent successfully",
		Token:      token,
		Identifier: req.Identifier,
		Channel:    entity.ChannelFor(req.Identifier),
		ExpiresAt:  s.otpService.ExpiresAt(record),
	}, nil
}

// VerifyRegistrationOTP checks the code for the pending draft and, on
// success, creates the account and logs the user in.
func (s *registrationService) VerifyRegistrationOTP(ctx context.Context, req *entity.VerifyRegistrationRequest) (*entity.AuthResponse, error) {
	if err := validatePasswordPair(req.Password, req.ConfirmPassword); err != nil {
		return nil, err
	}

	draft, err := s.txRepo.GetRegistration(ctx, req.Token)
	if err != nil {
		s.logger.Errorw("Failed to load registration draft", "error", err)
		return nil, apperror.Internal(err)
	}
	if draft == nil {
		return nil, apperror.SessionExpired("Session expired. Please register again.")
	}
	if draft.Identifier != req.Identifier {
		return nil, apperror.Validation("Identifier does not match the pending registration")
	}

	result, err := s.otpService.VerifyIdentifier(ctx, entity.OTPNamespaceRegistration, draft.Identifier, req.Code)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if err := verifyResultError(result); err != nil {
		return nil, err
	}

	// Another registration may have claimed the username or identifier since the draft was created.
	if err := s.checkAvailability(ctx, draft.Username, draft.Identifier); err != nil {
		s.discardDraft(ctx, req.Token)
		return nil, err
	}

	user, err := s.buildUser(draft, req.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			s.discardDraft(ctx, req.Token)
			return nil, apperror.Conflict("Username or identifier already taken. Please register again.")
		}
		s.logger.Errorw("Failed to create user", "username", draft.Username, "error", err)
		return nil, apperror.Internal(err)
	}

	s.discardDraft(ctx, req.Token)
	s.logger.Infow("New user registered", "user_id", created.ID, "username", created.Username)

	resp, err := s.jwtService.GenerateToken(ctx, created)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	resp.Message = "Account verified"

	return resp, nil
}

// ResendRegistrationOTP re-sends the code for a pending draft, honouring the resend cooldown
func (s *registrationService) ResendRegistrationOTP(ctx context.Context, token string) (*entity.OTPResponse, error) {
	draft, err := s.txRepo.GetRegistration(ctx, token)
	if err != nil {
		s.logger.Errorw("Failed to load registration draft", "error", err)
		return nil, apperror.Internal(err)
	}
	if draft == nil {
		return nil, apperror.SessionExpired("Session expired. Please register again.")
	}

	record, err := s.otpService.Find(ctx, entity.OTPNamespaceRegistration, draft.Identifier)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if record != nil && !s.otpService.CanResend(record, s.clock.Now()) {
		return nil, apperror.Cooldown("Please wait before requesting another OTP.")
	}

	record, err = s.otpService.Issue(ctx, entity.OTPNamespaceRegistration, draft.Identifier, true)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// Keep the draft alive for as long as the fresh code.
	if err := s.txRepo.SaveRegistration(ctx, token, draft, s.cfg.DraftTTL); err != nil {
		s.logger.Warnw("Failed to refresh registration draft", "error", err)
	}

	return &entity.OTPResponse{
		Message:    "New OTP sent successfully",
		Token:      token,
		Identifier: draft.Identifier,
		Channel:    entity.ChannelFor(draft.Identifier),
		ExpiresAt:  s.otpService.ExpiresAt(record),
	}, nil
}

// CancelRegistration discards the draft and its outstanding code. Cancelling
// an unknown or expired token is not an error.
func (s *registrationService) CancelRegistration(ctx context.Context, token string) error {
	draft, err := s.txRepo.GetRegistration(ctx, token)
	if err != nil {
		s.logger.Errorw("Failed to load registration draft", "error", err)
		return apperror.Internal(err)
	}
	if draft == nil {
		return nil
	}

	if err := s.otpService.Discard(ctx, entity.OTPNamespaceRegistration, draft.Identifier); err != nil {
		return apperror.Internal(err)
	}
	if err := s.txRepo.DeleteRegistration(ctx, token); err != nil {
		return apperror.Internal(err)
	}

	s.logger.Infow("Registration cancelled", "username", draft.Username)
	return nil
}

func (s *registrationService) validateDraft(req *entity.RegisterRequest) error {
	if req.FullName == "" || req.Username == "" || req.Identifier == "" || req.DateOfBirth == "" ||
		req.Gender == "" || req.Country == "" || req.NativeLanguage == "" || req.LearningLanguage == "" {
		return apperror.Validation("All fields are required")
	}

	if !validator.IsIdentifier(req.Identifier) {
		if entity.IsEmailIdentifier(req.Identifier) {
			return apperror.Validation("Invalid email address")
		}
		return apperror.Validation("Invalid phone number. Use international format, e.g. +14155552671")
	}

	if !validator.IsLanguageCode(req.NativeLanguage) || !validator.IsLanguageCode(req.LearningLanguage) {
		return apperror.Validation("Languages must be ISO 639 language codes")
	}

	dob, err := time.Parse(entity.DateLayout, req.DateOfBirth)
	if err != nil {
		return apperror.Validation("Date of birth must be in YYYY-MM-DD format")
	}
	if age(dob, s.clock.Now()) < s.cfg.MinAge {
		return apperror.Validation(fmt.Sprintf("You must be at least %d years old to register", s.cfg.MinAge))
	}

	return nil
}

// checkAvailability reports a Conflict when the username or identifier
// already belongs to an account.
func (s *registrationService) checkAvailability(ctx context.Context, username, identifier string) error {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Errorw("Failed to check username", "error", err)
		return apperror.Internal(err)
	}
	if existing != nil {
		return apperror.Conflict("Username already taken")
	}

	if entity.IsEmailIdentifier(identifier) {
		existing, err = s.userRepo.GetByEmail(ctx, identifier)
	} else {
		existing, err = s.userRepo.GetByPhone(ctx, identifier)
	}
	if err != nil {
		s.logger.Errorw("Failed to check identifier", "error", err)
		return apperror.Internal(err)
	}
	if existing != nil {
		return apperror.Conflict("An account with this email or phone already exists. Please login.")
	}

	return nil
}

func (s *registrationService) buildUser(draft *entity.RegistrationDraft, password string) (*entity.User, error) {
	dob, err := time.Parse(entity.DateLayout, draft.DateOfBirth)
	if err != nil {
		return nil, apperror.Validation("Date of birth must be in YYYY-MM-DD format")
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Errorw("Failed to hash password", "error", err)
		return nil, apperror.Internal(err)
	}

	now := s.clock.Now()
	user := &entity.User{
		Username:         draft.Username,
		PasswordHash:     passwordHash,
		FullName:         draft.FullName,
		DateOfBirth:      dob,
		Gender:           draft.Gender,
		Country:          draft.Country,
		NativeLanguage:   draft.NativeLanguage,
		LearningLanguage: draft.LearningLanguage,
		RegisteredAt:     now,
		LastLoginAt:      &now,
		IsActive:         true,
	}

	identifier := draft.Identifier
	if entity.IsEmailIdentifier(identifier) {
		user.Email = &identifier
	} else {
		user.Phone = &identifier
	}

	return user, nil
}

func (s *registrationService) discardDraft(ctx context.Context, token string) {
	if err := s.txRepo.DeleteRegistration(ctx, token); err != nil {
		s.logger.Warnw("Failed to delete registration draft", "error", err)
	}
}

// age returns the number of full years between dob and now
func age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

func validatePasswordPair(password, confirm string) error {
	if password != confirm {
		return apperror.Validation("Passwords do not match")
	}
	if len(password) < 8 {
		return apperror.Validation("Password must be at least 8 characters")
	}
	if len(password) > hash.MaxPasswordBytes {
		return apperror.Validation(fmt.Sprintf("Password must be at most %d bytes", hash.MaxPasswordBytes))
	}
	return nil
}

// verifyResultError maps a rejected verification to the matching error kind
func verifyResultError(result entity.VerifyResult) error {
	if result.Accepted {
		return nil
	}

	switch result.Reason {
	case entity.VerifyReasonExpired:
		return apperror.New(apperror.KindOTPExpired, "OTP expired. Please resend OTP.")
	case entity.VerifyReasonTooManyAttempts:
		return apperror.New(apperror.KindOTPLocked, "Too many failed attempts. Please request a new OTP.")
	default:
		return apperror.New(apperror.KindOTPInvalid, "Invalid OTP")
	}
}
