package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"chatlink-auth/entity"
	"chatlink-auth/pkg/apperror"
	"chatlink-auth/pkg/clock"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/repository"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ProfileService interface defines profile business operations
type ProfileService interface {
	GetProfile(ctx context.Context, userID int) (*entity.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int, req *entity.UpdateProfileRequest) (*entity.UserResponse, error)
	UpdateLearningLanguage(ctx context.Context, userID int, learningLanguage string) (*entity.UserResponse, error)
}

// profileService implements ProfileService interface
type profileService struct {
	userRepo repository.UserRepository
	clock    clock.Clock
	cooldown time.Duration
	logger   *logger.Logger
}

// NewProfileService creates a new profile service instance
func NewProfileService(userRepo repository.UserRepository, clk clock.Clock, cooldown time.Duration, logger *logger.Logger) ProfileService {
	return &profileService{
		userRepo: userRepo,
		clock:    clk,
		cooldown: cooldown,
		logger:   logger,
	}
}

// GetProfile retrieves the profile of a user
func (s *profileService) GetProfile(ctx context.Context, userID int) (*entity.UserResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	return ToUserResponse(user), nil
}

// UpdateProfile applies a full profile edit. A changed learning language is
// subject to the same cooldown as UpdateLearningLanguage.
func (s *profileService) UpdateProfile(ctx context.Context, userID int, req *entity.UpdateProfileRequest) (*entity.UserResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.applyLearningLanguage(user, req.LearningLanguage); err != nil {
		return nil, err
	}

	user.FullName = req.FullName
	user.Gender = req.Gender
	user.Country = req.Country
	user.NativeLanguage = req.NativeLanguage

	return s.save(ctx, user)
}

// UpdateLearningLanguage changes only the learning language
func (s *profileService) UpdateLearningLanguage(ctx context.Context, userID int, learningLanguage string) (*entity.UserResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.applyLearningLanguage(user, learningLanguage); err != nil {
		return nil, err
	}

	return s.save(ctx, user)
}

// applyLearningLanguage sets the field and its timestamp together, or
// returns CooldownActive. Re-submitting the current value is a no-op.
func (s *profileService) applyLearningLanguage(user *entity.User, learningLanguage string) error {
	if learningLanguage == user.LearningLanguage {
		return nil
	}

	now := s.clock.Now()
	if user.LearningLanguageUpdatedAt != nil {
		allowedAt := user.LearningLanguageUpdatedAt.Add(s.cooldown)
		if now.Before(allowedAt) {
			days := remainingDays(allowedAt.Sub(now))
			return apperror.Cooldown(fmt.Sprintf("You can change your learning language again in %d day(s).", days))
		}
	}

	user.LearningLanguage = learningLanguage
	user.LearningLanguageUpdatedAt = &now
	return nil
}

func (s *profileService) load(ctx context.Context, userID int) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Errorw("Failed to get user by ID", "user_id", userID, "error", err)
		return nil, apperror.Internal(err)
	}

	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	return user, nil
}

func (s *profileService) save(ctx context.Context, user *entity.User) (*entity.UserResponse, error) {
	saved, err := s.userRepo.Save(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		s.logger.Errorw("Failed to save profile", "user_id", user.ID, "error", err)
		return nil, apperror.Internal(err)
	}

	s.logger.Infow("Profile updated", "user_id", saved.ID)
	return ToUserResponse(saved), nil
}

func remainingDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}

// ToUserResponse converts User entity to UserResponse
func ToUserResponse(user *entity.User) *entity.UserResponse {
	resp := &entity.UserResponse{
		ID:                        user.ID,
		Username:                  user.Username,
		Email:                     user.Email,
		Phone:                     user.Phone,
		FullName:                  user.FullName,
		Gender:                    user.Gender,
		Country:                   user.Country,
		NativeLanguage:            user.NativeLanguage,
		NativeLanguageName:        LanguageName(user.NativeLanguage),
		LearningLanguage:          user.LearningLanguage,
		LearningLanguageName:      LanguageName(user.LearningLanguage),
		LearningLanguageUpdatedAt: user.LearningLanguageUpdatedAt,
		RegisteredAt:              user.RegisteredAt,
		LastLoginAt:               user.LastLoginAt,
		IsActive:                  user.IsActive,
	}
	if !user.DateOfBirth.IsZero() {
		resp.DateOfBirth = user.DateOfBirth.Format(entity.DateLayout)
	}
	return resp
}

// LanguageName returns the English display name of an ISO 639 code, or "" if unknown.
func LanguageName(code string) string {
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.Languages(language.English).Name(tag)
}
