package service

import (
	"context"

	"chatlink-auth/entity"
	"chatlink-auth/pkg/apperror"
	"chatlink-auth/pkg/hash"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/repository"
)

// AuthService handles password login and logout
type AuthService interface {
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	Logout(ctx context.Context, userID int, tokenString string, logoutAll bool) (*entity.LogoutResponse, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService JWTService
	hasher     hash.PasswordHasher
	logger     *logger.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(userRepo repository.UserRepository, jwtService JWTService, hasher hash.PasswordHasher, logger *logger.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		hasher:     hasher,
		logger:     logger,
	}
}

// Login authenticates by username, email or phone and password
func (s *authService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	user, err := s.userRepo.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		s.logger.Errorw("Failed to get user for login", "error", err)
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound("Account not found. Please register.")
	}

	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		s.logger.Warnw("Invalid password", "user_id", user.ID)
		return nil, apperror.Unauthorized("Invalid password.")
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Errorw("Failed to update last login", "user_id", user.ID, "error", err)
		return nil, apperror.Internal(err)
	}

	resp, err := s.jwtService.GenerateToken(ctx, user)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	resp.Message = "Login successful."

	s.logger.Infow("User logged in", "user_id", user.ID)
	return resp, nil
}

// Logout revokes the presented token, or every token of the user when logoutAll is set
func (s *authService) Logout(ctx context.Context, userID int, tokenString string, logoutAll bool) (*entity.LogoutResponse, error) {
	if logoutAll {
		count, err := s.jwtService.RevokeAllUserTokens(ctx, userID)
		if err != nil {
			s.logger.Errorw("Failed to revoke all tokens", "user_id", userID, "error", err)
			return nil, apperror.Internal(err)
		}

		s.logger.Infow("User logged out from all devices", "user_id", userID)
		return &entity.LogoutResponse{
			Message:       "Successfully logged out from all devices",
			TokensRevoked: count,
		}, nil
	}

	if err := s.jwtService.RevokeToken(ctx, tokenString); err != nil {
		s.logger.Errorw("Failed to revoke token", "user_id", userID, "error", err)
		return nil, apperror.Internal(err)
	}

	s.logger.Infow("User logged out", "user_id", userID)
	return &entity.LogoutResponse{
		Message:       "Successfully logged out",
		TokensRevoked: 1,
	}, nil
}
