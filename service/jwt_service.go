package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"chatlink-auth/config"
	"chatlink-auth/entity"
	"chatlink-auth/pkg/clock"
	"chatlink-auth/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService interface defines JWT operations
type JWTService interface {
	GenerateToken(ctx context.Context, user *entity.User) (*entity.AuthResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*JWTClaims, error)
	RevokeToken(ctx context.Context, tokenString string) error
	RevokeAllUserTokens(ctx context.Context, userID int) (int, error)
}

// jwtService implements JWTService interface
type jwtService struct {
	cfg          config.JWT
	clock        clock.Clock
	logger       *logger.Logger
	tokenService *TokenService
}

// JWTClaims represents the JWT claims
type JWTClaims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewJWTService creates a new JWT service instance. A nil token service
// disables server-side revocation.
func NewJWTService(cfg config.JWT, clk clock.Clock, logger *logger.Logger, tokenService *TokenService) JWTService {
	return &jwtService{
		cfg:          cfg,
		clock:        clk,
		logger:       logger,
		tokenService: tokenService,
	}
}

// GenerateToken generates a JWT token for the user
func (s *jwtService) GenerateToken(ctx context.Context, user *entity.User) (*entity.AuthResponse, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.cfg.ExpirationTime)

	claims := JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "chatlink-auth",
			Subject:   fmt.Sprintf("user:%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Errorw("Failed to sign JWT token", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if s.tokenService != nil {
		tokenInfo := &TokenInfo{
			UserID:    user.ID,
			TokenHash: hashToken(tokenString),
			IssuedAt:  now,
			ExpiresAt: expiresAt,
		}

		if err := s.tokenService.StoreToken(ctx, tokenInfo, s.cfg.ExpirationTime); err != nil {
			// Don't fail token generation if Redis storage fails
			s.logger.Warnw("Failed to store token in Redis", "user_id", user.ID, "error", err)
		}
	}

	s.logger.Infow("JWT token generated", "user_id", user.ID, "expires_at", expiresAt)

	return &entity.AuthResponse{
		Token:     tokenString,
		User:      *ToUserResponse(user),
		ExpiresAt: expiresAt,
		Message:   "Authentication successful",
	}, nil
}

// ValidateToken validates a JWT token and returns its claims
func (s *jwtService) ValidateToken(ctx context.Context, tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.clock.Now))

	if err != nil {
		s.logger.Warnw("Failed to validate JWT token", "error", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if s.tokenService != nil {
		if _, err := s.tokenService.ValidateToken(ctx, hashToken(tokenString)); err != nil {
			if errors.Is(err, ErrTokenNotFound) {
				return nil, fmt.Errorf("token session expired")
			}
			return nil, err
		}
	}

	return claims, nil
}

// RevokeToken revokes a specific token (logout)
func (s *jwtService) RevokeToken(ctx context.Context, tokenString string) error {
	if s.tokenService == nil {
		return fmt.Errorf("token service not available")
	}

	return s.tokenService.RevokeToken(ctx, hashToken(tokenString))
}

// RevokeAllUserTokens revokes all tokens for a user (logout from all devices)
func (s *jwtService) RevokeAllUserTokens(ctx context.Context, userID int) (int, error) {
	if s.tokenService == nil {
		return 0, fmt.Errorf("token service not available")
	}

	return s.tokenService.RevokeAllUserTokens(ctx, userID)
}

// hashToken creates a hash of the token for storage in Redis
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
